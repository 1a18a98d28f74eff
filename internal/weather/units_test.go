package weather

import (
	"encoding/json"
	"testing"

	"github.com/tj/assert"
)

func TestUnitNames(t *testing.T) {
	speed := []struct {
		unit          SpeedUnit
		wire, display string
	}{
		{Kmh, "kmh", "km/h"},
		{Ms, "ms", "m/s"},
		{Mph, "mph", "mph"},
		{Knots, "kn", "kn"},
	}
	for _, tc := range speed {
		assert.Equal(t, tc.wire, tc.unit.WireName())
		assert.Equal(t, tc.display, tc.unit.String())
		parsed, err := ParseSpeedUnit(tc.wire)
		assert.NoError(t, err)
		assert.Equal(t, tc.unit, parsed)
	}

	assert.Equal(t, "celsius", Celsius.WireName())
	assert.Equal(t, "°C", Celsius.String())
	assert.Equal(t, "fahrenheit", Fahrenheit.WireName())
	assert.Equal(t, "°F", Fahrenheit.String())

	assert.Equal(t, "mm", Millimeter.WireName())
	assert.Equal(t, "mm", Millimeter.String())
	assert.Equal(t, "inch", Inch.WireName())
	assert.Equal(t, "in", Inch.String())
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits("", "", "")
	assert.NoError(t, err)
	assert.Equal(t, DefaultUnits(), u)
	assert.Equal(t, Units{}, u)

	u, err = ParseUnits("kn", "Fahrenheit", " inch ")
	assert.NoError(t, err)
	assert.Equal(t, Units{Speed: Knots, Temperature: Fahrenheit, Precipitation: Inch}, u)

	_, err = ParseUnits("knots", "", "")
	assert.Error(t, err)
	_, err = ParseUnits("", "kelvin", "")
	assert.Error(t, err)
	_, err = ParseUnits("", "", "cm")
	assert.Error(t, err)
}

func TestUnitsJSON(t *testing.T) {
	u := Units{Speed: Mph, Temperature: Fahrenheit, Precipitation: Inch}
	b, err := json.Marshal(u)
	assert.NoError(t, err)
	assert.Equal(t, `{"speed":"mph","temperature":"fahrenheit","precipitation":"inch"}`, string(b))

	var back Units
	assert.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, u, back)
}
