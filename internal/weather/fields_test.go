package weather

import (
	"encoding/json"
	"testing"

	"github.com/tj/assert"
)

func TestFieldWireNames(t *testing.T) {
	current := map[CurrentField]string{
		CurrentTemperature:                          "temperature_2m",
		CurrentApparentTemperature:                  "apparent_temperature",
		CurrentHumidity:                             "relative_humidity_2m",
		CurrentIsDaytime:                            "is_day",
		CurrentPrecipitation(PrecipitationCombined): "precipitation",
		CurrentPrecipitation(PrecipitationRain):     "rain",
		CurrentPrecipitation(PrecipitationShowers):  "showers",
		CurrentPrecipitation(PrecipitationSnowfall): "snowfall",
		CurrentWeatherCode:                          "weather_code",
		CurrentWindSpeed:                            "wind_speed_10m",
		CurrentWindDirection:                        "wind_direction_10m",
	}
	for f, wire := range current {
		assert.Equal(t, wire, f.WireName())
		parsed, err := ParseCurrentField(wire)
		assert.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	assert.Equal(t, "precipitation_probability", HourlyPrecipitationProbability.WireName())
	assert.Equal(t, "rain", HourlyPrecipitation(PrecipitationRain).WireName())
	for _, wire := range current {
		f, err := ParseHourlyField(wire)
		assert.NoError(t, err)
		assert.Equal(t, wire, f.WireName())
	}
}

func TestParseFieldRejects(t *testing.T) {
	_, err := ParseCurrentField("precipitation_probability")
	assert.Error(t, err)

	_, err = ParseCurrentField("cloud_cover")
	assert.Error(t, err)

	_, err = ParseHourlyField("")
	assert.Error(t, err)

	f, err := ParseHourlyField("precipitation_probability")
	assert.NoError(t, err)
	assert.Equal(t, HourlyPrecipitationProbability, f)
}

func TestFieldListsKeepOrder(t *testing.T) {
	vars := CurrentVariables([]CurrentField{CurrentWindSpeed, CurrentTemperature, CurrentIsDaytime})
	assert.Equal(t, []Variable{VarWindSpeed, VarTemperature, VarIsDaytime}, vars)

	vars = HourlyVariables([]HourlyField{HourlyPrecipitationProbability, HourlyWeatherCode})
	assert.Equal(t, []Variable{VarPrecipitationProbability, VarWeatherCode}, vars)
}

func TestValueTypes(t *testing.T) {
	assert.Equal(t, FloatValue, VarTemperature.ValueType())
	assert.Equal(t, UintValue, VarHumidity.ValueType())
	assert.Equal(t, UintValue, VarWeatherCode.ValueType())
	assert.Equal(t, UintValue, VarPrecipitationProbability.ValueType())
	assert.Equal(t, BoolIntValue, VarIsDaytime.ValueType())
}

func TestFieldsJSON(t *testing.T) {
	in := []HourlyField{HourlyTemperature, HourlyPrecipitation(PrecipitationSnowfall)}
	b, err := json.Marshal(in)
	assert.NoError(t, err)
	assert.Equal(t, `["temperature_2m","snowfall"]`, string(b))

	var out []HourlyField
	assert.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var bad []CurrentField
	assert.Error(t, json.Unmarshal([]byte(`["precipitation_probability"]`), &bad))
}
