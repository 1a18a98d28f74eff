package weather

import (
	"fmt"
	"strings"
)

// SpeedUnit is the unit wind speeds are requested and reported in.
type SpeedUnit int

const (
	Kmh SpeedUnit = iota
	Ms
	Mph
	Knots
)

// TemperatureUnit is the unit temperatures are requested and reported in.
type TemperatureUnit int

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
)

// LengthUnit is the unit precipitation amounts are requested and reported in.
type LengthUnit int

const (
	Millimeter LengthUnit = iota
	Inch
)

var speedUnits = []struct {
	unit    SpeedUnit
	wire    string
	display string
}{
	{Kmh, "kmh", "km/h"},
	{Ms, "ms", "m/s"},
	{Mph, "mph", "mph"},
	{Knots, "kn", "kn"},
}

var temperatureUnits = []struct {
	unit    TemperatureUnit
	wire    string
	display string
}{
	{Celsius, "celsius", "°C"},
	{Fahrenheit, "fahrenheit", "°F"},
}

var lengthUnits = []struct {
	unit    LengthUnit
	wire    string
	display string
}{
	{Millimeter, "mm", "mm"},
	{Inch, "inch", "in"},
}

// WireName returns the name the forecast provider expects in a query.
func (u SpeedUnit) WireName() string {
	for _, s := range speedUnits {
		if s.unit == u {
			return s.wire
		}
	}
	return speedUnits[0].wire
}

// Symbol returns the display symbol, e.g. "km/h".
func (u SpeedUnit) Symbol() string {
	for _, s := range speedUnits {
		if s.unit == u {
			return s.display
		}
	}
	return speedUnits[0].display
}

func (u SpeedUnit) String() string { return u.Symbol() }

func (u TemperatureUnit) WireName() string {
	for _, t := range temperatureUnits {
		if t.unit == u {
			return t.wire
		}
	}
	return temperatureUnits[0].wire
}

func (u TemperatureUnit) Symbol() string {
	for _, t := range temperatureUnits {
		if t.unit == u {
			return t.display
		}
	}
	return temperatureUnits[0].display
}

func (u TemperatureUnit) String() string { return u.Symbol() }

func (u LengthUnit) WireName() string {
	for _, l := range lengthUnits {
		if l.unit == u {
			return l.wire
		}
	}
	return lengthUnits[0].wire
}

func (u LengthUnit) Symbol() string {
	for _, l := range lengthUnits {
		if l.unit == u {
			return l.display
		}
	}
	return lengthUnits[0].display
}

func (u LengthUnit) String() string { return u.Symbol() }

// ParseSpeedUnit accepts a wire name ("kmh", "ms", "mph", "kn").
func ParseSpeedUnit(s string) (SpeedUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range speedUnits {
		if u.wire == s {
			return u.unit, nil
		}
	}
	return Kmh, fmt.Errorf("unknown speed unit %q", s)
}

// ParseTemperatureUnit accepts a wire name ("celsius", "fahrenheit").
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range temperatureUnits {
		if u.wire == s {
			return u.unit, nil
		}
	}
	return Celsius, fmt.Errorf("unknown temperature unit %q", s)
}

// ParseLengthUnit accepts a wire name ("mm", "inch").
func ParseLengthUnit(s string) (LengthUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range lengthUnits {
		if u.wire == s {
			return u.unit, nil
		}
	}
	return Millimeter, fmt.Errorf("unknown precipitation unit %q", s)
}

// Unit types marshal to their wire names so that an encoded Operation can be
// decoded and replayed.

func (u SpeedUnit) MarshalText() ([]byte, error) { return []byte(u.WireName()), nil }

func (u *SpeedUnit) UnmarshalText(b []byte) (err error) {
	*u, err = ParseSpeedUnit(string(b))
	return err
}

func (u TemperatureUnit) MarshalText() ([]byte, error) { return []byte(u.WireName()), nil }

func (u *TemperatureUnit) UnmarshalText(b []byte) (err error) {
	*u, err = ParseTemperatureUnit(string(b))
	return err
}

func (u LengthUnit) MarshalText() ([]byte, error) { return []byte(u.WireName()), nil }

func (u *LengthUnit) UnmarshalText(b []byte) (err error) {
	*u, err = ParseLengthUnit(string(b))
	return err
}

// Units bundles the unit preference threaded through a request and every
// record parsed from its response. The zero value is the provider default
// (km/h, Celsius, millimeters).
type Units struct {
	Speed         SpeedUnit       `json:"speed"`
	Temperature   TemperatureUnit `json:"temperature"`
	Precipitation LengthUnit      `json:"precipitation"`
}

// DefaultUnits returns the provider's own defaults.
func DefaultUnits() Units {
	return Units{Speed: Kmh, Temperature: Celsius, Precipitation: Millimeter}
}

// ParseUnits builds Units from wire names. Empty strings keep the default.
func ParseUnits(speed, temperature, precipitation string) (Units, error) {
	u := DefaultUnits()
	var err error
	if speed != "" {
		if u.Speed, err = ParseSpeedUnit(speed); err != nil {
			return u, err
		}
	}
	if temperature != "" {
		if u.Temperature, err = ParseTemperatureUnit(temperature); err != nil {
			return u, err
		}
	}
	if precipitation != "" {
		if u.Precipitation, err = ParseLengthUnit(precipitation); err != nil {
			return u, err
		}
	}
	return u, nil
}
