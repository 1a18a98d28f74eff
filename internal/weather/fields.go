package weather

import (
	"fmt"
	"strings"
)

// PrecipitationKind selects which precipitation amount is requested.
type PrecipitationKind int

const (
	PrecipitationCombined PrecipitationKind = iota
	PrecipitationRain
	PrecipitationShowers
	PrecipitationSnowfall
)

// Variable is a single forecast variable. It is the unit both field
// families are built from; its wire name is looked up in one table so that
// query building and response parsing can never disagree.
type Variable int

const (
	VarTemperature Variable = iota
	VarApparentTemperature
	VarHumidity
	VarIsDaytime
	VarPrecipitation
	VarRain
	VarShowers
	VarSnowfall
	VarPrecipitationProbability
	VarWeatherCode
	VarWindSpeed
	VarWindDirection
)

// ValueType is the primitive a variable is coerced to when parsed.
type ValueType int

const (
	FloatValue ValueType = iota
	// UintValue is an integer in 0..255.
	UintValue
	// BoolIntValue is a boolean the provider encodes as 0/1.
	BoolIntValue
)

var variables = []struct {
	v    Variable
	wire string
	kind ValueType
}{
	{VarTemperature, "temperature_2m", FloatValue},
	{VarApparentTemperature, "apparent_temperature", FloatValue},
	{VarHumidity, "relative_humidity_2m", UintValue},
	{VarIsDaytime, "is_day", BoolIntValue},
	{VarPrecipitation, "precipitation", FloatValue},
	{VarRain, "rain", FloatValue},
	{VarShowers, "showers", FloatValue},
	{VarSnowfall, "snowfall", FloatValue},
	{VarPrecipitationProbability, "precipitation_probability", UintValue},
	{VarWeatherCode, "weather_code", UintValue},
	{VarWindSpeed, "wind_speed_10m", FloatValue},
	{VarWindDirection, "wind_direction_10m", FloatValue},
}

// WireName returns the provider parameter and response key of v.
func (v Variable) WireName() string {
	if int(v) < 0 || int(v) >= len(variables) {
		return ""
	}
	return variables[v].wire
}

// ValueType returns how the parser coerces v.
func (v Variable) ValueType() ValueType {
	if int(v) < 0 || int(v) >= len(variables) {
		return FloatValue
	}
	return variables[v].kind
}

func (v Variable) String() string { return v.WireName() }

func variableByWire(name string) (Variable, bool) {
	name = strings.TrimSpace(name)
	for _, e := range variables {
		if e.wire == name {
			return e.v, true
		}
	}
	return 0, false
}

func precipitationVariable(k PrecipitationKind) Variable {
	switch k {
	case PrecipitationRain:
		return VarRain
	case PrecipitationShowers:
		return VarShowers
	case PrecipitationSnowfall:
		return VarSnowfall
	default:
		return VarPrecipitation
	}
}

// CurrentField is a variable that can be requested for current conditions.
type CurrentField struct{ v Variable }

var (
	CurrentTemperature         = CurrentField{VarTemperature}
	CurrentApparentTemperature = CurrentField{VarApparentTemperature}
	CurrentHumidity            = CurrentField{VarHumidity}
	CurrentIsDaytime           = CurrentField{VarIsDaytime}
	CurrentWeatherCode         = CurrentField{VarWeatherCode}
	CurrentWindSpeed           = CurrentField{VarWindSpeed}
	CurrentWindDirection       = CurrentField{VarWindDirection}
)

// CurrentPrecipitation requests a precipitation amount of the given kind.
func CurrentPrecipitation(k PrecipitationKind) CurrentField {
	return CurrentField{precipitationVariable(k)}
}

func (f CurrentField) Variable() Variable { return f.v }
func (f CurrentField) WireName() string { return f.v.WireName() }
func (f CurrentField) String() string { return f.v.WireName() }

// ParseCurrentField resolves a wire name to a CurrentField.
func ParseCurrentField(name string) (CurrentField, error) {
	v, ok := variableByWire(name)
	if !ok || v == VarPrecipitationProbability {
		return CurrentField{}, fmt.Errorf("unsupported current field %q", name)
	}
	return CurrentField{v}, nil
}

// HourlyField is a variable that can be requested for an hourly forecast.
type HourlyField struct{ v Variable }

var (
	HourlyTemperature              = HourlyField{VarTemperature}
	HourlyApparentTemperature      = HourlyField{VarApparentTemperature}
	HourlyHumidity                 = HourlyField{VarHumidity}
	HourlyIsDaytime                = HourlyField{VarIsDaytime}
	HourlyPrecipitationProbability = HourlyField{VarPrecipitationProbability}
	HourlyWeatherCode              = HourlyField{VarWeatherCode}
	HourlyWindSpeed                = HourlyField{VarWindSpeed}
	HourlyWindDirection            = HourlyField{VarWindDirection}
)

// HourlyPrecipitation requests an hourly precipitation amount of the given kind.
func HourlyPrecipitation(k PrecipitationKind) HourlyField {
	return HourlyField{precipitationVariable(k)}
}

func (f HourlyField) Variable() Variable { return f.v }
func (f HourlyField) WireName() string { return f.v.WireName() }
func (f HourlyField) String() string { return f.v.WireName() }

// ParseHourlyField resolves a wire name to an HourlyField.
func ParseHourlyField(name string) (HourlyField, error) {
	v, ok := variableByWire(name)
	if !ok {
		return HourlyField{}, fmt.Errorf("unsupported hourly field %q", name)
	}
	return HourlyField{v}, nil
}

func (f CurrentField) MarshalText() ([]byte, error) { return []byte(f.WireName()), nil }

func (f *CurrentField) UnmarshalText(b []byte) (err error) {
	*f, err = ParseCurrentField(string(b))
	return err
}

func (f HourlyField) MarshalText() ([]byte, error) { return []byte(f.WireName()), nil }

func (f *HourlyField) UnmarshalText(b []byte) (err error) {
	*f, err = ParseHourlyField(string(b))
	return err
}

// CurrentVariables flattens fields into variables, preserving order.
func CurrentVariables(fields []CurrentField) []Variable {
	vars := make([]Variable, len(fields))
	for i, f := range fields {
		vars[i] = f.v
	}
	return vars
}

// HourlyVariables flattens fields into variables, preserving order.
func HourlyVariables(fields []HourlyField) []Variable {
	vars := make([]Variable, len(fields))
	for i, f := range fields {
		vars[i] = f.v
	}
	return vars
}
