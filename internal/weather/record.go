package weather

import (
	"fmt"
	"time"
)

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinates returns a point. Ranges are not validated.
func NewCoordinates(latitude, longitude float64) Coordinates {
	return Coordinates{Latitude: latitude, Longitude: longitude}
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s,%s", formatFloat(c.Latitude), formatFloat(c.Longitude))
}

// Record is the weather at one point in time. Current conditions and every
// hour of a forecast share this shape. Each optional field is set if and only
// if it was requested.
type Record struct {
	Coordinates         Coordinates    `json:"coordinates"`
	Timestamp           time.Time      `json:"timestamp"`
	Temperature         *Temperature   `json:"temperature,omitempty"`
	ApparentTemperature *Temperature   `json:"apparent_temperature,omitempty"`
	Humidity            *Humidity      `json:"humidity,omitempty"`
	IsDaytime           *bool          `json:"is_daytime,omitempty"`
	Precipitation       *Precipitation `json:"precipitation,omitempty"`
	WeatherCode         *WeatherCode   `json:"weather_code,omitempty"`
	Wind                *Wind          `json:"wind,omitempty"`
}

// CurrentWeather and HourlyWeather name the two uses of Record.
type (
	CurrentWeather = Record
	HourlyWeather  = Record
)

// Sample holds the primitives parsed for one point in time, keyed by the
// variable they were requested as. Unsigned and 0/1 boolean values are
// stored as their numeric value.
type Sample map[Variable]float64

// Assemble composes a Record from a Sample. Only variables present in vars
// are read; every one of them must be present in s. units must be the value
// the request was built with since responses carry no unit metadata.
func Assemble(coords Coordinates, ts time.Time, units Units, vars []Variable, s Sample) (Record, error) {
	rec := Record{Coordinates: coords, Timestamp: ts}

	var (
		wind    Wind
		precip  Precipitation
		hasWind bool
	)
	wind.Unit = units.Speed
	precip.Unit = units.Precipitation

	for _, v := range vars {
		val, ok := s[v]
		if !ok {
			return Record{}, MissingFieldError(v.WireName())
		}

		switch v {
		case VarTemperature:
			rec.Temperature = &Temperature{Value: val, Unit: units.Temperature}
		case VarApparentTemperature:
			rec.ApparentTemperature = &Temperature{Value: val, Unit: units.Temperature}
		case VarHumidity:
			h := Humidity(val)
			rec.Humidity = &h
		case VarIsDaytime:
			day := val != 0
			rec.IsDaytime = &day
		case VarPrecipitation:
			precip.Combined = &val
		case VarRain:
			precip.Rain = &val
		case VarShowers:
			precip.Showers = &val
		case VarSnowfall:
			precip.Snowfall = &val
		case VarPrecipitationProbability:
			p := uint8(val)
			precip.Probability = &p
		case VarWeatherCode:
			wc, ok := ParseWeatherCode(int(val))
			if !ok {
				return Record{}, &Error{
					Kind:  KindDeserialization,
					Field: v.WireName(),
					Err:   fmt.Errorf("unsupported weather code %d", int(val)),
				}
			}
			rec.WeatherCode = &wc
		case VarWindSpeed:
			wind.Speed = &val
			hasWind = true
		case VarWindDirection:
			wind.Direction = &val
			hasWind = true
		}
	}

	if hasWind {
		rec.Wind = &wind
	}
	if !precip.empty() {
		rec.Precipitation = &precip
	}
	return rec, nil
}
