package weather

import (
	"math"
	"strconv"
)

// Temperature is a reading in the unit it was reported in. It is never
// converted implicitly.
type Temperature struct {
	Value float64         `json:"value"`
	Unit  TemperatureUnit `json:"unit"`
}

func (t Temperature) String() string {
	return formatFloat(t.Value) + t.Unit.Symbol()
}

// Humidity is a relative humidity percentage as reported by the provider.
type Humidity uint8

func (h Humidity) String() string {
	return strconv.Itoa(int(h)) + "%"
}

// Wind holds the requested wind readings. A nil pointer means the reading
// was not requested.
type Wind struct {
	Speed     *float64  `json:"speed,omitempty"`
	Direction *float64  `json:"direction,omitempty"`
	Unit      SpeedUnit `json:"unit"`
}

// SpeedString renders the speed with its unit symbol, or "" when speed was
// not requested.
func (w Wind) SpeedString() string {
	if w.Speed == nil {
		return ""
	}
	return formatFloat(*w.Speed) + w.Unit.Symbol()
}

// DirectionString renders the direction as one of eight compass sectors, or
// "" when direction was not requested.
func (w Wind) DirectionString() string {
	if w.Direction == nil {
		return ""
	}
	return CompassSector(*w.Direction)
}

func (w Wind) String() string {
	switch {
	case w.Speed != nil && w.Direction != nil:
		return w.SpeedString() + " " + w.DirectionString()
	case w.Speed != nil:
		return w.SpeedString()
	default:
		return w.DirectionString()
	}
}

var compassSectors = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassSector maps degrees to one of eight sectors. Each sector covers
// [center-22.5, center+22.5); input wraps modulo 360, negatives included.
func CompassSector(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+22.5)/45)) % len(compassSectors)
	return compassSectors[idx]
}

// Precipitation holds the requested precipitation readings in one length
// unit. Probability is a percentage and only exists in hourly forecasts.
type Precipitation struct {
	Combined    *float64   `json:"combined,omitempty"`
	Rain        *float64   `json:"rain,omitempty"`
	Showers     *float64   `json:"showers,omitempty"`
	Snowfall    *float64   `json:"snowfall,omitempty"`
	Probability *uint8     `json:"probability,omitempty"`
	Unit        LengthUnit `json:"unit"`
}

// Amount returns the reading of kind k.
func (p Precipitation) Amount(k PrecipitationKind) (float64, bool) {
	var v *float64
	switch k {
	case PrecipitationRain:
		v = p.Rain
	case PrecipitationShowers:
		v = p.Showers
	case PrecipitationSnowfall:
		v = p.Snowfall
	default:
		v = p.Combined
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// AmountString renders the reading of kind k with its unit, or "" if absent.
func (p Precipitation) AmountString(k PrecipitationKind) string {
	v, ok := p.Amount(k)
	if !ok {
		return ""
	}
	return formatFloat(v) + p.Unit.Symbol()
}

// ProbabilityString renders the probability, or "" if absent.
func (p Precipitation) ProbabilityString() string {
	if p.Probability == nil {
		return ""
	}
	return strconv.Itoa(int(*p.Probability)) + "%"
}

func (p Precipitation) empty() bool {
	return p.Combined == nil && p.Rain == nil && p.Showers == nil &&
		p.Snowfall == nil && p.Probability == nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
