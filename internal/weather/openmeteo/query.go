package openmeteo

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

// DefaultTimezone lets the provider derive the timezone from the coordinates.
const DefaultTimezone = "auto"

// Query describes one forecast request. It is immutable: every With method
// returns a new Query and leaves the receiver untouched.
type Query struct {
	coords       weather.Coordinates
	current      []weather.CurrentField
	hourly       []weather.HourlyField
	units        *weather.Units
	forecastDays int
	timezone     string
}

// NewQuery starts a query for coords with no fields requested.
func NewQuery(coords weather.Coordinates) Query {
	return Query{coords: coords}
}

// WithCurrent appends current fields, keeping the order given.
func (q Query) WithCurrent(fields ...weather.CurrentField) Query {
	out := q.copy()
	out.current = append(out.current, fields...)
	return out
}

// WithHourly appends hourly fields, keeping the order given.
func (q Query) WithHourly(fields ...weather.HourlyField) Query {
	out := q.copy()
	out.hourly = append(out.hourly, fields...)
	return out
}

// WithUnits sets the unit preference.
func (q Query) WithUnits(units weather.Units) Query {
	out := q.copy()
	out.units = &units
	return out
}

// WithForecastDays sets the horizon, clamped to [1, weather.MaxForecastDays].
func (q Query) WithForecastDays(days int) Query {
	if days < 1 {
		days = 1
	}
	if days > weather.MaxForecastDays {
		days = weather.MaxForecastDays
	}
	out := q.copy()
	out.forecastDays = days
	return out
}

// WithTimezone sets an IANA timezone. An empty string restores "auto".
func (q Query) WithTimezone(tz string) Query {
	out := q.copy()
	out.timezone = tz
	return out
}

func (q Query) copy() Query {
	out := q
	out.current = append([]weather.CurrentField(nil), q.current...)
	out.hourly = append([]weather.HourlyField(nil), q.hourly...)
	if q.units != nil {
		u := *q.units
		out.units = &u
	}
	return out
}

func (q Query) Coordinates() weather.Coordinates { return q.coords }

func (q Query) CurrentFields() []weather.CurrentField {
	return append([]weather.CurrentField(nil), q.current...)
}

func (q Query) HourlyFields() []weather.HourlyField {
	return append([]weather.HourlyField(nil), q.hourly...)
}

// Units returns the unit preference, or the provider defaults if none was set.
func (q Query) Units() weather.Units {
	if q.units == nil {
		return weather.DefaultUnits()
	}
	return *q.units
}

// ForecastDays returns the horizon, 0 if unset.
func (q Query) ForecastDays() int { return q.forecastDays }

// Timezone returns the configured timezone or DefaultTimezone.
func (q Query) Timezone() string {
	if q.timezone == "" {
		return DefaultTimezone
	}
	return q.timezone
}

// Encode renders the query string. Parameters and fields keep a fixed order
// so that equal queries encode identically. Unit parameters are emitted only
// when they differ from the provider defaults.
func (q Query) Encode() string {
	var b strings.Builder

	b.WriteString("latitude=")
	b.WriteString(formatCoord(q.coords.Latitude))
	b.WriteString("&longitude=")
	b.WriteString(formatCoord(q.coords.Longitude))

	b.WriteString("&timezone=")
	b.WriteString(url.QueryEscape(q.Timezone()))

	if q.forecastDays > 0 {
		b.WriteString("&forecast_days=")
		b.WriteString(strconv.Itoa(q.forecastDays))
	}

	if len(q.current) > 0 {
		b.WriteString("&current=")
		for _, f := range q.current {
			b.WriteString(",")
			b.WriteString(f.WireName())
		}
	}

	if len(q.hourly) > 0 {
		b.WriteString("&hourly=")
		for _, f := range q.hourly {
			b.WriteString(",")
			b.WriteString(f.WireName())
		}
	}

	if q.units != nil {
		def := weather.DefaultUnits()
		if q.units.Speed != def.Speed {
			b.WriteString("&wind_speed_unit=")
			b.WriteString(q.units.Speed.WireName())
		}
		if q.units.Temperature != def.Temperature {
			b.WriteString("&temperature_unit=")
			b.WriteString(q.units.Temperature.WireName())
		}
		if q.units.Precipitation != def.Precipitation {
			b.WriteString("&precipitation_unit=")
			b.WriteString(q.units.Precipitation.WireName())
		}
	}

	return b.String()
}

// URL joins the encoded query to an endpoint.
func (q Query) URL(endpoint string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
