package openmeteo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/umahmood/haversine"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

const (
	keyCurrent   = "current"
	keyHourly    = "hourly"
	keyTime      = "time"
	keyUTCOffset = "utc_offset_seconds"
)

// timeLayouts are the naive local formats the provider uses for timestamps.
var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// Response is a decoded forecast payload. Sections are kept raw so that only
// requested fields are ever coerced. Grid metadata is informational and
// never fails a parse.
type Response struct {
	Latitude  json.RawMessage            `json:"latitude"`
	Longitude json.RawMessage            `json:"longitude"`
	Elevation json.RawMessage            `json:"elevation"`
	Timezone  json.RawMessage            `json:"timezone"`
	UTCOffset json.RawMessage            `json:"utc_offset_seconds"`
	Current   map[string]json.RawMessage `json:"current"`
	Hourly    map[string]json.RawMessage `json:"hourly"`
}

// Grid describes the model cell the provider answered for.
type Grid struct {
	Latitude   float64
	Longitude  float64
	Elevation  float64
	DistanceKm float64
}

// Decode parses a response body without interpreting any field.
func Decode(body []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, weather.NewError(weather.KindDeserialization, fmt.Errorf("decode response: %w", err))
	}
	return &r, nil
}

// Grid returns the answering grid cell and its distance to requested. ok is
// false if the response lacks usable coordinates. A malformed elevation is
// reported as zero.
func (r *Response) Grid(requested weather.Coordinates) (Grid, bool) {
	lat, okLat := number(r.Latitude)
	lon, okLon := number(r.Longitude)
	if !okLat || !okLon {
		return Grid{}, false
	}
	g := Grid{Latitude: lat, Longitude: lon}
	g.Elevation, _ = number(r.Elevation)
	_, g.DistanceKm = haversine.Distance(
		haversine.Coord{Lat: requested.Latitude, Lon: requested.Longitude},
		haversine.Coord{Lat: g.Latitude, Lon: g.Longitude},
	)
	return g, true
}

// TimezoneName returns the IANA zone the provider resolved, or "" if absent
// or malformed.
func (r *Response) TimezoneName() string {
	var tz string
	if json.Unmarshal(r.Timezone, &tz) != nil {
		return ""
	}
	return tz
}

func number(raw json.RawMessage) (float64, bool) {
	lit := bytes.TrimSpace(raw)
	if !isNumberLiteral(lit) {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(lit), 64)
	return f, err == nil
}

// ParseCurrent extracts the current fields requested by q.
func (r *Response) ParseCurrent(q Query) (weather.Record, error) {
	if r.Current == nil {
		return weather.Record{}, weather.MissingFieldError(keyCurrent)
	}
	loc, err := r.location()
	if err != nil {
		return weather.Record{}, err
	}

	rawTime, ok := r.Current[keyTime]
	if !ok {
		return weather.Record{}, weather.MissingFieldError(keyTime)
	}
	var ts string
	if err := json.Unmarshal(rawTime, &ts); err != nil {
		return weather.Record{}, &weather.Error{Kind: weather.KindTimeParse, Field: keyTime, Err: err}
	}
	at, err := parseLocalTime(ts, loc)
	if err != nil {
		return weather.Record{}, err
	}

	vars := weather.CurrentVariables(q.current)
	sample, err := extract(vars, func(v weather.Variable) (json.RawMessage, error) {
		raw, ok := r.Current[v.WireName()]
		if !ok {
			return nil, weather.MissingFieldError(v.WireName())
		}
		return raw, nil
	})
	if err != nil {
		return weather.Record{}, err
	}

	return weather.Assemble(q.coords, at, q.Units(), vars, sample)
}

// ParseHourly extracts hours consecutive records of the hourly fields
// requested by q, starting at the hour that contains from. A zero from starts
// at the first hour of the response. Every field array is read by the same
// index as the time array; there is no per-field timestamp matching.
func (r *Response) ParseHourly(q Query, from time.Time, hours int) ([]weather.Record, error) {
	if r.Hourly == nil {
		return nil, weather.MissingFieldError(keyHourly)
	}
	if hours <= 0 {
		return nil, weather.Errorf(weather.KindOther, "hours must be positive, got %d", hours)
	}
	loc, err := r.location()
	if err != nil {
		return nil, err
	}

	rawTimes, ok := r.Hourly[keyTime]
	if !ok {
		return nil, weather.MissingFieldError(keyTime)
	}
	var times []string
	if err := json.Unmarshal(rawTimes, &times); err != nil {
		return nil, &weather.Error{Kind: weather.KindTimeParse, Field: keyTime, Err: err}
	}
	start, err := firstHourFrom(times, loc, from)
	if err != nil {
		return nil, err
	}
	if len(times)-start < hours {
		return nil, &weather.Error{
			Kind:  weather.KindDeserialization,
			Field: keyTime,
			Err:   fmt.Errorf("response covers %d hours from index %d, %d requested", len(times)-start, start, hours),
		}
	}

	vars := weather.HourlyVariables(q.hourly)
	columns := make(map[weather.Variable][]json.RawMessage, len(vars))
	for _, v := range vars {
		if _, done := columns[v]; done {
			continue
		}
		raw, ok := r.Hourly[v.WireName()]
		if !ok {
			return nil, weather.MissingFieldError(v.WireName())
		}
		var col []json.RawMessage
		if err := json.Unmarshal(raw, &col); err != nil {
			return nil, &weather.Error{
				Kind:  weather.KindDeserialization,
				Field: v.WireName(),
				Err:   fmt.Errorf("expected an array: %w", err),
			}
		}
		if len(col) < start+hours {
			return nil, &weather.Error{
				Kind:  weather.KindDeserialization,
				Field: v.WireName(),
				Err:   fmt.Errorf("has %d values, %d needed", len(col), start+hours),
			}
		}
		columns[v] = col
	}

	units := q.Units()
	records := make([]weather.Record, 0, hours)
	var prev time.Time
	for i := start; i < start+hours; i++ {
		at, err := parseLocalTime(times[i], loc)
		if err != nil {
			return nil, err
		}
		if i > start && !at.After(prev) {
			return nil, &weather.Error{
				Kind:  weather.KindTimeParse,
				Field: keyTime,
				Err:   fmt.Errorf("timestamp %q does not follow %s", times[i], prev.Format(time.RFC3339)),
			}
		}
		prev = at

		idx := i
		sample, err := extract(vars, func(v weather.Variable) (json.RawMessage, error) {
			return columns[v][idx], nil
		})
		if err != nil {
			return nil, err
		}

		rec, err := weather.Assemble(q.coords, at, units, vars, sample)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// firstHourFrom returns the index of the hour slot containing from: the first
// timestamp later than one hour before from.
func firstHourFrom(times []string, loc *time.Location, from time.Time) (int, error) {
	if from.IsZero() {
		return 0, nil
	}
	cutoff := from.Add(-time.Hour)
	for i, ts := range times {
		at, err := parseLocalTime(ts, loc)
		if err != nil {
			return 0, err
		}
		if at.After(cutoff) {
			return i, nil
		}
	}
	return 0, &weather.Error{
		Kind:  weather.KindDeserialization,
		Field: keyTime,
		Err:   fmt.Errorf("no hour at or after %s", from.Format(time.RFC3339)),
	}
}

// extract coerces the value of every variable in vars, and only those.
func extract(vars []weather.Variable, lookup func(weather.Variable) (json.RawMessage, error)) (weather.Sample, error) {
	sample := make(weather.Sample, len(vars))
	for _, v := range vars {
		raw, err := lookup(v)
		if err != nil {
			return nil, err
		}
		val, err := coerce(v, raw)
		if err != nil {
			return nil, err
		}
		sample[v] = val
	}
	return sample, nil
}

// coerce converts a raw JSON value to the primitive v is parsed as.
func coerce(v weather.Variable, raw json.RawMessage) (float64, error) {
	fail := func(format string, args ...interface{}) error {
		return &weather.Error{
			Kind:  weather.KindDeserialization,
			Field: v.WireName(),
			Err:   fmt.Errorf(format, args...),
		}
	}

	lit := bytes.TrimSpace(raw)
	if !isNumberLiteral(lit) {
		return 0, fail("expected a number, got %s", truncate(lit))
	}
	f, err := strconv.ParseFloat(string(lit), 64)
	if err != nil {
		return 0, fail("%v", err)
	}

	switch v.ValueType() {
	case weather.UintValue:
		if f < 0 || f != math.Trunc(f) {
			return 0, fail("expected an unsigned integer, got %s", lit)
		}
		if f > math.MaxUint8 {
			return 0, fail("value %s out of range 0..%d", lit, math.MaxUint8)
		}
		return f, nil
	case weather.BoolIntValue:
		// 0/1 encoded; any nonzero value reads as true.
		if f != 0 {
			return 1, nil
		}
		return 0, nil
	default:
		return f, nil
	}
}

func isNumberLiteral(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	c := b[0]
	return c == '-' || (c >= '0' && c <= '9')
}

func truncate(b []byte) string {
	const limit = 32
	if len(b) == 0 {
		return "nothing"
	}
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// location builds the fixed zone of the whole response from its UTC offset.
func (r *Response) location() (*time.Location, error) {
	if len(r.UTCOffset) == 0 {
		return nil, weather.MissingFieldError(keyUTCOffset)
	}
	lit := bytes.TrimSpace(r.UTCOffset)
	if !isNumberLiteral(lit) {
		return nil, &weather.Error{
			Kind:  weather.KindTimeParse,
			Field: keyUTCOffset,
			Err:   fmt.Errorf("expected integer seconds, got %s", truncate(lit)),
		}
	}
	secs, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return nil, &weather.Error{Kind: weather.KindTimeParse, Field: keyUTCOffset, Err: err}
	}
	return FixedZone(secs)
}

// FixedZone converts an offset in seconds east of UTC to a location named
// like "+02:00". Sign and magnitude are handled separately so east and west
// offsets convert symmetrically.
func FixedZone(offsetSeconds int64) (*time.Location, error) {
	sign, mag := '+', offsetSeconds
	if offsetSeconds < 0 {
		sign, mag = '-', -offsetSeconds
	}
	if mag >= 24*3600 {
		return nil, &weather.Error{
			Kind:  weather.KindTimeParse,
			Field: keyUTCOffset,
			Err:   fmt.Errorf("offset %d out of range", offsetSeconds),
		}
	}

	h, m, s := mag/3600, (mag%3600)/60, mag%60
	name := fmt.Sprintf("%c%02d:%02d", sign, h, m)
	if s != 0 {
		name = fmt.Sprintf("%s:%02d", name, s)
	}

	offset := int(h*3600 + m*60 + s)
	if sign == '-' {
		offset = -offset
	}
	return time.FixedZone(name, offset), nil
}

func parseLocalTime(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &weather.Error{Kind: weather.KindTimeParse, Field: keyTime, Err: lastErr}
}
