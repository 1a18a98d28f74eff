package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/transport"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

// DefaultEndpoint is the public forecast endpoint.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// Client implements weather.Provider for Open-Meteo.
type Client struct {
	name     string
	endpoint string
	timezone string
	http     *transport.Client
	now      func() time.Time
}

var _ weather.Provider = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithEndpoint overrides the forecast endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimezone sets the timezone sent with every query; "" means auto.
func WithTimezone(tz string) Option {
	return func(c *Client) { c.timezone = tz }
}

// WithClock replaces the clock hourly forecasts are anchored to.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(client *http.Client, opts ...Option) *Client {
	c := &Client{
		name:     "openmeteo",
		endpoint: DefaultEndpoint,
		http:     transport.New(client, "openmeteo"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return c.name
}

// Current fetches the current conditions for fields.
func (c *Client) Current(ctx context.Context, coords weather.Coordinates, units weather.Units, fields []weather.CurrentField) (weather.Record, error) {
	q := NewQuery(coords).
		WithCurrent(fields...).
		WithUnits(units).
		WithForecastDays(1).
		WithTimezone(c.timezone)

	resp, err := c.fetch(ctx, q)
	if err != nil {
		return weather.Record{}, err
	}
	return resp.ParseCurrent(q)
}

// Hourly fetches hours hourly records for fields, starting at the current
// hour. Forecast days start at local midnight, so one extra day is requested
// to cover the hours already past.
func (c *Client) Hourly(ctx context.Context, coords weather.Coordinates, units weather.Units, fields []weather.HourlyField, hours int) ([]weather.Record, error) {
	q := NewQuery(coords).
		WithHourly(fields...).
		WithUnits(units).
		WithForecastDays(daysFor(hours) + 1).
		WithTimezone(c.timezone)

	from := c.now()
	resp, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return resp.ParseHourly(q, from, hours)
}

// Health reports the transport breaker state.
func (c *Client) Health() string {
	return c.http.State()
}

func (c *Client) fetch(ctx context.Context, q Query) (*Response, error) {
	u := q.URL(c.endpoint)
	log := logger.WithFields(logrus.Fields{"provider": c.name, "query": q.Encode()})
	log.Debug("requesting forecast")

	body, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, classifyTransport(err)
	}

	resp, err := Decode(body)
	if err != nil {
		return nil, err
	}

	if g, ok := resp.Grid(q.Coordinates()); ok {
		log.WithFields(logrus.Fields{
			"grid_latitude":  g.Latitude,
			"grid_longitude": g.Longitude,
			"elevation":      g.Elevation,
			"distance_km":    g.DistanceKm,
			"timezone":       resp.TimezoneName(),
		}).Debug("forecast grid cell")
	}
	return resp, nil
}

// daysFor returns the forecast horizon covering hours.
func daysFor(hours int) int {
	return (hours + 23) / 24
}

// classifyTransport maps a transport failure to a Transport error, surfacing
// the provider's reason for rejected queries.
func classifyTransport(err error) error {
	var se *transport.StatusError
	if errors.As(err, &se) {
		var apiErr struct {
			Error  bool   `json:"error"`
			Reason string `json:"reason"`
		}
		if json.Unmarshal(se.Body, &apiErr) == nil && apiErr.Reason != "" {
			return weather.NewError(weather.KindTransport, fmt.Errorf("%w: %s", se, apiErr.Reason))
		}
	}
	return weather.NewError(weather.KindTransport, err)
}
