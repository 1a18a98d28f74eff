package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/i474232898/weather-pipeline/internal/transport"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

// DefaultIPEndpoint answers with the location of the caller's public IP.
const DefaultIPEndpoint = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPLocator resolves coordinates through an IP geolocation service.
type IPLocator struct {
	endpoint string
	http     *transport.Client
}

var _ weather.Locator = (*IPLocator)(nil)

func NewIPLocator(client *http.Client, endpoint string) *IPLocator {
	if endpoint == "" {
		endpoint = DefaultIPEndpoint
	}
	return &IPLocator{
		endpoint: endpoint,
		http:     transport.New(client, "geoip"),
	}
}

// Locate performs the lookup. Every failure is a LocationResolution error;
// the message tells an unreachable service from an incomplete answer.
func (l *IPLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	body, err := l.http.Get(ctx, l.endpoint)
	if err != nil {
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "geolocation service unreachable: %w", err)
	}

	var payload struct {
		Status  string   `json:"status"`
		Message string   `json:"message"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "malformed geolocation response: %v", err)
	}

	if payload.Status != "" && payload.Status != "success" {
		msg := payload.Message
		if msg == "" {
			msg = payload.Status
		}
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "geolocation lookup failed: %s", msg)
	}

	switch {
	case payload.Lat == nil && payload.Lon == nil:
		return weather.Coordinates{}, missing("latitude and longitude")
	case payload.Lat == nil:
		return weather.Coordinates{}, missing("latitude")
	case payload.Lon == nil:
		return weather.Coordinates{}, missing("longitude")
	}

	return weather.NewCoordinates(*payload.Lat, *payload.Lon), nil
}

func missing(what string) error {
	return &weather.Error{
		Kind: weather.KindLocationResolution,
		Err:  fmt.Errorf("geolocation response lacks %s", what),
	}
}
