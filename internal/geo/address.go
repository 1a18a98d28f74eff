package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

// AddressLocator resolves a fixed place name through Google Geocoding.
type AddressLocator struct {
	address geocoder.Address
	geocode func(geocoder.Address) (geocoder.Location, error)
}

var _ weather.Locator = (*AddressLocator)(nil)

// NewAddressLocator configures the geocoder key and returns a locator for
// city/country.
func NewAddressLocator(apiKey, city, country string) *AddressLocator {
	geocoder.ApiKey = apiKey
	return &AddressLocator{
		address: geocoder.Address{
			City:    strings.TrimSpace(city),
			Country: strings.TrimSpace(country),
		},
		geocode: geocoder.Geocoding,
	}
}

func (l *AddressLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, weather.NewError(weather.KindLocationResolution, err)
	}

	loc, err := l.geocode(l.address)
	if err != nil {
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "geocoding %s failed: %v", l, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "geocoding %s returned no position", l)
	}
	return weather.NewCoordinates(loc.Latitude, loc.Longitude), nil
}

func (l *AddressLocator) String() string {
	if l.address.Country == "" {
		return l.address.City
	}
	return fmt.Sprintf("%s,%s", l.address.City, l.address.Country)
}
