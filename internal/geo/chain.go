package geo

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

// Chain tries each locator in order and returns the first position found.
type Chain []weather.Locator

var _ weather.Locator = Chain(nil)

func (c Chain) Locate(ctx context.Context) (weather.Coordinates, error) {
	if len(c) == 0 {
		return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "no locators configured")
	}

	var msgs []string
	for i, l := range c {
		coords, err := l.Locate(ctx)
		if err == nil {
			return coords, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return weather.Coordinates{}, weather.NewError(weather.KindLocationResolution, err)
		}
		logger.WithFields(logrus.Fields{"locator": i, "error": err}).Warn("locator failed, trying next")
		msgs = append(msgs, err.Error())
	}
	return weather.Coordinates{}, weather.Errorf(weather.KindLocationResolution, "all locators failed: %s", strings.Join(msgs, "; "))
}

// Fixed always yields the same coordinates.
type Fixed weather.Coordinates

func (f Fixed) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates(f), nil
}
