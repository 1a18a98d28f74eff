package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/tj/assert"

	"github.com/i474232898/weather-pipeline/internal/weather"
	mock "github.com/i474232898/weather-pipeline/internal/weather/mock"
)

func TestChainFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock.NewMockLocator(ctrl)
	first.EXPECT().Locate(gomock.Any()).Return(weather.Coordinates{}, errors.New("no key"))

	want := weather.NewCoordinates(5, 6)
	coords, err := Chain{first, Fixed(want)}.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, coords)
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	second := mock.NewMockLocator(ctrl)

	want := weather.NewCoordinates(1, 2)
	coords, err := Chain{Fixed(want), second}.Locate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, want, coords)
}

func TestChainAllFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mock.NewMockLocator(ctrl)
	b := mock.NewMockLocator(ctrl)
	a.EXPECT().Locate(gomock.Any()).Return(weather.Coordinates{}, errors.New("first"))
	b.EXPECT().Locate(gomock.Any()).Return(weather.Coordinates{}, errors.New("second"))

	_, err := Chain{a, b}.Locate(context.Background())
	assert.True(t, errors.Is(err, weather.ErrLocationResolution))
	assert.EqualError(t, err, "location resolution error: all locators failed: first; second")

	_, err = Chain{}.Locate(context.Background())
	assert.True(t, errors.Is(err, weather.ErrLocationResolution))
}

func TestChainStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mock.NewMockLocator(ctrl)
	b := mock.NewMockLocator(ctrl)
	a.EXPECT().Locate(gomock.Any()).Return(weather.Coordinates{}, context.Canceled)

	_, err := Chain{a, b}.Locate(context.Background())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, weather.ErrLocationResolution))
}
