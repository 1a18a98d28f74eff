package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tj/assert"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

func TestIPLocator(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		expected    weather.Coordinates
		errContains string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"status":"success","lat":52.52,"lon":13.41}`,
			expected: weather.NewCoordinates(52.52, 13.41),
		},
		{
			name:        "lookup failed",
			status:      http.StatusOK,
			body:        `{"status":"fail","message":"private range"}`,
			errContains: "private range",
		},
		{
			name:        "missing latitude",
			status:      http.StatusOK,
			body:        `{"status":"success","lon":13.41}`,
			errContains: "lacks latitude",
		},
		{
			name:        "missing longitude",
			status:      http.StatusOK,
			body:        `{"status":"success","lat":52.52}`,
			errContains: "lacks longitude",
		},
		{
			name:        "missing both",
			status:      http.StatusOK,
			body:        `{"status":"success"}`,
			errContains: "lacks latitude and longitude",
		},
		{
			name:        "malformed",
			status:      http.StatusOK,
			body:        `not json`,
			errContains: "malformed",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        ``,
			errContains: "unreachable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			l := NewIPLocator(srv.Client(), srv.URL)
			coords, err := l.Locate(context.Background())

			if tc.errContains == "" {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, coords)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, weather.ErrLocationResolution))
			assert.True(t, strings.Contains(err.Error(), tc.errContains), err.Error())
		})
	}
}

func TestIPLocatorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewIPLocator(&http.Client{}, url).Locate(context.Background())
	assert.Error(t, err)
	assert.Equal(t, weather.KindLocationResolution, weather.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "unreachable"))
}

func TestIPLocatorDefaultEndpoint(t *testing.T) {
	l := NewIPLocator(&http.Client{}, "")
	assert.Equal(t, DefaultIPEndpoint, l.endpoint)
}
