package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    string

	// FetchInterval controls how often the scheduler refreshes.
	FetchInterval time.Duration

	// Coordinates to track; nil means resolve via geolocation.
	Coordinates *weather.Coordinates

	// Optional geocoded place, tried before IP geolocation.
	City           string
	Country        string
	GeocoderAPIKey string

	Units         weather.Units
	Timezone      string
	ForecastHours int

	OpenMeteoURL string
	GeoIPURL     string

	// Failure journal retention.
	FailureMaxHistory int           // max failures kept (0 = unlimited)
	FailureMaxAge     time.Duration // max age of failures (0 = unlimited)
}

// Load reads configuration from a .env file, if any, and the environment
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info(fmt.Sprintf("no .env file found or error loading it: %v", err))
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.FailureMaxAge, err = getenvDuration("FAILURE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.FailureMaxHistory = getenvInt("FAILURE_MAX_HISTORY", 50)

	cfg.ForecastHours = getenvInt("FORECAST_HOURS", 24)
	if cfg.ForecastHours < 1 || cfg.ForecastHours > weather.MaxForecastHours {
		return nil, fmt.Errorf("invalid FORECAST_HOURS: must be between 1 and %d", weather.MaxForecastHours)
	}

	cfg.Units, err = weather.ParseUnits(
		os.Getenv("WEATHER_SPEED_UNIT"),
		os.Getenv("WEATHER_TEMPERATURE_UNIT"),
		os.Getenv("WEATHER_PRECIPITATION_UNIT"),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid units: %w", err)
	}

	cfg.Timezone = os.Getenv("WEATHER_TIMEZONE")
	cfg.OpenMeteoURL = os.Getenv("OPENMETEO_URL")
	cfg.GeoIPURL = os.Getenv("GEOIP_URL")

	if cfg.Coordinates, err = loadCoordinates(); err != nil {
		return nil, err
	}

	cfg.City = strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY"))
	cfg.Country = strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY"))
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	if cfg.City != "" && cfg.GeocoderAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_LOCATION_CITY requires GOOGLE_GEOCODER_API_KEY")
	}

	return cfg, nil
}

// loadCoordinates reads WEATHER_LATITUDE and WEATHER_LONGITUDE; both or
// neither must be set.
func loadCoordinates() (*weather.Coordinates, error) {
	lat := strings.TrimSpace(os.Getenv("WEATHER_LATITUDE"))
	lon := strings.TrimSpace(os.Getenv("WEATHER_LONGITUDE"))
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("WEATHER_LATITUDE and WEATHER_LONGITUDE must be set together")
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_LATITUDE: %w", err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_LONGITUDE: %w", err)
	}
	c := weather.NewCoordinates(la, lo)
	return &c, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
