package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-pipeline/internal/api/http"
	"github.com/i474232898/weather-pipeline/internal/config"
	"github.com/i474232898/weather-pipeline/internal/geo"
	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/scheduler"
	"github.com/i474232898/weather-pipeline/internal/store"
	"github.com/i474232898/weather-pipeline/internal/weather"
	"github.com/i474232898/weather-pipeline/internal/weather/openmeteo"
)

// Fields refreshed by the background job.
var (
	scheduledCurrent = []weather.CurrentField{
		weather.CurrentTemperature,
		weather.CurrentApparentTemperature,
		weather.CurrentHumidity,
		weather.CurrentIsDaytime,
		weather.CurrentPrecipitation(weather.PrecipitationCombined),
		weather.CurrentWeatherCode,
		weather.CurrentWindSpeed,
		weather.CurrentWindDirection,
	}
	scheduledHourly = []weather.HourlyField{
		weather.HourlyTemperature,
		weather.HourlyIsDaytime,
		weather.HourlyPrecipitationProbability,
		weather.HourlyWeatherCode,
		weather.HourlyWindSpeed,
	}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(fmt.Errorf("failed to load config: %w", err))
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Error(fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err))
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := openmeteo.NewClient(httpClient,
		openmeteo.WithEndpoint(cfg.OpenMeteoURL),
		openmeteo.WithTimezone(cfg.Timezone),
	)

	// Configured place first, then the caller's public IP.
	var locators geo.Chain
	if cfg.City != "" {
		locators = append(locators, geo.NewAddressLocator(cfg.GeocoderAPIKey, cfg.City, cfg.Country))
	}
	locators = append(locators, geo.NewIPLocator(httpClient, cfg.GeoIPURL))

	service := weather.NewService(provider, locators)

	failures := store.NewMemoryStore(cfg.FailureMaxHistory, cfg.FailureMaxAge)

	sched := scheduler.New(scheduler.Job{
		Coordinates: cfg.Coordinates,
		Units:       cfg.Units,
		Current:     scheduledCurrent,
		Hourly:      scheduledHourly,
		Hours:       cfg.ForecastHours,
	}, cfg.FetchInterval, service, &journalSink{failures: failures})
	if err := sched.Start(); err != nil {
		logger.Fatal(fmt.Errorf("failed to start scheduler: %w", err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-pipeline",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          40 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-pipeline",
			"provider": provider.Name(),
			"breaker":  provider.Health(),
		})
	})

	httpapi.RegisterRoutes(app, service, failures)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error(fmt.Errorf("fiber server stopped: %w", err))
		}
	}()
	logger.WithFields(logrus.Fields{"port": cfg.Port}).Info("server started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error(fmt.Errorf("error during shutdown: %w", err))
	}
}

// journalSink logs scheduled results and keeps failures for replay.
type journalSink struct {
	failures *store.MemoryStore
}

func (s *journalSink) Current(rec weather.Record) {
	fields := logrus.Fields{"coordinates": rec.Coordinates.String(), "time": rec.Timestamp}
	if rec.Temperature != nil {
		fields["temperature"] = rec.Temperature.String()
	}
	if rec.WeatherCode != nil {
		fields["condition"] = rec.WeatherCode.Label()
	}
	logger.WithFields(fields).Info("current weather refreshed")
}

func (s *journalSink) Hourly(recs []weather.Record) {
	fields := logrus.Fields{"hours": len(recs)}
	if len(recs) > 0 {
		fields["from"] = recs[0].Timestamp
		fields["to"] = recs[len(recs)-1].Timestamp
	}
	logger.WithFields(fields).Info("hourly forecast refreshed")
}

func (s *journalSink) Failed(err *weather.FetchError) {
	f := store.NewFailure(err, time.Now())
	s.failures.Save(f)
	logger.WithFields(logrus.Fields{
		"failure_id": f.ID.String(),
		"kind":       f.Kind,
	}).Warn("scheduled fetch recorded for retry")
}
