package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/weather-pipeline/internal/geo"
	"github.com/i474232898/weather-pipeline/internal/logger"
	"github.com/i474232898/weather-pipeline/internal/weather"
	"github.com/i474232898/weather-pipeline/internal/weather/openmeteo"
)

func main() {
	var lat = flag.Float64("lat", 0, "latitude in decimal degrees")
	var lon = flag.Float64("lon", 0, "longitude in decimal degrees")
	var current = flag.StringSlice("current", []string{"temperature_2m", "is_day", "weather_code", "wind_speed_10m", "wind_direction_10m"}, "current fields (wire names)")
	var hourly = flag.StringSlice("hourly", nil, "hourly fields (wire names); enables the hourly forecast")
	var hours = flag.IntP("hours", "n", 24, "number of hourly records")
	var speedUnit = flag.String("wind-speed-unit", "kmh", "kmh, ms, mph or kn")
	var tempUnit = flag.String("temperature-unit", "celsius", "celsius or fahrenheit")
	var precipUnit = flag.String("precipitation-unit", "mm", "mm or inch")
	var timezone = flag.String("timezone", "", "IANA timezone, default auto")
	var endpoint = flag.String("endpoint", openmeteo.DefaultEndpoint, "forecast endpoint")
	var timeout = flag.Duration("timeout", 10*time.Second, "request timeout")
	var logLevel = flag.String("log-level", "warning", "log level")

	flag.Parse()

	if err := logger.SetLevel(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(2)
	}

	units, err := weather.ParseUnits(*speedUnit, *tempUnit, *precipUnit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var coords *weather.Coordinates
	if flag.CommandLine.Changed("lat") || flag.CommandLine.Changed("lon") {
		if !flag.CommandLine.Changed("lat") || !flag.CommandLine.Changed("lon") {
			fmt.Fprintln(os.Stderr, "--lat and --lon must be given together")
			os.Exit(2)
		}
		c := weather.NewCoordinates(*lat, *lon)
		coords = &c
	}

	httpC := &http.Client{Timeout: *timeout}
	provider := openmeteo.NewClient(httpC,
		openmeteo.WithEndpoint(*endpoint),
		openmeteo.WithTimezone(*timezone),
	)
	service := weather.NewService(provider, geo.NewIPLocator(httpC, ""))

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	failed := false

	if len(*current) > 0 {
		fields := make([]weather.CurrentField, 0, len(*current))
		for _, name := range *current {
			f, err := weather.ParseCurrentField(name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			fields = append(fields, f)
		}

		rec, err := service.FetchCurrent(ctx, coords, units, fields)
		if err != nil {
			report(err)
			failed = true
		} else {
			fmt.Println("Current conditions")
			printRecord(rec)
		}
	}

	if len(*hourly) > 0 {
		fields := make([]weather.HourlyField, 0, len(*hourly))
		for _, name := range *hourly {
			f, err := weather.ParseHourlyField(name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			fields = append(fields, f)
		}

		recs, err := service.FetchHourly(ctx, coords, units, fields, *hours)
		if err != nil {
			report(err)
			failed = true
		} else {
			fmt.Printf("\nHourly forecast (%d hours)\n", len(recs))
			for _, rec := range recs {
				printRecord(rec)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func report(err error) {
	kind := weather.KindOf(err)
	if field := weather.FieldOf(err); field != "" {
		fmt.Fprintf(os.Stderr, "error [%s, field %s]: %v\n", kind, field, err)
		return
	}
	fmt.Fprintf(os.Stderr, "error [%s]: %v\n", kind, err)
}

func printRecord(rec weather.Record) {
	var parts []string

	if rec.WeatherCode != nil {
		day := rec.IsDaytime == nil || *rec.IsDaytime
		parts = append(parts, fmt.Sprintf("%s %s (%s)", rec.WeatherCode.Emoji(day), rec.WeatherCode.Label(), rec.WeatherCode.IconKey()))
	}
	if rec.Temperature != nil {
		parts = append(parts, rec.Temperature.String())
	}
	if rec.ApparentTemperature != nil {
		parts = append(parts, "feels "+rec.ApparentTemperature.String())
	}
	if rec.Humidity != nil {
		parts = append(parts, "humidity "+rec.Humidity.String())
	}
	if rec.IsDaytime != nil {
		if *rec.IsDaytime {
			parts = append(parts, "day")
		} else {
			parts = append(parts, "night")
		}
	}
	if p := rec.Precipitation; p != nil {
		for _, k := range []weather.PrecipitationKind{
			weather.PrecipitationCombined,
			weather.PrecipitationRain,
			weather.PrecipitationShowers,
			weather.PrecipitationSnowfall,
		} {
			if s := p.AmountString(k); s != "" {
				parts = append(parts, s)
			}
		}
		if s := p.ProbabilityString(); s != "" {
			parts = append(parts, s)
		}
	}
	if rec.Wind != nil {
		parts = append(parts, "wind "+rec.Wind.String())
	}

	fmt.Printf("%s  %s\n", rec.Timestamp.Format("2006-01-02 15:04 -07:00"), strings.Join(parts, ", "))
}
