package weather

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-pipeline/internal/logger"
)

// MaxForecastDays is the longest horizon the provider serves.
const MaxForecastDays = 16

// MaxForecastHours is the longest hourly horizon. One provider day is kept
// back for the hours of today that have already passed.
const MaxForecastHours = (MaxForecastDays - 1) * 24

// Service resolves the location of a fetch and delegates it to a provider.
// It keeps no state between calls; concurrent fetches are independent.
type Service struct {
	provider Provider
	locator  Locator
}

// NewService creates a new Service. locator may be nil if every caller
// passes coordinates.
func NewService(provider Provider, locator Locator) *Service {
	return &Service{
		provider: provider,
		locator:  locator,
	}
}

// FetchCurrent fetches the requested fields of the current conditions. A nil
// coords resolves the location through the Locator. Failures are returned as
// *FetchError carrying the operation to replay.
func (s *Service) FetchCurrent(ctx context.Context, coords *Coordinates, units Units, fields []CurrentField) (Record, error) {
	op := Operation{
		Kind:        OperationCurrent,
		Coordinates: coords,
		Units:       units,
		Current:     fields,
	}
	op = op.clone()

	rec, err := s.current(ctx, op)
	if err != nil {
		return Record{}, s.fail(op, err)
	}
	return rec, nil
}

// FetchHourly fetches hours consecutive hourly records of the requested
// fields. hours must be within [1, MaxForecastHours].
func (s *Service) FetchHourly(ctx context.Context, coords *Coordinates, units Units, fields []HourlyField, hours int) ([]Record, error) {
	op := Operation{
		Kind:        OperationHourly,
		Coordinates: coords,
		Units:       units,
		Hourly:      fields,
		Hours:       hours,
	}
	op = op.clone()

	recs, err := s.hourly(ctx, op)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return recs, nil
}

// Replay resubmits an operation taken from a *FetchError. Current
// operations yield a single record.
func (s *Service) Replay(ctx context.Context, op Operation) ([]Record, error) {
	switch op.Kind {
	case OperationCurrent:
		rec, err := s.FetchCurrent(ctx, op.Coordinates, op.Units, op.Current)
		if err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	case OperationHourly:
		return s.FetchHourly(ctx, op.Coordinates, op.Units, op.Hourly, op.Hours)
	default:
		return nil, s.fail(op, Errorf(KindOther, "unknown operation kind %q", op.Kind))
	}
}

func (s *Service) current(ctx context.Context, op Operation) (Record, error) {
	if len(op.Current) == 0 {
		return Record{}, Errorf(KindOther, "no current fields requested")
	}
	coords, err := s.resolve(ctx, op.Coordinates)
	if err != nil {
		return Record{}, err
	}

	logger.WithFields(logrus.Fields{
		"provider":    s.provider.Name(),
		"coordinates": coords.String(),
		"fields":      len(op.Current),
	}).Debug("fetching current weather")

	return s.provider.Current(ctx, coords, op.Units, op.Current)
}

func (s *Service) hourly(ctx context.Context, op Operation) ([]Record, error) {
	if len(op.Hourly) == 0 {
		return nil, Errorf(KindOther, "no hourly fields requested")
	}
	if op.Hours <= 0 || op.Hours > MaxForecastHours {
		return nil, Errorf(KindOther, "hours must be between 1 and %d, got %d", MaxForecastHours, op.Hours)
	}
	coords, err := s.resolve(ctx, op.Coordinates)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"provider":    s.provider.Name(),
		"coordinates": coords.String(),
		"fields":      len(op.Hourly),
		"hours":       op.Hours,
	}).Debug("fetching hourly weather")

	return s.provider.Hourly(ctx, coords, op.Units, op.Hourly, op.Hours)
}

// resolve returns coords unchanged when given, otherwise asks the Locator.
func (s *Service) resolve(ctx context.Context, coords *Coordinates) (Coordinates, error) {
	if coords != nil {
		return *coords, nil
	}
	if s.locator == nil {
		return Coordinates{}, Errorf(KindLocationResolution, "no coordinates given and no locator configured")
	}
	c, err := s.locator.Locate(ctx)
	if err != nil {
		if KindOf(err) == KindLocationResolution {
			return Coordinates{}, err
		}
		return Coordinates{}, NewError(KindLocationResolution, err)
	}
	return c, nil
}

// fail classifies err, if it is not classified yet, and attaches op.
func (s *Service) fail(op Operation, err error) error {
	var classified *Error
	if !errors.As(err, &classified) {
		err = NewError(KindOther, err)
	}
	return &FetchError{Operation: op.clone(), Err: err}
}
