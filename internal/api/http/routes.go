package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-pipeline/internal/store"
	"github.com/i474232898/weather-pipeline/internal/weather"
)

var validate = validator.New()

// WeatherService is the pipeline surface the routes expose.
type WeatherService interface {
	FetchCurrent(ctx context.Context, coords *weather.Coordinates, units weather.Units, fields []weather.CurrentField) (weather.Record, error)
	FetchHourly(ctx context.Context, coords *weather.Coordinates, units weather.Units, fields []weather.HourlyField, hours int) ([]weather.Record, error)
	Replay(ctx context.Context, op weather.Operation) ([]weather.Record, error)
}

// FailureStore keeps failed fetches for later replay.
type FailureStore interface {
	Save(f store.Failure)
	Get(id uuid.UUID) (store.Failure, error)
	List() []store.Failure
	Delete(id uuid.UUID) error
}

type handler struct {
	service  WeatherService
	failures FailureStore
	timeout  time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, failures FailureStore) {
	h := &handler{service: service, failures: failures, timeout: 30 * time.Second}

	v1 := app.Group("/api/v1")
	v1.Get("/weather/current", h.current)
	v1.Get("/weather/hourly", h.hourly)
	v1.Get("/failures", h.listFailures)
	v1.Post("/failures/:id/retry", h.retry)
}

func (h *handler) current(c *fiber.Ctx) error {
	var q currentQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	rec, err := h.service.FetchCurrent(ctx, q.Location.coordinates(), q.Units.units, q.fields)
	if err != nil {
		return h.failed(c, err)
	}
	return c.JSON(rec)
}

func (h *handler) hourly(c *fiber.Ctx) error {
	var q hourlyQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	recs, err := h.service.FetchHourly(ctx, q.Location.coordinates(), q.Units.units, q.fields, q.Hours)
	if err != nil {
		return h.failed(c, err)
	}
	return c.JSON(fiber.Map{
		"hours":   len(recs),
		"records": recs,
	})
}

func (h *handler) listFailures(c *fiber.Ctx) error {
	return c.JSON(h.failures.List())
}

func (h *handler) retry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid failure id")
	}

	f, err := h.failures.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no failure with this id")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load failure")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	recs, err := h.service.Replay(ctx, f.Operation)
	if err != nil {
		return h.failed(c, err)
	}
	_ = h.failures.Delete(id)

	return c.JSON(fiber.Map{
		"operation": f.Operation,
		"records":   recs,
	})
}

// failed records a pipeline failure and answers with its classification and
// the link that replays it.
func (h *handler) failed(c *fiber.Ctx, err error) error {
	kind := weather.KindOf(err)
	body := fiber.Map{
		"error":   true,
		"kind":    kind.String(),
		"message": err.Error(),
	}
	if field := weather.FieldOf(err); field != "" {
		body["field"] = field
	}

	var fe *weather.FetchError
	if errors.As(err, &fe) {
		f := store.NewFailure(fe, time.Now())
		h.failures.Save(f)
		body["failure_id"] = f.ID.String()
		body["retry"] = "/api/v1/failures/" + f.ID.String() + "/retry"
	}

	return c.Status(statusFor(kind)).JSON(body)
}

func statusFor(kind weather.ErrorKind) int {
	switch kind {
	case weather.KindOther:
		return fiber.StatusBadRequest
	case weather.KindLocationResolution:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

// locationQuery holds optional coordinates; both or neither must be given.
type locationQuery struct {
	Lat *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `validate:"omitempty,gte=-180,lte=180"`
}

func (l locationQuery) coordinates() *weather.Coordinates {
	if l.Lat == nil || l.Lon == nil {
		return nil
	}
	c := weather.NewCoordinates(*l.Lat, *l.Lon)
	return &c
}

func (l *locationQuery) bind(c *fiber.Ctx) error {
	var err error
	if l.Lat, err = parseOptionalFloat(c.Query("lat"), "lat"); err != nil {
		return err
	}
	if l.Lon, err = parseOptionalFloat(c.Query("lon"), "lon"); err != nil {
		return err
	}
	if (l.Lat == nil) != (l.Lon == nil) {
		return errors.New("lat and lon must be given together")
	}
	return nil
}

// unitsQuery holds unit wire names; empty keeps the provider default.
type unitsQuery struct {
	Speed         string `validate:"omitempty,oneof=kmh ms mph kn"`
	Temperature   string `validate:"omitempty,oneof=celsius fahrenheit"`
	Precipitation string `validate:"omitempty,oneof=mm inch"`

	units weather.Units
}

func (u *unitsQuery) bind(c *fiber.Ctx) error {
	u.Speed = c.Query("wind_speed_unit")
	u.Temperature = c.Query("temperature_unit")
	u.Precipitation = c.Query("precipitation_unit")
	if err := validate.Struct(u); err != nil {
		return err
	}

	var err error
	u.units, err = weather.ParseUnits(u.Speed, u.Temperature, u.Precipitation)
	return err
}

type currentQuery struct {
	Location locationQuery
	Units    unitsQuery
	Fields   []string `validate:"required,min=1"`

	fields []weather.CurrentField
}

func (q *currentQuery) bind(c *fiber.Ctx) error {
	if err := q.Location.bind(c); err != nil {
		return err
	}
	if err := q.Units.bind(c); err != nil {
		return err
	}
	q.Fields = splitList(c.Query("fields"))
	if err := validate.Struct(q); err != nil {
		return err
	}

	for _, name := range q.Fields {
		f, err := weather.ParseCurrentField(name)
		if err != nil {
			return err
		}
		q.fields = append(q.fields, f)
	}
	return nil
}

type hourlyQuery struct {
	Location locationQuery
	Units    unitsQuery
	Fields   []string `validate:"required,min=1"`
	Hours    int      `validate:"min=1,max=360"`

	fields []weather.HourlyField
}

func (q *hourlyQuery) bind(c *fiber.Ctx) error {
	if err := q.Location.bind(c); err != nil {
		return err
	}
	if err := q.Units.bind(c); err != nil {
		return err
	}
	q.Fields = splitList(c.Query("fields"))

	hours := c.Query("hours", "24")
	n, err := strconv.Atoi(hours)
	if err != nil {
		return errors.New("hours must be an integer")
	}
	q.Hours = n

	if err := validate.Struct(q); err != nil {
		return err
	}

	for _, name := range q.Fields {
		f, err := weather.ParseHourlyField(name)
		if err != nil {
			return err
		}
		q.fields = append(q.fields, f)
	}
	return nil
}

func parseOptionalFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
