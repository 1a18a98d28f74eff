package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tj/assert"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

func failure(at time.Time) Failure {
	return Failure{ID: uuid.New(), Time: at, Kind: "transport", Message: "boom"}
}

func TestNewFailure(t *testing.T) {
	coords := weather.NewCoordinates(1, 2)
	fe := &weather.FetchError{
		Operation: weather.Operation{
			Kind:        weather.OperationCurrent,
			Coordinates: &coords,
			Current:     []weather.CurrentField{weather.CurrentIsDaytime},
		},
		Err: weather.MissingFieldError("is_day"),
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("+02:00", 7200))

	f := NewFailure(fe, at)
	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, time.UTC, f.Time.Location())
	assert.Equal(t, "missing_field", f.Kind)
	assert.Equal(t, "is_day", f.Field)
	assert.Equal(t, `missing field "is_day"`, f.Message)
	assert.Equal(t, fe.Operation, f.Operation)

	// The journal entry does not share state with the error.
	f.Operation.Coordinates.Latitude = 50
	assert.Equal(t, 1.0, fe.Operation.Coordinates.Latitude)
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now()

	a, b, c := failure(now), failure(now), failure(now)
	s.Save(a)
	s.Save(b)
	s.Save(c)

	list := s.List()
	assert.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	_, err := s.Get(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	old := failure(now.Add(-2 * time.Hour))
	fresh := failure(now.Add(-time.Minute))
	s.Save(old)
	s.Save(fresh)

	list := s.List()
	assert.Len(t, list, 1)
	assert.Equal(t, fresh.ID, list[0].ID)

	now = now.Add(2 * time.Hour)
	assert.Len(t, s.List(), 0)
	_, err := s.Get(fresh.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreGetDelete(t *testing.T) {
	s := NewMemoryStore(0, 0)
	f := failure(time.Now())
	s.Save(f)

	got, err := s.Get(f.ID)
	assert.NoError(t, err)
	assert.Equal(t, f, got)

	assert.NoError(t, s.Delete(f.ID))
	assert.True(t, errors.Is(s.Delete(f.ID), ErrNotFound))
	assert.Len(t, s.List(), 0)
}
