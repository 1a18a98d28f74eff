package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-pipeline/internal/weather"
)

var (
	// ErrNotFound is returned when no failure is recorded under an ID.
	ErrNotFound = errors.New("no failure with this id")
)

// Failure is a failed fetch kept so that a notification layer can show it
// and offer a retry without holding any state of its own.
type Failure struct {
	ID        uuid.UUID         `json:"id"`
	Time      time.Time         `json:"time"`
	Kind      string            `json:"kind"`
	Field     string            `json:"field,omitempty"`
	Message   string            `json:"message"`
	Operation weather.Operation `json:"operation"`
}

// NewFailure builds a Failure from a *weather.FetchError.
func NewFailure(fe *weather.FetchError, at time.Time) Failure {
	return Failure{
		ID:        uuid.New(),
		Time:      at.UTC(),
		Kind:      fe.Kind().String(),
		Field:     weather.FieldOf(fe.Err),
		Message:   fe.Err.Error(),
		Operation: fe.Retry(),
	}
}

// MemoryStore is a concurrency-safe in-memory failure journal. Successful
// records are never stored.
type MemoryStore struct {
	mu sync.RWMutex

	// oldest first
	failures []Failure

	// retention configuration
	maxHistory int           // max number of failures kept
	maxAge     time.Duration // optional max age of failures

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a failure and enforces retention.
func (s *MemoryStore) Save(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = append(s.failures, f)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.failures) > s.maxHistory {
		over := len(s.failures) - s.maxHistory
		s.failures = append([]Failure(nil), s.failures[over:]...)
	}

	s.expire()
}

// Get returns the failure recorded under id.
func (s *MemoryStore) Get(id uuid.UUID) (Failure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.failures {
		if f.ID == id && !s.expired(f) {
			return f, nil
		}
	}
	return Failure{}, ErrNotFound
}

// List returns the live failures, newest first.
func (s *MemoryStore) List() []Failure {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Failure, 0, len(s.failures))
	for i := len(s.failures) - 1; i >= 0; i-- {
		if !s.expired(s.failures[i]) {
			result = append(result, s.failures[i])
		}
	}
	return result
}

// Delete removes a failure, typically after a successful retry.
func (s *MemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.failures {
		if f.ID == id {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// expire drops failures older than maxAge. Callers hold the write lock.
func (s *MemoryStore) expire() {
	if s.maxAge <= 0 {
		return
	}
	i := 0
	for ; i < len(s.failures); i++ {
		if !s.expired(s.failures[i]) {
			break
		}
	}
	if i > 0 {
		s.failures = append([]Failure(nil), s.failures[i:]...)
	}
}

func (s *MemoryStore) expired(f Failure) bool {
	if s.maxAge <= 0 {
		return false
	}
	return f.Time.Before(s.now().Add(-s.maxAge))
}
