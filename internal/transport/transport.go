package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrCircuitOpen  = errors.New("circuit breaker open")
	ErrNoHTTPClient = errors.New("http client not configured")
)

// StatusError is returned for non-2xx responses. Body holds the response
// payload so callers can surface the upstream reason.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Client performs single GET exchanges guarded by a circuit breaker. It never
// retries: a failed exchange is returned to the caller as is.
type Client struct {
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client whose breaker is identified by name.
func New(client *http.Client, name string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: healthyOutcome,
	})

	return &Client{
		http:    client,
		circuit: cb,
	}
}

// Get fetches rawURL and returns the whole body. The response body is closed
// before Get returns, whatever the outcome.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.http == nil {
		return nil, ErrNoHTTPClient
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Code: resp.StatusCode, Body: body}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

// healthyOutcome reports whether err leaves the breaker's failure count
// untouched. Caller cancellation and rejected queries (4xx) say nothing
// about upstream health.
func healthyOutcome(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500
	}
	return false
}

// State reports the breaker state, for health output.
func (c *Client) State() string {
	return c.circuit.State().String()
}
