package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the pipeline can return.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindTransport
	KindDeserialization
	KindMissingField
	KindTimeParse
	KindLocationResolution
)

var (
	ErrOther              = errors.New("weather error")
	ErrTransport          = errors.New("transport error")
	ErrDeserialization    = errors.New("deserialization error")
	ErrMissingField       = errors.New("missing field")
	ErrTimeParse          = errors.New("time parse error")
	ErrLocationResolution = errors.New("location resolution error")
)

var kindNames = map[ErrorKind]string{
	KindOther:              "other",
	KindTransport:          "transport",
	KindDeserialization:    "deserialization",
	KindMissingField:       "missing_field",
	KindTimeParse:          "time_parse",
	KindLocationResolution: "location_resolution",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return kindNames[KindOther]
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindDeserialization:
		return ErrDeserialization
	case KindMissingField:
		return ErrMissingField
	case KindTimeParse:
		return ErrTimeParse
	case KindLocationResolution:
		return ErrLocationResolution
	default:
		return ErrOther
	}
}

// Error is a classified pipeline failure. Field names the offending response
// key when one is known.
type Error struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewError classifies err as kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf classifies a formatted message as kind.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// MissingFieldError reports a requested field that the response lacks.
func MissingFieldError(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field}
}

// KindOf returns the kind of the first *Error in err's chain, KindOther if
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// FieldOf returns the offending field of the first *Error in err's chain.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// FetchError pairs a failure with the operation that produced it. Replaying
// Operation through Service.Replay resubmits the identical request.
type FetchError struct {
	Operation Operation
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v", e.Operation.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retry returns the operation to replay.
func (e *FetchError) Retry() Operation { return e.Operation.clone() }

// Kind returns the classification of the underlying failure.
func (e *FetchError) Kind() ErrorKind { return KindOf(e.Err) }
