package weather

import (
	"context"
)

//go:generate mockgen -source=provider.go -destination=mock/mock.go -package=mock

// Provider abstracts a forecast source (e.g. Open-Meteo). Implementations
// read from the response exactly the fields passed in and nothing else.
type Provider interface {
	Name() string
	Current(ctx context.Context, coords Coordinates, units Units, fields []CurrentField) (Record, error)
	Hourly(ctx context.Context, coords Coordinates, units Units, fields []HourlyField, hours int) ([]Record, error)
}

// Locator yields the coordinates to use when the caller gives none.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// OperationKind names the two public fetch operations.
type OperationKind string

const (
	OperationCurrent OperationKind = "current"
	OperationHourly  OperationKind = "hourly"
)

// Operation is a replayable description of one fetch. A nil Coordinates
// means the location is resolved again on replay.
type Operation struct {
	Kind        OperationKind  `json:"kind"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Units       Units          `json:"units"`
	Current     []CurrentField `json:"current,omitempty"`
	Hourly      []HourlyField  `json:"hourly,omitempty"`
	Hours       int            `json:"hours,omitempty"`
}

func (op Operation) clone() Operation {
	out := op
	if op.Coordinates != nil {
		c := *op.Coordinates
		out.Coordinates = &c
	}
	out.Current = append([]CurrentField(nil), op.Current...)
	out.Hourly = append([]HourlyField(nil), op.Hourly...)
	return out
}
