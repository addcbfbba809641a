package repository

import (
	"context"
	"time"

	"AstroChart/internal/domain/models"
)

// PositionProvider supplies ecliptic positions for a body at an instant
// in UTC. Implementations must be deterministic for a given (body,
// instant) pair and safe for concurrent use.
type PositionProvider interface {
	Position(ctx context.Context, body models.Body, instant time.Time) (models.Position, error)
	Name() string
}

// EventPublisher emits exact transit events to downstream consumers.
type EventPublisher interface {
	PublishTransitEvents(ctx context.Context, events []models.TransitEvent) error
	Close() error
}

// Metrics records calculation and search telemetry.
type Metrics interface {
	ObserveChartCalculation(houseSystem string, d time.Duration)
	ObserveProviderCall(provider string, success bool, d time.Duration)
	ObserveTransitSearch(events, failedBrackets int, d time.Duration)
	IncCalculationError(kind string)
	IncCacheLookup(hit bool)
}
