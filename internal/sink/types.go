package sink

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/drink-counter/internal/counter"
)

// Event is one increment, as seen by every sink in the chain.
type Event struct {
	ID       uuid.UUID
	Beverage counter.Beverage
	Value    int // the new count, not yet committed
	At       time.Time
}

// Sink produces one side effect per event.
// Consume returns an error on failure; it must not panic or exit
// on ordinary faults and must honor ctx.
type Sink interface {
	Name() string
	Consume(ctx context.Context, ev Event) error
}
