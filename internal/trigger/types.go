package trigger

import (
	"time"

	"github.com/tamzrod/drink-counter/internal/counter"
)

// Binding ties one input line to one beverage.
type Binding struct {
	Line     uint16
	Beverage counter.Beverage
}

// Event is one physical activation edge.
type Event struct {
	Beverage counter.Beverage
	Source   string
	Line     uint16
	At       time.Time
}
