package sink

import (
	"context"
	"io"
	"log"

	"github.com/tamzrod/drink-counter/internal/counter"
)

// Console writes one timestamped line per event.
type Console struct {
	log    *log.Logger
	counts counter.Reader
}

// NewConsole logs to w. counts may be nil; the total is then omitted.
func NewConsole(w io.Writer, counts counter.Reader) *Console {
	return &Console{
		log:    log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		counts: counts,
	}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Consume(_ context.Context, ev Event) error {
	if c.counts == nil {
		c.log.Printf("🍻 %s #%d", ev.Beverage.Name, ev.Value)
		return nil
	}

	// The registry still holds the pre-commit value for this beverage.
	total := c.counts.Total() - c.counts.Get(ev.Beverage.ID) + ev.Value
	c.log.Printf("🍻 %s #%d (total %d)", ev.Beverage.Name, ev.Value, total)
	return nil
}
