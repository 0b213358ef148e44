package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/drink-counter/internal/counter"
	"github.com/tamzrod/drink-counter/internal/sink"
	"github.com/tamzrod/drink-counter/internal/status"
	"github.com/tamzrod/drink-counter/internal/trigger"
)

// ErrInterrupted is returned when the operator interrupted a trigger
// in flight. The remaining sinks and the commit were skipped.
var ErrInterrupted = errors.New("dispatch: interrupted")

// Dispatcher owns the registry and drives the sink chain.
// One trigger at a time: OnTrigger must only be called from a single
// goroutine (Run does this).
type Dispatcher struct {
	reg    *counter.Registry
	chain  []sink.Sink
	status *status.Tracker
	now    func() time.Time
}

// New builds a dispatcher over reg and chain. The chain order is final.
func New(reg *counter.Registry, chain []sink.Sink) *Dispatcher {
	return &Dispatcher{
		reg:    reg,
		chain:  chain,
		status: status.NewTracker(sink.Names(chain)...),
		now:    time.Now,
	}
}

// Counts exposes the registry read-only.
func (d *Dispatcher) Counts() counter.Reader { return d.reg }

// Status returns per-sink outcome snapshots in chain order.
func (d *Dispatcher) Status() []status.Snapshot { return d.status.All() }

// CheckBindings asserts every bound beverage has a registry entry.
// Meant to run once at startup; a failure is a configuration bug.
func CheckBindings(reg *counter.Registry, bound []counter.Beverage) error {
	for _, b := range bound {
		if !reg.Has(b.ID) {
			return fmt.Errorf("dispatch: trigger bound to unconfigured beverage %q", b.ID)
		}
	}
	return nil
}

// Run consumes triggers until events is closed or ctx is cancelled.
// This is the single dispatch goroutine.
func (d *Dispatcher) Run(ctx context.Context, events <-chan trigger.Event) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := d.OnTrigger(ctx, ev.Beverage); err != nil {
				log.Printf("dispatch: %v (beverage=%s source=%s)", err, ev.Beverage.ID, ev.Source)
				return
			}
		}
	}
}

// OnTrigger advances beverage by one.
//
//  1. read current
//  2. next = current + 1
//  3. every sink in order; failures are logged and the chain proceeds
//  4. commit next, regardless of sink outcomes
//
// Cancellation of ctx is the operator interrupt: it skips the rest of
// the chain and the commit and returns ErrInterrupted.
func (d *Dispatcher) OnTrigger(ctx context.Context, b counter.Beverage) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}

	current := d.reg.Get(b.ID)
	next := current + 1

	ev := sink.Event{
		ID:       uuid.New(),
		Beverage: b,
		Value:    next,
		At:       d.now(),
	}

	for _, s := range d.chain {
		err := consume(ctx, s, ev)
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		d.record(s.Name(), ev, err)
	}

	d.reg.Set(b.ID, next)
	return nil
}

func (d *Dispatcher) record(name string, ev sink.Event, err error) {
	if err != nil {
		log.Printf("sink %s failed (beverage=%s value=%d event=%s): %v", name, ev.Beverage.ID, ev.Value, ev.ID, err)
	}

	snap, changed := d.status.Record(name, err)
	if changed && snap.Successes+snap.Failures > 1 {
		log.Printf("sink %s health -> %s", name, status.HealthName(snap.Health))
	}
}

// consume runs one sink with panic isolation.
func consume(ctx context.Context, s sink.Sink, ev sink.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Consume(ctx, ev)
}
