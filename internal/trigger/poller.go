package trigger

import (
	"errors"
	"fmt"
	"time"
)

// Client abstracts the line reads the poller needs.
// The poller depends on line numbers only.
type Client interface {
	// ReadLines returns the raw level of each line, in the order given.
	ReadLines(lines []uint16) ([]bool, error)
	Close() error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	SourceID  string
	Interval  time.Duration
	ActiveLow bool
	Bindings  []Binding
}

// Poller is a clock-driven edge detector.
// It emits one Event per inactive -> active transition of a line.
type Poller struct {
	cfg     Config
	lines   []uint16
	client  Client
	factory func() (Client, error)

	// nil until a baseline sample exists
	prev []bool
}

// New creates a poller with immutable config.
// factory may be nil; the poller then cannot recover from a dead client.
func New(cfg Config, client Client, factory func() (Client, error)) (*Poller, error) {
	if cfg.SourceID == "" {
		return nil, errors.New("trigger: source id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("trigger: interval must be > 0")
	}
	if len(cfg.Bindings) == 0 {
		return nil, errors.New("trigger: at least one binding required")
	}

	lines := make([]uint16, 0, len(cfg.Bindings))
	for _, b := range cfg.Bindings {
		lines = append(lines, b.Line)
	}

	return &Poller{
		cfg:     cfg,
		lines:   lines,
		client:  client,
		factory: factory,
	}, nil
}

// Bindings returns the configured line bindings.
func (p *Poller) Bindings() []Binding { return p.cfg.Bindings }

// PollOnce samples every line once and returns the edges since the
// previous sample. The first sample after start or reconnect is a
// baseline and yields no events. On read failure the client is
// discarded; the factory is used on a later call.
func (p *Poller) PollOnce() ([]Event, error) {
	if p.client == nil {
		if p.factory == nil {
			return nil, errors.New("trigger: no client")
		}
		c, err := p.factory()
		if err != nil {
			return nil, fmt.Errorf("trigger: reconnect: %w", err)
		}
		p.client = c
		p.prev = nil
	}

	raw, err := p.client.ReadLines(p.lines)
	if err == nil && len(raw) != len(p.lines) {
		err = fmt.Errorf("trigger: read %d lines, got %d levels", len(p.lines), len(raw))
	}
	if err != nil {
		_ = p.client.Close()
		p.client = nil
		p.prev = nil
		return nil, err
	}

	active := make([]bool, len(raw))
	for i, v := range raw {
		active[i] = v != p.cfg.ActiveLow
	}

	if p.prev == nil {
		p.prev = active
		return nil, nil
	}

	now := time.Now()
	var events []Event
	for i, on := range active {
		if on && !p.prev[i] {
			b := p.cfg.Bindings[i]
			events = append(events, Event{
				Beverage: b.Beverage,
				Source:   p.cfg.SourceID,
				Line:     b.Line,
				At:       now,
			})
		}
	}

	p.prev = active
	return events, nil
}

// Close releases the current client, if any.
func (p *Poller) Close() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
