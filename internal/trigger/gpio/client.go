package gpio

import (
	"errors"
	"fmt"
	"strconv"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pull bias names accepted by Config.Pull.
const (
	PullUp   = "up"
	PullDown = "down"
	PullNone = "none"
)

// Pin is the part of a periph gpio.PinIO the client needs.
type Pin interface {
	Name() string
	In(pull pgpio.Pull, edge pgpio.Edge) error
	Read() pgpio.Level
	Halt() error
}

// Client implements trigger.Client over periph.io GPIO pins.
// Lines are BCM numbers, resolved by name ("GPIO2"), so the kernel's
// chip numbering does not leak into the configuration.
type Client struct {
	pins map[uint16]Pin
}

// Config is minimal GPIO config.
type Config struct {
	Lines []uint16
	Pull  string // up | down | none, empty = up

	// Lookup resolves a pin name. Nil means host.Init and the periph
	// registry.
	Lookup func(name string) Pin
}

// ParsePull maps a bias name to the periph pull setting.
func ParsePull(s string) (pgpio.Pull, error) {
	switch s {
	case "", PullUp:
		return pgpio.PullUp, nil
	case PullDown:
		return pgpio.PullDown, nil
	case PullNone:
		return pgpio.Float, nil
	default:
		return pgpio.PullNoChange, fmt.Errorf("trigger gpio: unknown pull %q", s)
	}
}

// New resolves every line and configures it as a biased input.
func New(cfg Config) (*Client, error) {
	if len(cfg.Lines) == 0 {
		return nil, errors.New("trigger gpio: at least one line required")
	}

	pull, err := ParsePull(cfg.Pull)
	if err != nil {
		return nil, err
	}

	lookup := cfg.Lookup
	if lookup == nil {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("trigger gpio: host init: %w", err)
		}
		lookup = registryPin
	}

	c := &Client{pins: make(map[uint16]Pin, len(cfg.Lines))}

	for _, l := range cfg.Lines {
		name := PinName(l)

		p := lookup(name)
		if p == nil {
			_ = c.Close()
			return nil, fmt.Errorf("trigger gpio: no pin %s", name)
		}
		if err := p.In(pull, pgpio.NoEdge); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("trigger gpio: %s input: %w", name, err)
		}
		c.pins[l] = p
	}

	return c, nil
}

// PinName is the periph registry name of a BCM line.
func PinName(l uint16) string {
	return "GPIO" + strconv.Itoa(int(l))
}

func registryPin(name string) Pin {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil
	}
	return p
}

// Close halts every pin this client configured.
func (c *Client) Close() error {
	var last error
	for _, p := range c.pins {
		if err := p.Halt(); err != nil {
			last = err
		}
	}
	c.pins = nil
	return last
}

// ReadLines samples the level of each line (true = high).
func (c *Client) ReadLines(lines []uint16) ([]bool, error) {
	out := make([]bool, len(lines))
	for i, l := range lines {
		p, ok := c.pins[l]
		if !ok {
			return nil, fmt.Errorf("trigger gpio: line %d not configured", l)
		}
		out[i] = p.Read() == pgpio.High
	}
	return out, nil
}
