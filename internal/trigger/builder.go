package trigger

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/drink-counter/internal/config"
	"github.com/tamzrod/drink-counter/internal/counter"
	"github.com/tamzrod/drink-counter/internal/trigger/gpio"
	tmodbus "github.com/tamzrod/drink-counter/internal/trigger/modbus"
)

// Build constructs a Poller for one input and wires its client lifecycle.
// The client is reused while healthy.
// On read failure, Poller discards the client and uses factory on a future tick.
func Build(in cfg.InputConfig, beverages map[string]counter.Beverage) (*Poller, error) {
	bindings := make([]Binding, 0, len(in.Lines))
	lines := make([]uint16, 0, len(in.Lines))

	for _, l := range in.Lines {
		b, ok := beverages[l.Beverage]
		if !ok {
			return nil, fmt.Errorf("trigger: input %q line %d: unknown beverage %q", in.ID, l.Line, l.Beverage)
		}
		bindings = append(bindings, Binding{Line: l.Line, Beverage: b})
		lines = append(lines, l.Line)
	}

	// client factory: ONE attempt per call
	var factory func() (Client, error)

	switch in.Kind {
	case cfg.InputGPIO:
		factory = func() (Client, error) {
			return gpio.New(gpio.Config{Lines: lines, Pull: in.Pull})
		}
	case cfg.InputModbusTCP, cfg.InputModbusRTU:
		factory = func() (Client, error) {
			return tmodbus.New(tmodbus.Config{
				Endpoint: in.Endpoint,
				RTU:      in.Kind == cfg.InputModbusRTU,
				Baud:     in.Baud,
				UnitID:   in.UnitID,
				Timeout:  time.Duration(in.TimeoutMs) * time.Millisecond,
			})
		}
	default:
		return nil, fmt.Errorf("trigger: input %q: unknown kind %q", in.ID, in.Kind)
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, err
	}

	p, err := New(
		Config{
			SourceID:  in.ID,
			Interval:  time.Duration(in.PollMs) * time.Millisecond,
			ActiveLow: in.ActiveLow,
			Bindings:  bindings,
		},
		client,
		factory,
	)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return p, nil
}
