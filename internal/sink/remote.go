package sink

import (
	"context"

	"github.com/tamzrod/drink-counter/internal/remote"
)

// readingWriter is the exact contract the remote sink uses.
type readingWriter interface {
	PutReadings(ctx context.Context, readings []remote.Reading) error
}

// RemoteConfig is the fixed descriptive metadata sent with each value.
type RemoteConfig struct {
	SensorType string
	Unit       string
}

// Remote persists the new count to the counter API.
// Failures are returned, never retried.
type Remote struct {
	cli readingWriter
	cfg RemoteConfig
}

func NewRemote(cli readingWriter, cfg RemoteConfig) *Remote {
	return &Remote{cli: cli, cfg: cfg}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Consume(ctx context.Context, ev Event) error {
	return r.cli.PutReadings(ctx, []remote.Reading{{
		SensorType:  r.cfg.SensorType,
		Location:    ev.Beverage.ID,
		Value:       ev.Value,
		Unit:        r.cfg.Unit,
		Description: ev.Beverage.Name,
	}})
}
