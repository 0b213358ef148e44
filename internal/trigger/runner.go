package trigger

import (
	"context"
	"log"
	"time"
)

// Run starts the ticker loop and emits Events on the provided channel.
// One goroutine per source. No overlap. No retries beyond the next tick.
// Read errors are logged once per failure streak.
func (p *Poller) Run(ctx context.Context, out chan<- Event) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	defer p.Close()

	failing := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		events, err := p.PollOnce()
		if err != nil {
			if !failing {
				log.Printf("trigger read failed (source=%s): %v", p.cfg.SourceID, err)
				failing = true
			}
			continue
		}
		if failing {
			log.Printf("trigger read recovered (source=%s)", p.cfg.SourceID)
			failing = false
		}

		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
