package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/tamzrod/drink-counter/internal/counter"
)

// sensorReading is one entry of state.sensors.<category>.
type sensorReading struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

type stateDocument struct {
	State *struct {
		Sensors *map[string][]sensorReading `json:"sensors"`
	} `json:"state"`
}

// LoadSnapshot fetches the authoritative counts for category.
// Any transport error or non-2xx status is returned unchanged and is
// meant to abort startup. A missing category is not an error: the remote
// side simply has not seen data of that kind yet.
func LoadSnapshot(ctx context.Context, c *Client, category string) (counter.Snapshot, error) {
	body, err := c.Get(ctx, "/")
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(body, category)
}

// ParseSnapshot extracts id -> value from a state document.
// Reading names are "<category>_<id>"; names without that prefix are skipped.
// A document without state.sensors is rejected: only a missing category
// inside an existing sensors object means "no data yet".
func ParseSnapshot(body []byte, category string) (counter.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc stateDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("remote: decode state: %w", err)
	}

	if doc.State == nil || doc.State.Sensors == nil {
		return nil, errors.New("remote: state.sensors missing")
	}

	snap := counter.Snapshot{}

	readings, ok := (*doc.State.Sensors)[category]
	if !ok {
		log.Printf("remote: sensor category %q not found, it will be created on first write", category)
		return snap, nil
	}

	prefix := category + "_"
	for _, r := range readings {
		if !strings.HasPrefix(r.Name, prefix) {
			log.Printf("remote: skipping reading %q (missing prefix %q)", r.Name, prefix)
			continue
		}
		id := strings.TrimPrefix(r.Name, prefix)

		v, err := readingValue(r.Value)
		if err != nil {
			return nil, fmt.Errorf("remote: reading %q: %w", r.Name, err)
		}
		snap[id] = v
	}

	return snap, nil
}

func readingValue(n json.Number) (int, error) {
	if n == "" {
		return 0, fmt.Errorf("missing value")
	}
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("negative value %d", i)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", n, err)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid value %v", f)
	}
	return int(f), nil
}
