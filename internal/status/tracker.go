package status

// Tracker folds per-invocation outcomes into one Snapshot per sink.
// Single-writer: only the dispatch goroutine records.
type Tracker struct {
	order []string
	snaps map[string]*Snapshot
}

// NewTracker registers sinks in chain order. All start HealthUnknown.
func NewTracker(sinks ...string) *Tracker {
	t := &Tracker{snaps: make(map[string]*Snapshot, len(sinks))}
	for _, name := range sinks {
		t.add(name)
	}
	return t
}

func (t *Tracker) add(name string) *Snapshot {
	s := &Snapshot{Sink: name, Health: HealthUnknown}
	t.order = append(t.order, name)
	t.snaps[name] = s
	return s
}

// Record applies one outcome and reports whether health changed.
// A nil err is success.
func (t *Tracker) Record(sink string, err error) (Snapshot, bool) {
	s, ok := t.snaps[sink]
	if !ok {
		s = t.add(sink)
	}

	prev := s.Health

	if err == nil {
		s.Health = HealthOK
		s.Successes++
		s.ConsecutiveFailures = 0
		s.LastError = ""
	} else {
		s.Health = HealthError
		s.Failures++
		s.ConsecutiveFailures++
		s.LastError = err.Error()
	}

	return *s, prev != s.Health
}

// Get returns the snapshot for sink.
func (t *Tracker) Get(sink string) (Snapshot, bool) {
	s, ok := t.snaps[sink]
	if !ok {
		return Snapshot{}, false
	}
	return *s, true
}

// All returns every snapshot in registration order.
func (t *Tracker) All() []Snapshot {
	out := make([]Snapshot, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.snaps[name])
	}
	return out
}
