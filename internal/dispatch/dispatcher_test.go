package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/drink-counter/internal/counter"
	"github.com/tamzrod/drink-counter/internal/sink"
	"github.com/tamzrod/drink-counter/internal/status"
	"github.com/tamzrod/drink-counter/internal/trigger"
)

var (
	clubMate = counter.Beverage{ID: "club_mate", Name: "Club Mate"}
	tschunk  = counter.Beverage{ID: "tschunk", Name: "Tschunk"}
)

// ---- recording sink ----

type call struct {
	sink  string
	id    string
	value int
}

type journal struct {
	mu    sync.Mutex
	calls []call
}

func (j *journal) add(c call) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, c)
}

func (j *journal) snapshot() []call {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]call(nil), j.calls...)
}

type fakeSink struct {
	name    string
	journal *journal
	err     error
	panics  bool
	onCall  func()
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Consume(_ context.Context, ev sink.Event) error {
	f.journal.add(call{sink: f.name, id: ev.Beverage.ID, value: ev.Value})
	if f.onCall != nil {
		f.onCall()
	}
	if f.panics {
		panic("boom")
	}
	return f.err
}

func scenario() (*counter.Registry, *journal, *fakeSink, *fakeSink, *fakeSink) {
	reg := counter.NewRegistry([]counter.Beverage{clubMate, tschunk}, counter.Snapshot{"club_mate": 5})
	j := &journal{}
	return reg, j,
		&fakeSink{name: "console", journal: j},
		&fakeSink{name: "printer", journal: j},
		&fakeSink{name: "remote", journal: j}
}

// ---- tests ----

func TestOnTrigger_ScenarioTwoTriggers(t *testing.T) {
	reg, j, console, printer, remote := scenario()
	d := New(reg, []sink.Sink{console, printer, remote})

	if reg.Get("club_mate") != 5 || reg.Get("tschunk") != 0 {
		t.Fatalf("unexpected initial registry: %+v", reg.Entries())
	}

	for i := 0; i < 2; i++ {
		if err := d.OnTrigger(context.Background(), clubMate); err != nil {
			t.Fatalf("OnTrigger err=%v", err)
		}
	}

	if got := reg.Get("club_mate"); got != 7 {
		t.Fatalf("club_mate: got=%d want=7", got)
	}
	if got := reg.Get("tschunk"); got != 0 {
		t.Fatalf("tschunk: got=%d want=0", got)
	}

	var remoteValues []int
	for _, c := range j.snapshot() {
		if c.sink == "remote" {
			remoteValues = append(remoteValues, c.value)
		}
	}
	if len(remoteValues) != 2 || remoteValues[0] != 6 || remoteValues[1] != 7 {
		t.Fatalf("remote values: got=%v want=[6 7]", remoteValues)
	}
}

func TestOnTrigger_ChainOrderAndCommitAfterChain(t *testing.T) {
	reg, j, console, printer, remote := scenario()

	// commit must not be visible while the chain runs
	remote.onCall = func() {
		if got := reg.Get("club_mate"); got != 5 {
			t.Errorf("registry committed before chain finished: %d", got)
		}
	}

	d := New(reg, []sink.Sink{console, printer, remote})
	if err := d.OnTrigger(context.Background(), clubMate); err != nil {
		t.Fatalf("OnTrigger err=%v", err)
	}

	calls := j.snapshot()
	want := []string{"console", "printer", "remote"}
	if len(calls) != len(want) {
		t.Fatalf("calls: got=%+v", calls)
	}
	for i, name := range want {
		if calls[i].sink != name || calls[i].value != 6 {
			t.Fatalf("call %d: got=%+v want sink=%s value=6", i, calls[i], name)
		}
	}
}

func TestOnTrigger_FailingRemoteIsIsolated(t *testing.T) {
	reg, j, console, printer, remote := scenario()
	remote.err = errors.New("connection refused")

	// remote first, to prove the others still run after it
	d := New(reg, []sink.Sink{remote, console, printer})

	if err := d.OnTrigger(context.Background(), clubMate); err != nil {
		t.Fatalf("sink failure must not surface: %v", err)
	}

	if got := len(j.snapshot()); got != 3 {
		t.Fatalf("expected all 3 sinks to run, got %d", got)
	}
	if got := reg.Get("club_mate"); got != 6 {
		t.Fatalf("commit must happen despite failure: got=%d want=6", got)
	}

	snap := d.Status()[0]
	if snap.Sink != "remote" || snap.Health != status.HealthError || snap.Failures != 1 {
		t.Fatalf("unexpected remote status: %+v", snap)
	}
}

func TestOnTrigger_PanicIsIsolated(t *testing.T) {
	reg, j, console, printer, remote := scenario()
	printer.panics = true

	d := New(reg, []sink.Sink{console, printer, remote})
	if err := d.OnTrigger(context.Background(), tschunk); err != nil {
		t.Fatalf("OnTrigger err=%v", err)
	}

	if got := len(j.snapshot()); got != 3 {
		t.Fatalf("expected all 3 sinks to run, got %d", got)
	}
	if got := reg.Get("tschunk"); got != 1 {
		t.Fatalf("tschunk: got=%d want=1", got)
	}
}

func TestOnTrigger_AllFailStillCommits(t *testing.T) {
	reg, _, console, printer, remote := scenario()
	for _, s := range []*fakeSink{console, printer, remote} {
		s.err = errors.New("down")
	}

	d := New(reg, []sink.Sink{console, printer, remote})
	_ = d.OnTrigger(context.Background(), clubMate)

	if got := reg.Get("club_mate"); got != 6 {
		t.Fatalf("club_mate: got=%d want=6", got)
	}
}

func TestOnTrigger_InterruptSkipsRestAndCommit(t *testing.T) {
	reg, j, console, printer, remote := scenario()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console.onCall = cancel

	d := New(reg, []sink.Sink{console, printer, remote})
	err := d.OnTrigger(ctx, clubMate)

	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if got := len(j.snapshot()); got != 1 {
		t.Fatalf("remaining sinks must be skipped, got %d calls", got)
	}
	if got := reg.Get("club_mate"); got != 5 {
		t.Fatalf("interrupted trigger must not commit: got=%d want=5", got)
	}
}

func TestCheckBindings(t *testing.T) {
	reg := counter.NewRegistry([]counter.Beverage{clubMate}, nil)

	if err := CheckBindings(reg, []counter.Beverage{clubMate}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckBindings(reg, []counter.Beverage{tschunk}); err == nil {
		t.Fatalf("expected error for unbound beverage")
	}
}

func TestRun_SerializesTriggers(t *testing.T) {
	reg, j, console, printer, remote := scenario()

	inFlight := 0
	var mu sync.Mutex
	enter := func() {
		mu.Lock()
		inFlight++
		if inFlight > 1 {
			t.Errorf("two triggers in flight")
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	leave := func() {
		mu.Lock()
		inFlight--
		mu.Unlock()
	}
	console.onCall = enter
	remote.onCall = leave

	d := New(reg, []sink.Sink{console, printer, remote})

	events := make(chan trigger.Event)
	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), events)
		close(done)
	}()

	// two sources racing on the same channel
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events <- trigger.Event{Beverage: clubMate, Source: "test"}
		}()
	}
	wg.Wait()
	close(events)
	<-done

	if got := reg.Get("club_mate"); got != 7 {
		t.Fatalf("club_mate: got=%d want=7", got)
	}

	calls := j.snapshot()
	if len(calls) != 6 {
		t.Fatalf("expected 6 sink calls, got %d", len(calls))
	}
	// trigger 1's whole pass precedes trigger 2's
	for i, c := range calls {
		want := 6
		if i >= 3 {
			want = 7
		}
		if c.value != want {
			t.Fatalf("call %d: value=%d want=%d", i, c.value, want)
		}
	}
}
