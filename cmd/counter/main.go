// cmd/counter/main.go
package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tamzrod/drink-counter/internal/config"
	"github.com/tamzrod/drink-counter/internal/counter"
	"github.com/tamzrod/drink-counter/internal/dispatch"
	"github.com/tamzrod/drink-counter/internal/remote"
	"github.com/tamzrod/drink-counter/internal/sink"
	"github.com/tamzrod/drink-counter/internal/status"
	"github.com/tamzrod/drink-counter/internal/trigger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: counter <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	c := cfg.Counter

	// --------------------
	// Operator interrupt: terminate immediately.
	// The in-flight trigger, if any, is not committed.
	// --------------------

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		log.Printf("interrupted, exiting")
		os.Exit(130)
	}()

	log.Printf("🚀 drink counter starting (beverages=%d inputs=%d)", len(c.Beverages), len(c.Inputs))

	// --------------------
	// Reconcile with remote snapshot (fatal on failure)
	// --------------------

	remoteCli, err := remote.New(remote.Config{
		BaseURL: c.Remote.BaseURL,
		PutPath: c.Remote.PutPath,
		Timeout: time.Duration(c.Remote.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("remote client failed: %v", err)
	}

	log.Printf("requesting current counts (endpoint=%s)", c.Remote.BaseURL)
	snap, err := remote.LoadSnapshot(sigCtx, remoteCli, c.Remote.SensorType)
	if err != nil {
		log.Fatalf("remote snapshot failed: %v", err)
	}

	beverages := make([]counter.Beverage, 0, len(c.Beverages))
	byID := make(map[string]counter.Beverage, len(c.Beverages))
	for _, b := range c.Beverages {
		bev := counter.Beverage{ID: b.ID, Name: b.Name}
		beverages = append(beverages, bev)
		byID[b.ID] = bev
	}

	reg := counter.NewRegistry(beverages, snap)

	for _, id := range counter.Unknown(snap, beverages) {
		log.Printf("remote reports unconfigured beverage %q, ignoring", id)
	}

	// --------------------
	// Sink chain + dispatcher
	// --------------------

	chain, closeSinks, err := sink.BuildChain(c, os.Stdout, reg, remoteCli)
	if err != nil {
		log.Fatalf("sink chain failed: %v", err)
	}
	defer closeSinks()

	d := dispatch.New(reg, chain)

	// --------------------
	// Trigger sources (one poller per input)
	// --------------------

	var pollers []*trigger.Poller
	var bound []counter.Beverage

	for _, in := range c.Inputs {
		p, err := trigger.Build(in, byID)
		if err != nil {
			log.Fatalf("trigger build failed (input=%s): %v", in.ID, err)
		}
		pollers = append(pollers, p)

		for _, b := range p.Bindings() {
			bound = append(bound, b.Beverage)
			log.Printf("bound line %d -> %s (input=%s kind=%s)", b.Line, b.Beverage.ID, in.ID, in.Kind)
		}
	}

	if err := dispatch.CheckBindings(reg, bound); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("current values:")
	for _, e := range d.Counts().Entries() {
		log.Printf("\t%s: %d", e.Beverage.ID, e.Count)
	}

	// --------------------
	// Serve
	// --------------------

	srcCtx, stopSources := context.WithCancel(sigCtx)
	events := make(chan trigger.Event)

	var wg sync.WaitGroup
	for _, p := range pollers {
		wg.Add(1)
		go func(p *trigger.Poller) {
			defer wg.Done()
			p.Run(srcCtx, events)
		}(p)
	}

	// close events once every source stopped, so the dispatcher drains
	go func() {
		wg.Wait()
		close(events)
	}()

	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		d.Run(sigCtx, events)
	}()

	log.Printf("🍻 waiting for drinks...")

	// --------------------
	// Manual quit gate
	// --------------------

	if waitForEnter() {
		log.Printf("quit requested, finishing in-flight trigger")
		stopSources()
		<-dispatched
		logStatus(d.Status())
		return
	}

	// --------------------
	// stdin is not interactive: block forever (daemon-safe, no deadlock).
	// Only a signal ends the process.
	// --------------------
	log.Printf("stdin closed, running until interrupted")
	for {
		time.Sleep(time.Hour)
	}
}

// waitForEnter blocks until a line is read from stdin.
// Returns false on EOF or read error.
func waitForEnter() bool {
	log.Printf("   press enter to quit")
	_, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return err == nil
}

func logStatus(snaps []status.Snapshot) {
	for _, s := range snaps {
		log.Printf(
			"sink %s: health=%s ok=%d failed=%d last_error=%q",
			s.Sink,
			status.HealthName(s.Health),
			s.Successes,
			s.Failures,
			s.LastError,
		)
	}
}
