// Package trigger decides when sync cycles run: at startup, on a fixed
// interval, when connectivity comes back, and on demand. It never runs two
// cycles at once; the engine's guard turns overlapping triggers into no-ops.
package trigger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"granja/internal/client/syncengine"
	"granja/internal/logging"
)

const (
	DefaultSyncInterval  = 60 * time.Second
	DefaultProbeInterval = 5 * time.Second
)

// Syncer is the engine surface the runner drives.
type Syncer interface {
	Sync(ctx context.Context) (*syncengine.Result, error)
	PendingCount(ctx context.Context) (int, error)
}

// Runner owns the sync schedule.
type Runner struct {
	engine        Syncer
	probe         syncengine.Probe
	syncInterval  time.Duration
	probeInterval time.Duration
	log           logging.Logger

	online  atomic.Bool
	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(engine Syncer, probe syncengine.Probe, syncInterval, probeInterval time.Duration, log logging.Logger) *Runner {
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}
	if probeInterval <= 0 {
		probeInterval = DefaultProbeInterval
	}
	return &Runner{
		engine:        engine,
		probe:         probe,
		syncInterval:  syncInterval,
		probeInterval: probeInterval,
		log:           log.With("component", "trigger"),
		trigger:       make(chan struct{}, 1),
	}
}

// Start probes connectivity, runs the initial sync and launches the
// schedule loop. Call Stop to shut it down.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	r.checkOnline(ctx)
	go r.loop(ctx)
	r.TriggerNow()
}

// Stop halts the schedule loop and waits for it to exit. A cycle already in
// flight finishes on its own context.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// TriggerNow requests a cycle as soon as the loop picks it up. Requests
// collapse: many calls before the loop wakes cause one cycle.
func (r *Runner) TriggerNow() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Online reports the last probe verdict.
func (r *Runner) Online() bool {
	return r.online.Load()
}

// PendingCount reports rows awaiting push. Pure read, safe for status bars.
func (r *Runner) PendingCount(ctx context.Context) (int, error) {
	return r.engine.PendingCount(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	syncTick := time.NewTicker(r.syncInterval)
	defer syncTick.Stop()
	probeTick := time.NewTicker(r.probeInterval)
	defer probeTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.trigger:
			r.runSync(ctx)
		case <-syncTick.C:
			r.runSync(ctx)
		case <-probeTick.C:
			wasOnline := r.online.Load()
			if r.checkOnline(ctx) && !wasOnline {
				r.log.Info(ctx, "connection restored")
				r.runSync(ctx)
			}
		}
	}
}

func (r *Runner) checkOnline(ctx context.Context) bool {
	if r.probe == nil {
		r.online.Store(true)
		return true
	}
	up := r.probe(ctx) == nil
	r.online.Store(up)
	return up
}

func (r *Runner) runSync(ctx context.Context) {
	res, err := r.engine.Sync(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn(ctx, "sync cycle failed", "error", err)
		}
		return
	}
	if res.Skipped {
		r.log.Debug(ctx, "sync cycle skipped", "reason", res.SkipReason)
	}
}
