package persistence

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status summarizes autosave health for the host's save indicator.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded" // recent write failed, retrying
	StatusFailing  Status = "failing"  // repeated failures, progress at risk
)

// failingThreshold is the consecutive-failure count at which status moves
// from degraded to failing.
const failingThreshold = 3

// DefaultDebounce coalesces the burst of Schedule calls a single player
// action produces into one write.
const DefaultDebounce = 2 * time.Second

// Autosaver debounces save scheduling and performs writes off the action
// path. It satisfies the engine's Saver interface.
type Autosaver struct {
	marshal func() ([]byte, error)
	store   Store
	delay   time.Duration
	log     *zap.Logger

	mu       sync.Mutex
	timer    *time.Timer
	failures int
	closed   bool
}

// NewAutosaver wires a snapshot source to a store. The marshal func is
// called on the autosave goroutine, so hosts must not mutate state while a
// flush is possible; in practice the single-action-at-a-time discipline
// already gives that.
func NewAutosaver(marshal func() ([]byte, error), store Store, delay time.Duration, log *zap.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{marshal: marshal, store: store, delay: delay, log: log}
}

// Schedule arms (or re-arms) the debounce timer. Never blocks.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			a.log.Warn("autosave failed", zap.Error(err))
		}
	})
}

// Flush writes the current snapshot immediately.
func (a *Autosaver) Flush() error {
	data, err := a.marshal()
	if err == nil {
		err = a.store.Put(data)
	}
	a.mu.Lock()
	if err != nil {
		a.failures++
	} else {
		a.failures = 0
	}
	a.mu.Unlock()
	return err
}

// Wipe cancels any pending save and deletes the stored snapshot.
func (a *Autosaver) Wipe() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	if err := a.store.Delete(); err != nil {
		a.log.Warn("save wipe failed", zap.Error(err))
	}
}

// Status reports autosave health based on recent write outcomes.
func (a *Autosaver) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.failures == 0:
		return StatusOK
	case a.failures < failingThreshold:
		return StatusDegraded
	default:
		return StatusFailing
	}
}

// Close performs a final flush and stops the timer. The store itself is
// closed by the host.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.Flush()
}
