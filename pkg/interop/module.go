package interop

import (
	"context"
	"errors"
	"sync"
)

// RefState tracks a ModuleRef through its lifecycle.
type RefState uint8

const (
	// NotStarted means no acquisition has been attempted (or the last
	// one failed and may be retried).
	NotStarted RefState = iota

	// Pending means an acquisition is in flight.
	Pending

	// Ready means the handle is loaded and usable.
	Ready

	// Released means the ref was torn down. It never loads again.
	Released
)

// String returns the string representation of the ref state.
func (s RefState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	case Released:
		return "Released"
	default:
		return "Unknown"
	}
}

// ErrReleased is returned by Get after the ref has been released.
var ErrReleased = errors.New("interop: module ref released")

// ModuleRef is a memoized deferred loader for one client-side module.
//
// The first Get starts the load; concurrent Gets share the same
// in-flight acquisition and the same result. A failed load resets the
// ref so a later Get can retry. Release is idempotent and safe in any
// state: it waits out a pending load so the freshly loaded handle is
// disposed rather than leaked, and it never disposes twice.
type ModuleRef struct {
	runtime Runtime
	path    string

	mu     sync.Mutex
	state  RefState
	handle Handle
	flight *inflight
}

// inflight is one load attempt. done is closed once handle/err are set.
type inflight struct {
	done   chan struct{}
	handle Handle
	err    error
}

// NewModuleRef returns a ref that will load path through rt on first
// use. No network or client work happens until Get.
func NewModuleRef(rt Runtime, path string) *ModuleRef {
	return &ModuleRef{runtime: rt, path: path}
}

// Path returns the module path the ref loads.
func (r *ModuleRef) Path() string { return r.path }

// State returns the current lifecycle state.
func (r *ModuleRef) State() RefState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Get returns the loaded handle, starting the load if this is the
// first call. Every caller during a pending load blocks on the same
// acquisition. After Release, Get fails with ErrReleased.
func (r *ModuleRef) Get(ctx context.Context) (Handle, error) {
	r.mu.Lock()

	switch r.state {
	case Ready:
		h := r.handle
		r.mu.Unlock()
		return h, nil

	case Released:
		r.mu.Unlock()
		return nil, ErrReleased

	case Pending:
		fl := r.flight
		r.mu.Unlock()
		return awaitFlight(ctx, fl)

	default: // NotStarted
		fl := &inflight{done: make(chan struct{})}
		r.state = Pending
		r.flight = fl
		r.mu.Unlock()

		go r.load(fl)
		return awaitFlight(ctx, fl)
	}
}

// load performs the acquisition for one flight and publishes the
// outcome. It runs without the ref lock held; the ref may have been
// released by the time it finishes.
func (r *ModuleRef) load(fl *inflight) {
	// Detach the load from any single caller's deadline: other waiters
	// and a later Release share this flight.
	h, err := r.runtime.LoadModule(context.Background(), r.path)
	fl.handle = h
	fl.err = err
	close(fl.done)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Released {
		// Release observed the pending flight and will dispose the
		// handle itself.
		return
	}
	if err != nil {
		r.state = NotStarted
		r.flight = nil
		return
	}
	r.state = Ready
	r.handle = h
	r.flight = nil
}

func awaitFlight(ctx context.Context, fl *inflight) (Handle, error) {
	select {
	case <-fl.done:
		if fl.err != nil {
			return nil, fl.err
		}
		return fl.handle, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release tears the ref down. It disposes the handle at most once,
// waits out an in-flight load so the result is not leaked, and is a
// no-op when the module was never loaded or the ref is already
// released. After Release the ref never loads again.
func (r *ModuleRef) Release(ctx context.Context) error {
	r.mu.Lock()

	switch r.state {
	case Released, NotStarted:
		r.state = Released
		r.mu.Unlock()
		return nil

	case Ready:
		h := r.handle
		r.state = Released
		r.handle = nil
		r.mu.Unlock()
		return h.Release(ctx)

	default: // Pending
		fl := r.flight
		r.state = Released
		r.flight = nil
		r.mu.Unlock()

		select {
		case <-fl.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if fl.err != nil {
			// The load never produced a handle; nothing to dispose.
			return nil
		}
		return fl.handle.Release(ctx)
	}
}
