package domain

import (
	"errors"
	"sync"
)

// Status mirrors the user-visible progress of a single generation.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ErrBusy is returned when a new action is triggered while one is still in
// flight on the same tracker.
var ErrBusy = errors.New("a generation is already in progress")

// Tracker owns the idle → processing → completed|error lifecycle of one
// caller. A finished tracker can be reused; a processing one cannot.
type Tracker struct {
	mu     sync.Mutex
	status Status
	err    error
}

// NewTracker returns a tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{status: StatusIdle}
}

// Status returns the current state and, in the error state, its cause.
func (t *Tracker) Status() (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == "" {
		return StatusIdle, nil
	}
	return t.status, t.err
}

// MarkUploading records that the caller is reading and validating input.
func (t *Tracker) MarkUploading() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight() {
		return ErrBusy
	}
	t.status, t.err = StatusUploading, nil
	return nil
}

// Begin enters processing. It fails with ErrBusy if a dispatch is already
// outstanding.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusProcessing {
		return ErrBusy
	}
	t.status, t.err = StatusProcessing, nil
	return nil
}

// Complete leaves processing successfully. Calls outside processing are
// ignored so the exit happens exactly once.
func (t *Tracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusProcessing {
		t.status = StatusCompleted
	}
}

// Fail leaves processing (or uploading) with err.
func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight() {
		t.status, t.err = StatusError, err
	}
}

// Run wraps fn in Begin and the matching exit transition.
func (t *Tracker) Run(fn func() error) error {
	if err := t.Begin(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		t.Fail(err)
		return err
	}
	t.Complete()
	return nil
}

func (t *Tracker) inFlight() bool {
	return t.status == StatusProcessing || t.status == StatusUploading
}
