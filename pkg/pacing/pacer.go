package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer pauses between requests
type Pacer interface {
	// Wait blocks for d or until ctx is done, whichever comes first.
	Wait(ctx context.Context, d time.Duration) error
}

// Delay is a Pacer backed by a real timer
type Delay struct{}

// NewDelay creates a timer based pacer
func NewDelay() *Delay {
	return &Delay{}
}

// Wait pauses for d. A non-positive d returns immediately unless ctx is
// already done.
func (Delay) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Recorder is a Pacer that never sleeps and remembers every requested pause
type Recorder struct {
	waits []time.Duration
	mu    sync.Mutex
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Wait records d and returns immediately
func (r *Recorder) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

// Waits returns the recorded pauses in call order
func (r *Recorder) Waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

// Total returns the sum of all recorded pauses
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Waits() {
		total += d
	}
	return total
}

// Reset forgets all recorded pauses
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = r.waits[:0]
}
