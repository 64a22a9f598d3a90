package pacing

import (
	"context"
	"testing"
	"time"
)

func TestDelayWaits(t *testing.T) {
	d := NewDelay()

	start := time.Now()
	if err := d.Wait(context.Background(), 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected to wait at least 50ms, waited %v", elapsed)
	}
}

func TestDelayZero(t *testing.T) {
	d := NewDelay()

	start := time.Now()
	if err := d.Wait(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("Expected zero delay to return immediately, took %v", elapsed)
	}
}

func TestDelayCancelled(t *testing.T) {
	d := NewDelay()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := d.Wait(ctx, time.Minute)
	if err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected cancellation to cut the pause short, took %v", elapsed)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	_ = r.Wait(ctx, time.Second)
	_ = r.Wait(ctx, 2*time.Second)

	waits := r.Waits()
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Errorf("unexpected waits: %v", waits)
	}
	if r.Total() != 3*time.Second {
		t.Errorf("Expected total 3s, got %v", r.Total())
	}

	r.Reset()
	if len(r.Waits()) != 0 {
		t.Error("Expected no waits after reset")
	}
}

func TestRecorderCancelled(t *testing.T) {
	r := NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Wait(ctx, time.Second); err != context.Canceled {
		t.Errorf("Expected Canceled, got %v", err)
	}
	if len(r.Waits()) != 0 {
		t.Error("Expected cancelled wait not to be recorded")
	}
}
