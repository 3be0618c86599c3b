package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	var ticks atomic.Int64
	err := s.Run(ctx, func(ctx context.Context, cycle time.Time) error {
		ticks.Add(1)
		return nil
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("run should surface the context error, got %v", err)
	}
	if ticks.Load() == 0 {
		t.Fatal("expected at least one tick before the deadline")
	}
}

func TestTickErrorDoesNotStopLoop(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int64
	err := s.Run(ctx, func(ctx context.Context, cycle time.Time) error {
		if ticks.Add(1) >= 2 {
			cancel()
		}
		return errors.New("boom")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run should end with the cancellation, got %v", err)
	}
	if ticks.Load() < 2 {
		t.Fatalf("a failing tick should not stop the loop, got %d ticks", ticks.Load())
	}
}

func TestStartupDelayHonoursCancel(t *testing.T) {
	s := New(Options{Interval: time.Minute, StartupDelay: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var ticks atomic.Int64
	err := s.Run(ctx, func(ctx context.Context, cycle time.Time) error {
		ticks.Add(1)
		return nil
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if ticks.Load() != 0 {
		t.Fatal("no tick should fire during the startup delay")
	}
}

func TestNextDueAligned(t *testing.T) {
	s := New(Options{Interval: time.Minute, AlignToStart: true}, zerolog.Nop())

	now := time.Date(2025, 7, 1, 12, 0, 17, 0, time.UTC)
	due := s.nextDue(now)
	want := time.Date(2025, 7, 1, 12, 1, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("nextDue = %v, want %v", due, want)
	}

	if got := s.cycleStart(due); !got.Equal(want) {
		t.Fatalf("cycleStart = %v, want %v", got, want)
	}
}

func TestNewPanicsOnNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a zero interval")
		}
	}()
	New(Options{}, zerolog.Nop())
}
