package engine

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestFrameClockRunningAdvances(t *testing.T) {
	fc := NewFrameClock()
	if fc.IsPaused() {
		t.Fatal("Expected new clock to be running")
	}
	for i := 0; i < 3; i++ {
		if !fc.ShouldAdvance() {
			t.Error("Expected running clock to advance every tick")
		}
	}
}

func TestFrameClockSingleStep(t *testing.T) {
	fc := NewFrameClock()

	fc.Step()
	if !fc.ShouldAdvance() {
		t.Error("Expected running clock to advance")
	}

	if !fc.Toggle() {
		t.Fatal("Expected Toggle to pause")
	}
	if fc.ShouldAdvance() {
		t.Error("Expected paused clock to hold")
	}

	fc.Step()
	if !fc.ShouldAdvance() {
		t.Error("Expected step to release exactly one frame")
	}
	if fc.ShouldAdvance() {
		t.Error("Expected step to be consumed")
	}

	fc.Step()
	fc.Resume()
	fc.Pause()
	if fc.ShouldAdvance() {
		t.Error("Expected resume to drop pending step")
	}
}

func TestFrameClockElapsedExcludesPause(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	fc := newFrameClock(clk.Now)

	clk.Advance(2 * time.Second)
	fc.Pause()
	clk.Advance(5 * time.Second)
	if got := fc.Elapsed(); got != 2*time.Second {
		t.Errorf("Expected 2s while paused, got %v", got)
	}

	fc.Resume()
	clk.Advance(time.Second)
	if got := fc.Elapsed(); got != 3*time.Second {
		t.Errorf("Expected 3s after resume, got %v", got)
	}
}
