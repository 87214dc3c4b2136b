package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameClock gates frame advancement: pause, single step, and running time that excludes pauses
type FrameClock struct {
	mu sync.Mutex

	startTime       time.Time
	pauseStartTime  time.Time
	totalPausedTime time.Duration

	isPaused    atomic.Bool
	stepPending atomic.Bool

	now func() time.Time
}

// NewFrameClock creates a running clock
func NewFrameClock() *FrameClock {
	return newFrameClock(time.Now)
}

func newFrameClock(now func() time.Time) *FrameClock {
	return &FrameClock{startTime: now(), now: now}
}

// IsPaused returns current pause state
func (fc *FrameClock) IsPaused() bool {
	return fc.isPaused.Load()
}

// Pause stops frame advancement
func (fc *FrameClock) Pause() {
	if fc.isPaused.CompareAndSwap(false, true) {
		fc.mu.Lock()
		fc.pauseStartTime = fc.now()
		fc.mu.Unlock()
	}
}

// Resume continues frame advancement and drops any pending step
func (fc *FrameClock) Resume() {
	if fc.isPaused.CompareAndSwap(true, false) {
		fc.mu.Lock()
		fc.totalPausedTime += fc.now().Sub(fc.pauseStartTime)
		fc.pauseStartTime = time.Time{}
		fc.mu.Unlock()
		fc.stepPending.Store(false)
	}
}

// Toggle flips pause state, returns true if now paused
func (fc *FrameClock) Toggle() bool {
	if fc.IsPaused() {
		fc.Resume()
		return false
	}
	fc.Pause()
	return true
}

// Step requests a single frame while paused, ignored while running
func (fc *FrameClock) Step() {
	if fc.IsPaused() {
		fc.stepPending.Store(true)
	}
}

// ShouldAdvance reports whether the next tick advances a frame, consuming a pending step
func (fc *FrameClock) ShouldAdvance() bool {
	if !fc.IsPaused() {
		return true
	}
	return fc.stepPending.CompareAndSwap(true, false)
}

// Elapsed returns running time excluding pauses
func (fc *FrameClock) Elapsed() time.Duration {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	end := fc.now()
	if fc.isPaused.Load() && !fc.pauseStartTime.IsZero() {
		end = fc.pauseStartTime
	}
	return end.Sub(fc.startTime) - fc.totalPausedTime
}
