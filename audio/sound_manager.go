package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/parameter"
)

const (
	sampleRate = beep.SampleRate(48000)

	// maxVoices caps overlapping crackles when many bodies leave at once
	maxVoices = 8
)

// SoundManager plays the field's sound effects through a single mixer
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       atomic.Bool
	voices      atomic.Int32
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
// beep has no speaker Close, clearing the mixer silences everything
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.voices.Store(0)
	sm.initialized = false
}

// Enabled reports whether sounds reach the speaker
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized && !sm.muted.Load()
}

// SetMuted silences new sounds without tearing down the speaker
func (sm *SoundManager) SetMuted(muted bool) {
	sm.muted.Store(muted)
}

// Muted reports the mute switch
func (sm *SoundManager) Muted() bool {
	return sm.muted.Load()
}

// PlayDeath plays a short crackle for a body leaving the field, heavier bodies sound lower
func (sm *SoundManager) PlayDeath(b core.Body) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted.Load() {
		return
	}
	if sm.voices.Load() >= maxVoices {
		return
	}

	sm.voices.Add(1)
	gen := NewDeathGenerator(sampleRate, b.ID, b.Mass/parameter.MaxMass)
	streamer := beep.Seq(
		beep.Take(sampleRate.N(parameter.DeathSoundDuration), gen),
		beep.Callback(func() { sm.voices.Add(-1) }),
	)

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
}
