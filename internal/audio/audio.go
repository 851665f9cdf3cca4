// Package audio synthesizes the hub's sound effects with beep. Every cue
// is generated at runtime; there are no sample assets.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vkazanov/retrocade/internal/core"
)

const sampleRate = beep.SampleRate(44100)

// Manager implements core.SoundTrigger on top of a beep mixer. Before a
// successful Init every cue is a silent no-op, so a missing audio device
// degrades the hub to silence instead of failing it.
type Manager struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
}

var _ core.SoundTrigger = (*Manager)(nil)

// NewManager returns a manager in the silent state.
func NewManager() *Manager {
	return &Manager{mixer: &beep.Mixer{}}
}

// Init opens the speaker and starts the mixer. Calling it again after a
// success is a no-op; after a failure the manager stays silent.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(m.mixer)
	m.enabled = true
	return nil
}

// Close drops all pending cues and returns the manager to the silent
// state. The speaker itself has no close in beep; an empty mixer plays
// silence.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	m.mixer.Clear()
	m.enabled = false
}

// play queues a finite streamer; the mixer drops it once it drains.
func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	m.mixer.Add(s)
}

// PlayShoot is a quick descending saw zap.
func (m *Manager) PlayShoot() {
	osc := newTone(880, 220, 90*time.Millisecond, waveSaw, sampleRate)
	shaped := newEnvelope(osc, 90*time.Millisecond, 5*time.Millisecond, 50*time.Millisecond, sampleRate)
	m.play(gain(shaped, 0.25))
}

// PlayExplosion is a noise burst over a low rumble.
func (m *Manager) PlayExplosion() {
	burst := newEnvelope(newNoise(250*time.Millisecond, sampleRate),
		250*time.Millisecond, 2*time.Millisecond, 200*time.Millisecond, sampleRate)
	rumble := newEnvelope(newTone(65, 40, 250*time.Millisecond, waveSine, sampleRate),
		250*time.Millisecond, 2*time.Millisecond, 200*time.Millisecond, sampleRate)
	m.play(gain(beep.Mix(gain(burst, 0.6), gain(rumble, 0.8)), 0.5))
}

// PlayShieldHit is a dull low thump.
func (m *Manager) PlayShieldHit() {
	osc := newTone(140, 100, 80*time.Millisecond, waveSine, sampleRate)
	shaped := newEnvelope(osc, 80*time.Millisecond, 3*time.Millisecond, 60*time.Millisecond, sampleRate)
	m.play(gain(shaped, 0.3))
}

// PlayUFO is the saucer warble.
func (m *Manager) PlayUFO() {
	siren := newWarble(620, 160, 9, 600*time.Millisecond, sampleRate)
	shaped := newEnvelope(siren, 600*time.Millisecond, 20*time.Millisecond, 150*time.Millisecond, sampleRate)
	m.play(gain(shaped, 0.2))
}
