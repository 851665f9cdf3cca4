package invaders

import (
	"math"
	"math/rand"
)

// ScreenShake holds a single active shake request. A new request only
// replaces the current one when nothing is active or the new intensity is
// larger, so a big explosion is never cut short by a small one.
type ScreenShake struct {
	duration  float64
	remaining float64
	intensity float64
	offsetX   float64
	offsetY   float64
	rng       *rand.Rand
	enabled   bool
}

// NewScreenShake creates an idle shake state.
func NewScreenShake(rng *rand.Rand) *ScreenShake {
	return &ScreenShake{rng: rng, enabled: true}
}

// SetEnabled toggles shaking entirely.
func (s *ScreenShake) SetEnabled(on bool) {
	s.enabled = on
	if !on {
		s.Stop()
	}
}

// Shake requests a shake of the given duration and intensity (offset
// magnitude in field pixels).
func (s *ScreenShake) Shake(duration, intensity float64) {
	if !s.enabled {
		return
	}
	if s.remaining > 0 && intensity <= s.intensity {
		return
	}
	s.duration = duration
	s.remaining = duration
	s.intensity = intensity
}

// Update decays the active shake. The offset magnitude shrinks linearly
// with the remaining time fraction; the direction is re-randomized every
// call so the jitter never settles into a visible orbit.
func (s *ScreenShake) Update(dt float64) {
	if s.remaining <= 0 {
		s.offsetX, s.offsetY = 0, 0
		return
	}

	s.remaining -= dt
	if s.remaining <= 0 {
		s.Stop()
		return
	}

	magnitude := s.intensity * (s.remaining / s.duration)
	angle := s.rng.Float64() * 2 * math.Pi
	s.offsetX = math.Cos(angle) * magnitude
	s.offsetY = math.Sin(angle) * magnitude
}

// Offset returns the current displacement in field pixels.
func (s *ScreenShake) Offset() (x, y float64) {
	return s.offsetX, s.offsetY
}

// Active reports whether a shake is in progress.
func (s *ScreenShake) Active() bool {
	return s.remaining > 0
}

// Stop ends the current shake immediately.
func (s *ScreenShake) Stop() {
	s.remaining = 0
	s.offsetX, s.offsetY = 0, 0
}
