package core

// SoundTrigger is the fire-and-forget audio hook games call on gameplay
// events. Implementations must never block or return errors into the
// simulation; a failed audio device simply degrades to silence.
type SoundTrigger interface {
	PlayShoot()
	PlayExplosion()
	PlayShieldHit()
	PlayUFO()
}

// NopSound is a SoundTrigger that does nothing. Games default to it so
// simulation code and tests run silent without nil checks.
type NopSound struct{}

func (NopSound) PlayShoot()     {}
func (NopSound) PlayExplosion() {}
func (NopSound) PlayShieldHit() {}
func (NopSound) PlayUFO()       {}
