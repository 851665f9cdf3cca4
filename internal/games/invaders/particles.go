package invaders

import (
	"math"
	"math/rand"

	"github.com/vkazanov/retrocade/internal/core"
)

// Particle physics constants.
const (
	ParticleGravity       = 200.0 // Downward acceleration, px/s^2
	ParticleAirResistance = 0.98  // Horizontal damping per update
)

// Particle is one cosmetic spark. Alpha fades linearly with age and the
// renderer picks glyphs from it.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Color    core.Color
	Lifetime float64
	Age      float64
	Size     float64
	Alpha    float64
}

// ParticleSystem owns all live particles. Purely cosmetic: nothing in the
// simulation reads particle state back.
type ParticleSystem struct {
	particles []Particle
	rng       *rand.Rand
	enabled   bool
}

// NewParticleSystem creates an empty system using the given RNG for spawn
// jitter.
func NewParticleSystem(rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{rng: rng, enabled: true}
}

// SetEnabled toggles particle spawning. Updates still run so existing
// particles drain after a disable.
func (ps *ParticleSystem) SetEnabled(on bool) {
	ps.enabled = on
}

// Update integrates all particles by dt and drops the expired ones.
// Removal swaps the last particle in, so iteration control stays manual.
func (ps *ParticleSystem) Update(dt float64) {
	for i := 0; i < len(ps.particles); {
		p := &ps.particles[i]
		p.Age += dt
		if p.Age >= p.Lifetime {
			last := len(ps.particles) - 1
			ps.particles[i] = ps.particles[last]
			ps.particles = ps.particles[:last]
			continue
		}

		p.VY += ParticleGravity * dt
		p.VX *= ParticleAirResistance
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Alpha = 1 - p.Age/p.Lifetime
		i++
	}
}

// AddExplosion seeds count particles bursting out of (x, y) with
// randomized angle, speed, lifetime and slight color jitter around base.
func (ps *ParticleSystem) AddExplosion(x, y float64, count int, base core.Color) {
	if !ps.enabled {
		return
	}
	palette := explosionPalette(base)
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := 40 + ps.rng.Float64()*160
		ps.particles = append(ps.particles, Particle{
			X:        x,
			Y:        y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle)*speed - 30,
			Color:    palette[ps.rng.Intn(len(palette))],
			Lifetime: 0.4 + ps.rng.Float64()*0.6,
			Size:     1 + ps.rng.Float64(),
			Alpha:    1,
		})
	}
}

// AddHitSpark is a small directional burst for shield impacts.
func (ps *ParticleSystem) AddHitSpark(x, y float64, color core.Color) {
	if !ps.enabled {
		return
	}
	for i := 0; i < 6; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := 20 + ps.rng.Float64()*60
		ps.particles = append(ps.particles, Particle{
			X:        x,
			Y:        y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Color:    color,
			Lifetime: 0.15 + ps.rng.Float64()*0.25,
			Size:     1,
			Alpha:    1,
		})
	}
}

// AddBulletTrail leaves one faint, short-lived mote behind a bullet.
func (ps *ParticleSystem) AddBulletTrail(x, y float64, isEnemy bool) {
	if !ps.enabled {
		return
	}
	color := core.ColorGray
	drift := 20.0
	if isEnemy {
		color = core.ColorRed
		drift = -20.0
	}
	ps.particles = append(ps.particles, Particle{
		X:        x,
		Y:        y,
		VX:       (ps.rng.Float64() - 0.5) * 10,
		VY:       drift * ps.rng.Float64(),
		Color:    color,
		Lifetime: 0.15 + ps.rng.Float64()*0.15,
		Size:     1,
		Alpha:    1,
	})
}

// Particles exposes the live pool for rendering.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Len returns the number of live particles.
func (ps *ParticleSystem) Len() int {
	return len(ps.particles)
}

// Clear drops every particle, used on restart.
func (ps *ParticleSystem) Clear() {
	ps.particles = ps.particles[:0]
}

// explosionPalette picks jitter colors around the base burst color.
func explosionPalette(base core.Color) []core.Color {
	switch base {
	case core.ColorMagenta, core.ColorBrightMagenta:
		return []core.Color{core.ColorMagenta, core.ColorBrightMagenta, core.ColorBrightWhite}
	case core.ColorCyan, core.ColorBrightCyan:
		return []core.Color{core.ColorCyan, core.ColorBrightCyan, core.ColorBrightWhite}
	case core.ColorGreen, core.ColorBrightGreen:
		return []core.Color{core.ColorGreen, core.ColorBrightGreen, core.ColorBrightYellow}
	case core.ColorRed, core.ColorBrightRed:
		return []core.Color{core.ColorRed, core.ColorBrightRed, core.ColorOrange, core.ColorBrightYellow}
	default:
		return []core.Color{base, core.ColorBrightWhite, core.ColorBrightYellow}
	}
}
