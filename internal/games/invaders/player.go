package invaders

import "github.com/vkazanov/retrocade/internal/core"

// Player movement tuning. Acceleration and deceleration are rates
// proportional to MaxSpeed per second, so the ship reaches full speed in
// 1/PlayerAccel seconds and stops in 1/PlayerDecel.
const (
	PlayerWidth    = 48.0
	PlayerHeight   = 22.0
	PlayerY        = 545.0 // Fixed vertical lane near the field bottom
	PlayerMaxSpeed = 320.0
	PlayerAccel    = 8.0
	PlayerDecel    = 10.0
)

// Player is the ship. Horizontal motion uses asymmetric acceleration toward
// the input direction and a harder deceleration toward rest, with the
// position hard-clamped to the field after integration.
type Player struct {
	X, Y     float64
	W, H     float64
	Vel      float64 // Signed horizontal velocity
	MaxSpeed float64
	Accel    float64
	Decel    float64
}

// NewPlayer creates a ship centered at the bottom of the field.
func NewPlayer() *Player {
	return &Player{
		X:        (FieldWidth - PlayerWidth) / 2,
		Y:        PlayerY,
		W:        PlayerWidth,
		H:        PlayerHeight,
		MaxSpeed: PlayerMaxSpeed,
		Accel:    PlayerAccel,
		Decel:    PlayerDecel,
	}
}

// Update advances the ship by dt seconds. direction is -1, 0 or +1; zero
// decelerates toward rest, anything else accelerates toward full speed in
// that direction. The x position never leaves [0, FieldWidth-W].
func (p *Player) Update(dt, direction float64) {
	var target, rate float64
	if direction != 0 {
		target = direction * p.MaxSpeed
		rate = p.Accel * p.MaxSpeed
	} else {
		target = 0
		rate = p.Decel * p.MaxSpeed
	}

	step := rate * dt
	if p.Vel < target {
		p.Vel += step
		if p.Vel > target {
			p.Vel = target
		}
	} else if p.Vel > target {
		p.Vel -= step
		if p.Vel < target {
			p.Vel = target
		}
	}

	p.X += p.Vel * dt
	p.X = core.ClampF(p.X, 0, FieldWidth-p.W)
}

// Bounds returns the collision rectangle.
func (p *Player) Bounds() core.RectF {
	return core.NewRectF(p.X, p.Y, p.W, p.H)
}
