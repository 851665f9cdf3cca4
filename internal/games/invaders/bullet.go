package invaders

import "github.com/vkazanov/retrocade/internal/core"

// Bullet tuning. Speeds are magnitudes; the sign is fixed at construction
// by ownership and never changes.
const (
	BulletWidth       = 4.0
	BulletHeight      = 10.0
	PlayerBulletSpeed = 420.0
	EnemyBulletSpeed  = 240.0
	BulletTrailLen    = 3
)

// TrailPoint is a recent bullet position kept for the fading trail.
type TrailPoint struct {
	X, Y float64
}

// Bullet is a projectile. Negative speed travels up (player-owned),
// positive travels down (enemy-owned).
type Bullet struct {
	X, Y    float64
	W, H    float64
	Speed   float64
	IsEnemy bool
	Trail   []TrailPoint // Newest last, capped at BulletTrailLen
}

// NewPlayerBullet creates an upward bullet with its top-left at (x, y).
func NewPlayerBullet(x, y float64) *Bullet {
	return &Bullet{X: x, Y: y, W: BulletWidth, H: BulletHeight, Speed: -PlayerBulletSpeed}
}

// NewEnemyBullet creates a downward bullet with its top-left at (x, y).
func NewEnemyBullet(x, y float64) *Bullet {
	return &Bullet{X: x, Y: y, W: BulletWidth, H: BulletHeight, Speed: EnemyBulletSpeed, IsEnemy: true}
}

// Update records the current position into the trail, then integrates.
// Returns false once y leaves [0, FieldHeight], telling the caller to
// remove the bullet.
func (b *Bullet) Update(dt float64) bool {
	b.Trail = append(b.Trail, TrailPoint{X: b.X + b.W/2, Y: b.Y})
	if len(b.Trail) > BulletTrailLen {
		b.Trail = b.Trail[len(b.Trail)-BulletTrailLen:]
	}

	b.Y += b.Speed * dt
	return b.Y >= 0 && b.Y <= FieldHeight
}

// Bounds returns the collision rectangle.
func (b *Bullet) Bounds() core.RectF {
	return core.NewRectF(b.X, b.Y, b.W, b.H)
}
