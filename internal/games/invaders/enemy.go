package invaders

import "github.com/vkazanov/retrocade/internal/core"

// Enemy geometry and scoring.
const (
	EnemyWidth  = 40.0
	EnemyHeight = 28.0

	// Base horizontal distance covered per formation tick, before the
	// wave speed multiplier.
	EnemyBaseStep = 12.0
)

// Score values indexed by enemy type.
var enemyScores = map[int]int{1: 30, 2: 20, 3: 10}

// Enemy is one formation member. The initial position anchors formation
// tracking: horizontal travel is measured against it, and MoveDown shifts
// both so the offset survives descents.
type Enemy struct {
	X, Y               float64
	InitialX, InitialY float64
	W, H               float64
	Speed              float64 // Pixels per formation tick (base * wave multiplier)
	Type               int     // 1, 2 or 3; fixed by row at spawn
	Row, Col           int
	FormationOffset    float64 // X displacement from the spawn anchor
}

// NewEnemy creates a formation member at (x, y). The type is derived from
// the row and never changes afterwards.
func NewEnemy(x, y float64, row, col int, speed float64) *Enemy {
	return &Enemy{
		X:        x,
		Y:        y,
		InitialX: x,
		InitialY: y,
		W:        EnemyWidth,
		H:        EnemyHeight,
		Speed:    speed,
		Type:     EnemyTypeForRow(row),
		Row:      row,
		Col:      col,
	}
}

// EnemyTypeForRow maps a formation row to an enemy type: the top row is
// type 1, the next two are type 2, everything below is type 3.
func EnemyTypeForRow(row int) int {
	switch {
	case row == 0:
		return 1
	case row <= 2:
		return 2
	default:
		return 3
	}
}

// Update moves the enemy horizontally by speed*dt in the given direction
// and refreshes the formation offset.
func (e *Enemy) Update(dt, direction float64) {
	e.X += e.Speed * dt * direction
	e.FormationOffset = e.X - e.InitialX
}

// MoveDown descends the enemy by amount. The initial y shifts too so
// formation offset tracking stays stable across descents.
func (e *Enemy) MoveDown(amount float64) {
	e.Y += amount
	e.InitialY += amount
}

// Points returns the score value for destroying this enemy.
func (e *Enemy) Points() int {
	return enemyScores[e.Type]
}

// Bounds returns the collision rectangle.
func (e *Enemy) Bounds() core.RectF {
	return core.NewRectF(e.X, e.Y, e.W, e.H)
}
