package invaders

import (
	"math/rand"

	"github.com/vkazanov/retrocade/internal/core"
)

// UFO tuning.
const (
	UFOWidth  = 56.0
	UFOHeight = 24.0
	UFOSpeed  = 140.0
	UFOLaneY  = 48.0
)

// ufoPointsTable is the discrete bonus distribution sampled at spawn.
// Weights sum to 1.
var ufoPointsTable = []struct {
	points int
	weight float64
}{
	{50, 0.4},
	{100, 0.3},
	{150, 0.2},
	{300, 0.1},
}

// UFO is the bonus saucer crossing the top lane. At most one exists at a
// time; its point value is rolled once at spawn.
type UFO struct {
	X, Y      float64
	W, H      float64
	Speed     float64
	Direction float64 // +1 entered from the left, -1 from the right
	Points    int
}

// NewUFO spawns a saucer just off-screen on the given side, traveling
// across. The point value is drawn from the bonus distribution.
func NewUFO(rng *rand.Rand, fromLeft bool) *UFO {
	u := &UFO{
		Y:      UFOLaneY,
		W:      UFOWidth,
		H:      UFOHeight,
		Speed:  UFOSpeed,
		Points: rollUFOPoints(rng),
	}
	if fromLeft {
		u.X = -UFOWidth
		u.Direction = 1
	} else {
		u.X = FieldWidth
		u.Direction = -1
	}
	return u
}

// rollUFOPoints samples the bonus table by cumulative weight.
func rollUFOPoints(rng *rand.Rand) int {
	roll := rng.Float64()
	acc := 0.0
	for _, entry := range ufoPointsTable {
		acc += entry.weight
		if roll < acc {
			return entry.points
		}
	}
	return ufoPointsTable[len(ufoPointsTable)-1].points
}

// Update moves the saucer. Returns false once it is fully off-screen on
// the side it is traveling toward.
func (u *UFO) Update(dt float64) bool {
	u.X += u.Speed * u.Direction * dt
	if u.Direction > 0 && u.X > FieldWidth {
		return false
	}
	if u.Direction < 0 && u.X+u.W < 0 {
		return false
	}
	return true
}

// Bounds returns the collision rectangle.
func (u *UFO) Bounds() core.RectF {
	return core.NewRectF(u.X, u.Y, u.W, u.H)
}
