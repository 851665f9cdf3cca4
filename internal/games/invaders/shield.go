package invaders

import "github.com/vkazanov/retrocade/internal/core"

// Shield geometry. The damage mask has one cell per SegmentSize pixels;
// dimensions are chosen to divide evenly.
const (
	ShieldWidth        = 88.0
	ShieldHeight       = 56.0
	ShieldY            = 470.0
	ShieldCount        = 4
	ShieldSegmentSize  = 4.0
	ShieldDamageRadius = 2
)

// Shield is a destructible barrier backed by a boolean damage mask at
// segment granularity. Cells only ever flip from intact to destroyed;
// the barrier persists for the whole wave regardless of damage.
type Shield struct {
	X, Y float64
	W, H float64

	cols, rows int
	destroyed  [][]bool // [row][col], true = hole
}

// NewShield creates a barrier at (x, y) with its initial shape pre-carved:
// an arched opening at the top center, solid side walls, and a small gap
// at the bottom center.
func NewShield(x, y float64) *Shield {
	s := &Shield{
		X:    x,
		Y:    y,
		W:    ShieldWidth,
		H:    ShieldHeight,
		cols: int(ShieldWidth / ShieldSegmentSize),
		rows: int(ShieldHeight / ShieldSegmentSize),
	}
	s.destroyed = make([][]bool, s.rows)
	for r := range s.destroyed {
		s.destroyed[r] = make([]bool, s.cols)
	}
	s.carveInitialShape()
	return s
}

// carveInitialShape cuts the spawn-time holes into a fresh mask.
func (s *Shield) carveInitialShape() {
	centerCol := float64(s.cols-1) / 2
	arcRadius := float64(s.rows) * 0.42

	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			dx := float64(col) - centerCol
			dy := float64(row)
			if dx*dx+dy*dy <= arcRadius*arcRadius {
				s.destroyed[row][col] = true
			}
		}
	}

	// Bottom-center gap, two cells wide.
	gapLeft := s.cols/2 - 1
	for row := s.rows - 3; row < s.rows; row++ {
		for col := gapLeft; col < gapLeft+2; col++ {
			s.destroyed[row][col] = true
		}
	}
}

// CheckBulletCollision tests a bullet rectangle against the mask. A hit on
// an intact cell destroys every cell within the circular damage radius
// around the impact and returns true. Bullets whose center lands on an
// already-destroyed cell pass through the hole.
func (s *Shield) CheckBulletCollision(bullet core.RectF) bool {
	if !bullet.Intersects(s.Bounds()) {
		return false
	}

	bx, by := bullet.Center()
	col := int((bx - s.X) / ShieldSegmentSize)
	row := int((by - s.Y) / ShieldSegmentSize)
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return false
	}
	if s.destroyed[row][col] {
		return false
	}

	damaged := false
	r := ShieldDamageRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			cc, rr := col+dx, row+dy
			if cc < 0 || cc >= s.cols || rr < 0 || rr >= s.rows {
				continue
			}
			if !s.destroyed[rr][cc] {
				s.destroyed[rr][cc] = true
				damaged = true
			}
		}
	}
	return damaged
}

// IsDestroyed reports whether every mask cell is gone.
func (s *Shield) IsDestroyed() bool {
	for row := range s.destroyed {
		for col := range s.destroyed[row] {
			if !s.destroyed[row][col] {
				return false
			}
		}
	}
	return true
}

// DestroyedAt reports the state of a single mask cell. Out-of-range cells
// count as destroyed.
func (s *Shield) DestroyedAt(col, row int) bool {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return true
	}
	return s.destroyed[row][col]
}

// MaskSize returns the mask dimensions in cells.
func (s *Shield) MaskSize() (cols, rows int) {
	return s.cols, s.rows
}

// IntactCells counts cells still standing.
func (s *Shield) IntactCells() int {
	n := 0
	for row := range s.destroyed {
		for col := range s.destroyed[row] {
			if !s.destroyed[row][col] {
				n++
			}
		}
	}
	return n
}

// Bounds returns the barrier's bounding box.
func (s *Shield) Bounds() core.RectF {
	return core.NewRectF(s.X, s.Y, s.W, s.H)
}
