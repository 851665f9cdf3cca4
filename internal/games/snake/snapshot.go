package snake

// Snapshot captures the simulation state for determinism testing and
// replay verification. Board cells are flattened into primitive slices so
// the whole struct hashes cheaply.
type Snapshot struct {
	Ticks    int
	Score    int
	Dir      int
	GameOver bool
	Paused   bool

	FoodX, FoodY int
	BodyLen      int
	BodyData     []int // X, Y per segment, head first
}

// Snapshot returns the current simulation snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Ticks:    g.ticks,
		Score:    g.score,
		Dir:      int(g.dir),
		GameOver: g.gameOver,
		Paused:   g.paused,
		FoodX:    g.food.X,
		FoodY:    g.food.Y,
		BodyLen:  len(g.body),
	}
	snap.BodyData = make([]int, 0, len(g.body)*2)
	for _, seg := range g.body {
		snap.BodyData = append(snap.BodyData, seg.X, seg.Y)
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Ticks)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Dir)   //#nosec G115 -- hash computation
	if snap.GameOver {
		h = h*31 + 1
	}
	h = h*31 + uint64(snap.FoodX)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.FoodY)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BodyLen) //#nosec G115 -- hash computation

	for _, v := range snap.BodyData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	return h
}
