package invaders

// Snapshot captures the simulation state for determinism testing and
// replay. Primitive types only; float positions are quantized to
// millipixels so comparison and hashing stay stable.
type Snapshot struct {
	Score     int
	Lives     int
	Wave      int
	State     int
	EnemyDir  int
	AnimFrame int

	PlayerX int // millipixels, -1 when no ship exists
	PlayerV int // millipixels/s

	EnemyCount int
	EnemyData  []int // per enemy: X, Y (millipixels), Type

	BulletCount int
	BulletData  []int // per bullet: X, Y (millipixels), owner flag

	ShieldData []int // intact cell count per shield

	UFOX      int // millipixels, -1 when absent
	UFOPoints int
}

// milli quantizes a field coordinate to an integer millipixel value.
func milli(v float64) int {
	return int(v * 1000)
}

// Snapshot returns the current simulation state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Score:     g.score,
		Lives:     g.lives,
		Wave:      g.waves.Number(),
		State:     int(g.state),
		EnemyDir:  int(g.enemyDir),
		AnimFrame: g.animFrame,
		PlayerX:   -1,
		UFOX:      -1,
	}

	if g.player != nil {
		snap.PlayerX = milli(g.player.X)
		snap.PlayerV = milli(g.player.Vel)
	}

	enemies := g.waves.Enemies()
	snap.EnemyCount = len(enemies)
	snap.EnemyData = make([]int, 0, len(enemies)*3)
	for _, e := range enemies {
		snap.EnemyData = append(snap.EnemyData, milli(e.X), milli(e.Y), e.Type)
	}

	snap.BulletCount = len(g.bullets)
	snap.BulletData = make([]int, 0, len(g.bullets)*3)
	for _, b := range g.bullets {
		owner := 0
		if b.IsEnemy {
			owner = 1
		}
		snap.BulletData = append(snap.BulletData, milli(b.X), milli(b.Y), owner)
	}

	snap.ShieldData = make([]int, 0, len(g.shields))
	for _, s := range g.shields {
		snap.ShieldData = append(snap.ShieldData, s.IntactCells())
	}

	if g.ufo != nil {
		snap.UFOX = milli(g.ufo.X)
		snap.UFOPoints = g.ufo.Points
	}

	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Score)             //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Wave)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.State)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EnemyDir)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.AnimFrame)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PlayerX)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PlayerV)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EnemyCount)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BulletCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.UFOX)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.UFOPoints)   //#nosec G115 -- hash computation

	for _, v := range snap.EnemyData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	for _, v := range snap.BulletData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	for _, v := range snap.ShieldData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	return h
}
