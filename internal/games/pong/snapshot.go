package pong

// Snapshot captures the simulation state for determinism testing and
// replay verification. Float positions are quantized to millicells so
// comparison and hashing stay stable.
type Snapshot struct {
	Ticks   int
	Score1  int
	Score2  int
	Winner  int
	Serving bool

	Paddle1Y int // millicells
	Paddle2Y int
	BallX    int
	BallY    int
	BallVX   int
	BallVY   int
}

// milli quantizes a cell coordinate to an integer millicell value.
func milli(v float64) int {
	return int(v * 1000)
}

// Snapshot returns the current simulation snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Ticks:    g.ticks,
		Score1:   g.score1,
		Score2:   g.score2,
		Winner:   g.winner,
		Serving:  g.serving,
		Paddle1Y: milli(g.paddle1Y),
		Paddle2Y: milli(g.paddle2Y),
		BallX:    milli(g.ballX),
		BallY:    milli(g.ballY),
		BallVX:   milli(g.ballVX),
		BallVY:   milli(g.ballVY),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Ticks)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score1)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score2)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Winner)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Paddle1Y) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Paddle2Y) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallX)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallY)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallVX)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BallVY)   //#nosec G115 -- hash computation
	if snap.Serving {
		h = h*31 + 1
	}
	return h
}
