package core

// FixedTimestep accumulates real frame time and dispenses it as fixed-size
// simulation steps, so gameplay is deterministic regardless of how fast the
// platform delivers frames. Scenes call Update once per rendered frame with
// the measured frame delta; the callback runs zero or more times depending
// on how much time has accumulated.
type FixedTimestep struct {
	// MaxFrameTime caps a single frame delta before accumulation. Without
	// the cap, a long stall (debugger pause, terminal suspend) would queue
	// an unbounded amount of catch-up work - the classic spiral of death.
	MaxFrameTime float64

	dt          float64
	accumulator float64
}

// NewFixedTimestep creates a clock stepping at 1/targetFPS seconds.
func NewFixedTimestep(targetFPS int) *FixedTimestep {
	return &FixedTimestep{
		MaxFrameTime: 0.25,
		dt:           1.0 / float64(targetFPS),
	}
}

// DT returns the fixed step size in seconds.
func (ts *FixedTimestep) DT() float64 {
	return ts.dt
}

// Update consumes one real frame delta. fixedFn is invoked with the fixed
// step size for every whole step the accumulator covers; variableFn, if
// non-nil, is invoked exactly once with the (capped) frame time for
// render-rate work such as animations and interpolation.
func (ts *FixedTimestep) Update(frameTime float64, fixedFn func(dt float64), variableFn func(dt float64)) {
	if frameTime > ts.MaxFrameTime {
		frameTime = ts.MaxFrameTime
	}
	ts.accumulator += frameTime

	if variableFn != nil {
		variableFn(frameTime)
	}

	for ts.accumulator >= ts.dt {
		fixedFn(ts.dt)
		ts.accumulator -= ts.dt
	}
}

// Alpha returns the fraction [0,1) of a step left in the accumulator,
// usable for render interpolation between simulation states.
func (ts *FixedTimestep) Alpha() float64 {
	return ts.accumulator / ts.dt
}

// Reset zeroes the accumulator. Called on scene entry so time spent in
// menus is not replayed as simulation steps.
func (ts *FixedTimestep) Reset() {
	ts.accumulator = 0
}
