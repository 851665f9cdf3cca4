package invaders

import "math"

// Formation layout.
const (
	DefaultEnemyRows = 5
	DefaultEnemyCols = 10

	FormationSpacingX = 55.0
	FormationSpacingY = 45.0
	FormationOriginX  = 70.0
	FormationOriginY  = 90.0
)

// WaveConfig is the immutable difficulty tuning for one wave, derived
// entirely from the wave number.
type WaveConfig struct {
	Number          int
	SpeedMultiplier float64
	MoveInterval    float64
	ShootInterval   float64
	UFOSpawnChance  float64
}

// GetWaveConfig computes the tuning for wave n (n >= 1). The base curves
// are monotonic in n with caps; every fifth wave a tier bonus tightens
// them further, and final safety clamps bound the result. The constants
// are fixed game-feel parameters.
func GetWaveConfig(n int) WaveConfig {
	if n < 1 {
		n = 1
	}
	k := float64(n - 1)

	cfg := WaveConfig{
		Number:          n,
		SpeedMultiplier: math.Min(2.5, 1+k*0.12),
		MoveInterval:    math.Max(0.25, 1.0-k*0.06),
		ShootInterval:   math.Max(0.7, 1.5-k*0.06),
		UFOSpawnChance:  math.Min(0.6, 0.3+k*0.025),
	}

	if tier := (n - 1) / 5; tier > 0 {
		cfg.SpeedMultiplier *= 1 + float64(tier)*0.1
		cfg.MoveInterval *= 1 - float64(tier)*0.05
		cfg.ShootInterval *= 1 - float64(tier)*0.05
	}

	cfg.MoveInterval = math.Max(0.2, cfg.MoveInterval)
	cfg.ShootInterval = math.Max(0.6, cfg.ShootInterval)
	cfg.UFOSpawnChance = math.Min(0.65, cfg.UFOSpawnChance)

	return cfg
}

// WaveManager owns the enemy roster for the active wave, its difficulty
// config, and wave-complete detection. All roster mutation goes through it
// so the orchestrator never juggles raw slices.
type WaveManager struct {
	rows, cols int

	number       int
	config       WaveConfig
	enemies      []*Enemy
	initialCount int
}

// NewWaveManager creates a manager building rows x cols formations.
func NewWaveManager(rows, cols int) *WaveManager {
	if rows < 1 {
		rows = DefaultEnemyRows
	}
	if cols < 1 {
		cols = DefaultEnemyCols
	}
	return &WaveManager{rows: rows, cols: cols}
}

// StartWave builds the formation grid for wave n. Enemy speed is the base
// step scaled by the wave's speed multiplier; types are assigned by row.
func (wm *WaveManager) StartWave(n int) {
	wm.number = n
	wm.config = GetWaveConfig(n)

	speed := EnemyBaseStep * wm.config.SpeedMultiplier
	wm.enemies = make([]*Enemy, 0, wm.rows*wm.cols)
	for row := 0; row < wm.rows; row++ {
		for col := 0; col < wm.cols; col++ {
			x := FormationOriginX + float64(col)*FormationSpacingX
			y := FormationOriginY + float64(row)*FormationSpacingY
			wm.enemies = append(wm.enemies, NewEnemy(x, y, row, col, speed))
		}
	}
	wm.initialCount = len(wm.enemies)
}

// Number returns the current wave number.
func (wm *WaveManager) Number() int {
	return wm.number
}

// Config returns the active wave's difficulty tuning.
func (wm *WaveManager) Config() WaveConfig {
	return wm.config
}

// Enemies returns the live roster. Callers must not retain the slice
// across removals.
func (wm *WaveManager) Enemies() []*Enemy {
	return wm.enemies
}

// InitialCount returns the formation size at wave start.
func (wm *WaveManager) InitialCount() int {
	return wm.initialCount
}

// RemoveAt drops the enemy at index i, swapping in the last entry.
func (wm *WaveManager) RemoveAt(i int) {
	last := len(wm.enemies) - 1
	wm.enemies[i] = wm.enemies[last]
	wm.enemies = wm.enemies[:last]
}

// IsWaveComplete reports whether the roster is empty.
func (wm *WaveManager) IsWaveComplete() bool {
	return len(wm.enemies) == 0
}

// RemainingFactor grows from 0 toward 1 as the formation thins:
// 1 - remaining/initial. Feeds the adaptive movement and fire intervals.
func (wm *WaveManager) RemainingFactor() float64 {
	if wm.initialCount == 0 {
		return 0
	}
	return 1 - float64(len(wm.enemies))/float64(wm.initialCount)
}
