// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import "fmt"

// InvadersConfig contains all configuration for the Space Invaders game.
// The wave difficulty curves are fixed game-feel parameters owned by the
// game itself; config only covers session setup and feedback toggles.
type InvadersConfig struct {
	Gameplay InvadersGameplay `yaml:"gameplay"`
	Effects  InvadersEffects  `yaml:"effects"`
}

// InvadersGameplay defines session parameters for Space Invaders.
type InvadersGameplay struct {
	Lives     int `yaml:"lives"`
	StartWave int `yaml:"start_wave"`
	EnemyRows int `yaml:"enemy_rows"`
	EnemyCols int `yaml:"enemy_cols"`
}

// InvadersEffects toggles the feedback layers.
type InvadersEffects struct {
	Particles bool `yaml:"particles"`
	Shake     bool `yaml:"shake"`
	Audio     bool `yaml:"audio"`
}

// Validate rejects configs that cannot produce a playable session.
func (c InvadersConfig) Validate() error {
	if c.Gameplay.Lives < 1 {
		return fmt.Errorf("invaders: lives must be at least 1, got %d", c.Gameplay.Lives)
	}
	if c.Gameplay.StartWave < 1 {
		return fmt.Errorf("invaders: start_wave must be at least 1, got %d", c.Gameplay.StartWave)
	}
	if c.Gameplay.EnemyRows < 1 || c.Gameplay.EnemyCols < 1 {
		return fmt.Errorf("invaders: formation must be at least 1x1, got %dx%d",
			c.Gameplay.EnemyRows, c.Gameplay.EnemyCols)
	}
	return nil
}

// SnakeConfig contains all configuration for the Snake game.
type SnakeConfig struct {
	Board      SnakeBoard       `yaml:"board"`
	Speed      SnakeSpeed       `yaml:"speed"`
	Gameplay   SnakeGameplay    `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SnakeBoard defines the playfield dimensions in cells. The board shrinks
// to fit when the terminal is smaller.
type SnakeBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SnakeSpeed defines the move cadence in seconds per cell. The difficulty
// level interpolates from start toward min as the score grows.
type SnakeSpeed struct {
	StartInterval float64 `yaml:"start_interval"`
	MinInterval   float64 `yaml:"min_interval"`
}

// SnakeGameplay defines session parameters for Snake.
type SnakeGameplay struct {
	StartLength int  `yaml:"start_length"`
	Walls       bool `yaml:"walls"` // false wraps the snake around edges
}

// Validate rejects configs that cannot produce a playable session.
func (c SnakeConfig) Validate() error {
	if c.Board.Width < 8 || c.Board.Height < 6 {
		return fmt.Errorf("snake: board must be at least 8x6, got %dx%d",
			c.Board.Width, c.Board.Height)
	}
	if c.Speed.StartInterval <= 0 || c.Speed.MinInterval <= 0 {
		return fmt.Errorf("snake: intervals must be positive")
	}
	if c.Gameplay.StartLength < 1 {
		return fmt.Errorf("snake: start_length must be at least 1, got %d", c.Gameplay.StartLength)
	}
	return nil
}

// PongConfig contains all configuration for the Pong game.
type PongConfig struct {
	Physics    PongPhysics      `yaml:"physics"`
	Paddles    PongPaddles      `yaml:"paddles"`
	Gameplay   PongGameplay     `yaml:"gameplay"`
	CPU        PongCPU          `yaml:"cpu"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PongPhysics defines ball and paddle motion in cells per second.
type PongPhysics struct {
	BallSpeed    float64 `yaml:"ball_speed"`
	PaddleSpeed  float64 `yaml:"paddle_speed"`
	MaxBallSpeed float64 `yaml:"max_ball_speed"`
	SpinFactor   float64 `yaml:"spin_factor"`
}

// PongPaddles defines paddle geometry in cells.
type PongPaddles struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
	Offset int `yaml:"offset"` // Distance from the screen edge
}

// PongGameplay defines match parameters.
type PongGameplay struct {
	WinScore   int     `yaml:"win_score"`
	ServeDelay float64 `yaml:"serve_delay"` // Seconds the ball waits before a serve
}

// PongCPU defines the opponent's skill band. The difficulty level moves
// the effective skill from min toward max over a match.
type PongCPU struct {
	MinSkill float64 `yaml:"min_skill"`
	MaxSkill float64 `yaml:"max_skill"`
}

// Validate rejects configs that cannot produce a playable session.
func (c PongConfig) Validate() error {
	if c.Physics.BallSpeed <= 0 || c.Physics.PaddleSpeed <= 0 {
		return fmt.Errorf("pong: speeds must be positive")
	}
	if c.Paddles.Height < 1 || c.Paddles.Width < 1 {
		return fmt.Errorf("pong: paddle must be at least 1x1, got %dx%d",
			c.Paddles.Width, c.Paddles.Height)
	}
	if c.Gameplay.WinScore < 1 {
		return fmt.Errorf("pong: win_score must be at least 1, got %d", c.Gameplay.WinScore)
	}
	return nil
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI difficulty string to a preset. Unknown or empty
// strings yield the empty preset, which applies no changes.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
