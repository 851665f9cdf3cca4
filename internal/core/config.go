package core

// RuntimeConfig contains configuration passed to scenes at initialization.
// Scenes use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Platform frames per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// SessionState is the per-session status every scene publishes: score,
// lives, wave progress, and the pause/game-over flags. Scenes embed or
// hold one instead of inheriting from a shared base game.
type SessionState struct {
	Score     int
	HighScore int
	Lives     int
	Wave      int
	Paused    bool
	GameOver  bool
}
