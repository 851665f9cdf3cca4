// Package scene defines the lifecycle contract every game implements and a
// global factory registry. Games register themselves in init() functions,
// allowing the platform to discover and instantiate scenes without
// hardcoded dependencies.
package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vkazanov/retrocade/internal/core"
)

// Scene is the lifecycle contract between the hub and a game. Scenes
// contain pure logic with no external dependencies (especially no Bubble
// Tea); the platform handles key mapping, frame timing, and display.
//
// The platform drives one active scene per session: Init on entry, then
// per frame HandleInput with the current snapshot followed by Update with
// the measured real frame delta, then Render into a cleared screen.
// Cleanup runs on exit. Update receives wall-clock frame time, not a fixed
// step; scenes that need determinism run their own FixedTimestep inside.
type Scene interface {
	// ID returns a unique identifier for this scene (e.g., "invaders").
	// Used for CLI commands, config files, and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Space Invaders").
	Title() string

	// Init initializes or resets the scene. Called once on entry and again
	// when restarting after game over. The RuntimeConfig provides screen
	// dimensions and the RNG seed.
	Init(cfg core.RuntimeConfig)

	// HandleInput hands the scene this frame's input snapshot. Scenes keep
	// the snapshot for their next simulation steps; they never touch raw
	// key state.
	HandleInput(in core.InputFrame)

	// Update advances the scene by one real frame of dt seconds.
	Update(dt float64)

	// Render draws the current state into the provided screen buffer.
	// The buffer is pre-cleared before this call.
	Render(dst *core.Screen)

	// Cleanup releases whatever the scene acquired in Init. Called when
	// the scene is left; Init may be called again afterwards.
	Cleanup()

	// Session reports score, lives, wave and the pause/game-over flags.
	Session() core.SessionState
}

// AudioAware is implemented by scenes that emit sound cues. The platform
// attaches its sound manager after Create; scenes default to silence.
type AudioAware interface {
	AttachSound(snd core.SoundTrigger)
}

// Info contains metadata about a registered scene.
type Info struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a game's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("scene: %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	s := f()
	titles[id] = s.Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("scene: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
