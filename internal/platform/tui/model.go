package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vkazanov/retrocade/internal/audio"
	"github.com/vkazanov/retrocade/internal/core"
	"github.com/vkazanov/retrocade/internal/scene"
	"github.com/vkazanov/retrocade/internal/storage"
)

// GameModel is the Bubble Tea model driving one scene: it feeds input
// snapshots and measured frame deltas into the scene, renders it, and
// records the score when a session ends.
type GameModel struct {
	scene      scene.Scene
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	keys       *KeyMapper
	tracker    *keyTracker
	lastTick   time.Time
	session    core.SessionState
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model for the given scene. A zero seed falls
// back to the clock, a zero tick rate to 60.
func NewGameModel(sc scene.Scene, store *storage.Store, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	return GameModel{
		scene:   sc,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:   store,
		config:  cfg,
		player:  player,
		keys:    NewKeyMapper(),
		tracker: newKeyTracker(),
	}
}

// Init starts the scene and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.scene.Init(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.scene.Cleanup()
		return m, tea.Quit
	}

	// B or Esc leaves to the menu from the pause and game-over screens.
	// Standalone runs treat it as a quit; the session model intercepts.
	if action == core.ActionBack && (m.session.Paused || m.session.GameOver) {
		m.backToMenu = true
		m.scene.Cleanup()
		return m, tea.Quit
	}

	if action != core.ActionNone {
		m.tracker.KeyDown(action, time.Now())
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// A mid-game resize restarts the scene on the new dimensions; a
	// finished session keeps its game-over screen.
	if !m.session.GameOver {
		m.scene.Init(m.config)
	}

	return m, nil
}

// handleTick advances the scene by one frame. The delta is measured from
// the previous tick, so a lagging terminal slows rendering but not the
// simulated time.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 1.0 / float64(m.config.TickRate)
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	m.scene.HandleInput(m.tracker.Frame(now))
	m.scene.Update(dt)
	m.session = m.scene.Session()

	if m.session.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}
	if !m.session.GameOver {
		// Restarted sessions get saved again when they end.
		m.scoreSaved = false
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore records the finished session, best effort.
func (m *GameModel) saveScore() {
	if m.store == nil || m.session.Score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.scene.ID(), m.player, m.session.Score, m.session.Wave); err != nil {
		log.Warn("could not save score", "game", m.scene.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.scene.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".retrocade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.scene.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.scene.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// RunOptions tweaks a standalone scene run.
type RunOptions struct {
	// Silent skips speaker setup entirely.
	Silent bool
}

// Run drives a single scene standalone with audio and score persistence.
func Run(sc scene.Scene, store *storage.Store, cfg core.RuntimeConfig, opts RunOptions) error {
	if !opts.Silent {
		snd := audio.NewManager()
		if err := snd.Init(); err != nil {
			log.Warn("audio unavailable, continuing silent", "error", err)
		}
		defer snd.Close()

		if aware, ok := sc.(scene.AudioAware); ok {
			aware.AttachSound(snd)
		}
	}

	model := NewGameModel(sc, store, cfg, localPlayer())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// localPlayer names the local session for the scoreboard.
func localPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
