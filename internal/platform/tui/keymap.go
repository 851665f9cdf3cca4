package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vkazanov/retrocade/internal/core"
)

// keyHoldWindow is how long a key counts as held after its last event.
// Terminals report key-down events and auto-repeats but never releases,
// so the window must outlast the slowest common repeat interval while
// staying short enough that movement stops soon after the key is let go.
const keyHoldWindow = 120 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case " ":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// keyTracker synthesizes per-frame input snapshots from the terminal's
// event stream. A fresh event is a press; an action stays held until its
// events go quiet for the hold window.
type keyTracker struct {
	pending   core.InputFrame
	deadlines map[core.Action]time.Time
}

func newKeyTracker() *keyTracker {
	return &keyTracker{
		pending:   core.NewInputFrame(),
		deadlines: make(map[core.Action]time.Time),
	}
}

// KeyDown records one key event for an action.
func (t *keyTracker) KeyDown(a core.Action, now time.Time) {
	t.pending.Press(a)
	t.deadlines[a] = now.Add(keyHoldWindow)
}

// Frame builds the snapshot for one frame: the presses collected since
// the last frame plus every action whose hold window is still open.
func (t *keyTracker) Frame(now time.Time) core.InputFrame {
	frame := t.pending.Clone()
	for a, deadline := range t.deadlines {
		if now.After(deadline) {
			delete(t.deadlines, a)
			continue
		}
		frame.Hold(a)
	}
	t.pending.Clear()
	return frame
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
