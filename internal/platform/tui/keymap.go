package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jam-starter/internal/core"
)

// KeyMapper translates Bubble Tea key messages to scene actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case " ", "z":
		return core.ActionJump, false
	case "j", "x":
		return core.ActionAttack, false
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
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}

// HeldInput turns terminal key presses into per-tick input frames.
// Terminals report presses and auto-repeats but never releases, so movement
// keys stay held for a few ticks after their last press; every other action
// is delivered on exactly one tick.
type HeldInput struct {
	holdTicks int
	held      map[core.Action]int
	pulse     core.InputFrame
}

// opposite pairs are mutually exclusive: pressing one releases the other.
var opposite = map[core.Action]core.Action{
	core.ActionLeft:  core.ActionRight,
	core.ActionRight: core.ActionLeft,
	core.ActionUp:    core.ActionDown,
	core.ActionDown:  core.ActionUp,
}

// NewHeldInput creates a HeldInput that keeps movement for holdTicks ticks.
func NewHeldInput(holdTicks int) *HeldInput {
	return &HeldInput{
		holdTicks: max(holdTicks, 1),
		held:      make(map[core.Action]int),
	}
}

// HoldTicksFor returns the hold window for a tick rate, about a fifth of a
// second, which bridges the typical key auto-repeat gap.
func HoldTicksFor(tickRate int) int {
	return max(tickRate/5, 1)
}

// Press records an action.
func (h *HeldInput) Press(a core.Action) {
	if a == core.ActionNone {
		return
	}
	if other, ok := opposite[a]; ok {
		delete(h.held, other)
		h.held[a] = h.holdTicks
		return
	}
	h.pulse.Set(a)
}

// Frame returns the input for the current tick and advances hold timers.
func (h *HeldInput) Frame() core.InputFrame {
	frame := core.NewInputFrame()
	for a := range h.pulse.Actions {
		frame.Set(a)
	}
	for a, left := range h.held {
		frame.Set(a)
		if left <= 1 {
			delete(h.held, a)
		} else {
			h.held[a] = left - 1
		}
	}
	h.pulse.Clear()
	return frame
}

// Reset drops all pending input.
func (h *HeldInput) Reset() {
	clear(h.held)
	h.pulse.Clear()
}
