package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/jam-starter/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump, false},
		{runeKey("j"), core.ActionAttack, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey("p"), core.ActionPause, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("?"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestHeldInputKeepsMovementForHoldWindow(t *testing.T) {
	h := NewHeldInput(3)
	h.Press(core.ActionRight)

	for i := range 3 {
		assert.True(t, h.Frame().Has(core.ActionRight), "tick %d", i)
	}
	assert.False(t, h.Frame().Has(core.ActionRight))
}

func TestHeldInputOppositeReleases(t *testing.T) {
	h := NewHeldInput(10)
	h.Press(core.ActionLeft)
	h.Press(core.ActionRight)

	f := h.Frame()
	assert.True(t, f.Has(core.ActionRight))
	assert.False(t, f.Has(core.ActionLeft))
}

func TestHeldInputPulsesLastOneTick(t *testing.T) {
	h := NewHeldInput(10)
	h.Press(core.ActionJump)
	h.Press(core.ActionNone)

	first := h.Frame()
	assert.True(t, first.Has(core.ActionJump))
	assert.False(t, first.Has(core.ActionNone))
	assert.False(t, h.Frame().Has(core.ActionJump))
	// the returned frame is not cleared by the next call
	assert.True(t, first.Has(core.ActionJump))
}

func TestHeldInputReset(t *testing.T) {
	h := NewHeldInput(10)
	h.Press(core.ActionUp)
	h.Press(core.ActionAttack)
	h.Reset()
	assert.True(t, h.Frame().Empty())
}

func TestHoldTicksFor(t *testing.T) {
	assert.Equal(t, 12, HoldTicksFor(60))
	assert.Equal(t, 1, HoldTicksFor(3))
}
