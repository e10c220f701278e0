package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/gamestate"
	"github.com/vovakirdan/jam-starter/internal/registry"
)

// GameModel is the Bubble Tea model that hosts one scene. It is the tick
// source: every TickMsg runs exactly one Scene.Step.
type GameModel struct {
	scene      registry.Scene
	state      *gamestate.State
	screen     *core.Screen
	config     core.RuntimeConfig
	input      *HeldInput
	keyMapper  *KeyMapper
	gameState  core.GameState
	logger     *log.Logger
	fixedSeed  bool
	quitOnBack bool // standalone program: going back ends it
	quitting   bool
	backToMenu bool
	saved      bool // whether the finished run has been persisted
}

// NewGameModel creates a model for scene. state is the game state the
// scene was built with; it is persisted when a run ends.
func NewGameModel(scene registry.Scene, state *gamestate.State, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	fixed := cfg.Seed != 0
	if !fixed {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return GameModel{
		scene:     scene,
		state:     state,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		input:     NewHeldInput(HoldTicksFor(cfg.TickRate)),
		keyMapper: NewKeyMapper(),
		logger:    logger,
		fixedSeed: fixed,
	}
}

// Init resets the scene and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.scene.Reset(m.config)
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
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only from a stopped scene.
	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}

	m.input.Press(action)
	return m, nil
}

// handleResize adopts the new terminal size. A run that has not started yet
// is laid out again; a run in progress keeps its play field.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if m.state == nil || m.state.Ticks() == 0 {
		m.scene.Reset(m.config)
		m.gameState = m.scene.State()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	in := m.input.Frame()

	if in.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.fixedSeed {
			m.config.Seed = time.Now().UnixNano()
		}
		m.scene.Reset(m.config)
		m.gameState = m.scene.State()
		m.saved = false
		m.input.Reset()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.scene.Step(in)
	m.gameState = result.State

	if m.gameState.GameOver && !m.saved {
		m.persist()
		m.saved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// persist records the finished run. Failures are logged; play continues.
func (m GameModel) persist() {
	if m.state == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := m.state.Finish(ctx)
	switch {
	case err == nil:
		m.logger.Debug("run saved", "scene", m.scene.ID(), "score", m.gameState.Score)
	case errors.Is(err, gamestate.ErrNoStore):
	default:
		m.logger.Warn("could not save run", "scene", m.scene.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.scene.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".jam", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.scene.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.scene.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays scene in the current terminal until the user quits or goes back.
// It reports whether the user asked to go back to the menu.
func Run(scene registry.Scene, state *gamestate.State, cfg core.RuntimeConfig, logger *log.Logger) (backToMenu bool, err error) {
	model := NewGameModel(scene, state, cfg, logger)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if gm, ok := final.(GameModel); ok {
		return gm.BackToMenu(), nil
	}
	return false, nil
}
