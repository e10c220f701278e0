// Package scene implements the playable starter scene: a character
// controller, a pooled enemy spawner and hitbox combat, scored through the
// shared game state.
package scene

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/entity"
	"github.com/vovakirdan/jam-starter/internal/gamestate"
	"github.com/vovakirdan/jam-starter/internal/registry"
	"github.com/vovakirdan/jam-starter/internal/spawner"
)

// Scene ids.
const (
	IDMain    = "main"
	IDTopDown = "topdown"
)

// MainScene orchestrates one run. Each Step runs the logic phase for every
// entity before the physics phase, then resolves hits.
type MainScene struct {
	id     string
	title  string
	cfg    config.JamConfig
	state  *gamestate.State
	logger *log.Logger

	runtime    core.RuntimeConfig
	field      core.Rect
	player     *entity.Player
	spawner    *spawner.Spawner
	difficulty *config.DifficultyManager
	paused     bool
	err        error
}

// New creates a scene. mode overrides the configured controller mode when
// non-empty. A nil env.State gets an in-memory state.
func New(id, title, mode string, env registry.Env) *MainScene {
	cfg := env.Config
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	if env.State == nil {
		env.State = gamestate.New(nil, gamestate.WithLives(cfg.Player.Lives), gamestate.WithScene(id))
	}
	if mode != "" {
		cfg.Player.Mode = mode
	}
	return &MainScene{
		id:         id,
		title:      title,
		cfg:        cfg,
		state:      env.State,
		logger:     env.Logger.With("scene", id),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
}

// ID returns the scene id.
func (s *MainScene) ID() string { return s.id }

// Title returns the display name.
func (s *MainScene) Title() string { return s.title }

// Reset starts a new run sized to the screen.
func (s *MainScene) Reset(rc core.RuntimeConfig) {
	s.runtime = rc
	s.paused = false
	s.err = nil
	s.field = PlayField(rc, s.cfg)

	if s.spawner != nil {
		s.spawner.Teardown()
		s.spawner = nil
	}
	s.state.Reset()

	s.player = entity.NewPlayer(s.cfg.Player, s.cfg.World, s.field, s.logger)
	s.player.OnDamaged = s.playerDamaged

	sp, err := spawner.New(s.cfg, s.field, rc.Seed,
		spawner.WithLogger(s.logger),
		spawner.WithDifficulty(s.difficulty),
	)
	if err != nil {
		s.err = err
		s.logger.Error("spawner setup failed", "err", err)
		return
	}
	sp.OnKill = s.enemyKilled
	s.spawner = sp

	s.logger.Debug("scene reset", "field", s.field, "seed", rc.Seed, "mode", s.cfg.Player.Mode)
}

// PlayField is the area entities move in: the screen minus the HUD rows on
// top and, in platformer mode, the ground rows at the bottom.
func PlayField(rc core.RuntimeConfig, cfg config.JamConfig) core.Rect {
	top := max(cfg.World.HUDRows, 0)
	bottom := 0
	if cfg.Player.Mode != config.ModeTopDown {
		bottom = max(cfg.World.GroundOffset, 0)
	}
	return core.NewRect(0, top, rc.ScreenW, max(rc.ScreenH-top-bottom, 1))
}

// Step advances the scene by one tick.
func (s *MainScene) Step(in core.InputFrame) core.StepResult {
	if s.player == nil || s.state.GameOver() {
		return core.StepResult{State: s.State()}
	}

	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if s.paused {
		return core.StepResult{State: s.State()}
	}

	dt := s.runtime.Delta()
	s.state.Tick()

	// Logic phase
	s.player.HandleInput(in)
	s.player.Tick(dt)
	if s.spawner != nil {
		if err := s.spawner.Tick(dt, s.state.Score()); err != nil {
			s.err = err
			s.logger.Warn("spawn failed", "err", err)
		}
	}

	// Physics phase
	s.player.PhysicsTick(dt)
	if s.spawner != nil {
		s.spawner.PhysicsTick(dt)

		entity.ResolveHits(s.spawner.Hitboxes(), []*entity.Hurtbox{&s.player.Hurtbox})
		entity.ResolveHits([]*entity.Hitbox{&s.player.Attack}, s.spawner.Hurtboxes())
	}

	if n := s.cfg.Scoring.SurvivalEveryN; n > 0 && !s.state.GameOver() && s.state.Ticks()%n == 0 {
		s.state.AddScore(s.cfg.Scoring.SurvivalPoints)
	}

	return core.StepResult{State: s.State()}
}

func (s *MainScene) playerDamaged(int) {
	if s.state.LoseLife() <= 0 {
		s.player.Kill()
	}
}

func (s *MainScene) enemyKilled(e *entity.Enemy) {
	s.state.AddScore(s.cfg.Scoring.KillPoints)
	s.logger.Debug("enemy killed", "id", e.ID, "score", s.state.Score())
}

// State returns the scene status.
func (s *MainScene) State() core.GameState {
	return core.GameState{
		Score:    s.state.Score(),
		Lives:    s.state.Lives(),
		GameOver: s.state.GameOver(),
		Paused:   s.paused,
	}
}

// Player exposes the character controller.
func (s *MainScene) Player() *entity.Player { return s.player }

// Spawner exposes the enemy spawner; nil if setup failed.
func (s *MainScene) Spawner() *spawner.Spawner { return s.spawner }

// GameState exposes the shared game state.
func (s *MainScene) GameState() *gamestate.State { return s.state }

// Field returns the current play field.
func (s *MainScene) Field() core.Rect { return s.field }

// Err returns the last setup or spawn error.
func (s *MainScene) Err() error { return s.err }

func init() {
	registry.Register(IDMain, "Platformer", func(env registry.Env) registry.Scene {
		return New(IDMain, "Platformer", "", env)
	})
	registry.Register(IDTopDown, "Top-Down Arena", func(env registry.Env) registry.Scene {
		return New(IDTopDown, "Top-Down Arena", config.ModeTopDown, env)
	})
}
