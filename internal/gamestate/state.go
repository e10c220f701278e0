// Package gamestate holds the cross-scene game state: score, lives, run
// identity and the persistent save data. A State is created explicitly and
// passed to whatever needs it; there is no package-level instance.
package gamestate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Save data keys.
const (
	KeyHighScore = "high_score"
	KeyLastScore = "last_score"
	KeyRuns      = "runs"
	KeyLastRunID = "last_run_id"

	// SettingPrefix namespaces free-form settings in the save data.
	SettingPrefix = "setting."
)

// DefaultLives is used when no WithLives option is given.
const DefaultLives = 3

// ErrNoStore is returned by Load, Save and Finish on a State without a Store.
var ErrNoStore = errors.New("gamestate: no store configured")

// Store persists the flat key-value save data and finished runs.
type Store interface {
	All(ctx context.Context) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	SaveScore(ctx context.Context, runID, sceneID string, score int) error
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLives sets the lives granted at the start of each run.
func WithLives(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxLives = n
		}
	}
}

// WithScene tags recorded scores with a scene id.
func WithScene(id string) Option {
	return func(s *State) { s.sceneID = id }
}

// State is the game state shared by the scene and the host.
// It is not safe for concurrent use.
type State struct {
	store   Store
	logger  *log.Logger
	sceneID string

	score     int
	highScore int
	lastScore int
	lives     int
	maxLives  int
	gameOver  bool
	recorded  bool
	runs      int
	runID     uuid.UUID
	lastRunID string
	ticks     int
	settings  map[string]string

	scoreObs observers[func(old, new int)]
	livesObs observers[func(lives int)]
	overObs  observers[func(final int)]
}

// New creates a State and starts the first run. store may be nil for a
// purely in-memory session.
func New(store Store, opts ...Option) *State {
	s := &State{
		store:    store,
		logger:   log.New(io.Discard),
		maxLives: DefaultLives,
		settings: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.begin()
	return s
}

func (s *State) begin() {
	s.score = 0
	s.lives = s.maxLives
	s.gameOver = false
	s.recorded = false
	s.ticks = 0
	s.runID = uuid.New()
}

// Reset starts a new run. Observers are notified of the score and lives
// going back to their initial values.
func (s *State) Reset() {
	oldScore, oldLives := s.score, s.lives
	s.begin()
	s.logger.Debug("new run", "run", s.runID, "scene", s.sceneID)
	if oldScore != s.score {
		s.scoreObs.each(func(fn func(int, int)) { fn(oldScore, s.score) })
	}
	if oldLives != s.lives {
		s.livesObs.each(func(fn func(int)) { fn(s.lives) })
	}
}

// Tick counts one logic frame of the current run.
func (s *State) Tick() {
	if !s.gameOver {
		s.ticks++
	}
}

// AddScore adds n points. It is ignored after game over or for n <= 0.
func (s *State) AddScore(n int) {
	if s.gameOver || n <= 0 {
		return
	}
	old := s.score
	s.score += n
	s.highScore = max(s.highScore, s.score)
	s.scoreObs.each(func(fn func(int, int)) { fn(old, s.score) })
}

// LoseLife removes one life and ends the run when none remain.
// It returns the lives left.
func (s *State) LoseLife() int {
	if s.gameOver {
		return s.lives
	}
	s.lives--
	s.livesObs.each(func(fn func(int)) { fn(s.lives) })
	if s.lives <= 0 {
		s.SetGameOver()
	}
	return s.lives
}

// SetGameOver ends the current run. Calling it again has no effect.
func (s *State) SetGameOver() {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.lastScore = s.score
	s.lastRunID = s.runID.String()
	s.runs++
	s.logger.Info("game over", "run", s.runID, "score", s.score, "high", s.highScore)
	s.overObs.each(func(fn func(int)) { fn(s.score) })
}

// OnScoreChanged registers fn and returns a func that removes it.
func (s *State) OnScoreChanged(fn func(old, new int)) func() { return s.scoreObs.add(fn) }

// OnLivesChanged registers fn and returns a func that removes it.
func (s *State) OnLivesChanged(fn func(lives int)) func() { return s.livesObs.add(fn) }

// OnGameOver registers fn and returns a func that removes it.
func (s *State) OnGameOver(fn func(final int)) func() { return s.overObs.add(fn) }

// Score returns the current run's score.
func (s *State) Score() int { return s.score }

// HighScore returns the best score seen, including the current run.
func (s *State) HighScore() int { return s.highScore }

// LastScore returns the final score of the last finished run.
func (s *State) LastScore() int { return s.lastScore }

// Lives returns the remaining lives.
func (s *State) Lives() int { return s.lives }

// MaxLives returns the lives granted per run.
func (s *State) MaxLives() int { return s.maxLives }

// GameOver reports whether the current run has ended.
func (s *State) GameOver() bool { return s.gameOver }

// Runs returns the number of finished runs.
func (s *State) Runs() int { return s.runs }

// RunID identifies the current run.
func (s *State) RunID() uuid.UUID { return s.runID }

// LastRunID identifies the last finished run.
func (s *State) LastRunID() string { return s.lastRunID }

// Ticks returns the logic frames played in the current run.
func (s *State) Ticks() int { return s.ticks }

// SceneID returns the scene id scores are recorded under.
func (s *State) SceneID() string { return s.sceneID }

// Setting returns a free-form setting.
func (s *State) Setting(key string) (string, bool) {
	v, ok := s.settings[key]
	return v, ok
}

// SetSetting stores a free-form setting; it is persisted on the next Save.
func (s *State) SetSetting(key, value string) {
	s.settings[key] = value
}

// Load replaces the persistent fields with the stored save data.
// Missing keys keep their current values. On error nothing is changed.
func (s *State) Load(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	data, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("gamestate: load: %w", err)
	}

	high, last, runs := s.highScore, s.lastScore, s.runs
	ints := []struct {
		key string
		dst *int
	}{
		{KeyHighScore, &high},
		{KeyLastScore, &last},
		{KeyRuns, &runs},
	}
	for _, f := range ints {
		raw, ok := data[f.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("gamestate: load %s: %w", f.key, err)
		}
		*f.dst = n
	}

	s.highScore = max(high, s.score)
	s.lastScore = last
	s.runs = runs
	if v, ok := data[KeyLastRunID]; ok {
		s.lastRunID = v
	}
	for k, v := range data {
		if name, ok := strings.CutPrefix(k, SettingPrefix); ok {
			s.settings[name] = v
		}
	}

	s.logger.Debug("save loaded", "high", s.highScore, "runs", s.runs)
	return nil
}

// SaveData returns the flat key-value view that Save persists.
func (s *State) SaveData() map[string]string {
	data := map[string]string{
		KeyHighScore: strconv.Itoa(s.highScore),
		KeyLastScore: strconv.Itoa(s.lastScore),
		KeyRuns:      strconv.Itoa(s.runs),
	}
	if s.lastRunID != "" {
		data[KeyLastRunID] = s.lastRunID
	}
	for k, v := range s.settings {
		data[SettingPrefix+k] = v
	}
	return data
}

// Save writes the save data.
func (s *State) Save(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.SetMany(ctx, s.SaveData()); err != nil {
		return fmt.Errorf("gamestate: save: %w", err)
	}
	return nil
}

// Finish persists a finished run: the score record once per run, then the
// save data. It is a no-op while the run is still going.
func (s *State) Finish(ctx context.Context) error {
	if !s.gameOver {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if !s.recorded {
		if err := s.store.SaveScore(ctx, s.runID.String(), s.sceneID, s.score); err != nil {
			return fmt.Errorf("gamestate: record score: %w", err)
		}
		s.recorded = true
	}
	return s.Save(ctx)
}

// Settings returns a copy of all settings.
func (s *State) Settings() map[string]string {
	return maps.Clone(s.settings)
}
