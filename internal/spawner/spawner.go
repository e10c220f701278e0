// Package spawner releases enemies into the playfield on a timer, drawing
// them from a bounded pool.
package spawner

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/entity"
	"github.com/vovakirdan/jam-starter/internal/pool"
)

// Stats extends the pool counters with spawner-level ones.
type Stats struct {
	pool.Stats
	Spawned int
	Dropped int
	Kills   int
}

// Option configures a Spawner.
type Option func(*Spawner)

// WithLogger sets the logger shared by the spawner, its pool and its enemies.
func WithLogger(l *log.Logger) Option {
	return func(s *Spawner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDifficulty scales enemy speed and spawn interval with score or time.
func WithDifficulty(d *config.DifficultyManager) Option {
	return func(s *Spawner) {
		s.difficulty = d
	}
}

// Spawner owns the enemy pool and the spawn timer.
type Spawner struct {
	cfg        config.SpawnerConfig
	bounds     core.Rect
	platformer bool
	pool       *pool.Pool[*entity.Enemy]
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	logger     *log.Logger

	countdown int
	ticks     int
	nextID    int
	spawned   int
	dropped   int
	kills     int

	// OnKill is called when an enemy's HP reaches zero.
	OnKill func(*entity.Enemy)
}

// New creates a spawner for bounds and pre-populates its pool.
func New(cfg config.JamConfig, bounds core.Rect, seed int64, opts ...Option) (*Spawner, error) {
	s := &Spawner{
		cfg:        cfg.Spawner,
		bounds:     bounds,
		platformer: cfg.Player.Mode != config.ModeTopDown,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.difficulty == nil {
		s.difficulty = config.NewDifficultyManager(config.DifficultyConfig{})
	}

	s.pool = pool.New("enemies", pool.WithLogger[*entity.Enemy](s.logger))
	if err := s.pool.Configure(s.newEnemy, cfg.Pool.InitialSize, cfg.Pool.MaxSize); err != nil {
		return nil, fmt.Errorf("spawner: %w", err)
	}
	s.Reset(seed)
	return s, nil
}

func (s *Spawner) newEnemy() *entity.Enemy {
	s.nextID++
	e := entity.NewEnemy(s.nextID, s.logger)
	e.OnKilled = s.handleKill
	return e
}

func (s *Spawner) handleKill(e *entity.Enemy) {
	s.kills++
	if s.OnKill != nil {
		s.OnKill(e)
	}
}

// Reset returns every enemy to the pool, zeroes the counters and reseeds.
func (s *Spawner) Reset(seed int64) {
	for _, e := range s.pool.Active() {
		//nolint:errcheck // e comes from the active set
		s.pool.Release(e)
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.ticks = 0
	s.spawned = 0
	s.dropped = 0
	s.kills = 0
	s.countdown = s.cfg.IntervalTicks
}

// Tick advances the spawn timer and runs every active enemy's logic step.
// It returns an error only under the "error" exhaust policy.
func (s *Spawner) Tick(dt float64, score int) error {
	s.ticks++
	s.countdown--

	var spawnErr error
	if s.countdown <= 0 {
		s.countdown = s.difficulty.Interval(s.cfg.IntervalTicks, s.cfg.MinIntervalTicks, score, s.ticks)
		_, spawnErr = s.Spawn(score)
	}

	for _, e := range s.pool.Active() {
		e.Tick(dt)
	}
	s.reap()
	return spawnErr
}

// PhysicsTick moves every active enemy and releases those that are done.
func (s *Spawner) PhysicsTick(dt float64) {
	for _, e := range s.pool.Active() {
		e.PhysicsTick(dt)
	}
	s.reap()
}

// reap releases finished enemies. It runs over a snapshot, after the
// per-enemy updates, so the active set never changes mid-iteration.
func (s *Spawner) reap() {
	for _, e := range s.pool.Active() {
		if !e.Done(s.bounds) {
			continue
		}
		if err := s.pool.Release(e); err != nil {
			s.logger.Error("release enemy", "id", e.ID, "err", err)
		}
	}
}

// Spawn places one enemy at a random edge lane. Under the "drop" policy an
// exhausted pool yields (nil, nil).
func (s *Spawner) Spawn(score int) (*entity.Enemy, error) {
	e, err := s.acquire()
	if err != nil {
		if pool.IsExhausted(err) && s.cfg.ExhaustPolicy != config.ExhaustError {
			s.dropped++
			s.logger.Debug("spawn dropped", "active", s.pool.Stats().Active)
			return nil, nil
		}
		return nil, fmt.Errorf("spawner: %w", err)
	}

	w := max(s.cfg.EnemyWidth, 1)
	h := max(s.cfg.EnemyHeight, 1)
	speed := s.difficulty.Speed(s.cfg.EnemySpeed, score, s.ticks)

	pos := core.V(float64(s.bounds.X), 0)
	vel := core.V(speed, 0)
	if s.rng.Intn(2) == 1 {
		pos.X = float64(s.bounds.Right() - w)
		vel.X = -speed
	}
	if s.platformer {
		pos.Y = float64(s.bounds.Bottom() - h)
	} else {
		pos.Y = float64(s.bounds.Y + s.rng.Intn(max(s.bounds.H-h+1, 1)))
	}

	e.Spawn(entity.EnemySpec{
		Pos:      pos,
		Vel:      vel,
		Width:    w,
		Height:   h,
		HP:       s.cfg.EnemyHP,
		Damage:   s.cfg.EnemyDamage,
		Lifetime: s.cfg.LifetimeTicks,
	})
	s.spawned++
	return e, nil
}

func (s *Spawner) acquire() (*entity.Enemy, error) {
	if s.cfg.ExhaustPolicy == config.ExhaustRecycle {
		e, recycled, err := s.pool.AcquireOrRecycle()
		if recycled {
			s.logger.Debug("spawn recycled oldest enemy", "id", e.ID)
		}
		return e, err
	}
	return s.pool.Acquire()
}

// Active returns the live enemies, oldest first.
func (s *Spawner) Active() []*entity.Enemy {
	return s.pool.Active()
}

// Hitboxes returns the damage areas of the live enemies.
func (s *Spawner) Hitboxes() []*entity.Hitbox {
	active := s.pool.Active()
	out := make([]*entity.Hitbox, 0, len(active))
	for _, e := range active {
		out = append(out, &e.Hitbox)
	}
	return out
}

// Hurtboxes returns the damageable areas of the live enemies.
func (s *Spawner) Hurtboxes() []*entity.Hurtbox {
	active := s.pool.Active()
	out := make([]*entity.Hurtbox, 0, len(active))
	for _, e := range active {
		out = append(out, &e.Hurtbox)
	}
	return out
}

// Stats returns pool and spawner counters.
func (s *Spawner) Stats() Stats {
	return Stats{
		Stats:   s.pool.Stats(),
		Spawned: s.spawned,
		Dropped: s.dropped,
		Kills:   s.kills,
	}
}

// Pool exposes the underlying pool.
func (s *Spawner) Pool() *pool.Pool[*entity.Enemy] { return s.pool }

// Teardown destroys every pooled enemy. The spawner is unusable afterwards.
func (s *Spawner) Teardown() {
	s.pool.Teardown()
}
