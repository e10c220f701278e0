package spawner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jam-starter/internal/config"
	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/entity"
	"github.com/vovakirdan/jam-starter/internal/pool"
)

const dt = 1.0 / 60

var bounds = core.NewRect(0, 0, 40, 20)

// stillConfig spawns every tick, enemies never move or expire.
func stillConfig(policy string, initial, maxSize int) config.JamConfig {
	cfg := config.DefaultJamConfig()
	cfg.Spawner.IntervalTicks = 1
	cfg.Spawner.MinIntervalTicks = 1
	cfg.Spawner.EnemySpeed = 0
	cfg.Spawner.LifetimeTicks = 0
	cfg.Spawner.ExhaustPolicy = policy
	cfg.Pool.InitialSize = initial
	cfg.Pool.MaxSize = maxSize
	return cfg
}

func newSpawner(t *testing.T, cfg config.JamConfig) *Spawner {
	t.Helper()
	s, err := New(cfg, bounds, 42)
	require.NoError(t, err)
	return s
}

func TestNewPrepopulatesPool(t *testing.T) {
	s := newSpawner(t, config.DefaultJamConfig())

	st := s.Stats()
	assert.Equal(t, 4, st.Free)
	assert.Zero(t, st.Active)
	assert.Equal(t, 8, st.Max)
	for _, e := range s.Pool().Free() {
		assert.False(t, e.Visible)
		assert.False(t, e.Processing)
	}
}

func TestNewRejectsBadPoolSize(t *testing.T) {
	cfg := config.DefaultJamConfig()
	cfg.Pool.InitialSize = 10
	cfg.Pool.MaxSize = 2

	_, err := New(cfg, bounds, 1)
	assert.Error(t, err)
}

func TestSpawnInterval(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 2, 0)
	cfg.Spawner.IntervalTicks = 3
	cfg.Spawner.MinIntervalTicks = 3
	s := newSpawner(t, cfg)

	for range 2 {
		require.NoError(t, s.Tick(dt, 0))
	}
	assert.Empty(t, s.Active())

	require.NoError(t, s.Tick(dt, 0))
	assert.Len(t, s.Active(), 1)

	for range 3 {
		require.NoError(t, s.Tick(dt, 0))
	}
	assert.Len(t, s.Active(), 2)
	assert.Equal(t, 2, s.Stats().Spawned)
}

func TestSpawnLanes(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustDrop, 0, 0))

	for range 20 {
		e, err := s.Spawn(0)
		require.NoError(t, err)
		r := e.Rect()
		assert.True(t, r.X == bounds.X || r.Right() == bounds.Right(), "spawned at an edge: %+v", r)
		assert.Equal(t, bounds.Bottom(), r.Bottom(), "platformer enemies walk on the floor")
		assert.True(t, e.Visible)
		assert.Equal(t, entity.StateWalk, e.State())
	}
}

func TestSpawnLanesTopDown(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 0, 0)
	cfg.Player.Mode = config.ModeTopDown
	s := newSpawner(t, cfg)

	rows := map[int]bool{}
	for range 50 {
		e, err := s.Spawn(0)
		require.NoError(t, err)
		r := e.Rect()
		assert.GreaterOrEqual(t, r.Y, bounds.Y)
		assert.LessOrEqual(t, r.Bottom(), bounds.Bottom())
		rows[r.Y] = true
	}
	assert.Greater(t, len(rows), 1, "top-down enemies use several rows")
}

func TestSpawnDirection(t *testing.T) {
	cfg := config.DefaultJamConfig()
	s := newSpawner(t, cfg)

	for range 10 {
		e, err := s.Spawn(0)
		require.NoError(t, err)
		if e.Pos.X == float64(bounds.X) {
			assert.Greater(t, e.Vel.X, 0.0)
		} else {
			assert.Less(t, e.Vel.X, 0.0)
		}
		if len(s.Active()) == cfg.Pool.MaxSize {
			break
		}
	}
}

func TestExhaustDrop(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustDrop, 2, 2))

	for range 5 {
		require.NoError(t, s.Tick(dt, 0))
	}

	st := s.Stats()
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, 2, st.Spawned)
	assert.Equal(t, 3, st.Dropped)
	assert.LessOrEqual(t, st.Total, 2)
}

func TestExhaustRecycle(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustRecycle, 2, 2))

	require.NoError(t, s.Tick(dt, 0))
	first := s.Active()[0]
	for range 4 {
		require.NoError(t, s.Tick(dt, 0))
	}

	st := s.Stats()
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, 5, st.Spawned)
	assert.Equal(t, 3, st.Recycled)
	assert.Zero(t, st.Dropped)
	assert.Greater(t, first.Spawns(), 1, "oldest instance was reused")
}

func TestExhaustError(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustError, 2, 2))

	require.NoError(t, s.Tick(dt, 0))
	require.NoError(t, s.Tick(dt, 0))

	err := s.Tick(dt, 0)
	require.Error(t, err)
	assert.True(t, pool.IsExhausted(err))
	assert.Len(t, s.Active(), 2)
}

func TestLifetimeReleasesEnemy(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 1, 1)
	cfg.Spawner.IntervalTicks = 100
	cfg.Spawner.LifetimeTicks = 2
	s := newSpawner(t, cfg)

	e, err := s.Spawn(0)
	require.NoError(t, err)

	require.NoError(t, s.Tick(dt, 0))
	assert.True(t, s.Pool().IsActive(e))
	require.NoError(t, s.Tick(dt, 0))
	assert.False(t, s.Pool().IsActive(e))
	assert.False(t, e.Visible)
	assert.Equal(t, 1, s.Stats().Free)
}

func TestLeavingBoundsReleasesEnemy(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 1, 1)
	cfg.Spawner.IntervalTicks = 1000
	cfg.Spawner.EnemySpeed = 600
	s := newSpawner(t, cfg)

	e, err := s.Spawn(0)
	require.NoError(t, err)
	for range 10 {
		s.PhysicsTick(dt)
	}
	assert.False(t, s.Pool().IsActive(e))
	assert.Empty(t, s.Active())
}

func TestKillReleasesAfterDeath(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 1, 1)
	cfg.Spawner.IntervalTicks = 1000
	s := newSpawner(t, cfg)

	var killed []*entity.Enemy
	s.OnKill = func(e *entity.Enemy) { killed = append(killed, e) }

	e, err := s.Spawn(0)
	require.NoError(t, err)
	require.True(t, e.Damage(e.HP))
	assert.Equal(t, []*entity.Enemy{e}, killed)
	assert.Equal(t, 1, s.Stats().Kills)
	assert.True(t, s.Pool().IsActive(e), "death animation keeps the enemy active")

	for range 20 {
		require.NoError(t, s.Tick(dt, 0))
	}
	assert.False(t, s.Pool().IsActive(e))
}

func TestBoxesFollowActiveSet(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustDrop, 3, 3))
	for range 3 {
		require.NoError(t, s.Tick(dt, 0))
	}

	hits := s.Hitboxes()
	hurts := s.Hurtboxes()
	require.Len(t, hits, 3)
	require.Len(t, hurts, 3)
	for i, e := range s.Active() {
		assert.Same(t, &e.Hitbox, hits[i])
		assert.Same(t, &e.Hurtbox, hurts[i])
	}
}

func TestDeterministicSpawns(t *testing.T) {
	run := func() []core.Vec2 {
		s := newSpawner(t, stillConfig(config.ExhaustDrop, 0, 0))
		var out []core.Vec2
		for range 10 {
			e, err := s.Spawn(0)
			require.NoError(t, err)
			out = append(out, e.Pos)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestReset(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustDrop, 2, 2))
	for range 4 {
		require.NoError(t, s.Tick(dt, 0))
	}

	s.Reset(7)

	st := s.Stats()
	assert.Zero(t, st.Active)
	assert.Equal(t, 2, st.Free)
	assert.Zero(t, st.Spawned)
	assert.Zero(t, st.Dropped)
}

func TestDifficultyShortensInterval(t *testing.T) {
	cfg := stillConfig(config.ExhaustDrop, 0, 0)
	cfg.Spawner.IntervalTicks = 10
	cfg.Spawner.MinIntervalTicks = 2
	cfg.Difficulty.Scaling.IntervalFactor = 0.8

	easy := newSpawner(t, cfg)
	hard, err := New(cfg, bounds, 42, WithDifficulty(config.NewDifficultyManager(cfg.Difficulty)))
	require.NoError(t, err)

	score := cfg.Difficulty.Progression.MaxAt
	for range 40 {
		require.NoError(t, easy.Tick(dt, score))
		require.NoError(t, hard.Tick(dt, score))
	}
	assert.Greater(t, len(hard.Active()), len(easy.Active()))
}

func TestTeardown(t *testing.T) {
	s := newSpawner(t, stillConfig(config.ExhaustDrop, 2, 2))
	require.NoError(t, s.Tick(dt, 0))

	s.Teardown()
	assert.Zero(t, s.Stats().Total)
}
