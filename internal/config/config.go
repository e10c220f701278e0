// Package config provides game configuration loading (YAML or TOML),
// embedded defaults, environment overrides and difficulty progression.
package config

import (
	"errors"
	"fmt"
)

// JamConfig is the full tunable configuration of the starter scene.
type JamConfig struct {
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Spawner    SpawnerConfig    `yaml:"spawner" toml:"spawner"`
	Pool       PoolConfig       `yaml:"pool" toml:"pool"`
	Scoring    ScoringConfig    `yaml:"scoring" toml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// Controller modes.
const (
	ModePlatformer = "platformer"
	ModeTopDown    = "topdown"
)

// PlayerConfig tunes the character controller. Speeds are in cells per second.
type PlayerConfig struct {
	Mode         string  `yaml:"mode" toml:"mode"`
	Width        int     `yaml:"width" toml:"width"`
	Height       int     `yaml:"height" toml:"height"`
	Speed        float64 `yaml:"speed" toml:"speed"`
	Acceleration float64 `yaml:"acceleration" toml:"acceleration"`
	Friction     float64 `yaml:"friction" toml:"friction"`
	JumpVelocity float64 `yaml:"jump_velocity" toml:"jump_velocity"` // negative = up
	CoyoteTicks  int     `yaml:"coyote_ticks" toml:"coyote_ticks"`
	Lives        int     `yaml:"lives" toml:"lives"`
	InvulnTicks  int     `yaml:"invuln_ticks" toml:"invuln_ticks"`
	AttackTicks  int     `yaml:"attack_ticks" toml:"attack_ticks"`
	AttackRange  int     `yaml:"attack_range" toml:"attack_range"`
	AttackDamage int     `yaml:"attack_damage" toml:"attack_damage"`
}

// WorldConfig tunes gravity and the playfield.
type WorldConfig struct {
	Gravity      float64 `yaml:"gravity" toml:"gravity"`
	MaxFallSpeed float64 `yaml:"max_fall_speed" toml:"max_fall_speed"`
	GroundOffset int     `yaml:"ground_offset" toml:"ground_offset"`
	HUDRows      int     `yaml:"hud_rows" toml:"hud_rows"`
}

// Exhaust policies for the spawner.
const (
	ExhaustDrop    = "drop"
	ExhaustRecycle = "recycle"
	ExhaustError   = "error"
)

// SpawnerConfig tunes enemy spawning.
type SpawnerConfig struct {
	IntervalTicks    int     `yaml:"interval_ticks" toml:"interval_ticks"`
	MinIntervalTicks int     `yaml:"min_interval_ticks" toml:"min_interval_ticks"`
	EnemySpeed       float64 `yaml:"enemy_speed" toml:"enemy_speed"`
	EnemyHP          int     `yaml:"enemy_hp" toml:"enemy_hp"`
	EnemyDamage      int     `yaml:"enemy_damage" toml:"enemy_damage"`
	EnemyWidth       int     `yaml:"enemy_width" toml:"enemy_width"`
	EnemyHeight      int     `yaml:"enemy_height" toml:"enemy_height"`
	LifetimeTicks    int     `yaml:"lifetime_ticks" toml:"lifetime_ticks"`
	ExhaustPolicy    string  `yaml:"exhaust_policy" toml:"exhaust_policy"`
}

// PoolConfig sizes the enemy pool. MaxSize 0 means unbounded.
type PoolConfig struct {
	InitialSize int `yaml:"initial_size" toml:"initial_size"`
	MaxSize     int `yaml:"max_size" toml:"max_size"`
}

// ScoringConfig defines how points are earned.
type ScoringConfig struct {
	KillPoints     int `yaml:"kill_points" toml:"kill_points"`
	SurvivalPoints int `yaml:"survival_points" toml:"survival_points"`
	SurvivalEveryN int `yaml:"survival_every_ticks" toml:"survival_every_ticks"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time" or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // score or ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes at level 1.0.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier" toml:"speed_multiplier"`
	IntervalFactor  float64 `yaml:"interval_factor" toml:"interval_factor"` // fraction of the spawn interval removed
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset; unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// ApplyPreset adjusts difficulty and player tuning for a preset.
func ApplyPreset(cfg *JamConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
		return
	case DifficultyEasy:
		cfg.Difficulty.InitialLevel = 0.0
		cfg.Player.Lives += 2
	case DifficultyNormal:
		cfg.Difficulty.InitialLevel = 0.3
	case DifficultyHard:
		cfg.Difficulty.InitialLevel = 0.7
		cfg.Player.Lives = max(1, cfg.Player.Lives-1)
	}
	cfg.Difficulty.Enabled = true
}

// Validate reports configuration values the scene cannot run with.
func (c JamConfig) Validate() error {
	var errs []error
	if c.Player.Mode != ModePlatformer && c.Player.Mode != ModeTopDown {
		errs = append(errs, fmt.Errorf("player.mode %q must be %q or %q", c.Player.Mode, ModePlatformer, ModeTopDown))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player size must be positive"))
	}
	if c.Player.Lives <= 0 {
		errs = append(errs, errors.New("player.lives must be positive"))
	}
	if c.Spawner.IntervalTicks <= 0 {
		errs = append(errs, errors.New("spawner.interval_ticks must be positive"))
	}
	if c.Spawner.EnemyWidth <= 0 || c.Spawner.EnemyHeight <= 0 {
		errs = append(errs, errors.New("enemy size must be positive"))
	}
	switch c.Spawner.ExhaustPolicy {
	case ExhaustDrop, ExhaustRecycle, ExhaustError:
	default:
		errs = append(errs, fmt.Errorf("spawner.exhaust_policy %q is not drop, recycle or error", c.Spawner.ExhaustPolicy))
	}
	if c.Pool.InitialSize < 0 || c.Pool.MaxSize < 0 || (c.Pool.MaxSize > 0 && c.Pool.InitialSize > c.Pool.MaxSize) {
		errs = append(errs, fmt.Errorf("pool sizes initial=%d max=%d are inconsistent", c.Pool.InitialSize, c.Pool.MaxSize))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
