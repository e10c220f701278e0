package config

import (
	_ "embed"
)

//go:embed defaults/jam.yaml
var defaultJamYAML []byte

// DefaultJamConfig returns the hardcoded tuning. It mirrors defaults/jam.yaml
// and is the fallback when the embedded file cannot be parsed.
func DefaultJamConfig() JamConfig {
	return JamConfig{
		Player: PlayerConfig{
			Mode:         ModePlatformer,
			Width:        2,
			Height:       2,
			Speed:        28,
			Acceleration: 220,
			Friction:     260,
			JumpVelocity: -34,
			CoyoteTicks:  6,
			Lives:        3,
			InvulnTicks:  60,
			AttackTicks:  12,
			AttackRange:  3,
			AttackDamage: 1,
		},
		World: WorldConfig{
			Gravity:      110,
			MaxFallSpeed: 45,
			GroundOffset: 2,
			HUDRows:      1,
		},
		Spawner: SpawnerConfig{
			IntervalTicks:    90,
			MinIntervalTicks: 25,
			EnemySpeed:       12,
			EnemyHP:          1,
			EnemyDamage:      1,
			EnemyWidth:       2,
			EnemyHeight:      1,
			LifetimeTicks:    900,
			ExhaustPolicy:    ExhaustDrop,
		},
		Pool: PoolConfig{
			InitialSize: 4,
			MaxSize:     8,
		},
		Scoring: ScoringConfig{
			KillPoints:     10,
			SurvivalPoints: 1,
			SurvivalEveryN: 60,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				IntervalFactor:  0.6,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultJamYAML
}
