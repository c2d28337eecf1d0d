package config

import (
	_ "embed"
)

//go:embed defaults/roadrush.yaml
var defaultRoadRushYAML []byte

// DefaultRoadRushConfig returns the built-in Road Rush tuning.
// It mirrors defaults/roadrush.yaml and is used if the embedded file fails to parse.
func DefaultRoadRushConfig() RoadRushConfig {
	return RoadRushConfig{
		World: WorldConfig{
			Width:      400,
			Height:     600,
			RoadMargin: 50,
			BoundLeft:  60,
			BoundRight: 90,
		},
		Player: PlayerConfig{
			Width:      40,
			Height:     80,
			Speed:      5,
			StartX:     15,
			StartY:     100,
			SteerAccel: 0.05,
			SteerMax:   1.2,
			SteerDecay: 0.95,
			MoveScale:  0.9,
			Hitbox:     Hitbox{OffsetX: 2, Width: 44, Height: 80},
		},
		Enemies: EnemyConfig{
			Width:       20,
			Height:      40,
			MinSpeed:    4,
			SpeedRange:  2.6,
			SpawnY:      -50,
			MinSpawnGap: 100,
			LaneJitter:  30,
			SpawnInset:  10,
			SeparationY: 60,
			SeparationX: 40,
			Nudge:       1,
			PassPoints:  10,
			KillPoints:  20,
			Hitbox:      Hitbox{OffsetX: 2, Width: 30, Height: 43},
			ExplosionMS: 300,
		},
		Bullets: BulletConfig{
			Width:  4,
			Height: 10,
			Speed:  8,
		},
		Ammo: AmmoConfig{
			Max:      15,
			Refill:   15,
			ExpiryMS: 60000,
		},
		PowerUps: PowerUpConfig{
			Size:           20,
			Speed:          3,
			SpawnY:         -30,
			SpawnChance:    0.002,
			AmmoChance:     0.5,
			SlowdownMS:     5000,
			SlowdownFactor: 0.5,
		},
		Road: RoadConfig{
			BaseSpeed:    5,
			ScoreDivisor: 500,
			DashPeriod:   40,
			SignPeriod:   240,
		},
		Spawn: SpawnConfig{
			BaseInterval: 45,
			StepSecs:     10,
			MinInterval:  15,
		},
		Difficulty: DifficultyConfig{
			Enabled:       true,
			TimeWindowSec: 20,
			ScoreDivisor:  350,
			Cap:           3.9,
		},
		HUD: HUDConfig{
			ScoreLabel: "$NIL",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "roadrush":
		return defaultRoadRushYAML
	default:
		return nil
	}
}
