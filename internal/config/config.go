// Package config provides YAML-based game configuration loading and
// difficulty management for Road Rush.
package config

import (
	"errors"
	"fmt"
)

// RoadRushConfig contains all tuning for the Road Rush game.
// Distances are world units, speeds are world units per tick.
type RoadRushConfig struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Enemies    EnemyConfig      `yaml:"enemies"`
	Bullets    BulletConfig     `yaml:"bullets"`
	Ammo       AmmoConfig       `yaml:"ammo"`
	PowerUps   PowerUpConfig    `yaml:"powerups"`
	Road       RoadConfig       `yaml:"road"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	HUD        HUDConfig        `yaml:"hud"`
}

// WorldConfig defines the logical playfield.
type WorldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	RoadMargin float64 `yaml:"road_margin"` // Grass strip on each side of the road
	BoundLeft  float64 `yaml:"bound_left"`  // Leftmost x a vehicle may take
	BoundRight float64 `yaml:"bound_right"` // Distance from the right edge to the rightmost x
}

// Hitbox describes a collision box relative to an entity's x/y.
// The box spans [x-OffsetX, x+Width] horizontally and [y, y+Height] vertically,
// matching the drawn sprite including wheels rather than its nominal size.
type Hitbox struct {
	OffsetX float64 `yaml:"offset_x"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// PlayerConfig defines the bus and its steering model.
type PlayerConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Speed      float64 `yaml:"speed"`
	StartX     float64 `yaml:"start_x"` // Subtracted from the world center
	StartY     float64 `yaml:"start_y"` // Subtracted from the world height
	SteerAccel float64 `yaml:"steer_accel"`
	SteerMax   float64 `yaml:"steer_max"`
	SteerDecay float64 `yaml:"steer_decay"`
	MoveScale  float64 `yaml:"move_scale"`
	Hitbox     Hitbox  `yaml:"hitbox"`
}

// EnemyConfig defines race cars, their spawn placement and separation.
type EnemyConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	MinSpeed    float64 `yaml:"min_speed"`
	SpeedRange  float64 `yaml:"speed_range"`
	SpawnY      float64 `yaml:"spawn_y"`
	MinSpawnGap float64 `yaml:"min_spawn_gap"` // Minimum vertical distance to any enemy at spawn time
	LaneJitter  float64 `yaml:"lane_jitter"`   // Total jitter width around the lane center
	SpawnInset  float64 `yaml:"spawn_inset"`   // Spawn x is clamped to [road+inset, width-road-inset]
	SeparationY float64 `yaml:"separation_y"`
	SeparationX float64 `yaml:"separation_x"`
	Nudge       float64 `yaml:"nudge"`
	PassPoints  int     `yaml:"pass_points"`
	KillPoints  int     `yaml:"kill_points"`
	Hitbox      Hitbox  `yaml:"hitbox"`
	ExplosionMS int     `yaml:"explosion_ms"`
}

// BulletConfig defines player projectiles.
type BulletConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
}

// AmmoConfig defines the ammo pool and its starvation window.
type AmmoConfig struct {
	Max      int `yaml:"max"`
	Refill   int `yaml:"refill"`    // Ammo added by an ammo power-up
	ExpiryMS int `yaml:"expiry_ms"` // Ammo drops to zero this long after the last refill
}

// PowerUpConfig defines falling pickups.
type PowerUpConfig struct {
	Size           float64 `yaml:"size"`
	Speed          float64 `yaml:"speed"`
	SpawnY         float64 `yaml:"spawn_y"`
	SpawnChance    float64 `yaml:"spawn_chance"` // Probability per tick
	AmmoChance     float64 `yaml:"ammo_chance"`  // Probability a spawned power-up is ammo
	SlowdownMS     int     `yaml:"slowdown_ms"`
	SlowdownFactor float64 `yaml:"slowdown_factor"`
}

// RoadConfig defines road and roadside sign scrolling.
type RoadConfig struct {
	BaseSpeed    float64 `yaml:"base_speed"`
	ScoreDivisor float64 `yaml:"score_divisor"` // Road speed grows by 1x every this many points
	DashPeriod   float64 `yaml:"dash_period"`
	SignPeriod   float64 `yaml:"sign_period"`
}

// SpawnConfig defines the enemy spawn cadence in ticks.
type SpawnConfig struct {
	BaseInterval int `yaml:"base_interval"`
	StepSecs     int `yaml:"step_secs"` // Interval shrinks by one tick every StepSecs seconds
	MinInterval  int `yaml:"min_interval"`
}

// DifficultyConfig defines the combined time/score multiplier.
type DifficultyConfig struct {
	Enabled       bool    `yaml:"enabled"`
	TimeWindowSec float64 `yaml:"time_window_secs"`
	ScoreDivisor  float64 `yaml:"score_divisor"`
	Cap           float64 `yaml:"cap"`
	HeadStartSec  float64 `yaml:"head_start_secs"` // Added to elapsed time
}

// HUDConfig defines score display text.
type HUDConfig struct {
	ScoreLabel string `yaml:"score_label"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyNormal, DifficultyEasy, DifficultyHard, DifficultyFixed}
}

// Description is a one-line summary of the preset for menus and help.
func (p DifficultyPreset) Description() string {
	switch p {
	case DifficultyNormal:
		return "traffic speeds up over two minutes"
	case DifficultyEasy:
		return "lower top speed"
	case DifficultyHard:
		return "starts twenty seconds into the ramp"
	case DifficultyFixed:
		return "traffic never speeds up"
	}
	return ""
}

// ParsePreset converts a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks that the configuration describes a playable game.
func (c RoadRushConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	case c.World.BoundLeft >= c.World.Width-c.World.BoundRight:
		return fmt.Errorf("%w: road bounds leave no room to drive", ErrInvalidConfig)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player size must be positive", ErrInvalidConfig)
	case c.Player.SteerMax <= 0:
		return fmt.Errorf("%w: steer_max must be positive", ErrInvalidConfig)
	case c.Player.SteerDecay < 0 || c.Player.SteerDecay >= 1:
		return fmt.Errorf("%w: steer_decay must be in [0, 1)", ErrInvalidConfig)
	case c.Enemies.MinSpeed <= 0:
		return fmt.Errorf("%w: enemy min_speed must be positive", ErrInvalidConfig)
	case c.Bullets.Speed <= 0:
		return fmt.Errorf("%w: bullet speed must be positive", ErrInvalidConfig)
	case c.Ammo.Max < 0 || c.Ammo.Refill < 0:
		return fmt.Errorf("%w: ammo values must not be negative", ErrInvalidConfig)
	case c.PowerUps.SpawnChance < 0 || c.PowerUps.SpawnChance > 1:
		return fmt.Errorf("%w: powerup spawn_chance must be in [0, 1]", ErrInvalidConfig)
	case c.PowerUps.SlowdownFactor <= 0 || c.PowerUps.SlowdownFactor > 1:
		return fmt.Errorf("%w: slowdown_factor must be in (0, 1]", ErrInvalidConfig)
	case c.Road.DashPeriod <= 0 || c.Road.SignPeriod <= 0:
		return fmt.Errorf("%w: road periods must be positive", ErrInvalidConfig)
	case c.Spawn.MinInterval <= 0 || c.Spawn.BaseInterval < c.Spawn.MinInterval:
		return fmt.Errorf("%w: spawn intervals must satisfy 0 < min <= base", ErrInvalidConfig)
	case c.Difficulty.Enabled && (c.Difficulty.TimeWindowSec <= 0 || c.Difficulty.ScoreDivisor <= 0 || c.Difficulty.Cap < 1):
		return fmt.Errorf("%w: difficulty needs positive window/divisor and cap >= 1", ErrInvalidConfig)
	}
	return nil
}
