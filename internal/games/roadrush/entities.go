package roadrush

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/core"
)

// RNG is the randomness source used for spawning.
// *rand.Rand satisfies it; tests may substitute a scripted source.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

func newRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // gameplay randomness
}

// Player is the bus at the bottom of the road.
type Player struct {
	X, Y     float64
	Velocity float64 // Horizontal steering velocity
}

// Box returns the player's collision box.
func (p Player) Box(cfg config.PlayerConfig) core.Box {
	return hitbox(p.X, p.Y, cfg.Hitbox)
}

// Enemy is a race car falling down the road.
type Enemy struct {
	X, Y  float64
	Speed float64
	Color core.Color
}

// Box returns the enemy's collision box.
func (e Enemy) Box(cfg config.EnemyConfig) core.Box {
	return hitbox(e.X, e.Y, cfg.Hitbox)
}

// Center returns the middle of the car's sprite.
func (e Enemy) Center(cfg config.EnemyConfig) (float64, float64) {
	return e.X + cfg.Width/2, e.Y + cfg.Height/2
}

// Bullet is a projectile fired upwards by the player.
type Bullet struct {
	X, Y float64
}

// Box returns the bullet's collision box.
func (b Bullet) Box(cfg config.BulletConfig) core.Box {
	return core.BoxAt(b.X, b.Y, cfg.Width, cfg.Height)
}

// PowerUpType identifies the effect of a pickup.
type PowerUpType int

const (
	PowerUpAmmo     PowerUpType = iota // Refills ammo and the refill deadline
	PowerUpSlowdown                    // Halves enemy and road speed for a while
)

// String returns the name of the power-up type.
func (p PowerUpType) String() string {
	switch p {
	case PowerUpAmmo:
		return "ammo"
	case PowerUpSlowdown:
		return "slowdown"
	default:
		return "unknown"
	}
}

// Glyph returns the display character for a power-up type.
func (p PowerUpType) Glyph() rune {
	switch p {
	case PowerUpAmmo:
		return 'A'
	case PowerUpSlowdown:
		return 'S'
	default:
		return '?'
	}
}

// PowerUp is a falling pickup. X/Y is its center.
type PowerUp struct {
	X, Y float64
	Type PowerUpType
}

// Box returns the pickup's collision box.
func (p PowerUp) Box(cfg config.PowerUpConfig) core.Box {
	half := cfg.Size / 2
	return core.BoxAt(p.X-half, p.Y-half, cfg.Size, cfg.Size)
}

// Explosion marks where a car was shot. Render-only.
type Explosion struct {
	X, Y  float64
	Until time.Time
}

// hitbox builds a box spanning [x-OffsetX, x+Width] by [y, y+Height].
func hitbox(x, y float64, h config.Hitbox) core.Box {
	return core.Box{
		Left:   x - h.OffsetX,
		Top:    y,
		Right:  x + h.Width,
		Bottom: y + h.Height,
	}
}
