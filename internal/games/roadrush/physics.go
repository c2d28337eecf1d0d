package roadrush

import (
	"math"
	"time"

	"github.com/vovakirdan/roadrush/internal/core"
)

// steer eases the bus velocity toward the held direction and moves it.
// Without input the velocity decays exponentially instead of stopping dead.
func (g *Game) steer(in core.InputFrame) {
	pc := g.cfg.Player
	minX, maxX := g.roadBounds()
	p := &g.player

	switch {
	case in.Has(core.ActionLeft) && p.X > minX:
		p.Velocity = math.Max(p.Velocity-pc.SteerAccel, -pc.SteerMax)
	case in.Has(core.ActionRight) && p.X < maxX:
		p.Velocity = math.Min(p.Velocity+pc.SteerAccel, pc.SteerMax)
	default:
		p.Velocity *= pc.SteerDecay
	}

	p.X += p.Velocity * pc.Speed * pc.MoveScale
	p.X = core.ClampF(p.X, minX, maxX)
}

// roadBounds returns the leftmost and rightmost x a vehicle may occupy.
func (g *Game) roadBounds() (float64, float64) {
	w := g.cfg.World
	return w.BoundLeft, w.Width - w.BoundRight
}

// scrollRoad advances the lane dashes and roadside signs.
func (g *Game) scrollRoad(slow bool) {
	speed := g.cfg.Road.RoadSpeed(g.score) * g.multiplier
	if slow {
		speed *= g.cfg.PowerUps.SlowdownFactor
	}
	g.roadOffset = math.Mod(g.roadOffset+speed, g.cfg.Road.DashPeriod)
	g.signOffset = math.Mod(g.signOffset+speed, g.cfg.Road.SignPeriod)
}

// separateEnemies nudges cars that crowd each other apart horizontally.
// Each car moves at most one nudge per tick, away from the first neighbor
// found too close. This is O(n^2) in the number of cars, which is fine for
// the handful that fit on the road at once.
func (g *Game) separateEnemies() {
	ec := g.cfg.Enemies
	minX, maxX := g.roadBounds()

	dirs := make([]float64, len(g.enemies))
	for i, e := range g.enemies {
		for j, other := range g.enemies {
			if i == j {
				continue
			}
			if core.AbsF(e.Y-other.Y) >= ec.SeparationY || core.AbsF(e.X-other.X) >= ec.SeparationX {
				continue
			}
			if e.X < other.X || (e.X == other.X && i < j) {
				dirs[i] = -1
			} else {
				dirs[i] = 1
			}
			break
		}
	}

	for i, dir := range dirs {
		e := &g.enemies[i]
		switch {
		case dir < 0:
			// Never snap a car that spawned past the bound, only stop it
			e.X = math.Max(e.X-ec.Nudge, math.Min(e.X, minX))
		case dir > 0:
			e.X = math.Min(e.X+ec.Nudge, math.Max(e.X, maxX))
		}
	}
}

// updateEnemies moves cars, scores the ones that got past and checks for a
// crash. Returns true if the player was hit.
func (g *Game) updateEnemies(slow bool) bool {
	factor := g.multiplier
	if slow {
		factor *= g.cfg.PowerUps.SlowdownFactor
	}
	for i := range g.enemies {
		g.enemies[i].Y += g.enemies[i].Speed * factor
	}

	g.separateEnemies()

	playerBox := g.player.Box(g.cfg.Player)
	kept := g.enemies[:0]
	for i, e := range g.enemies {
		if e.Y > g.cfg.World.Height {
			g.addScore(g.cfg.Enemies.PassPoints)
			g.stats.Dodged++
			continue
		}
		if e.Box(g.cfg.Enemies).Overlaps(playerBox) {
			// The run ends here; cars not yet visited stay as they are
			g.enemies = append(kept, g.enemies[i:]...)
			return true
		}
		kept = append(kept, e)
	}
	g.enemies = kept
	return false
}

// updateBullets moves bullets and resolves hits. A bullet destroys at most
// one car.
func (g *Game) updateBullets(now time.Time) {
	bc := g.cfg.Bullets
	ec := g.cfg.Enemies

	kept := g.bullets[:0]
	for _, b := range g.bullets {
		b.Y -= bc.Speed
		if b.Y < 0 {
			continue
		}

		hit := -1
		box := b.Box(bc)
		for j, e := range g.enemies {
			if box.Overlaps(e.Box(ec)) {
				hit = j
				break
			}
		}
		if hit < 0 {
			kept = append(kept, b)
			continue
		}

		cx, cy := g.enemies[hit].Center(ec)
		g.explosions = append(g.explosions, Explosion{
			X:     cx,
			Y:     cy,
			Until: now.Add(time.Duration(ec.ExplosionMS) * time.Millisecond),
		})
		g.enemies = append(g.enemies[:hit], g.enemies[hit+1:]...)
		g.addScore(ec.KillPoints)
		g.stats.Kills++
	}
	g.bullets = kept
}

// updatePowerUps moves pickups and applies the ones the bus drives over.
func (g *Game) updatePowerUps(now time.Time) {
	pc := g.cfg.PowerUps
	playerBox := g.player.Box(g.cfg.Player)

	kept := g.powerUps[:0]
	for _, p := range g.powerUps {
		p.Y += pc.Speed
		if p.Y > g.cfg.World.Height {
			continue
		}
		if p.Box(pc).Overlaps(playerBox) {
			g.applyPowerUp(p.Type, now)
			continue
		}
		kept = append(kept, p)
	}
	g.powerUps = kept
}

// applyPowerUp activates a collected pickup.
func (g *Game) applyPowerUp(kind PowerUpType, now time.Time) {
	g.stats.Pickups++
	switch kind {
	case PowerUpAmmo:
		g.ammo = min(g.cfg.Ammo.Max, g.ammo+g.cfg.Ammo.Refill)
		g.lastRefill = now
	case PowerUpSlowdown:
		g.slowdownEnd = now.Add(time.Duration(g.cfg.PowerUps.SlowdownMS) * time.Millisecond)
	}
}

// shoot fires a bullet from the front of the bus if there is ammo.
func (g *Game) shoot() bool {
	if g.ammo <= 0 {
		return false
	}
	g.bullets = append(g.bullets, Bullet{
		X: g.player.X + g.cfg.Player.Width/2 - g.cfg.Bullets.Width/2,
		Y: g.player.Y,
	})
	g.ammo--
	g.stats.Shots++
	return true
}
