package roadrush

import "github.com/vovakirdan/roadrush/internal/core"

// laneCount is the number of lanes the road is divided into.
const laneCount = 3

// laneCenters returns the x of each lane center, left to right.
func (g *Game) laneCenters() [laneCount]float64 {
	w := g.cfg.World
	laneWidth := (w.Width - 2*w.RoadMargin) / laneCount

	var lanes [laneCount]float64
	for i := range lanes {
		lanes[i] = w.RoadMargin + laneWidth*(float64(i)+0.5)
	}
	return lanes
}

// canSpawnEnemy reports whether the spawn row is clear of other cars.
func (g *Game) canSpawnEnemy() bool {
	ec := g.cfg.Enemies
	for _, e := range g.enemies {
		if core.AbsF(e.Y-ec.SpawnY) < ec.MinSpawnGap {
			return false
		}
	}
	return true
}

// spawnEnemy places a car in a random lane with a little jitter.
// Returns false if the spawn row was occupied.
func (g *Game) spawnEnemy() bool {
	if !g.canSpawnEnemy() {
		return false
	}

	ec := g.cfg.Enemies
	w := g.cfg.World

	lanes := g.laneCenters()
	lane := lanes[g.rng.Intn(laneCount)]
	jitter := (g.rng.Float64() - 0.5) * ec.LaneJitter

	minX := w.RoadMargin + ec.SpawnInset
	maxX := w.Width - w.RoadMargin - ec.SpawnInset

	g.enemies = append(g.enemies, Enemy{
		X:     core.ClampF(lane+jitter, minX, maxX),
		Y:     ec.SpawnY,
		Speed: ec.MinSpeed + g.rng.Float64()*ec.SpeedRange,
		Color: core.VehiclePalette[g.rng.Intn(len(core.VehiclePalette))],
	})
	return true
}

// spawnPowerUp drops a pickup of a random type in a random lane.
func (g *Game) spawnPowerUp() {
	pc := g.cfg.PowerUps
	lanes := g.laneCenters()
	lane := lanes[g.rng.Intn(laneCount)]

	kind := PowerUpSlowdown
	if g.rng.Float64() < pc.AmmoChance {
		kind = PowerUpAmmo
	}

	g.powerUps = append(g.powerUps, PowerUp{
		X:    lane,
		Y:    pc.SpawnY,
		Type: kind,
	})
}
