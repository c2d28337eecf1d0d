package roadrush

import "math"

// Snapshot contains the simulation state for determinism checks and replay.
// Positions are float bit patterns so equal snapshots mean bit-equal worlds.
// Wall-clock deadlines are stored relative to the run start.
type Snapshot struct {
	Tick       uint64
	Phase      string
	Paused     bool
	Score      int
	Ammo       int
	SpawnTimer int

	PlayerX        uint64
	PlayerVelocity uint64
	RoadOffset     uint64
	SignOffset     uint64
	Multiplier     uint64

	RefillAgeMS    int64 // Time since the last ammo refill, at snapshot time
	SlowdownLeftMS int64
	ElapsedMS      int64
	ExplosionCount int

	// Each enemy is 4 values: X, Y, Speed (float bits) and Color
	EnemyData []uint64
	// Each bullet is 2 values: X, Y
	BulletData []uint64
	// Each power-up is 3 values: X, Y, Type
	PowerUpData []uint64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	now := g.clock.Now()
	if g.paused {
		now = g.pausedAt
	}

	enemyData := make([]uint64, 0, len(g.enemies)*4)
	for _, e := range g.enemies {
		enemyData = append(enemyData,
			math.Float64bits(e.X),
			math.Float64bits(e.Y),
			math.Float64bits(e.Speed),
			uint64(e.Color),
		)
	}

	bulletData := make([]uint64, 0, len(g.bullets)*2)
	for _, b := range g.bullets {
		bulletData = append(bulletData, math.Float64bits(b.X), math.Float64bits(b.Y))
	}

	powerUpData := make([]uint64, 0, len(g.powerUps)*3)
	for _, p := range g.powerUps {
		powerUpData = append(powerUpData,
			math.Float64bits(p.X),
			math.Float64bits(p.Y),
			uint64(p.Type), //#nosec G115 -- type is a small non-negative enum
		)
	}

	return Snapshot{
		Tick:       g.tick,
		Phase:      string(g.phase),
		Paused:     g.paused,
		Score:      g.score,
		Ammo:       g.ammo,
		SpawnTimer: g.spawnTimer,

		PlayerX:        math.Float64bits(g.player.X),
		PlayerVelocity: math.Float64bits(g.player.Velocity),
		RoadOffset:     math.Float64bits(g.roadOffset),
		SignOffset:     math.Float64bits(g.signOffset),
		Multiplier:     math.Float64bits(g.multiplier),

		RefillAgeMS:    now.Sub(g.lastRefill).Milliseconds(),
		SlowdownLeftMS: g.slowdownRemaining().Milliseconds(),
		ElapsedMS:      now.Sub(g.startedAt).Milliseconds(),
		ExplosionCount: len(g.explosions),

		EnemyData:   enemyData,
		BulletData:  bulletData,
		PowerUpData: powerUpData,
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	for _, r := range snap.Phase {
		h = h*31 + uint64(r) //#nosec G115 -- hash computation
	}
	if snap.Paused {
		h = h*31 + 1
	}
	h = h*31 + uint64(snap.Score)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Ammo)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SpawnTimer) //#nosec G115 -- hash computation

	h = h*31 + snap.PlayerX
	h = h*31 + snap.PlayerVelocity
	h = h*31 + snap.RoadOffset
	h = h*31 + snap.SignOffset
	h = h*31 + snap.Multiplier

	h = h*31 + uint64(snap.RefillAgeMS)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SlowdownLeftMS) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ElapsedMS)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ExplosionCount) //#nosec G115 -- hash computation

	for _, v := range snap.EnemyData {
		h = h*31 + v
	}
	for _, v := range snap.BulletData {
		h = h*31 + v
	}
	for _, v := range snap.PowerUpData {
		h = h*31 + v
	}

	return h
}
