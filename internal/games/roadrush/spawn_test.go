package roadrush

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/roadrush/internal/core"
)

// scriptedRNG replays fixed values, then falls back to the defaults.
type scriptedRNG struct {
	floats []float64
	ints   []int
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func TestLaneCenters(t *testing.T) {
	g, _ := newTestGame(t, 1)

	lanes := g.laneCenters()
	want := [laneCount]float64{100, 200, 300}
	if lanes != want {
		t.Errorf("laneCenters() = %v, expected %v", lanes, want)
	}
}

func TestSpawnEnemyPlacement(t *testing.T) {
	tests := []struct {
		name   string
		lane   int
		jitter float64
		speed  float64
		wantX  float64
		wantV  float64
	}{
		{"middle lane no jitter", 1, 0.5, 0.5, 200, 5.3},
		{"left lane full left jitter", 0, 0, 0, 85, 4},
		{"right lane full right jitter", 2, 1, 1, 315, 6.6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGame(t, 1)
			g.rng = &scriptedRNG{
				ints:   []int{tc.lane, 2},
				floats: []float64{tc.jitter, tc.speed},
			}

			if !g.spawnEnemy() {
				t.Fatal("spawn on an empty road should succeed")
			}
			e := g.enemies[0]
			if e.X != tc.wantX {
				t.Errorf("x = %v, expected %v", e.X, tc.wantX)
			}
			if e.Y != -50 {
				t.Errorf("y = %v, expected -50", e.Y)
			}
			if diff := e.Speed - tc.wantV; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("speed = %v, expected %v", e.Speed, tc.wantV)
			}
			if e.Color != core.VehiclePalette[2] {
				t.Errorf("color = %v, expected palette entry 2", e.Color)
			}
		})
	}
}

func TestSpawnEnemyClamped(t *testing.T) {
	g, _ := newTestGame(t, 1)
	g.cfg.Enemies.LaneJitter = 200
	g.rng = &scriptedRNG{ints: []int{0}, floats: []float64{0}}

	g.spawnEnemy()
	if g.enemies[0].X != 60 {
		t.Errorf("x = %v, expected clamp to 60", g.enemies[0].X)
	}
}

func TestSpawnEnemyGap(t *testing.T) {
	tests := []struct {
		name     string
		existing float64
		allowed  bool
	}{
		{"on spawn row", -50, false},
		{"just inside gap", 49, false},
		{"at gap", 50, true},
		{"above spawn row inside gap", -149, false},
		{"far down the road", 300, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, _ := newTestGame(t, 1)
			g.enemies = []Enemy{{X: 100, Y: tc.existing}}

			if got := g.spawnEnemy(); got != tc.allowed {
				t.Errorf("spawnEnemy() = %v, expected %v", got, tc.allowed)
			}
			if !tc.allowed && len(g.enemies) != 1 {
				t.Error("rejected spawn should not add a car")
			}
		})
	}
}

func TestSpawnNeverCrowds(t *testing.T) {
	g, _ := newTestGame(t, 99)
	r := rand.New(rand.NewSource(7)) //nolint:gosec // test randomness

	for range 2000 {
		for i := range g.enemies {
			g.enemies[i].Y += r.Float64() * 30
		}
		if !g.spawnEnemy() {
			continue
		}

		spawned := g.enemies[len(g.enemies)-1]
		for _, e := range g.enemies[:len(g.enemies)-1] {
			if core.AbsF(e.Y-spawned.Y) < 100 {
				t.Fatalf("spawned at y=%v within 100 of a car at y=%v", spawned.Y, e.Y)
			}
		}
	}
}

func TestSpawnPowerUp(t *testing.T) {
	tests := []struct {
		roll float64
		want PowerUpType
	}{
		{0.3, PowerUpAmmo},
		{0.5, PowerUpSlowdown},
		{0.7, PowerUpSlowdown},
	}

	for _, tc := range tests {
		t.Run(tc.want.String(), func(t *testing.T) {
			g, _ := newTestGame(t, 1)
			g.rng = &scriptedRNG{ints: []int{2}, floats: []float64{tc.roll}}

			g.spawnPowerUp()
			p := g.powerUps[0]
			if p.Type != tc.want {
				t.Errorf("type = %v, expected %v", p.Type, tc.want)
			}
			if p.X != 300 || p.Y != -30 {
				t.Errorf("power-up at (%v, %v), expected (300, -30)", p.X, p.Y)
			}
		})
	}
}

func TestSpawnCadence(t *testing.T) {
	g, _ := newTestGame(t, 1)
	g.cfg.PowerUps.SpawnChance = 0
	g.rng = &scriptedRNG{}
	startRun(t, g)

	for range 44 {
		g.Step(core.NewInputFrame())
	}
	if len(g.enemies) != 0 {
		t.Fatalf("no car should spawn before the 45th tick, got %d", len(g.enemies))
	}

	g.Step(core.NewInputFrame())
	if len(g.enemies) != 1 {
		t.Errorf("a car should spawn on the 45th tick, got %d", len(g.enemies))
	}
}
