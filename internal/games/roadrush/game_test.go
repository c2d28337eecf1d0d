package roadrush

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/registry"
)

var testEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// newTestGame returns a game on the default tuning with a fake clock.
func newTestGame(t *testing.T, seed int64) (*Game, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testEpoch)
	g := NewWithConfig(config.DefaultRoadRushConfig())
	g.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
		Clock:    clock,
	})
	return g, clock
}

// quiet disables random spawning so tests control every entity.
func quiet(g *Game) {
	g.cfg.Spawn.BaseInterval = 1 << 30
	g.cfg.PowerUps.SpawnChance = 0
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func startRun(t *testing.T, g *Game) {
	t.Helper()
	g.Step(input(core.ActionAny))
	if g.Phase() != PhaseRunning {
		t.Fatalf("expected running after first input, got %s", g.Phase())
	}
}

type recordingSink struct {
	texts []string
}

func (s *recordingSink) SetScoreText(text string) {
	s.texts = append(s.texts, text)
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 900)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch {
		case i == 0:
			inputs[i].Set(core.ActionAny)
		case i%90 < 40:
			inputs[i].Set(core.ActionLeft)
		case i%90 < 80:
			inputs[i].Set(core.ActionRight)
		}
		if i%25 == 0 {
			inputs[i].Set(core.ActionFire)
		}
	}

	run := func() Snapshot {
		g, clock := newTestGame(t, 12345)
		for _, in := range inputs {
			clock.Advance(16 * time.Millisecond)
			if g.Step(in).State.GameOver {
				break
			}
		}
		return g.Snapshot()
	}

	snap1 := run()
	snap2 := run()

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Score != snap2.Score {
		t.Errorf("Determinism failed: scores differ. Run1=%d, Run2=%d", snap1.Score, snap2.Score)
	}
	if snap1.Tick != snap2.Tick {
		t.Errorf("Determinism failed: tick counts differ. Run1=%d, Run2=%d", snap1.Tick, snap2.Tick)
	}
	if len(snap1.EnemyData) != len(snap2.EnemyData) {
		t.Errorf("Determinism failed: enemy counts differ")
	}
}

func TestGameStartGate(t *testing.T) {
	g, clock := newTestGame(t, 1)

	// No input keeps the start screen up
	for range 10 {
		g.Step(core.NewInputFrame())
	}
	if g.Phase() != PhaseNotStarted {
		t.Fatalf("expected not started, got %s", g.Phase())
	}
	if g.State().Started {
		t.Error("State().Started should be false before the first input")
	}

	// The run clock starts with the run, not with Reset
	clock.Advance(30 * time.Second)
	g.Step(input(core.ActionFire))

	if g.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %s", g.Phase())
	}
	snap := g.Snapshot()
	if snap.Tick != 0 {
		t.Errorf("starting step should not advance the simulation, tick=%d", snap.Tick)
	}
	if len(g.bullets) != 0 {
		t.Error("the key that starts the run should not also fire")
	}
	if snap.ElapsedMS != 0 {
		t.Errorf("elapsed should be 0 at start, got %dms", snap.ElapsedMS)
	}
}

func TestGameReset(t *testing.T) {
	g, clock := newTestGame(t, 42)
	startRun(t, g)

	for i := range 200 {
		clock.Advance(16 * time.Millisecond)
		in := core.NewInputFrame()
		if i%3 == 0 {
			in.Set(core.ActionFire)
		}
		g.Step(in)
	}

	g.Reset(core.RuntimeConfig{Seed: 42, Clock: clock})

	if g.score != 0 {
		t.Errorf("Reset should clear score, got %d", g.score)
	}
	if g.Phase() != PhaseNotStarted {
		t.Errorf("Reset should return to the start screen, got %s", g.Phase())
	}
	if g.tick != 0 {
		t.Errorf("Reset should clear tick, got %d", g.tick)
	}
	if g.ammo != g.cfg.Ammo.Max {
		t.Errorf("Reset should refill ammo, got %d", g.ammo)
	}
}

func TestGameRestart(t *testing.T) {
	g, _ := newTestGame(t, 7)
	quiet(g)
	startRun(t, g)

	g.score = 130
	g.ammo = 3
	g.player.X = 90
	g.player.Velocity = -0.8
	g.bullets = append(g.bullets, Bullet{X: 100, Y: 100})
	g.powerUps = append(g.powerUps, PowerUp{X: 100, Y: 100})
	g.enemies = append(g.enemies, Enemy{X: g.player.X, Y: g.player.Y - 20, Speed: 0})
	g.Step(core.NewInputFrame())

	if !g.State().GameOver {
		t.Fatal("expected game over after driving into a car")
	}

	// Only R restarts
	g.Step(input(core.ActionFire, core.ActionLeft, core.ActionAny))
	if !g.State().GameOver {
		t.Fatal("non-restart input should not leave game over")
	}

	g.Step(input(core.ActionRestart))

	if g.Phase() != PhaseRunning {
		t.Fatalf("restart should go straight to running, got %s", g.Phase())
	}
	if g.score != 0 {
		t.Errorf("score = %d, expected 0", g.score)
	}
	if g.ammo != 15 {
		t.Errorf("ammo = %d, expected 15", g.ammo)
	}
	if len(g.enemies)+len(g.bullets)+len(g.powerUps)+len(g.explosions) != 0 {
		t.Error("restart should clear all entity collections")
	}
	if g.player.X != 185 || g.player.Y != 500 {
		t.Errorf("player at (%v, %v), expected (185, 500)", g.player.X, g.player.Y)
	}
	if g.player.Velocity != 0 {
		t.Errorf("velocity = %v, expected 0", g.player.Velocity)
	}
	if stats := g.RunStats(); stats.Kills != 0 || stats.Dodged != 0 {
		t.Errorf("restart should clear run stats, got %+v", stats)
	}
}

func TestGameOverHaltsSimulation(t *testing.T) {
	g, clock := newTestGame(t, 3)
	quiet(g)
	startRun(t, g)

	g.bullets = []Bullet{{X: 300, Y: 300}}
	g.enemies = []Enemy{{X: g.player.X, Y: g.player.Y - 40, Speed: 0}}

	result := g.Step(core.NewInputFrame())
	if !result.State.GameOver {
		t.Fatal("expected game over on overlap")
	}

	// The crash ends the step before bullets move
	if g.bullets[0].Y != 300 {
		t.Errorf("bullet moved to %v after the crash", g.bullets[0].Y)
	}

	before := g.Snapshot()
	for range 100 {
		g.Step(input(core.ActionLeft, core.ActionFire))
	}
	after := g.Snapshot()

	if before.Hash() != after.Hash() {
		t.Error("state changed after game over")
	}

	// Duration is frozen at the crash
	clock.Advance(time.Minute)
	if got := g.RunStats().DurationMS; got != 0 {
		t.Errorf("DurationMS = %d, expected 0 for a crash at the first tick", got)
	}
}

func TestGamePause(t *testing.T) {
	g, clock := newTestGame(t, 9)
	quiet(g)
	startRun(t, g)

	clock.Advance(time.Second)
	g.Step(core.NewInputFrame())
	g.applyPowerUp(PowerUpSlowdown, clock.Now())

	g.Step(input(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	paused := g.Snapshot()

	clock.Advance(10 * time.Second)
	for range 30 {
		g.Step(input(core.ActionRight, core.ActionFire))
	}
	if got := g.Snapshot(); got.Hash() != paused.Hash() {
		t.Error("state changed while paused")
	}

	g.Step(input(core.ActionPause))
	if g.State().Paused {
		t.Fatal("expected resumed")
	}

	snap := g.Snapshot()
	if snap.ElapsedMS != 1000 {
		t.Errorf("elapsed = %dms after resume, expected 1000", snap.ElapsedMS)
	}
	if snap.SlowdownLeftMS != 5000 {
		t.Errorf("slowdown left = %dms, expected the full 5000", snap.SlowdownLeftMS)
	}
	if snap.RefillAgeMS != 1000 {
		t.Errorf("refill age = %dms, expected 1000", snap.RefillAgeMS)
	}
}

func TestScoreSink(t *testing.T) {
	g, _ := newTestGame(t, 5)
	quiet(g)

	sink := &recordingSink{}
	g.SetScoreSink(sink)
	if len(sink.texts) != 1 || sink.texts[0] != "$NIL: 0" {
		t.Fatalf("expected initial score text, got %q", sink.texts)
	}

	startRun(t, g)
	g.Step(core.NewInputFrame())
	if len(sink.texts) != 1 {
		t.Errorf("sink notified without a score change: %q", sink.texts)
	}

	g.enemies = []Enemy{{X: 60, Y: 599, Speed: 4}}
	result := g.Step(core.NewInputFrame())
	if !result.Score {
		t.Error("StepResult.Score should report the change")
	}
	if got := sink.texts[len(sink.texts)-1]; got != "$NIL: 10" {
		t.Errorf("last score text = %q, expected %q", got, "$NIL: 10")
	}
}

func TestAmmoStaysInRange(t *testing.T) {
	g, clock := newTestGame(t, 2024)
	startRun(t, g)

	for i := range 5000 {
		clock.Advance(time.Duration(16+i%40) * time.Millisecond)
		in := input(core.ActionFire)
		if i%100 < 50 {
			in.Set(core.ActionLeft)
		} else {
			in.Set(core.ActionRight)
		}
		if g.Step(in).State.GameOver {
			g.Step(input(core.ActionRestart))
		}

		if g.ammo < 0 || g.ammo > g.cfg.Ammo.Max {
			t.Fatalf("ammo %d out of range at step %d", g.ammo, i)
		}
		if g.multiplier > 3.9 {
			t.Fatalf("multiplier %f exceeds cap at step %d", g.multiplier, i)
		}
	}
}

func TestGameRender(t *testing.T) {
	g, _ := newTestGame(t, 11)
	quiet(g)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "ROAD RUSH") {
		t.Error("start screen should show the title")
	}

	startRun(t, g)
	g.enemies = []Enemy{{X: 200, Y: 100, Speed: 0, Color: core.ColorRed}}
	g.Render(screen)
	out := screen.String()
	if !strings.ContainsRune(out, BusChar) {
		t.Error("bus should be rendered")
	}
	if !strings.ContainsRune(out, CarChar) {
		t.Error("car should be rendered")
	}
	if !strings.Contains(out, "Ammo: 15/15") {
		t.Error("HUD should show ammo")
	}

	g.enemies = []Enemy{{X: g.player.X, Y: g.player.Y, Speed: 0}}
	g.Step(core.NewInputFrame())
	g.Render(screen)
	out = screen.String()
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "Press R to restart") {
		t.Error("game over box should be rendered")
	}

	// Tiny screens must not panic
	g.Render(core.NewScreen(3, 2))
	g.Render(core.NewScreen(0, 0))
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(GameID) {
		t.Fatal("roadrush should be registered")
	}
	g, err := registry.Create(GameID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "roadrush" || g.Title() != "Road Rush" {
		t.Errorf("unexpected identity %q / %q", g.ID(), g.Title())
	}
	if _, ok := g.(registry.ScoreSinkSetter); !ok {
		t.Error("game should accept a score sink")
	}
	if _, ok := g.(registry.StatsReporter); !ok {
		t.Error("game should report run stats")
	}
}

func TestSetDifficulty(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testEpoch)
	g := NewWithConfig(config.DefaultRoadRushConfig())
	g.SetDifficulty("fixed")
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1, Clock: clock})

	if g.cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	quiet(g)
	startRun(t, g)
	clock.Advance(90 * time.Second)
	g.Step(input())
	if g.multiplier != 1 {
		t.Errorf("multiplier = %v, expected 1 without progression", g.multiplier)
	}

	// Unknown names clear the override on the next Reset
	g.SetDifficulty("nightmare")
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1, Clock: clock})
	if !g.cfg.Difficulty.Enabled {
		t.Error("override should be cleared")
	}

	if _, ok := registry.Game(g).(registry.DifficultySetter); !ok {
		t.Error("game should accept a per-instance difficulty")
	}
}

func TestHUDMultiplier(t *testing.T) {
	fixed := config.DefaultRoadRushConfig()
	fixed.Difficulty.Enabled = false

	tests := []struct {
		name   string
		cfg    config.RoadRushConfig
		atCap  bool
		expect string
		absent string
	}{
		{"ramping", config.DefaultRoadRushConfig(), false, "x1.00", "MAX"},
		{"capped", config.DefaultRoadRushConfig(), true, "MAX", "FIXED"},
		{"progression off", fixed, false, "FIXED", "x1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithConfig(tt.cfg)
			g.Reset(core.RuntimeConfig{
				ScreenW:  80,
				ScreenH:  24,
				TickRate: 60,
				Seed:     1,
				Clock:    clockwork.NewFakeClockAt(testEpoch),
			})
			quiet(g)
			startRun(t, g)
			if tt.atCap {
				g.multiplier = g.difficulty.Cap()
			}

			screen := core.NewScreen(80, 24)
			g.Render(screen)
			out := screen.String()
			if !strings.Contains(out, tt.expect) {
				t.Errorf("HUD should contain %q", tt.expect)
			}
			if strings.Contains(out, tt.absent) {
				t.Errorf("HUD should not contain %q", tt.absent)
			}
		})
	}
}
