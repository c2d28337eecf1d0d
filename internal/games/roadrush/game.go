// Package roadrush implements Road Rush, a top-down driving game.
// The player steers a bus up a scrolling road, dodging or shooting the race
// cars that fall toward it and collecting ammo and slowdown power-ups.
//
// All positions are in world units on a fixed playfield; Render scales the
// world to whatever terminal size the platform provides. Every timer runs on
// the injected clock so tests can drive time explicitly.
package roadrush

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/registry"
)

// GameID is the registry identifier and score-table key.
const GameID = "roadrush"

// Phase is the run's position in the not-started -> running -> game-over cycle.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseRunning    Phase = "running"
	PhaseGameOver   Phase = "game_over"
)

// Game implements the Road Rush simulation.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.RoadRushConfig
	fixedCfg   *config.RoadRushConfig  // Set by NewWithConfig; skips file loading
	preset     config.DifficultyPreset // Overrides the package preset when set
	difficulty *config.DifficultyManager
	clock      clockwork.Clock
	rng        RNG
	sink       core.ScoreSink

	phase    Phase
	paused   bool
	pausedAt time.Time

	player     Player
	enemies    []Enemy
	bullets    []Bullet
	powerUps   []PowerUp
	explosions []Explosion

	score       int
	ammo        int
	startedAt   time.Time // Shifted forward by pauses
	lastRefill  time.Time
	slowdownEnd time.Time
	endedAt     time.Time
	spawnTimer  int
	roadOffset  float64
	signOffset  float64
	multiplier  float64
	tick        uint64

	scoreDirty bool
	stats      core.RunStats
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// New creates a new Road Rush game instance.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game that always uses cfg instead of loading files.
func NewWithConfig(cfg config.RoadRushConfig) *Game {
	return &Game{fixedCfg: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Road Rush"
}

// SetDifficulty selects a preset for this instance only. Unknown names
// clear the override.
func (g *Game) SetDifficulty(preset string) {
	g.preset = config.ParsePreset(preset)
}

// SetScoreSink registers the collaborator that shows the score text.
func (g *Game) SetScoreSink(sink core.ScoreSink) {
	g.sink = sink
	g.publishScore(true)
}

// Reset initializes the game and returns it to the start screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg = g.loadConfig()
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.clock = runtime.ClockOrReal()
	g.rng = newRNG(runtime.Seed)

	g.resetRun(g.clock.Now())
	g.phase = PhaseNotStarted
	g.publishScore(true)
}

func (g *Game) loadConfig() config.RoadRushConfig {
	if g.fixedCfg != nil {
		cfg := *g.fixedCfg
		if g.preset != "" {
			config.ApplyPreset(&cfg, g.preset)
		}
		return cfg
	}

	cfg, err := config.LoadRoadRush(configPath)
	if err != nil {
		cfg = config.DefaultRoadRushConfig()
	}

	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// Restart begins a fresh run immediately, skipping the start screen.
func (g *Game) Restart() {
	g.resetRun(g.clock.Now())
	g.phase = PhaseRunning
	g.publishScore(true)
}

// resetRun returns every piece of run state to its initial value.
func (g *Game) resetRun(now time.Time) {
	w := g.cfg.World
	g.player = Player{
		X: w.Width/2 - g.cfg.Player.StartX,
		Y: w.Height - g.cfg.Player.StartY,
	}
	g.enemies = g.enemies[:0]
	g.bullets = g.bullets[:0]
	g.powerUps = g.powerUps[:0]
	g.explosions = g.explosions[:0]

	g.score = 0
	g.ammo = g.cfg.Ammo.Max
	g.startedAt = now
	g.lastRefill = now
	g.slowdownEnd = time.Time{}
	g.endedAt = time.Time{}
	g.spawnTimer = 0
	g.roadOffset = 0
	g.signOffset = 0
	g.multiplier = g.difficulty.Multiplier(0, 0)
	g.tick = 0
	g.paused = false
	g.pausedAt = time.Time{}
	g.scoreDirty = false
	g.stats = core.RunStats{Seed: g.runtime.Seed}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	now := g.clock.Now()
	g.scoreDirty = false

	switch g.phase {
	case PhaseNotStarted:
		if in.Any() {
			g.resetRun(now)
			g.phase = PhaseRunning
		}
		return g.result()
	case PhaseGameOver:
		if in.Has(core.ActionRestart) {
			g.Restart()
		}
		return g.result()
	}

	if in.Has(core.ActionPause) {
		g.togglePause(now)
	}
	if g.paused {
		return g.result()
	}

	g.tick++
	g.expireTimers(now)

	elapsed := now.Sub(g.startedAt)
	g.multiplier = g.difficulty.Multiplier(elapsed, g.score)
	slow := g.SlowdownActive()

	g.scrollRoad(slow)
	g.steer(in)
	if in.Has(core.ActionFire) {
		g.shoot()
	}

	g.spawnTimer++
	if g.spawnTimer >= g.cfg.Spawn.Interval(elapsed) {
		g.spawnEnemy()
		g.spawnTimer = 0
	}

	if g.updateEnemies(slow) {
		g.phase = PhaseGameOver
		g.endedAt = now
		g.publishScore(false)
		return g.result()
	}

	g.updateBullets(now)
	g.updatePowerUps(now)
	g.expireExplosions(now)

	if g.rng.Float64() < g.cfg.PowerUps.SpawnChance {
		g.spawnPowerUp()
	}

	g.publishScore(false)
	return g.result()
}

// togglePause pauses or resumes the run. Resuming shifts every wall-clock
// deadline by the paused duration so pauses cost nothing.
func (g *Game) togglePause(now time.Time) {
	if !g.paused {
		g.paused = true
		g.pausedAt = now
		return
	}

	g.paused = false
	d := now.Sub(g.pausedAt)
	g.startedAt = g.startedAt.Add(d)
	g.lastRefill = g.lastRefill.Add(d)
	if g.slowdownEnd.After(g.pausedAt) {
		g.slowdownEnd = g.slowdownEnd.Add(d)
	}
	for i := range g.explosions {
		g.explosions[i].Until = g.explosions[i].Until.Add(d)
	}
}

// expireTimers applies the ammo starvation penalty.
func (g *Game) expireTimers(now time.Time) {
	window := time.Duration(g.cfg.Ammo.ExpiryMS) * time.Millisecond
	if now.Sub(g.lastRefill) > window {
		g.ammo = 0
	}
}

func (g *Game) expireExplosions(now time.Time) {
	kept := g.explosions[:0]
	for _, e := range g.explosions {
		if now.Before(e.Until) {
			kept = append(kept, e)
		}
	}
	g.explosions = kept
}

// SlowdownActive reports whether the slowdown power-up is in effect.
func (g *Game) SlowdownActive() bool {
	return g.clock.Now().Before(g.slowdownEnd)
}

// slowdownRemaining returns how long the slowdown effect still lasts.
func (g *Game) slowdownRemaining() time.Duration {
	now := g.clock.Now()
	if g.paused {
		now = g.pausedAt
	}
	if !now.Before(g.slowdownEnd) {
		return 0
	}
	return g.slowdownEnd.Sub(now)
}

func (g *Game) addScore(points int) {
	if points == 0 {
		return
	}
	g.score += points
	g.scoreDirty = true
}

// ScoreText is the formatted score line shown to the player.
func (g *Game) ScoreText() string {
	return fmt.Sprintf("%s: %d", g.cfg.HUD.ScoreLabel, g.score)
}

// publishScore pushes the score text to the sink when it changed this tick.
// force is used after resets so the display never shows a stale run.
func (g *Game) publishScore(force bool) {
	if g.sink == nil {
		return
	}
	if force || g.scoreDirty {
		g.sink.SetScoreText(g.ScoreText())
	}
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Score: g.scoreDirty}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == PhaseGameOver,
		Paused:   g.paused,
		Started:  g.phase != PhaseNotStarted,
	}
}

// Phase returns the run phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// RunStats summarizes the current or last run.
func (g *Game) RunStats() core.RunStats {
	stats := g.stats
	stats.Score = g.score

	end := g.clock.Now()
	switch {
	case g.phase == PhaseGameOver:
		end = g.endedAt
	case g.paused:
		end = g.pausedAt
	}
	if g.phase != PhaseNotStarted {
		stats.DurationMS = end.Sub(g.startedAt).Milliseconds()
	}
	return stats
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
