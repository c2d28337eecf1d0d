package core

import "github.com/jonboulle/clockwork"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay

	// Clock is the time source for wall-clock timers. Nil means real time.
	Clock clockwork.Clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// ClockOrReal returns the configured clock, falling back to the real clock.
func (c RuntimeConfig) ClockOrReal() clockwork.Clock {
	if c.Clock == nil {
		return clockwork.NewRealClock()
	}
	return c.Clock
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
	Started  bool // Whether the run has left the start screen
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Score bool // Score changed during this tick
}

// RunStats summarizes a finished run for persistence.
type RunStats struct {
	Score      int   `json:"score"`
	Kills      int   `json:"kills"`       // Enemies destroyed by bullets
	Dodged     int   `json:"dodged"`      // Enemies that left the bottom edge
	Shots      int   `json:"shots"`       // Bullets fired
	Pickups    int   `json:"pickups"`     // Power-ups collected
	DurationMS int64 `json:"duration_ms"` // Run time, excluding pauses
	Seed       int64 `json:"seed"`
}

// ScoreSink receives the formatted score line whenever it changes.
// The platform implements it to show the score outside the playfield.
type ScoreSink interface {
	SetScoreText(text string)
}
