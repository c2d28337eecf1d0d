// Package registry maps game IDs to factories. Game packages register in
// init(), so commands and the SSH server only need a blank import.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/roadrush/internal/core"
)

// Game is the contract between a game's pure simulation and the platform.
// Implementations never touch the terminal: the platform owns input mapping,
// frame timing and drawing to the real screen.
type Game interface {
	// ID is the stable key used on the command line and in score storage.
	ID() string
	// Title is the display name.
	Title() string

	// Reset starts a fresh run. It is called before the first Step and
	// again on every restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the actions held this frame.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared buffer.
	Render(dst *core.Screen)

	State() core.GameState
}

// ScoreSinkSetter is implemented by games that publish score text to a
// collaborator instead of drawing it in the playfield.
type ScoreSinkSetter interface {
	SetScoreSink(sink core.ScoreSink)
}

// StatsReporter is implemented by games that record per-run statistics.
type StatsReporter interface {
	RunStats() core.RunStats
}

// DifficultySetter is implemented by games that accept a difficulty preset
// per instance. The preset applies from the next Reset.
type DifficultySetter interface {
	SetDifficulty(preset string)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a new, un-reset game instance.
type Factory func() Game

type entry struct {
	factory Factory
	title   string
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a factory under id. The title is read from one throwaway
// instance. Registering the same id twice panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{factory: f, title: f().Title()}
}

// List returns every registered game ordered by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	games := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		games = append(games, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(games, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return games
}

// Create builds a new instance of the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
