package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/metrics"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// statusLine receives score text from the game. It is shared by pointer so
// copies of the value-receiver Model all see the latest text.
type statusLine struct {
	text string
}

// SetScoreText implements core.ScoreSink.
func (s *statusLine) SetScoreText(text string) {
	s.text = text
}

// Model is the Bubble Tea model for running a single game.
// Inside an SSH session it is embedded, and Back returns to the menu instead
// of quitting the program.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	logger    *log.Logger
	config    core.RuntimeConfig
	clock     clockwork.Clock
	keyMapper *KeyMapper
	held      *HeldKeys
	edges     core.InputFrame // Edge-triggered actions since the last tick
	status    *statusLine
	palette   *palette
	gameState core.GameState

	embedded   bool
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current game over has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	clock := cfg.ClockOrReal()
	cfg.Clock = clock

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		store:     store,
		logger:    logger,
		config:    cfg,
		clock:     clock,
		keyMapper: NewKeyMapper(),
		held:      NewHeldKeys(DefaultInitialHold, DefaultHoldTimeout),
		edges:     core.NewInputFrame(),
		status:    &statusLine{},
		palette:   defaultPalette,
	}
}

// playfieldHeight reserves the bottom row for the status bar.
func playfieldHeight(screenH int) int {
	return max(screenH-1, 0)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if s, ok := m.game.(registry.ScoreSinkSetter); ok {
		s.SetScoreSink(m.status)
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case action == core.ActionBack:
		// Leaving mid-run would throw the run away, so only between runs
		if m.gameState.GameOver || m.gameState.Paused || !m.gameState.Started {
			if m.embedded {
				m.backToMenu = true
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		}
	case IsHeld(action):
		m.held.Press(action, m.clock.Now())
	default:
		m.edges.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
// The world is resolution independent, so the run continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	frame := m.edges.Clone()
	m.held.Apply(&frame, m.clock.Now())

	start := time.Now()
	result := m.game.Step(frame)
	metrics.RecordTick(time.Since(start))

	m.gameState = result.State
	if m.gameState.GameOver && !m.runSaved {
		m.recordRun()
		m.runSaved = true
	} else if !m.gameState.GameOver {
		m.runSaved = false
	}

	// Clear input for next frame
	m.edges.Clear()

	return m, tickCmd(m.config.TickRate)
}

// recordRun persists and publishes the finished run. Storage failures are
// logged and never interrupt play.
func (m Model) recordRun() {
	stats := core.RunStats{Score: m.gameState.Score, Seed: m.config.Seed}
	if r, ok := m.game.(registry.StatsReporter); ok {
		stats = r.RunStats()
	}

	metrics.RecordRun(m.game.ID(), stats)

	if m.store == nil {
		return
	}
	if _, err := m.store.SaveRun(m.game.ID(), stats); err != nil && m.logger != nil {
		m.logger.Warn("could not save run", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".roadrush", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return m.palette.screen(m.screen) + "\n" + m.palette.statusBar(m.status.text, m.hint(), m.config.ScreenW)
}

// hint returns the key help shown on the right of the status bar.
func (m Model) hint() string {
	back := "q quit"
	if m.embedded {
		back = "esc menu"
	}
	switch {
	case m.gameState.GameOver:
		return "r restart · " + back
	case m.gameState.Paused:
		return "p resume · " + back
	default:
		return "←/→ steer · space shoot · p pause"
	}
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// ScoreText returns the last score line published by the game.
func (m Model) ScoreText() string {
	return m.status.text
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, logger, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
