package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// sessionScreen is the part of the session currently receiving input.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenScoreboard
	screenGame
	screenDone
)

// SessionModel drives one remote player through menu, scoreboard and games
// inside a single Bubble Tea program. Child models signal their exits with
// tea.Quit; the session swallows those and switches screens instead.
type SessionModel struct {
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	renderer   *lipgloss.Renderer // Nil renders for local stdout
	difficulty string             // Last preset picked in the menu

	screen     sessionScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	game       Model
}

// NewSessionModel starts a session on the menu.
func NewSessionModel(store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		logger: logger,
		config: cfg,
		menu:   NewMenuModel(store, cfg),
	}
}

// WithRenderer draws every screen of the session through r, the renderer
// bound to the client's terminal.
func (m SessionModel) WithRenderer(r *lipgloss.Renderer) SessionModel {
	m.renderer = r
	m.menu = m.menu.WithRenderer(r)
	return m
}

func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track the size for screens created later; the active child also sees it
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW, m.config.ScreenH = ws.Width, ws.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenDone:
		return m, nil
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		return m.end()
	case m.menu.WantsScoreboard():
		m.screen = screenScoreboard
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH).WithRenderer(m.renderer)
		return m, m.scoreboard.Init()
	case m.menu.Selected() != nil:
		return m.startGame(m.menu.Selected().GameID)
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	switch {
	case m.scoreboard.IsQuitting():
		return m.end()
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	switch {
	case m.game.BackToMenu():
		return m.toMenu()
	case m.game.IsQuitting():
		return m.end()
	}
	return m, cmd
}

// startGame creates a fresh game instance with the menu's difficulty.
func (m SessionModel) startGame(gameID string) (tea.Model, tea.Cmd) {
	m.difficulty = m.menu.Difficulty()

	game, err := registry.Create(gameID)
	if err != nil {
		m.logger.Error("cannot create game", "game", gameID, "error", err)
		return m.toMenu()
	}
	if ds, ok := game.(registry.DifficultySetter); ok {
		ds.SetDifficulty(m.difficulty)
	}

	cfg := m.config
	cfg.Seed = time.Now().UnixNano()
	m.game = NewModel(game, m.store, m.logger, cfg)
	m.game.embedded = true
	m.game.palette = newPalette(m.renderer)
	m.screen = screenGame
	m.logger.Debug("game started", "game", gameID, "difficulty", m.difficulty)

	return m, m.game.Init()
}

// toMenu rebuilds the menu so high scores and size are current.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.config).WithDifficulty(m.difficulty).WithRenderer(m.renderer)
	return m, m.menu.Init()
}

func (m SessionModel) end() (tea.Model, tea.Cmd) {
	m.screen = screenDone
	return m, tea.Quit
}

func (m SessionModel) View() string {
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenDone:
		return ""
	default:
		return m.menu.View()
	}
}
