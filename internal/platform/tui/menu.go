package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/roadrush/internal/config"
	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID    string
	Title     string
	HighScore int // Best stored score, 0 without storage
}

// menuStyles are built per renderer so each SSH session gets the color
// profile of its own terminal.
type menuStyles struct {
	title  lipgloss.Style
	cursor lipgloss.Style
	dim    lipgloss.Style
	value  lipgloss.Style
}

var defaultMenuStyles = newMenuStyles(nil)

// newMenuStyles builds menu styles for r. A nil renderer means local stdout.
func newMenuStyles(r *lipgloss.Renderer) *menuStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &menuStyles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(0, 2),
		cursor: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("241")),
		value:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

// MenuModel is the Bubble Tea model for the game picker. Left and right
// cycle the difficulty preset used for the selected game.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	presets   []config.DifficultyPreset
	preset    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	styles    *menuStyles

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a menu listing every registered game with its best
// stored score. store may be nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i] = MenuItem{GameID: g.ID, Title: g.Title}
		if store == nil {
			continue
		}
		if high, err := store.HighScore(g.ID); err == nil {
			items[i].HighScore = high
		}
	}

	return MenuModel{
		items:     items,
		presets:   config.Presets(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		styles:    defaultMenuStyles,
	}
}

// WithRenderer styles the menu for r, the renderer of a remote session.
func (m MenuModel) WithRenderer(r *lipgloss.Renderer) MenuModel {
	m.styles = newMenuStyles(r)
	return m
}

// WithDifficulty preselects a preset. Unknown names keep the default.
func (m MenuModel) WithDifficulty(preset string) MenuModel {
	p := config.ParsePreset(preset)
	for i, candidate := range m.presets {
		if candidate == p {
			m.preset = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation. Leaving the menu
// is signalled with tea.Quit; the caller inspects the final model.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)

	case MenuActionDown:
		m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))

	case MenuActionLeft:
		m.preset = (m.preset + len(m.presets) - 1) % len(m.presets)

	case MenuActionRight:
		m.preset = (m.preset + 1) % len(m.presets)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		m.styles.title.Render("R O A D   R U S H"),
		"",
		"Dodge the traffic, shoot what you can't dodge",
		"",
	}

	for i, item := range m.items {
		line := "  " + item.Title
		if item.HighScore > 0 {
			line += m.styles.dim.Render(fmt.Sprintf("  (best %d)", item.HighScore))
		}
		if i == m.cursor {
			line = m.styles.cursor.Render("> "+item.Title) + strings.TrimPrefix(line, "  "+item.Title)
		}
		lines = append(lines, line)
	}

	preset := m.presets[m.preset]
	lines = append(lines,
		"",
		"Difficulty  "+m.styles.value.Render("< "+string(preset)+" >"),
		m.styles.dim.Render(preset.Description()),
		"",
		m.styles.dim.Render("↑/↓ choose  ·  ←/→ difficulty  ·  enter play  ·  tab scores  ·  q quit"),
	)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Difficulty returns the chosen preset name.
func (m MenuModel) Difficulty() string {
	return string(m.presets[m.preset])
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within width, measuring styled text by its
// printable width. Multi-line text is centered as a block.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	pad := strings.Repeat(" ", (width-w)/2)
	return pad + strings.ReplaceAll(text, "\n", "\n"+pad)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Difficulty      string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu as its own program and reports what was chosen.
// difficulty preselects a preset and may be empty.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, difficulty string) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg).WithDifficulty(difficulty), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config(), Difficulty: m.Difficulty()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
