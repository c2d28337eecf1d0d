package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// Rows loaded per view.
const (
	maxScores = 100
	maxRuns   = 50
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewTopScores boardView = iota
	viewRecentRuns
)

func (v boardView) String() string {
	if v == viewRecentRuns {
		return "Recent Runs"
	}
	return "Top Scores"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PrevGame   key.Binding
	NextGame   key.Binding
	SwitchView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.NextGame, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.PrevGame, k.NextGame, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevGame:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev game")),
		NextGame:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next game")),
		SwitchView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores/runs")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// boardStyles are built per renderer, like the menu's, so remote sessions
// get their own color profile. They cover the table and help widgets too.
type boardStyles struct {
	title  lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	frame  lipgloss.Style
	empty  lipgloss.Style
	stats  lipgloss.Style
	help   lipgloss.Style

	table   table.Styles
	helpKey help.Styles
}

var defaultBoardStyles = newBoardStyles(nil)

// newBoardStyles builds scoreboard styles for r. A nil renderer means local
// stdout.
func newBoardStyles(r *lipgloss.Renderer) *boardStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	key := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})
	desc := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"})
	sep := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"})

	return &boardStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		tab:    r.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		active: r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		frame:  r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		empty:  r.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 4),
		stats:  r.NewStyle().Foreground(lipgloss.Color("245")),
		help:   r.NewStyle().Foreground(lipgloss.Color("241")),

		table: table.Styles{
			Header: r.NewStyle().
				Bold(true).
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				BorderBottom(true),
			Cell: r.NewStyle().Padding(0, 1),
			Selected: r.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")),
		},
		helpKey: help.Styles{
			Ellipsis:       sep,
			ShortKey:       key,
			ShortDesc:      desc,
			ShortSeparator: sep,
			FullKey:        key,
			FullDesc:       desc,
			FullSeparator:  sep,
		},
	}
}

// ScoreboardModel shows the best scores or the latest runs of one game at
// a time, with aggregate stats below the table.
type ScoreboardModel struct {
	games  []registry.GameInfo
	game   int
	view   boardView
	store  *storage.Store
	scores []storage.ScoreEntry
	runs   []storage.RunEntry
	stats  *storage.GameStats
	err    error // Last storage error, shown instead of the table

	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	styles *boardStyles
	width  int
	height int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard for every registered game.
// store may be nil, in which case every table is empty.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		styles: defaultBoardStyles,
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.help.Styles = m.styles.helpKey
	m.reload()
	return m
}

// WithRenderer styles the scoreboard for r, the renderer of a remote session.
func (m ScoreboardModel) WithRenderer(r *lipgloss.Renderer) ScoreboardModel {
	m.styles = newBoardStyles(r)
	m.help.Styles = m.styles.helpKey
	m.table.SetStyles(m.styles.table)
	return m
}

// gameID returns the selected game, or "" when nothing is registered.
func (m *ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.game].ID
}

// reload fetches the selected game's data and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.runs, m.stats, m.err = nil, nil, nil, nil

	if id := m.gameID(); id != "" && m.store != nil {
		switch m.view {
		case viewTopScores:
			m.scores, m.err = m.store.TopScores(id, maxScores)
		case viewRecentRuns:
			m.runs, m.err = m.store.RecentRuns(id, maxRuns)
		}
		if m.err == nil {
			m.stats, m.err = m.store.GetGameStats(id)
		}
	}

	m.table = m.buildTable()
}

// buildTable lays out columns for the current view and fills the rows.
func (m *ScoreboardModel) buildTable() table.Model {
	var (
		columns []table.Column
		rows    []table.Row
	)

	switch m.view {
	case viewTopScores:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 16},
		}
		for i, s := range m.scores {
			rows = append(rows, table.Row{
				"#" + strconv.Itoa(i+1),
				strconv.Itoa(s.Score),
				s.CreatedAt.Local().Format("Jan 02 15:04"),
			})
		}

	case viewRecentRuns:
		columns = []table.Column{
			{Title: "Score", Width: 8},
			{Title: "Kills", Width: 6},
			{Title: "Dodged", Width: 7},
			{Title: "Time", Width: 8},
			{Title: "Date", Width: 14},
		}
		for _, r := range m.runs {
			rows = append(rows, table.Row{
				strconv.Itoa(r.Stats.Score),
				strconv.Itoa(r.Stats.Kills),
				strconv.Itoa(r.Stats.Dodged),
				formatRunTime(r.Stats.DurationMS),
				r.CreatedAt.Local().Format("Jan 02 15:04"),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)), // Title, tabs, frame, stats and help
	)

	t.SetStyles(m.styles.table)

	return t
}

// formatRunTime renders a run duration as m:ss.
func formatRunTime(ms int64) string {
	d := (time.Duration(ms) * time.Millisecond).Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.SwitchView):
			m.view = 1 - m.view
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.NextGame), key.Matches(msg, m.keys.PrevGame):
			if n := len(m.games); n > 1 {
				step := 1
				if key.Matches(msg, m.keys.PrevGame) {
					step = n - 1
				}
				m.game = (m.game + step) % n
				m.reload()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.buildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if len(m.games) > 0 {
		title += " - " + m.games[m.game].Title
	}

	sections := []string{
		"",
		centerText(m.styles.title.Render(title), m.width),
		"",
	}
	if len(m.games) > 1 {
		sections = append(sections, centerText(m.gameTabs(), m.width))
	}
	sections = append(sections,
		centerText(m.viewTabs(), m.width),
		centerText(m.styles.frame.Render(m.body()), m.width),
	)
	if line := m.statsLine(); line != "" {
		sections = append(sections, centerText(m.styles.stats.Render(line), m.width))
	}
	sections = append(sections, "", m.styles.help.Render(m.help.View(m.keys)))

	return strings.Join(sections, "\n")
}

func (m ScoreboardModel) gameTabs() string {
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		style := m.styles.tab
		if i == m.game {
			style = m.styles.active
		}
		tabs[i] = style.Render(g.Title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ScoreboardModel) viewTabs() string {
	var tabs []string
	for _, v := range []boardView{viewTopScores, viewRecentRuns} {
		style := m.styles.tab
		if v == m.view {
			style = m.styles.active
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// body returns the table, or a message when there is nothing to list.
func (m ScoreboardModel) body() string {
	switch {
	case m.store == nil:
		return m.styles.empty.Render("Scores are not being saved.")
	case m.err != nil:
		return m.styles.empty.Render("Could not load scores: " + m.err.Error())
	case len(m.table.Rows()) == 0:
		return m.styles.empty.Render("No runs recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// statsLine summarizes recorded runs for the selected game.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.RunsCount == 0 {
		return ""
	}
	return fmt.Sprintf("%d runs  ·  best %d  ·  avg %.0f  ·  %d cars destroyed  ·  %d dodged  ·  longest %s",
		m.stats.RunsCount,
		m.stats.HighScore,
		m.stats.AvgScore,
		m.stats.TotalKills,
		m.stats.TotalDodged,
		formatRunTime(m.stats.LongestMS),
	)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	finalModel, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
