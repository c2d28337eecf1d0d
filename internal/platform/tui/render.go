package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/roadrush/internal/core"
)

// ansi256 maps core.Color to an ANSI 256-color code. ColorDefault has none.
var ansi256 = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// palette holds the styles for one output. Each SSH session gets its own,
// so color support is detected from the client's terminal.
type palette struct {
	cells []lipgloss.Style
	score lipgloss.Style
	hint  lipgloss.Style
}

var defaultPalette = newPalette(nil)

// newPalette builds styles for r. A nil renderer means local stdout.
func newPalette(r *lipgloss.Renderer) *palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	p := &palette{cells: make([]lipgloss.Style, len(ansi256))}
	for c, code := range ansi256 {
		style := r.NewStyle()
		if code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		p.cells[c] = style
	}

	p.score = r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	p.hint = r.NewStyle().
		Foreground(lipgloss.Color("245")).
		Background(lipgloss.Color("236"))

	return p
}

func (p *palette) cell(c core.Color) lipgloss.Style {
	if int(c) < len(p.cells) {
		return p.cells[c]
	}
	return p.cells[core.ColorDefault]
}

// screen styles s row by row. Runs of same-colored cells share one escape
// sequence.
func (p *palette) screen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	run := make([]rune, 0, s.Width())
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		run = run[:0]
		color := s.GetCell(0, y).Color
		for x := range s.Width() {
			c := s.GetCell(x, y)
			if c.Color != color {
				sb.WriteString(p.cell(color).Render(string(run)))
				run, color = run[:0], c.Color
			}
			run = append(run, c.Rune)
		}
		if len(run) > 0 {
			sb.WriteString(p.cell(color).Render(string(run)))
		}
	}
	return sb.String()
}

// statusBar draws the score on the left and key hints filling the rest of
// the width.
func (p *palette) statusBar(score, hint string, width int) string {
	left := p.score.Render(score)
	rest := max(width-lipgloss.Width(left), 0)

	right := p.hint.
		Width(rest).
		Align(lipgloss.Right).
		MaxHeight(1).
		Render(truncate(hint, max(rest-1, 0)) + " ")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// RenderScreen converts a Screen buffer to a styled string for local output.
func RenderScreen(s *core.Screen) string {
	return defaultPalette.screen(s)
}

// RenderStatusBar draws the one-line status bar for local output.
func RenderStatusBar(score, hint string, width int) string {
	return defaultPalette.statusBar(score, hint, width)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
