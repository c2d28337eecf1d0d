package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/roadrush/internal/core"
)

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColored(0, 0, "██", core.ColorYellow)
	s.DrawText(3, 1, "ok")

	// Tests run without a terminal, so no escape codes are emitted
	out := RenderScreen(s)
	if out != "██    \n   ok " {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func TestPaletteColorsRuns(t *testing.T) {
	r := lipgloss.NewRenderer(&strings.Builder{})
	r.SetColorProfile(termenv.ANSI256)
	p := newPalette(r)

	s := core.NewScreen(4, 1)
	s.DrawTextColored(0, 0, "▓▓", core.ColorRed)
	out := p.screen(s)

	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape codes, got %q", out)
	}
	if !strings.Contains(out, "▓▓") {
		t.Errorf("same-colored cells should render as one run: %q", out)
	}
	if got := p.cell(core.Color(200)); got.GetForeground() != p.cells[core.ColorDefault].GetForeground() {
		t.Error("unknown colors should fall back to the default style")
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar("$NIL: 120", "p pause", 40)
	if lipgloss.Width(bar) != 40 {
		t.Errorf("status bar width = %d, expected 40", lipgloss.Width(bar))
	}
	if !strings.Contains(bar, "$NIL: 120") || !strings.Contains(bar, "p pause") {
		t.Errorf("status bar missing content: %q", bar)
	}

	// Narrow terminals drop the hint before the score
	narrow := RenderStatusBar("$NIL: 120", "a very long hint that cannot fit", 14)
	if !strings.Contains(narrow, "$NIL: 120") {
		t.Errorf("score should survive truncation: %q", narrow)
	}
}

func TestTruncate(t *testing.T) {
	if truncate("←/→ steer", 3) != "←/→" {
		t.Error("truncate should count runes")
	}
	if truncate("ok", 5) != "ok" {
		t.Error("short strings are unchanged")
	}
}
