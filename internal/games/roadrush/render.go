package roadrush

import (
	"fmt"
	"math"

	"github.com/vovakirdan/roadrush/internal/core"
)

// Display characters
const (
	GrassChar     = '░'
	EdgeChar      = '│'
	DashChar      = '╎'
	SignChar      = '¥'
	BusChar       = '█'
	CarChar       = '▓'
	BulletChar    = '|'
	ExplosionChar = '*'
)

// viewport maps world units onto screen cells.
type viewport struct {
	sx, sy float64
}

func (g *Game) viewport(dst *core.Screen) viewport {
	return viewport{
		sx: float64(dst.Width()) / g.cfg.World.Width,
		sy: float64(dst.Height()) / g.cfg.World.Height,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return int(math.Floor(y * v.sy))
}

// rect converts a world-space rectangle to cells, never smaller than 1x1.
func (v viewport) rect(x, y, w, h float64) core.Rect {
	return core.NewRect(v.col(x), v.row(y), max(1, int(math.Round(w*v.sx))), max(1, int(math.Round(h*v.sy))))
}

// worldY returns the world y at the middle of a screen row.
func (v viewport) worldY(row int) float64 {
	return (float64(row) + 0.5) / v.sy
}

// Render draws the current game state to the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	vp := g.viewport(dst)

	g.renderRoad(dst, vp)
	g.renderPowerUps(dst, vp)
	g.renderEnemies(dst, vp)
	g.renderBullets(dst, vp)
	g.renderExplosions(dst, vp)
	g.renderPlayer(dst, vp)
	g.renderHUD(dst)
	g.renderOverlay(dst)
}

// renderRoad draws grass, road edges, lane dashes and roadside signs.
func (g *Game) renderRoad(dst *core.Screen, vp viewport) {
	w := g.cfg.World
	rc := g.cfg.Road

	leftEdge := vp.col(w.RoadMargin)
	rightEdge := vp.col(w.Width - w.RoadMargin)
	laneWidth := (w.Width - 2*w.RoadMargin) / laneCount

	for y := range dst.Height() {
		for x := 0; x < leftEdge; x++ {
			dst.SetColored(x, y, GrassChar, core.ColorGreen)
		}
		for x := rightEdge + 1; x < dst.Width(); x++ {
			dst.SetColored(x, y, GrassChar, core.ColorGreen)
		}
		dst.SetColored(leftEdge, y, EdgeChar, core.ColorWhite)
		dst.SetColored(rightEdge, y, EdgeChar, core.ColorWhite)

		// Dashes occupy the first half of every period, moving down with the road
		phase := math.Mod(vp.worldY(y)-g.roadOffset+rc.DashPeriod*4, rc.DashPeriod)
		if phase < rc.DashPeriod/2 {
			for lane := 1; lane < laneCount; lane++ {
				dst.SetColored(vp.col(w.RoadMargin+laneWidth*float64(lane)), y, DashChar, core.ColorYellow)
			}
		}
	}

	// Sign posts on both verges, one per period
	for sy := g.signOffset - rc.SignPeriod; sy < w.Height; sy += rc.SignPeriod {
		row := vp.row(sy)
		dst.SetColored(vp.col(w.RoadMargin/2), row, SignChar, core.ColorBrightWhite)
		dst.SetColored(vp.col(w.Width-w.RoadMargin/2), row, SignChar, core.ColorBrightWhite)
	}
}

func (g *Game) renderPlayer(dst *core.Screen, vp viewport) {
	pc := g.cfg.Player
	dst.DrawRectColored(vp.rect(g.player.X, g.player.Y, pc.Width, pc.Height), BusChar, core.ColorBrightYellow)
}

func (g *Game) renderEnemies(dst *core.Screen, vp viewport) {
	ec := g.cfg.Enemies
	for _, e := range g.enemies {
		dst.DrawRectColored(vp.rect(e.X, e.Y, ec.Width, ec.Height), CarChar, e.Color)
	}
}

func (g *Game) renderBullets(dst *core.Screen, vp viewport) {
	for _, b := range g.bullets {
		dst.SetColored(vp.col(b.X), vp.row(b.Y), BulletChar, core.ColorBrightYellow)
	}
}

func (g *Game) renderPowerUps(dst *core.Screen, vp viewport) {
	for _, p := range g.powerUps {
		color := core.ColorBrightCyan
		if p.Type == PowerUpAmmo {
			color = core.ColorBrightGreen
		}
		dst.SetColored(vp.col(p.X), vp.row(p.Y), p.Type.Glyph(), color)
	}
}

func (g *Game) renderExplosions(dst *core.Screen, vp viewport) {
	for _, e := range g.explosions {
		x, y := vp.col(e.X), vp.row(e.Y)
		dst.SetColored(x, y, ExplosionChar, core.ColorOrange)
		dst.SetColored(x-1, y, ExplosionChar, core.ColorBrightRed)
		dst.SetColored(x+1, y, ExplosionChar, core.ColorBrightRed)
	}
}

// renderHUD draws ammo, the difficulty multiplier (marked at its cap) and
// the slowdown timer.
// The score itself goes to the score sink.
func (g *Game) renderHUD(dst *core.Screen) {
	if g.phase == PhaseNotStarted {
		return
	}

	ammoColor := core.ColorWhite
	if g.ammo == 0 {
		ammoColor = core.ColorBrightRed
	}
	dst.DrawTextColored(1, 0, fmt.Sprintf("Ammo: %d/%d", g.ammo, g.cfg.Ammo.Max), ammoColor)

	var right string
	switch {
	case !g.difficulty.IsEnabled():
		right = "FIXED"
	case g.multiplier >= g.difficulty.Cap():
		right = fmt.Sprintf("x%.2f MAX", g.multiplier)
	default:
		right = fmt.Sprintf("x%.2f", g.multiplier)
	}
	if rem := g.slowdownRemaining(); rem > 0 {
		right = fmt.Sprintf("SLOW %.1fs  %s", rem.Seconds(), right)
	}
	dst.DrawTextColored(dst.Width()-len(right)-1, 0, right, core.ColorBrightCyan)
}

// renderOverlay draws start, pause and game over messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch {
	case g.phase == PhaseNotStarted:
		g.drawCenteredBox(dst, "ROAD RUSH", "Press any key to start", "←/→ steer  SPACE shoot  P pause")
	case g.phase == PhaseGameOver:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.score)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)
	case g.paused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")
	}
}

// drawCenteredBox draws a centered message box with a title and lines below it.
func (g *Game) drawCenteredBox(dst *core.Screen, title string, lines ...string) {
	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := 3 + 2*len(lines)
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightWhite)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+2*i, l)
	}
}
