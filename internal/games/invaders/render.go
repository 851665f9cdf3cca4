package invaders

import (
	"fmt"
	"math"
	"strings"

	"github.com/vkazanov/retrocade/internal/core"
)

// Formation sprites, two animation frames per enemy type.
var enemySprites = map[int][2]string{
	1: {`/MM\`, `\MM/`},
	2: {`>WW<`, `<WW>`},
	3: {`{@@}`, `(@@)`},
}

// Single-row ship and saucer sprites.
const (
	playerSprite = "▄█▲█▄"
	ufoSprite    = "<[OO]>"
)

// enemyColor maps an enemy type to its display and burst color.
func enemyColor(t int) core.Color {
	switch t {
	case 1:
		return core.ColorBrightMagenta
	case 2:
		return core.ColorBrightCyan
	default:
		return core.ColorBrightGreen
	}
}

// formatPoints renders a bonus value for the floating popup.
func formatPoints(points int) string {
	return fmt.Sprintf("+%d", points)
}

// viewport projects field coordinates onto the cell grid, carrying the
// current shake displacement. The HUD draws outside the viewport so it
// never shakes.
type viewport struct {
	sx, sy     float64
	offX, offY int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	v := viewport{
		sx: float64(dst.Width()) / FieldWidth,
		sy: float64(dst.Height()) / FieldHeight,
	}
	shakeX, shakeY := g.shake.Offset()
	v.offX = int(math.Round(shakeX * v.sx * 4))
	v.offY = int(math.Round(shakeY * v.sy * 4))
	return v
}

// pos maps a field point to a cell.
func (v viewport) pos(x, y float64) (int, int) {
	return int(x*v.sx) + v.offX, int(y*v.sy) + v.offY
}

// Render draws the battlefield, feedback layers and HUD into dst. The
// buffer arrives pre-cleared.
func (g *Game) Render(dst *core.Screen) {
	v := g.viewport(dst)

	for _, s := range g.shields {
		drawShield(dst, v, s)
	}
	for _, e := range g.waves.Enemies() {
		drawEnemy(dst, v, e, g.animFrame)
	}
	if g.ufo != nil {
		drawUFO(dst, v, g.ufo)
	}
	for _, b := range g.bullets {
		drawBullet(dst, v, b)
	}
	if g.player != nil {
		drawPlayer(dst, v, g.player)
	}
	drawParticles(dst, v, g.particles)
	for _, p := range g.popups {
		x, y := v.pos(p.x, p.y)
		dst.DrawTextColored(x-len(p.text)/2, y, p.text, core.ColorBrightYellow)
	}

	g.drawHUD(dst)

	switch {
	case g.paused:
		drawMessageBox(dst, "PAUSED", "Press P to resume")
	case g.state == stateGameOver:
		drawMessageBox(dst, "GAME OVER",
			fmt.Sprintf("Score %d   High %d", g.score, g.highScore),
			"Press R to restart")
	case g.state == stateWaveComplete:
		drawMessageBox(dst, fmt.Sprintf("WAVE %d CLEARED", g.waves.Number()),
			fmt.Sprintf("+%d bonus", WaveClearBonus))
	case g.state == stateRespawning:
		// Blink while the next ship is on its way.
		if int(g.stateTimer*4)%2 == 0 {
			dst.DrawTextCenteredColored(dst.Height()/2, "GET READY", core.ColorBrightYellow)
		}
	}
}

// drawPlayer renders the ship sprite centered on its position.
func drawPlayer(dst *core.Screen, v viewport, p *Player) {
	drawSpriteCentered(dst, v, p.X+p.W/2, p.Y+p.H/2, playerSprite, core.ColorBrightGreen)
}

// drawEnemy renders one formation member in its current animation frame.
func drawEnemy(dst *core.Screen, v viewport, e *Enemy, frame int) {
	drawSpriteCentered(dst, v, e.X+e.W/2, e.Y+e.H/2, enemySprites[e.Type][frame], enemyColor(e.Type))
}

// drawUFO renders the bonus saucer.
func drawUFO(dst *core.Screen, v viewport, u *UFO) {
	drawSpriteCentered(dst, v, u.X+u.W/2, u.Y+u.H/2, ufoSprite, core.ColorBrightRed)
}

// drawSpriteCentered places a one-row sprite centered on a field point.
func drawSpriteCentered(dst *core.Screen, v viewport, fx, fy float64, sprite string, c core.Color) {
	cx, cy := v.pos(fx, fy)
	runes := []rune(sprite)
	dst.DrawTextColored(cx-len(runes)/2, cy, sprite, c)
}

// drawBullet renders a bullet and its fading trail.
func drawBullet(dst *core.Screen, v viewport, b *Bullet) {
	for _, tp := range b.Trail {
		x, y := v.pos(tp.X, tp.Y)
		dst.SetCell(x, y, '·', core.ColorGray)
	}

	x, y := v.pos(b.X+b.W/2, b.Y+b.H/2)
	if b.IsEnemy {
		dst.SetCell(x, y, '╏', core.ColorBrightRed)
	} else {
		dst.SetCell(x, y, '│', core.ColorBrightYellow)
	}
}

// drawShield renders a barrier's damage mask. Mask cells bucket into
// character cells; the glyph density follows the intact fraction.
func drawShield(dst *core.Screen, v viewport, s *Shield) {
	cols, rows := s.MaskSize()

	type bucket struct{ intact, total int }
	buckets := make(map[[2]int]bucket)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			lx := s.X + (float64(col)+0.5)*ShieldSegmentSize
			ly := s.Y + (float64(row)+0.5)*ShieldSegmentSize
			cx, cy := v.pos(lx, ly)
			b := buckets[[2]int{cx, cy}]
			b.total++
			if !s.DestroyedAt(col, row) {
				b.intact++
			}
			buckets[[2]int{cx, cy}] = b
		}
	}

	for cell, b := range buckets {
		frac := float64(b.intact) / float64(b.total)
		var r rune
		switch {
		case frac > 0.75:
			r = '█'
		case frac > 0.5:
			r = '▓'
		case frac > 0.25:
			r = '▒'
		case frac > 0:
			r = '░'
		default:
			continue
		}
		dst.SetCell(cell[0], cell[1], r, core.ColorGreen)
	}
}

// drawParticles renders the particle pool, glyph by remaining alpha.
func drawParticles(dst *core.Screen, v viewport, ps *ParticleSystem) {
	for _, p := range ps.Particles() {
		x, y := v.pos(p.X, p.Y)
		var r rune
		switch {
		case p.Alpha > 0.66:
			r = '*'
		case p.Alpha > 0.33:
			r = '+'
		default:
			r = '·'
		}
		dst.SetCell(x, y, r, p.Color)
	}
}

// drawHUD renders the status row, pinned to the top and exempt from shake.
func (g *Game) drawHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" SCORE %06d   HI %06d   WAVE %d ", g.score, g.highScore, g.waves.Number())
	dst.DrawTextColored(1, 0, hud, core.ColorBrightWhite)

	lives := core.Max(g.lives, 0)
	hearts := strings.Repeat("♥", lives)
	dst.DrawTextColored(dst.Width()-lives-2, 0, hearts, core.ColorBrightRed)
}

// drawMessageBox draws a centered bordered box with one line per message.
func drawMessageBox(dst *core.Screen, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > boxW {
			boxW = n
		}
	}
	boxW += 4
	boxH := len(lines)*2 + 1
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	for i, line := range lines {
		x := boxX + (boxW-len([]rune(line)))/2
		dst.DrawText(x, boxY+1+i*2, line)
	}
}
