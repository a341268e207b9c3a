package ecuations

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// Visual characters for rendering
const (
	CharBody      = '█'
	CharWeapon    = '═'
	CharPlatform  = '▀'
	CharGround    = '▔'
	CharSpike     = '▲'
	CharBrute     = '▓'
	CharCoin      = '$'
	CharBullet    = '•'
	CharExplosion = '*'
	CharFlag      = '▶'
	CharPole      = '│'
	CharHelper    = 'G'
)

// terminal cells are about twice as tall as they are wide
const cellAspect = 2.0

// viewport maps world coordinates to screen cells below the HUD row.
type viewport struct {
	camX   float64
	sx, sy float64 // world units per column / row
	top    int
	rows   int
}

func newViewport(dst *core.Screen, worldH, camX float64) viewport {
	rows := max(dst.Height()-2, 1)
	sy := worldH / float64(rows)
	return viewport{camX: camX, sx: sy / cellAspect, sy: sy, top: 1, rows: rows}
}

func (v viewport) col(x float64) int {
	return int(math.Floor((x - v.camX) / v.sx))
}

func (v viewport) row(y float64) int {
	return v.top + int(math.Floor(y/v.sy))
}

// rect converts a world box to at least one screen cell.
func (v viewport) rect(b core.Box) core.Rect {
	x0, y0 := v.col(b.X), v.row(b.Y)
	x1, y1 := v.col(b.Right()), v.row(b.Bottom())
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

// Render draws the world, the HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		msg := "Could not start mission"
		if g.err != nil {
			msg = g.err.Error()
		}
		drawCenteredMessage(dst, "ERROR", msg)
		return
	}
	renderSession(dst, g.session)
}

func renderSession(dst *core.Screen, s *Session) {
	w := s.World()
	cfg := s.cfg
	v := newViewport(dst, cfg.World.Height, w.Camera(cfg.World.CameraLead))

	// Ground
	dst.DrawHLine(0, v.row(cfg.World.Baseline()), dst.Width(), CharGround, core.ColorGreen)

	for _, p := range w.Platforms {
		// Only the drawn width is scaled; collision uses the real width.
		box := p.Box()
		box.W *= max(cfg.World.PlatformVisualScale, 1)
		r := v.rect(box)
		dst.DrawHLine(r.X, r.Y, r.W, CharPlatform, core.ColorYellow)
	}

	drawFlag(dst, v, s.rules.FlagBox())

	for _, c := range w.Collectibles {
		drawCollectible(dst, v, c)
	}

	for _, e := range w.Enemies {
		if e.Life != EnemyAlive {
			continue
		}
		glyph, color := CharSpike, core.ColorRed
		if e.Type == EnemyMoving {
			glyph, color = CharBrute, core.ColorMagenta
		}
		dst.DrawRect(v.rect(e.Box()), glyph, color)
	}

	for _, b := range w.Bullets {
		dst.SetColored(v.col(b.X), v.row(b.Y), CharBullet, core.ColorBrightYellow)
	}

	for _, e := range w.Explosions {
		half := e.Size / 2
		r := v.rect(core.NewBox(e.X-half, e.Y-half, e.Size, e.Size))
		for y := r.Y; y < r.Bottom(); y += 2 {
			for x := r.X + (y % 2); x < r.Right(); x += 2 {
				dst.SetColored(x, y, CharExplosion, core.ColorOrange)
			}
		}
	}

	drawCharacter(dst, v, s)

	if w.Debug {
		drawHitboxes(dst, v, s)
	}

	drawHUD(dst, w)
	drawStepPanel(dst, w)
	drawOverlay(dst, s)
}

func drawFlag(dst *core.Screen, v viewport, flag core.Box) {
	r := v.rect(flag)
	dst.DrawVLine(r.X, r.Y, r.H, CharPole, core.ColorWhite)
	dst.DrawHLine(r.X+1, r.Y, max(r.W/2, 1), CharFlag, core.ColorBrightGreen)
	dst.DrawHLine(r.X+1, r.Y+1, max(r.W/3, 1), CharFlag, core.ColorBrightGreen)
}

func drawCollectible(dst *core.Screen, v viewport, c Collectible) {
	x, y := v.col(c.X), v.row(c.Y)
	switch c.Type {
	case mission.TypeCoin:
		dst.SetColored(x, y, CharCoin, core.ColorBrightYellow)
	case mission.TypeSpecial:
		dst.DrawTextColored(x, y, c.Label(), core.ColorBrightMagenta)
	case mission.TypeAmmo:
		dst.DrawTextColored(x, y, c.Label(), core.ColorOrange)
	case mission.TypePearl:
		dst.DrawTextColored(x, y, c.Label(), core.ColorBrightCyan)
	default:
		dst.DrawTextColored(x, y, c.Label(), core.ColorBrightGreen)
	}
}

func drawCharacter(dst *core.Screen, v viewport, s *Session) {
	w := s.World()
	c := w.Character
	// blink while invulnerable
	if w.State.IsInvulnerable && (s.sched.Now()/(150*time.Millisecond))%2 == 1 {
		return
	}
	cfg := s.cfg.Character
	sprite := core.NewBox(c.X, c.Y-cfg.Height, cfg.Width, cfg.Height)
	r := v.rect(sprite)
	dst.DrawRect(r, CharBody, core.ColorBrightCyan)

	mx, my, dir := s.rules.Muzzle(Character{X: c.X, Y: c.Y, Direction: c.Direction})
	row := v.row(my)
	if dir > 0 {
		dst.DrawHLine(r.Right(), row, max(v.col(mx)-r.Right()+1, 1), CharWeapon, core.ColorWhite)
	} else {
		x := v.col(mx)
		dst.DrawHLine(x, row, max(r.X-x, 1), CharWeapon, core.ColorWhite)
	}

	if w.State.HelperActive {
		dst.SetColored(r.X-2, r.Y, CharHelper, core.ColorBrightGreen)
	}
}

func drawHitboxes(dst *core.Screen, v viewport, s *Session) {
	w := s.World()
	dst.DrawBox(v.rect(s.rules.CharacterBox(w.Character)), core.ColorGray)
	for _, e := range w.Enemies {
		if e.Life == EnemyAlive {
			dst.DrawBox(v.rect(e.Box()), core.ColorGray)
		}
	}
	for _, c := range w.Collectibles {
		dst.DrawBox(v.rect(c.Box()), core.ColorGray)
	}
	for _, p := range w.Platforms {
		dst.DrawBox(v.rect(p.Box()), core.ColorGray)
	}
	dst.DrawBox(v.rect(s.rules.FlagBox().Inset(s.cfg.Goal.Pad, 0)), core.ColorGray)

	c := w.Character
	info := fmt.Sprintf(" x=%.0f y=%.1f vx=%.0f vy=%.1f grounded=%t ", c.X, c.Y, c.VX, c.VY, c.Grounded)
	dst.DrawTextColored(0, 1, info, core.ColorGray)
}

func drawHUD(dst *core.Screen, w *WorldState) {
	st := w.State
	hud := fmt.Sprintf(" Lives:%d  Coins:%d  Eq:%d  Ammo:%d  Treasures:%d ",
		st.Lives, st.Coins, st.EquationsSolved, st.Ammo, st.Treasures)
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)

	x := len([]rune(hud))
	if st.MusicOn {
		dst.DrawTextColored(x, 0, "♪ ", core.ColorCyan)
		x += 2
	}
	for _, label := range w.Collected {
		if x+len([]rune(label))+1 >= dst.Width() {
			break
		}
		dst.DrawTextColored(x, 0, label, core.ColorGreen)
		x += len([]rune(label)) + 1
	}
}

func drawStepPanel(dst *core.Screen, w *WorldState) {
	y := dst.Height() - 1
	title := fmt.Sprintf(" %s  %s ", w.Mission.Title, w.Mission.Equation)
	step, ok := w.CurrentStep()
	if !ok {
		dst.DrawTextColored(0, y, title, core.ColorGray)
		return
	}
	text := fmt.Sprintf(" Step %d/%d %s: %s ", step.Step, len(w.Mission.Steps), step.Title, step.Expression)
	dst.DrawTextColored(0, y, text, core.ColorBrightMagenta)
}

func drawOverlay(dst *core.Screen, s *Session) {
	w := s.World()
	st := w.State
	switch {
	case st.IsComplete:
		drawCenteredMessage(dst, "MISSION COMPLETE",
			fmt.Sprintf("Coins %d  Lives %d  Ammo %d  Treasures %d  Eq %d",
				st.Coins, st.Lives, st.Ammo, st.Treasures, st.EquationsSolved),
			"R replay  |  Esc missions")
	case w.Locked:
		drawCenteredMessage(dst, "FINISH!", "Mission finished", "Press Enter to continue")
	case st.IsGameOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Coins: %d  |  Press R to restart", st.Coins))
	case st.IsPaused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title string, lines ...string) {
	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := 3 + 2*len(lines)
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	r := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorBrightWhite)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightYellow)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+2*i, l)
	}
}
