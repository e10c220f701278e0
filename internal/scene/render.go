package scene

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/jam-starter/internal/core"
	"github.com/vovakirdan/jam-starter/internal/entity"
)

// Visual characters for rendering
const (
	PlayerChar = '█'
	DeadChar   = 'x'
	EnemyChar  = '▓'
	DyingChar  = '*'
	SwingChar  = '─'
	GroundChar = '═'
	FillChar   = '░'
	LifeChar   = '♥'
)

// Render draws the current scene to the screen.
func (s *MainScene) Render(dst *core.Screen) {
	dst.Clear()
	if s.player == nil {
		return
	}

	if s.player.Platformer() {
		s.drawGround(dst)
	}

	if s.spawner != nil {
		for _, e := range s.spawner.Active() {
			drawEnemy(dst, e)
		}
	}
	s.drawPlayer(dst)
	s.drawHUD(dst)

	switch {
	case s.state.GameOver():
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  Best: %d  |  Press R to restart", s.state.Score(), s.state.HighScore()))
	case s.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

func (s *MainScene) drawGround(dst *core.Screen) {
	y := s.field.Bottom()
	dst.DrawHLine(0, y, dst.Width(), GroundChar, core.ColorGreen)
	for row := y + 1; row < dst.Height(); row++ {
		dst.DrawHLine(0, row, dst.Width(), FillChar, core.ColorGray)
	}
}

func (s *MainScene) drawPlayer(dst *core.Screen) {
	p := s.player
	switch {
	case p.Dead():
		dst.DrawRect(p.Rect(), DeadChar, core.ColorGray)
		return
	case p.Invulnerable() && (s.state.Ticks()/4)%2 == 1:
		// blink while invulnerable
	default:
		dst.DrawRect(p.Rect(), PlayerChar, core.ColorCyan)
	}
	if p.Attacking() {
		dst.DrawRect(p.Attack.Area, SwingChar, core.ColorYellow)
	}
}

func drawEnemy(dst *core.Screen, e *entity.Enemy) {
	if !e.Visible {
		return
	}
	if e.Killed() {
		dst.DrawRect(e.Rect(), DyingChar, core.ColorOrange)
		return
	}
	dst.DrawRect(e.Rect(), EnemyChar, core.ColorRed)
}

func (s *MainScene) drawHUD(dst *core.Screen) {
	if s.cfg.World.HUDRows <= 0 {
		return
	}
	lives := strings.Repeat(string(LifeChar), max(s.state.Lives(), 0))
	dst.DrawTextColor(1, 0, fmt.Sprintf("Score: %d", s.state.Score()), core.ColorWhite)
	dst.DrawTextColor(14, 0, fmt.Sprintf("Best: %d", s.state.HighScore()), core.ColorYellow)
	dst.DrawTextColor(27, 0, lives, core.ColorRed)

	if s.spawner != nil {
		st := s.spawner.Stats()
		pool := fmt.Sprintf("Enemies %d/%d", st.Active, st.Total)
		if st.Dropped > 0 {
			pool += fmt.Sprintf(" (-%d)", st.Dropped)
		}
		dst.DrawTextColor(dst.Width()-len(pool)-1, 0, pool, core.ColorGray)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	box := core.NewRect(boxX, boxY, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box)

	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
