package planes

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
)

// Visual characters for rendering
const (
	PlaneBodyChar = '═'
	PlaneNoseChar = '▶'
	PlaneTailChar = '◣'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
)

// FormatSeconds renders a duration the way the scoreboard shows times.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}

// viewport maps canvas coordinates onto screen cells.
type viewport struct {
	sx, sy float64
}

func newViewport(cfg config.PlanesConfig, dst *core.Screen) viewport {
	return viewport{
		sx: float64(dst.Width()) / cfg.Canvas.Width,
		sy: float64(dst.Height()) / cfg.Canvas.Height,
	}
}

func (v viewport) row(y float64) int { return int(math.Floor(y * v.sy)) }

// span returns the half-open cell range covering [a, a+length), at least one cell wide.
func span(a, length, scale float64) (int, int) {
	start := int(math.Floor(a * scale))
	end := int(math.Ceil((a + length) * scale))
	if end <= start {
		end = start + 1
	}
	return start, end
}

// Render draws a snapshot scaled to fit the screen. It reads nothing but
// its arguments, so any frame can be redrawn from a stored snapshot.
func Render(s Snapshot, cfg config.PlanesConfig, dst *core.Screen) {
	dst.Clear()
	v := newViewport(cfg, dst)

	for _, p := range s.Pipes {
		drawPipe(dst, v, p, s.PipeWidth)
	}
	drawPlane(dst, v, s.Plane, s.Phase == Over)

	hud := fmt.Sprintf(" Time: %ss  Pipes: %d ", FormatSeconds(s.Survival), s.Passed)
	dst.DrawTextColored(2, 0, hud, core.ColorWhite)

	switch {
	case s.Phase == NotStarted:
		dst.DrawMessageBox("FLAPPY PLANES", "", "Jump to take off")
	case s.Paused:
		dst.DrawMessageBox("PAUSED", "Press P to resume")
	case s.Phase == Over:
		dst.DrawMessageBox("GAME OVER", fmt.Sprintf("You survived %s seconds", FormatSeconds(s.Survival)))
	}
}

func drawPipe(dst *core.Screen, v viewport, p Pipe, width float64) {
	x0, x1 := span(p.X, width, v.sx)
	topEnd := v.row(p.TopHeight)
	bottomStart := v.row(p.BottomY)

	for x := x0; x < x1; x++ {
		for y := 0; y < topEnd; y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if topEnd > 0 {
			dst.SetColored(x, topEnd-1, PipeCapTop, core.ColorBrightGreen)
		}
		for y := bottomStart; y < dst.Height(); y++ {
			dst.SetColored(x, y, PipeChar, core.ColorGreen)
		}
		if bottomStart < dst.Height() {
			dst.SetColored(x, bottomStart, PipeCapBottom, core.ColorBrightGreen)
		}
	}
}

func drawPlane(dst *core.Screen, v viewport, p Plane, crashed bool) {
	x0, x1 := span(p.X, p.Width, v.sx)
	y0, y1 := span(p.Y, p.Height, v.sy)

	color := core.ColorBrightBlue
	if crashed {
		color = core.ColorRed
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r := PlaneBodyChar
			switch {
			case x == x1-1:
				r = PlaneNoseChar
			case x == x0 && x1-x0 > 2:
				r = PlaneTailChar
			}
			dst.SetColored(x, y, r, color)
		}
	}
}
