package tictactoe

import (
	"fmt"

	"github.com/vovakirdan/flappy-planes/internal/core"
)

const (
	cellWidth  = 6 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
)

// Render draws the board centered on the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	boardW := BoardSize*cellWidth + 1
	boardH := BoardSize*cellHeight + 1
	boardX := (dst.Width() - boardW) / 2
	boardY := (dst.Height() - boardH) / 2

	dst.DrawTextCentered(core.Max(0, boardY-3), "TIC-TAC-TOE")
	dst.DrawTextCentered(core.Max(0, boardY-2), g.status())

	g.renderGrid(dst, boardX, boardY)

	for row := range BoardSize {
		for col := range BoardSize {
			g.renderCell(dst, boardX, boardY, col, row)
		}
	}

	dst.DrawTextCentered(boardY+boardH+1, "Arrows/WASD move  Enter place  R restart  Q quit")
}

func (g *Game) status() string {
	switch g.outcome {
	case XWins:
		return fmt.Sprintf("%s Wins!", g.symbols.X)
	case OWins:
		return fmt.Sprintf("%s Wins!", g.symbols.O)
	case Draw:
		return "Draw!"
	}
	return fmt.Sprintf("%s to move", g.symbol(g.Current()))
}

func (g *Game) symbol(m Mark) string {
	switch m {
	case MarkX:
		return g.symbols.X
	case MarkO:
		return g.symbols.O
	}
	return ""
}

func (g *Game) renderGrid(dst *core.Screen, x0, y0 int) {
	w := BoardSize*cellWidth + 1
	for i := 0; i <= BoardSize; i++ {
		dst.DrawHLine(x0, y0+i*cellHeight, w, '─', core.ColorGray)
		dst.DrawVLine(x0+i*cellWidth, y0, BoardSize*cellHeight+1, '│', core.ColorGray)
	}
	for i := 0; i <= BoardSize; i++ {
		for j := 0; j <= BoardSize; j++ {
			dst.SetColored(x0+i*cellWidth, y0+j*cellHeight, '┼', core.ColorGray)
		}
	}
}

func (g *Game) renderCell(dst *core.Screen, x0, y0, col, row int) {
	idx := Index(col, row)
	m := g.board[idx]

	color := core.ColorDefault
	switch m {
	case MarkX:
		color = core.ColorCyan
	case MarkO:
		color = core.ColorYellow
	}
	if g.outcome == XWins || g.outcome == OWins {
		for _, i := range g.line {
			if i == idx {
				color = core.ColorBrightGreen
			}
		}
	}

	text := []rune(g.symbol(m))
	if len(text) > cellWidth-3 {
		text = text[:cellWidth-3]
	}

	cx := x0 + col*cellWidth + 1
	cy := y0 + row*cellHeight + 1
	if col == g.cursorX && row == g.cursorY && g.outcome == InProgress {
		dst.SetColored(cx, cy, '[', core.ColorWhite)
		dst.SetColored(cx+cellWidth-2, cy, ']', core.ColorWhite)
	}
	pad := (cellWidth - 1 - len(text)) / 2
	dst.DrawTextColored(cx+pad, cy, string(text), color)
}
