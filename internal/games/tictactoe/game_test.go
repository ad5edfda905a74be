package tictactoe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
)

func play(t *testing.T, g *Game, cells ...int) {
	t.Helper()
	for _, c := range cells {
		require.True(t, g.Play(c), "move %d rejected", c)
	}
}

func TestXMovesFirstAndTurnsAlternate(t *testing.T) {
	g := New()
	assert.Equal(t, MarkX, g.Current())

	play(t, g, 4)
	assert.Equal(t, MarkO, g.Current())
	play(t, g, 0)
	assert.Equal(t, MarkX, g.Current())

	b := g.Board()
	assert.Equal(t, MarkX, b[4])
	assert.Equal(t, MarkO, b[0])
}

func TestOccupiedCellRejected(t *testing.T) {
	g := New()
	play(t, g, 4)
	assert.False(t, g.Play(4))
	assert.False(t, g.Play(9))
	assert.False(t, g.Play(-1))
	assert.Equal(t, MarkO, g.Current(), "rejected move keeps the turn")
}

func TestEveryWinningLine(t *testing.T) {
	for _, line := range WinningLines {
		var b Board
		for _, i := range line {
			b[i] = MarkO
		}
		got, ok := b.Wins(MarkO)
		assert.True(t, ok, "line %v", line)
		assert.Equal(t, line, got)
		_, ok = b.Wins(MarkX)
		assert.False(t, ok)
	}
}

func TestXWins(t *testing.T) {
	g := New()
	// X: 0 1 2, O: 3 4
	play(t, g, 0, 3, 1, 4, 2)

	assert.Equal(t, XWins, g.Outcome())
	assert.False(t, g.Play(5), "no moves after the game ends")
	assert.True(t, g.State().GameOver)
}

func TestOWinsOnDiagonal(t *testing.T) {
	g := New()
	// X: 0 1 5, O: 2 4 6
	play(t, g, 0, 2, 1, 4, 5, 6)
	assert.Equal(t, OWins, g.Outcome())
}

func TestDraw(t *testing.T) {
	g := New()
	// X O X / X O O / O X X
	play(t, g, 0, 1, 2, 4, 3, 5, 7, 6, 8)
	assert.Equal(t, Draw, g.Outcome())
}

func TestWinOnLastCellIsNotDraw(t *testing.T) {
	g := New()
	// X O X / O X O / O X X: X completes the diagonal with the ninth mark
	play(t, g, 0, 1, 2, 3, 4, 5, 7, 6, 8)
	assert.Equal(t, XWins, g.Outcome())
}

func TestStepCursorAndPlace(t *testing.T) {
	g := New()
	g.Reset(core.DefaultConfig())

	step := func(a core.Action) core.StepResult {
		in := core.NewInputFrame()
		in.Set(a)
		return g.Step(in, 0)
	}

	step(core.ActionUp)
	step(core.ActionUp) // clamped at the top row
	step(core.ActionLeft)
	step(core.ActionConfirm)
	assert.Equal(t, MarkX, g.Board()[0])

	step(core.ActionRight)
	step(core.ActionJump)
	assert.Equal(t, MarkO, g.Board()[1])

	step(core.ActionDown)
	step(core.ActionLeft)
	step(core.ActionConfirm) // X at 3
	step(core.ActionRight)
	step(core.ActionConfirm) // O at 4
	step(core.ActionDown)
	step(core.ActionLeft)
	res := step(core.ActionConfirm) // X at 6 completes the column

	assert.True(t, res.Finished)
	assert.Equal(t, XWins, g.Outcome())

	res = step(core.ActionRestart)
	assert.False(t, res.Finished)
	assert.Equal(t, InProgress, g.Outcome())
	assert.Equal(t, Board{}, g.Board())
}

func TestSetSymbols(t *testing.T) {
	g := New()
	play(t, g, 4)

	assert.False(t, g.SetSymbols("", "O"))
	assert.False(t, g.SetSymbols("A", "A"))
	assert.Equal(t, MarkX, g.Board()[4], "rejected change keeps the game")

	require.True(t, g.SetSymbols("🛩", "☁"))
	assert.Equal(t, Board{}, g.Board(), "changing symbols restarts")

	play(t, g, 0, 3, 1, 4, 2)
	screen := core.NewScreen(60, 20)
	g.Render(screen)
	assert.Contains(t, screen.String(), "🛩 Wins!")
}

func TestConfigSymbolsApplyOnReset(t *testing.T) {
	SetConfig(config.TicTacToeConfig{Symbols: config.TicTacToeSymbols{X: "#", O: "@"}})
	t.Cleanup(func() { SetConfig(config.DefaultTicTacToeConfig()) })

	g := New()
	play(t, g, 0)
	screen := core.NewScreen(60, 20)
	g.Render(screen)

	out := screen.String()
	assert.Contains(t, out, "@ to move")
	assert.Contains(t, out, "#")
}

func TestRenderShowsCursorAndStatus(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 60, ScreenH: 20})
	screen := core.NewScreen(60, 20)
	g.Render(screen)

	out := screen.String()
	assert.Contains(t, out, "TIC-TAC-TOE")
	assert.Contains(t, out, "X to move")
	assert.True(t, strings.Contains(out, "[") && strings.Contains(out, "]"))

	play(t, g, 0, 1, 2, 4, 3, 5, 7, 6, 8)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Draw!")
}
