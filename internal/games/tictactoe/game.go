// Package tictactoe implements two-player Tic-Tac-Toe on one keyboard.
// X moves first; a mark is placed under the cursor.
package tictactoe

import (
	"sync"
	"time"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// GameID is the registry identifier for Tic-Tac-Toe.
const GameID = "tictactoe"

// Outcome of a finished game.
type Outcome int

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

// Game implements Tic-Tac-Toe.
type Game struct {
	board   Board
	oTurn   bool
	cursorX int
	cursorY int
	outcome Outcome
	line    [3]int // Winning line when outcome is XWins or OWins
	symbols config.TicTacToeSymbols
	moves   int
	screenW int
	screenH int
}

var (
	symbolsMu sync.RWMutex
	symbols   = config.DefaultTicTacToeConfig().Symbols
)

// SetConfig sets the symbols used by games created from now on.
func SetConfig(cfg config.TicTacToeConfig) {
	symbolsMu.Lock()
	defer symbolsMu.Unlock()
	symbols = cfg.Symbols
}

func currentSymbols() config.TicTacToeSymbols {
	symbolsMu.RLock()
	defer symbolsMu.RUnlock()
	return symbols
}

// New creates a new Tic-Tac-Toe game.
func New() *Game {
	g := &Game{symbols: currentSymbols()}
	g.restart()
	return g
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Tic-Tac-Toe"
}

// Reset starts a new game with the current symbols.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.symbols = currentSymbols()
	g.restart()
}

func (g *Game) restart() {
	g.board = Board{}
	g.oTurn = false
	g.cursorX, g.cursorY = 1, 1
	g.outcome = InProgress
	g.line = [3]int{}
	g.moves = 0
}

// SetSymbols changes both marks and restarts the game. Empty or identical
// symbols are rejected.
func (g *Game) SetSymbols(x, o string) bool {
	if x == "" || o == "" || x == o {
		return false
	}
	g.symbols = config.TicTacToeSymbols{X: x, O: o}
	g.restart()
	return true
}

// Current returns the mark of the player to move.
func (g *Game) Current() Mark {
	if g.oTurn {
		return MarkO
	}
	return MarkX
}

// Outcome returns the result so far.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Board returns a copy of the board.
func (g *Game) Board() Board {
	return g.board
}

// Play places the current player's mark at idx. Returns false if the move
// is not allowed.
func (g *Game) Play(idx int) bool {
	if g.outcome != InProgress {
		return false
	}
	m := g.Current()
	if !g.board.Place(idx, m) {
		return false
	}
	g.moves++

	if line, ok := g.board.Wins(m); ok {
		g.line = line
		g.outcome = XWins
		if m == MarkO {
			g.outcome = OWins
		}
		return true
	}
	if g.board.Full() {
		g.outcome = Draw
		return true
	}
	g.oTurn = !g.oTurn
	return true
}

// Step moves the cursor and places marks. Elapsed time is irrelevant to a
// turn-based game.
func (g *Game) Step(in core.InputFrame, _ time.Duration) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}
	if g.outcome != InProgress {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.cursorY = core.Clamp(g.cursorY-1, 0, BoardSize-1)
	case in.Has(core.ActionDown):
		g.cursorY = core.Clamp(g.cursorY+1, 0, BoardSize-1)
	case in.Has(core.ActionLeft):
		g.cursorX = core.Clamp(g.cursorX-1, 0, BoardSize-1)
	case in.Has(core.ActionRight):
		g.cursorX = core.Clamp(g.cursorX+1, 0, BoardSize-1)
	}

	finished := false
	if in.Has(core.ActionConfirm) || in.Has(core.ActionJump) {
		if g.Play(Index(g.cursorX, g.cursorY)) {
			finished = g.outcome != InProgress
		}
	}
	return core.StepResult{State: g.State(), Finished: finished}
}

// State returns the current game state. Score counts placed marks.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.moves,
		Running:  g.outcome == InProgress,
		GameOver: g.outcome != InProgress,
	}
}
