package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// stubGame ends its run after finishAfter ticks and survives one second
// per tick.
type stubGame struct {
	finishAfter int
	steps       int
	jumps       int
	resets      int
	over        bool
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.over = false
}

func (g *stubGame) Step(in core.InputFrame, _ time.Duration) core.StepResult {
	if g.over {
		return core.StepResult{State: g.State()}
	}
	g.steps++
	if in.Has(core.ActionJump) {
		g.jumps++
	}
	if g.steps >= g.finishAfter {
		g.over = true
		return core.StepResult{State: g.State(), Finished: true}
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState {
	return core.GameState{
		Survival: time.Duration(g.steps) * time.Second,
		Running:  !g.over && g.steps > 0,
		GameOver: g.over,
	}
}

type rankedStub struct{ *stubGame }

func (rankedStub) LeaderboardKey() string { return "stubScores" }
func (rankedStub) LeaderboardSize() int   { return 3 }

func init() {
	registry.Register("tui-stub", func() registry.Game {
		return rankedStub{&stubGame{finishAfter: 2}}
	})
}

func testServices(controls Controls) Services {
	return Services{
		Boards:    leaderboard.NewSet(leaderboard.NewMemoryBackend()),
		Controls:  controls,
		FrameRate: 60,
	}
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func sendTick(t *testing.T, m GameModel, at time.Time) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(TickMsg(at))
	return next.(GameModel), cmd
}

func send(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(GameModel)
}

// runToEnd primes the gate and ticks until the stub finishes.
func runToEnd(t *testing.T, m GameModel, g *stubGame) GameModel {
	t.Helper()
	at := t0
	m, _ = sendTick(t, m, at)
	for !g.over {
		at = at.Add(20 * time.Millisecond)
		m, _ = sendTick(t, m, at)
	}
	return m
}

func newRankedModel(t *testing.T, finishAfter int) (GameModel, *stubGame) {
	t.Helper()
	g := &stubGame{finishAfter: finishAfter}
	m := NewGameModel(rankedStub{g}, testServices(ControlsKeyboard), core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	require.NotNil(t, m.board)
	require.NotNil(t, m.Init())
	return m, g
}

func TestGameModelFirstCallbackPrimesGate(t *testing.T) {
	m, g := newRankedModel(t, 10)

	m, cmd := sendTick(t, m, t0)
	assert.Zero(t, g.steps, "first callback only records the timestamp")
	assert.NotNil(t, cmd)

	// Faster than the frame interval: no tick
	m, _ = sendTick(t, m, t0.Add(5*time.Millisecond))
	assert.Zero(t, g.steps)

	_, cmd = sendTick(t, m, t0.Add(20*time.Millisecond))
	assert.Equal(t, 1, g.steps)
	assert.NotNil(t, cmd)
}

func TestGameModelInputReachesNextTick(t *testing.T) {
	m, g := newRankedModel(t, 10)
	m, _ = sendTick(t, m, t0)

	m = send(t, m, keyMsg(" "))
	m, _ = sendTick(t, m, t0.Add(20*time.Millisecond))
	assert.Equal(t, 1, g.jumps)

	// Input is consumed by the tick
	_, _ = sendTick(t, m, t0.Add(40*time.Millisecond))
	assert.Equal(t, 1, g.jumps)
}

func TestGameModelMouseControls(t *testing.T) {
	g := &stubGame{finishAfter: 10}
	m := NewGameModel(rankedStub{g}, testServices(ControlsMouse), core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	m.Init()
	m, _ = sendTick(t, m, t0)

	m = send(t, m, keyMsg(" "))
	m, _ = sendTick(t, m, t0.Add(20*time.Millisecond))
	assert.Zero(t, g.jumps, "space does not fly under mouse controls")

	m = send(t, m, leftClick())
	_, _ = sendTick(t, m, t0.Add(40*time.Millisecond))
	assert.Equal(t, 1, g.jumps)
}

func TestGameModelFinishedOpensNamePrompt(t *testing.T) {
	m, g := newRankedModel(t, 3)
	m = runToEnd(t, m, g)

	assert.Equal(t, phaseNamePrompt, m.phase)
	assert.True(t, m.nameInput.Focused())
	assert.Contains(t, m.View(), "Name:")
}

func TestGameModelRecordsNamedRun(t *testing.T) {
	m, g := newRankedModel(t, 3)
	m = runToEnd(t, m, g)

	m = send(t, m, keyMsg("Ann"))
	m = send(t, m, keyMsg("enter"))

	assert.Equal(t, phaseOver, m.phase)
	assert.Equal(t, 1, m.Rank())
	assert.Equal(t, []leaderboard.Entry{{Name: "Ann", Time: 3}}, m.board.List())
	assert.Contains(t, m.View(), "Rank #1")
}

func TestGameModelPrefilledName(t *testing.T) {
	m, g := newRankedModel(t, 2)
	m.defaultName = "guest"
	m = runToEnd(t, m, g)

	m = send(t, m, keyMsg("enter"))
	assert.Equal(t, []leaderboard.Entry{{Name: "guest", Time: 2}}, m.board.List())
}

func TestGameModelSkipsRecording(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"empty name", []string{"enter"}},
		{"blank name", []string{"   ", "enter"}},
		{"escape", []string{"Ann", "esc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, g := newRankedModel(t, 2)
			m = runToEnd(t, m, g)

			for _, k := range tt.keys {
				m = send(t, m, keyMsg(k))
			}

			assert.Equal(t, phaseOver, m.phase)
			assert.Empty(t, m.board.List())
			assert.Zero(t, m.Rank())
			assert.Equal(t, "Run not recorded", m.notice)
		})
	}
}

func TestGameModelReportsMissedRank(t *testing.T) {
	m, g := newRankedModel(t, 1)
	for _, name := range []string{"A", "B", "C"} {
		_, err := m.board.Record(name, 50)
		require.NoError(t, err)
	}
	m = runToEnd(t, m, g)

	m = send(t, m, keyMsg("Slow"))
	m = send(t, m, keyMsg("enter"))

	assert.Zero(t, m.Rank())
	assert.Equal(t, "Not fast enough for the top 3", m.notice)
	assert.Len(t, m.board.List(), 3)
}

func TestGameModelStopsTickingAfterRun(t *testing.T) {
	m, g := newRankedModel(t, 2)
	m = runToEnd(t, m, g)
	m = send(t, m, keyMsg("esc"))

	m, cmd := sendTick(t, m, t0.Add(time.Second))
	assert.Nil(t, cmd, "no more frame callbacks once the run is over")
	assert.Equal(t, 2, g.steps)

	// Keys while over do not reach the game
	m = send(t, m, keyMsg(" "))
	assert.Equal(t, phaseOver, m.phase)
}

func TestGameModelRestart(t *testing.T) {
	m, g := newRankedModel(t, 2)
	m = runToEnd(t, m, g)
	m = send(t, m, keyMsg("esc"))
	resets := g.resets

	next, cmd := m.Update(keyMsg("r"))
	m = next.(GameModel)

	assert.NotNil(t, cmd, "restart schedules frame callbacks again")
	assert.Equal(t, phasePlaying, m.phase)
	assert.Equal(t, resets+1, g.resets)
	assert.Empty(t, m.notice)

	m = runToEnd(t, m, g)
	assert.Equal(t, phaseNamePrompt, m.phase)
}

func TestGameModelOverMenu(t *testing.T) {
	m, g := newRankedModel(t, 1)
	m = runToEnd(t, m, g)
	m = send(t, m, keyMsg("esc"))

	assert.True(t, send(t, m, keyMsg("s")).WantsScores())
	assert.True(t, send(t, m, keyMsg("b")).BackToMenu())

	next, cmd := m.Update(keyMsg("q"))
	assert.True(t, next.(GameModel).IsQuitting())
	assert.NotNil(t, cmd)
}

func TestGameModelUnrankedSkipsPrompt(t *testing.T) {
	g := &stubGame{finishAfter: 1}
	m := NewGameModel(g, testServices(ControlsKeyboard), core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	assert.Nil(t, m.board)
	m.Init()

	m = runToEnd(t, m, g)
	assert.Equal(t, phaseOver, m.phase)
}

func TestGameModelBackOnlyWhenSafe(t *testing.T) {
	m, _ := newRankedModel(t, 10)
	m, _ = sendTick(t, m, t0)
	m, _ = sendTick(t, m, t0.Add(20*time.Millisecond))

	m = send(t, m, keyMsg("b"))
	assert.False(t, m.BackToMenu(), "a running ranked game is not abandoned")
}

func TestGameModelResizeKeepsRun(t *testing.T) {
	m, g := newRankedModel(t, 10)
	m, _ = sendTick(t, m, t0)
	m, _ = sendTick(t, m, t0.Add(20*time.Millisecond))
	resets := g.resets

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.screen.Width())
	assert.Equal(t, 39, m.screen.Height())
	assert.Equal(t, resets, g.resets)
}

func TestSessionStartsInGame(t *testing.T) {
	svc := testServices(ControlsKeyboard)
	s := NewSessionModel(svc, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}, "pilot", "tui-stub")

	require.Equal(t, viewGame, s.view)
	require.NotNil(t, s.gameModel)
	assert.Equal(t, "pilot", s.gameModel.defaultName)
	assert.NotNil(t, s.Init())
}

func TestSessionUnknownGameOpensMenu(t *testing.T) {
	s := NewSessionModel(testServices(ControlsKeyboard), core.DefaultConfig(), "", "nope")
	assert.Equal(t, viewMenu, s.view)
	assert.Contains(t, s.View(), "Stub")
}

func TestSessionScoresAndBack(t *testing.T) {
	svc := testServices(ControlsKeyboard)
	s := NewSessionModel(svc, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, Seed: 1}, "", "")

	next, _ := s.Update(keyMsg("tab"))
	s = next.(SessionModel)
	require.Equal(t, viewScores, s.view)
	assert.Contains(t, s.View(), leaderboard.EmptyText)

	next, _ = s.Update(keyMsg("esc"))
	s = next.(SessionModel)
	assert.Equal(t, viewMenu, s.view)
}

func TestSessionMenuQuit(t *testing.T) {
	s := NewSessionModel(testServices(ControlsKeyboard), core.DefaultConfig(), "", "")

	next, cmd := s.Update(keyMsg("q"))
	assert.True(t, next.(SessionModel).quitting)
	assert.NotNil(t, cmd)
}
