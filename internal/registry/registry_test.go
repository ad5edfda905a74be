package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flappy-planes/internal/core"
)

type stubGame struct {
	id    string
	state core.GameState
}

func (g *stubGame) ID() string               { return g.id }
func (g *stubGame) Title() string            { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Render(*core.Screen)      {}
func (g *stubGame) State() core.GameState    { return g.state }
func (g *stubGame) Step(core.InputFrame, time.Duration) core.StepResult {
	return core.StepResult{State: g.state}
}

type rankedStub struct{ stubGame }

func (g *rankedStub) LeaderboardKey() string { return "stubScores" }
func (g *rankedStub) LeaderboardSize() int   { return 5 }

func TestRegisterAndCreate(t *testing.T) {
	Register("test-plain", func() Game { return &stubGame{id: "test-plain"} })
	Register("test-ranked", func() Game { return &rankedStub{stubGame{id: "test-ranked"}} })

	assert.True(t, Exists("test-plain"))
	assert.False(t, Exists("test-missing"))

	g, err := Create("test-plain")
	require.NoError(t, err)
	assert.Equal(t, "test-plain", g.ID())

	_, err = Create("test-missing")
	assert.ErrorContains(t, err, `unknown game "test-missing"`)

	info, ok := Info("test-ranked")
	require.True(t, ok)
	assert.True(t, info.Ranked)
	assert.Equal(t, "Stub test-ranked", info.Title)

	r, ok := Leaderboard("test-ranked")
	require.True(t, ok)
	assert.Equal(t, "stubScores", r.LeaderboardKey())
	assert.Equal(t, 5, r.LeaderboardSize())

	_, ok = Leaderboard("test-plain")
	assert.False(t, ok)
}

func TestListIsSorted(t *testing.T) {
	Register("test-zz", func() Game { return &stubGame{id: "test-zz"} })
	Register("test-aa", func() Game { return &stubGame{id: "test-aa"} })

	list := List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() Game { return &stubGame{id: "test-dup"} })

	assert.Panics(t, func() {
		Register("test-dup", func() Game { return &stubGame{id: "test-dup"} })
	})
}
