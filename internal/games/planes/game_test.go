package planes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
)

const frame = 1.0 / 60

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestGame(t *testing.T, mutate func(*config.PlanesConfig)) (*Game, *fakeClock) {
	t.Helper()
	cfg := config.DefaultPlanesConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	clock := newClock()
	g := NewWithConfig(cfg, WithSeed(42), WithClock(clock.Now))
	return g, clock
}

func TestNewGameIsNotStarted(t *testing.T) {
	g, _ := newTestGame(t, nil)

	assert.Equal(t, NotStarted, g.Phase())
	assert.Equal(t, 300.0, g.plane.Y)
	assert.Equal(t, 100.0, g.plane.X)
	assert.Zero(t, g.plane.Velocity)
	assert.Empty(t, g.pipes.Pipes())
	assert.False(t, g.Tick(frame), "tick before start should be a no-op")
	assert.Equal(t, 300.0, g.plane.Y)
}

func TestStartResetsRun(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	for range 30 {
		g.Tick(frame)
	}
	require.NotEmpty(t, g.pipes.Pipes())

	g.Start()
	assert.Equal(t, Running, g.Phase())
	assert.Equal(t, 300.0, g.plane.Y)
	assert.Zero(t, g.plane.Velocity)
	assert.Empty(t, g.pipes.Pipes())
	assert.Zero(t, g.tickCount)
}

func TestGravityAccumulatesVelocity(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()

	for range 10 {
		require.False(t, g.Tick(frame))
	}

	assert.InDelta(t, 10*0.5, g.plane.Velocity, 1e-9)
	// y grows by g*(1+2+...+10)
	assert.InDelta(t, 300+0.5*55, g.plane.Y, 1e-9)
}

func TestTickScalesWithElapsed(t *testing.T) {
	a, _ := newTestGame(t, nil)
	b, _ := newTestGame(t, nil)
	a.Start()
	b.Start()

	a.Tick(frame)
	b.Tick(frame / 2)
	b.Tick(frame / 2)

	assert.InDelta(t, a.plane.Velocity, b.plane.Velocity, 1e-9)

	c, _ := newTestGame(t, nil)
	c.Start()
	c.Tick(0)
	assert.Zero(t, c.plane.Velocity, "zero elapsed applies no gravity")
	assert.Equal(t, 300.0, c.plane.Y)
}

func TestJumpSetsVelocity(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	for range 5 {
		g.Tick(frame)
	}
	require.Positive(t, g.plane.Velocity)

	g.Jump()
	g.Tick(0)
	assert.Equal(t, -10.0, g.plane.Velocity)

	// Repeated jumps override rather than stack
	g.Jump()
	g.Jump()
	assert.Equal(t, -10.0, g.plane.Velocity)
}

func TestJumpIgnoredOutsideRunning(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Jump()
	assert.Zero(t, g.plane.Velocity)

	g.Start()
	g.plane.Y = -1
	require.True(t, g.Tick(0))
	vel := g.plane.Velocity
	g.Jump()
	assert.Equal(t, vel, g.plane.Velocity)
}

func TestLeavingTopEndsRun(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	g.plane.Y = -1

	assert.True(t, g.Tick(0))
	assert.Equal(t, Over, g.Phase())
	assert.False(t, g.Tick(frame), "ticks after game over do nothing")
}

func TestLeavingBottomEndsRun(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	g.plane.Y = 600 - 30 + 0.5

	assert.True(t, g.Tick(0))
	assert.Equal(t, Over, g.Phase())
}

func TestPlaneFallsToGround(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()

	ended := false
	for range 600 {
		if g.Tick(frame) {
			ended = true
			break
		}
	}
	require.True(t, ended, "an idle plane must hit the ground")
	assert.Equal(t, Over, g.Phase())
	assert.Greater(t, g.plane.Rect().Bottom(), 600.0)
}

func TestPipeCollision(t *testing.T) {
	tests := []struct {
		name    string
		pipe    Pipe
		planeY  float64
		crashes bool
	}{
		{"plane above gap", Pipe{X: 90, TopHeight: 400, BottomY: 600}, 300, true},
		{"plane below gap", Pipe{X: 90, TopHeight: 0, BottomY: 200}, 300, true},
		{"plane inside gap", Pipe{X: 90, TopHeight: 250, BottomY: 450}, 300, false},
		{"pipe ahead of plane", Pipe{X: 200, TopHeight: 400, BottomY: 600}, 300, false},
		{"pipe behind plane", Pipe{X: 20, TopHeight: 400, BottomY: 600}, 300, false},
		// Only the inner half of the plane counts against pipes
		{"grazing with the wings", Pipe{X: 90, TopHeight: 305, BottomY: 505}, 300, false},
		{"grazing with the core", Pipe{X: 90, TopHeight: 310, BottomY: 510}, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, nil)
			g.Start()
			g.tickCount = 1 // skip the spawn on tick 0
			g.pipes.pipes = []Pipe{tt.pipe}
			g.plane.Y = tt.planeY

			assert.Equal(t, tt.crashes, g.Tick(0))
		})
	}
}

func TestPipeSpawning(t *testing.T) {
	g, _ := newTestGame(t, func(c *config.PlanesConfig) {
		c.Physics.Gravity = 0
	})
	g.Start()

	g.Tick(frame)
	pipes := g.pipes.Pipes()
	require.Len(t, pipes, 1, "a pipe spawns on the first tick")
	p := pipes[0]
	assert.InDelta(t, 800-3, p.X, 1e-9)
	assert.InDelta(t, 200, p.Gap(), 1e-9)
	assert.GreaterOrEqual(t, p.TopHeight, 50.0)
	assert.LessOrEqual(t, p.BottomY, 550.0)

	for range 99 {
		g.Tick(frame)
	}
	assert.Len(t, g.pipes.Pipes(), 1)
	g.Tick(frame)
	assert.Len(t, g.pipes.Pipes(), 2, "next pipe spawns after the interval")
}

func TestPipeLeavesScreen(t *testing.T) {
	// Gravity off and a gap that always covers the plane
	g, _ := newTestGame(t, func(c *config.PlanesConfig) {
		c.Physics.Gravity = 0
		c.Obstacles.PipeGap = 500
		c.Obstacles.SpawnInterval = 1000
	})
	g.Start()

	// (800+50) / 3 per tick = 283.3 ticks until the right edge passes 0
	for range 280 {
		require.False(t, g.Tick(frame))
	}
	require.Len(t, g.pipes.Pipes(), 1)
	assert.Equal(t, 1, g.passed, "the plane cleared the pipe before it left")
	for range 10 {
		require.False(t, g.Tick(frame))
	}
	assert.Empty(t, g.pipes.Pipes())
	assert.Equal(t, 1, g.passed)
	assert.Equal(t, Running, g.Phase())
}

func TestDeterminism(t *testing.T) {
	run := func() (Snapshot, int) {
		g, _ := newTestGame(t, func(c *config.PlanesConfig) {
			c.Physics.Gravity = 0
			c.Obstacles.PipeGap = 500
		})
		g.Start()
		for range 350 {
			g.Tick(frame)
		}
		return g.Snapshot(), g.tickCount
	}

	s1, n1 := run()
	s2, n2 := run()
	assert.Equal(t, n1, n2)
	assert.Equal(t, s1.Pipes, s2.Pipes)
	assert.Equal(t, s1.Plane, s2.Plane)
}

func TestSeedChangesLayout(t *testing.T) {
	spawn := func(seed int64) Pipe {
		g := NewWithConfig(config.DefaultPlanesConfig(), WithSeed(seed))
		g.Start()
		g.Tick(frame)
		return g.pipes.Pipes()[0]
	}
	assert.Equal(t, spawn(7), spawn(7))
	assert.NotEqual(t, spawn(7).TopHeight, spawn(8).TopHeight)
}

func TestSurvivalExcludesPause(t *testing.T) {
	g, clock := newTestGame(t, nil)
	assert.Zero(t, g.Survival())

	g.Start()
	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, g.Survival())

	g.SetPaused(true)
	clock.Advance(10 * time.Second)
	assert.Equal(t, 3*time.Second, g.Survival())
	assert.False(t, g.Tick(frame), "paused game does not tick")
	g.Jump()
	assert.Zero(t, g.plane.Velocity, "paused game ignores jumps")

	g.SetPaused(false)
	clock.Advance(2 * time.Second)
	g.plane.Y = -1
	require.True(t, g.Tick(0))

	assert.Equal(t, 5*time.Second, g.Survival())
	clock.Advance(time.Minute)
	assert.Equal(t, 5*time.Second, g.Survival(), "survival is frozen at game over")
}

func TestStepStartsOnFirstJump(t *testing.T) {
	g, _ := newTestGame(t, nil)

	res := g.Step(core.NewInputFrame(), time.Second/60)
	assert.False(t, res.State.Running)
	assert.Equal(t, NotStarted, g.Phase())

	in := core.NewInputFrame()
	in.Set(core.ActionJump)
	res = g.Step(in, time.Second/60)
	assert.True(t, res.State.Running)
	assert.Equal(t, -10.0, g.plane.Velocity)
	assert.Zero(t, g.tickCount, "the starting jump does not tick")
}

func TestStepReportsFinishedOnce(t *testing.T) {
	g, clock := newTestGame(t, nil)
	g.Start()

	finished := 0
	for range 600 {
		clock.Advance(time.Second / 60)
		if g.Step(core.NewInputFrame(), time.Second/60).Finished {
			finished++
		}
	}
	assert.Equal(t, 1, finished)
	st := g.State()
	assert.True(t, st.GameOver)
	assert.False(t, st.Running)
	assert.Positive(t, st.Survival)
}

func TestStepPauseToggle(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	res := g.Step(pause, time.Second/60)
	assert.True(t, res.State.Paused)

	y := g.plane.Y
	g.Step(core.NewInputFrame(), time.Second/60)
	assert.Equal(t, y, g.plane.Y)

	res = g.Step(pause, time.Second/60)
	assert.False(t, res.State.Paused)
	assert.NotEqual(t, y, g.plane.Y)
}

func TestStepRestartAfterGameOver(t *testing.T) {
	g, _ := newTestGame(t, nil)
	g.Start()
	g.plane.Y = -1
	g.Tick(0)
	require.Equal(t, Over, g.Phase())

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	g.Step(in, 0)
	assert.Equal(t, Running, g.Phase())
	assert.Equal(t, 300.0, g.plane.Y)
}

func TestResetFollowsConfigSource(t *testing.T) {
	cfg := config.DefaultPlanesConfig()
	cfg.Physics.JumpForce = -7
	cfg.Leaderboard.Key = "customScores"
	SetConfigSource(config.StaticPlanesSource(cfg))
	t.Cleanup(func() { SetConfigSource(nil) })

	g := New()
	assert.Equal(t, "customScores", g.LeaderboardKey())

	g.Reset(core.RuntimeConfig{Seed: 9})
	g.Start()
	g.Jump()
	assert.Equal(t, -7.0, g.plane.Velocity)
}

func TestDifficultySpeedsUpPipes(t *testing.T) {
	g, _ := newTestGame(t, func(c *config.PlanesConfig) {
		c.Physics.Gravity = 0
		c.Obstacles.PipeGap = 500
		c.Difficulty.Enabled = true
		c.Difficulty.InitialLevel = 1
		c.Difficulty.Scaling.SpeedMultiplier = 1
	})
	g.Start()
	g.Tick(frame)

	assert.InDelta(t, 800-6, g.pipes.Pipes()[0].X, 1e-9)
}
