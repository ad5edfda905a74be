// Package planes implements Flappy Planes: a plane falls under gravity,
// jumps on input, and must fly through gaps between scrolling pipes.
// A run ends on the first collision and is ranked by how long it lasted.
package planes

import (
	"math"
	"sync"
	"time"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// GameID is the registry identifier for Flappy Planes.
const GameID = "planes"

// Phase is the lifecycle state of a run.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Over
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// Plane is the player-controlled object. X is fixed for the whole run.
type Plane struct {
	X, Y          float64
	Width, Height float64
	Velocity      float64 // Positive is downward
}

// Rect returns the plane's bounding box.
func (p Plane) Rect() core.RectF {
	return core.RectF{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Snapshot is a read-only copy of everything needed to draw a frame.
type Snapshot struct {
	Phase     Phase
	Paused    bool
	Plane     Plane
	Pipes     []Pipe
	PipeWidth float64
	Survival  time.Duration
	Passed    int
	Ticks     int
}

// Option customizes a Game built with NewWithConfig.
type Option func(*Game)

// WithClock replaces the wall clock used for survival time.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithSeed fixes the pipe RNG seed.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.seed = seed }
}

// Game implements the Flappy Planes simulation.
type Game struct {
	cfg        config.PlanesConfig
	fixedCfg   bool
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig
	seed       int64
	now        func() time.Time

	phase     Phase
	paused    bool
	plane     Plane
	pipes     *PipeManager
	tickCount int     // Ticks simulated in this run
	simTime   float64 // Simulated seconds in this run
	passed    int

	startedAt time.Time
	pausedAt  time.Time
	pausedFor time.Duration
	survival  time.Duration // Frozen when the run ends
}

var (
	sourceMu sync.RWMutex
	source   *config.PlanesSource
)

// SetConfigSource sets where games created by the registry read their
// configuration from. Each Reset picks up the source's current config.
func SetConfigSource(src *config.PlanesSource) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	source = src
}

func currentConfig() config.PlanesConfig {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	if source == nil {
		return config.DefaultPlanesConfig()
	}
	return source.Current()
}

// New creates a game that follows the package config source.
func New() *Game {
	g := &Game{now: time.Now}
	g.applyConfig(currentConfig())
	return g
}

// NewWithConfig creates a game with a fixed configuration.
func NewWithConfig(cfg config.PlanesConfig, opts ...Option) *Game {
	g := &Game{now: time.Now, fixedCfg: true}
	for _, opt := range opts {
		opt(g)
	}
	g.applyConfig(cfg)
	return g
}

func (g *Game) applyConfig(cfg config.PlanesConfig) {
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.pipes = NewPipeManager(g.seed, cfg.Canvas.Width, cfg.Canvas.Height, cfg.Obstacles.PipeWidth, cfg.Obstacles.EdgeMargin)
	g.resetRun()
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Planes"
}

// LeaderboardKey names the key finished runs are stored under.
func (g *Game) LeaderboardKey() string {
	return g.cfg.Leaderboard.Key
}

// LeaderboardSize is how many runs the leaderboard keeps.
func (g *Game) LeaderboardSize() int {
	return g.cfg.Leaderboard.Size
}

// Config returns the configuration the current run uses.
func (g *Game) Config() config.PlanesConfig {
	return g.cfg
}

// Reset reloads the configuration and returns to NotStarted.
// The next jump starts the run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	if rc.Seed != 0 {
		g.seed = rc.Seed
	}
	if !g.fixedCfg {
		g.applyConfig(currentConfig())
		return
	}
	g.resetRun()
}

// resetRun puts the plane back at the start and clears all pipes.
func (g *Game) resetRun() {
	g.phase = NotStarted
	g.paused = false
	g.plane = Plane{
		X:      g.cfg.Plane.X,
		Y:      g.cfg.Canvas.Height / 2,
		Width:  g.cfg.Plane.Width,
		Height: g.cfg.Plane.Height,
	}
	g.pipes.Reset(g.seed)
	g.tickCount = 0
	g.simTime = 0
	g.passed = 0
	g.pausedFor = 0
	g.survival = 0
}

// Start begins a fresh run from any phase.
func (g *Game) Start() {
	g.resetRun()
	g.phase = Running
	g.startedAt = g.now()
}

// Jump sets the plane's velocity to the jump force. Only effective while
// running; the last jump before a tick wins.
func (g *Game) Jump() {
	if g.phase != Running || g.paused {
		return
	}
	g.plane.Velocity = g.cfg.Physics.JumpForce
}

// SetPaused freezes or resumes the run. Time spent paused does not count
// toward survival.
func (g *Game) SetPaused(paused bool) {
	if g.phase != Running || g.paused == paused {
		return
	}
	g.paused = paused
	if paused {
		g.pausedAt = g.now()
		return
	}
	g.pausedFor += g.now().Sub(g.pausedAt)
}

// Tick advances the simulation by elapsed seconds. Per-tick constants are
// multiplied by elapsed*ReferenceFPS, so a tick of 1/60s at 60 FPS applies
// them exactly once. Returns true only on the tick that ends the run.
func (g *Game) Tick(elapsed float64) bool {
	if g.phase != Running || g.paused {
		return false
	}
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	scale := elapsed * g.cfg.Physics.ReferenceFPS

	g.plane.Velocity += g.cfg.Physics.Gravity * scale
	g.plane.Y += g.plane.Velocity * scale

	if g.tickCount%g.cfg.Obstacles.SpawnInterval == 0 {
		g.pipes.Spawn(g.gap())
	}
	speed := g.difficulty.Speed(g.cfg.Obstacles.PipeSpeed, g.simTime, g.tickCount)
	g.passed += g.pipes.Advance(speed*scale, g.plane.X)

	g.tickCount++
	g.simTime += elapsed

	if g.collides() {
		g.end()
		return true
	}
	return false
}

func (g *Game) gap() float64 {
	minGap := math.Min(2*g.cfg.Plane.Height, g.cfg.Obstacles.PipeGap)
	return g.difficulty.GapSize(g.cfg.Obstacles.PipeGap, minGap, g.simTime, g.tickCount)
}

// collides checks the full body against the canvas edges and the shrunk
// body against pipes.
func (g *Game) collides() bool {
	body := g.plane.Rect()
	if body.Y < 0 || body.Bottom() > g.cfg.Canvas.Height {
		return true
	}
	return g.pipes.CheckCollision(body.Shrink(g.cfg.Plane.CollisionShrink))
}

func (g *Game) end() {
	g.survival = g.runningSurvival()
	g.phase = Over
}

func (g *Game) runningSurvival() time.Duration {
	d := g.now().Sub(g.startedAt) - g.pausedFor
	if g.paused {
		d -= g.now().Sub(g.pausedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Survival returns the time survived so far, or the final time once over.
func (g *Game) Survival() time.Duration {
	switch g.phase {
	case Running:
		return g.runningSurvival()
	case Over:
		return g.survival
	default:
		return 0
	}
}

// Phase returns the lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Snapshot copies the state needed for rendering.
func (g *Game) Snapshot() Snapshot {
	live := g.pipes.Pipes()
	pipes := make([]Pipe, len(live))
	copy(pipes, live)
	return Snapshot{
		Phase:     g.phase,
		Paused:    g.paused,
		Plane:     g.plane,
		Pipes:     pipes,
		PipeWidth: g.pipes.Width(),
		Survival:  g.Survival(),
		Passed:    g.passed,
		Ticks:     g.tickCount,
	}
}

// Step maps platform input onto the simulation. A jump or confirm starts
// the run; while running, a jump is applied before the tick so the tick
// sees the new velocity.
func (g *Game) Step(in core.InputFrame, elapsed time.Duration) core.StepResult {
	switch g.phase {
	case NotStarted:
		switch {
		case in.Has(core.ActionJump):
			g.Start()
			g.Jump()
		case in.Has(core.ActionConfirm):
			g.Start()
		}
		return core.StepResult{State: g.State()}

	case Over:
		if in.Has(core.ActionRestart) {
			g.Start()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.SetPaused(!g.paused)
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionJump) {
		g.Jump()
	}

	finished := g.Tick(elapsed.Seconds())
	return core.StepResult{State: g.State(), Finished: finished}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.passed,
		Survival: g.Survival(),
		Running:  g.phase == Running,
		GameOver: g.phase == Over,
		Paused:   g.paused,
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	Render(g.Snapshot(), g.cfg, dst)
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
