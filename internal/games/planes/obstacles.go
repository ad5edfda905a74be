package planes

import (
	"math/rand"

	"github.com/vovakirdan/flappy-planes/internal/core"
)

// Pipe is a pair of vertical obstacles with a gap for the plane to fly through.
// The top pipe covers [0, TopHeight), the bottom pipe [BottomY, canvas height).
type Pipe struct {
	X         float64 // Left edge; decreases every tick
	TopHeight float64 // Height of the top pipe, i.e. where the gap starts
	BottomY   float64 // Where the bottom pipe starts, i.e. where the gap ends
	Passed    bool    // Whether the plane has cleared this pipe
}

// Gap returns the height of the opening.
func (p Pipe) Gap() float64 {
	return p.BottomY - p.TopHeight
}

// PipeManager handles spawning, movement, and removal of pipes.
// Pipes are kept in spawn order, which is also descending X order.
type PipeManager struct {
	pipes   []Pipe
	rng     *rand.Rand
	canvasW float64
	canvasH float64
	width   float64
	margin  float64
}

// NewPipeManager creates a new pipe manager with the given RNG seed.
func NewPipeManager(seed int64, canvasW, canvasH, pipeWidth, margin float64) *PipeManager {
	pm := &PipeManager{
		pipes:   make([]Pipe, 0, 8),
		canvasW: canvasW,
		canvasH: canvasH,
		width:   pipeWidth,
		margin:  margin,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// Spawn adds a pipe at the right edge of the canvas with a random gap
// position. The gap never comes closer than the margin to either edge.
func (pm *PipeManager) Spawn(gap float64) Pipe {
	span := pm.canvasH - gap - 2*pm.margin
	if span < 0 {
		span = 0
	}
	top := pm.rng.Float64()*span + pm.margin

	p := Pipe{
		X:         pm.canvasW,
		TopHeight: top,
		BottomY:   top + gap,
	}
	pm.pipes = append(pm.pipes, p)
	return p
}

// Advance moves every pipe left by dx and drops pipes whose right edge has
// passed the left boundary. Returns how many pipes the plane at planeX
// cleared during this move.
func (pm *PipeManager) Advance(dx, planeX float64) int {
	passed := 0
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		p.X -= dx
		if !p.Passed && p.X+pm.width < planeX {
			p.Passed = true
			passed++
		}
		if p.X+pm.width < 0 {
			continue
		}
		kept = append(kept, p)
	}
	pm.pipes = kept
	return passed
}

// CheckCollision reports whether box overlaps a pipe horizontally while
// reaching above that pipe's gap or below it.
func (pm *PipeManager) CheckCollision(box core.RectF) bool {
	for _, p := range pm.pipes {
		if !box.OverlapsX(p.X, p.X+pm.width) {
			continue
		}
		if box.Y < p.TopHeight || box.Bottom() > p.BottomY {
			return true
		}
	}
	return false
}

// Pipes returns the live pipes in spawn order.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// Width returns the pipe width.
func (pm *PipeManager) Width() float64 {
	return pm.width
}
