// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import (
	"errors"
	"fmt"
)

// PlanesConfig contains all configuration for the Flappy Planes game.
// Distances are in canvas units; per-tick constants are tuned for
// Physics.ReferenceFPS and scaled by real elapsed time.
type PlanesConfig struct {
	Canvas      PlanesCanvas      `yaml:"canvas"`
	Physics     PlanesPhysics     `yaml:"physics"`
	Plane       PlanesPlane       `yaml:"plane"`
	Obstacles   PlanesObstacles   `yaml:"obstacles"`
	Loop        PlanesLoop        `yaml:"loop"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
}

// PlanesCanvas defines the playfield size.
type PlanesCanvas struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlanesPhysics defines physics parameters for Flappy Planes.
type PlanesPhysics struct {
	Gravity      float64 `yaml:"gravity"`       // Velocity gained per reference frame
	JumpForce    float64 `yaml:"jump_force"`    // Velocity set by a jump (negative = up)
	ReferenceFPS float64 `yaml:"reference_fps"` // Frame rate the constants were tuned at
}

// PlanesPlane defines the player's plane.
type PlanesPlane struct {
	X               float64 `yaml:"x"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	CollisionShrink float64 `yaml:"collision_shrink"` // Fraction trimmed from each side for pipe hits
}

// PlanesObstacles defines pipe parameters for Flappy Planes.
type PlanesObstacles struct {
	PipeSpeed     float64 `yaml:"pipe_speed"` // Canvas units per reference frame
	PipeGap       float64 `yaml:"pipe_gap"`   // Vertical opening between top and bottom pipe
	PipeWidth     float64 `yaml:"pipe_width"`
	EdgeMargin    float64 `yaml:"edge_margin"`    // Minimum pipe length at top and bottom
	SpawnInterval int     `yaml:"spawn_interval"` // Ticks between pipe spawns
}

// PlanesLoop defines host loop parameters.
type PlanesLoop struct {
	FrameRate int `yaml:"frame_rate"` // Maximum simulated ticks per second
}

// LeaderboardConfig defines where and how many results are kept.
type LeaderboardConfig struct {
	Key  string `yaml:"key"`
	Size int    `yaml:"size"`
}

// Validate reports the first field that makes the configuration unplayable.
func (c PlanesConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("canvas.width", c.Canvas.Width)
	positive("canvas.height", c.Canvas.Height)
	positive("physics.reference_fps", c.Physics.ReferenceFPS)
	positive("plane.width", c.Plane.Width)
	positive("plane.height", c.Plane.Height)
	positive("obstacles.pipe_width", c.Obstacles.PipeWidth)
	positive("obstacles.pipe_gap", c.Obstacles.PipeGap)

	if c.Obstacles.SpawnInterval <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.spawn_interval must be positive, got %d", c.Obstacles.SpawnInterval))
	}
	if c.Obstacles.PipeSpeed < 0 {
		errs = append(errs, fmt.Errorf("obstacles.pipe_speed must not be negative, got %v", c.Obstacles.PipeSpeed))
	}
	if c.Plane.CollisionShrink < 0 || c.Plane.CollisionShrink >= 0.5 {
		errs = append(errs, fmt.Errorf("plane.collision_shrink must be in [0, 0.5), got %v", c.Plane.CollisionShrink))
	}
	if c.Obstacles.PipeGap+2*c.Obstacles.EdgeMargin > c.Canvas.Height {
		errs = append(errs, fmt.Errorf("obstacles.pipe_gap plus margins (%v) exceeds canvas.height (%v)",
			c.Obstacles.PipeGap+2*c.Obstacles.EdgeMargin, c.Canvas.Height))
	}
	if c.Leaderboard.Size <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.size must be positive, got %d", c.Leaderboard.Size))
	}
	if c.Leaderboard.Key == "" {
		errs = append(errs, errors.New("leaderboard.key must not be empty"))
	}

	return errors.Join(errs...)
}

// TicTacToeConfig contains configuration for the Tic-Tac-Toe game.
type TicTacToeConfig struct {
	Symbols TicTacToeSymbols `yaml:"symbols"`
}

// TicTacToeSymbols are the marks drawn for each side.
type TicTacToeSymbols struct {
	X string `yaml:"x"`
	O string `yaml:"o"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "time", "ticks", or "none"
	MaxAt float64 `yaml:"max_at"` // Seconds or ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
	GapReduction    float64 `yaml:"gap_reduction"`    // Gap size reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
