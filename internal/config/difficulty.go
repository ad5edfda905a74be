package config

import "math"

// DifficultyManager calculates dynamic game parameters based on run progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
// seconds is the simulated run time and ticks the number of ticks so far.
func (d *DifficultyManager) Level(seconds float64, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "time":
		progress = seconds / maxAt
	case "ticks":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the scaled speed for the current difficulty level.
func (d *DifficultyManager) Speed(baseSpeed, seconds float64, ticks int) float64 {
	level := d.Level(seconds, ticks)
	// Speed increases from base to base * (1 + speedMultiplier)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// GapSize returns the gap for the current difficulty level, never below minGap.
func (d *DifficultyManager) GapSize(baseGap, minGap, seconds float64, ticks int) float64 {
	level := d.Level(seconds, ticks)
	return math.Max(baseGap-level*d.cfg.Scaling.GapReduction, minGap)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
