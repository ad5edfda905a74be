package config

import (
	_ "embed"
)

//go:embed defaults/planes.yaml
var defaultPlanesYAML []byte

//go:embed defaults/tictactoe.yaml
var defaultTicTacToeYAML []byte

// DefaultPlanesConfig returns the default Flappy Planes configuration.
func DefaultPlanesConfig() PlanesConfig {
	return PlanesConfig{
		Canvas: PlanesCanvas{
			Width:  800,
			Height: 600,
		},
		Physics: PlanesPhysics{
			Gravity:      0.5,
			JumpForce:    -10,
			ReferenceFPS: 60,
		},
		Plane: PlanesPlane{
			X:               100,
			Width:           40,
			Height:          30,
			CollisionShrink: 0.25,
		},
		Obstacles: PlanesObstacles{
			PipeSpeed:     3,
			PipeGap:       200,
			PipeWidth:     50,
			EdgeMargin:    50,
			SpawnInterval: 100,
		},
		Loop: PlanesLoop{
			FrameRate: 60,
		},
		Leaderboard: LeaderboardConfig{
			Key:  "flappyPlanesScores",
			Size: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 120, // two minutes of survival
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				GapReduction:    60,
			},
		},
	}
}

// DefaultTicTacToeConfig returns the default Tic-Tac-Toe configuration.
func DefaultTicTacToeConfig() TicTacToeConfig {
	return TicTacToeConfig{
		Symbols: TicTacToeSymbols{X: "X", O: "O"},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "planes":
		return defaultPlanesYAML
	case "tictactoe":
		return defaultTicTacToeYAML
	default:
		return nil
	}
}
