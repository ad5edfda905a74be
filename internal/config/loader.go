package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPlanes loads Flappy Planes configuration.
// Search order: customPath -> ~/.planes/configs/planes.yaml -> ./configs/planes.yaml -> embedded default.
// Fields missing from a file keep their default values.
func LoadPlanes(customPath string) (PlanesConfig, error) {
	cfg, err := load("planes.yaml", customPath, defaultPlanesYAML, DefaultPlanesConfig)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultPlanesConfig(), fmt.Errorf("config: invalid planes config: %w", err)
	}
	return cfg, nil
}

// LoadTicTacToe loads Tic-Tac-Toe configuration.
// Search order: customPath -> ~/.planes/configs/tictactoe.yaml -> ./configs/tictactoe.yaml -> embedded default.
func LoadTicTacToe(customPath string) (TicTacToeConfig, error) {
	cfg, err := load("tictactoe.yaml", customPath, defaultTicTacToeYAML, DefaultTicTacToeConfig)
	if cfg.Symbols.X == "" || cfg.Symbols.O == "" || cfg.Symbols.X == cfg.Symbols.O {
		def := DefaultTicTacToeConfig()
		return def, fmt.Errorf("config: tictactoe symbols must be distinct and non-empty, got %q and %q",
			cfg.Symbols.X, cfg.Symbols.O)
	}
	return cfg, err
}

// load reads the first config file found along the search path and overlays
// it on the hardcoded defaults.
func load[T any](filename, customPath string, embedded []byte, defaults func() T) (T, error) {
	// Try custom path first; an explicit path that fails is an error.
	if customPath != "" {
		cfg := defaults()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return defaults(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return defaults(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(filename),
		filepath.Join("configs", filename),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := defaults()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".planes", "configs", filename)
}

// ApplyPlanesPreset modifies the config based on a difficulty preset.
func ApplyPlanesPreset(cfg *PlanesConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
