package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// PlanesSource holds the current Flappy Planes configuration and can keep it
// in sync with the file it was loaded from. Games read Current() when a run
// starts, so edits apply to the next run.
type PlanesSource struct {
	path   string // File being tracked; empty when running on embedded defaults
	preset DifficultyPreset
	logger *log.Logger

	mu  sync.RWMutex
	cfg PlanesConfig
}

// NewPlanesSource loads the configuration along the usual search path.
func NewPlanesSource(customPath string, preset DifficultyPreset, logger *log.Logger) (*PlanesSource, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &PlanesSource{
		path:   resolvePath("planes.yaml", customPath),
		preset: preset,
		logger: logger,
	}

	cfg, err := LoadPlanes(customPath)
	if err != nil {
		return nil, err
	}
	ApplyPlanesPreset(&cfg, preset)
	s.cfg = cfg
	return s, nil
}

// StaticPlanesSource wraps a fixed configuration.
func StaticPlanesSource(cfg PlanesConfig) *PlanesSource {
	return &PlanesSource{cfg: cfg, logger: log.Default()}
}

// Path returns the file backing this source, or "" for built-in defaults.
func (s *PlanesSource) Path() string {
	return s.path
}

// Current returns the latest valid configuration.
func (s *PlanesSource) Current() PlanesConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload re-reads the tracked file. An unreadable or invalid file leaves the
// current configuration in place.
func (s *PlanesSource) Reload() error {
	if s.path == "" {
		return nil
	}
	cfg, err := LoadPlanes(s.path)
	if err != nil {
		return err
	}
	ApplyPlanesPreset(&cfg, s.preset)

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Watch reloads the configuration whenever its file changes, until ctx is
// cancelled. The parent directory is watched so editors that save by
// renaming a temp file are picked up too.
func (s *PlanesSource) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("config: no config file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: cannot create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("config: cannot watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("config reload rejected", "path", s.path, "error", err)
				continue
			}
			s.logger.Info("config reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("config watcher error", "error", err)
		}
	}
}

// resolvePath returns the config file LoadPlanes/LoadTicTacToe would read,
// or "" when only the embedded default applies.
func resolvePath(filename, customPath string) string {
	if customPath != "" {
		return customPath
	}
	for _, path := range []string{userConfigPath(filename), filepath.Join("configs", filename)} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
