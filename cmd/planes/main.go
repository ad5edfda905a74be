// planes is Flappy Planes for the terminal: fly between the pipes for as
// long as you can and get your time onto the leaderboard.
//
// Usage:
//
//	planes list              - List available games
//	planes play [game]       - Play a game (default: planes)
//	planes menu              - Start menu to pick games interactively
//	planes serve             - Serve the arcade over SSH and HTTP
//	planes scores [game]     - Show the leaderboard of a game
//
// Global flags:
//
//	--fps <rate>        - Maximum simulation ticks per second (default: from config)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.planes/scores.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Import games to register them
	_ "github.com/vovakirdan/flappy-planes/internal/games/planes"
	_ "github.com/vovakirdan/flappy-planes/internal/games/tictactoe"

	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "planes",
	Short: "Flappy Planes - fly through the pipes in your terminal",
	Long: `Flappy Planes is a terminal game: keep your plane in the air and
out of the pipes for as long as you can. The longest flights make it onto
the leaderboard. A Tic-Tac-Toe board is thrown in for two players.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Serve the arcade over SSH and a JSON API over HTTP
  scores   - View the leaderboard

Examples:
  planes play
  planes play --controls mouse
  planes menu
  planes serve --ssh :2222 --http :8080
  planes scores planes --stats`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Maximum ticks per second (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (interactive commands default to ~/.planes/planes.log)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger. Interactive commands never log to
// the terminal they draw on, so they fall back to a file.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	path := flagLogFile
	if path == "" && interactive {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".planes", "planes.log")
		}
	}

	w, closeFn := os.Stderr, func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "planes",
		Level:           level,
	})
	return logger, closeFn, nil
}

// openBoards opens the score database and the leaderboards on top of it.
// Without a database the leaderboards live in memory for this process.
func openBoards(logger *log.Logger) (*leaderboard.Set, *storage.Store) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be kept", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		return leaderboard.NewSet(leaderboard.NewMemoryBackend(), leaderboard.WithLogger(logger)), nil
	}

	boards := leaderboard.NewSet(store,
		leaderboard.WithLogger(logger),
		leaderboard.WithHistory(store),
	)
	return boards, store
}

// terminalSize returns the size of stdout, or 80x24 if it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
