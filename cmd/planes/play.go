package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-planes/internal/config"
	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/games/planes"
	"github.com/vovakirdan/flappy-planes/internal/games/tictactoe"
	"github.com/vovakirdan/flappy-planes/internal/platform/tui"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

var (
	flagConfig      string
	flagDifficulty  string
	flagControls    string
	flagWatchConfig bool
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game, Flappy Planes if none is given.

Controls:
  Space / click - Fly (keyboard or mouse, see --controls)
  P             - Pause
  R             - Restart (after game over)
  S             - Leaderboard (after game over)
  B/Esc         - Back to menu
  Q/Ctrl+C      - Quit
  Ctrl+S        - Save a screenshot to ~/.planes/screenshots

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level
  (none) - Classic: constant pipe speed and gap

Examples:
  planes play
  planes play --controls mouse
  planes play planes --difficulty hard
  planes play --config ./my-planes.yaml --watch-config
  planes play tictactoe`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or w/s to navigate, Enter to select a game and Tab for the
leaderboards. After a game ends, you can go back to the menu to play again.

Examples:
  planes menu
  planes menu --fps 30
  planes menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runSession("")
	},
}

func init() {
	for _, cmd := range []*cobra.Command{playCmd, menuCmd} {
		cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom planes config YAML")
		cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
		cmd.Flags().StringVar(&flagControls, "controls", "keyboard", "How to fly: keyboard (Space) or mouse (left click)")
		cmd.Flags().BoolVar(&flagWatchConfig, "watch-config", false, "Apply config file edits to the next run")
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := planes.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'planes list' to see available games.")
		os.Exit(1)
	}

	runSession(gameID)
}

// runSession configures the games and runs a local session. Anything that
// keeps the terminal surface from starting is reported once.
func runSession(startGame string) {
	controls, err := tui.ParseControls(flagControls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	planesCfg, err := configureGames(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	boards, store := openBoards(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: frameRate(planesCfg),
		Seed:     flagSeed,
	}
	svc := tui.Services{
		Boards:    boards,
		Logger:    logger,
		Controls:  controls,
		FrameRate: cfg.TickRate,
	}

	logger.Info("session starting", "game", startGame, "controls", controls, "fps", cfg.TickRate)
	if runErr := tui.Run(svc, cfg, startGame); runErr != nil {
		logger.Error("could not start", "err", runErr)
		fmt.Fprintf(os.Stderr, "could not start: %v\n", runErr)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
}

// configureGames points the games at their configuration. With
// --watch-config the planes config follows its file until ctx ends.
func configureGames(ctx context.Context, logger *log.Logger) (config.PlanesConfig, error) {
	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		return config.PlanesConfig{}, fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}

	src, err := config.NewPlanesSource(flagConfig, config.ParsePreset(flagDifficulty), logger)
	if err != nil {
		return config.PlanesConfig{}, err
	}
	planes.SetConfigSource(src)

	if flagWatchConfig {
		go func() {
			if err := src.Watch(ctx); err != nil {
				logger.Warn("not watching config", "err", err)
			}
		}()
	}

	ttt, err := config.LoadTicTacToe("")
	if err != nil {
		logger.Warn("using default tic-tac-toe config", "err", err)
	}
	tictactoe.SetConfig(ttt)

	return src.Current(), nil
}

// frameRate is --fps when given, else the configured rate.
func frameRate(cfg config.PlanesConfig) int {
	if flagFPS > 0 {
		return flagFPS
	}
	if cfg.Loop.FrameRate > 0 {
		return cfg.Loop.FrameRate
	}
	return core.DefaultConfig().TickRate
}
