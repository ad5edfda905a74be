package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-planes/internal/games/planes"
	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

var (
	flagStats bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show the leaderboard of a game",
	Long: `Display the leaderboard of the specified game, Flappy Planes if none
is given. Times are survival times in seconds, longest first.

Examples:
  planes scores
  planes scores planes --stats
  planes scores planes --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Also show run history statistics")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the leaderboard and run history")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := planes.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

	info, ok := registry.Info(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'planes list' to see available games.")
		os.Exit(1)
	}
	ranked, ok := registry.Leaderboard(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s does not keep a leaderboard.\n", info.Title)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	boards, store := openBoards(logger)
	if store != nil {
		defer store.Close()
	}

	board, err := boards.Board(ranked.LeaderboardKey(), leaderboard.WithSize(ranked.LeaderboardSize()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading leaderboard: %v\n", err)
		os.Exit(1)
	}

	if flagClear {
		if err := board.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing leaderboard: %v\n", err)
			os.Exit(1)
		}
		if store != nil {
			if err := store.ClearRuns(ranked.LeaderboardKey()); err != nil {
				fmt.Fprintf(os.Stderr, "Error clearing run history: %v\n", err)
				os.Exit(1)
			}
		}
		fmt.Printf("Leaderboard for %s cleared.\n", info.Title)
		return
	}

	fmt.Printf("Leaderboard - %s\n", info.Title)
	fmt.Println()

	entries := board.List()
	if len(entries) == 0 {
		fmt.Println(leaderboard.EmptyText)
	}
	for i, e := range entries {
		fmt.Println(leaderboard.Format(i+1, e))
	}

	if !flagStats {
		return
	}

	fmt.Println()
	if store == nil {
		fmt.Println("Run history unavailable without a scores database.")
		return
	}
	stats, err := store.GetStats(ranked.LeaderboardKey())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Runs recorded: %d\n", stats.Runs)
	if stats.Runs == 0 {
		return
	}
	fmt.Printf("Best:          %.2f seconds\n", stats.Best)
	fmt.Printf("Average:       %.2f seconds\n", stats.Average)
	fmt.Printf("Total flown:   %.2f seconds\n", stats.Total)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last played:   %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}
