package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-planes/internal/platform/tui"
	"github.com/vovakirdan/flappy-planes/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the arcade over SSH and the leaderboards over HTTP",
	Long: `Start an SSH server that allows users to connect and play, and
optionally a read-only JSON API over the leaderboards.

Each SSH connection gets its own session with a game picker menu. All
sessions share the same leaderboards; the SSH user name is offered as the
name for a new record.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.planes/host_key

HTTP endpoints (with --http):
  GET /healthz
  GET /api/games
  GET /api/scores/:game
  GET /api/stats/:game
  GET /api/runs/:game?limit=N

Examples:
  planes serve                           # SSH on :23234
  planes serve --ssh :2222 --http :8080  # SSH on 2222, API on 8080
  planes serve --ssh "" --http :8080     # API only
  planes serve --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", tui.DefaultSSHServerConfig().Address, "SSH server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address, e.g. :8080 (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom planes config YAML")
	serveCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	serveCmd.Flags().StringVar(&flagControls, "controls", "keyboard", "How to fly: keyboard (Space) or mouse (left click)")
	serveCmd.Flags().BoolVar(&flagWatchConfig, "watch-config", false, "Apply config file edits to the next run")
}

// server is what serve runs side by side.
type server interface {
	Serve(ctx context.Context) error
}

func runServe(_ *cobra.Command, _ []string) {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to serve, set --ssh or --http")
		os.Exit(1)
	}

	controls, err := tui.ParseControls(flagControls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planesCfg, err := configureGames(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	boards, store := openBoards(logger)
	if store != nil {
		defer store.Close()
	}

	var servers []server
	if flagSSHAddr != "" {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		}, tui.Services{
			Boards:    boards,
			Logger:    logger,
			Controls:  controls,
			FrameRate: frameRate(planesCfg),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
			os.Exit(1)
		}
		servers = append(servers, sshServer)
		fmt.Printf("SSH: connect with ssh localhost -p %s\n", port(flagSSHAddr))
	}
	if flagHTTPAddr != "" {
		// A nil *storage.Store must not become a non-nil interface
		var history web.RunHistory
		if store != nil {
			history = store
		}
		servers = append(servers, web.NewServer(flagHTTPAddr, boards, history, logger))
		fmt.Printf("HTTP: leaderboards at http://localhost:%s/api/scores/planes\n", port(flagHTTPAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first server to fail stops the others
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		serveErr error
	)
	for _, s := range servers {
		wg.Add(1)
		go func(s server) {
			defer wg.Done()
			if err := s.Serve(ctx); err != nil {
				errOnce.Do(func() { serveErr = err })
				cancel()
			}
		}(s)
	}
	wg.Wait()

	if serveErr != nil {
		logger.Error("server error", "err", serveErr)
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// port extracts the port of a host:port listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
