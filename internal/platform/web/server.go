// Package web serves a read-only JSON API over the leaderboards and the
// run history.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/registry"
	"github.com/vovakirdan/flappy-planes/internal/storage"
)

// DefaultAddress is where the API listens unless told otherwise.
const DefaultAddress = ":8080"

// RunHistory is the part of the score store the API reads from.
type RunHistory interface {
	GetStats(key string) (*storage.Stats, error)
	RecentRuns(key string, limit int) ([]storage.Run, error)
}

// Server is the HTTP API.
type Server struct {
	addr    string
	engine  *gin.Engine
	boards  *leaderboard.Set
	history RunHistory // nil when running without storage
	logger  *log.Logger
}

// NewServer builds the router. history may be nil.
func NewServer(addr string, boards *leaderboard.Set, history RunHistory, logger *log.Logger) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:    addr,
		engine:  gin.New(),
		boards:  boards,
		history: history,
		logger:  logger.WithPrefix("http"),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := s.engine.Group("/api")
	api.GET("/games", listGames)
	api.GET("/scores/:game", s.scores)
	api.GET("/stats/:game", s.stats)
	api.GET("/runs/:game", s.runs)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("starting HTTP server", "address", s.addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type gameJSON struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Ranked bool   `json:"ranked"`
}

func listGames(c *gin.Context) {
	games := registry.List()
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, gameJSON{ID: g.ID, Title: g.Title, Ranked: g.Ranked})
	}
	c.JSON(http.StatusOK, out)
}

// rankedGame resolves the :game parameter or writes a 404.
func rankedGame(c *gin.Context) (registry.Ranked, bool) {
	id := c.Param("game")
	r, ok := registry.Leaderboard(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no leaderboard for game %q", id)})
		return nil, false
	}
	return r, true
}

type scoreJSON struct {
	Rank int     `json:"rank"`
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

func (s *Server) scores(c *gin.Context) {
	r, ok := rankedGame(c)
	if !ok {
		return
	}
	if s.boards == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboards unavailable"})
		return
	}

	board, err := s.boards.Board(r.LeaderboardKey(), leaderboard.WithSize(r.LeaderboardSize()))
	if err != nil {
		s.logger.Error("cannot open leaderboard", "key", r.LeaderboardKey(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read leaderboard"})
		return
	}

	entries := board.List()
	out := make([]scoreJSON, len(entries))
	for i, e := range entries {
		out[i] = scoreJSON{Rank: i + 1, Name: e.Name, Time: e.Time}
	}
	c.JSON(http.StatusOK, gin.H{
		"game":   c.Param("game"),
		"size":   board.Size(),
		"scores": out,
	})
}

func (s *Server) stats(c *gin.Context) {
	r, ok := rankedGame(c)
	if !ok {
		return
	}
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history unavailable"})
		return
	}

	st, err := s.history.GetStats(r.LeaderboardKey())
	if err != nil {
		s.logger.Error("cannot read stats", "key", r.LeaderboardKey(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read stats"})
		return
	}

	body := gin.H{
		"game":    c.Param("game"),
		"runs":    st.Runs,
		"best":    st.Best,
		"average": st.Average,
		"total":   st.Total,
	}
	if !st.LastPlayed.IsZero() {
		body["last_played"] = st.LastPlayed.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}

type runJSON struct {
	Name      string  `json:"name"`
	Time      float64 `json:"time"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func (s *Server) runs(c *gin.Context) {
	r, ok := rankedGame(c)
	if !ok {
		return
	}
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history unavailable"})
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, 100)
	}

	runs, err := s.history.RecentRuns(r.LeaderboardKey(), limit)
	if err != nil {
		s.logger.Error("cannot read runs", "key", r.LeaderboardKey(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read runs"})
		return
	}

	out := make([]runJSON, len(runs))
	for i, run := range runs {
		out[i] = runJSON{Name: run.Name, Time: run.Seconds}
		if !run.CreatedAt.IsZero() {
			out[i].CreatedAt = run.CreatedAt.UTC().Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, gin.H{"game": c.Param("game"), "runs": out})
}
