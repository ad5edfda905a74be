package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// Services are shared by every model of a process or SSH server.
type Services struct {
	Boards    *leaderboard.Set // nil disables ranking
	Logger    *log.Logger
	Controls  Controls
	FrameRate int // Maximum simulation ticks per second
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// board opens the leaderboard of a ranked game, or returns nil.
func (s Services) board(game registry.Game) *leaderboard.Board {
	r, ok := game.(registry.Ranked)
	if !ok || s.Boards == nil {
		return nil
	}
	b, err := s.Boards.Board(r.LeaderboardKey(), leaderboard.WithSize(r.LeaderboardSize()))
	if err != nil {
		s.logger().Warn("leaderboard unavailable, runs will not be recorded", "game", game.ID(), "err", err)
		return nil
	}
	return b
}

type gamePhase int

const (
	phasePlaying gamePhase = iota
	phaseNamePrompt
	phaseOver
)

// GameModel runs one game: frame callbacks while playing, the name prompt
// after a ranked run ends, and the game-over menu.
type GameModel struct {
	game      registry.Game
	board     *leaderboard.Board
	svc       Services
	screen    *core.Screen
	config    core.RuntimeConfig
	gate      *core.FrameGate
	keyMapper *KeyMapper
	input     core.InputFrame
	state     core.GameState
	phase     gamePhase
	nameInput textinput.Model
	// Prefilled into the name prompt, e.g. the SSH user name
	defaultName string
	notice      string
	rank        int

	quitting    bool
	backToMenu  bool
	wantsScores bool
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, svc Services, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if svc.FrameRate > 0 {
		cfg.TickRate = svc.FrameRate
	}

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 24
	ti.Width = 24

	return GameModel{
		game:      game,
		board:     svc.board(game),
		svc:       svc,
		screen:    core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		config:    cfg,
		gate:      core.NewFrameGate(cfg.TickRate),
		keyMapper: NewKeyMapper(svc.Controls),
		input:     core.NewInputFrame(),
		nameInput: ti,
	}
}

// playHeight leaves the last terminal row for the status line.
func playHeight(h int) int {
	return core.Max(1, h-1)
}

// Init resets the game and starts frame callbacks.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.gate.Reset()
	return tickCmd()
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.phase {
		case phaseNamePrompt:
			return m.handlePromptKey(msg)
		case phaseOver:
			return m.handleOverKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.phase == phasePlaying {
			if action := m.keyMapper.MapMouse(msg); action != core.ActionNone {
				m.input.Set(action)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playHeight(msg.Height))
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	if m.phase == phaseNamePrompt {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input while playing.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.input) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only when it cannot throw away a run in flight
	_, ranked := m.game.(registry.Ranked)
	if m.input.Has(core.ActionBack) && (m.state.Paused || !m.state.Running || !ranked) {
		m.backToMenu = true
	}
	return m, nil
}

// handleTick runs one frame callback. Callbacks stop being scheduled once
// the run is over; restart schedules them again.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.phase != phasePlaying {
		return m, nil
	}

	elapsed, ok := m.gate.Advance(now)
	if !ok {
		return m, tickCmd()
	}

	result := m.game.Step(m.input, elapsed)
	m.state = result.State
	m.input.Clear()

	if result.Finished {
		return m.finish()
	}
	return m, tickCmd()
}

// finish leaves the frame loop and asks for a name if the run is ranked.
func (m GameModel) finish() (tea.Model, tea.Cmd) {
	m.svc.logger().Debug("run finished", "game", m.game.ID(), "survival", m.state.Survival)
	if m.board == nil {
		m.phase = phaseOver
		return m, nil
	}

	m.phase = phaseNamePrompt
	m.nameInput.Reset()
	m.nameInput.SetValue(m.defaultName)
	return m, m.nameInput.Focus()
}

func (m GameModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.notice = "Run not recorded"
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		m.submitName()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *GameModel) closePrompt() {
	m.nameInput.Blur()
	m.phase = phaseOver
}

// submitName records the run under the typed name. An empty name skips it.
func (m *GameModel) submitName() {
	defer m.closePrompt()

	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.notice = "Run not recorded"
		return
	}

	seconds := m.state.Survival.Seconds()
	rank, err := m.board.Record(name, seconds)
	m.rank = rank
	if err != nil {
		m.svc.logger().Error("could not save run", "name", name, "time", seconds, "err", err)
		m.notice = "Could not save your time"
		return
	}
	m.svc.logger().Info("run recorded", "name", name, "time", seconds, "rank", rank)

	if rank > 0 {
		m.notice = fmt.Sprintf("Rank #%d on the leaderboard", rank)
	} else {
		m.notice = fmt.Sprintf("Not fast enough for the top %d", m.board.Size())
	}
}

func (m GameModel) handleOverKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToOverAction(msg) {
	case OverActionRestart:
		return m.restart()
	case OverActionScores:
		m.wantsScores = true
	case OverActionMenu:
		m.backToMenu = true
	case OverActionQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// restart begins a new run with a fresh seed.
func (m GameModel) restart() (tea.Model, tea.Cmd) {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gate.Reset()
	m.input.Clear()
	m.state = m.game.State()
	m.phase = phasePlaying
	m.notice = ""
	m.rank = 0
	return m, tickCmd()
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".planes", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.svc.logger().Warn("cannot create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.svc.logger().Warn("cannot save screenshot", "err", err)
		return
	}
	m.svc.logger().Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

func (m GameModel) statusLine() string {
	switch m.phase {
	case phaseNamePrompt:
		return " Name: " + m.nameInput.View() + hintStyle.Render("  Enter save  Esc skip")
	case phaseOver:
		notice := ""
		if m.notice != "" {
			notice = titleStyle.Render(" "+m.notice) + "  "
		}
		return notice + hintStyle.Render(" R restart  S scores  B menu  Q quit")
	}

	if _, ranked := m.game.(registry.Ranked); ranked {
		return hintStyle.Render(" " + m.keyMapper.Controls().Hint() + "  P pause  B menu (paused)  Q quit")
	}
	return hintStyle.Render(" B menu  Q quit")
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// WantsScores returns true if user asked for the scoreboard from game over.
func (m GameModel) WantsScores() bool {
	return m.wantsScores
}

// Rank returns the leaderboard rank of the last recorded run, 0 if none.
func (m GameModel) Rank() int {
	return m.rank
}
