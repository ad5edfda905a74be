package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

type view int

const (
	viewMenu view = iota
	viewGame
	viewScores
)

// SessionModel manages the full session flow: menu -> game -> scoreboard.
// It is the top-level model for local play and for SSH sessions.
type SessionModel struct {
	svc       Services
	config    core.RuntimeConfig
	username  string
	view      view
	menu      MenuModel
	gameModel *GameModel
	scores    *ScoreboardModel
	quitting  bool
}

// NewSessionModel creates a session. If startGame names a registered game
// the session opens straight into it.
func NewSessionModel(svc Services, cfg core.RuntimeConfig, username, startGame string) SessionModel {
	m := SessionModel{
		svc:      svc,
		config:   cfg,
		username: username,
		menu:     NewMenuModel(svc, cfg),
	}
	if startGame != "" {
		if game, err := registry.Create(startGame); err == nil {
			gm := NewGameModel(game, svc, cfg)
			gm.defaultName = username
			m.gameModel = &gm
			m.view = viewGame
		}
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.view == viewGame {
		return m.gameModel.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
		if m.view != viewMenu {
			newMenu, _ := m.menu.Update(msg)
			m.menu = newMenu.(MenuModel)
		}
		if m.view != viewGame && m.gameModel != nil {
			newModel, _ := m.gameModel.Update(msg)
			gm := newModel.(GameModel)
			m.gameModel = &gm
		}
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	m.menu = newMenu.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.menu.openScoreboard = false
		return m.openScores("")
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu.selected = nil
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			return m, nil
		}

		m.config = m.menu.Config()
		gm := NewGameModel(game, m.svc, m.config)
		gm.defaultName = m.username
		m.gameModel = &gm
		m.view = viewGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	gm := newModel.(GameModel)
	m.gameModel = &gm

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}

	if m.gameModel.WantsScores() {
		m.gameModel.wantsScores = false
		return m.openScores(m.gameModel.game.ID())
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open. Going back
// returns to the game-over menu if a game is open, otherwise to the menu.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	sm := newModel.(ScoreboardModel)
	m.scores = &sm

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		m.scores = nil
		if m.gameModel != nil {
			m.view = viewGame
			return m, nil
		}
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) openScores(gameID string) (tea.Model, tea.Cmd) {
	sm := NewScoreboardModel(m.svc, gameID, m.config.ScreenW, m.config.ScreenH)
	m.scores = &sm
	m.view = viewScores
	return m, sm.Init()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.gameModel = nil
	m.view = viewMenu
	// Rebuild so best times are current
	m.menu = NewMenuModel(m.svc, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.gameModel.View()
	case viewScores:
		return m.scores.View()
	}
	return m.menu.View()
}

// Run starts a local session in the terminal. With startGame set the
// session opens straight into that game.
func Run(svc Services, cfg core.RuntimeConfig, startGame string) error {
	model := NewSessionModel(svc, cfg, "", startGame)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
