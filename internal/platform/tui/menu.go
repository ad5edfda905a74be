package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Best   string // Best recorded time, empty for unranked games or empty boards
}

// MenuModel is the Bubble Tea model for the game picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	svc            Services
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(svc Services, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))

	for _, info := range games {
		item := MenuItem{GameID: info.ID, Title: info.Title}
		if info.Ranked {
			if g, err := registry.Create(info.ID); err == nil {
				if b := svc.board(g); b != nil {
					if best, ok := b.Best(); ok {
						item.Best = fmt.Sprintf("%.2fs", best.Time)
					}
				}
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		svc:       svc,
		config:    cfg,
		keyMapper: NewKeyMapper(svc.Controls),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

var menuBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(1, 3)

// View renders the menu: one line per game with its record, if any.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleW := 0
	for _, item := range m.items {
		titleW = max(titleW, lipgloss.Width(item.Title))
	}

	lines := make([]string, 0, len(m.items))
	for i, item := range m.items {
		line := fmt.Sprintf("  %-*s", titleW, item.Title)
		if i == m.cursor {
			line = titleStyle.Render(fmt.Sprintf("> %-*s", titleW, item.Title))
		}
		if item.Best != "" {
			line += hintStyle.Render("   record " + item.Best)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "No games registered.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("F L A P P Y   P L A N E S", m.width)))
	b.WriteString("\n\n")
	for _, line := range strings.Split(menuBoxStyle.Render(strings.Join(lines, "\n")), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(centerText(m.keyMapper.Controls().Hint()+"  |  Enter play  |  Tab leaderboard  |  Q quit", m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
