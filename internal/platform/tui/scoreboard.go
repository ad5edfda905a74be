package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-planes/internal/core"
	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
	"github.com/vovakirdan/flappy-planes/internal/registry"
)

// scoreKeys are the scoreboard bindings, shown by the help bar.
type scoreKeys struct {
	Scroll key.Binding
	Game   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Game, k.Back, k.Quit}
}

func (k scoreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreKeys() scoreKeys {
	return scoreKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Game:   key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab", "shift+tab"), key.WithHelp("←/→", "game")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// ScoreboardModel shows the leaderboards of the ranked games, one at a time.
type ScoreboardModel struct {
	games   []registry.GameInfo // Ranked games only
	current int
	svc     Services
	board   *leaderboard.Board
	entries []leaderboard.Entry
	table   table.Model
	help    help.Model
	keys    scoreKeys
	width   int
	height  int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel opens on gameID, or on the first ranked game when
// gameID is empty or not ranked.
func NewScoreboardModel(svc Services, gameID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		svc:    svc,
		help:   help.New(),
		keys:   newScoreKeys(),
		width:  width,
		height: height,
	}
	for _, g := range registry.List() {
		if !g.Ranked {
			continue
		}
		if g.ID == gameID {
			m.current = len(m.games)
		}
		m.games = append(m.games, g)
	}

	m.table = m.newTable()
	m.load()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	nameWidth := core.Clamp(m.width-30, 10, 24)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Name", Width: nameWidth},
			{Title: "Time", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the leaderboard of the current game.
func (m *ScoreboardModel) load() {
	m.board, m.entries = nil, nil
	if len(m.games) > 0 {
		if g, err := registry.Create(m.games[m.current].ID); err == nil {
			m.board = m.svc.board(g)
		}
	}
	if m.board != nil {
		m.entries = m.board.List()
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), e.Name, fmt.Sprintf("%.2f s", e.Time)}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// cycle moves to another ranked game.
func (m *ScoreboardModel) cycle(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.games)) % len(m.games)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Game):
			switch msg.String() {
			case "left", "h", "shift+tab":
				m.cycle(-1)
			default:
				m.cycle(1)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.newTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("LEADERBOARD", m.width)))
	b.WriteString("\n\n")

	if len(m.games) == 0 {
		b.WriteString(centerText("No game keeps a leaderboard.", m.width))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.games) > 1 {
		tabs := make([]string, len(m.games))
		for i, g := range m.games {
			if i == m.current {
				tabs[i] = activeTabStyle.Render(g.Title)
			} else {
				tabs[i] = tabStyle.Render(g.Title)
			}
		}
		b.WriteString(centerText(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width))
		b.WriteString("\n\n")
	} else {
		b.WriteString(centerText(m.games[0].Title, m.width))
		b.WriteString("\n\n")
	}

	var content string
	if len(m.entries) == 0 {
		content = emptyStyle.Render(leaderboard.EmptyText)
	} else {
		content = m.table.View()
	}
	for _, line := range strings.Split(boardStyle.Render(content), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(centerText(m.summary(), m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	return b.String()
}

// summary describes the board below the table.
func (m ScoreboardModel) summary() string {
	if m.board == nil {
		return "Leaderboard unavailable"
	}
	best, ok := m.board.Best()
	if !ok {
		return fmt.Sprintf("Top %d longest flights", m.board.Size())
	}
	return fmt.Sprintf("Top %d longest flights  |  record %.2fs by %s",
		m.board.Size(), best.Time, best.Name)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
