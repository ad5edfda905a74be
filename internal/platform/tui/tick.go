// Package tui provides the Bubble Tea integration for the arcade platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshRate is how often the host asks for a frame, like a display
// refresh. The game's FrameGate decides which of these become ticks.
const refreshRate = 120

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends the next frame callback.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/refreshRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
