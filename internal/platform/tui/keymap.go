package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-planes/internal/core"
)

// Controls selects the input source that triggers a jump.
type Controls string

const (
	ControlsKeyboard Controls = "keyboard" // Space jumps
	ControlsMouse    Controls = "mouse"    // Left click jumps
)

// ParseControls validates a --controls value.
func ParseControls(s string) (Controls, error) {
	switch c := Controls(s); c {
	case ControlsKeyboard, ControlsMouse:
		return c, nil
	case "":
		return ControlsKeyboard, nil
	default:
		return "", fmt.Errorf("unknown controls %q (want keyboard or mouse)", s)
	}
}

// Hint describes how to jump with these controls.
func (c Controls) Hint() string {
	if c == ControlsMouse {
		return "Click to fly"
	}
	return "Space to fly"
}

// KeyMapper translates Bubble Tea key and mouse messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	controls Controls
}

// NewKeyMapper creates a key mapper for the given control scheme.
func NewKeyMapper(controls Controls) *KeyMapper {
	if controls == "" {
		controls = ControlsKeyboard
	}
	return &KeyMapper{controls: controls}
}

// Controls returns the active control scheme.
func (km *KeyMapper) Controls() Controls {
	return km.controls
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case " ":
		if km.controls == ControlsKeyboard {
			return core.ActionJump, false
		}
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapMouse translates a mouse message to an action. Only a left-button
// press under mouse controls jumps.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) core.Action {
	if km.controls != ControlsMouse {
		return core.ActionNone
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return core.ActionJump
	}
	return core.ActionNone
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}

// OverAction is a choice on the game-over menu.
type OverAction int

const (
	OverActionNone OverAction = iota
	OverActionRestart
	OverActionScores
	OverActionMenu
	OverActionQuit
)

// MapKeyToOverAction translates a key on the game-over menu.
func (km *KeyMapper) MapKeyToOverAction(msg tea.KeyMsg) OverAction {
	switch msg.String() {
	case "r", "enter":
		return OverActionRestart
	case "s", "tab":
		return OverActionScores
	case "b", "esc":
		return OverActionMenu
	case "q", "ctrl+c":
		return OverActionQuit
	}
	return OverActionNone
}
