package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - steer left (held)
	ActionRight          // D, Right arrow - steer right (held)
	ActionFire           // Space - shoot
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
	ActionAny            // Any other key; only used to leave the start screen
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionAny:
		return "Any"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of actions active during one simulation tick.
// Held actions (steering) and edge actions (fire, pause) share the set; the
// platform decides how long a held action stays set. The zero value is empty
// and frames copy by value.
type InputFrame struct {
	bits uint32
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	f.bits |= 1 << uint(a)
}

// Has reports whether a is active.
func (f InputFrame) Has(a Action) bool {
	return f.bits&(1<<uint(a)) != 0
}

// Any reports whether at least one action other than None is active.
func (f InputFrame) Any() bool {
	return f.bits&^1 != 0
}

// Clear empties the frame.
func (f *InputFrame) Clear() {
	f.bits = 0
}

// Clone returns a copy of the frame.
func (f InputFrame) Clone() InputFrame {
	return f
}
