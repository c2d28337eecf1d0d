package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/roadrush/internal/core"
)

// Terminals send one press, wait out the keyboard repeat delay, then
// auto-repeat quickly. The first press therefore has to bridge a longer gap
// than the repeats that follow it.
const (
	// DefaultInitialHold is how long a fresh press counts as held.
	DefaultInitialHold = 500 * time.Millisecond
	// DefaultHoldTimeout is how long a key counts as held after an auto-repeat.
	DefaultHoldTimeout = 150 * time.Millisecond
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Unbound keys map to ActionAny so they can still leave the start screen.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "a", "h", "left":
		return core.ActionLeft, false
	case "d", "l", "right":
		return core.ActionRight, false
	case " ", "w", "up": // Space for shoot
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionAny, false
}

// IsHeld reports whether an action is continuous (steering) rather than
// edge-triggered.
func IsHeld(a core.Action) bool {
	return a == core.ActionLeft || a == core.ActionRight
}

// HeldKeys emulates key-up events for terminals, which only report presses.
// A press marks the action held until its window passes without a repeat.
type HeldKeys struct {
	initial time.Duration
	repeat  time.Duration
	pressed map[core.Action]heldKey
}

type heldKey struct {
	at        time.Time
	repeating bool
}

// NewHeldKeys creates a tracker. initial covers the gap between a first press
// and the terminal's first auto-repeat; repeat covers the gaps after that.
func NewHeldKeys(initial, repeat time.Duration) *HeldKeys {
	if initial < repeat {
		initial = repeat
	}
	return &HeldKeys{
		initial: initial,
		repeat:  repeat,
		pressed: make(map[core.Action]heldKey),
	}
}

// Press records a press or auto-repeat of a. A press arriving while a is
// still held is a repeat. Pressing a direction releases the opposite one
// immediately.
func (h *HeldKeys) Press(a core.Action, now time.Time) {
	switch a {
	case core.ActionLeft:
		delete(h.pressed, core.ActionRight)
	case core.ActionRight:
		delete(h.pressed, core.ActionLeft)
	}
	prev, ok := h.pressed[a]
	h.pressed[a] = heldKey{at: now, repeating: ok && h.live(prev, now)}
}

func (h *HeldKeys) live(k heldKey, now time.Time) bool {
	window := h.initial
	if k.repeating {
		window = h.repeat
	}
	return now.Sub(k.at) <= window
}

// Held reports whether a is still held at now.
func (h *HeldKeys) Held(a core.Action, now time.Time) bool {
	k, ok := h.pressed[a]
	return ok && h.live(k, now)
}

// Apply sets every still-held action on frame and forgets released ones.
func (h *HeldKeys) Apply(frame *core.InputFrame, now time.Time) {
	for a, k := range h.pressed {
		if !h.live(k, now) {
			delete(h.pressed, a)
			continue
		}
		frame.Set(a)
	}
}

// Reset releases everything.
func (h *HeldKeys) Reset() {
	clear(h.pressed)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
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
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
