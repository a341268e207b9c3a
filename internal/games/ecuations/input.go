package ecuations

import (
	"time"

	"github.com/vovakirdan/ecuations-d/internal/core"
)

// immediateActions are handled by the session as soon as they arrive, in
// this order.
var immediateActions = []core.Action{
	core.ActionPause,
	core.ActionDebug,
	core.ActionMusic,
	core.ActionHelper,
	core.ActionShoot,
	core.ActionConfirm,
}

// InputTracker turns input frames into the controls of the kinematics loop
// and the edge actions the session handles directly.
//
// Movement is level-triggered. A frontend that reports key releases passes
// the held set in InputFrame.Held. A terminal only reports presses and key
// repeats, so a movement press also counts as held for the hold window.
// Jump is latched until the next kinematics tick consumes it.
type InputTracker struct {
	window    time.Duration
	held      map[core.Action]bool
	lastPress map[core.Action]time.Duration
	jump      bool
	locked    bool
}

// NewInputTracker creates a tracker with the given hold window.
func NewInputTracker(window time.Duration) *InputTracker {
	return &InputTracker{
		window:    window,
		held:      make(map[core.Action]bool),
		lastPress: make(map[core.Action]time.Duration),
	}
}

// Apply records a frame received at session time now and returns the edge
// actions to handle immediately. Once locked, only Confirm gets through.
func (t *InputTracker) Apply(in core.InputFrame, now time.Duration) []core.Action {
	if t.locked {
		if in.Has(core.ActionConfirm) {
			return []core.Action{core.ActionConfirm}
		}
		return nil
	}

	clear(t.held)
	for a, down := range in.Held {
		if down {
			t.held[a] = true
		}
	}
	for _, a := range []core.Action{core.ActionLeft, core.ActionRight} {
		if in.Has(a) {
			t.lastPress[a] = now
		}
	}
	// Reversing direction ends the previous key's hold at once.
	if in.Has(core.ActionLeft) && !in.Has(core.ActionRight) {
		delete(t.lastPress, core.ActionRight)
	}
	if in.Has(core.ActionRight) && !in.Has(core.ActionLeft) {
		delete(t.lastPress, core.ActionLeft)
	}
	if in.Has(core.ActionJump) {
		t.jump = true
	}

	var out []core.Action
	for _, a := range immediateActions {
		if in.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// IsHeld reports whether a movement action counts as down at time now.
func (t *InputTracker) IsHeld(a core.Action, now time.Duration) bool {
	if t.locked {
		return false
	}
	if t.held[a] {
		return true
	}
	at, ok := t.lastPress[a]
	return ok && now-at < t.window
}

// Controls returns the input for one kinematics tick and consumes the
// latched jump.
func (t *InputTracker) Controls(now time.Duration) Controls {
	c := Controls{
		Left:  t.IsHeld(core.ActionLeft, now),
		Right: t.IsHeld(core.ActionRight, now),
		Jump:  t.jump && !t.locked,
	}
	t.jump = false
	return c
}

// Lock discards everything held or latched and ignores all further input
// except Confirm.
func (t *InputTracker) Lock() {
	t.locked = true
	t.jump = false
	clear(t.held)
	clear(t.lastPress)
}

// Locked reports whether Lock was called.
func (t *InputTracker) Locked() bool {
	return t.locked
}
