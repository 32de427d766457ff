package game

import "time"

// Key is a movement direction.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	numKeys
)

// keyNames maps terminal key names to movement keys. WASD and the arrows
// both work.
var keyNames = map[string]Key{
	"w":     KeyForward,
	"up":    KeyForward,
	"s":     KeyBackward,
	"down":  KeyBackward,
	"a":     KeyLeft,
	"left":  KeyLeft,
	"d":     KeyRight,
	"right": KeyRight,
}

// LookupKey returns the movement key bound to a terminal key name.
func LookupKey(name string) (Key, bool) {
	k, ok := keyNames[name]
	return k, ok
}

// MoveState is the set of movement keys held this frame.
type MoveState struct {
	Forward, Backward, Left, Right bool
}

// Any reports whether any movement key is held.
func (m MoveState) Any() bool {
	return m.Forward || m.Backward || m.Left || m.Right
}

// Input latches movement keys. Most terminals report presses and auto-repeat
// but never releases, so until a release has been seen a key only counts as
// held for a while after its latest press. A fresh press lasts Delay, long
// enough for the terminal's repeat to start; each repeat then lasts Hold.
type Input struct {
	Hold  time.Duration
	Delay time.Duration

	down        [numKeys]bool
	repeating   [numKeys]bool
	lastPress   [numKeys]time.Time
	gotReleases bool
}

// NewInput creates an input latch with the given repeat hold and initial
// repeat delay.
func NewInput(hold, delay time.Duration) *Input {
	return &Input{Hold: hold, Delay: delay}
}

// Press records a press or auto-repeat.
func (in *Input) Press(k Key, now time.Time) {
	if k < 0 || k >= numKeys {
		return
	}
	in.repeating[k] = in.Held(k, now)
	in.down[k] = true
	in.lastPress[k] = now
}

// Release records a key release. After the first one, presses stay held
// until released.
func (in *Input) Release(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	in.gotReleases = true
	in.down[k] = false
}

// Held reports whether k counts as held at now.
func (in *Input) Held(k Key, now time.Time) bool {
	if k < 0 || k >= numKeys || !in.down[k] {
		return false
	}
	if in.gotReleases {
		return true
	}
	window := in.Hold
	if !in.repeating[k] {
		window = max(in.Delay, in.Hold)
	}
	if now.Sub(in.lastPress[k]) > window {
		in.down[k] = false
		return false
	}
	return true
}

// State returns every movement key's held state at now.
func (in *Input) State(now time.Time) MoveState {
	return MoveState{
		Forward:  in.Held(KeyForward, now),
		Backward: in.Held(KeyBackward, now),
		Left:     in.Held(KeyLeft, now),
		Right:    in.Held(KeyRight, now),
	}
}

// Reset drops all held keys, e.g. when the pointer is released.
func (in *Input) Reset() {
	in.down = [numKeys]bool{}
}
