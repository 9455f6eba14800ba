// Package wheel turns raw press/release pairs from the select button into
// either a normal select or a long-press gesture. The decision is a race
// against a deadline: holding past it wins for the long press, and the
// eventual release of a hold must do nothing.
package wheel

import "time"

// DefaultThreshold is how long select must be held to count as a long press.
const DefaultThreshold = 550 * time.Millisecond

type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionLongPress
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionLongPress:
		return "long-press"
	default:
		return "none"
	}
}

// Recognizer tracks one in-flight press. It is driven from a single event
// loop: Press on key down, Release on key up, Fire when the scheduled
// deadline callback arrives.
type Recognizer struct {
	threshold time.Duration
	pressed   bool
	pressedAt time.Time
}

func NewRecognizer(threshold time.Duration) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Recognizer{threshold: threshold}
}

// Press begins a gesture and reports whether it was accepted; a press during
// an existing gesture (key autorepeat) is ignored.
func (r *Recognizer) Press(now time.Time) bool {
	if r.pressed {
		return false
	}
	r.pressed = true
	r.pressedAt = now
	return true
}

// Deadline is when the current press tips into a long press. The caller
// schedules Fire for this instant.
func (r *Recognizer) Deadline() time.Time {
	return r.pressedAt.Add(r.threshold)
}

// Release ends the gesture. Before the deadline it resolves to a normal
// select. At or past it the timer has logically won even if its callback has
// not been delivered yet, so the release resolves to the long press; the
// late callback then finds no gesture and does nothing.
func (r *Recognizer) Release(now time.Time) Action {
	if !r.pressed {
		return ActionNone
	}
	r.pressed = false
	if now.Sub(r.pressedAt) >= r.threshold {
		return ActionLongPress
	}
	return ActionSelect
}

// Fire is the deadline callback. It wins the race when the button is still
// held: the gesture is consumed and the following release is a no-op. Early
// or stale callbacks, including ones armed by a previous gesture, resolve to
// nothing.
func (r *Recognizer) Fire(now time.Time) Action {
	if !r.pressed {
		return ActionNone
	}
	if now.Sub(r.pressedAt) < r.threshold {
		return ActionNone
	}
	r.pressed = false
	return ActionLongPress
}

// Reset drops any in-flight gesture.
func (r *Recognizer) Reset() {
	r.pressed = false
	r.pressedAt = time.Time{}
}
