// Package focus implements the focus timer: a pomodoro-style countdown that
// cycles work sessions with short breaks and, after a configured number of
// work sessions, a long break. The timer holds no clock of its own; the
// controller feeds it one Tick per active second.
package focus

import (
	"time"

	"github.com/hveldt/retropod/internal/model"
)

// Completed describes a finished session, ready for the session log. Elapsed
// counts ticked seconds only, so pauses and early skips shorten it.
type Completed struct {
	Type      model.SessionType
	StartedAt time.Time
	Elapsed   time.Duration
}

// Snapshot is the render-visible copy of the timer.
type Snapshot struct {
	Idle      bool
	Active    bool
	Session   model.SessionType
	Remaining time.Duration
	Total     time.Duration
	CycleWork int
}

type Timer struct {
	settings model.FocusSettings

	idle      bool
	active    bool
	session   model.SessionType
	remaining int // seconds
	total     int // seconds at session start
	elapsed   int // ticked seconds this session
	cycleWork int // completed work sessions since the last long break
	startedAt time.Time
}

func NewTimer(settings model.FocusSettings) *Timer {
	return &Timer{settings: settings, idle: true}
}

// ApplySettings swaps the configuration. A session already counting down
// keeps its original length; the new values take effect from the next one.
func (t *Timer) ApplySettings(settings model.FocusSettings) {
	t.settings = settings
}

func (t *Timer) Settings() model.FocusSettings {
	return t.settings
}

// Start begins a work session from idle. Elsewhere it behaves like Resume so
// one control can both start and unpause.
func (t *Timer) Start(now time.Time) {
	if !t.idle {
		t.Resume()
		return
	}
	t.begin(model.SessionTypeWork, now, true)
	t.cycleWork = 0
}

func (t *Timer) Pause() {
	if t.idle {
		return
	}
	t.active = false
}

func (t *Timer) Resume() {
	if t.idle || t.remaining <= 0 {
		return
	}
	t.active = true
}

// Reset abandons the current session without recording it and returns to
// idle, clearing the work-session cycle.
func (t *Timer) Reset() {
	t.idle = true
	t.active = false
	t.session = ""
	t.remaining = 0
	t.total = 0
	t.elapsed = 0
	t.cycleWork = 0
	t.startedAt = time.Time{}
}

func (t *Timer) Idle() bool {
	return t.idle
}

func (t *Timer) Active() bool {
	return t.active
}

// Tick advances one second. When the countdown reaches zero the session
// completes: the finished session is returned for logging and the next one
// is queued, active immediately only under auto-continue.
func (t *Timer) Tick(now time.Time) (Completed, bool) {
	if t.idle || !t.active {
		return Completed{}, false
	}
	if t.remaining > 0 {
		t.remaining--
		t.elapsed++
	}
	if t.remaining > 0 {
		return Completed{}, false
	}
	return t.complete(now), true
}

// Skip ends the current session early, recording its actual elapsed time,
// and advances the cycle as if it had run out.
func (t *Timer) Skip(now time.Time) (Completed, bool) {
	if t.idle {
		return Completed{}, false
	}
	return t.complete(now), true
}

func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		Idle:      t.idle,
		Active:    t.active,
		Session:   t.session,
		Remaining: time.Duration(t.remaining) * time.Second,
		Total:     time.Duration(t.total) * time.Second,
		CycleWork: t.cycleWork,
	}
}

func (t *Timer) complete(now time.Time) Completed {
	done := Completed{
		Type:      t.session,
		StartedAt: t.startedAt,
		Elapsed:   time.Duration(t.elapsed) * time.Second,
	}

	next := model.SessionTypeWork
	if t.session == model.SessionTypeWork {
		t.cycleWork++
		if t.cycleWork >= t.settings.LongBreakInterval {
			next = model.SessionTypeLongBreak
			t.cycleWork = 0
		} else {
			next = model.SessionTypeShortBreak
		}
	}
	t.begin(next, now, t.settings.AutoContinue)
	return done
}

func (t *Timer) begin(session model.SessionType, now time.Time, active bool) {
	t.idle = false
	t.session = session
	t.total = int(t.settings.Duration(session) / time.Second)
	t.remaining = t.total
	t.elapsed = 0
	t.active = active
	t.startedAt = now
}
