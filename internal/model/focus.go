package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidSessionType = errors.New("model: invalid focus session type")

type SessionType string

const (
	SessionTypeWork       SessionType = "Work"
	SessionTypeShortBreak SessionType = "ShortBreak"
	SessionTypeLongBreak  SessionType = "LongBreak"
)

func (s SessionType) IsValid() bool {
	switch s {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return true
	default:
		return false
	}
}

// FocusSettings is a singleton record: one row describing how the focus timer
// cycles. LongBreakInterval is the number of completed work sessions before a
// long break.
type FocusSettings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int
	AutoContinue      bool
}

func DefaultFocusSettings() FocusSettings {
	return FocusSettings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
		AutoContinue:      false,
	}
}

func (s FocusSettings) Validate() error {
	if s.WorkMinutes <= 0 {
		return errors.New("model: focus work_minutes must be positive")
	}
	if s.ShortBreakMinutes <= 0 {
		return errors.New("model: focus short_break_minutes must be positive")
	}
	if s.LongBreakMinutes <= 0 {
		return errors.New("model: focus long_break_minutes must be positive")
	}
	if s.LongBreakInterval < 1 {
		return errors.New("model: focus long_break_interval must be at least 1")
	}
	return nil
}

// Duration returns the configured length of a session of the given type.
func (s FocusSettings) Duration(st SessionType) time.Duration {
	switch st {
	case SessionTypeShortBreak:
		return time.Duration(s.ShortBreakMinutes) * time.Minute
	case SessionTypeLongBreak:
		return time.Duration(s.LongBreakMinutes) * time.Minute
	default:
		return time.Duration(s.WorkMinutes) * time.Minute
	}
}

// FocusSession is one completed timer session, append-only.
type FocusSession struct {
	ID          string
	Type        SessionType
	StartedAt   time.Time
	DurationSec int
}

func (s FocusSession) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: focus session id is required")
	}
	if !s.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSessionType, s.Type)
	}
	if s.StartedAt.IsZero() {
		return errors.New("model: focus session started_at is required")
	}
	if s.DurationSec < 0 {
		return errors.New("model: focus session duration must not be negative")
	}
	return nil
}
