package player

import "time"

type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Off"
	}
}

// Next cycles Off -> All -> One -> Off, the order the settings editor steps
// through.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "All":
		return RepeatAll
	case "One":
		return RepeatOne
	default:
		return RepeatOff
	}
}

// TrackRef is the transport's view of a track: identity and display metadata,
// no media bytes. HasData tells the engine whether there is anything to
// decode; a ref without data fails its load, which the transport heals by
// skipping.
type TrackRef struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	HasData  bool
}

// State is a value snapshot of the transport. Queue is a copy; mutating it
// does not touch the transport.
type State struct {
	Queue    []TrackRef
	Index    int
	Playing  bool
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Shuffle  bool
	Repeat   RepeatMode
}

// Current returns the queue entry at Index.
func (s State) Current() (TrackRef, bool) {
	if s.Index < 0 || s.Index >= len(s.Queue) {
		return TrackRef{}, false
	}
	return s.Queue[s.Index], true
}
