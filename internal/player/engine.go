package player

import "time"

// Engine is the audio backend contract. Calls are asynchronous: the engine
// acknowledges nothing inline and reports everything on C. Implementations
// must keep C open until Stop.
type Engine interface {
	// Load replaces the engine's track. Any prior track is discarded.
	// Outcome arrives as EventLoaded or EventLoadFailed.
	Load(ref TrackRef)
	Play()
	Pause()
	Seek(pos time.Duration)
	SetVolume(v float64)
	Unload()
	C() <-chan Event
}

// Event is what an engine reports back. Every event names the track it is
// about so consumers can drop events from a superseded load.
type Event interface {
	isEvent()
}

type EventLoaded struct {
	TrackID  string
	Duration time.Duration
}

type EventProgress struct {
	TrackID  string
	Position time.Duration
}

type EventEnded struct {
	TrackID string
}

type EventLoadFailed struct {
	TrackID string
	Err     error
}

func (EventLoaded) isEvent()     {}
func (EventProgress) isEvent()   {}
func (EventEnded) isEvent()      {}
func (EventLoadFailed) isEvent() {}
