// Package remote is the media-session capability: an optional binding to an
// OS now-playing surface (lock screen, media keys). The controller publishes
// the active track and a set of transport handlers; what happens with them
// is up to the bound session. The in-tree default does nothing.
package remote

import "time"

// NowPlaying is the metadata published for the active track.
type NowPlaying struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Playing  bool
}

// Handlers are the transport controls a session may invoke. Nil funcs are
// permitted and mean "not supported right now".
type Handlers struct {
	PlayPause func()
	Next      func()
	Prev      func()
}

// Session is implemented by platform bindings out of tree.
type Session interface {
	// Publish replaces the current now-playing info and handlers. Called on
	// every track change and play/pause flip.
	Publish(info NowPlaying, h Handlers)
	// Clear tears the binding down; called on stop and on quit.
	Clear()
}

type NoopSession struct{}

func (NoopSession) Publish(NowPlaying, Handlers) {}

func (NoopSession) Clear() {}
