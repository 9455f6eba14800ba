package player

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

var ErrNoTrack = errors.New("player: no track")

// prevRestartThreshold: beyond this position, prev restarts the current track
// instead of moving to the previous one.
const prevRestartThreshold = 3 * time.Second

// Transport owns the playback queue and drives an Engine. It is not
// goroutine-safe: all calls, including HandleEvent for events drained from
// the engine channel, must come from the one update loop.
type Transport struct {
	engine Engine
	log    zerolog.Logger
	rng    *rand.Rand

	state      State
	context    []TrackRef
	failStreak int
}

// EventResult tells the caller what an engine event did to the transport, so
// the UI can rebind now-playing info or surface a skip notice.
type EventResult struct {
	TrackChanged bool
	SkippedTitle string
	QueueEnded   bool
}

func NewTransport(engine Engine, log zerolog.Logger, rng *rand.Rand) *Transport {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Transport{
		engine: engine,
		log:    log,
		rng:    rng,
		state:  State{Index: -1, Volume: 1.0},
	}
}

// State returns a value snapshot; the queue slice is copied.
func (t *Transport) State() State {
	s := t.state
	s.Queue = make([]TrackRef, len(t.state.Queue))
	copy(s.Queue, t.state.Queue)
	return s
}

func (t *Transport) Current() (TrackRef, bool) {
	return t.state.Current()
}

// Play starts the track at index within context. The whole context becomes
// the queue; with shuffle on, the chosen track is pinned first and the rest
// is permuted.
func (t *Transport) Play(context []TrackRef, index int) error {
	if len(context) == 0 {
		return ErrNoTrack
	}
	if index < 0 || index >= len(context) {
		return fmt.Errorf("player: track index %d out of range", index)
	}

	t.context = make([]TrackRef, len(context))
	copy(t.context, context)

	if t.state.Shuffle {
		t.state.Queue = t.shuffled(t.context, index)
		t.state.Index = 0
	} else {
		t.state.Queue = make([]TrackRef, len(t.context))
		copy(t.state.Queue, t.context)
		t.state.Index = index
	}

	t.failStreak = 0
	t.state.Playing = true
	t.loadCurrent()
	return nil
}

// PlayAll starts the whole context from its first track, or from a random
// one when shuffle is on.
func (t *Transport) PlayAll(context []TrackRef) error {
	if len(context) == 0 {
		return ErrNoTrack
	}
	index := 0
	if t.state.Shuffle {
		index = t.rng.Intn(len(context))
	}
	return t.Play(context, index)
}

// TogglePause flips play/pause. With no current track it is a no-op and
// reports false.
func (t *Transport) TogglePause() bool {
	if _, ok := t.Current(); !ok {
		return false
	}
	if t.state.Playing {
		t.state.Playing = false
		t.engine.Pause()
	} else {
		t.state.Playing = true
		t.engine.Play()
	}
	return true
}

func (t *Transport) Pause() {
	if !t.state.Playing {
		return
	}
	t.state.Playing = false
	t.engine.Pause()
}

// Next advances to the following queue entry. At the end of the queue it
// wraps under repeat-all and is otherwise a no-op: the final track plays out.
func (t *Transport) Next() {
	if _, ok := t.Current(); !ok {
		return
	}
	next := t.state.Index + 1
	if next >= len(t.state.Queue) {
		if t.state.Repeat != RepeatAll {
			return
		}
		next = 0
	}
	t.state.Index = next
	t.loadCurrent()
}

// Prev restarts the current track when more than a few seconds in. Earlier
// than that it steps back one entry, mirroring Next's boundary rules: at the
// head of the queue it wraps under repeat-all and is otherwise a no-op.
func (t *Transport) Prev() {
	if _, ok := t.Current(); !ok {
		return
	}
	if t.state.Position > prevRestartThreshold {
		t.restart()
		return
	}
	prev := t.state.Index - 1
	if prev < 0 {
		if t.state.Repeat != RepeatAll {
			return
		}
		prev = len(t.state.Queue) - 1
	}
	t.state.Index = prev
	t.loadCurrent()
}

func (t *Transport) Seek(pos time.Duration) {
	if _, ok := t.Current(); !ok {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if t.state.Duration > 0 && pos > t.state.Duration {
		pos = t.state.Duration
	}
	t.state.Position = pos
	t.engine.Seek(pos)
}

func (t *Transport) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	t.state.Volume = v
	t.engine.SetVolume(v)
}

func (t *Transport) AdjustVolume(delta float64) {
	t.SetVolume(t.state.Volume + delta)
}

// Stop releases the engine and clears the queue.
func (t *Transport) Stop() {
	t.engine.Unload()
	t.state.Queue = nil
	t.context = nil
	t.state.Index = -1
	t.state.Playing = false
	t.state.Position = 0
	t.state.Duration = 0
	t.failStreak = 0
}

// SetShuffle re-derives the queue from the original context: enabling pins
// the current track first and permutes the rest, disabling restores context
// order with the current track's position preserved.
func (t *Transport) SetShuffle(on bool) {
	if on == t.state.Shuffle {
		return
	}
	t.state.Shuffle = on

	cur, ok := t.Current()
	if !ok || len(t.context) == 0 {
		return
	}
	if on {
		pin := 0
		for i, ref := range t.context {
			if ref.ID == cur.ID {
				pin = i
				break
			}
		}
		t.state.Queue = t.shuffled(t.context, pin)
		t.state.Index = 0
		return
	}
	t.state.Queue = make([]TrackRef, len(t.context))
	copy(t.state.Queue, t.context)
	t.state.Index = 0
	for i, ref := range t.state.Queue {
		if ref.ID == cur.ID {
			t.state.Index = i
			break
		}
	}
}

func (t *Transport) SetRepeat(mode RepeatMode) {
	t.state.Repeat = mode
}

// HandleEvent applies one engine event. Events for anything but the current
// track are stale leftovers of a superseded load and are dropped.
func (t *Transport) HandleEvent(ev Event) EventResult {
	cur, ok := t.Current()
	if !ok {
		return EventResult{}
	}

	switch e := ev.(type) {
	case EventLoaded:
		if e.TrackID != cur.ID {
			return EventResult{}
		}
		t.failStreak = 0
		if e.Duration > 0 {
			t.state.Duration = e.Duration
		}
		if t.state.Playing {
			t.engine.Play()
		}
	case EventProgress:
		if e.TrackID != cur.ID {
			return EventResult{}
		}
		t.state.Position = e.Position
	case EventEnded:
		if e.TrackID != cur.ID {
			return EventResult{}
		}
		if t.state.Repeat == RepeatOne {
			t.restart()
			return EventResult{}
		}
		return t.advance()
	case EventLoadFailed:
		if e.TrackID != cur.ID {
			return EventResult{}
		}
		t.failStreak++
		t.log.Warn().Str("track_id", cur.ID).Str("title", cur.Title).Err(e.Err).
			Msg("track failed to load, skipping")
		if t.failStreak >= len(t.state.Queue) {
			t.log.Error().Int("tracks", len(t.state.Queue)).
				Msg("every queue entry failed to load, stopping")
			t.engine.Unload()
			t.state.Playing = false
			t.state.Position = 0
			return EventResult{SkippedTitle: cur.Title, QueueEnded: true}
		}
		res := t.advance()
		res.SkippedTitle = cur.Title
		return res
	}
	return EventResult{}
}

// advance moves past a track that finished on its own, either played out or
// unloadable. Unlike an explicit Next, reaching the queue end here stops
// playback, resting on the final track.
func (t *Transport) advance() EventResult {
	next := t.state.Index + 1
	if next >= len(t.state.Queue) {
		if t.state.Repeat == RepeatAll && len(t.state.Queue) > 0 {
			next = 0
		} else {
			t.state.Playing = false
			t.state.Position = 0
			t.engine.Seek(0)
			t.engine.Pause()
			return EventResult{QueueEnded: true}
		}
	}
	t.state.Index = next
	t.loadCurrent()
	return EventResult{TrackChanged: true}
}

func (t *Transport) restart() {
	t.state.Position = 0
	t.engine.Seek(0)
	if t.state.Playing {
		t.engine.Play()
	}
}

func (t *Transport) loadCurrent() {
	ref := t.state.Queue[t.state.Index]
	t.state.Position = 0
	t.state.Duration = ref.Duration
	t.engine.Load(ref)
}

func (t *Transport) shuffled(context []TrackRef, pin int) []TrackRef {
	q := make([]TrackRef, 0, len(context))
	q = append(q, context[pin])
	for i, ref := range context {
		if i != pin {
			q = append(q, ref)
		}
	}
	rest := q[1:]
	t.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return q
}
