package player

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// simFallbackDuration stands in for a decoder-measured length when a track
// carries no duration metadata.
const simFallbackDuration = 3 * time.Minute

// SimConfig tunes the simulated engine. Tests shrink the intervals.
type SimConfig struct {
	Buffer    int
	Tick      time.Duration
	LoadDelay time.Duration
}

func DefaultSimConfig() SimConfig {
	return SimConfig{Buffer: 16, Tick: time.Second, LoadDelay: 150 * time.Millisecond}
}

type simCmdKind int

const (
	simCmdLoad simCmdKind = iota
	simCmdPlay
	simCmdPause
	simCmdSeek
	simCmdSetVolume
	simCmdUnload
)

type simCmd struct {
	kind simCmdKind
	ref  TrackRef
	pos  time.Duration
	vol  float64
}

// SimEngine emulates an audio backend: loads settle after a short delay and
// then report metadata, position advances in real time while playing, and a
// track without data fails its load. All state lives in the loop goroutine;
// the exported methods only enqueue commands.
type SimEngine struct {
	mu      sync.Mutex
	cfg     SimConfig
	log     zerolog.Logger
	cmds    chan simCmd
	out     chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewSimEngine(cfg SimConfig, log zerolog.Logger) *SimEngine {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if cfg.LoadDelay < 0 {
		cfg.LoadDelay = 0
	}
	return &SimEngine{
		cfg:    cfg,
		log:    log,
		cmds:   make(chan simCmd, cfg.Buffer),
		out:    make(chan Event, cfg.Buffer),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *SimEngine) C() <-chan Event {
	return e.out
}

func (e *SimEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

func (e *SimEngine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *SimEngine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *SimEngine) Load(ref TrackRef) { e.send(simCmd{kind: simCmdLoad, ref: ref}) }

func (e *SimEngine) Play() { e.send(simCmd{kind: simCmdPlay}) }

func (e *SimEngine) Pause() { e.send(simCmd{kind: simCmdPause}) }

func (e *SimEngine) Seek(pos time.Duration) { e.send(simCmd{kind: simCmdSeek, pos: pos}) }

func (e *SimEngine) SetVolume(v float64) { e.send(simCmd{kind: simCmdSetVolume, vol: v}) }

func (e *SimEngine) Unload() { e.send(simCmd{kind: simCmdUnload}) }

func (e *SimEngine) send(c simCmd) {
	select {
	case e.cmds <- c:
	case <-e.stopCh:
	}
}

func (e *SimEngine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.cfg.Tick)
	defer ticker.Stop()

	var (
		cur       TrackRef
		loaded    bool
		playing   bool
		pos       time.Duration
		duration  time.Duration
		loadTimer *time.Timer
		loadC     <-chan time.Time
	)

	for {
		select {
		case cmd := <-e.cmds:
			switch cmd.kind {
			case simCmdLoad:
				cur = cmd.ref
				loaded = false
				playing = false
				pos = 0
				duration = 0
				loadTimer = resetSimTimer(loadTimer, e.cfg.LoadDelay)
				loadC = loadTimer.C
			case simCmdPlay:
				if loaded {
					playing = true
				}
			case simCmdPause:
				playing = false
			case simCmdSeek:
				if loaded {
					pos = cmd.pos
					if pos < 0 {
						pos = 0
					}
					if pos > duration {
						pos = duration
					}
				}
			case simCmdSetVolume:
				e.log.Debug().Float64("volume", cmd.vol).Msg("sim volume set")
			case simCmdUnload:
				cur = TrackRef{}
				loaded = false
				playing = false
				pos = 0
				duration = 0
				if loadC != nil {
					stopSimTimer(loadTimer)
					loadC = nil
				}
			}

		case <-loadC:
			loadC = nil
			if cur.ID == "" {
				break
			}
			if !cur.HasData {
				e.log.Debug().Str("track_id", cur.ID).Msg("sim load failed: no data")
				e.emit(EventLoadFailed{TrackID: cur.ID, Err: errors.New("player: no media data")}, true)
				cur = TrackRef{}
				break
			}
			loaded = true
			duration = cur.Duration
			if duration <= 0 {
				duration = simFallbackDuration
			}
			e.emit(EventLoaded{TrackID: cur.ID, Duration: duration}, true)

		case <-ticker.C:
			if !loaded || !playing {
				break
			}
			pos += e.cfg.Tick
			if pos >= duration {
				pos = duration
				playing = false
				e.emit(EventEnded{TrackID: cur.ID}, true)
				break
			}
			e.emit(EventProgress{TrackID: cur.ID, Position: pos}, false)

		case <-e.stopCh:
			if loadC != nil {
				stopSimTimer(loadTimer)
			}
			return
		}
	}
}

// emit delivers an event. Progress is droppable when the consumer lags;
// lifecycle events block so the transport never misses one.
func (e *SimEngine) emit(ev Event, critical bool) {
	if critical {
		select {
		case e.out <- ev:
		case <-e.stopCh:
		}
		return
	}
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func resetSimTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopSimTimer(timer)
	timer.Reset(d)
	return timer
}

func stopSimTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
