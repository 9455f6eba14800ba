// Package bounce simulates the Bounce mini-game: a ball inside a circular
// arena, kept alive by a paddle arc the player rotates around the rim.
package bounce

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	// ArenaRadius bounds ball coordinates to [-ArenaRadius, ArenaRadius].
	ArenaRadius = 50.0
	// PaddleArcDeg is the angular width of the paddle.
	PaddleArcDeg = 56.0
	// PaddleStepDeg is how far one scroll click rotates the paddle.
	PaddleStepDeg = 6.0

	baseSpeed     = 30.0 // world units per second
	speedGrowth   = 1.06
	maxSpeedCap   = baseSpeed * 2.5
	maxDeflectDeg = 60.0
	rimInset      = 0.5
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game-over"
	default:
		return "idle"
	}
}

// ScoreStore persists the high score. The engine only ever writes a value
// greater than the one it loaded.
type ScoreStore interface {
	HighScore() int
	SetHighScore(score int) error
}

// Snapshot is the render-visible copy of the simulation. The engine's own
// fields stay authoritative; a snapshot is taken per frame and never written
// back.
type Snapshot struct {
	Phase     Phase
	Score     int
	HighScore int
	PaddleDeg float64
	BallX     float64
	BallY     float64
	DX        float64
	DY        float64
	Speed     float64
}

// AdvanceResult reports what one tick did, so the controller can react
// without diffing snapshots.
type AdvanceResult struct {
	Hit          bool
	GameOver     bool
	NewHighScore bool
}

type Engine struct {
	store ScoreStore
	log   zerolog.Logger
	rng   *rand.Rand

	phase     Phase
	score     int
	highScore int
	paddleDeg float64
	ballX     float64
	ballY     float64
	dx        float64
	dy        float64
	speed     float64
}

func NewEngine(store ScoreStore, log zerolog.Logger, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	high := 0
	if store != nil {
		high = store.HighScore()
	}
	return &Engine{
		store:     store,
		log:       log,
		rng:       rng,
		phase:     PhaseIdle,
		highScore: high,
		paddleDeg: 90,
	}
}

// Start begins a new round from idle or game-over. The high score survives;
// everything else resets and the ball launches from the center in a random
// direction.
func (e *Engine) Start() {
	if e.phase == PhasePlaying || e.phase == PhasePaused {
		return
	}
	e.score = 0
	e.speed = baseSpeed
	e.ballX = 0
	e.ballY = 0
	angle := e.rng.Float64() * 2 * math.Pi
	e.dx = math.Cos(angle)
	e.dy = math.Sin(angle)
	e.phase = PhasePlaying
}

func (e *Engine) Pause() {
	if e.phase == PhasePlaying {
		e.phase = PhasePaused
	}
}

func (e *Engine) Resume() {
	if e.phase == PhasePaused {
		e.phase = PhasePlaying
	}
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// MovePaddle rotates the paddle by whole scroll clicks, wrapping at 360.
func (e *Engine) MovePaddle(steps int) {
	if e.phase != PhasePlaying && e.phase != PhasePaused {
		return
	}
	e.paddleDeg = wrapDeg(e.paddleDeg + float64(steps)*PaddleStepDeg)
}

// Advance integrates one frame. Within the tick the order is fixed:
// integration, then collision, then phase transition, then the high-score
// write.
func (e *Engine) Advance(dt time.Duration) AdvanceResult {
	if e.phase != PhasePlaying || dt <= 0 {
		return AdvanceResult{}
	}

	step := e.speed * dt.Seconds()
	e.ballX += e.dx * step
	e.ballY += e.dy * step

	dist := math.Hypot(e.ballX, e.ballY)
	if dist < ArenaRadius {
		return AdvanceResult{}
	}

	impactDeg := wrapDeg(math.Atan2(e.ballY, e.ballX) * 180 / math.Pi)
	offset := angleDiff(impactDeg, e.paddleDeg)
	if math.Abs(offset) <= PaddleArcDeg/2 {
		e.reflect(impactDeg, offset, dist)
		e.score++
		e.speed = math.Min(e.speed*speedGrowth, maxSpeedCap)
		return AdvanceResult{Hit: true}
	}

	e.phase = PhaseGameOver
	res := AdvanceResult{GameOver: true}
	if e.score > e.highScore {
		e.highScore = e.score
		res.NewHighScore = true
		if e.store != nil {
			if err := e.store.SetHighScore(e.score); err != nil {
				e.log.Warn().Err(err).Int("score", e.score).Msg("failed to persist high score")
			}
		}
	}
	return res
}

// reflect sends the ball back inward. Where it met the paddle decides the
// outgoing direction: dead center returns straight along the normal, the
// paddle edges bend the bounce up to maxDeflectDeg off it.
func (e *Engine) reflect(impactDeg, offset, dist float64) {
	outDeg := impactDeg + 180 + (offset/(PaddleArcDeg/2))*maxDeflectDeg
	outRad := outDeg * math.Pi / 180
	e.dx = math.Cos(outRad)
	e.dy = math.Sin(outRad)

	// Reposition just inside the rim along the impact normal so the next
	// tick cannot re-trigger the same crossing.
	scale := (ArenaRadius - rimInset) / dist
	e.ballX *= scale
	e.ballY *= scale
}

// ResetHighScore clears the cached high score after the user reset the
// store. The monotonic rule applies to gameplay writes, not to an explicit
// reset.
func (e *Engine) ResetHighScore() {
	e.highScore = 0
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:     e.phase,
		Score:     e.score,
		HighScore: e.highScore,
		PaddleDeg: e.paddleDeg,
		BallX:     e.ballX,
		BallY:     e.ballY,
		DX:        e.dx,
		DY:        e.dy,
		Speed:     e.speed,
	}
}

// wrapDeg normalizes an angle into [0, 360).
func wrapDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleDiff returns the signed shortest distance from b to a in (-180, 180].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}
