package bounce

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeScoreStore struct {
	high  int
	saved []int
	err   error
}

func (f *fakeScoreStore) HighScore() int { return f.high }

func (f *fakeScoreStore) SetHighScore(score int) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, score)
	f.high = score
	return nil
}

func newTestEngine(store *fakeScoreStore) *Engine {
	return NewEngine(store, zerolog.Nop(), rand.New(rand.NewSource(7)))
}

const frame = 33 * time.Millisecond

func TestStartResetsEverythingButHighScore(t *testing.T) {
	store := &fakeScoreStore{high: 12}
	e := newTestEngine(store)

	e.Start()
	s := e.Snapshot()
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", s.Phase)
	}
	if s.Score != 0 {
		t.Fatalf("score = %d, want 0", s.Score)
	}
	if s.HighScore != 12 {
		t.Fatalf("high score = %d, want 12 loaded from store", s.HighScore)
	}
	if s.BallX != 0 || s.BallY != 0 {
		t.Fatalf("ball = (%v,%v), want center", s.BallX, s.BallY)
	}
	if norm := math.Hypot(s.DX, s.DY); math.Abs(norm-1) > 1e-9 {
		t.Fatalf("launch velocity norm = %v, want 1", norm)
	}
	if s.Speed != baseSpeed {
		t.Fatalf("speed = %v, want base %v", s.Speed, baseSpeed)
	}
}

func TestStartWhilePlayingIsNoOp(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()
	e.score = 5
	e.Start()
	if e.score != 5 {
		t.Fatal("start during a round must not reset it")
	}
}

func TestMovePaddleWraps(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()
	e.paddleDeg = 0

	e.MovePaddle(-1)
	if got := e.paddleDeg; got != 360-PaddleStepDeg {
		t.Fatalf("paddle = %v, want %v", got, 360-PaddleStepDeg)
	}
	e.MovePaddle(2)
	if got := e.paddleDeg; got != PaddleStepDeg {
		t.Fatalf("paddle = %v, want %v", got, PaddleStepDeg)
	}
}

func TestHitScoresSpeedsUpAndReflectsInward(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()
	// Deterministic setup: ball flying straight at a paddle centered on 0 deg.
	e.paddleDeg = 0
	e.ballX, e.ballY = 0, 0
	e.dx, e.dy = 1, 0

	var res AdvanceResult
	for i := 0; i < 200; i++ {
		res = e.Advance(frame)
		if res.Hit || res.GameOver {
			break
		}
	}
	if !res.Hit {
		t.Fatal("expected a hit")
	}
	if res.GameOver {
		t.Fatal("a resolved hit must not also end the game")
	}

	s := e.Snapshot()
	if s.Score != 1 {
		t.Fatalf("score = %d, want 1", s.Score)
	}
	wantSpeed := baseSpeed * speedGrowth
	if math.Abs(s.Speed-wantSpeed) > 1e-9 {
		t.Fatalf("speed = %v, want %v", s.Speed, wantSpeed)
	}
	if dist := math.Hypot(s.BallX, s.BallY); dist >= ArenaRadius {
		t.Fatalf("ball not repositioned inside arena: dist = %v", dist)
	}
	// Outgoing velocity must point back toward the interior.
	if inward := s.BallX*s.DX + s.BallY*s.DY; inward >= 0 {
		t.Fatalf("ball still heading outward after hit: dot = %v", inward)
	}
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", s.Phase)
	}
}

func TestMissEndsGameAndPersistsHighScore(t *testing.T) {
	store := &fakeScoreStore{high: 0}
	e := newTestEngine(store)
	e.Start()
	e.score = 3
	e.paddleDeg = 180
	e.ballX, e.ballY = 0, 0
	e.dx, e.dy = 1, 0

	var res AdvanceResult
	for i := 0; i < 200; i++ {
		res = e.Advance(frame)
		if res.Hit || res.GameOver {
			break
		}
	}
	if !res.GameOver {
		t.Fatal("expected game over")
	}
	if res.Hit {
		t.Fatal("a miss must not also count as a hit")
	}
	if !res.NewHighScore {
		t.Fatal("expected new high score")
	}
	if e.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, want game-over", e.Phase())
	}
	if len(store.saved) != 1 || store.saved[0] != 3 {
		t.Fatalf("saved scores = %v, want [3]", store.saved)
	}
}

func TestHighScoreIsMonotonic(t *testing.T) {
	store := &fakeScoreStore{high: 10}
	e := newTestEngine(store)
	e.Start()
	e.score = 4
	e.paddleDeg = 180
	e.ballX, e.ballY = 0, 0
	e.dx, e.dy = 1, 0

	for i := 0; i < 200; i++ {
		if res := e.Advance(frame); res.GameOver {
			break
		}
	}
	if len(store.saved) != 0 {
		t.Fatalf("lower score must not be persisted, saved = %v", store.saved)
	}
	if e.Snapshot().HighScore != 10 {
		t.Fatalf("high score = %d, want 10 unchanged", e.Snapshot().HighScore)
	}
}

func TestPausedEngineDoesNotAdvance(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()
	e.Pause()
	before := e.Snapshot()
	e.Advance(frame)
	after := e.Snapshot()
	if before.BallX != after.BallX || before.BallY != after.BallY {
		t.Fatal("paused ball moved")
	}
	e.Resume()
	e.Advance(frame)
	if moved := e.Snapshot(); moved.BallX == before.BallX && moved.BallY == before.BallY {
		t.Fatal("resumed ball did not move")
	}
}

func TestBallStaysBoundedWithTrackingPaddle(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()

	for i := 0; i < 5000; i++ {
		// Cheat: keep the paddle centered on the ball's heading so every
		// crossing resolves as a hit.
		e.paddleDeg = wrapDeg(math.Atan2(e.ballY, e.ballX) * 180 / math.Pi)
		res := e.Advance(frame)
		if res.GameOver {
			t.Fatalf("tracking paddle lost at tick %d", i)
		}
		if dist := math.Hypot(e.ballX, e.ballY); dist > ArenaRadius {
			t.Fatalf("ball escaped arena at tick %d: dist = %v", i, dist)
		}
	}
	s := e.Snapshot()
	if s.Score == 0 {
		t.Fatal("expected hits over a long rally")
	}
	if s.Speed > maxSpeedCap {
		t.Fatalf("speed = %v exceeds cap %v", s.Speed, maxSpeedCap)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{})
	e.Start()
	e.phase = PhaseGameOver
	e.score = 9

	e.Start()
	s := e.Snapshot()
	if s.Phase != PhasePlaying || s.Score != 0 {
		t.Fatalf("restart gave phase=%v score=%d", s.Phase, s.Score)
	}
}

func TestStoreFailureIsNotFatal(t *testing.T) {
	store := &fakeScoreStore{err: fmt.Errorf("disk gone")}
	e := newTestEngine(store)
	e.Start()
	e.score = 2
	e.paddleDeg = 180
	e.ballX, e.ballY = 0, 0
	e.dx, e.dy = 1, 0

	for i := 0; i < 200; i++ {
		if res := e.Advance(frame); res.GameOver {
			break
		}
	}
	// The in-memory high score still advances; only the write failed.
	if e.Snapshot().HighScore != 2 {
		t.Fatalf("high score = %d, want 2", e.Snapshot().HighScore)
	}
}

func TestResetHighScoreClearsCachedBest(t *testing.T) {
	e := newTestEngine(&fakeScoreStore{high: 12})
	if e.Snapshot().HighScore != 12 {
		t.Fatalf("high score = %d, want 12", e.Snapshot().HighScore)
	}
	e.ResetHighScore()
	if e.Snapshot().HighScore != 0 {
		t.Fatalf("high score after reset = %d, want 0", e.Snapshot().HighScore)
	}
}
