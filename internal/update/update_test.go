package update

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hveldt/retropod/internal/bounce"
	"github.com/hveldt/retropod/internal/config"
	"github.com/hveldt/retropod/internal/focus"
	"github.com/hveldt/retropod/internal/library"
	"github.com/hveldt/retropod/internal/menu"
	"github.com/hveldt/retropod/internal/model"
	"github.com/hveldt/retropod/internal/nav"
	"github.com/hveldt/retropod/internal/player"
	"github.com/hveldt/retropod/internal/storage"
)

// fakeEngine records transport calls and lets tests inject events.
type fakeEngine struct {
	ch     chan player.Event
	loads  []player.TrackRef
	played int
	paused int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{ch: make(chan player.Event, 16)}
}

func (e *fakeEngine) Load(ref player.TrackRef) { e.loads = append(e.loads, ref) }
func (e *fakeEngine) Play()                    { e.played++ }
func (e *fakeEngine) Pause()                   { e.paused++ }
func (e *fakeEngine) Seek(time.Duration)       {}
func (e *fakeEngine) SetVolume(float64)        {}
func (e *fakeEngine) Unload()                  {}
func (e *fakeEngine) C() <-chan player.Event   { return e.ch }

var testStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	m    Model
	eng  *fakeEngine
	repo *storage.SQLiteRepository
	lib  *library.Library
	now  *time.Time
}

func newFixture(t *testing.T, files []library.File) *fixture {
	t.Helper()
	dir := t.TempDir()

	repo, err := storage.OpenSQLite(filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zerolog.Nop()
	lib := library.New(repo, log)
	if len(files) > 0 {
		if _, err := lib.Import(context.Background(), files); err != nil {
			t.Fatalf("import: %v", err)
		}
	}

	prefs, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}

	eng := newFakeEngine()
	now := testStart
	f := &fixture{
		eng:  eng,
		repo: repo,
		lib:  lib,
		now:  &now,
	}
	f.m = NewModel(Config{
		Repo:      repo,
		Library:   lib,
		Transport: player.NewTransport(eng, log, rand.New(rand.NewSource(1))),
		EngineC:   eng.C(),
		Game:      bounce.NewEngine(config.ScoreStore{Prefs: prefs}, log, rand.New(rand.NewSource(1))),
		Timer:     focus.NewTimer(model.DefaultFocusSettings()),
		Prefs:     prefs,
		Log:       log,
		Now:       func() time.Time { return *f.now },
	})
	return f
}

func testFiles(n int) []library.File {
	out := make([]library.File, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, library.File{
			Title:    "Track " + string(rune('A'+i)),
			Artist:   "Tester",
			Album:    "Fixture",
			Duration: 3 * time.Minute,
			Data:     []byte{0x01},
		})
	}
	return out
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	f.m = next.(Model)
	return cmd
}

func (f *fixture) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = f.send(t, keyMsg(k))
	}
	return cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func topRoute(f *fixture) nav.Route {
	return f.m.stack.Top().Route
}

func TestMenuNavigationPushAndPop(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, "enter")
	if _, ok := topRoute(f).(nav.MusicRoute); !ok {
		t.Fatalf("expected MusicRoute after selecting Music, got %T", topRoute(f))
	}

	f.press(t, "esc")
	if _, ok := topRoute(f).(nav.HomeRoute); !ok {
		t.Fatalf("expected HomeRoute after back, got %T", topRoute(f))
	}

	// Back at the root never empties the stack.
	f.press(t, "esc")
	if f.m.stack.Depth() != 1 {
		t.Fatalf("expected depth 1 at root, got %d", f.m.stack.Depth())
	}
}

func TestCursorRestoredAfterPop(t *testing.T) {
	f := newFixture(t, nil)

	f.press(t, "down", "enter") // Extras
	if _, ok := topRoute(f).(nav.ExtrasRoute); !ok {
		t.Fatalf("expected ExtrasRoute, got %T", topRoute(f))
	}
	f.press(t, "esc")
	if got := f.m.stack.Top().Cursor; got != 1 {
		t.Fatalf("expected home cursor restored to 1, got %d", got)
	}
}

func TestPlayStartsQueueAndJumpsToNowPlaying(t *testing.T) {
	f := newFixture(t, testFiles(3))

	refs := menu.TrackRefs(f.m.tracks)
	f.send(t, menu.PlayMsg{Context: refs, Index: 1})

	if _, ok := topRoute(f).(nav.NowPlayingRoute); !ok {
		t.Fatalf("expected NowPlayingRoute, got %T", topRoute(f))
	}
	st := f.m.transport.State()
	if !st.Playing || st.Index != 1 {
		t.Fatalf("expected playing at index 1, got playing=%v index=%d", st.Playing, st.Index)
	}
	if len(f.eng.loads) == 0 || f.eng.loads[len(f.eng.loads)-1].ID != refs[1].ID {
		t.Fatalf("expected engine load of selected track")
	}
}

func TestEnteringGamePausesMusic(t *testing.T) {
	f := newFixture(t, testFiles(2))
	f.send(t, menu.PlayMsg{Context: menu.TrackRefs(f.m.tracks), Index: 0})

	f.send(t, menu.PushMsg{Route: nav.GameRoute{}})

	st := f.m.transport.State()
	if st.Playing {
		t.Fatal("expected music paused on entering the game")
	}
	if _, ok := st.Current(); !ok {
		t.Fatal("expected current track preserved across the pause")
	}
}

func TestStartingGamePausesFocusTimer(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.FocusRoute{}})
	f.press(t, "enter")
	if !f.m.timer.Active() {
		t.Fatal("expected timer running")
	}
	f.press(t, "esc")

	f.send(t, menu.PushMsg{Route: nav.GameRoute{}})
	f.press(t, "enter")

	if f.m.timer.Active() {
		t.Fatal("expected focus timer paused when the game starts")
	}
	if f.m.game.Phase() != bounce.PhasePlaying {
		t.Fatalf("expected game playing, got %v", f.m.game.Phase())
	}
}

func TestStartingMusicPausesFocusTimer(t *testing.T) {
	f := newFixture(t, testFiles(1))

	f.send(t, menu.PushMsg{Route: nav.FocusRoute{}})
	f.press(t, "enter")
	f.press(t, "esc")

	f.send(t, menu.PlayMsg{Context: menu.TrackRefs(f.m.tracks), Index: 0})
	if f.m.timer.Active() {
		t.Fatal("expected focus timer paused when music starts")
	}
	if f.m.timer.Idle() {
		t.Fatal("expected timer paused, not reset")
	}
}

func TestQuickAddHoldGesture(t *testing.T) {
	f := newFixture(t, testFiles(2))

	f.send(t, menu.PushMsg{Route: nav.SongsRoute{}})
	f.press(t, "a")

	pl, err := f.repo.GetPlaylistByName(context.Background(), model.QuickAddPlaylistName)
	if err != nil {
		t.Fatalf("expected quick-add playlist: %v", err)
	}
	if len(pl.TrackIDs) != 1 {
		t.Fatalf("expected 1 quick-added track, got %d", len(pl.TrackIDs))
	}
	if !strings.Contains(f.m.status.Text, "added") {
		t.Fatalf("expected added status, got %q", f.m.status.Text)
	}

	// Holding the same row again reports the duplicate instead of re-adding.
	f.press(t, "a")
	pl, _ = f.repo.GetPlaylistByName(context.Background(), model.QuickAddPlaylistName)
	if len(pl.TrackIDs) != 1 {
		t.Fatalf("expected no duplicate, got %d tracks", len(pl.TrackIDs))
	}
	if !strings.Contains(f.m.status.Text, "already") {
		t.Fatalf("expected already-in status, got %q", f.m.status.Text)
	}
}

func TestEditSettingCommitsOnBack(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingWorkMinutes}})
	f.press(t, "up", "up", "esc")

	set, err := f.repo.GetFocusSettings(context.Background())
	if err != nil {
		t.Fatalf("get focus settings: %v", err)
	}
	if set.WorkMinutes != 27 {
		t.Fatalf("expected 27 work minutes persisted, got %d", set.WorkMinutes)
	}
	if f.m.timer.Settings().WorkMinutes != 27 {
		t.Fatalf("expected timer settings updated, got %d", f.m.timer.Settings().WorkMinutes)
	}
	if _, ok := topRoute(f).(nav.HomeRoute); !ok {
		t.Fatalf("expected back at home after commit, got %T", topRoute(f))
	}
}

func TestEditShuffleUpdatesTransportAndPrefs(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.EditSettingRoute{Setting: nav.SettingShuffle}})
	f.press(t, "up", "esc")

	if !f.m.transport.State().Shuffle {
		t.Fatal("expected transport shuffle on")
	}
	if !f.m.prefs.Shuffle {
		t.Fatal("expected prefs shuffle on")
	}
}

func TestFocusTickCountsDownAndLogsSkippedSession(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.FocusRoute{}})
	f.press(t, "enter")
	seq := f.m.focusSeq

	for i := 0; i < 90; i++ {
		*f.now = f.now.Add(time.Second)
		f.send(t, focusTickMsg{seq: seq})
	}
	snap := f.m.timer.Snapshot()
	if got := snap.Total - snap.Remaining; got != 90*time.Second {
		t.Fatalf("expected 90s elapsed, got %v", got)
	}

	// A tick from a retired generation must not advance the countdown.
	f.send(t, focusTickMsg{seq: seq - 1})
	if got := f.m.timer.Snapshot().Remaining; got != snap.Remaining {
		t.Fatalf("stale tick advanced the timer: %v -> %v", snap.Remaining, got)
	}

	f.press(t, "right") // skip
	sessions, err := f.repo.ListFocusSessions(context.Background(), storage.FocusSessionListFilter{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 logged session, got %d", len(sessions))
	}
	if sessions[0].Type != string(model.SessionTypeWork) || sessions[0].DurationSec != 90 {
		t.Fatalf("unexpected session record: %+v", sessions[0])
	}

	// Auto-continue is off by default: the break is queued but paused.
	if f.m.timer.Active() {
		t.Fatal("expected queued break inactive without auto-continue")
	}
	if f.m.timer.Snapshot().Session != model.SessionTypeShortBreak {
		t.Fatalf("expected short break queued, got %v", f.m.timer.Snapshot().Session)
	}
}

func TestFocusTimerSurvivesBackingOut(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.FocusRoute{}})
	f.press(t, "enter")
	seq := f.m.focusSeq
	f.press(t, "esc")

	*f.now = f.now.Add(time.Second)
	f.send(t, focusTickMsg{seq: seq})
	snap := f.m.timer.Snapshot()
	if !snap.Active || snap.Total-snap.Remaining != time.Second {
		t.Fatalf("expected timer still counting off-screen, got %+v", snap)
	}
}

func TestFrameTickAdvancesGameAndDropsStaleSeq(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.GameRoute{}})
	f.press(t, "enter")
	seq := f.m.frameSeq

	before := f.m.game.Snapshot()
	cmd := f.send(t, frameTickMsg{seq: seq, at: f.m.lastFrame.Add(frameInterval)})
	after := f.m.game.Snapshot()
	if before.BallX == after.BallX && before.BallY == after.BallY {
		t.Fatal("expected the ball to move")
	}
	if cmd == nil {
		t.Fatal("expected the frame clock re-armed while playing")
	}

	if cmd := f.send(t, frameTickMsg{seq: seq - 1, at: f.m.lastFrame.Add(frameInterval)}); cmd != nil {
		t.Fatal("expected a stale frame tick to be dropped")
	}
}

func TestBackFromGamePausesRound(t *testing.T) {
	f := newFixture(t, nil)

	f.send(t, menu.PushMsg{Route: nav.GameRoute{}})
	f.press(t, "enter")
	seq := f.m.frameSeq
	f.press(t, "esc")

	if f.m.game.Phase() != bounce.PhasePaused {
		t.Fatalf("expected game paused on back, got %v", f.m.game.Phase())
	}
	if f.m.frameSeq == seq {
		t.Fatal("expected the frame generation retired on back")
	}
}

func TestShuffleAllJumpsToNowPlaying(t *testing.T) {
	f := newFixture(t, testFiles(4))

	f.send(t, menu.ShuffleAllMsg{})

	if _, ok := topRoute(f).(nav.NowPlayingRoute); !ok {
		t.Fatalf("expected NowPlayingRoute, got %T", topRoute(f))
	}
	if f.m.stack.Depth() != 2 {
		t.Fatalf("expected home + now playing, got depth %d", f.m.stack.Depth())
	}
	st := f.m.transport.State()
	if !st.Playing || !st.Shuffle || len(st.Queue) != 4 {
		t.Fatalf("expected shuffled playback of the whole library, got %+v", st)
	}
}

func TestWipeLibraryStopsPlayback(t *testing.T) {
	f := newFixture(t, testFiles(3))
	f.send(t, menu.PlayMsg{Context: menu.TrackRefs(f.m.tracks), Index: 0})

	f.send(t, menu.WipeLibraryMsg{})

	if len(f.m.tracks) != 0 {
		t.Fatalf("expected empty track cache, got %d", len(f.m.tracks))
	}
	st := f.m.transport.State()
	if st.Playing || len(st.Queue) != 0 {
		t.Fatalf("expected stopped transport, got %+v", st)
	}
}

func TestLoadFailureSkipsTrackWithNotice(t *testing.T) {
	f := newFixture(t, nil)
	refs := []player.TrackRef{
		{ID: "bad", Title: "Broken", HasData: false},
		{ID: "good", Title: "Fine", Duration: time.Minute, HasData: true},
	}
	f.send(t, menu.PlayMsg{Context: refs, Index: 0})

	f.send(t, playerEventMsg{ev: player.EventLoadFailed{TrackID: "bad"}, ok: true})

	cur, ok := f.m.transport.Current()
	if !ok || cur.ID != "good" {
		t.Fatalf("expected transport healed onto the next track, got %+v ok=%v", cur, ok)
	}
	if !strings.Contains(f.m.status.Text, "Broken") {
		t.Fatalf("expected skip notice naming the track, got %q", f.m.status.Text)
	}
}

func TestResetHighScore(t *testing.T) {
	f := newFixture(t, nil)
	f.m.prefs.HighScore = 42

	f.send(t, menu.ResetHighScoreMsg{})

	if f.m.prefs.HighScore != 0 {
		t.Fatalf("expected prefs high score zeroed, got %d", f.m.prefs.HighScore)
	}
	if f.m.game.Snapshot().HighScore != 0 {
		t.Fatalf("expected engine high score zeroed, got %d", f.m.game.Snapshot().HighScore)
	}
}

func TestSearchTypesAndPlaysMatch(t *testing.T) {
	f := newFixture(t, testFiles(3))

	f.send(t, menu.PushMsg{Route: nav.SearchRoute{}})
	// The strip opens on 'a'; type "t" by scrolling down 19 letters.
	for i := 0; i < 19; i++ {
		f.press(t, "down")
	}
	f.press(t, "enter")
	if f.m.search.query != "t" {
		t.Fatalf("expected query %q, got %q", "t", f.m.search.query)
	}
	if len(f.m.search.matches) != 3 {
		t.Fatalf("expected all fixture tracks to match, got %d", len(f.m.search.matches))
	}

	f.press(t, " ")
	if _, ok := topRoute(f).(nav.NowPlayingRoute); !ok {
		t.Fatalf("expected playback from search, got %T", topRoute(f))
	}
	if !f.m.transport.State().Playing {
		t.Fatal("expected transport playing")
	}
}

func TestViewRendersEveryRoute(t *testing.T) {
	f := newFixture(t, testFiles(2))

	routes := []nav.Route{
		nav.MusicRoute{}, nav.SongsRoute{}, nav.ExtrasRoute{}, nav.SettingsRoute{},
		nav.GameRoute{}, nav.FocusRoute{}, nav.FocusStatsRoute{}, nav.SearchRoute{},
		nav.AboutRoute{}, nav.EditSettingRoute{Setting: nav.SettingTheme},
	}
	for _, r := range routes {
		f.send(t, menu.PushMsg{Route: r})
		if out := f.m.View(); out == "" {
			t.Fatalf("expected non-empty view for %T", r)
		}
		f.press(t, "esc")
	}
}

func TestSearchBackRubsOutBeforePopping(t *testing.T) {
	f := newFixture(t, testFiles(1))

	f.send(t, menu.PushMsg{Route: nav.SearchRoute{}})
	f.press(t, "enter") // types 'a'
	if f.m.search.query != "a" {
		t.Fatalf("expected query %q, got %q", "a", f.m.search.query)
	}

	f.press(t, "esc")
	if f.m.search.query != "" {
		t.Fatalf("expected back to rub out the letter, got %q", f.m.search.query)
	}
	if _, ok := topRoute(f).(nav.SearchRoute); !ok {
		t.Fatalf("expected to stay on search while rubbing out, got %T", topRoute(f))
	}

	f.press(t, "esc")
	if _, ok := topRoute(f).(nav.HomeRoute); !ok {
		t.Fatalf("expected pop on empty query, got %T", topRoute(f))
	}
}
