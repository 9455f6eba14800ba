package views

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-5 * time.Second, "0:00"},
		{42 * time.Second, "0:42"},
		{3*time.Minute + 7*time.Second, "3:07"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	got := Truncate("a very long track title", 10)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("expected empty at width 0, got %q", got)
	}
}

func TestRenderMenuEmptyShowsNoItems(t *testing.T) {
	out := RenderMenu(MenuData{})
	if !strings.Contains(out, "No items.") {
		t.Fatalf("expected the no-items affordance, got %q", out)
	}
}

func TestRenderMenuWindowsAroundCursor(t *testing.T) {
	rows := make([]MenuRow, 30)
	for i := range rows {
		rows[i] = MenuRow{Label: string(rune('A' + i))}
	}
	out := RenderMenu(MenuData{Rows: rows, Cursor: 20, Height: 5})

	if strings.Contains(out, "A") {
		t.Fatal("expected rows above the window to be scrolled out")
	}
	if !strings.Contains(out, "> U") {
		t.Fatalf("expected cursor on row U, got:\n%s", out)
	}
	if !strings.Contains(out, "more") {
		t.Fatal("expected the overflow marker")
	}
}

func TestRenderMenuShowsRatingsAndArrows(t *testing.T) {
	out := RenderMenu(MenuData{Rows: []MenuRow{
		{Label: "rated", Rating: 3},
		{Label: "submenu", HasArrow: true},
	}})
	if !strings.Contains(out, "★★★") {
		t.Fatalf("expected three stars, got:\n%s", out)
	}
	if !strings.Contains(out, ">") {
		t.Fatalf("expected submenu arrow, got:\n%s", out)
	}
}

func TestRenderGamePhaseCaptions(t *testing.T) {
	base := GameData{PaddleDeg: 90, BallX: 0, BallY: 0}
	cases := []struct {
		phase string
		want  string
	}{
		{"idle", "select to start"},
		{"paused", "resume"},
		{"game-over", "select to retry"},
		{"playing", "rotates the paddle"},
	}
	for _, c := range cases {
		d := base
		d.Phase = c.phase
		if out := RenderGame(d); !strings.Contains(out, c.want) {
			t.Fatalf("phase %q: expected caption %q in:\n%s", c.phase, c.want, out)
		}
	}
}

func TestRenderGameDrawsBallAndPaddle(t *testing.T) {
	out := RenderGame(GameData{Phase: "playing", PaddleDeg: 0, BallX: 10, BallY: -5})
	if !strings.Contains(out, "●") {
		t.Fatal("expected the ball glyph")
	}
	if !strings.Contains(out, "#") {
		t.Fatal("expected the paddle glyph")
	}
}

func TestRenderFocusIdleAndRunning(t *testing.T) {
	if out := RenderFocus(FocusData{Idle: true}); !strings.Contains(out, "press select") {
		t.Fatalf("expected idle prompt, got %q", out)
	}
	out := RenderFocus(FocusData{
		Active:    true,
		Session:   "ShortBreak",
		Remaining: 4 * time.Minute,
		Total:     5 * time.Minute,
		CycleWork: 1,
		Interval:  4,
	})
	if !strings.Contains(out, "Short Break") || !strings.Contains(out, "4:00") {
		t.Fatalf("unexpected focus body:\n%s", out)
	}
}

func TestRenderStatsEmpty(t *testing.T) {
	if out := RenderStats(StatsData{}); !strings.Contains(out, "No sessions yet.") {
		t.Fatalf("expected empty affordance, got %q", out)
	}
}

func TestRenderSearchNoMatches(t *testing.T) {
	out := RenderSearch(SearchData{Query: "zz", Letters: []rune("abc")})
	if !strings.Contains(out, "No matches.") {
		t.Fatalf("expected no-matches affordance, got %q", out)
	}
}

func TestRenderDeviceIncludesTitleAndStatus(t *testing.T) {
	out := RenderDevice(DeviceData{
		Title:  "Songs",
		Body:   "body",
		Status: "saved",
	})
	if !strings.Contains(out, "Songs") || !strings.Contains(out, "saved") {
		t.Fatalf("unexpected device render:\n%s", out)
	}
}
