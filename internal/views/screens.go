package views

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// MenuRow is one rendered menu line.
type MenuRow struct {
	Label    string
	Subtext  string
	HasArrow bool
	Rating   int
}

type MenuData struct {
	Rows   []MenuRow
	Cursor int
	Height int
	Theme  string
}

// RenderMenu draws a windowed menu list. An empty row set renders the
// distinct no-items affordance rather than a blank panel.
func RenderMenu(d MenuData) string {
	if len(d.Rows) == 0 {
		return "\n  No items."
	}
	p := themePalette(d.Theme)
	height := d.Height
	if height <= 0 {
		height = BodyHeight
	}

	offset := 0
	if d.Cursor >= height {
		offset = d.Cursor - height + 1
	}
	end := offset + height
	if end > len(d.Rows) {
		end = len(d.Rows)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		row := d.Rows[i]
		cursor := "  "
		if i == d.Cursor {
			cursor = "> "
		}

		suffix := ""
		if row.Rating > 0 {
			suffix = strings.Repeat("★", row.Rating)
		}
		if row.HasArrow {
			suffix += " >"
		}

		width := ScreenWidth - 4 - runewidth.StringWidth(suffix)
		line := cursor + Truncate(row.Label, width)
		if row.Subtext != "" {
			rest := width - runewidth.StringWidth(row.Label) - 3
			if rest > 3 {
				line = cursor + row.Label + " " + p.dim.Render("· "+Truncate(row.Subtext, rest))
			}
		}

		pad := ScreenWidth - 4 - lipglossWidth(line) - runewidth.StringWidth(suffix)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(line + strings.Repeat(" ", pad) + suffix + "\n")
	}
	if end < len(d.Rows) {
		b.WriteString(p.dim.Render(fmt.Sprintf("  … %d more", len(d.Rows)-end)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type NowPlayingData struct {
	Title    string
	Artist   string
	Album    string
	Index    int
	Total    int
	Position time.Duration
	Duration time.Duration
	Bar      string
	Playing  bool
	Loading  bool
	Spinner  string
	Volume   float64
	Shuffle  bool
	Repeat   string
	Rating   int
	Theme    string
}

func RenderNowPlaying(d NowPlayingData) string {
	p := themePalette(d.Theme)
	var b strings.Builder

	b.WriteString(p.dim.Render(fmt.Sprintf("%d of %d", d.Index, d.Total)) + "\n\n")
	b.WriteString(p.accent.Render(Truncate(d.Title, ScreenWidth-4)) + "\n")
	b.WriteString(Truncate(d.Artist, ScreenWidth-4) + "\n")
	b.WriteString(p.dim.Render(Truncate(d.Album, ScreenWidth-4)) + "\n")
	if d.Rating > 0 {
		b.WriteString(strings.Repeat("★", d.Rating) + "\n")
	}
	b.WriteString("\n")

	if d.Loading {
		b.WriteString(d.Spinner + " loading…\n")
	} else {
		b.WriteString(d.Bar + "\n")
		b.WriteString(fmt.Sprintf("%s / %s\n", FormatDuration(d.Position), FormatDuration(d.Duration)))
	}
	b.WriteString("\n")

	state := "▶ playing"
	if !d.Playing {
		state = "‖ paused"
	}
	flags := make([]string, 0, 3)
	flags = append(flags, state)
	if d.Shuffle {
		flags = append(flags, "⤨ shuffle")
	}
	if d.Repeat != "" && d.Repeat != "Off" {
		flags = append(flags, "⟳ "+d.Repeat)
	}
	b.WriteString(p.dim.Render(strings.Join(flags, "  ")) + "\n")
	b.WriteString(p.dim.Render(fmt.Sprintf("vol %d%%", int(math.Round(d.Volume*100)))))
	return b.String()
}

type GameData struct {
	Phase     string
	Score     int
	HighScore int
	PaddleDeg float64
	BallX     float64
	BallY     float64
	Theme     string
}

const (
	arenaCols = 41
	arenaRows = 13
	// paddleArcDeg mirrors the engine's paddle width for drawing only.
	paddleArcDeg = 56.0
	worldRadius  = 50.0
)

// RenderGame draws the circular arena: rim dots, the paddle arc, the ball.
func RenderGame(d GameData) string {
	p := themePalette(d.Theme)

	grid := make([][]rune, arenaRows)
	for r := range grid {
		grid[r] = make([]rune, arenaCols)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	// Rim and paddle, sampled around the circle. Terminal cells are about
	// twice as tall as wide, so y is compressed.
	for step := 0; step < 360; step += 3 {
		deg := float64(step)
		col, row := arenaCell(worldRadius*math.Cos(deg*math.Pi/180), worldRadius*math.Sin(deg*math.Pi/180))
		if onPaddle(deg, d.PaddleDeg) {
			grid[row][col] = '#'
		} else if grid[row][col] == ' ' {
			grid[row][col] = '·'
		}
	}

	bc, br := arenaCell(d.BallX, d.BallY)
	grid[br][bc] = '●'

	var b strings.Builder
	b.WriteString(fmt.Sprintf("score %d   best %d\n", d.Score, d.HighScore))
	for _, row := range grid {
		b.WriteString("  " + string(row) + "\n")
	}

	switch d.Phase {
	case "idle":
		b.WriteString(p.accent.Render("press select to start"))
	case "paused":
		b.WriteString(p.accent.Render("paused, play/pause to resume"))
	case "game-over":
		b.WriteString(p.accent.Render("game over, select to retry"))
	default:
		b.WriteString(p.dim.Render("scroll rotates the paddle"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func arenaCell(x, y float64) (col, row int) {
	col = int(math.Round((x/worldRadius + 1) / 2 * float64(arenaCols-1)))
	row = int(math.Round((y/worldRadius + 1) / 2 * float64(arenaRows-1)))
	if col < 0 {
		col = 0
	}
	if col >= arenaCols {
		col = arenaCols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= arenaRows {
		row = arenaRows - 1
	}
	return col, row
}

func onPaddle(deg, paddleDeg float64) bool {
	diff := math.Mod(deg-paddleDeg, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff < -180 {
		diff += 360
	}
	return math.Abs(diff) <= paddleArcDeg/2
}

type FocusData struct {
	Idle      bool
	Active    bool
	Session   string
	Remaining time.Duration
	Total     time.Duration
	Bar       string
	CycleWork int
	Interval  int
	Theme     string
}

func RenderFocus(d FocusData) string {
	p := themePalette(d.Theme)
	if d.Idle {
		return "\n  Focus Timer\n\n  press select to start a work session"
	}

	var b strings.Builder
	b.WriteString(p.accent.Render(sessionLabel(d.Session)) + "\n\n")
	b.WriteString("  " + FormatDuration(d.Remaining) + "\n")
	b.WriteString(d.Bar + "\n\n")
	if d.Active {
		b.WriteString("running\n")
	} else {
		b.WriteString(p.dim.Render("paused, select to resume") + "\n")
	}
	b.WriteString(p.dim.Render(fmt.Sprintf("work sessions this cycle: %d of %d", d.CycleWork, d.Interval)))
	return b.String()
}

func sessionLabel(session string) string {
	switch session {
	case "ShortBreak":
		return "Short Break"
	case "LongBreak":
		return "Long Break"
	default:
		return "Work"
	}
}

type StatsRow struct {
	When     string
	Type     string
	Duration time.Duration
}

type StatsData struct {
	WorkCount  int
	BreakCount int
	WorkTotal  time.Duration
	BreakTotal time.Duration
	Recent     []StatsRow
	Theme      string
}

func RenderStats(d StatsData) string {
	p := themePalette(d.Theme)
	if d.WorkCount == 0 && d.BreakCount == 0 {
		return "\n  No sessions yet."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("work    %3d sessions  %s\n", d.WorkCount, FormatDuration(d.WorkTotal)))
	b.WriteString(fmt.Sprintf("breaks  %3d sessions  %s\n", d.BreakCount, FormatDuration(d.BreakTotal)))
	if len(d.Recent) > 0 {
		b.WriteString("\n" + p.dim.Render("recent") + "\n")
		for _, row := range d.Recent {
			b.WriteString(fmt.Sprintf("%s  %-10s %s\n", row.When, sessionLabel(row.Type), FormatDuration(row.Duration)))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type SearchData struct {
	Query        string
	Letters      []rune
	LetterCursor int
	Matches      []MenuRow
	MatchCursor  int
	Theme        string
}

func RenderSearch(d SearchData) string {
	p := themePalette(d.Theme)
	var b strings.Builder

	b.WriteString("find: " + d.Query + "_\n\n")

	var strip strings.Builder
	for i, r := range d.Letters {
		if i == d.LetterCursor {
			strip.WriteString(p.accent.Render("[" + string(r) + "]"))
		} else {
			strip.WriteString(" " + string(r) + " ")
		}
		if (i+1)%13 == 0 {
			strip.WriteString("\n")
		}
	}
	b.WriteString(strip.String() + "\n\n")

	if d.Query != "" && len(d.Matches) == 0 {
		b.WriteString(p.dim.Render("  No matches."))
		return b.String()
	}
	for i, m := range d.Matches {
		if i >= 5 {
			b.WriteString(p.dim.Render(fmt.Sprintf("  … %d more", len(d.Matches)-i)))
			break
		}
		cursor := "  "
		if i == d.MatchCursor {
			cursor = "> "
		}
		line := cursor + Truncate(m.Label, ScreenWidth-6)
		if m.Subtext != "" {
			line += " " + p.dim.Render("· "+m.Subtext)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type EditorData struct {
	Label string
	Value string
	Hint  string
	Theme string
}

// RenderEditor draws the single-value setting editor.
func RenderEditor(d EditorData) string {
	p := themePalette(d.Theme)
	var b strings.Builder
	b.WriteString(p.dim.Render(d.Label) + "\n\n")
	b.WriteString("  " + p.accent.Render("‹ "+d.Value+" ›") + "\n\n")
	if d.Hint != "" {
		b.WriteString(p.dim.Render(d.Hint))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatDuration renders m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// lipglossWidth measures display width ignoring ANSI sequences.
func lipglossWidth(s string) int {
	inEscape := false
	width := 0
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width += runewidth.RuneWidth(r)
		}
	}
	return width
}
