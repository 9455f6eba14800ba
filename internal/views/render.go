// Package views renders the device screen. Every renderer consumes a plain
// data struct; nothing here reads or mutates application state.
package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ScreenWidth is the inner width of the device screen in cells.
const ScreenWidth = 46

// BodyHeight is the fixed height of the body panel, so the frame does not
// jump between screens.
const BodyHeight = 15

// Theme names accepted by DeviceData.Theme.
const (
	ThemeClassic = "classic"
	ThemeNoir    = "noir"
)

type palette struct {
	title  lipgloss.Style
	panel  lipgloss.Style
	status lipgloss.Style
	errTxt lipgloss.Style
	footer lipgloss.Style
	dim    lipgloss.Style
	accent lipgloss.Style
}

var (
	classicPalette = palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("25")).Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		errTxt: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		footer: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		accent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
	noirPalette = palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7")),
		panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("7")).Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		errTxt: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		footer: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		accent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
	}
)

func themePalette(theme string) palette {
	if theme == ThemeNoir {
		return noirPalette
	}
	return classicPalette
}

// DeviceData is the fully assembled screen: one title bar, one body, a
// status line and the key legend.
type DeviceData struct {
	Title      string
	TitleGlyph string
	Body       string
	Status     string
	IsError    bool
	Footer     string
	Theme      string
}

// RenderDevice draws the device frame around a body panel.
func RenderDevice(d DeviceData) string {
	p := themePalette(d.Theme)

	title := Truncate(d.Title, ScreenWidth-4)
	glyph := d.TitleGlyph
	pad := ScreenWidth - runewidth.StringWidth(title) - runewidth.StringWidth(glyph)
	if pad < 1 {
		pad = 1
	}
	bar := p.title.Render(" " + title + strings.Repeat(" ", pad-1) + glyph + " ")

	body := p.panel.Width(ScreenWidth).Height(BodyHeight).Render(d.Body)

	status := ""
	if d.Status != "" {
		if d.IsError {
			status = p.errTxt.Render(d.Status)
		} else {
			status = p.status.Render(d.Status)
		}
	}

	lines := []string{bar, body}
	if status != "" {
		lines = append(lines, status)
	}
	if d.Footer != "" {
		lines = append(lines, p.footer.Render(d.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders the About text. On a render failure the raw
// markdown is still readable, so it is returned as-is.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// Truncate cuts a string to the given display width, ellipsized.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
