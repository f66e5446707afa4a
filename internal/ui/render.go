package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bgStyle renders segments on one background color. lipgloss resets the
// background after every styled segment, so spaces between segments are
// painted explicitly.
type bgStyle struct {
	bg    lipgloss.Color
	space string
}

func newBgStyle(color string) bgStyle {
	bg := lipgloss.Color(color)
	return bgStyle{bg: bg, space: lipgloss.NewStyle().Background(bg).Render(" ")}
}

// Render styles text word by word so inner spaces keep the background.
func (b bgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return style.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b bgStyle) Spaces(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

func (b bgStyle) Sep(sep string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(sep)
}

// Fill pads rendered content to width with the background color.
func (b bgStyle) Fill(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// renderTitledBox draws content in a box with the title set into the top
// border: ┌─── Title ───┐
func renderTitledBox(theme Theme, title, content string, width, height int, focused bool) string {
	borderColor, bgColor := theme.Border, theme.SurfaceAlt
	if focused {
		borderColor, bgColor = theme.BorderFocus, theme.FocusBg
	}
	bg := newBgStyle(bgColor)
	border := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Text))

	inner := max(width-2, 0)
	title = truncate(title, max(inner-4, 1))
	titleLen := len([]rune(title))
	left := max((inner-titleLen-2)/2, 0)
	right := max(inner-titleLen-2-left, 0)

	top := bg.Render("┌", border) +
		bg.Render(strings.Repeat("─", left), border) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", right), border) +
		bg.Render("┐", border)
	bottom := bg.Render("└", border) +
		bg.Render(strings.Repeat("─", inner), border) +
		bg.Render("┘", border)

	lines := strings.Split(content, "\n")
	rows := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, bg.Render("│", border)+bg.Fill(line, inner)+bg.Render("│", border))
	}
	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// truncate shortens a string to limit runes, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to width runes.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if width <= 0 || n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
