package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bg renders text so every cell, spaces included, carries one background.
// Lipgloss resets between styled segments otherwise leave gaps.
type Bg struct {
	color lipgloss.Color
	space string
}

// NewBg creates a background helper for the given color.
func NewBg(color string) Bg {
	c := lipgloss.Color(color)
	return Bg{
		color: c,
		space: lipgloss.NewStyle().Background(c).Render(" "),
	}
}

// Render applies style plus the background to text, word by word.
func (b Bg) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(b.color)
	if !strings.Contains(text, " ") {
		return styled.Render(text)
	}
	words := strings.Split(text, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			out = append(out, "")
			continue
		}
		out = append(out, styled.Render(w))
	}
	return strings.Join(out, b.space)
}

// Spaces returns n styled spaces.
func (b Bg) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.color).Render(strings.Repeat(" ", n))
}

// Join joins parts with a styled separator.
func (b Bg) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.color).Render(sep))
}

// FillLine pads rendered content to width with the background color.
func (b Bg) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.color).Width(width).Render(content)
}

// Color returns the background color.
func (b Bg) Color() lipgloss.Color {
	return b.color
}
