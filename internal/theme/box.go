package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TitledBox renders content inside a single-line frame with title embedded
// in the top border: ┌─── Title ───┐. Focused boxes use the focus border and
// background. Content is padded or cut to fill height.
func TitledBox(th Theme, title, content string, width, height int, focused bool) string {
	borderColor, bgColor := th.Border, th.SurfaceAlt
	if focused {
		borderColor, bgColor = th.BorderFocus, th.FocusBg
	}
	bg := NewBg(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.Text))

	innerWidth := max(width-2, 0)
	title = Truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	rows := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	if len(rows) == 0 {
		return top + "\n" + bottom
	}
	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// Truncate shortens value to limit runes, ending in "..." when cut.
func Truncate(value string, limit int) string {
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
