package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/theme"
)

const (
	labelWidth = 12
	minWidth   = 36
	maxWidth   = 64
)

// Title is the modal heading, e.g. "New User" or "Edit Song #5".
func (m Model) Title() string {
	if id, ok := m.draft.ID(); ok {
		return fmt.Sprintf("Edit %s #%d", m.schema.Noun, id)
	}
	return "New " + m.schema.Noun
}

// View renders the modal box. The caller centers it over the screen.
func (m Model) View(th theme.Theme, width int) string {
	boxWidth := min(max(width*2/3, minWidth), maxWidth)
	inner := boxWidth - 6 // border + padding
	styles := th.Styles().WithBackground(th.SurfaceAlt)
	bg := theme.NewBg(th.SurfaceAlt)

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(m.Title()))
	b.WriteString("\n\n")

	for i, f := range m.schema.Fields {
		focused := i == m.focus
		label := styles.MutedText
		if focused {
			label = styles.AccentText
		}
		line := label.Width(labelWidth).Render(f.Label) + m.renderField(i, f, focused, inner-labelWidth, th)
		b.WriteString(bg.FillLine(line, inner))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := lipgloss.NewStyle().Padding(0, 2).
		Background(lipgloss.Color(th.Border)).
		Foreground(lipgloss.Color(th.Text))
	if m.onSaveButton() {
		button = button.Background(lipgloss.Color(th.Accent)).
			Foreground(lipgloss.Color(th.Background)).
			Bold(true)
	}
	b.WriteString(bg.FillLine(button.Render("Save"), inner))
	b.WriteString("\n\n")

	h := help.New()
	h.Styles.ShortKey = styles.WarningText
	h.Styles.ShortDesc = styles.FaintText
	h.Styles.ShortSeparator = styles.FaintText
	h.Width = inner
	b.WriteString(h.View(m.keys))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(th.BorderFocus)).
		BorderBackground(lipgloss.Color(th.Background)).
		Background(lipgloss.Color(th.SurfaceAlt)).
		Padding(1, 2).
		Width(boxWidth - 2).
		Render(b.String())
}

func (m Model) renderField(i int, f resource.Field, focused bool, width int, th theme.Theme) string {
	if f.Kind == resource.FieldCheckbox {
		mark := "[ ]"
		if m.draft.Bool(f.Name) {
			mark = "[x]"
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(th.SurfaceAlt)).Foreground(lipgloss.Color(th.Text))
		if focused {
			style = style.Foreground(lipgloss.Color(th.Accent)).Bold(true)
		}
		return style.Render(mark)
	}

	in := m.inputs[i]
	in.Width = max(width-2, 8)
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Text))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Faint))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent))
	bgColor := th.SurfaceAlt
	if focused {
		bgColor = th.FocusBg
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).Render(in.View())
}
