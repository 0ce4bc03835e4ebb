package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/songrater/internal/api"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/theme"
)

// View renders the list as a titled box of width x height.
func (m Model) View(th theme.Theme, width, height int) string {
	bgColor := th.FocusBg
	inner := max(width-2, 0)
	bg := theme.NewBg(bgColor)
	styles := th.Styles().WithBackground(bgColor)

	lines := []string{bg.FillLine(m.renderTabs(th, bg), inner), ""}
	if line := m.statusLine(styles, inner); line != "" {
		lines = append(lines, bg.FillLine(line, inner), "")
	}

	visible := m.VisibleSlice()
	rowsAvail := max(height-2-len(lines), 0)
	switch {
	case len(visible) == 0:
		lines = append(lines, bg.FillLine(styles.MutedText.Render(m.emptyMessage()), inner))
	default:
		start := scrollStart(m.selected, len(visible), rowsAvail)
		for i := start; i < len(visible) && i-start < rowsAvail; i++ {
			lines = append(lines, m.renderRow(th, visible[i], inner, i == m.selected))
		}
	}

	title := fmt.Sprintf("%s (%d/%d)", m.schema.Title, len(visible), len(m.items))
	return theme.TitledBox(th, title, strings.Join(lines, "\n"), width, height, true)
}

// EditorView renders the open editor, or "" when none is open.
func (m Model) EditorView(th theme.Theme, width int) string {
	if m.editor == nil {
		return ""
	}
	return m.editor.View(th, width)
}

func (m Model) renderTabs(th theme.Theme, bg theme.Bg) string {
	tab := func(label string, active bool) string {
		style := lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color(th.Muted)).
			Background(lipgloss.Color(th.SurfaceAlt))
		if active {
			style = style.Foreground(lipgloss.Color(th.Background)).
				Background(lipgloss.Color(th.Accent)).
				Bold(true)
		}
		return style.Render(label)
	}
	return tab("Incomplete", !m.filter) + bg.Spaces(1) + tab("Complete", m.filter)
}

func (m Model) statusLine(styles theme.Styles, width int) string {
	switch {
	case m.opErr != nil:
		text := fmt.Sprintf("! Could not %s %s: %s", m.failedOp, strings.ToLower(m.schema.Noun), api.Describe(m.opErr))
		return styles.DangerText.Render(theme.Truncate(text, width))
	case m.loadErr != nil:
		text := "! Could not load " + strings.ToLower(m.schema.Title) + ": " + api.Describe(m.loadErr)
		return styles.DangerText.Render(theme.Truncate(text, width))
	case m.Pending():
		return styles.InfoText.Render(m.spinner.View() + " Working...")
	}
	return ""
}

func (m Model) emptyMessage() string {
	if !m.store.Snapshot(m.schema.Name).Loaded && m.Pending() {
		return "Loading " + strings.ToLower(m.schema.Title) + "..."
	}
	if m.filter {
		return "Nothing complete yet"
	}
	return "Nothing to do. Press n to add one."
}

// renderRow formats "#id primary · secondary".
func (m Model) renderRow(th theme.Theme, e resource.Entity, width int, selected bool) string {
	bgColor := th.FocusBg
	if selected {
		bgColor = th.SelectionBg
	}
	bg := theme.NewBg(bgColor)

	idStr := "#-"
	if id, ok := e.ID(); ok {
		idStr = fmt.Sprintf("#%d", id)
	}
	primary := e.Text(m.schema.Primary)
	if strings.TrimSpace(primary) == "" {
		primary = "(untitled)"
	}
	secondary := m.secondaryText(e)

	var idStyle, textStyle, hintStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(th.SelectionText))
		idStyle, textStyle, hintStyle = sel, sel.Bold(true), sel
	} else {
		styles := th.Styles()
		idStyle, textStyle, hintStyle = styles.MutedText, styles.Text, styles.FaintText
	}

	room := max(width-len(idStr)-2, 4)
	out := bg.Render(idStr, idStyle) + bg.Spaces(1)
	if secondary == "" {
		out += bg.Render(theme.Truncate(primary, room), textStyle)
	} else {
		primaryRoom := max(room*2/3, 4)
		hintRoom := max(room-primaryRoom-3, 1)
		out += bg.Render(theme.Truncate(primary, primaryRoom), textStyle) +
			bg.Render(" · ", hintStyle) +
			bg.Render(theme.Truncate(secondary, hintRoom), hintStyle)
	}
	return bg.FillLine(out, width)
}

func (m Model) secondaryText(e resource.Entity) string {
	if m.schema.Secondary == "" {
		return ""
	}
	text := e.Text(m.schema.Secondary)
	if f, ok := m.schema.Field(m.schema.Secondary); ok && f.Masked && text != "" {
		return strings.Repeat("•", min(len([]rune(text)), 8))
	}
	return text
}

// scrollStart keeps the selected row within a window of rows lines.
func scrollStart(selected, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := selected - rows + 1
	return min(max(start, 0), total-rows)
}
