package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/songrater/internal/theme"
)

// renderHeader renders the logo, the list tabs, the API status badge and the
// API URL.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := theme.NewBg(m.theme.Surface)

	parts := []string{
		bg.Render("songrater", styles.WarningText.Bold(true)),
		m.renderTabs(bg),
		styles.Badge(m.statusKind()).Render(strings.ToUpper(m.statusKind())),
	}
	if m.width >= LayoutCompactWidth && m.apiURL != "" {
		parts = append(parts, bg.Render(theme.Truncate(m.apiURL, 40), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderTabs(bg theme.Bg) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	tabs := make([]string, 0, len(m.views))
	for i, view := range m.views {
		label := fmt.Sprintf("%d %s", i+1, view.Schema().Title)
		if i == m.active {
			tabs = append(tabs, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Accent)).
				Foreground(lipgloss.Color(m.theme.Background)).
				Bold(true).
				Padding(0, 1).
				Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(" "+label+" ", styles.MutedText))
	}
	return bg.Join(tabs, " ")
}

// statusKind summarizes API health for the header badge.
func (m Model) statusKind() string {
	if m.store.Offline() {
		return "offline"
	}
	for _, view := range m.views {
		if view.Pending() {
			return "loading"
		}
	}
	for _, view := range m.views {
		if view.Err() != nil {
			return "error"
		}
	}
	return "online"
}

// renderCommandBar renders the active list's bindings followed by the
// global ones.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	h := m.help
	h.Styles.ShortKey = styles.WarningText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	h.Width = m.width

	bindings := append([]key.Binding{}, m.activeView().Keys().ShortHelp()...)
	bindings = append(bindings, m.keys.ShortHelp()...)
	return styles.Footer.Width(m.width).Render(h.ShortHelpView(bindings))
}
