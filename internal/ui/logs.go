package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/songrater/internal/logging"
	"github.com/five82/songrater/internal/theme"
)

// logsMsg carries the tail of the log file for the log overlay.
type logsMsg struct {
	lines []string
	err   error
}

func tailLogsCmd(path string, n int) tea.Cmd {
	return func() tea.Msg {
		lines, err := logging.Tail(path, n)
		return logsMsg{lines: lines, err: err}
	}
}

// logLines is how many lines fit in the overlay body.
func (m Model) logLines() int {
	return max(m.height-chromeHeight-2, 1)
}

// renderLogs shows the tail of the log file in place of the active list.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	width := max(m.width-2, 0)

	var body string
	switch {
	case m.logErr != nil:
		body = styles.DangerText.Render("! " + m.logErr.Error())
	case len(m.logs) == 0:
		body = styles.MutedText.Render("No log output yet")
	default:
		lines := make([]string, 0, len(m.logs))
		for _, line := range m.logs {
			lines = append(lines, colorizeLogLine(m.theme, theme.Truncate(line, width)))
		}
		body = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(theme.TitledBox(m.theme, "Log · "+m.logFile, body, m.width, max(m.height-chromeHeight, 3), true))
	return b.String()
}

// colorizeLogLine tints a slog text line by its level attribute.
func colorizeLogLine(th theme.Theme, line string) string {
	color := th.Text
	switch {
	case strings.Contains(line, "level=ERROR"):
		color = th.Danger
	case strings.Contains(line, "level=WARN"):
		color = th.Warning
	case strings.Contains(line, "level=DEBUG"):
		color = th.Faint
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(line)
}
