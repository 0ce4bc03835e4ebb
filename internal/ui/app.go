package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/songrater/internal/api"
	"github.com/five82/songrater/internal/listview"
	"github.com/five82/songrater/internal/prefs"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
	"github.com/five82/songrater/internal/theme"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Remote       api.Collections
	Store        *state.Store
	Logger       *slog.Logger
	Schemas      []resource.Schema // empty uses resource.Builtin()
	Prefs        prefs.Prefs
	PrefsPath    string // empty disables saving preferences
	APIURL       string // shown in the header
	LogFile      string // tailed by the log overlay; empty disables it
	RefreshEvery time.Duration
}

// Model is the root application state for Bubble Tea. It hosts one list
// view per schema as tabs.
type Model struct {
	ctx          context.Context
	store        *state.Store
	logger       *slog.Logger
	prefsPath    string
	prefs        prefs.Prefs
	apiURL       string
	logFile      string
	refreshEvery time.Duration

	theme    theme.Theme
	views    []listview.Model
	active   int
	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool
	logs     []string
	logErr   error
	keys     keyMap
	help     help.Model

	initCmds []tea.Cmd
}

// New creates the root model. Collections the store has not loaded yet are
// fetched when the program starts.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schemas := opts.Schemas
	if len(schemas) == 0 {
		schemas = resource.Builtin()
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	m := Model{
		ctx:          ctx,
		store:        store,
		logger:       logger,
		prefsPath:    opts.PrefsPath,
		prefs:        opts.Prefs,
		apiURL:       opts.APIURL,
		logFile:      opts.LogFile,
		refreshEvery: refresh,
		theme:        theme.Get(opts.Prefs.Theme),
		keys:         DefaultKeyMap(),
		help:         help.New(),
	}

	for i, s := range schemas {
		view := listview.New(s, listview.Options{
			Context:       ctx,
			Remote:        opts.Remote,
			Store:         store,
			Logger:        logger,
			ShowCompleted: opts.Prefs.ShowCompleted,
		})
		if !store.Snapshot(s.Name).Loaded {
			var cmd tea.Cmd
			view, cmd = view.Load()
			m.initCmds = append(m.initCmds, cmd)
		}
		m.views = append(m.views, view)
		if strings.EqualFold(s.Name, opts.Prefs.Tab) {
			m.active = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{refreshCmd(m.refreshEvery)}, m.initCmds...)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case refreshMsg:
		// The poller may have written to the store since the last tick.
		views := make([]listview.Model, len(m.views))
		for i, view := range m.views {
			views[i] = view.Sync()
		}
		m.views = views
		cmds := []tea.Cmd{refreshCmd(m.refreshEvery)}
		if m.showLogs {
			cmds = append(cmds, tailLogsCmd(m.logFile, m.logLines()))
		}
		return m, tea.Batch(cmds...)

	case logsMsg:
		m.logs, m.logErr = msg.lines, msg.err
		return m, nil
	}

	return m.broadcast(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	if view := m.activeView(); view.Editing() {
		return m.renderEditor(view)
	}
	return m.renderMain()
}

// Active returns the schema name of the focused tab.
func (m Model) Active() string {
	return m.views[m.active].Schema().Name
}

// ThemeName returns the current theme name.
func (m Model) ThemeName() string {
	return m.theme.Name
}

// broadcast forwards a message to every view. List view messages are
// addressed by schema, so only the owner reacts.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(m.views))
	views := make([]listview.Model, len(m.views))
	for i, view := range m.views {
		var cmd tea.Cmd
		views[i], cmd = view.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.views = views
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from anywhere, overlays and the editor included.
	if msg.String() == "ctrl+c" {
		m.savePrefs()
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.activeView().Editing() {
		return m.updateActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.logFile == "" {
			return m, nil
		}
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, tailLogsCmd(m.logFile, m.logLines())
		}
		return m, nil

	case m.showLogs && key.Matches(msg, m.keys.Close):
		m.showLogs = false
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = theme.Get(theme.Next(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.showLogs = false
		m.active = (m.active + 1) % len(m.views)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.showLogs = false
		m.active = (m.active - 1 + len(m.views)) % len(m.views)
		return m, nil

	case key.Matches(msg, m.keys.Jump):
		if i := int(msg.String()[0] - '1'); i < len(m.views) {
			m.showLogs = false
			m.active = i
		}
		return m, nil
	}

	if m.showLogs {
		return m, nil
	}
	return m.updateActive(msg)
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	views := make([]listview.Model, len(m.views))
	copy(views, m.views)
	var cmd tea.Cmd
	views[m.active], cmd = views[m.active].Update(msg)
	m.views = views
	return m, cmd
}

func (m Model) activeView() listview.Model {
	return m.views[m.active]
}

// savePrefs persists theme, tab and filter. Failures are logged only.
func (m *Model) savePrefs() {
	m.prefs.Theme = m.theme.Name
	m.prefs.Tab = m.Active()
	m.prefs.ShowCompleted = m.activeView().Filter()
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", slog.String("error", err.Error()))
	}
}

// renderMain renders header, command bar and the active list.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.activeView().View(m.theme, m.width, max(m.height-chromeHeight, 3)))
	return b.String()
}

// renderEditor centers the active view's editor over the screen.
func (m Model) renderEditor(view listview.Model) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		view.EditorView(m.theme, m.width),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

type refreshMsg time.Time

func refreshCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Run starts the Bubble Tea program. Cancelling opts.Context stops it.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
