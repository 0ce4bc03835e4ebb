package ui

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/songrater/internal/prefs"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
)

type fakeRemote struct {
	mu      sync.Mutex
	items   map[string][]resource.Entity
	lists   map[string]int
	created []resource.Entity
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{items: map[string][]resource.Entity{}, lists: map[string]int{}}
}

func (f *fakeRemote) List(_ context.Context, s resource.Schema) ([]resource.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[s.Name]++
	return slices.Clone(f.items[s.Name]), nil
}

func (f *fakeRemote) Create(_ context.Context, s resource.Schema, e resource.Entity) (resource.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	saved := e.WithID(int64(len(f.items[s.Name]) + 1))
	f.items[s.Name] = append(f.items[s.Name], saved)
	return saved, nil
}

func (f *fakeRemote) Update(_ context.Context, _ resource.Schema, e resource.Entity) (resource.Entity, error) {
	return e, nil
}

func (f *fakeRemote) Delete(context.Context, resource.Schema, resource.Entity) error {
	return nil
}

func (f *fakeRemote) listCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[name]
}

// drive runs cmd and feeds resulting messages back through Update until the
// chain settles. Timers (spinner frames, refresh ticks) are not followed.
func drive(m Model, cmd tea.Cmd) Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, refreshMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		}
	}
	return m
}

func press(m Model, keys string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func started(t *testing.T, remote *fakeRemote, opts Options) Model {
	t.Helper()
	opts.Remote = remote
	if opts.Store == nil {
		opts.Store = &state.Store{}
	}
	opts.RefreshEvery = time.Millisecond
	m := sized(New(opts))
	for _, cmd := range m.initCmds {
		m = drive(m, cmd)
	}
	return m
}

func TestNewLoadsOnlyUnloadedCollections(t *testing.T) {
	store := &state.Store{}
	seq := store.Begin("users")
	store.Update("users", seq, nil, nil)

	remote := newFakeRemote()
	m := New(Options{Remote: remote, Store: store})
	require.Len(t, m.initCmds, 1)

	drive(m, m.initCmds[0])
	assert.Zero(t, remote.listCount("users"))
	assert.Equal(t, 1, remote.listCount("artists"))
}

func TestInitialTabComesFromPrefs(t *testing.T) {
	m := New(Options{Prefs: prefs.Prefs{Tab: "ARTISTS"}})
	assert.Equal(t, "artists", m.Active())

	m = New(Options{Prefs: prefs.Prefs{Tab: "unknown"}})
	assert.Equal(t, "users", m.Active())
}

func TestTabSwitching(t *testing.T) {
	m := started(t, newFakeRemote(), Options{})

	m, _ = press(m, "tab")
	assert.Equal(t, "artists", m.Active())
	m, _ = press(m, "tab")
	assert.Equal(t, "users", m.Active(), "wraps")
	m, _ = press(m, "shift+tab")
	assert.Equal(t, "artists", m.Active())
	m, _ = press(m, "1")
	assert.Equal(t, "users", m.Active())
	m, _ = press(m, "9")
	assert.Equal(t, "users", m.Active(), "out of range ignored")
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := started(t, newFakeRemote(), Options{PrefsPath: path, Prefs: prefs.Defaults()})
	before := m.ThemeName()

	m, _ = press(m, "T")
	assert.NotEqual(t, before, m.ThemeName())

	saved, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.ThemeName(), saved.Theme)
}

func TestQuitSavesTabAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := started(t, newFakeRemote(), Options{PrefsPath: path, Prefs: prefs.Defaults()})

	m, _ = press(m, "2")
	m, _ = press(m, "f")
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	saved, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "artists", saved.Tab)
	assert.True(t, saved.ShowCompleted)
}

func TestEditorCapturesKeys(t *testing.T) {
	remote := newFakeRemote()
	m := started(t, remote, Options{})

	m, _ = press(m, "n")
	require.True(t, m.activeView().Editing())

	m, _ = press(m, "q")
	assert.True(t, m.activeView().Editing(), "q types into the editor")
	ed, _ := m.activeView().Editor()
	assert.Equal(t, "q", ed.Draft().Text("username"))
	m, _ = press(m, "tab")
	assert.Equal(t, "users", m.Active(), "tab moves editor focus, not tabs")

	out := m.View()
	assert.Contains(t, out, "New User")
}

func TestCreateFlowThroughShell(t *testing.T) {
	remote := newFakeRemote()
	m := started(t, remote, Options{})
	require.Equal(t, 1, remote.listCount("users"))

	m, _ = press(m, "n")
	m, _ = press(m, "a")
	m, _ = press(m, "l")
	m, _ = press(m, "i")
	m, cmd := press(m, "ctrl+s")
	m = drive(m, cmd)

	require.Len(t, remote.created, 1)
	assert.Equal(t, "ali", remote.created[0].Text("username"))
	assert.Equal(t, 2, remote.listCount("users"), "one reload after create")
	assert.Equal(t, 1, remote.listCount("artists"), "other list untouched")
	assert.False(t, m.activeView().Editing())
	assert.Len(t, m.activeView().Items(), 1)
}

func TestHelpOverlay(t *testing.T) {
	m := started(t, newFakeRemote(), Options{})

	m, _ = press(m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = press(m, "x")
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestCtrlCQuitsFromHelpOverlay(t *testing.T) {
	m := started(t, newFakeRemote(), Options{})

	m, _ = press(m, "?")
	require.True(t, m.showHelp)

	_, cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRefreshPicksUpPollerWrites(t *testing.T) {
	store := &state.Store{}
	m := started(t, newFakeRemote(), Options{Store: store})

	seq := store.Begin("users")
	store.Update("users", seq, []resource.Entity{
		resource.NewEntity(map[string]any{"username": "polled", "completed": false}).WithID(3),
	}, nil)

	next, cmd := m.Update(refreshMsg(time.Now()))
	m = next.(Model)
	assert.NotNil(t, cmd, "refresh reschedules itself")
	assert.Len(t, m.activeView().Items(), 1)
	assert.Contains(t, m.View(), "polled")
}

func TestHeaderShowsStatus(t *testing.T) {
	store := &state.Store{}
	for range 2 {
		seq := store.Begin("users")
		store.Update("users", seq, nil, assert.AnError)
	}
	m := sized(New(Options{Store: store, APIURL: "http://api.test:8000"}))

	out := m.View()
	assert.Contains(t, out, "songrater")
	assert.Contains(t, out, "1 Users")
	assert.Contains(t, out, "2 Artists")
	assert.Contains(t, out, "OFFLINE")
	assert.Contains(t, out, "http://api.test:8000")
}

func TestLogOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songrater.log")
	require.NoError(t, os.WriteFile(path, []byte("level=INFO msg=first\nlevel=ERROR msg=second\n"), 0o644))
	m := started(t, newFakeRemote(), Options{LogFile: path})

	m, cmd := press(m, "L")
	require.NotNil(t, cmd)
	m = drive(m, cmd)

	out := m.View()
	assert.Contains(t, out, "msg=first")
	assert.Contains(t, out, "msg=second")

	m, _ = press(m, "n")
	assert.False(t, m.activeView().Editing(), "list keys are inactive under the log")

	m, _ = press(m, "esc")
	assert.NotContains(t, m.View(), "msg=first")
}

func TestLogOverlayDisabledWithoutFile(t *testing.T) {
	m := started(t, newFakeRemote(), Options{})
	m, cmd := press(m, "L")
	assert.Nil(t, cmd)
	assert.False(t, m.showLogs)
}
