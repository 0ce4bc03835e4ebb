package listview

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/songrater/internal/api"
	"github.com/five82/songrater/internal/editor"
	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
)

// Options configures a list view.
type Options struct {
	Context context.Context
	Remote  api.Collections
	Store   *state.Store // shared with other views and the poller; nil creates a private one
	Logger  *slog.Logger
	// ShowCompleted sets the initial filter.
	ShowCompleted bool
}

// Model is one list view. It is a value type; operations return the updated
// model and the command to run.
type Model struct {
	schema resource.Schema
	remote api.Collections
	store  *state.Store
	ctx    context.Context
	logger *slog.Logger

	items  []resource.Entity // last applied collection, from the store
	filter bool

	editor *editor.Model

	loadErr error // last load failure, from the store
	opErr    error  // last create/update/delete failure
	failedOp string // op that produced opErr

	loadSeq    uint64 // newest load issued by this view
	cancelLoad context.CancelFunc
	writes     int // writes in flight

	selected   int
	selectedID int64
	hasSelID   bool

	spinner spinner.Model
	keys    KeyMap
}

// New creates a list view for schema.
func New(schema resource.Schema, opts Options) Model {
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

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		schema:  schema,
		remote:  opts.Remote,
		store:   store,
		ctx:     ctx,
		logger:  logger.With(slog.String("resource", schema.Name)),
		filter:  opts.ShowCompleted,
		spinner: sp,
		keys:    DefaultKeyMap(),
	}
	m.sync()
	return m
}

// Schema returns the schema this view was built for.
func (m Model) Schema() resource.Schema {
	return m.schema
}

// Keys returns the list key bindings for help rendering.
func (m Model) Keys() KeyMap {
	return m.keys
}

// Filter returns the current completion filter.
func (m Model) Filter() bool {
	return m.filter
}

// Items returns the full collection from the last applied load.
func (m Model) Items() []resource.Entity {
	return slices.Clone(m.items)
}

// Err returns the error to show: the last write failure if any, otherwise
// the last load failure.
func (m Model) Err() error {
	if m.opErr != nil {
		return m.opErr
	}
	return m.loadErr
}

// Pending reports whether any request from this view is in flight.
func (m Model) Pending() bool {
	return m.cancelLoad != nil || m.writes > 0
}

// Editing reports whether the editor is open.
func (m Model) Editing() bool {
	return m.editor != nil
}

// Editor returns the open editor.
func (m Model) Editor() (editor.Model, bool) {
	if m.editor == nil {
		return editor.Model{}, false
	}
	return *m.editor, true
}

// EditDraft applies fn to the open editor. It is a no-op when no editor is
// open.
func (m Model) EditDraft(fn func(editor.Model) editor.Model) Model {
	if m.editor == nil {
		return m
	}
	ed := fn(*m.editor)
	m.editor = &ed
	return m
}

// Visible yields the collection entries whose completion flag equals the
// filter, in collection order. The sequence is restartable.
func (m Model) Visible() iter.Seq[resource.Entity] {
	items, schema, filter := m.items, m.schema, m.filter
	return func(yield func(resource.Entity) bool) {
		for _, e := range items {
			if !schema.Matches(e, filter) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// VisibleSlice collects Visible.
func (m Model) VisibleSlice() []resource.Entity {
	return slices.Collect(m.Visible())
}

// Selected returns the entity under the cursor.
func (m Model) Selected() (resource.Entity, bool) {
	visible := m.VisibleSlice()
	if m.selected < 0 || m.selected >= len(visible) {
		return resource.Entity{}, false
	}
	return visible[m.selected], true
}

// SetFilter switches between the incomplete (false) and complete (true)
// partitions. It does no I/O.
func (m Model) SetFilter(completed bool) Model {
	m.filter = completed
	m.reselect()
	return m
}

// Load fetches the full collection. A load already in flight from this view
// is cancelled; its result is dropped.
func (m Model) Load() (Model, tea.Cmd) {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	seq := m.store.Begin(m.schema.Name)
	m.loadSeq = seq
	m.cancelLoad = cancel

	remote, schema := m.remote, m.schema
	load := func() tea.Msg {
		if remote == nil {
			return loadedMsg{schema: schema.Name, seq: seq, err: errNoRemote}
		}
		items, err := remote.List(ctx, schema)
		return loadedMsg{schema: schema.Name, seq: seq, items: items, err: err}
	}
	return m, tea.Batch(load, m.spinner.Tick)
}

// BeginCreate opens the editor with the schema's blank template.
func (m Model) BeginCreate() Model {
	return m.openEditor(m.schema.Blank())
}

// BeginEdit opens the editor with a copy of e.
func (m Model) BeginEdit(e resource.Entity) Model {
	return m.openEditor(e)
}

// CloseEditor drops the editor and its draft.
func (m Model) CloseEditor() Model {
	m.editor = nil
	return m
}

// Submit closes the editor and persists e: an update when e has an id, a
// create otherwise. Success reloads the collection once; failure is shown
// and not retried.
func (m Model) Submit(e resource.Entity) (Model, tea.Cmd) {
	m.editor = nil
	m.opErr = nil
	m.writes++

	remote, schema, ctx := m.remote, m.schema, m.ctx
	op := opCreate
	if e.Persisted() {
		op = opUpdate
	}
	write := func() tea.Msg {
		if remote == nil {
			return writtenMsg{schema: schema.Name, op: op, entity: e, err: errNoRemote}
		}
		var (
			saved resource.Entity
			err   error
		)
		if op == opUpdate {
			saved, err = remote.Update(ctx, schema, e)
		} else {
			saved, err = remote.Create(ctx, schema, e)
		}
		if err == nil {
			e = saved
		}
		return writtenMsg{schema: schema.Name, op: op, entity: e, err: err}
	}
	return m, tea.Batch(write, m.spinner.Tick)
}

// Remove deletes e by id. Success reloads the collection once. An entity
// without an id is rejected without contacting the server.
func (m Model) Remove(e resource.Entity) (Model, tea.Cmd) {
	if !e.Persisted() {
		m.opErr = fmt.Errorf("delete %s: %w", m.schema.Noun, api.ErrNoID)
		m.failedOp = opDelete
		m.logger.Warn("delete rejected", slog.String("op", opDelete), slog.String("error", m.opErr.Error()))
		return m, nil
	}
	m.opErr = nil
	m.writes++

	remote, schema, ctx := m.remote, m.schema, m.ctx
	remove := func() tea.Msg {
		if remote == nil {
			return writtenMsg{schema: schema.Name, op: opDelete, entity: e, err: errNoRemote}
		}
		err := remote.Delete(ctx, schema, e)
		return writtenMsg{schema: schema.Name, op: opDelete, entity: e, err: err}
	}
	return m, tea.Batch(remove, m.spinner.Tick)
}

// Sync pulls the collection from the shared store. The shell calls it when
// another writer, such as the poller, has refreshed the store.
func (m Model) Sync() Model {
	m.sync()
	return m
}

func (m *Model) sync() {
	snap := m.store.Snapshot(m.schema.Name)
	m.items = snap.Items
	m.loadErr = snap.LastError
	m.reselect()
}

func (m Model) openEditor(seed resource.Entity) Model {
	name := m.schema.Name
	ed := editor.New(m.schema, seed, editor.Callbacks{
		Save: func(draft resource.Entity) tea.Cmd {
			return func() tea.Msg { return saveMsg{schema: name, draft: draft} }
		},
		Close: func() tea.Cmd {
			return func() tea.Msg { return closeMsg{schema: name} }
		},
	})
	m.editor = &ed
	return m
}

// reselect keeps the cursor on the same entity id when it is still
// visible, and clamps it otherwise.
func (m *Model) reselect() {
	visible := m.VisibleSlice()
	if len(visible) == 0 {
		m.selected = 0
		return
	}
	if m.hasSelID {
		for i, e := range visible {
			if id, ok := e.ID(); ok && id == m.selectedID {
				m.selected = i
				return
			}
		}
	}
	m.selected = min(max(m.selected, 0), len(visible)-1)
	m.rememberSelection(visible)
}

func (m *Model) moveSelection(to int) {
	visible := m.VisibleSlice()
	if len(visible) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(to, 0), len(visible)-1)
	m.rememberSelection(visible)
}

func (m *Model) rememberSelection(visible []resource.Entity) {
	m.selectedID, m.hasSelID = visible[m.selected].ID()
}

var errNoRemote = errors.New("no remote configured")
