package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/songrater/internal/resource"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// loadedMsg carries the outcome of a collection read.
type loadedMsg struct {
	schema string
	seq    uint64
	items  []resource.Entity
	err    error
}

// writtenMsg carries the outcome of a create, update or delete.
type writtenMsg struct {
	schema string
	op     string
	entity resource.Entity
	err    error
}

// saveMsg is emitted by the editor's save callback.
type saveMsg struct {
	schema string
	draft  resource.Entity
}

// closeMsg is emitted by the editor's close callback.
type closeMsg struct {
	schema string
}

// Update handles messages for this view. Messages addressed to another
// schema's view are ignored, so the shell can broadcast.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.schema != m.schema.Name {
			return m, nil
		}
		return m.handleLoaded(msg), nil

	case writtenMsg:
		if msg.schema != m.schema.Name {
			return m, nil
		}
		return m.handleWritten(msg)

	case saveMsg:
		if msg.schema != m.schema.Name {
			return m, nil
		}
		return m.Submit(msg.draft)

	case closeMsg:
		if msg.schema != m.schema.Name {
			return m, nil
		}
		return m.CloseEditor(), nil

	case spinner.TickMsg:
		if !m.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editor != nil {
			ed, cmd := m.editor.Update(msg)
			m.editor = &ed
			return m, cmd
		}
		return m.handleKey(msg)
	}

	if m.editor != nil {
		ed, cmd := m.editor.Update(msg)
		m.editor = &ed
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	if msg.seq == m.loadSeq && m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	// A load cancelled by a newer one is not a failure.
	if msg.err != nil && errors.Is(msg.err, context.Canceled) {
		m.logger.Debug("load cancelled", slog.Uint64("seq", msg.seq))
		return m
	}

	applied := m.store.Update(m.schema.Name, msg.seq, msg.items, msg.err)
	switch {
	case !applied:
		m.logger.Debug("stale load dropped", slog.Uint64("seq", msg.seq))
	case msg.err != nil:
		m.logger.Error("load failed",
			slog.String("op", "list"),
			slog.Uint64("seq", msg.seq),
			slog.String("error", msg.err.Error()))
	default:
		m.logger.Debug("load applied",
			slog.String("op", "list"),
			slog.Uint64("seq", msg.seq),
			slog.Int("count", len(msg.items)))
	}
	m.sync()
	return m
}

func (m Model) handleWritten(msg writtenMsg) (Model, tea.Cmd) {
	if m.writes > 0 {
		m.writes--
	}
	attrs := []any{slog.String("op", msg.op)}
	if id, ok := msg.entity.ID(); ok {
		attrs = append(attrs, slog.Int64("id", id))
	}

	if msg.err != nil {
		m.opErr = fmt.Errorf("%s %s: %w", msg.op, m.schema.Noun, msg.err)
		m.failedOp = msg.op
		m.logger.Error("write failed", append(attrs, slog.String("error", msg.err.Error()))...)
		return m, nil
	}

	m.logger.Info("write succeeded", attrs...)
	if msg.op != opDelete {
		if id, ok := msg.entity.ID(); ok {
			m.selectedID, m.hasSelID = id, true
		}
	}
	return m.Load()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.selected + 1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.VisibleSlice()) - 1)
	case key.Matches(msg, m.keys.Filter):
		return m.SetFilter(!m.filter), nil
	case key.Matches(msg, m.keys.New):
		return m.BeginCreate(), nil
	case key.Matches(msg, m.keys.Edit):
		if e, ok := m.Selected(); ok {
			return m.BeginEdit(e), nil
		}
	case key.Matches(msg, m.keys.Delete):
		if e, ok := m.Selected(); ok {
			return m.Remove(e)
		}
	case key.Matches(msg, m.keys.Reload):
		m.opErr = nil
		return m.Load()
	}
	return m, nil
}
