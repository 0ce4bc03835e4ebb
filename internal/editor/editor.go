package editor

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/songrater/internal/resource"
)

// Callbacks connect the editor to its parent. Either may be nil.
type Callbacks struct {
	// Save receives the draft when the user saves. The editor stays open;
	// the parent decides whether to drop it.
	Save func(resource.Entity) tea.Cmd
	// Close is called when the user cancels.
	Close func() tea.Cmd
}

// Model is the editor state. It is a value type; every mutating method
// returns the updated model.
type Model struct {
	schema    resource.Schema
	draft     resource.Entity
	inputs    []textinput.Model // parallel to schema.Fields; unused for checkboxes
	focus     int               // 0..len(Fields)-1 are fields, len(Fields) is the Save button
	callbacks Callbacks
	keys      keyMap
}

// New opens an editor for seed. The seed is copied; edits never reach it.
func New(schema resource.Schema, seed resource.Entity, callbacks Callbacks) Model {
	m := Model{
		schema:    schema,
		draft:     seed,
		inputs:    make([]textinput.Model, len(schema.Fields)),
		callbacks: callbacks,
		keys:      defaultKeyMap(),
	}
	for i, f := range schema.Fields {
		if f.Kind != resource.FieldText {
			continue
		}
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.Prompt = ""
		in.CharLimit = 0
		if f.Masked {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(m.draft.Text(f.Name))
		m.inputs[i] = in
	}
	m.setFocus(0)
	return m
}

// Schema returns the schema the editor was opened with.
func (m Model) Schema() resource.Schema {
	return m.schema
}

// Draft returns the working copy.
func (m Model) Draft() resource.Entity {
	return m.draft
}

// Editing reports whether the draft is an existing entity.
func (m Model) Editing() bool {
	return m.draft.Persisted()
}

// SetField merges one text field into the draft. Unknown names and checkbox
// fields are ignored; checkboxes change through SetChecked.
func (m Model) SetField(name, value string) Model {
	i := m.fieldIndex(name)
	if i < 0 || m.schema.Fields[i].Kind != resource.FieldText {
		return m
	}
	m.draft = m.draft.With(name, value)
	m.inputs = cloneInputs(m.inputs)
	m.inputs[i].SetValue(value)
	return m
}

// SetChecked sets a checkbox field from its checked state. Unknown names and
// text fields are ignored.
func (m Model) SetChecked(name string, checked bool) Model {
	i := m.fieldIndex(name)
	if i < 0 || m.schema.Fields[i].Kind != resource.FieldCheckbox {
		return m
	}
	m.draft = m.draft.With(name, checked)
	return m
}

// Save hands the current draft to the Save callback.
func (m Model) Save() tea.Cmd {
	if m.callbacks.Save == nil {
		return nil
	}
	return m.callbacks.Save(m.draft)
}

// Close invokes the Close callback. The draft is discarded by the parent.
func (m Model) Close() tea.Cmd {
	if m.callbacks.Close == nil {
		return nil
	}
	return m.callbacks.Close()
}

// Update handles keyboard input for the focused field.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Close):
		return m, m.Close()
	case key.Matches(keyMsg, m.keys.Save):
		return m, m.Save()
	case key.Matches(keyMsg, m.keys.Next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(keyMsg, m.keys.Prev):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(keyMsg, m.keys.Submit):
		if m.onSaveButton() {
			return m, m.Save()
		}
		return m, m.setFocus(m.focus + 1)
	case key.Matches(keyMsg, m.keys.Toggle) && m.onCheckbox():
		f := m.schema.Fields[m.focus]
		return m.SetChecked(f.Name, !m.draft.Bool(f.Name)), nil
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	if m.onSaveButton() || m.onCheckbox() {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs = cloneInputs(m.inputs)
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	f := m.schema.Fields[m.focus]
	if v := m.inputs[m.focus].Value(); v != m.draft.Text(f.Name) {
		m.draft = m.draft.With(f.Name, v)
	}
	return m, cmd
}

// setFocus moves focus, wrapping around the fields and the Save button.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.schema.Fields) + 1
	m.focus = ((i % n) + n) % n
	inputs := cloneInputs(m.inputs)
	var cmd tea.Cmd
	for j := range inputs {
		if m.schema.Fields[j].Kind != resource.FieldText {
			continue
		}
		if j == m.focus {
			cmd = inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	m.inputs = inputs
	return cmd
}

func (m Model) fieldIndex(name string) int {
	for i, f := range m.schema.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (m Model) onSaveButton() bool {
	return m.focus == len(m.schema.Fields)
}

func (m Model) onCheckbox() bool {
	return !m.onSaveButton() && m.schema.Fields[m.focus].Kind == resource.FieldCheckbox
}

// Focused returns the focused field name, or "" when the Save button has focus.
func (m Model) Focused() string {
	if m.onSaveButton() {
		return ""
	}
	return m.schema.Fields[m.focus].Name
}

// cloneInputs copies the inputs slice so earlier Model values stay intact.
func cloneInputs(in []textinput.Model) []textinput.Model {
	out := make([]textinput.Model, len(in))
	copy(out, in)
	return out
}
