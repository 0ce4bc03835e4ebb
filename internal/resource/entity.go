package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

const idField = "id"

// Entity is one record of a remote collection: an optional server-assigned
// identifier plus named fields. The zero value is an empty, unsaved entity.
//
// Entities are copy-on-write. With and WithID return modified copies and never
// touch the receiver's field map, so a draft built from a collection row cannot
// leak edits back into the collection.
type Entity struct {
	id     int64
	hasID  bool
	fields map[string]any
}

// NewEntity builds an unsaved entity from the given fields. An "id" key in
// fields is ignored; use WithID for persisted entities.
func NewEntity(fields map[string]any) Entity {
	dup := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == idField {
			continue
		}
		dup[k] = v
	}
	return Entity{fields: dup}
}

// ID returns the identifier and whether one is present.
func (e Entity) ID() (int64, bool) {
	return e.id, e.hasID
}

// Persisted reports whether the entity carries a server identifier.
func (e Entity) Persisted() bool {
	return e.hasID
}

// WithID returns a copy of e carrying the given identifier.
func (e Entity) WithID(id int64) Entity {
	out := e.clone()
	out.id = id
	out.hasID = true
	return out
}

// Get returns the raw value of a field.
func (e Entity) Get(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Text returns a field rendered as a string. Missing and null fields are "".
func (e Entity) Text(name string) string {
	switch v := e.fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns a field as a boolean. Only a JSON true is true; strings such
// as "true" or "1" are not coerced.
func (e Entity) Bool(name string) bool {
	v, ok := e.fields[name].(bool)
	return ok && v
}

// With returns a copy of e with one field replaced.
func (e Entity) With(name string, value any) Entity {
	if name == idField {
		return e.clone()
	}
	out := e.clone()
	out.fields[name] = value
	return out
}

// Fields returns a copy of the entity's fields, without the identifier.
func (e Entity) Fields() map[string]any {
	return maps.Clone(e.fieldsOrEmpty())
}

func (e Entity) clone() Entity {
	return Entity{id: e.id, hasID: e.hasID, fields: maps.Clone(e.fieldsOrEmpty())}
}

func (e Entity) fieldsOrEmpty() map[string]any {
	if e.fields == nil {
		return map[string]any{}
	}
	return e.fields
}

// MarshalJSON encodes the entity as a flat object. The id key is only written
// for persisted entities.
func (e Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.fields)+1)
	for k, v := range e.fields {
		out[k] = v
	}
	if e.hasID {
		out[idField] = e.id
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat object. Numeric fields other than id are kept as
// json.Number so they round-trip unchanged on update.
func (e *Entity) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("entity must be a JSON object")
	}

	out := Entity{fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k != idField {
			out.fields[k] = v
			continue
		}
		id, ok, err := parseID(v)
		if err != nil {
			return err
		}
		out.id, out.hasID = id, ok
	}
	*e = out
	return nil
}

func parseID(v any) (int64, bool, error) {
	switch id := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("parse id %q: %w", id.String(), err)
		}
		return n, true, nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("parse id %q: %w", id, err)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported id type %T", v)
	}
}
