package resource

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind selects how a field is edited.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
)

// Field describes one editable entity field.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Kind        FieldKind
	Masked      bool // rendered as dots in list rows
}

// Schema describes one entity type and where its collection lives.
type Schema struct {
	Name       string // collection name, e.g. "users"
	Title      string // tab title
	Noun       string // singular label used in the editor header
	Path       string // collection endpoint, e.g. "/api/users/"
	Fields     []Field
	Primary    string // field shown as the row text
	Secondary  string // field shown as the row hint
	Completion string // boolean field the view filter matches against
}

// Users is the schema for the user registration collection.
var Users = Schema{
	Name:  "users",
	Title: "Users",
	Noun:  "User",
	Path:  "/api/users/",
	Fields: []Field{
		{Name: "username", Label: "Username", Placeholder: "Enter username"},
		{Name: "password", Label: "Password", Placeholder: "Enter password", Masked: true},
		{Name: "completed", Label: "Active", Kind: FieldCheckbox},
	},
	Primary:    "username",
	Secondary:  "password",
	Completion: "completed",
}

// Artists is the schema for the artist/song collection.
var Artists = Schema{
	Name:  "artists",
	Title: "Artists",
	Noun:  "Song",
	Path:  "/api/artists/",
	Fields: []Field{
		{Name: "artist", Label: "Artist", Placeholder: "Enter artist"},
		{Name: "song", Label: "Song", Placeholder: "Enter song title"},
		{Name: "completed", Label: "Rated", Kind: FieldCheckbox},
	},
	Primary:    "artist",
	Secondary:  "song",
	Completion: "completed",
}

// Builtin returns the schemas shown as tabs, in display order.
func Builtin() []Schema {
	return []Schema{Users, Artists}
}

// Lookup finds a builtin schema by name, case-insensitively.
func Lookup(name string) (Schema, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Builtin() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Schema{}, false
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Blank returns the template used for new entities: empty text fields,
// unchecked checkboxes, no identifier.
func (s Schema) Blank() Entity {
	fields := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case FieldCheckbox:
			fields[f.Name] = false
		default:
			fields[f.Name] = ""
		}
	}
	return NewEntity(fields)
}

// Matches reports whether e belongs to the completed (true) or incomplete
// (false) partition.
func (s Schema) Matches(e Entity, completed bool) bool {
	return e.Bool(s.Completion) == completed
}

// Validate checks the schema definition itself; it says nothing about entity
// contents.
func (s Schema) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("schema name is empty"))
	}
	if !strings.HasPrefix(s.Path, "/") {
		errs = append(errs, fmt.Errorf("schema %q: path %q must start with /", s.Name, s.Path))
	}
	if _, ok := s.Field(s.Primary); !ok {
		errs = append(errs, fmt.Errorf("schema %q: primary field %q not defined", s.Name, s.Primary))
	}
	if f, ok := s.Field(s.Completion); !ok || f.Kind != FieldCheckbox {
		errs = append(errs, fmt.Errorf("schema %q: completion field %q must be a checkbox", s.Name, s.Completion))
	}
	return errors.Join(errs...)
}
