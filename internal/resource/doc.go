// Package resource defines the records songrater edits and the schemas that
// describe them.
//
// An Entity is a flat JSON object with an optional integer id. The id is the
// only thing that separates a new record (create) from an existing one
// (update). A Schema names the collection endpoint, the ordered editable
// fields, and the boolean field used to split a collection into its
// "complete" and "incomplete" views.
//
// Two schemas are built in:
//
//   - Users:   username, password (masked in lists), completed ("Active")
//   - Artists: artist, song, completed ("Rated")
package resource
