// Package listview implements the generic CRUD list shown for each entity
// collection.
//
// A Model is parameterized by a resource.Schema and is instantiated once per
// collection. It shows the last successfully loaded collection filtered by
// completion state, opens the editor for create and edit, and turns saves and
// deletes into remote calls. Every successful write is followed by exactly
// one full reload; the in-memory collection is never patched locally.
//
// Remote calls run as tea.Cmds and report back as messages. Loads carry a
// sequence number from the shared state.Store so an older response can never
// replace a newer one.
package listview
