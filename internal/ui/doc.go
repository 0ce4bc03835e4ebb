// Package ui provides the songrater terminal interface built on Bubble Tea.
//
// # Architecture Overview
//
// Model is the root tea.Model. It hosts one listview.Model per entity schema
// as tabs and draws a header, a command bar and the active list below them.
// When the active list has its editor open, the editor is drawn centered over
// the screen and receives every key except ctrl+c.
//
// # Message Flow
//
//  1. New builds the list views and queues a load for every collection the
//     shared state.Store has not loaded yet.
//  2. Key presses go to the shell first (tabs, theme, help, quit) and then to
//     the active list.
//  3. All other messages are broadcast to every list. List messages carry
//     their schema name, so only the owning list reacts.
//  4. A refresh tick re-reads the store so results written by the background
//     poller show up.
//
// # Key Bindings
//
//   - tab / shift+tab or 1-9: switch lists
//   - j/k, g/G: move the cursor
//   - n: new record, enter: edit, d: delete, f: toggle Incomplete/Complete
//   - r: reload the list
//   - L: show the tail of the log file, esc closes it
//   - T: cycle theme, ?: help, q or ctrl+c: quit
//
// Theme, active tab and filter are written to the preferences file when the
// theme changes and on quit.
package ui
