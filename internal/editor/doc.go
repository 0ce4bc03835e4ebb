// Package editor implements the modal form used to create and edit entities.
//
// The editor owns a draft copy of one entity. Field edits only touch the
// draft; the parent sees the entity again when the user saves, through the
// Save callback. Closing drops the draft.
package editor
