// Package store persists a durable mirror of the charge ledger.
//
// The governor itself keeps no state beyond process lifetime; durable
// history is an external collaborator's concern. Journal is that
// collaborator: a notify.Subscriber that appends every cost-tracked
// event to a SQLite database through a buffered background writer, so a
// slow disk never backs up into the notifier path, let alone admission.
// When the buffer is full the event is dropped and counted; the ledger
// in memory remains the source of truth for enforcement.
package store
