// Package store is the Local Cache Store of the fieldsync client.
//
// It opens the configured backend (SQLite with goose migrations, or Pebble)
// into a set of raw byte-level repositories, and adapts those repositories to
// typed views used by the routing engine and the sync coordinator:
//
//   - EntityStore[T]: cached remote entities keyed by remote id
//   - PendingQueue[P]: the Pending Write Record queue of one entity type
//   - DocumentStore[T]: keyed aggregates (accounts, templates, ...)
//
// Failures are storage errors; a missing key or record is reported with
// common.ErrorNotFound.
package store
