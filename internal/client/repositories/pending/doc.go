// Package pending persists Pending Write Records: entity creations made while
// offline that still have to be delivered to the remote service.
//
// # Data Model
//
// Each record carries a locally assigned id (monotonic, never reused), the
// entity type, an idempotency key, the JSON creation payload and the time it
// was queued. Records are read oldest first. The payload is the only
// mutable column.
//
// # Atomic delete and reload
//
// DeleteAndReload removes one record and returns the remaining records of the
// same entity type in one transaction, so the caller never observes a state
// between the delete and the list.
//
// Key Types
//
//   - type Record            - one stored record
//   - type Repository        - interface used by the typed queue
//   - type SQLiteRepository  - SQLite implementation over dbx.DBTX
package pending
