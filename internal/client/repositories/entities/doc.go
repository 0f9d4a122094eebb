// Package entities provides the raw persistence layer for cached copies of
// remote entities (clients, centers, offices, surveys).
//
// # Data Model
//
// A row is an opaque JSON document keyed by (entity type, remote id). Writes
// are upserts: the last write for a key wins. Listings are ordered by
// remote id.
//
// # Concurrency
//
// Implementations are safe for concurrent use when backed by a *sql.DB.
// When a *sql.Tx is passed as dbx.DBTX, normal transaction scoping applies.
//
// Key Types
//
//   - type Repository        - interface used by the typed store layer
//   - type SQLiteRepository  - SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := entities.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, models.EntityClient, 7, data)
//	rows, _ := repo.GetAll(ctx, models.EntityClient)
//	one, _ := repo.GetByID(ctx, models.EntityClient, 7)
//
// The Pebble implementation lives in repositories/pebblekv.
package entities
