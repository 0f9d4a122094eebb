package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/fieldsync/internal/client/migrations"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/documents"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/pebblekv"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/pending"
	"github.com/dmitrijs2005/fieldsync/internal/filex"
	"github.com/dmitrijs2005/fieldsync/internal/logging"

	_ "modernc.org/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Repositories bundles the raw repositories of one opened backend.
type Repositories struct {
	Entities  entities.Repository
	Pending   pending.Repository
	Documents documents.Repository
	Metadata  metadata.Repository

	close func() error
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// NewSQLiteRepositories wires the SQLite repositories over an already
// migrated database. The caller keeps ownership of db.
func NewSQLiteRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Entities:  entities.NewSQLiteRepository(db),
		Pending:   pending.NewSQLiteRepository(db),
		Documents: documents.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
}

// InitDatabase opens the SQLite database at dsn, migrates it and returns its
// repositories. The returned Repositories own the connection.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases coherent and serializes
	// writers the way SQLite expects.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := NewSQLiteRepositories(db)
	repos.close = db.Close
	return repos, nil
}

// OpenPebble opens the Pebble store in dir.
func OpenPebble(dir string, log logging.Logger) (*Repositories, error) {
	db, err := pebblekv.Open(dir, log)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Entities:  db.Entities(),
		Pending:   db.Pending(),
		Documents: db.Documents(),
		Metadata:  db.Metadata(),
		close:     db.Close,
	}, nil
}

var ErrUnknownBackend = errors.New("unknown store backend")

// Open prepares the on-disk location for path and opens the given backend.
func Open(ctx context.Context, backend, path string, log logging.Logger) (*Repositories, error) {
	switch backend {
	case BackendSQLite:
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, err
		}
		return InitDatabase(ctx, abs)
	case BackendPebble:
		abs, err := filex.EnsureDir(path)
		if err != nil {
			return nil, err
		}
		return OpenPebble(abs, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
