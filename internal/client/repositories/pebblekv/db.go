// Package pebblekv implements the local cache repositories (entities,
// pending, documents, metadata) on a single Pebble LSM store, as an
// alternative to the SQLite backend for devices where an embedded SQL
// engine is unwanted.
//
// Key layout:
//
//	e/<entity type>/<remote id, 20 digits>   cached entity JSON
//	d/<kind>/<key>                           cached document JSON
//	p/<entity type>/<local id, 20 digits>    pending record
//	seq/pending                              last assigned local id
//	m/<key>                                  metadata value
//
// Zero-padded ids keep the lexical key order equal to the numeric order.
package pebblekv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// DB owns the Pebble handle shared by every repository of this package.
type DB struct {
	db *pebble.DB
	// mu serializes read-modify-write sequences on the pending queue.
	mu sync.Mutex
}

// Open opens (or creates) a Pebble store in dir.
func Open(dir string, log logging.Logger) (*DB, error) {
	return OpenWithOptions(dir, &pebble.Options{Logger: &pebbleLogger{log: log}})
}

// OpenWithOptions opens a store with caller-provided options, e.g. an
// in-memory vfs for tests.
func OpenWithOptions(dir string, opts *pebble.Options) (*DB, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open %s: %w", dir, err)
	}
	return &DB{db: db}, nil
}

func (s *DB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *DB) get(key []byte) ([]byte, error) {
	value, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// scan calls fn for every key with the given prefix in key order. k and v are
// copies owned by fn.
func (s *DB) scan(ctx context.Context, prefix []byte, fn func(k, v []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		k := append([]byte(nil), iter.Key()...)
		v := append([]byte(nil), iter.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return iter.Error()
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// pebbleLogger adapts logging.Logger to the pebble.Logger interface.
type pebbleLogger struct {
	log logging.Logger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, args...), "component", "pebble")
}

func (l *pebbleLogger) Errorf(format string, args ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, args...), "component", "pebble")
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log.Error(context.Background(), msg, "component", "pebble")
	panic(msg)
}
