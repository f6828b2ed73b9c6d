// Package store is the persistence boundary for waitlist records. Backends
// implement RecordStore; the CLI additionally lists and watches records.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"tableflip.dev/waitlist/pkg/record"
)

// RecordStore is the contract the signup flow depends on.
type RecordStore interface {
	// Exists reports whether a record in collection has field == value.
	Exists(ctx context.Context, collection, field, value string) (bool, error)
	// Insert persists fields as a new record and returns its id.
	Insert(ctx context.Context, collection string, fields map[string]string) (record.ID, error)
}

// Lister reads back a collection, oldest first.
type Lister interface {
	List(ctx context.Context, collection string) ([]*record.Record, error)
}

// Store is a full backend as opened by Open.
type Store interface {
	RecordStore
	Lister
	Watch(ctx context.Context) (<-chan Event, error)
	// Location describes where records live, for operators.
	Location() string
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendDiskv  Backend = "diskv"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Options select and configure a backend.
type Options struct {
	Backend Backend
	// Path is the diskv base directory.
	Path string
	// DSN is the sqlite data source.
	DSN    string
	Logger *slog.Logger
}

// Open builds the backend named by opts.
func Open(opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case "", BackendDiskv:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, errors.New("store: diskv requires a path")
		}
		return NewDiskv(opts.Path, logger), nil
	case BackendSQLite:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, errors.New("store: sqlite requires a dsn")
		}
		return OpenSQLite(opts.DSN, logger)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}

var (
	sharedMu    sync.Mutex
	sharedStore Store
)

// Shared returns the process-wide store, opening it on first use. Later calls
// return the same handle regardless of opts.
func Shared(opts Options) (Store, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedStore != nil {
		return sharedStore, nil
	}
	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	sharedStore = s
	return s, nil
}

// StoreError reports a failed persistence operation.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}

func requireCollection(op, collection string) error {
	if strings.TrimSpace(collection) == "" {
		return wrap(op, collection, errors.New("collection name required"))
	}
	return nil
}
