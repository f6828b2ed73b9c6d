package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"

	"tableflip.dev/waitlist/pkg/record"
)

// SQLite persists records in two tables: one row per record and one row per
// field, so Exists is an indexed lookup.
type SQLite struct {
	db  *sql.DB
	dsn string
	log *slog.Logger
	now func() time.Time
}

// OpenSQLite opens (creating if needed) and migrates the database at dsn.
func OpenSQLite(dsn string, logger *slog.Logger) (*SQLite, error) {
	if path := sqliteFile(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: sqlite: ensure directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: sqlite: open: %w", err)
	}
	// a single connection keeps :memory: databases coherent
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, dsn: dsn, log: logger, now: time.Now}, nil
}

func (s *SQLite) Location() string { return "sqlite:" + s.dsn }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Exists(ctx context.Context, collection, field, value string) (bool, error) {
	if err := requireCollection("exists", collection); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM record_fields WHERE collection = ? AND name = ? AND value = ? LIMIT 1`,
		collection, field, value).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("exists", collection, err)
	}
	return true, nil
}

func (s *SQLite) Insert(ctx context.Context, collection string, fields map[string]string) (record.ID, error) {
	if err := requireCollection("insert", collection); err != nil {
		return "", err
	}
	id, err := newID()
	if err != nil {
		return "", wrap("insert", collection, err)
	}
	created := record.Timestamp{Time: s.now()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", wrap("insert", collection, fmt.Errorf("begin: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (id, collection, created_at) VALUES (?, ?, ?)`,
		id, collection, created.String()); err != nil {
		return "", wrap("insert", collection, fmt.Errorf("record: %w", err))
	}
	for name, value := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_fields (record_id, collection, name, value) VALUES (?, ?, ?, ?)`,
			id, collection, name, value); err != nil {
			return "", wrap("insert", collection, fmt.Errorf("field %s: %w", name, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return "", wrap("insert", collection, fmt.Errorf("commit: %w", err))
	}
	return record.ID(id), nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]*record.Record, error) {
	if err := requireCollection("list", collection); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, f.name, f.value
		FROM records r LEFT JOIN record_fields f ON f.record_id = r.id
		WHERE r.collection = ?
		ORDER BY r.created_at, r.id`, collection)
	if err != nil {
		return nil, wrap("list", collection, err)
	}
	defer rows.Close()

	byID := make(map[string]*record.Record)
	var out []*record.Record
	for rows.Next() {
		var (
			id, createdAt string
			name, value   sql.NullString
		)
		if err := rows.Scan(&id, &createdAt, &name, &value); err != nil {
			return nil, wrap("list", collection, fmt.Errorf("scan: %w", err))
		}
		r, ok := byID[id]
		if !ok {
			created, err := record.ParseTime(createdAt)
			if err != nil {
				s.log.Warn("unparseable created_at", "id", id, "err", err)
			}
			r = &record.Record{
				ID:         record.ID(id),
				Collection: collection,
				Fields:     map[string]string{},
				Created:    record.Timestamp{Time: created},
			}
			byID[id] = r
			out = append(out, r)
		}
		if name.Valid {
			r.Fields[name.String] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list", collection, err)
	}
	record.Sort(out)
	return out, nil
}

// Watch reports writes to the database file. Events are not attributed to a
// collection.
func (s *SQLite) Watch(ctx context.Context) (<-chan Event, error) {
	path := sqliteFile(s.dsn)
	if path == "" {
		return nil, errors.New("store: sqlite: watch needs a file database")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", path, err)
	}

	sink := newEventSink()
	base := filepath.Base(path)
	go func() {
		defer sink.Close()
		defer watcher.Close()
		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("watcher error", "err", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				// WAL and journal files share the database's base name.
				if strings.HasPrefix(filepath.Base(evt.Name), base) {
					throttle.Enqueue(Event{Type: EventInvalidated}, sink.Send)
				}
			}
		}
	}()
	return sink.C(), nil
}

// sqliteFile extracts the file path from a dsn, or "" for in-memory dsns.
func sqliteFile(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

func newID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
