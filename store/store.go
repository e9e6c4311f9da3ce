// Package store persists enrolled finger/knuckle templates in SQLite and
// streams them back as decision references in enrollment order.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jtejido/fingerknuckle"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes.
const schemaVersion = 1

var (
	ErrNotFound       = errors.New("reference not found")
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

// Store manages enrolled prints backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Record is one enrolled pair.
type Record struct {
	ID        string
	Finger    *fingerknuckle.Template
	Knuckle   *fingerknuckle.Template
	CreatedAt time.Time
}

// Enroll stores a finger/knuckle pair and returns its new id.
func (s *Store) Enroll(ctx context.Context, finger, knuckle *fingerknuckle.Template) (string, error) {
	fingerBlob, err := finger.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode finger: %w", err)
	}
	knuckleBlob, err := knuckle.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode knuckle: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO prints (id, finger, knuckle, created_at) VALUES (?, ?, ?, ?)",
		id, fingerBlob, knuckleBlob, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert print: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var fingerBlob, knuckleBlob []byte
	var created string
	err := s.db.QueryRowContext(ctx,
		"SELECT finger, knuckle, created_at FROM prints WHERE id = ?", id,
	).Scan(&fingerBlob, &knuckleBlob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query print %s: %w", id, err)
	}

	rec := &Record{ID: id}
	if rec.Finger, err = fingerknuckle.ParseTemplate(fingerBlob); err != nil {
		return nil, fmt.Errorf("decode finger %s: %w", id, err)
	}
	if rec.Knuckle, err = fingerknuckle.ParseTemplate(knuckleBlob); err != nil {
		return nil, fmt.Errorf("decode knuckle %s: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM prints").Scan(&n); err != nil {
		return 0, fmt.Errorf("count prints: %w", err)
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM prints WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete print %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
