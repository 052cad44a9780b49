// Package sqlite stores the workspace snapshot in a SQLite state table,
// one JSON payload per bucket.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/timgluz/dva/storage"
)

const DefaultPath = "dva.db"

var _ storage.Repository = (*Repository)(nil)

type Repository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

func NewRepository(ctx context.Context, path string, logger *slog.Logger) (*Repository, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	logger.Debug("SQLite repository opened", "path", path)
	return &Repository{db: db, path: path, logger: logger}, nil
}

func (r *Repository) IsReady() bool {
	if r.logger == nil || r.db == nil {
		return false
	}
	return true
}

func (r *Repository) Load(ctx context.Context) (*storage.Snapshot, error) {
	if err := storage.Usable(ctx, r); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payloads := make(map[string][]byte)
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}

	snapshot, err := storage.JoinBuckets(payloads)
	if err != nil {
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			r.logger.Error("Failed to decode snapshot", "path", r.path, "error", err)
		}
		return nil, err
	}

	r.logger.Debug("Snapshot loaded", "path", r.path, "projects", len(snapshot.Projects))
	return snapshot, nil
}

func (r *Repository) Save(ctx context.Context, snapshot *storage.Snapshot) (retErr error) {
	if err := storage.Usable(ctx, r); err != nil {
		return err
	}

	payloads, err := storage.SplitBuckets(snapshot)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			r.logger.Error("Failed to save snapshot", "path", r.path, "error", retErr)
		}
	}()

	for _, bucket := range storage.Buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, payloads[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
