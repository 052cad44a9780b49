// Package postgres stores the workspace snapshot in a Postgres state table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/timgluz/dva/storage"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/dva?sslmode=disable"
)

var _ storage.Repository = (*Repository)(nil)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRepository connects to dsn, or a local default, and makes sure the
// state table exists.
func NewRepository(ctx context.Context, dsn string, logger *slog.Logger) (*Repository, error) {
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sql.Open(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db, logger: logger}, nil
}

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS dva_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

func (r *Repository) IsReady() bool {
	return r.db != nil && r.logger != nil
}

func (r *Repository) Load(ctx context.Context) (*storage.Snapshot, error) {
	if err := storage.Usable(ctx, r); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT bucket, payload FROM dva_state`)
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
			return nil, fmt.Errorf("scan state: %w", err)
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}

	snapshot, err := storage.JoinBuckets(payloads)
	if err != nil && !errors.Is(err, storage.ErrSnapshotNotFound) {
		r.logger.Error("Failed to decode snapshot", "error", err)
	}
	return snapshot, err
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
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
			r.logger.Error("Failed to save snapshot", "error", retErr)
		}
	}()

	for _, bucket := range storage.Buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dva_state(bucket, payload) VALUES($1, $2::jsonb) ON CONFLICT(bucket) DO UPDATE SET payload = EXCLUDED.payload`,
			bucket, string(payloads[bucket])); err != nil {
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
