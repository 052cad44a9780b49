// Package spinkv stores the workspace snapshot in a Spin key-value store.
package spinkv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spinframework/spin-go-sdk/v2/kv"

	"github.com/timgluz/dva/storage"
)

const (
	DefaultStoreName = "default"
	SnapshotKey      = "dva_snapshot"
)

var _ storage.Repository = (*Repository)(nil)

type Repository struct {
	db     *kv.Store
	codec  storage.Codec
	logger *slog.Logger
}

func NewRepository(storeName string, codec storage.Codec, logger *slog.Logger) (*Repository, error) {
	if storeName == "" {
		storeName = DefaultStoreName
	}
	if codec == nil {
		codec = storage.JSONCodec{}
	}

	db, err := kv.OpenStore(storeName)
	if err != nil {
		logger.Error("Failed to open Spin KV store", "store", storeName, "error", err)
		return nil, fmt.Errorf("%w: %w", storage.ErrRepositoryNotReady, err)
	}

	return &Repository{
		db:     db,
		codec:  codec,
		logger: logger,
	}, nil
}

func (r *Repository) IsReady() bool {
	if r.logger == nil {
		return false
	}

	if r.db == nil {
		r.logger.Error("Spin KV store is not initialized")
		return false
	}

	return true
}

func (r *Repository) Load(ctx context.Context) (*storage.Snapshot, error) {
	if err := storage.Usable(ctx, r); err != nil {
		return nil, err
	}

	exists, err := r.db.Exists(SnapshotKey)
	if err != nil {
		r.logger.Error("Failed to check snapshot key", "key", SnapshotKey, "error", err)
		return nil, err
	}
	if !exists {
		return nil, storage.ErrSnapshotNotFound
	}

	data, err := r.db.Get(SnapshotKey)
	if err != nil {
		r.logger.Error("Failed to get snapshot", "key", SnapshotKey, "error", err)
		return nil, err
	}

	snapshot := &storage.Snapshot{}
	if err := r.codec.Decode(data, snapshot); err != nil {
		r.logger.Error("Failed to decode snapshot", "key", SnapshotKey, "codec", r.codec.Name(), "error", err)
		return nil, err
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	snapshot.SavedAt = snapshot.SavedAt.UTC()
	r.logger.Debug("Snapshot loaded from Spin KV", "key", SnapshotKey)
	return snapshot, nil
}

// Save writes the whole snapshot under one key, so a failed Set keeps the old value.
func (r *Repository) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	if err := storage.Usable(ctx, r); err != nil {
		return err
	}

	data, err := r.codec.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := r.db.Set(SnapshotKey, data); err != nil {
		r.logger.Error("Failed to store snapshot in Spin KV", "key", SnapshotKey, "error", err)
		return err
	}

	r.logger.Debug("Snapshot stored in Spin KV", "key", SnapshotKey, "bytes", len(data))
	return nil
}

func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}

	r.db.Close()
	r.logger.Info("Spin KV store closed")
	return nil
}
