package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const DefaultFilePath = "dva_projects.json"

// FileRepository keeps the snapshot in a single file. Saves go to a temp file
// in the same directory which is synced and renamed over the old one.
type FileRepository struct {
	path   string
	codec  Codec
	logger *slog.Logger
}

func NewFileRepository(path string, codec Codec, logger *slog.Logger) (*FileRepository, error) {
	if path == "" {
		path = DefaultFilePath
	}
	if codec == nil {
		codec = JSONCodec{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &FileRepository{
		path:   path,
		codec:  codec,
		logger: logger,
	}, nil
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) IsReady() bool {
	if r.logger == nil {
		return false
	}

	if r.path == "" || r.codec == nil {
		r.logger.Error("File repository is not initialized")
		return false
	}

	return true
}

func (r *FileRepository) Load(ctx context.Context) (*Snapshot, error) {
	if err := Usable(ctx, r); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("No snapshot file yet", "path", r.path)
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		r.logger.Error("Failed to read snapshot file", "path", r.path, "error", err)
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	snapshot := &Snapshot{}
	if err := r.codec.Decode(data, snapshot); err != nil {
		r.logger.Error("Failed to decode snapshot file", "path", r.path, "codec", r.codec.Name(), "error", err)
		return nil, err
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	snapshot.normalize()

	r.logger.Debug("Snapshot loaded", "path", r.path, "projects", len(snapshot.Projects), "samples", len(snapshot.Samples))
	return snapshot, nil
}

func (r *FileRepository) Save(ctx context.Context, snapshot *Snapshot) (retErr error) {
	if err := Usable(ctx, r); err != nil {
		return err
	}

	data, err := r.codec.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".tmp-"+filepath.Base(r.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			r.logger.Error("Failed to save snapshot", "path", r.path, "error", retErr)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}

	r.logger.Debug("Snapshot saved", "path", r.path, "bytes", len(data))
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}
