package storage

import "context"

// Repository stores exactly one snapshot. Load returns ErrSnapshotNotFound
// when nothing was saved yet. Save must leave the previous snapshot intact
// when it fails.
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error

	IsReady() bool
	Close() error
}

// Usable returns the context error or ErrRepositoryNotReady, whichever stops
// repo from serving a call under ctx first.
func Usable(ctx context.Context, repo interface{ IsReady() bool }) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !repo.IsReady() {
		return ErrRepositoryNotReady
	}
	return nil
}
