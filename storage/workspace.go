package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/sample"
)

// Workspace bundles the project store and the sample batch that are saved
// together. It is not safe for concurrent use.
type Workspace struct {
	Projects *project.Store
	Samples  *sample.Batch

	now func() time.Time
}

func NewWorkspace(opts ...project.Option) *Workspace {
	return &Workspace{
		Projects: project.NewStore(opts...),
		Samples:  &sample.Batch{},
		now:      time.Now,
	}
}

// Snapshot copies the workspace content.
func (w *Workspace) Snapshot() *Snapshot {
	state := w.Projects.Export()
	return &Snapshot{
		Version:  SnapshotVersion,
		NextID:   state.NextID,
		SavedAt:  w.now().UTC().Round(0),
		Projects: state.Records,
		Samples:  w.Samples.List(),
	}
}

// Apply replaces the workspace content with s. Either both the projects and
// the samples are replaced or nothing changes.
func (w *Workspace) Apply(s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	staged := &sample.Batch{}
	if err := staged.Restore(s.Samples); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	if err := w.Projects.Restore(project.State{NextID: s.NextID, Records: s.Projects}); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	w.Samples = staged
	return nil
}

// Load reads the snapshot from repo and applies it.
func (w *Workspace) Load(ctx context.Context, repo Repository) error {
	snapshot, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	return w.Apply(snapshot)
}

func (w *Workspace) Save(ctx context.Context, repo Repository) error {
	return repo.Save(ctx, w.Snapshot())
}

// LoadOrSeed loads the saved snapshot. When nothing was saved yet the seed
// samples are added and the fresh workspace is saved; seeded reports that case.
// The workspace only takes the seed once it was saved.
func (w *Workspace) LoadOrSeed(ctx context.Context, repo Repository, seed []sample.Sample) (seeded bool, err error) {
	err = w.Load(ctx, repo)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		return false, err
	}

	staged := &sample.Batch{}
	if err := staged.Restore(seed); err != nil {
		return false, err
	}

	snapshot := w.Snapshot()
	snapshot.Samples = staged.List()
	if err := repo.Save(ctx, snapshot); err != nil {
		return false, err
	}

	w.Samples = staged
	return true, nil
}
