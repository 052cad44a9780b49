// Package storage persists the analyzer workspace: project records, the id
// counter and the sample batch, saved and loaded as one snapshot.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/sample"
)

const SnapshotVersion = 1

var (
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrCorruptSnapshot    = errors.New("corrupt snapshot")
	ErrRepositoryNotReady = errors.New("repository not ready")
)

// Snapshot is the persisted shape of a workspace.
type Snapshot struct {
	Version  int              `json:"version"`
	NextID   int              `json:"nextId"`
	SavedAt  time.Time        `json:"savedAt"`
	Projects []project.Record `json:"projects"`
	Samples  []sample.Sample  `json:"samples"`
}

func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: empty snapshot", ErrCorruptSnapshot)
	}

	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}

	if s.NextID < 0 {
		return fmt.Errorf("%w: negative nextId %d", ErrCorruptSnapshot, s.NextID)
	}

	return nil
}

func (s *Snapshot) normalize() {
	s.SavedAt = s.SavedAt.UTC()
	if s.Projects == nil {
		s.Projects = []project.Record{}
	}
	if s.Samples == nil {
		s.Samples = []sample.Sample{}
	}
}
