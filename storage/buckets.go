package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bucket names used by the SQL backends, one row per bucket.
const (
	BucketMeta     = "meta"
	BucketProjects = "projects"
	BucketSamples  = "samples"
)

var Buckets = []string{BucketMeta, BucketProjects, BucketSamples}

type snapshotMeta struct {
	Version int       `json:"version"`
	NextID  int       `json:"nextId"`
	SavedAt time.Time `json:"savedAt"`
}

// SplitBuckets encodes a snapshot as one JSON payload per bucket.
func SplitBuckets(s *Snapshot) (map[string][]byte, error) {
	payloads := make(map[string][]byte, len(Buckets))
	for _, bucket := range Buckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case BucketMeta:
			data, err = json.Marshal(snapshotMeta{Version: s.Version, NextID: s.NextID, SavedAt: s.SavedAt})
		case BucketProjects:
			data, err = json.Marshal(s.Projects)
		case BucketSamples:
			data, err = json.Marshal(s.Samples)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		payloads[bucket] = data
	}
	return payloads, nil
}

// JoinBuckets rebuilds a snapshot from bucket payloads. An empty set means
// nothing was saved yet.
func JoinBuckets(payloads map[string][]byte) (*Snapshot, error) {
	if len(payloads) == 0 {
		return nil, ErrSnapshotNotFound
	}

	metaPayload, ok := payloads[BucketMeta]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s bucket", ErrCorruptSnapshot, BucketMeta)
	}

	var meta snapshotMeta
	if err := json.Unmarshal(metaPayload, &meta); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorruptSnapshot, BucketMeta, err)
	}

	snapshot := &Snapshot{Version: meta.Version, NextID: meta.NextID, SavedAt: meta.SavedAt}
	if data, ok := payloads[BucketProjects]; ok {
		if err := json.Unmarshal(data, &snapshot.Projects); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", ErrCorruptSnapshot, BucketProjects, err)
		}
	}
	if data, ok := payloads[BucketSamples]; ok {
		if err := json.Unmarshal(data, &snapshot.Samples); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", ErrCorruptSnapshot, BucketSamples, err)
		}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	snapshot.normalize()
	return snapshot, nil
}
