// Package kbsnapshot caches built knowledge bases keyed by a fingerprint of
// the asset tree they were built from
package kbsnapshot

import (
	"context"
	"time"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=kbsnapshotmock github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot Repository

// Snapshot is a stored knowledge base
type Snapshot struct {
	// Key is the fingerprint of the data dir
	Key    string            `json:"key"`
	Tables *knowledge.Tables `json:"tables"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is zero for snapshots that never expire
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the snapshot is past its expiry at now
func (s *Snapshot) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// GetInput contains parameters for retrieving a snapshot
type GetInput struct {
	Key string
}

// GetOutput contains the retrieved snapshot
type GetOutput struct {
	Snapshot *Snapshot
}

// PutInput contains the snapshot to store
type PutInput struct {
	Key    string
	Tables *knowledge.Tables
	// TTL of zero keeps the snapshot until it is deleted
	TTL time.Duration
}

// PutOutput contains the stored snapshot
type PutOutput struct {
	Snapshot *Snapshot
	// Bytes is the compressed payload size
	Bytes int
}

// DeleteInput contains parameters for deleting a snapshot
type DeleteInput struct {
	Key string
}

// DeleteOutput reports whether a snapshot was removed
type DeleteOutput struct {
	Deleted bool
}

// PruneInput contains parameters for sweeping the store
type PruneInput struct{}

// PruneOutput lists what a sweep found
type PruneOutput struct {
	Checked int
	// Removed holds the keys of expired or undecodable snapshots, sorted
	Removed []string
}

// Repository defines the interface for snapshot storage operations
type Repository interface {
	// Get returns the snapshot for key, or a NotFound error when it is
	// missing or expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores tables under key, replacing any previous snapshot
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete removes the snapshot for key
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Prune removes every snapshot that has expired or no longer decodes
	Prune(ctx context.Context, input PruneInput) (*PruneOutput, error)
}

const (
	errKeyEmpty    = "key cannot be empty"
	errTablesNil   = "tables cannot be nil"
	errNegativeTTL = "ttl cannot be negative"
)

func validatePut(input PutInput) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("key", input.Key, vb)
	if input.Tables == nil {
		vb.Field("tables", errTablesNil)
	}
	if input.TTL < 0 {
		vb.Field("ttl", errNegativeTTL)
	}
	return vb.Build()
}

// stale reports whether a stored payload should be pruned
func stale(payload []byte, now time.Time) bool {
	snap, err := Decode(payload)
	if err != nil {
		return true
	}
	return snap.Expired(now)
}

func newSnapshot(input PutInput, now time.Time) *Snapshot {
	snap := &Snapshot{
		Key:       input.Key,
		Tables:    input.Tables,
		CreatedAt: now,
	}
	if input.TTL > 0 {
		snap.ExpiresAt = now.Add(input.TTL)
	}
	return snap
}
