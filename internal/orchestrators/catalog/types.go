package catalog

import (
	"time"

	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
)

// LoadInput defines the request for loading a knowledge base
type LoadInput struct {
	DataDir string
	// Rebuild skips the snapshot lookup. The fresh build is still stored.
	Rebuild bool
}

// LoadOutput defines the response for loading a knowledge base
type LoadOutput struct {
	Base *knowledge.Base
	// Key is the asset fingerprint the snapshot is stored under
	Key          string
	FromSnapshot bool
	Duration     time.Duration
}

// InvalidateInput defines the request for dropping a cached snapshot
type InvalidateInput struct {
	DataDir string
}

// InvalidateOutput defines the response for dropping a cached snapshot
type InvalidateOutput struct {
	Deleted bool
}

// PruneInput defines the request for sweeping stale snapshots
type PruneInput struct{}

// PruneOutput defines the response for sweeping stale snapshots
type PruneOutput struct {
	Checked int
	Removed []string
}
