// Package campaign provides the repository for the campaign save files and
// the read side of the save format: roster, member breeds, inventories and
// unit scalars.
package campaign

import (
	"context"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=campaignmock github.com/KirkDiggler/conquest-editor/internal/repositories/campaign Repository

// Save files inside the campaign directory
const (
	SceneFile  = "campaign.scn"
	StatusFile = "status"
)

// Document is the text of both save files with line endings normalized to
// "\n". The raw fields hold the bytes as last read or written; a store maps
// their line endings back onto the edited text.
type Document struct {
	Scene     string
	Status    string
	SceneRaw  string
	StatusRaw string
}

// LoadInput contains parameters for reading the save
type LoadInput struct{}

// LoadOutput contains the loaded save
type LoadOutput struct {
	Document *Document
}

// StoreInput contains the save to write
type StoreInput struct {
	Document *Document
}

// StoreOutput reports what the store did
type StoreOutput struct {
	// BackedUp is true when this store took the session's backups
	BackedUp bool
}

// RestoreBackupsInput contains parameters for restoring backups
type RestoreBackupsInput struct{}

// RestoreBackupsOutput lists the restored files
type RestoreBackupsOutput struct {
	Restored []string
}

// Repository defines the interface for campaign save access
type Repository interface {
	// Load reads campaign.scn and status
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)

	// Store writes both files and records the written bytes in the
	// document's raw fields. The first store of a session backs up the files
	// it is about to overwrite.
	Store(ctx context.Context, input StoreInput) (*StoreOutput, error)

	// RestoreBackups copies the .bak files over the save
	RestoreBackups(ctx context.Context, input RestoreBackupsInput) (*RestoreBackupsOutput, error)
}
