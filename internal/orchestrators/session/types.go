package session

import (
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
)

// OpenInput defines the request for opening the campaign save
type OpenInput struct {
	Base *knowledge.Base
}

// OpenOutput defines the response for opening the campaign save
type OpenOutput struct {
	Session *Session
	// Skipped units are also kept on the session
	Skipped []SkippedUnit
}

// SaveInput defines the request for writing a session back
type SaveInput struct {
	Session *Session
}

// SaveOutput defines the response for writing a session back
type SaveOutput struct {
	// SceneEdits and StatusEdits count the applied patches. Both are zero
	// when nothing changed and the files were left alone.
	SceneEdits  int
	StatusEdits int
	BackedUp    bool
}

// RestoreInput defines the request for restoring the save backups
type RestoreInput struct{}

// RestoreOutput defines the response for restoring the save backups
type RestoreOutput struct {
	Restored []string
}
