package roster

import (
	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

// NewMember is a unit created to fill a deceased slot
type NewMember struct {
	ID    string
	Breed string
	Cost  float64
}

// RefillMembersInput defines the request for replacing a squad's losses
type RefillMembersInput struct {
	Session *session.Session
	SquadID int
}

// RefillMembersOutput defines the response for replacing a squad's losses
type RefillMembersOutput struct {
	Added []NewMember
	// Spent is the MP charged
	Spent float64
	// Reason says why nothing was added, empty otherwise
	Reason string
}

// MoveUnitInput defines the request for moving a unit to another squad
type MoveUnitInput struct {
	Session *session.Session
	UnitID  string
	SquadID int
}

// MoveUnitOutput defines the response for moving a unit
type MoveUnitOutput struct {
	FromSquadID int
	ToSquadID   int
}

// ExchangeUnitsInput defines the request for swapping two units
type ExchangeUnitsInput struct {
	Session *session.Session
	UnitA   string
	UnitB   string
}

// ExchangeUnitsOutput defines the response for swapping two units
type ExchangeUnitsOutput struct {
	SquadA int
	SquadB int
}
