package resupply

import (
	"sort"

	"github.com/KirkDiggler/conquest-editor/internal/orchestrators/session"
)

// Refill steps, as reported in events and reports
const (
	StepWeapons   = "weapons"
	StepEquipment = "equipment"
	StepAmmo      = "ammo"
	StepResources = "resources"
	StepSupplies  = "supplies"
	StepFuel      = "fuel"
)

// Report is what a refill did to one unit
type Report struct {
	UnitID string
	// Added is the amount put in per item, new stacks and filled ones
	Added map[string]int
	// Spent is the AP charged
	Spent float64
	// Exhausted lists "step item" pairs skipped for lack of AP
	Exhausted []string
	// Failed lists items that found no room in the grid
	Failed []string
}

func newReport(unitID string) *Report {
	return &Report{UnitID: unitID, Added: make(map[string]int)}
}

// Items returns the added item names, sorted
func (r *Report) Items() []string {
	out := make([]string, 0, len(r.Added))
	for name := range r.Added {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UnitInput defines the request for refilling one unit
type UnitInput struct {
	Session *session.Session
	UnitID  string
}

// UnitOutput defines the response for refilling one unit
type UnitOutput struct {
	Report *Report
}

// SquadInput defines the request for refilling every member of a squad
type SquadInput struct {
	Session *session.Session
	SquadID int
}

// SquadOutput defines the response for refilling a squad
type SquadOutput struct {
	Reports []*Report
	// Skipped units hit an inventory error; the others were still refilled
	Skipped []session.SkippedUnit
}

// AllInput defines the request for refilling the whole roster
type AllInput struct {
	Session *session.Session
}

// AllOutput defines the response for refilling the whole roster
type AllOutput struct {
	Reports []*Report
	Skipped []session.SkippedUnit
	Spent   float64
}
