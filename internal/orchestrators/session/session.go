package session

import (
	"regexp"
	"sort"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/inventory"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/campaign"
)

var entityIDRegex = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)

// Unit is a loaded roster member together with what was read for it, so a
// save only patches what changed
type Unit struct {
	Inventory *inventory.EntityInventory

	loaded    string
	supplies  int
	resources int
	fuel      float64
}

// ID is the entity id of the unit
func (u *Unit) ID() string {
	return u.Inventory.EntityID
}

func newUnit(inv *inventory.EntityInventory) *Unit {
	u := &Unit{Inventory: inv}
	u.markSaved()
	return u
}

func (u *Unit) markSaved() {
	u.loaded = u.Inventory.Serialize()
	u.supplies = u.Inventory.Supplies
	u.resources = u.Inventory.Resources
	u.fuel = u.Inventory.Fuel
}

// InventoryChanged reports whether the entries differ from the save
func (u *Unit) InventoryChanged() bool {
	return u.Inventory.Serialize() != u.loaded
}

// SkippedUnit is a roster member that could not be loaded
type SkippedUnit struct {
	ID     string
	Reason error
}

// Session is one editing pass over a campaign save. It is not safe for
// concurrent use.
type Session struct {
	Base   *knowledge.Base
	Wallet *Wallet
	Squads []*entities.SquadInfo

	doc     *campaign.Document
	status  entities.CampaignStatusInfo
	units   map[string]*Unit
	order   []string
	skipped []SkippedUnit

	declarations []string
	refilled     map[int]bool
}

// Status is the status file as it was last loaded or saved
func (s *Session) Status() entities.CampaignStatusInfo {
	return s.status
}

// Scene is the current campaign.scn text
func (s *Session) Scene() string {
	return s.doc.Scene
}

// Units returns loaded units in roster order
func (s *Session) Units() []*Unit {
	out := make([]*Unit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.units[id])
	}
	return out
}

// Unit looks up a loaded unit
func (s *Session) Unit(id string) (*Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// Skipped lists roster members that failed to load
func (s *Session) Skipped() []SkippedUnit {
	return append([]SkippedUnit(nil), s.skipped...)
}

// Squad returns the roster squad with the given id
func (s *Session) Squad(id int) (*entities.SquadInfo, bool) {
	for _, sq := range s.Squads {
		if sq.ID == id {
			return sq, true
		}
	}
	return nil, false
}

// SquadOf returns the squad holding unit id and its slot
func (s *Session) SquadOf(id string) (*entities.SquadInfo, int, bool) {
	for _, sq := range s.Squads {
		if i := sq.IndexOf(id); i >= 0 {
			return sq, i, true
		}
	}
	return nil, -1, false
}

// SquadUnits returns the loaded units of a squad in roster order
func (s *Session) SquadUnits(squadID int) []*Unit {
	sq, ok := s.Squad(squadID)
	if !ok {
		return nil
	}
	var out []*Unit
	for _, id := range sq.AliveMembers() {
		if u, ok := s.units[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// DeclareUnit queues a unit declaration for insertion on save
func (s *Session) DeclareUnit(declaration string) {
	s.declarations = append(s.declarations, declaration)
}

// Declarations returns the queued unit declarations
func (s *Session) Declarations() []string {
	return append([]string(nil), s.declarations...)
}

// MarkRefilled records that a squad got its missing members this session
func (s *Session) MarkRefilled(squadID int) {
	s.refilled[squadID] = true
}

// Refilled reports whether MarkRefilled was called for the squad
func (s *Session) Refilled(squadID int) bool {
	return s.refilled[squadID]
}

// EntityIDs returns every hex entity id that appears in the save, sorted
func (s *Session) EntityIDs() []string {
	seen := make(map[string]struct{})
	for _, id := range entityIDRegex.FindAllString(s.doc.Scene, -1) {
		seen[id] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Session) rosterChanged() bool {
	for _, sq := range s.Squads {
		if sq.Dirty() {
			return true
		}
	}
	return false
}
