package campaign

import (
	"regexp"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/patch"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

// Unit scalars absent from a unit block read as Missing
const Missing = -1

var rosterEntryRegex = regexp.MustCompile(`\{(.*?)\}`)

// ParseRoster reads the roster lines after {CampaignSquads. Squads are
// numbered from 0 and the first line that is not a {...} entry ends the
// roster. Deceased slots are dropped unless keepDeceased is set.
func ParseRoster(text string, keepDeceased bool) []*entities.SquadInfo {
	r := section.NewReader(text)
	i, ok := r.Find(section.Contains("{CampaignSquads"), 0)
	if !ok {
		return nil
	}

	var squads []*entities.SquadInfo
	lines := r.Lines()
	for j := i + 1; j < len(lines); j++ {
		raw := rosterEntryRegex.FindString(lines[j].Text)
		if raw == "" {
			break
		}
		fields := strings.Fields(strings.Trim(raw, "{}"))
		if len(fields) < 2 {
			break
		}
		squad := &entities.SquadInfo{
			ID:    len(squads),
			Name:  fields[0],
			Stage: fields[1],
			Raw:   raw,
		}
		for _, m := range fields[2:] {
			if m == entities.DeceasedID && !keepDeceased {
				continue
			}
			squad.Members = append(squad.Members, m)
		}
		squads = append(squads, squad)
	}
	return squads
}

// MemberBreed returns the breed on the declaration line of unit id
func MemberBreed(text, id string) (string, bool) {
	r := section.NewReader(text)
	i, ok := r.Find(patch.UnitLine("", id), 0)
	if !ok {
		return "", false
	}
	fields := strings.Fields(r.Lines()[i].Text)
	if len(fields) < 2 {
		return "", false
	}
	return strings.Trim(fields[1], `"`), true
}

// InventoryHeader matches the first line of the inventory block of unit id
func InventoryHeader(id string) section.Matcher {
	return section.All(section.Contains("{Inventory "), section.ContainsToken(id))
}

// MemberInventory returns the {item lines of the inventory block of unit id,
// terminators included. The flag is false when the unit has no block.
func MemberInventory(text, id string) ([]string, bool) {
	r := section.NewReader(text)
	i, ok := r.Find(InventoryHeader(id), 0)
	if !ok {
		return nil, false
	}
	return r.BlockAt(i, section.CloseLine).Filter(section.Contains("{item")), true
}

// Member is one roster member as declared in the save
type Member struct {
	SquadID      int
	ID           string
	Breed        string
	Entries      []string
	HasInventory bool
	Supplies     int
	Resources    int
	Fuel         float64
}

// ReadMember collects breed, inventory and scalars of unit id. It returns
// false when the unit has no declaration.
func ReadMember(text string, squadID int, id string) (*Member, bool) {
	breed, ok := MemberBreed(text, id)
	if !ok {
		return nil, false
	}
	entries, has := MemberInventory(text, id)
	return &Member{
		SquadID:      squadID,
		ID:           id,
		Breed:        breed,
		Entries:      entries,
		HasInventory: has,
		Supplies:     int(readScalar(text, breed, id, patch.FieldSupplies)),
		Resources:    int(readScalar(text, breed, id, patch.FieldResources)),
		Fuel:         readScalar(text, breed, id, patch.FieldFuel),
	}, true
}

func readScalar(text, breed, id string, field patch.Field) float64 {
	v, ok := patch.ReadUnitScalar(text, breed, id, field)
	if !ok {
		return Missing
	}
	return v
}
