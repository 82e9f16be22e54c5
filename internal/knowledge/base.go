// Package knowledge derives the read-only asset database the editor works
// from: item sizes, weights and stack sizes, standard breed and vehicle
// loadouts, the weapon catalog, vehicle properties and squad costs.
//
// A Base is built once per load with Build (or restored from a snapshot with
// NewBase) and is never mutated afterwards, so it is safe to share.
package knowledge

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
)

// DefaultProperty is the inventory footprint of every unit that is not a
// known vehicle
const DefaultProperty = "human"

// Tables is the serializable content of a Base
type Tables struct {
	PatternSizes      map[string]entities.ItemSize             `json:"pattern_sizes"`
	ItemSizes         map[string]entities.ItemSize             `json:"item_sizes"`
	BlockSizes        map[string]int                           `json:"block_sizes"`
	ItemWeights       map[string]float64                       `json:"item_weights"`
	Weapons           []entities.WeaponInfo                    `json:"weapons"`
	BreedLoadouts     map[string][]entities.LoadoutEntry       `json:"breed_loadouts"`
	VehicleLoadouts   map[string][]entities.LoadoutEntry       `json:"vehicle_loadouts"`
	VehicleProperties map[string][]string                      `json:"vehicle_properties"`
	VehicleFuel       map[string]int                           `json:"vehicle_fuel"`
	PropertySizes     map[string]entities.ItemSize             `json:"property_sizes"`
	InfantryCosts     map[string]float64                       `json:"infantry_costs"`
	VehicleCosts      map[string]int                           `json:"vehicle_costs"`
	Compositions      map[string]entities.SquadCompositionInfo `json:"compositions"`
	Status            entities.CampaignStatusInfo              `json:"status"`
}

// Base answers lookups over Tables. Misses are reported to the sink.
type Base struct {
	tables  *Tables
	sink    logsink.Sink
	weapons map[string]entities.WeaponInfo
}

// NewBase wraps tables, typically ones restored from a snapshot
func NewBase(tables *Tables, sink logsink.Sink) (*Base, error) {
	if tables == nil {
		return nil, errors.InvalidArgument("tables are required")
	}
	if sink == nil {
		sink = logsink.Discard{}
	}
	b := &Base{
		tables:  tables,
		sink:    sink,
		weapons: make(map[string]entities.WeaponInfo, len(tables.Weapons)),
	}
	for _, w := range tables.Weapons {
		b.weapons[w.Name] = w
	}
	return b, nil
}

// Tables exposes the underlying tables for snapshotting. Callers must not
// modify them.
func (b *Base) Tables() *Tables {
	return b.tables
}

// ResolveItemSize returns the inventory footprint of an item
func (b *Base) ResolveItemSize(name string) (entities.ItemSize, bool) {
	size, ok := b.tables.ItemSizes[name]
	if !ok {
		logsink.Logf(b.sink, "Item '%s' not found in item sizes", name)
	}
	return size, ok
}

// ResolveItemWeight returns the mass of an item, 0.0 when unknown
func (b *Base) ResolveItemWeight(name string) float64 {
	return b.tables.ItemWeights[name]
}

// BlockSize is the largest amount one entry of the item may hold
func (b *Base) BlockSize(name string) int {
	if block, ok := b.tables.BlockSizes[name]; ok && block > 0 {
		return block
	}
	return 1
}

// Weapons returns the weapon catalog sorted by name
func (b *Base) Weapons() []entities.WeaponInfo {
	out := make([]entities.WeaponInfo, len(b.tables.Weapons))
	copy(out, b.tables.Weapons)
	return out
}

// IsWeapon reports whether name is in the weapon catalog
func (b *Base) IsWeapon(name string) bool {
	_, ok := b.weapons[name]
	return ok
}

// Weapon looks up a catalog entry
func (b *Base) Weapon(name string) (entities.WeaponInfo, bool) {
	w, ok := b.weapons[name]
	if !ok {
		logsink.Logf(b.sink, "Weapon '%s' not found in weapons info list.", name)
	}
	return w, ok
}

// WeaponCategory is the stuff directory of a weapon, "" when unknown
func (b *Base) WeaponCategory(name string) string {
	return b.weapons[name].Category
}

// WeaponsIn returns the loadout items that are catalog weapons
func (b *Base) WeaponsIn(loadout []entities.LoadoutEntry) []string {
	var out []string
	for _, e := range loadout {
		if b.IsWeapon(e.ItemName) {
			out = append(out, e.ItemName)
		}
	}
	return out
}

// BreedLoadout is the standard loadout of an infantry breed
func (b *Base) BreedLoadout(breed string) ([]entities.LoadoutEntry, bool) {
	l, ok := b.tables.BreedLoadouts[breed]
	return l, ok
}

// VehicleLoadout is the standard loadout of a vehicle
func (b *Base) VehicleLoadout(vehicle string) ([]entities.LoadoutEntry, bool) {
	l, ok := b.tables.VehicleLoadouts[vehicle]
	return l, ok
}

// Loadout tries breeds first, then vehicles
func (b *Base) Loadout(breed string) ([]entities.LoadoutEntry, bool) {
	if l, ok := b.BreedLoadout(breed); ok {
		return l, true
	}
	if l, ok := b.VehicleLoadout(breed); ok {
		return l, true
	}
	logsink.Logf(b.sink, "No standard loadout for %s", breed)
	return nil, false
}

func withItem(loadouts map[string][]entities.LoadoutEntry, match func(string) bool) []string {
	var out []string
	for name, loadout := range loadouts {
		for _, e := range loadout {
			if match(e.ItemName) {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// BreedsWithItem lists breeds whose loadout holds exactly item
func (b *Base) BreedsWithItem(item string) []string {
	return withItem(b.tables.BreedLoadouts, func(name string) bool { return name == item })
}

// VehiclesWithItem lists vehicles whose loadout holds exactly item
func (b *Base) VehiclesWithItem(item string) []string {
	return withItem(b.tables.VehicleLoadouts, func(name string) bool { return name == item })
}

// BreedsWithSimilarItem lists breeds holding an item whose name contains
// fragment
func (b *Base) BreedsWithSimilarItem(fragment string) []string {
	return withItem(b.tables.BreedLoadouts, func(name string) bool { return strings.Contains(name, fragment) })
}

// VehicleProperty returns the property that sizes a unit's inventory
func (b *Base) VehicleProperty(breed string) string {
	if props := b.tables.VehicleProperties[breed]; len(props) > 0 {
		return props[0]
	}
	return DefaultProperty
}

// IsVehicle reports whether breed names a vehicle with properties
func (b *Base) IsVehicle(breed string) bool {
	return b.VehicleProperty(breed) != DefaultProperty
}

// PropertySize is the inventory grid size of a property
func (b *Base) PropertySize(property string) (entities.ItemSize, bool) {
	size, ok := b.tables.PropertySizes[property]
	if !ok {
		logsink.Logf(b.sink, "Property '%s' not found in property sizes", property)
	}
	return size, ok
}

// VehicleMaxFuel is the tank capacity of a vehicle, -1 when it has none
func (b *Base) VehicleMaxFuel(vehicle string) int {
	if fuel, ok := b.tables.VehicleFuel[vehicle]; ok {
		return fuel
	}
	return -1
}

// InfantryCost is the MP price of one infantry member
func (b *Base) InfantryCost(member string) (float64, bool) {
	c, ok := b.tables.InfantryCosts[member]
	return c, ok
}

// VehicleCost is the resolved MP price of a vehicle composition used as a
// squad member
func (b *Base) VehicleCost(name string) (int, bool) {
	c, ok := b.tables.VehicleCosts[name]
	return c, ok
}

// Composition returns a conquest squad template with its resolved cost
func (b *Base) Composition(name string) (entities.SquadCompositionInfo, bool) {
	c, ok := b.tables.Compositions[name]
	return c, ok
}

// CostOf is the resolved cost of a squad composition
func (b *Base) CostOf(name string) (int, bool) {
	c, ok := b.tables.Compositions[name]
	if !ok {
		logsink.Logf(b.sink, "Squad composition '%s' not found", name)
		return 0, false
	}
	return c.Cost, true
}

// CampaignStatus is the status file snapshot taken at build time
func (b *Base) CampaignStatus() entities.CampaignStatusInfo {
	return b.tables.Status
}

// Stats counts table entries
type Stats struct {
	Items         int
	Patterns      int
	Weapons       int
	Breeds        int
	Vehicles      int
	Properties    int
	InfantryCosts int
	Compositions  int
}

// Stats summarizes the base
func (b *Base) Stats() Stats {
	return Stats{
		Items:         len(b.tables.ItemSizes),
		Patterns:      len(b.tables.PatternSizes),
		Weapons:       len(b.tables.Weapons),
		Breeds:        len(b.tables.BreedLoadouts),
		Vehicles:      len(b.tables.VehicleLoadouts),
		Properties:    len(b.tables.PropertySizes),
		InfantryCosts: len(b.tables.InfantryCosts),
		Compositions:  len(b.tables.Compositions),
	}
}
