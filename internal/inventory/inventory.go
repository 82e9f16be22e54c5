// Package inventory models one unit's inventory: the raw entry lines from the
// save, the capacity grid they occupy and the item counts derived from them.
package inventory

//go:generate mockgen -destination=mock/mock_catalog.go -package=inventorymock github.com/KirkDiggler/conquest-editor/internal/inventory Catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
)

// Entity types reported by GetType
const (
	TypeHuman   = "human"
	TypeVehicle = "vehicle"
)

// Catalog is the part of the knowledge base the grid needs
type Catalog interface {
	ResolveItemSize(name string) (entities.ItemSize, bool)
	VehicleProperty(breed string) string
	PropertySize(property string) (entities.ItemSize, bool)
}

// WeaponCatalog answers weapon lookups
type WeaponCatalog interface {
	IsWeapon(name string) bool
	Weapon(name string) (entities.WeaponInfo, bool)
}

// Config holds what a unit's inventory is built from
type Config struct {
	SquadID  int
	EntityID string
	Breed    string
	Entries  []string
	// Supplies, Resources and Fuel are -1 when the unit has none
	Supplies  int
	Resources int
	Fuel      float64
	Catalog   Catalog
	Sink      logsink.Sink
}

// Validate ensures the required fields are set
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("EntityID", c.EntityID, vb)
	errors.ValidateRequired("Breed", c.Breed, vb)
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

// EntityInventory is a unit's inventory. The grid and counts are rebuilt by
// every mutator; a failed rebuild leaves the previous state in place.
type EntityInventory struct {
	SquadID   int
	EntityID  string
	Breed     string
	Supplies  int
	Resources int
	Fuel      float64

	catalog Catalog
	sink    logsink.Sink

	entries []string
	// grid[x][y] is true when a footprint covers the cell
	grid   [][]bool
	counts map[string]int
}

var _ core.Entity = (*EntityInventory)(nil)

// New parses the entries and builds the occupancy grid. An overlapping or
// out of bounds entry fails with CodeDataLoss.
func New(cfg *Config) (*EntityInventory, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}

	inv := &EntityInventory{
		SquadID:   cfg.SquadID,
		EntityID:  cfg.EntityID,
		Breed:     cfg.Breed,
		Supplies:  cfg.Supplies,
		Resources: cfg.Resources,
		Fuel:      cfg.Fuel,
		catalog:   cfg.Catalog,
		sink:      sink,
		entries:   append([]string(nil), cfg.Entries...),
	}
	if err := inv.Rebuild(); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetID implements core.Entity
func (inv *EntityInventory) GetID() string {
	return inv.EntityID
}

// GetType implements core.Entity
func (inv *EntityInventory) GetType() string {
	if inv.IsVehicle() {
		return TypeVehicle
	}
	return TypeHuman
}

// IsVehicle reports whether the breed sizes its grid from a vehicle property
func (inv *EntityInventory) IsVehicle() bool {
	return inv.catalog.VehicleProperty(inv.Breed) != knowledge.DefaultProperty
}

// GridSize is the inventory capacity of the unit
func (inv *EntityInventory) GridSize() (entities.ItemSize, error) {
	property := inv.catalog.VehicleProperty(inv.Breed)
	size, ok := inv.catalog.PropertySize(property)
	if !ok {
		return entities.ItemSize{}, errors.DataLossf("no inventory size for property %s", property).
			WithEntity(inv.EntityID).
			WithMeta(errors.MetaBreed, inv.Breed)
	}
	return size, nil
}

// Rebuild recomputes the grid and counts from the current entries
func (inv *EntityInventory) Rebuild() error {
	return inv.commit(inv.entries)
}

// commit builds caches for entries and swaps everything in only on success
func (inv *EntityInventory) commit(entries []string) error {
	size, err := inv.GridSize()
	if err != nil {
		return err
	}
	grid := make([][]bool, size.X)
	for x := range grid {
		grid[x] = make([]bool, size.Y)
	}
	counts := make(map[string]int)

	for _, entry := range entries {
		info, err := ParseEntry(entry)
		if err != nil {
			return errors.Wrap(err, "failed to parse inventory").WithEntity(inv.EntityID)
		}
		footprint, ok := inv.catalog.ResolveItemSize(info.Name)
		if !ok {
			return errors.DataLossf("unknown size for item %s", info.Name).
				WithEntity(inv.EntityID).
				WithMeta(errors.MetaItem, info.Name)
		}
		for i := 0; i < footprint.X; i++ {
			for j := 0; j < footprint.Y; j++ {
				x, y := info.CellX+i, info.CellY+j
				if x >= size.X || y >= size.Y {
					return errors.DataLossf("item %s at cell %d %d leaves the %s grid", info.Name, info.CellX, info.CellY, size).
						WithEntity(inv.EntityID).
						WithMeta(errors.MetaItem, info.Name)
				}
				if grid[x][y] {
					return errors.DataLossf("item %s overlaps cell %d %d", info.Name, x, y).
						WithEntity(inv.EntityID).
						WithMeta(errors.MetaItem, info.Name)
				}
				grid[x][y] = true
			}
		}
		counts[info.Name] += info.Amount
	}

	inv.entries = entries
	inv.grid = grid
	inv.counts = counts
	return nil
}

// FindSpace returns the first free anchor cell for the item. Cells are
// scanned column by column: the outer loop runs over y, the inner over x.
func (inv *EntityInventory) FindSpace(name string) (int, int, error) {
	footprint, ok := inv.catalog.ResolveItemSize(name)
	if !ok {
		return 0, 0, errors.NotFoundf("unknown size for item %s", name).
			WithEntity(inv.EntityID).
			WithMeta(errors.MetaItem, name)
	}
	width := len(inv.grid)
	height := 0
	if width > 0 {
		height = len(inv.grid[0])
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if inv.grid[x][y] {
				continue
			}
			if inv.fits(x, y, footprint) {
				return x, y, nil
			}
		}
	}
	return 0, 0, errors.ItemDoesNotFit(name, footprint, inv.EntityID)
}

func (inv *EntityInventory) fits(x, y int, footprint entities.ItemSize) bool {
	for i := 0; i < footprint.X; i++ {
		for j := 0; j < footprint.Y; j++ {
			cx, cy := x+i, y+j
			if cx >= len(inv.grid) || cy >= len(inv.grid[cx]) || inv.grid[cx][cy] {
				return false
			}
		}
	}
	return true
}

// AddNew places a new entry holding amount of the item at the first free
// cell. Nothing changes when the item does not fit.
func (inv *EntityInventory) AddNew(name string, amount int) (*entities.PlacementResult, error) {
	x, y, err := inv.FindSpace(name)
	if err != nil {
		return nil, err
	}
	entries := append(inv.Entries(), FormatEntry(name, amount, x, y))
	if err := inv.commit(entries); err != nil {
		return nil, err
	}
	return &entities.PlacementResult{ItemName: name, Amount: amount, CellX: x, CellY: y}, nil
}

// FillExisting raises the first stack of the item that is below capacity up
// to capacity and returns the amount added
func (inv *EntityInventory) FillExisting(name string, capacity int) int {
	return inv.Fill(name, capacity, 0)
}

// Fill raises the first stack of the item below capacity by at most limit
// (no limit when limit <= 0) and returns the amount added. Stacks marked
// filling or filled and stacks without an explicit amount are left alone,
// so a second call on a full stack returns 0.
func (inv *EntityInventory) Fill(name string, capacity, limit int) int {
	for i, entry := range inv.entries {
		if strings.Contains(entry, fillingKeyword) || strings.Contains(entry, filledKeyword) {
			continue
		}
		info, err := ParseEntry(entry)
		if err != nil || info.Name != name {
			continue
		}
		current, ok := explicitAmount(entry)
		if !ok || current >= capacity {
			continue
		}
		target := capacity
		if limit > 0 && current+limit < capacity {
			target = current + limit
		}
		updated, ok := withAmount(entry, target)
		if !ok {
			continue
		}

		entries := inv.Entries()
		entries[i] = updated
		if err := inv.commit(entries); err != nil {
			logsink.Logf(inv.sink, "Unable to fill %s in %s: %v", name, inv.EntityID, err)
			return 0
		}
		return target - current
	}
	return 0
}

// CountItems returns the total amount per item
func (inv *EntityInventory) CountItems() map[string]int {
	out := make(map[string]int, len(inv.counts))
	for k, v := range inv.counts {
		out[k] = v
	}
	return out
}

// Count is the total amount of one item
func (inv *EntityInventory) Count(name string) int {
	return inv.counts[name]
}

// Entries returns a copy of the raw entry lines
func (inv *EntityInventory) Entries() []string {
	return append([]string(nil), inv.entries...)
}

// SetEntries replaces the entry lines and rebuilds
func (inv *EntityInventory) SetEntries(entries []string) error {
	return inv.commit(append([]string(nil), entries...))
}

// Items parses every entry
func (inv *EntityInventory) Items() []ItemInfo {
	out := make([]ItemInfo, 0, len(inv.entries))
	for _, entry := range inv.entries {
		if info, err := ParseEntry(entry); err == nil {
			out = append(out, info)
		}
	}
	return out
}

// Weapons lists the carried items that are catalog weapons, in entry order
func (inv *EntityInventory) Weapons(catalog WeaponCatalog) []entities.WeaponInfo {
	var out []entities.WeaponInfo
	for _, item := range inv.Items() {
		if !catalog.IsWeapon(item.Name) {
			continue
		}
		if w, ok := catalog.Weapon(item.Name); ok {
			out = append(out, w)
		}
	}
	return out
}

// Serialize renders the {Inventory ...} block as the save stores it,
// without a trailing newline
func (inv *EntityInventory) Serialize() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "{Inventory %s\n", inv.EntityID)
	sb.WriteString("\t\t{box\n")
	sb.WriteString("\t\t\t{clear}\n")
	for _, entry := range inv.entries {
		sb.WriteString(entry)
	}
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t}")
	return sb.String()
}

// GridString draws the occupancy grid one row per y, '#' for used cells
func (inv *EntityInventory) GridString() string {
	if len(inv.grid) == 0 {
		return ""
	}
	var sb strings.Builder
	for y := 0; y < len(inv.grid[0]); y++ {
		for x := 0; x < len(inv.grid); x++ {
			if inv.grid[x][y] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String summarizes the unit for logs
func (inv *EntityInventory) String() string {
	names := make([]string, 0, len(inv.counts))
	for name := range inv.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, inv.counts[name]))
	}
	return fmt.Sprintf("squad %d unit %s (%s) supplies %d resources %d fuel %v: %s",
		inv.SquadID, inv.EntityID, inv.Breed, inv.Supplies, inv.Resources, inv.Fuel, strings.Join(parts, " "))
}
