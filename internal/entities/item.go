// Package entities holds the data-only types shared by the knowledge base,
// the inventory model and the orchestrators.
package entities

import "fmt"

// ItemSize is the footprint of an item in an inventory grid
type ItemSize struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the size the way the game logs it, e.g. [2 1]
func (s ItemSize) String() string {
	return fmt.Sprintf("[%d %d]", s.X, s.Y)
}

// Empty reports a zero footprint
func (s ItemSize) Empty() bool {
	return s.X == 0 || s.Y == 0
}

// WeaponInfo names a weapon and the stuff directory it lives in
type WeaponInfo struct {
	Name string `json:"name"`
	// Category is the directory path below set/stuff, e.g. "rifle/grenade"
	Category string `json:"category"`
}

// CategoryLeaf returns the last segment of Category
func (w WeaponInfo) CategoryLeaf() string {
	for i := len(w.Category) - 1; i >= 0; i-- {
		if w.Category[i] == '/' {
			return w.Category[i+1:]
		}
	}
	return w.Category
}

// LoadoutEntry is one line of a breed or vehicle's standard loadout
type LoadoutEntry struct {
	ItemName string `json:"item_name"`
	Amount   int    `json:"amount"`
	// Visible is false for weapons implied by the template but not drawn
	// in its grid, e.g. vehicle-mounted guns
	Visible bool `json:"visible"`
}

// PlacementResult describes where a new entry was put
type PlacementResult struct {
	ItemName string
	Amount   int
	CellX    int
	CellY    int
}
