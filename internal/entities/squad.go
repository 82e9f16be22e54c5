package entities

import (
	"strings"
)

// DeceasedID fills a roster slot whose unit has died
const DeceasedID = "0xffffffff"

// SquadCompositionInfo is a purchasable squad template from the conquest lists
type SquadCompositionInfo struct {
	Name   string `json:"name"`
	Side   string `json:"side"`
	Period string `json:"period"`
	// Cost is the declared cost until the knowledge base resolves members
	Cost    int            `json:"cost"`
	Members map[string]int `json:"members"`
}

// SquadInfo is one roster line of the campaign save
type SquadInfo struct {
	ID    int
	Name  string
	Stage string
	// Members in roster order. Deceased slots are present only when the
	// roster was read with deceased members kept.
	Members []string
	// Raw is the {...} roster entry as read from the save
	Raw   string
	dirty bool
}

// QuotedName strips the quotes around the squad name
func (s *SquadInfo) QuotedName() string {
	return strings.Trim(s.Name, `"`)
}

// GetID is the squad name, so squads can be event sources
func (s *SquadInfo) GetID() string {
	return s.QuotedName()
}

// GetType is always "squad"
func (s *SquadInfo) GetType() string {
	return "squad"
}

// Entry renders the roster line. Untouched squads keep their original bytes.
func (s *SquadInfo) Entry() string {
	if !s.dirty && s.Raw != "" {
		return s.Raw
	}
	fields := append([]string{s.Name, s.Stage}, s.Members...)
	return "{" + strings.Join(fields, " ") + "}"
}

// Dirty reports whether the squad changed since it was read
func (s *SquadInfo) Dirty() bool {
	return s.dirty
}

// IndexOf returns the roster slot of id, or -1
func (s *SquadInfo) IndexOf(id string) int {
	for i, m := range s.Members {
		if m == id {
			return i
		}
	}
	return -1
}

// Append adds id at the end of the roster
func (s *SquadInfo) Append(id string) {
	s.Members = append(s.Members, id)
	s.dirty = true
}

// Remove drops the first occurrence of id and reports whether it was there
func (s *SquadInfo) Remove(id string) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.Members = append(s.Members[:i], s.Members[i+1:]...)
	s.dirty = true
	return true
}

// Replace swaps the member at slot i for id
func (s *SquadInfo) Replace(i int, id string) {
	s.Members[i] = id
	s.dirty = true
}

// AliveMembers returns members that are not deceased placeholders
func (s *SquadInfo) AliveMembers() []string {
	out := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		if m != DeceasedID {
			out = append(out, m)
		}
	}
	return out
}
