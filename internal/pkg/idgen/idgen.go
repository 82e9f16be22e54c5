// Package idgen provides ID generation for new save-file units and runs
package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/conquest-editor/internal/pkg/idgen Generator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

const (
	// Entity ids created by the editor live in the upper half of the 16-bit range
	entityIDMin = 0x8000
	entityIDMax = 0xffff

	maxRollAttempts = 64
)

// EntityGenerator hands out hex entity ids (0x8000..0xffff) that do not
// collide with ids already present in the save.
type EntityGenerator struct {
	mu     sync.Mutex
	roller dice.Roller
	taken  map[string]struct{}
}

// NewEntity creates a generator that avoids every id in taken.
// A nil roller uses dice.DefaultRoller.
func NewEntity(roller dice.Roller, taken []string) *EntityGenerator {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	g := &EntityGenerator{
		roller: roller,
		taken:  make(map[string]struct{}, len(taken)),
	}
	for _, id := range taken {
		g.taken[strings.ToLower(id)] = struct{}{}
	}
	return g
}

// Reserve marks id as used
func (g *EntityGenerator) Reserve(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.taken[strings.ToLower(id)] = struct{}{}
}

// Generate returns a fresh id such as 0x9c1e, or "" once the range is exhausted
func (g *EntityGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	span := entityIDMax - entityIDMin + 1
	for i := 0; i < maxRollAttempts; i++ {
		roll, err := g.roller.Roll(span)
		if err != nil {
			break
		}
		id := formatEntityID(entityIDMin + roll - 1)
		if _, used := g.taken[id]; !used {
			g.taken[id] = struct{}{}
			return id
		}
	}

	// dense saves: walk the range instead of rolling forever
	for n := entityIDMin; n <= entityIDMax; n++ {
		id := formatEntityID(n)
		if _, used := g.taken[id]; !used {
			g.taken[id] = struct{}{}
			return id
		}
	}
	return ""
}

func formatEntityID(n int) string {
	return fmt.Sprintf("0x%x", n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}
