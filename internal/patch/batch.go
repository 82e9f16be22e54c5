package patch

import (
	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

type edit struct {
	name  string
	apply func(text string) (string, error)
}

// Batch queues edits and applies them in order. Save and status edits are
// kept apart since they target different files.
type Batch struct {
	save   []edit
	status []edit
}

// NewBatch returns an empty batch
func NewBatch() *Batch {
	return &Batch{}
}

// ReplaceInventory queues an inventory swap or insertion
func (b *Batch) ReplaceInventory(id, fragment string) {
	b.save = append(b.save, edit{
		name: "inventory " + id,
		apply: func(text string) (string, error) {
			return ReplaceInventory(text, id, fragment)
		},
	})
}

// PatchUnitScalar queues a unit scalar rewrite
func (b *Batch) PatchUnitScalar(breed, id string, field Field, value float64) {
	b.save = append(b.save, edit{
		name: field.String() + " " + id,
		apply: func(text string) (string, error) {
			return PatchUnitScalar(text, breed, id, field, value)
		},
	})
}

// RewriteRoster queues a roster rewrite
func (b *Batch) RewriteRoster(entries []string) {
	entries = append([]string(nil), entries...)
	b.save = append(b.save, edit{
		name: "roster",
		apply: func(text string) (string, error) {
			return RewriteRoster(text, entries)
		},
	})
}

// InsertUnits queues unit declarations
func (b *Batch) InsertUnits(declarations []string) {
	declarations = append([]string(nil), declarations...)
	b.save = append(b.save, edit{
		name: "units",
		apply: func(text string) (string, error) {
			return InsertUnits(text, declarations)
		},
	})
}

// PatchStatus queues a status field rewrite
func (b *Batch) PatchStatus(key string, value float64) {
	b.status = append(b.status, edit{
		name: "status " + key,
		apply: func(text string) (string, error) {
			return PatchStatus(text, key, value)
		},
	})
}

// Len counts queued save edits
func (b *Batch) Len() int {
	return len(b.save)
}

// StatusLen counts queued status edits
func (b *Batch) StatusLen() int {
	return len(b.status)
}

// Apply runs the save edits on text. On the first failure it returns the
// error and no text, so a caller never writes a half-patched save.
func (b *Batch) Apply(text string) (string, error) {
	return run(b.save, text)
}

// ApplyStatus runs the status edits on the status file text
func (b *Batch) ApplyStatus(text string) (string, error) {
	return run(b.status, text)
}

func run(edits []edit, text string) (string, error) {
	out := text
	for _, e := range edits {
		next, err := e.apply(out)
		if err != nil {
			return "", errors.Wrapf(err, "failed to apply %s", e.name)
		}
		out = next
	}
	return out, nil
}
