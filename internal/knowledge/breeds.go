package knowledge

import (
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

// BreedName is the key of a breed file: its last four path components
// without the .set extension, e.g. mp/ger/mid/rifleman_1
func BreedName(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) > 4 {
		parts = parts[len(parts)-4:]
	}
	return strings.TrimSuffix(strings.Join(parts, "/"), ".set")
}

// inventoryLines returns the {item lines of the first block opened by a line
// matching open
func inventoryLines(text string, open section.Matcher, keep section.Matcher) []string {
	b, ok := section.NewReader(text).Block(open, section.CloseLine)
	if !ok {
		return nil
	}
	return b.Filter(keep)
}

func scanBreeds(files []sourceFile, sink logsink.Sink) map[string][]entities.LoadoutEntry {
	out := make(map[string][]entities.LoadoutEntry, len(files))
	for _, f := range files {
		lines := inventoryLines(f.text, section.Contains("{inventory"), section.ItemLine)
		if len(lines) == 0 {
			logsink.Logf(sink, "File %s does not contain inventory information", f.path)
		}
		out[BreedName(f.path)] = ExtractLoadout(lines, sink)
	}
	return out
}
