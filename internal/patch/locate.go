package patch

import (
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/section"
)

// Unit declaration keywords
const (
	HumanKeyword  = "{Human"
	EntityKeyword = "{Entity"
)

// LocateInventory finds "{Inventory <id>\n" through the first "\n\t}" after
// it
func LocateInventory(text, id string) (Span, bool) {
	header := "{Inventory " + id + "\n"
	start := strings.Index(text, header)
	if start < 0 {
		return Span{}, false
	}
	end := strings.Index(text[start+len(header)-1:], inventoryClose)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: start, End: start + len(header) - 1 + end + len(inventoryClose)}, true
}

// UnitLine matches the declaration line of unit id. The breed is checked
// only when it is not empty.
func UnitLine(breed, id string) section.Matcher {
	ms := []section.Matcher{
		section.Any(section.Contains(HumanKeyword), section.Contains(EntityKeyword)),
		section.ContainsToken(id),
	}
	if breed != "" {
		ms = append(ms, section.Contains(`"`+breed+`"`))
	}
	return section.All(ms...)
}

// LocateUnit finds the declaration of unit id through its "\t}\n" close. A
// declaration whose braces already balance on its own line is a span of one
// line.
func LocateUnit(text, breed, id string) (Span, bool) {
	r := section.NewReader(text)
	i, ok := r.Find(UnitLine(breed, id), 0)
	if !ok {
		return Span{}, false
	}
	header := r.Lines()[i]
	if strings.Count(header.Text, "{") == strings.Count(header.Text, "}") {
		return Span{Start: header.Offset, End: header.End()}, true
	}
	start, end := r.BlockAt(i, section.CloseLine).Span()
	return Span{Start: start, End: end}, true
}

// LocateRoster finds the "\t{CampaignSquads\n" block through its "\n\t}"
// close
func LocateRoster(text string) (Span, bool) {
	start := strings.Index(text, RosterOpen)
	if start < 0 {
		return Span{}, false
	}
	from := start + len(RosterOpen) - 1
	end := strings.Index(text[from:], rosterClose)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: start, End: from + end + len(rosterClose)}, true
}
