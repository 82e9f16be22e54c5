// Package patch edits the campaign save as text. Every edit locates a byte
// span first and then splices a replacement into it, so bytes outside the
// targeted sections are never touched.
package patch

import (
	"math"
	"strconv"
	"strings"
)

// Markers the save format anchors edits to
const (
	RosterOpen       = "\t{CampaignSquads\n"
	rosterClose      = "\n\t}"
	PlayerTagsMarker = "\t{Tags \"_user\" \"player\""
	inventoryClose   = "\n\t}"
)

// Span is a half-open byte range of a text
type Span struct {
	Start int
	End   int
}

// Len is the number of bytes covered
func (s Span) Len() int {
	return s.End - s.Start
}

// Splice replaces the span of text with repl
func Splice(text string, span Span, repl string) string {
	return text[:span.Start] + repl + text[span.End:]
}

// FormatFloat renders a value the way the game writes decimals: the shortest
// representation, always with a fractional part (120.0, 57.25)
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Round2 rounds to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
