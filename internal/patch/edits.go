package patch

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

// Field names a scalar inside a unit declaration
type Field int

// Unit scalars
const (
	FieldSupplies Field = iota
	FieldResources
	FieldFuel
)

func (f Field) String() string {
	switch f {
	case FieldSupplies:
		return "supplies"
	case FieldResources:
		return "resources"
	case FieldFuel:
		return "fuel"
	default:
		return "unknown"
	}
}

var fieldPatterns = map[Field]*regexp.Regexp{
	FieldSupplies:  regexp.MustCompile(`\{\s*Extender\s+"supply_zone"[\s\n]+\{enabled\}[\s\n]+\{current\s+(\d+)\}[\s\n]+\}`),
	FieldResources: regexp.MustCompile(`\{\s*Extender\s+"resources"[\s\n]+\{current\s+(\d+)\}[\s\n]+\}`),
	FieldFuel:      regexp.MustCompile(`\{\s*FuelBag\s*\{\s*Remain\s+([\d.]+)\s*\}\s*\}`),
}

// FieldPattern is the anchored pattern of a scalar. Group 1 is the value.
func FieldPattern(f Field) *regexp.Regexp {
	return fieldPatterns[f]
}

// formatField writes fuel refilled to a whole capacity as an integer (300),
// any other fuel with its fraction (250.75)
func formatField(f Field, v float64) string {
	if f == FieldFuel && v != math.Trunc(v) {
		return FormatFloat(v)
	}
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

// ReplaceInventory swaps the inventory block of id for fragment. A unit
// without one gets "\t<fragment>\n" inserted in front of the roster block.
// The insert goes ahead of "\t{CampaignSquads", not inside the roster.
func ReplaceInventory(text, id, fragment string) (string, error) {
	if span, ok := LocateInventory(text, id); ok {
		return Splice(text, span, fragment), nil
	}
	at := strings.Index(text, RosterOpen)
	if at < 0 {
		return "", errors.NotFound("roster block not found, cannot insert inventory").WithEntity(id)
	}
	return Splice(text, Span{Start: at, End: at}, "\t"+fragment+"\n"), nil
}

// PatchUnitScalar rewrites the value token of a field inside the block of
// unit id
func PatchUnitScalar(text, breed, id string, field Field, value float64) (string, error) {
	unit, ok := LocateUnit(text, breed, id)
	if !ok {
		return "", errors.NotFoundf("unit %s not found", id).
			WithEntity(id).
			WithMeta(errors.MetaBreed, breed)
	}
	pattern, ok := fieldPatterns[field]
	if !ok {
		return "", errors.InvalidArgumentf("unknown field %d", field)
	}
	loc := pattern.FindStringSubmatchIndex(text[unit.Start:unit.End])
	if loc == nil {
		return "", errors.NotFoundf("no %s in unit %s", field, id).WithEntity(id)
	}
	target := Span{Start: unit.Start + loc[2], End: unit.Start + loc[3]}
	return Splice(text, target, formatField(field, value)), nil
}

// ReadUnitScalar returns the value of a field inside the block of unit id
func ReadUnitScalar(text, breed, id string, field Field) (float64, bool) {
	unit, ok := LocateUnit(text, breed, id)
	if !ok {
		return 0, false
	}
	pattern, ok := fieldPatterns[field]
	if !ok {
		return 0, false
	}
	m := pattern.FindStringSubmatch(text[unit.Start:unit.End])
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Status keys rewritten in the status file
const (
	StatusMP = "mp"
	StatusAP = "ap"
)

// PatchStatus rewrites the first {key N} of the status file. The value is
// rounded to two decimals.
func PatchStatus(text, key string, value float64) (string, error) {
	pattern, err := regexp.Compile(`\{` + regexp.QuoteMeta(key) + `\s+\d+\.?\d*\}`)
	if err != nil {
		return "", errors.InvalidArgumentf("bad status key %q", key)
	}
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", errors.NotFoundf("status field %s not found", key)
	}
	repl := fmt.Sprintf("{%s %s}", key, FormatFloat(Round2(value)))
	return Splice(text, Span{Start: loc[0], End: loc[1]}, repl), nil
}

// RewriteRoster regenerates the whole roster block from entries
func RewriteRoster(text string, entries []string) (string, error) {
	span, ok := LocateRoster(text)
	if !ok {
		return "", errors.NotFound("roster block not found")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = "\t\t" + e
	}
	return Splice(text, span, RosterOpen+strings.Join(lines, "\n")+rosterClose), nil
}

// UnitDeclaration renders a new unit line, e.g.
// {Human "mp/ger/mid/rifleman_1" 0x8a3f}
func UnitDeclaration(keyword, breed, id string) string {
	return fmt.Sprintf("%s %q %s}\n", keyword, breed, id)
}

// InsertUnits puts the declarations, each prefixed by a tab, in front of the
// player tags line. Calling it twice inserts twice.
func InsertUnits(text string, declarations []string) (string, error) {
	if len(declarations) == 0 {
		return text, nil
	}
	at := strings.Index(text, PlayerTagsMarker)
	if at < 0 {
		return "", errors.NotFound("player tags not found, cannot insert units")
	}
	var sb strings.Builder
	for _, d := range declarations {
		sb.WriteString("\t")
		sb.WriteString(d)
	}
	return Splice(text, Span{Start: at, End: at}, sb.String()), nil
}
