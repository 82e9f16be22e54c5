package knowledge

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
)

var (
	loadoutAmountRegex = regexp.MustCompile(`\{item\s+"([^"]+)"\s+(\d+\.?\d*)`)
	loadoutItemRegex   = regexp.MustCompile(`\{item\s+"([^"]+)"`)
	loadoutWeaponRegex = regexp.MustCompile(`\{weapon\s+"([^"]+)"`)
)

// CanonicalReference turns the token list of a {from "..."} reference into
// the file name it points at. Knives keep their order, usa_grenade items use
// t0.t2.t1 and everything else is reversed.
func CanonicalReference(ref string) string {
	parts := strings.Fields(ref)
	switch {
	case strings.Contains(ref, "knife"):
		return strings.Join(parts, ".")
	case strings.Contains(ref, "usa_grenade") && len(parts) >= 3:
		return parts[0] + "." + parts[2] + "." + parts[1]
	}
	reversed := make([]string, len(parts))
	for i, p := range parts {
		reversed[len(parts)-1-i] = p
	}
	return strings.Join(reversed, ".")
}

// LoadoutName converts the quoted name of a breed or vehicle inventory line
// into the item file name used by the size and weight tables.
func LoadoutName(raw string) string {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return ""
	}
	tail := strings.Join(parts[1:], ".")

	if strings.Contains(raw, "usa_grenade") && len(parts) >= 3 {
		return parts[0] + "." + parts[2] + "." + parts[1]
	}
	if strings.Contains(raw, "mgun_") {
		if parts[0] == "ammo" {
			if len(parts) > 1 && parts[1] == "mgun_usa" && !strings.Contains(raw, "belt") {
				return parts[1] + ".belt.ammo"
			}
			return tail + ".ammo"
		}
		if !hasToken(parts, "ammo") {
			return strings.Join(parts, ".") + ".ammo"
		}
	}
	if strings.Contains(raw, "bullet") {
		if parts[0] == "ammo" {
			return tail + ".ammo"
		}
		if !hasToken(parts, "ammo") {
			return strings.Join(parts, ".") + ".ammo"
		}
	}
	if parts[0] == "ammo" || parts[0] == "weapon" {
		return tail + "." + parts[0]
	}
	if strings.Contains(raw, "mortar") && parts[len(parts)-1] != "ammo" {
		return strings.Join(parts, ".") + ".ammo"
	}
	return strings.Join(parts, ".")
}

func hasToken(parts []string, token string) bool {
	for _, p := range parts {
		if p == token {
			return true
		}
	}
	return false
}

// ParseLoadoutEntry reads one inventory or weaponry line. Matches are tried
// in order: quoted name with amount, quoted name alone, weapon reference.
// Weapon references are not visible in the grid.
func ParseLoadoutEntry(line string) (entities.LoadoutEntry, bool) {
	if m := loadoutAmountRegex.FindStringSubmatch(line); m != nil {
		amount, err := strconv.ParseFloat(m[2], 64)
		if err == nil {
			n := int(math.Floor(amount))
			if n == 0 {
				n = 1
			}
			return entities.LoadoutEntry{ItemName: LoadoutName(m[1]), Amount: n, Visible: true}, true
		}
	}
	if m := loadoutItemRegex.FindStringSubmatch(line); m != nil {
		return entities.LoadoutEntry{ItemName: LoadoutName(m[1]), Amount: 1, Visible: true}, true
	}
	if m := loadoutWeaponRegex.FindStringSubmatch(line); m != nil {
		return entities.LoadoutEntry{ItemName: LoadoutName(m[1]), Amount: 1, Visible: false}, true
	}
	return entities.LoadoutEntry{}, false
}

// ExtractLoadout converts raw lines, logging and skipping the ones that name
// no item.
func ExtractLoadout(lines []string, sink logsink.Sink) []entities.LoadoutEntry {
	out := make([]entities.LoadoutEntry, 0, len(lines))
	for _, line := range lines {
		entry, ok := ParseLoadoutEntry(line)
		if !ok {
			logsink.Logf(sink, "Item name not found in: %s", strings.TrimSpace(line))
			continue
		}
		out = append(out, entry)
	}
	return out
}
