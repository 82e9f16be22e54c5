package resupply

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
)

const (
	browningM2 = "browning_m2"
	hmgunUSA   = "hmgun_usa"
)

// similarity is 1 - edit distance / longer length, 1 for equal names
func similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// matchesAmmo decides whether loadout[i] is ammunition for weapon. Checks
// run in order: the browning special case, the weapon's category leaf in
// the ammo name, name similarity, and finally an ammo line right after the
// weapon's own line.
func (o *orchestrator) matchesAmmo(weapon entities.WeaponInfo, loadout []entities.LoadoutEntry, i int) bool {
	ammo := loadout[i].ItemName
	if strings.Contains(weapon.Name, browningM2) {
		return strings.Contains(ammo, hmgunUSA)
	}
	if leaf := weapon.CategoryLeaf(); leaf != "" && strings.Contains(ammo, leaf) {
		return true
	}
	if similarity(weapon.Name, ammo) >= o.policy.AmmoSimilarity {
		return true
	}
	return i > 0 && loadout[i-1].ItemName == weapon.Name
}
