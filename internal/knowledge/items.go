package knowledge

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

var (
	sizeRegex  = regexp.MustCompile(`\{size (\d+) (\d+)\s*\}`)
	blockRegex = regexp.MustCompile(`\{block (\d+)\s*\}`)
	fromRegex  = regexp.MustCompile(`\{from\s+"(.*?)"`)
	massRegex  = regexp.MustCompile(`\{mass\s+(\d+\.?\d*)\}`)

	// item definitions the game never shows in an inventory
	excludedContent = []string{"{noView}", "hand thrower"}

	weaponDirs = []string{"/bazooka", "/flame", "/mgun", "/pistol", "/rifle", "/smg"}
)

// itemTables is the result of the item family scan
type itemTables struct {
	patternSizes map[string]entities.ItemSize
	sizes        map[string]entities.ItemSize
	blocks       map[string]int
	weights      map[string]float64
	weapons      []entities.WeaponInfo
}

func isExcludedContent(text string) bool {
	for _, p := range excludedContent {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func isPattern(p string) bool {
	return path.Ext(p) == ".pattern"
}

func parseSize(m []string) entities.ItemSize {
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return entities.ItemSize{X: x, Y: y}
}

func sizeCandidates(ref string) []string {
	return []string{ref, ref + ".weapon"}
}

// scanItems resolves pattern sizes, item sizes, block sizes, weights and the
// weapon catalog, in that order.
func scanItems(files []sourceFile, r *rules.Rules, sink logsink.Sink) *itemTables {
	out := &itemTables{blocks: make(map[string]int)}

	out.patternSizes = scanPatternSizes(files, sink)
	out.sizes = scanItemSizes(files, out.patternSizes, out.blocks, sink)

	for _, f := range files {
		if isPattern(f.path) {
			continue
		}
		if block, ok := r.BlockSizeFor(f.path); ok {
			out.blocks[f.name()] = block
		}
	}

	out.weights = scanWeights(files, sink)
	out.weapons = scanWeapons(files)
	return out
}

func scanPatternSizes(files []sourceFile, sink logsink.Sink) map[string]entities.ItemSize {
	links := make(map[string]link[entities.ItemSize])
	for _, f := range files {
		if !isPattern(f.path) {
			continue
		}
		if strings.Contains(f.text, "{inventory") {
			if m := sizeRegex.FindStringSubmatch(f.text); m != nil {
				links[f.name()] = valueLink(parseSize(m))
			}
			continue
		}
		if m := fromRegex.FindStringSubmatch(f.text); m != nil {
			if strings.Contains(m[1], "throwable") {
				continue
			}
			links[f.name()] = refLink[entities.ItemSize](reverseJoin(m[1]))
			continue
		}
		links[f.name()] = valueLink(entities.ItemSize{})
	}

	res := newResolver(links, nil, entities.ItemSize{}, func(key string) {
		logsink.Logf(sink, "Pattern size reference cycle at: %s", key)
	})
	sizes, missing := res.all()
	// a pattern naming an unknown pattern has no footprint
	for _, key := range missing {
		sizes[key] = entities.ItemSize{}
	}
	return sizes
}

func scanItemSizes(files []sourceFile, patterns map[string]entities.ItemSize, blocks map[string]int, sink logsink.Sink) map[string]entities.ItemSize {
	links := make(map[string]link[entities.ItemSize])
	for _, f := range files {
		if isPattern(f.path) || isExcludedContent(f.text) {
			continue
		}
		name := f.name()

		if strings.Contains(f.text, "{inventory") {
			if m := blockRegex.FindStringSubmatch(f.text); m != nil {
				if block, err := strconv.Atoi(m[1]); err == nil {
					blocks[name] = block
				}
			}
			switch m := sizeRegex.FindStringSubmatch(f.text); {
			case m != nil:
				links[name] = valueLink(parseSize(m))
			case strings.Contains(f.path, "special"):
				links[name] = valueLink(entities.ItemSize{X: 2, Y: 2})
			default:
				logsink.Logf(sink, "No size in: %s", f.path)
			}
			continue
		}

		m := fromRegex.FindStringSubmatch(f.text)
		if m == nil {
			continue
		}
		if strings.Contains(f.path, "/gun/") || strings.Contains(f.path, "/reactive/") {
			links[name] = valueLink(entities.ItemSize{})
			continue
		}
		target := CanonicalReference(m[1])
		if strings.Contains(m[1], "pattern") {
			size, ok := patterns[target]
			if !ok {
				logsink.Logf(sink, "Pattern %s not found for: %s", target, f.path)
				continue
			}
			links[name] = valueLink(size)
			continue
		}
		links[name] = refLink[entities.ItemSize](target)
	}

	res := newResolver(links, sizeCandidates, entities.ItemSize{}, func(key string) {
		logsink.Logf(sink, "Size reference cycle at: %s", key)
	})
	sizes, missing := res.all()
	sort.Strings(missing)
	for _, key := range missing {
		logsink.Logf(sink, "Size of %s could not be resolved from %s", key, links[key].ref)
	}
	return sizes
}

func scanWeights(files []sourceFile, sink logsink.Sink) map[string]float64 {
	links := make(map[string]link[float64])
	for _, f := range files {
		if isExcludedContent(f.text) {
			continue
		}
		name := f.name()
		if strings.Contains(f.text, "{mass") {
			m := massRegex.FindStringSubmatch(f.text)
			if m == nil {
				logsink.Logf(sink, "No mass in: %s", f.path)
				continue
			}
			mass, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				logsink.Logf(sink, "No mass in: %s", f.path)
				continue
			}
			links[name] = valueLink(mass)
			continue
		}
		if m := fromRegex.FindStringSubmatch(f.text); m != nil {
			links[name] = refLink[float64](CanonicalReference(m[1]))
		}
	}

	res := newResolver(links, sizeCandidates, 0.0, func(key string) {
		logsink.Logf(sink, "Weight reference cycle at: %s", key)
	})
	weights, missing := res.all()
	// an unresolved weight weighs nothing
	for _, key := range missing {
		weights[key] = 0.0
	}
	return weights
}

func scanWeapons(files []sourceFile) []entities.WeaponInfo {
	var weapons []entities.WeaponInfo
	for _, f := range files {
		ext := path.Ext(f.path)
		if ext == ".pattern" || ext == ".ammo" {
			continue
		}
		if !containsAny(f.path, weaponDirs) || isExcludedContent(f.text) {
			continue
		}
		weapons = append(weapons, entities.WeaponInfo{Name: f.name(), Category: weaponCategory(f.path)})
	}
	sort.Slice(weapons, func(i, j int) bool { return weapons[i].Name < weapons[j].Name })
	return weapons
}

// weaponCategory is the directory path below set/stuff
func weaponCategory(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) < 3 {
		return ""
	}
	category := ""
	if parent := parts[len(parts)-2]; parent != "stuff" {
		category = parent
	}
	if grand := parts[len(parts)-3]; grand != "stuff" {
		category = grand + "/" + category
	}
	return category
}

func reverseJoin(ref string) string {
	parts := strings.Fields(ref)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
