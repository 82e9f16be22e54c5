package knowledge

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

var (
	vehiclePropertyRegex = regexp.MustCompile(`\(include\s+"/properties/([^"/.]+)\.ext"\)`)
	vehicleFuelRegex     = regexp.MustCompile(`fuel\((\d+)\)`)
	vehicleIncludeRegex  = regexp.MustCompile(`\(include\s+"([^"]+)\.inc"\)`)
	// a property-less vehicle borrows from a sibling include
	vehicleInheritRegex = regexp.MustCompile(`\(include\s+"([^"/.]+)\.inc"\)`)

	propertyIncludeRegex = regexp.MustCompile(`\(include\s+"([^"]+)\.ext"\)`)
	extenderSizeRegex    = regexp.MustCompile(`\{[Ss]ize\s+(\d+)\s+(\d+)\}`)
	extenderOpen         = section.Contains(`{extender "inventory"`)
)

// VehicleName is the key of a vehicle file: its base name without .def.
// Include files keep their .inc extension.
func VehicleName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".def")
}

func isVehicleFile(p string) bool {
	ext := path.Ext(p)
	return ext == ".def" || ext == ".inc"
}

// scanVehicleProperties reads the property list and max fuel of every
// vehicle file
func scanVehicleProperties(files []sourceFile, sink logsink.Sink) (map[string][]string, map[string]int) {
	props := make(map[string][]string)
	fuel := make(map[string]int)
	inherit := make(map[string]string)

	for _, f := range files {
		if !isVehicleFile(f.path) {
			continue
		}
		name := VehicleName(f.path)
		var list []string
		for _, m := range vehiclePropertyRegex.FindAllStringSubmatch(f.text, -1) {
			list = append(list, m[1])
		}
		props[name] = list

		fuel[name] = -1
		if m := vehicleFuelRegex.FindStringSubmatch(f.text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				fuel[name] = n
			}
		}
		if len(list) == 0 {
			if m := vehicleInheritRegex.FindStringSubmatch(f.text); m != nil {
				inherit[name] = m[1] + ".inc"
			}
		}
	}

	var lookup func(name string, seen map[string]bool) (string, bool)
	lookup = func(name string, seen map[string]bool) (string, bool) {
		if len(props[name]) > 0 {
			return name, true
		}
		parent, ok := inherit[name]
		if !ok || seen[name] {
			return "", false
		}
		seen[name] = true
		if _, exists := props[parent]; !exists {
			return "", false
		}
		return lookup(parent, seen)
	}

	for name, list := range props {
		if len(list) > 0 {
			continue
		}
		source, ok := lookup(name, map[string]bool{})
		if !ok {
			logsink.Logf(sink, "Vehicle %s has no properties", name)
			delete(props, name)
			continue
		}
		props[name] = props[source]
		fuel[name] = fuel[source]
	}
	return props, fuel
}

// propertyTables holds the inventory extenders of property files
type propertyTables struct {
	sizes   map[string]entities.ItemSize
	entries map[string][]string
}

type extender struct {
	size    entities.ItemSize
	hasSize bool
	entries []string
}

func parseExtender(text string) extender {
	var ext extender
	b, ok := section.NewReader(text).Block(extenderOpen, section.CloseLine)
	if !ok {
		return ext
	}
	for _, l := range b.Body {
		switch {
		case strings.Contains(l.Text, "{Size") || strings.Contains(l.Text, "{size"):
			if m := extenderSizeRegex.FindStringSubmatch(l.Text); m != nil {
				ext.size = parseSize(m)
				ext.hasSize = true
			}
		case section.ItemLine(l.Text):
			ext.entries = append(ext.entries, l.Text)
		}
	}
	return ext
}

// PropertyName is the key of a property file: its base name without .ext
func PropertyName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".ext")
}

func includedPropertyPath(ref string) string {
	ref = strings.ReplaceAll(ref, "/properties/", "")
	return "properties/" + strings.TrimPrefix(ref, "/") + ".ext"
}

func scanProperties(files []sourceFile, sink logsink.Sink) *propertyTables {
	byPath := make(map[string]sourceFile, len(files))
	for _, f := range files {
		if path.Ext(f.path) == ".ext" {
			byPath[f.path] = f
		}
	}

	parsed := make(map[string]extender, len(byPath))
	extenderOf := func(p string) extender {
		if ext, ok := parsed[p]; ok {
			return ext
		}
		ext := parseExtender(byPath[p].text)
		parsed[p] = ext
		return ext
	}

	// chain lists included files depth first, each include before its own
	// includes
	var chain func(p string, stack map[string]bool, seen map[string]bool) []string
	chain = func(p string, stack map[string]bool, seen map[string]bool) []string {
		var out []string
		stack[p] = true
		defer delete(stack, p)
		for _, m := range propertyIncludeRegex.FindAllStringSubmatch(byPath[p].text, -1) {
			inc := includedPropertyPath(m[1])
			if stack[inc] {
				logsink.Logf(sink, "Property include cycle: %s includes %s", p, inc)
				continue
			}
			if _, ok := byPath[inc]; !ok {
				logsink.Logf(sink, "Included property %s not found for %s", inc, p)
				continue
			}
			if !seen[inc] {
				seen[inc] = true
				out = append(out, inc)
			}
			out = append(out, chain(inc, stack, seen)...)
		}
		return out
	}

	out := &propertyTables{
		sizes:   make(map[string]entities.ItemSize, len(byPath)),
		entries: make(map[string][]string, len(byPath)),
	}
	for p := range byPath {
		seen := map[string]bool{p: true}
		order := append(chain(p, map[string]bool{}, seen), p)

		name := PropertyName(p)
		var size entities.ItemSize
		var entries []string
		for _, inc := range order {
			ext := extenderOf(inc)
			if ext.hasSize {
				size = ext.size
			}
			entries = append(entries, ext.entries...)
		}
		out.sizes[name] = size
		out.entries[name] = entries
	}
	return out
}

// scanVehicleLoadouts builds each vehicle's standard loadout from its own
// inventory, its weaponry, its first include and its property extenders
func scanVehicleLoadouts(files []sourceFile, props map[string][]string, propEntries map[string][]string, sink logsink.Sink) map[string][]entities.LoadoutEntry {
	out := make(map[string][]entities.LoadoutEntry)
	inclusions := make(map[string]string)

	for _, f := range files {
		if !isVehicleFile(f.path) {
			continue
		}
		name := VehicleName(f.path)
		loadout := ExtractLoadout(inventoryLines(f.text, section.Contains("inventory"), section.ItemLine), sink)

		if path.Ext(f.path) == ".def" {
			weaponry := dedupe(inventoryLines(f.text, section.Contains("{Weaponry"), section.WeaponLine))
			loadout = append(loadout, ExtractLoadout(weaponry, sink)...)

			for _, m := range vehicleIncludeRegex.FindAllStringSubmatch(f.text, -1) {
				if strings.Contains(m[1], "/properties/") {
					continue
				}
				inclusions[name] = path.Base(m[1]) + ".inc"
				break
			}
		}
		out[name] = loadout
	}

	for name, inc := range inclusions {
		included, ok := out[inc]
		if !ok {
			logsink.Logf(sink, "Included inventory %s not found for vehicle %s", inc, name)
			continue
		}
		out[name] = append(out[name], included...)
	}

	for name, list := range props {
		for _, p := range list {
			entries, ok := propEntries[p]
			if !ok {
				logsink.Logf(sink, "Property %s not found for vehicle %s", p, name)
				continue
			}
			out[name] = append(out[name], ExtractLoadout(entries, sink)...)
		}
	}
	return out
}

func dedupe(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
