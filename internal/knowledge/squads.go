package knowledge

import (
	"math"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/conquest-editor/internal/entities"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

var (
	memberRegex        = regexp.MustCompile(`(\w+)\(([^)]+)\)`)
	vehicleMemberRegex = regexp.MustCompile(`vehicle\(([^)]+)\)`)

	// entry tokens that carry no member
	squadIgnoredTokens = []string{"min_stage", "max_stage", "cw", "cp", "condition", "action", "scf"}
)

func isConquestSet(p string) bool {
	return strings.Contains(path.Base(p), ".set")
}

// scanInfantryCosts reads {"mp/..." cost(N)} lines of the inf_ files and
// applies the configured overrides
func scanInfantryCosts(files []sourceFile, r *rules.Rules, sink logsink.Sink) map[string]float64 {
	costs := make(map[string]float64)
	for _, f := range files {
		if !isConquestSet(f.path) || !strings.Contains(f.path, "inf_") {
			continue
		}
		for _, l := range section.NewReader(f.text).Lines() {
			if !strings.Contains(l.Text, `{"mp`) {
				continue
			}
			name, cost, ok := parseInfantryCost(l.Text)
			if !ok {
				logsink.Logf(sink, "Infantry cost not found in: %s", strings.TrimSpace(l.Text))
				continue
			}
			costs[name] = cost
		}
	}
	for name, cost := range r.InfantryCostOverrides {
		costs[name] = cost
	}
	return costs
}

func parseInfantryCost(line string) (string, float64, bool) {
	line = strings.Trim(strings.TrimSpace(line), "{}")
	parts := strings.Fields(line)
	var name string
	var cost float64
	found := false
	for i, part := range parts {
		switch {
		case strings.Contains(part, "mp/"):
			name = strings.Trim(strings.SplitN(part, "(", 2)[0], `"`)
		case strings.Contains(part, "cost"):
			raw := strings.Trim(strings.ReplaceAll(part, "cost", ""), "(){};")
			if raw == "" && i+1 < len(parts) {
				// {cost N} form
				raw = strings.Trim(parts[i+1], "(){};")
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			cost = v
			found = true
		}
	}
	return name, cost, found && name != ""
}

// squadEntries collects conquest list entries from the units_ files. An entry
// is either a multi-line block opened by an unindented "{" and closed by a
// "}" line, or a single line holding a ("...") tag.
func squadEntries(files []sourceFile) []string {
	var entries []string
	for _, f := range files {
		if !isConquestSet(f.path) || !strings.Contains(f.path, "units_") {
			continue
		}
		lines := section.NewReader(f.text).Lines()
		for i := 0; i < len(lines); i++ {
			line := lines[i].Text
			if strings.HasPrefix(line, ";") {
				continue
			}
			switch {
			case strings.Contains(line, "{") && !strings.Contains(line, "\t{"):
				var sb strings.Builder
				sb.WriteString(line)
				for i+1 < len(lines) {
					i++
					sb.WriteString(lines[i].Text)
					if lines[i].Text == "}" || lines[i].Text == "}\n" {
						break
					}
				}
				entries = append(entries, sb.String())
			case strings.Contains(line, `("`):
				entries = append(entries, line)
			}
		}
	}
	return entries
}

// ParseSquadComposition tokenizes one conquest list entry. Entries naming a
// non-purchasable variant are rejected.
func ParseSquadComposition(entry string, r *rules.Rules) (entities.SquadCompositionInfo, bool) {
	if r.Excluded(entry) {
		return entities.SquadCompositionInfo{}, false
	}

	entry = strings.TrimLeft(strings.TrimLeft(entry, " \t"), "{}()")
	entry = strings.ReplaceAll(entry, "\n", " ")
	entry = strings.ReplaceAll(entry, "\t", " ")
	entry = strings.ReplaceAll(entry, "  ", " ")
	parts := strings.Split(entry, " ")

	info := entities.SquadCompositionInfo{Members: make(map[string]int)}
	isVehicle := strings.Contains(entry, `("vehicle`) || strings.Contains(entry, `("squad_vehicle`)
	if isVehicle {
		info.Name = strings.Trim(parts[0], `"`)
	}

	for i, part := range parts {
		switch {
		case strings.Contains(part, "squad_with"):
		case strings.Contains(part, "side"):
			info.Side = strings.Trim(strings.ReplaceAll(part, "side", ""), "()")
		case strings.Contains(part, "period"):
			info.Period = strings.Trim(strings.ReplaceAll(part, "period", ""), "()")
		case strings.Contains(part, "name"):
			info.Name = strings.Trim(strings.ReplaceAll(part, "name", ""), "()")
		case strings.Contains(part, "vehicle("):
			if m := vehicleMemberRegex.FindStringSubmatch(part); m != nil {
				info.Members[m[1]] = 1
			}
		case strings.Contains(part, "{cost"):
			if i+1 >= len(parts) {
				continue
			}
			raw := strings.Trim(strings.SplitN(parts[i+1], "}", 2)[0], "{}")
			if cost, err := strconv.Atoi(raw); err == nil {
				info.Cost += cost
			}
		case containsAny(part, squadIgnoredTokens):
		default:
			for _, m := range memberRegex.FindAllStringSubmatch(part, -1) {
				member, count, ok := strings.Cut(m[2], ":")
				if !ok {
					continue
				}
				n, err := strconv.Atoi(count)
				if err != nil {
					continue
				}
				info.Members["mp/"+info.Side+"/"+info.Period+"/"+member] = n
			}
		}
	}

	if isVehicle && !strings.Contains(entry, `("squad_vehicle`) {
		info.Members[info.Name] = 1
	}
	if !isVehicle {
		info.Name += "(" + info.Side + ")"
	}
	return info, true
}

// squadCoster resolves composition costs. A member that is itself a
// composition contributes its resolved cost and makes the squad a vehicle
// squad, which rounds its total up to a multiple of 5. Compositions that
// reference each other contribute their declared costs to one another, so
// the result does not depend on which of them resolves first.
type squadCoster struct {
	compositions map[string]entities.SquadCompositionInfo
	infantry     map[string]float64
	sink         logsink.Sink

	costs        map[string]int
	vehicleCosts map[string]int
	visiting     map[string]bool
}

func newSquadCoster(compositions map[string]entities.SquadCompositionInfo, infantry map[string]float64, sink logsink.Sink) *squadCoster {
	return &squadCoster{
		compositions: compositions,
		infantry:     infantry,
		sink:         sink,
		costs:        make(map[string]int),
		vehicleCosts: make(map[string]int),
		visiting:     make(map[string]bool),
	}
}

func (c *squadCoster) cost(name string) (int, bool) {
	if cost, ok := c.costs[name]; ok {
		return cost, true
	}
	info, ok := c.compositions[name]
	if !ok {
		return 0, false
	}
	if c.visiting[name] {
		logsink.Logf(c.sink, "Squad composition cycle at %s, using declared cost", name)
		return info.Cost, true
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	members := make([]string, 0, len(info.Members))
	for m := range info.Members {
		members = append(members, m)
	}
	sort.Strings(members)

	total := float64(info.Cost)
	hasVehicle := false
	for _, member := range members {
		count := info.Members[member]
		if cost, ok := c.infantry[member]; ok {
			total += cost * float64(count)
			continue
		}
		if _, ok := c.compositions[member]; ok {
			hasVehicle = true
			if member == name {
				continue
			}
			if c.reaches(member, name) {
				logsink.Logf(c.sink, "Squad composition cycle between %s and %s, using declared cost", name, member)
				total += float64(c.compositions[member].Cost * count)
				continue
			}
			vehicleCost, _ := c.cost(member)
			total += float64(vehicleCost * count)
			c.vehicleCosts[member] = vehicleCost
			continue
		}
		logsink.Logf(c.sink, "Cost for %s not found in infantry costs or squad compositions.", member)
	}
	if hasVehicle {
		total = math.Ceil(total/5) * 5
	}
	c.costs[name] = int(total)
	return c.costs[name], true
}

// reaches reports whether target is a member of from, directly or through
// nested compositions
func (c *squadCoster) reaches(from, target string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for member := range c.compositions[name].Members {
			if member == target {
				return true
			}
			if _, ok := c.compositions[member]; !ok || seen[member] {
				continue
			}
			seen[member] = true
			stack = append(stack, member)
		}
	}
	return false
}

// scanCompositions parses every conquest entry and resolves its final cost
func scanCompositions(files []sourceFile, infantry map[string]float64, r *rules.Rules, sink logsink.Sink) (map[string]entities.SquadCompositionInfo, map[string]int) {
	compositions := make(map[string]entities.SquadCompositionInfo)
	for _, entry := range squadEntries(files) {
		info, ok := ParseSquadComposition(entry, r)
		if !ok {
			continue
		}
		compositions[info.Name] = info
	}

	coster := newSquadCoster(compositions, infantry, sink)
	resolved := make(map[string]entities.SquadCompositionInfo, len(compositions))
	for name, info := range compositions {
		cost, _ := coster.cost(name)
		info.Cost = cost
		resolved[name] = info
	}
	return resolved, coster.vehicleCosts
}
