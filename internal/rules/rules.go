// Package rules holds the tunable numbers and tables behind asset parsing and
// refills. Defaults ship embedded; a YAML file can override any of them.
package rules

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// Rules is the full rule set
type Rules struct {
	Resupply              Resupply           `yaml:"resupply"`
	Squads                Squads             `yaml:"squads"`
	InfantryCostOverrides map[string]float64 `yaml:"infantry_cost_overrides"`
	BlockSizeOverrides    []BlockSizeRule    `yaml:"block_size_overrides"`
	UnitSubstitutions     map[string]string  `yaml:"unit_substitutions"`
}

// Resupply prices and caps refills
type Resupply struct {
	MaxResources       int     `yaml:"max_resources"`
	ResourceMultiplier int     `yaml:"resource_multiplier"`
	ResourceUnitCost   float64 `yaml:"resource_unit_cost"`
	SupplyUnitCost     float64 `yaml:"supply_unit_cost"`
	FuelUnitCost       float64 `yaml:"fuel_unit_cost"`
	AmmoSimilarity     float64 `yaml:"ammo_similarity"`
}

// Squads filters conquest squad lists
type Squads struct {
	ExcludedVariants []string `yaml:"excluded_variants"`
}

// BlockSizeRule forces a block size on item files whose path contains every
// fragment
type BlockSizeRule struct {
	PathContains []string `yaml:"path_contains"`
	Block        int      `yaml:"block"`
}

// Matches reports whether path satisfies the rule
func (r BlockSizeRule) Matches(path string) bool {
	if len(r.PathContains) == 0 {
		return false
	}
	for _, frag := range r.PathContains {
		if !strings.Contains(path, frag) {
			return false
		}
	}
	return true
}

// Default returns the embedded rule set
func Default() *Rules {
	r := &Rules{}
	if err := yaml.Unmarshal(defaultYAML, r); err != nil {
		panic("rules: embedded default.yaml is invalid: " + err.Error())
	}
	return r
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default values; map entries are merged into the default maps.
func Load(path string) (*Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %s", path).WithMeta(errors.MetaPath, path)
	}
	if err := yaml.Unmarshal(raw, r); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid rules file %s", path)
	}
	if err := r.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid rules")
	}
	return r, nil
}

// Validate checks the numeric rules
func (r *Rules) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("resupply.resource_unit_cost", r.Resupply.ResourceUnitCost, vb)
	errors.ValidateNonNegative("resupply.supply_unit_cost", r.Resupply.SupplyUnitCost, vb)
	errors.ValidateNonNegative("resupply.fuel_unit_cost", r.Resupply.FuelUnitCost, vb)
	if r.Resupply.MaxResources <= 0 {
		vb.Field("resupply.max_resources", "must be positive")
	}
	if r.Resupply.ResourceMultiplier <= 0 {
		vb.Field("resupply.resource_multiplier", "must be positive")
	}
	if r.Resupply.AmmoSimilarity <= 0 || r.Resupply.AmmoSimilarity > 1 {
		vb.Field("resupply.ammo_similarity", "must be in (0, 1]")
	}
	for i, rule := range r.BlockSizeOverrides {
		if rule.Block <= 0 {
			vb.Fieldf("block_size_overrides", "entry %d must have a positive block", i)
		}
	}
	return vb.Build()
}

// Excluded reports whether a squad list entry is a non-purchasable variant
func (r *Rules) Excluded(entry string) bool {
	for _, v := range r.Squads.ExcludedVariants {
		if strings.Contains(entry, v) {
			return true
		}
	}
	return false
}

// BlockSizeFor returns the override for an item file path, if any
func (r *Rules) BlockSizeFor(path string) (int, bool) {
	for _, rule := range r.BlockSizeOverrides {
		if rule.Matches(path) {
			return rule.Block, true
		}
	}
	return 0, false
}
