// Package summon implements the summon creature spell: a level-gated menu of
// creatures, a placement step and the resolve step that creates the creature.
package summon

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Capabilities the summon spell checks on the caster.
const (
	ImprovedSummon  = "ImprovedSummon"
	SummonElemental = "SummonElemental"
)

// Tier is one variant of a family, available from MinLevel.
type Tier struct {
	MinLevel int    `yaml:"min_level"`
	Creature string `yaml:"creature"`
}

// Family offers at most one creature: its highest tier the caster qualifies for.
//
// Invariant: Tiers are ordered by strictly descending MinLevel.
type Family struct {
	ID    string `yaml:"id"`
	Tiers []Tier `yaml:"tiers"`
}

// Gate offers every creature in Creatures when the caster has Capability.
type Gate struct {
	Capability string   `yaml:"capability"`
	Creatures  []string `yaml:"creatures"`
}

// Table is the full summon option catalog.
type Table struct {
	Families []Family `yaml:"families"`
	Gates    []Gate   `yaml:"gates"`
}

// Validate checks that every family has strictly descending tiers and that
// no creature appears twice.
func (t *Table) Validate() error {
	seen := make(map[string]bool)
	add := func(where, id string) error {
		if id == "" {
			return fmt.Errorf("summon: %s: empty creature id", where)
		}
		if seen[id] {
			return fmt.Errorf("summon: %s: duplicate creature %q", where, id)
		}
		seen[id] = true
		return nil
	}
	families := make(map[string]bool)
	for _, f := range t.Families {
		if f.ID == "" {
			return errors.New("summon: family id must not be empty")
		}
		if families[f.ID] {
			return fmt.Errorf("summon: duplicate family %q", f.ID)
		}
		families[f.ID] = true
		if len(f.Tiers) == 0 {
			return fmt.Errorf("summon: family %q has no tiers", f.ID)
		}
		for i, tier := range f.Tiers {
			if i > 0 && tier.MinLevel >= f.Tiers[i-1].MinLevel {
				return fmt.Errorf("summon: family %q: tier %q min_level %d must be below %d",
					f.ID, tier.Creature, tier.MinLevel, f.Tiers[i-1].MinLevel)
			}
			if err := add("family "+f.ID, tier.Creature); err != nil {
				return err
			}
		}
	}
	for _, g := range t.Gates {
		if g.Capability == "" {
			return errors.New("summon: gate capability must not be empty")
		}
		for _, c := range g.Creatures {
			if err := add("gate "+g.Capability, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Contains reports whether id is offered by any family or gate.
func (t *Table) Contains(id string) bool {
	for _, f := range t.Families {
		for _, tier := range f.Tiers {
			if tier.Creature == id {
				return true
			}
		}
	}
	for _, g := range t.Gates {
		for _, c := range g.Creatures {
			if c == id {
				return true
			}
		}
	}
	return false
}

// Options returns the creatures a caster of level may summon, in table order.
//
// Postcondition: at most one creature per family; gate creatures are included
// only when has(gate.Capability). The result depends only on level and has.
func (t *Table) Options(level int, has func(capability string) bool) []string {
	var out []string
	for _, f := range t.Families {
		for _, tier := range f.Tiers {
			if level >= tier.MinLevel {
				out = append(out, tier.Creature)
				break
			}
		}
	}
	for _, g := range t.Gates {
		if has != nil && has(g.Capability) {
			out = append(out, g.Creatures...)
		}
	}
	return out
}

type tableFile struct {
	Summons *Table `yaml:"summons"`
}

// LoadTable reads and validates a summon table from the top-level "summons"
// key of a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("summon.LoadTable: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("summon.LoadTable: parsing %s: %w", path, err)
	}
	if f.Summons == nil {
		return nil, fmt.Errorf("summon.LoadTable: %s: missing top-level 'summons' key", path)
	}
	if err := f.Summons.Validate(); err != nil {
		return nil, err
	}
	return f.Summons, nil
}

// DefaultTable returns the built-in creature catalog.
func DefaultTable() *Table {
	return &Table{
		Families: []Family{
			{ID: "wolf", Tiers: []Tier{
				{13, "summon_wolfgiant"},
				{10, "summon_wolflarge"},
				{7, "summon_wolfmedium"},
				{4, "summon_wolfsmall"},
			}},
			{ID: "tiger", Tiers: []Tier{
				{9, "summon_sabretooth"},
				{6, "summon_tiger"},
			}},
			{ID: "bear", Tiers: []Tier{{8, "summon_bear"}}},
			{ID: "spider", Tiers: []Tier{{10, "summon_spidergiant"}}},
			{ID: "yeti", Tiers: []Tier{{12, "summon_yeti"}}},
		},
		Gates: []Gate{
			{Capability: SummonElemental, Creatures: []string{
				"summon_elementalAir",
				"summon_elementalEarth",
				"summon_elementalFire",
				"summon_elementalWater",
			}},
		},
	}
}
