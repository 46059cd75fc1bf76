package arena

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// Template is a creature blueprint; summons are created from templates too.
type Template struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	HP           int      `yaml:"hp"`
	AC           int      `yaml:"ac"`
	Level        int      `yaml:"level"`
	StrMod       int      `yaml:"str_mod"`
	DexMod       int      `yaml:"dex_mod"`
	CasterLevel  int      `yaml:"caster_level"`
	SpellFailure int      `yaml:"spell_failure"`
	Role         string   `yaml:"role"`
	Policy       string   `yaml:"policy"`
	Abilities    []string `yaml:"abilities"`
	// Features are capabilities without a slot, e.g. ImprovedSummon.
	Features []string `yaml:"features"`
}

// Validate checks required fields.
func (t *Template) Validate() error {
	if t.ID == "" {
		return errors.New("arena: template id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("arena: template %q: name must not be empty", t.ID)
	}
	if t.HP <= 0 {
		return fmt.Errorf("arena: template %q: hp must be > 0, got %d", t.ID, t.HP)
	}
	if t.SpellFailure < 0 || t.SpellFailure > 100 {
		return fmt.Errorf("arena: template %q: spell_failure must be in [0,100], got %d", t.ID, t.SpellFailure)
	}
	return nil
}

type templateFile struct {
	Creatures []*Template `yaml:"creatures"`
}

// LoadTemplates reads every *.yaml file in dir, in name order.
//
// Postcondition: template ids are unique across files.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("arena.LoadTemplates: reading %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make(map[string]*Template)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("arena.LoadTemplates: reading %s: %w", name, err)
		}
		var f templateFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("arena.LoadTemplates: parsing %s: %w", name, err)
		}
		for i, t := range f.Creatures {
			if t == nil {
				return nil, fmt.Errorf("arena.LoadTemplates: %s: entry %d is empty", name, i)
			}
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("arena.LoadTemplates: %s: %w", name, err)
			}
			if _, dup := out[t.ID]; dup {
				return nil, fmt.Errorf("arena.LoadTemplates: %s: duplicate template %q", name, t.ID)
			}
			out[t.ID] = t
		}
	}
	return out, nil
}

// Placement puts one template instance on the map.
type Placement struct {
	Template string `yaml:"template"`
	Name     string `yaml:"name"`
	Team     string `yaml:"team"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	// Policy overrides the template's policy when set.
	Policy string `yaml:"policy"`
}

// Scenario describes an arena map and its combatants.
type Scenario struct {
	Name      string       `yaml:"name"`
	Width     int          `yaml:"width"`
	Height    int          `yaml:"height"`
	Blocked   []host.Point `yaml:"blocked"`
	Creatures []Placement  `yaml:"creatures"`
}

// Validate checks map bounds, placements and template references.
func (s *Scenario) Validate(templates map[string]*Template) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("arena: scenario %q: width and height must be > 0", s.Name)
	}
	teams := make(map[string]bool)
	occupied := make(map[host.Point]bool)
	for _, b := range s.Blocked {
		occupied[b] = true
	}
	for i, p := range s.Creatures {
		if _, ok := templates[p.Template]; !ok {
			return fmt.Errorf("arena: scenario %q creature %d: unknown template %q", s.Name, i, p.Template)
		}
		if p.Team == "" {
			return fmt.Errorf("arena: scenario %q creature %d: team must not be empty", s.Name, i)
		}
		pt := host.Point{X: p.X, Y: p.Y}
		if p.X < 0 || p.Y < 0 || p.X >= s.Width || p.Y >= s.Height {
			return fmt.Errorf("arena: scenario %q creature %d: %s out of bounds", s.Name, i, pt)
		}
		if occupied[pt] {
			return fmt.Errorf("arena: scenario %q creature %d: %s already occupied", s.Name, i, pt)
		}
		occupied[pt] = true
		teams[p.Team] = true
	}
	if len(teams) < 2 {
		return fmt.Errorf("arena: scenario %q: at least two teams are required", s.Name)
	}
	return nil
}

type scenarioFile struct {
	Scenario *Scenario `yaml:"scenario"`
}

// LoadScenario reads a scenario from the top-level "scenario" key of path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("arena.LoadScenario: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("arena.LoadScenario: parsing %s: %w", path, err)
	}
	if f.Scenario == nil {
		return nil, fmt.Errorf("arena.LoadScenario: %s: missing top-level 'scenario' key", path)
	}
	return f.Scenario, nil
}
