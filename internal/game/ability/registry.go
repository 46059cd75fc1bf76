package ability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the YAML form of an ability.
type Definition struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Action       string `yaml:"action"`
	Range        string `yaml:"range"`
	APCost       int    `yaml:"ap_cost"`
	SpellFailure bool   `yaml:"spell_failure"`
	// Validator names a Lua hook taking the candidate target; empty = no validator.
	Validator string `yaml:"validator"`
}

// Validate checks required fields and that action and range parse.
//
// Postcondition: nil return guarantees Build succeeds for a resolver that
// knows every named validator.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return errors.New("ability: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", d.ID)
	}
	if _, err := ParseActionType(d.Action); err != nil {
		return fmt.Errorf("ability %q: %w", d.ID, err)
	}
	if _, err := ParseRangeType(d.Range); err != nil {
		return fmt.Errorf("ability %q: %w", d.ID, err)
	}
	if d.APCost < 0 {
		return fmt.Errorf("ability %q: ap_cost must be >= 0, got %d", d.ID, d.APCost)
	}
	return nil
}

// ValidatorResolver binds a validator hook name to a callable Validator.
type ValidatorResolver interface {
	Validator(hook string) (Validator, error)
}

// Build converts the definition into an Ability, resolving its validator.
//
// Precondition: resolver may be nil only if d.Validator is empty.
func (d *Definition) Build(resolver ValidatorResolver) (*Ability, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	action, _ := ParseActionType(d.Action)
	rng, _ := ParseRangeType(d.Range)
	a := &Ability{
		ID:           d.ID,
		Name:         d.Name,
		Action:       action,
		Range:        rng,
		APCost:       d.APCost,
		SpellFailure: d.SpellFailure,
	}
	if d.Validator != "" {
		if resolver == nil {
			return nil, fmt.Errorf("ability %q: validator %q named but no resolver configured", d.ID, d.Validator)
		}
		v, err := resolver.Validator(d.Validator)
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", d.ID, err)
		}
		a.Validator = v
	}
	return a, nil
}

type catalogFile struct {
	Abilities []*Definition `yaml:"abilities"`
}

// LoadDirectory reads every *.yaml file in dir and returns the definitions
// in file then declaration order.
//
// Precondition: dir must be a readable directory.
func LoadDirectory(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ability.LoadDirectory: reading %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var defs []*Definition
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("ability.LoadDirectory: reading %s: %w", name, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("ability.LoadDirectory: parsing %s: %w", name, err)
		}
		for i, d := range f.Abilities {
			if d == nil {
				return nil, fmt.Errorf("ability.LoadDirectory: %s: entry %d is empty", name, i)
			}
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("ability.LoadDirectory: %s: %w", name, err)
			}
			defs = append(defs, d)
		}
	}
	return defs, nil
}

// Registry indexes built abilities by ID.
//
// Invariant: each ability ID is registered at most once.
type Registry struct {
	abilities map[string]*Ability
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{abilities: make(map[string]*Ability)}
}

// Register stores a.
//
// Postcondition: returns error on ID collision.
func (r *Registry) Register(a *Ability) error {
	if _, exists := r.abilities[a.ID]; exists {
		return fmt.Errorf("ability.Registry: ability %q already registered", a.ID)
	}
	r.abilities[a.ID] = a
	return nil
}

// Get returns the ability with the given ID, or false if not registered.
func (r *Registry) Get(id string) (*Ability, bool) {
	a, ok := r.abilities[id]
	return a, ok
}

// All returns every registered ability sorted by ID.
func (r *Registry) All() []*Ability {
	out := make([]*Ability, 0, len(r.abilities))
	for _, a := range r.abilities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BuildRegistry builds every definition with resolver and registers the result.
func BuildRegistry(defs []*Definition, resolver ValidatorResolver) (*Registry, error) {
	r := NewRegistry()
	for _, d := range defs {
		a, err := d.Build(resolver)
		if err != nil {
			return nil, err
		}
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}
