// Package ai implements the creature turn policies: the standard ability
// policy that fires heals, buffs, debuffs, damage and summons, and the
// fallback policies it hands over to, including an HTN planner-backed basic
// policy whose method preconditions are Lua hooks.
package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operator actions understood by BasicPolicy.
const (
	ActionAttack   = "attack"   // close to touch range and make a standard attack
	ActionApproach = "approach" // close to touch range only
	ActionPass     = "pass"     // end the turn
)

// Operator target tokens.
const (
	TargetNearestEnemy = "nearest_enemy"
	TargetWeakestEnemy = "weakest_enemy"
	TargetSelf         = "self"
)

// RootTask is the task every plan decomposes from.
const RootTask = "behave"

// Task is an abstract goal decomposed by methods.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
// Precondition names a Lua hook called with the actor UID; empty = always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive action.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"`
}

// Domain is a complete HTN domain.
//
// Invariant: IDs are unique per kind and every subtask names a task or operator.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate checks required fields, uniqueness, known operator actions and
// cross references.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	for _, c := range []struct {
		kind  string
		n     int
		isNil func(int) bool
	}{
		{"task", len(d.Tasks), func(i int) bool { return d.Tasks[i] == nil }},
		{"method", len(d.Methods), func(i int) bool { return d.Methods[i] == nil }},
		{"operator", len(d.Operators), func(i int) bool { return d.Operators[i] == nil }},
	} {
		for i := 0; i < c.n; i++ {
			if c.isNil(i) {
				return fmt.Errorf("ai.Domain %q: %s entry %d is empty", d.ID, c.kind, i)
			}
		}
	}
	tasks, err := uniqueIDs(d.ID, "task", len(d.Tasks), func(i int) string { return d.Tasks[i].ID })
	if err != nil {
		return err
	}
	if _, ok := tasks[RootTask]; !ok {
		return fmt.Errorf("ai.Domain %q: missing root task %q", d.ID, RootTask)
	}
	ops, err := uniqueIDs(d.ID, "operator", len(d.Operators), func(i int) string { return d.Operators[i].ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs(d.ID, "method", len(d.Methods), func(i int) string { return d.Methods[i].ID }); err != nil {
		return err
	}
	for _, op := range d.Operators {
		switch op.Action {
		case ActionAttack, ActionApproach, ActionPass:
		default:
			return fmt.Errorf("ai.Domain %q operator %q: unknown action %q", d.ID, op.ID, op.Action)
		}
	}
	for _, m := range d.Methods {
		if _, ok := tasks[m.TaskID]; !ok {
			return fmt.Errorf("ai.Domain %q method %q: task %q is not declared", d.ID, m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
		for _, sub := range m.Subtasks {
			_, isTask := tasks[sub]
			_, isOp := ops[sub]
			if !isTask && !isOp {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

func uniqueIDs(domainID, kind string, n int, id func(int) string) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return nil, fmt.Errorf("ai.Domain %q: %s has empty ID", domainID, kind)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("ai.Domain %q: duplicate %s ID %q", domainID, kind, v)
		}
		seen[v] = struct{}{}
	}
	return seen, nil
}

// OperatorByID returns the operator with the given ID, or false.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns the methods for taskID in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

type domainFile struct {
	Domain *Domain `yaml:"domain"`
}

// ParseDomain decodes and validates one domain document.
func ParseDomain(data []byte) (*Domain, error) {
	var f domainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ai.ParseDomain: %w", err)
	}
	if f.Domain == nil {
		return nil, errors.New("ai.ParseDomain: missing top-level 'domain' key")
	}
	if err := f.Domain.Validate(); err != nil {
		return nil, err
	}
	return f.Domain, nil
}

// LoadDomains parses every *.yaml file in dir.
//
// Postcondition: returns (nil, nil) for a directory without YAML files.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		d, err := ParseDomain(data)
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		domains = append(domains, d)
	}
	return domains, nil
}
