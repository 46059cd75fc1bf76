package ai

import (
	"context"
	"fmt"
	"sort"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// Policy decides and performs one creature's turn.
type Policy interface {
	RunTurn(ctx context.Context, battle host.Battle, actor host.Creature) error
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, battle host.Battle, actor host.Creature) error

// RunTurn calls f.
func (f PolicyFunc) RunTurn(ctx context.Context, battle host.Battle, actor host.Creature) error {
	return f(ctx, battle, actor)
}

// PassPolicy ends the turn without acting.
var PassPolicy Policy = PolicyFunc(func(context.Context, host.Battle, host.Creature) error { return nil })

// Registry indexes policies by configured name.
//
// Invariant: each name is registered at most once.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry returns a Registry holding only the "pass" policy.
func NewRegistry() *Registry {
	return &Registry{policies: map[string]Policy{"pass": PassPolicy}}
}

// Register stores p under name.
//
// Precondition: name must be non-empty; p must not be nil.
// Postcondition: returns error on name collision.
func (r *Registry) Register(name string, p Policy) error {
	if name == "" || p == nil {
		return fmt.Errorf("ai.Registry: name and policy are required")
	}
	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("ai.Registry: policy %q already registered", name)
	}
	r.policies[name] = p
	return nil
}

// PolicyFor returns the policy registered under name, or false.
func (r *Registry) PolicyFor(name string) (Policy, bool) {
	p, ok := r.policies[name]
	return p, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.policies))
	for name := range r.policies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
