package summon

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a Flow step runs out of order.
var ErrInvalidTransition = errors.New("summon: invalid flow transition")

// ErrUnknownCreature is returned for a creature the flow did not offer.
var ErrUnknownCreature = errors.New("summon: unknown creature")

// State is a step of one summon activation.
type State int

const (
	StateMenu State = iota
	StateTarget
	StateResolve
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateTarget:
		return "target"
	case StateResolve:
		return "resolve"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateFailed
}

// Flow tracks one activation of the summon spell.
//
// Invariant: state only moves Menu → Target → Resolve → Done|Failed, or
// Target → Cancelled. A Flow is not safe for concurrent use.
type Flow struct {
	state    State
	options  []string
	creature string
}

// NewFlow starts a flow in StateMenu offering options.
func NewFlow(options []string) *Flow {
	return &Flow{state: StateMenu, options: append([]string(nil), options...)}
}

func (f *Flow) State() State { return f.state }

// Options returns the creatures offered in the menu.
func (f *Flow) Options() []string { return append([]string(nil), f.options...) }

// Creature returns the selected creature, or "" before selection.
func (f *Flow) Creature() string { return f.creature }

// Select records the menu choice and moves to StateTarget.
func (f *Flow) Select(id string) error {
	if err := f.expect(StateMenu, StateTarget); err != nil {
		return err
	}
	for _, o := range f.options {
		if o == id {
			f.creature = id
			f.state = StateTarget
			return nil
		}
	}
	return fmt.Errorf("%w: %q was not offered", ErrUnknownCreature, id)
}

// Commit moves from StateTarget to StateResolve.
func (f *Flow) Commit() error {
	if err := f.expect(StateTarget, StateResolve); err != nil {
		return err
	}
	f.state = StateResolve
	return nil
}

// Cancel abandons the placement.
func (f *Flow) Cancel() error {
	if err := f.expect(StateTarget, StateCancelled); err != nil {
		return err
	}
	f.state = StateCancelled
	return nil
}

func (f *Flow) finish(next State) error {
	if err := f.expect(StateResolve, next); err != nil {
		return err
	}
	f.state = next
	return nil
}

func (f *Flow) expect(from, to State) error {
	if f.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, to)
	}
	return nil
}
