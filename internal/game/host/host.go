// Package host declares the engine surface consumed by the AI and spell
// policies. The engine owns the turn loop, grid, movement, targeting geometry,
// menus and creature state; policies only read and request through these
// interfaces and never hold references beyond one callback.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/cory-johannsen/hale/internal/game/ability"
)

// Point is a grid coordinate.
type Point struct {
	X int
	Y int
}

// String returns "(x,y)".
func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Relationship filters creatures relative to a viewer.
type Relationship int

const (
	Friendly Relationship = iota
	Hostile
)

// String returns "Friendly" or "Hostile".
func (r Relationship) String() string {
	switch r {
	case Friendly:
		return "Friendly"
	case Hostile:
		return "Hostile"
	default:
		return "Unknown"
	}
}

// RelationshipFor returns the relationship an ability of action type a targets.
//
// Postcondition: Hostile for Damage and Debuff, Friendly otherwise.
func RelationshipFor(a ability.ActionType) Relationship {
	if a.TargetsHostiles() {
		return Hostile
	}
	return Friendly
}

// Creature is an engine-owned actor.
type Creature interface {
	ability.Subject
	Position() Point
	// HasAbility reports membership of an ability or capability in the creature's ability set.
	HasAbility(id string) bool
	// Slots returns the creature's ability slots in engine order.
	Slots() []Slot
}

// Slot binds a creature to one of its learned abilities.
type Slot interface {
	Ability() *ability.Ability
	Owner() Creature
	// CanActivate reports whether the owner has the resources to activate now.
	CanActivate() bool
	// SetActiveRoundsLeft sets the persistent effect duration for the slot.
	SetActiveRoundsLeft(rounds int)
	// Activate charges the slot's resource cost.
	Activate() error
}

// Targeter is an in-progress target selection for one ability activation.
type Targeter interface {
	SetCursor(p Point)
	// IsValidSelection reports whether the cursor position may be committed.
	IsValidSelection() bool
	// AllowedPoints lists explicit selectable points; empty when the
	// targeter accepts free selection.
	AllowedPoints() []Point
	// Commit applies the ability at the cursor.
	Commit() error
	// Cancel abandons the selection without consuming resources.
	Cancel()
}

// Battle is the combat-time engine view used by the turn policy.
type Battle interface {
	// LiveVisibleCreatures returns living creatures visible to viewer with
	// the given relationship, excluding viewer for Hostile.
	LiveVisibleCreatures(viewer Creature, rel Relationship) []Creature
	// Distance returns the grid distance from c to p.
	Distance(c Creature, p Point) int
	// FindClosestEmptyTile returns the nearest unoccupied tile within
	// maxDistance of center.
	FindClosestEmptyTile(center Point, maxDistance int) (Point, bool)
	// MoveTowards moves mover one step toward dest, stopping at distance.
	// It returns false when no movement happened.
	MoveTowards(mover Creature, dest Point, distance int) bool
	// ActivateAndGetTargeter begins activation of slot. It returns false when
	// the engine refuses (insufficient resources).
	ActivateAndGetTargeter(slot Slot) (Targeter, bool)
	// Attack performs the creature's standard attack; false if it could not.
	Attack(attacker, defender Creature) bool
	// Pause blocks for d of presentation pacing.
	Pause(ctx context.Context, d time.Duration) error
}
