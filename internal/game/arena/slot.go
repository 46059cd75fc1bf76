package arena

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

var (
	// ErrCannotActivate is returned when a slot's owner lacks the AP or is dead.
	ErrCannotActivate = errors.New("arena: slot cannot activate")
	// ErrInvalidSelection is returned when committing a targeter at an invalid point.
	ErrInvalidSelection = errors.New("arena: invalid target selection")
	// ErrNoSummonSpell is returned when a summon ability fires without a configured spell.
	ErrNoSummonSpell = errors.New("arena: no summon spell configured")
)

// Slot binds an ability to its owner and charges the owner's AP.
type Slot struct {
	ability *ability.Ability
	owner   *Creature
	// ActiveRoundsLeft is set by spells with a duration.
	ActiveRoundsLeft int
	// Uses counts successful activations.
	Uses int
}

func (s *Slot) Ability() *ability.Ability { return s.ability }
func (s *Slot) Owner() host.Creature      { return s.owner }

// CanActivate reports whether the owner is alive with enough AP.
func (s *Slot) CanActivate() bool {
	return s.owner.Alive() && s.owner.AP >= s.ability.APCost
}

func (s *Slot) SetActiveRoundsLeft(rounds int) { s.ActiveRoundsLeft = rounds }

// Activate spends the ability's AP.
func (s *Slot) Activate() error {
	if !s.CanActivate() {
		return fmt.Errorf("%w: %q (ap %d, cost %d)", ErrCannotActivate, s.ability.ID, s.owner.AP, s.ability.APCost)
	}
	s.owner.AP -= s.ability.APCost
	s.Uses++
	return nil
}

// Targeter selects the point an ability resolves at.
type Targeter struct {
	arena  *Arena
	slot   *Slot
	cursor host.Point
}

func (t *Targeter) SetCursor(p host.Point) { t.cursor = p }

func (t *Targeter) IsValidSelection() bool { return t.arena.validTarget(t.slot, t.cursor) }

// AllowedPoints lists every valid point, nearest to the owner first.
func (t *Targeter) AllowedPoints() []host.Point {
	owner := t.slot.owner.Pos
	r := t.slot.ability.PreferredDistance()
	var out []host.Point
	for d := 0; d <= r; d++ {
		for _, p := range t.arena.ring(owner, d) {
			if t.arena.validTarget(t.slot, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Commit resolves the ability at the cursor. Summons go through the
// configured summon spell, which charges the slot itself.
func (t *Targeter) Commit() error {
	if !t.IsValidSelection() {
		return fmt.Errorf("%w: %q at %s", ErrInvalidSelection, t.slot.ability.ID, t.cursor)
	}
	if t.slot.ability.Action == ability.ActionSummon {
		return t.arena.castSummon(t.slot, t.cursor)
	}
	if err := t.slot.Activate(); err != nil {
		return err
	}
	t.arena.resolveAbility(t.slot, t.cursor)
	return nil
}

func (t *Targeter) Cancel() {
	t.arena.logger.Debug("targeting cancelled",
		zap.String("caster", t.slot.owner.ID()),
		zap.String("ability", t.slot.ability.ID),
	)
}

// validTarget checks range, terrain and the relationship of any creature on p.
func (a *Arena) validTarget(s *Slot, p host.Point) bool {
	ab := s.ability
	owner := s.owner
	if !a.inBounds(p) || chebyshev(owner.Pos, p) > ab.PreferredDistance() {
		return false
	}
	if ab.Action == ability.ActionSummon {
		return a.isEmpty(p)
	}
	if ab.Range == ability.RangePersonal {
		return p == owner.Pos
	}
	target := a.CreatureAt(p)
	if target == nil {
		return false
	}
	if (target.Team != owner.Team) != ab.Action.TargetsHostiles() {
		return false
	}
	return ab.IsTargetValid(target)
}
