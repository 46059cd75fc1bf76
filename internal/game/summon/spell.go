package summon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// ErrNoOptions is returned by AutoCast when the caster can summon nothing.
var ErrNoOptions = errors.New("summon: no creatures available")

// Placement is the targeter configuration for summoned creatures.
var Placement = host.PlacementSpec{AllowOccupied: false, Radius: 0, MaxRange: 4}

// Duration returns the rounds a summoned creature lasts for a caster level:
// 3 + floor(casterLevel/2).
func Duration(casterLevel int) int {
	half := casterLevel / 2
	if casterLevel < 0 && casterLevel%2 != 0 {
		half--
	}
	return 3 + half
}

// BonusLevels returns the extra base-role levels a summoned creature gains.
// Values <= 0 mean no bonus.
func BonusLevels(casterLevel int, improved bool) int {
	if improved {
		return casterLevel - 1
	}
	return casterLevel - 5
}

// Spell drives the summon spell against a SpellHost.
type Spell struct {
	host    host.SpellHost
	table   *Table
	failure FailureChecker
	logger  *zap.Logger
}

// NewSpell constructs a Spell. A nil failure checker never fails.
//
// Precondition: h, table and logger must not be nil.
func NewSpell(h host.SpellHost, table *Table, failure FailureChecker, logger *zap.Logger) *Spell {
	if h == nil || table == nil || logger == nil {
		panic("summon.NewSpell: host, table and logger must not be nil")
	}
	if failure == nil {
		failure = NeverFails
	}
	return &Spell{host: h, table: table, failure: failure, logger: logger}
}

// Options returns what caster may summon.
func (s *Spell) Options(caster host.Creature) []string {
	return s.table.Options(caster.CasterLevel(), caster.HasAbility)
}

// OnActivate builds and shows the creature menu for slot. Each button runs
// CastSpell for its creature.
func (s *Spell) OnActivate(slot host.Slot) (*Flow, error) {
	flow := NewFlow(s.Options(slot.Owner()))
	menu := s.host.Menu()
	menu.AddLevel(slot.Ability().Name)
	for _, id := range flow.Options() {
		name, err := s.host.CreatureName(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnknownCreature, id, err)
		}
		menu.AddButton(name, func() error { return s.CastSpell(flow, slot, id) })
	}
	menu.Show()
	return flow, nil
}

// CastSpell records the choice of id and asks the host for a placement.
// Cancelling the placement ends the flow without effects.
func (s *Spell) CastSpell(flow *Flow, slot host.Slot, id string) error {
	if err := flow.Select(id); err != nil {
		return err
	}
	onSelect := func(p host.Placement) error { return s.OnTargetSelect(flow, p) }
	onCancel := func() {
		if err := flow.Cancel(); err != nil {
			s.logger.Warn("summon: cancel", zap.Error(err))
			return
		}
		s.logger.Debug("summon: placement cancelled", zap.String("creature", id))
	}
	if err := s.host.RequestPlacement(slot, Placement, onSelect, onCancel); err != nil {
		return fmt.Errorf("summon: requesting placement: %w", err)
	}
	return nil
}

// OnTargetSelect resolves the spell at the selected point.
//
// Postcondition: the slot's duration and cost are applied before the spell
// failure check, so a failed cast still consumes them. On success the
// creature is summoned with its bonus levels and fully reset.
func (s *Spell) OnTargetSelect(flow *Flow, sel host.Placement) error {
	if err := flow.Commit(); err != nil {
		return err
	}
	id := flow.Creature()
	slot := sel.Slot()
	caster := sel.Caster()
	log := s.logger.With(zap.String("caster", caster.ID()), zap.String("creature", id))

	points := sel.AffectedPoints()
	if len(points) == 0 {
		_ = flow.finish(StateFailed)
		return errors.New("summon: placement has no points")
	}
	level := caster.CasterLevel()
	duration := Duration(level)

	slot.SetActiveRoundsLeft(duration)
	if err := slot.Activate(); err != nil {
		_ = flow.finish(StateFailed)
		return fmt.Errorf("summon: activating %q: %w", slot.Ability().ID, err)
	}

	if !s.failure.Check(caster, slot.Ability()) {
		log.Debug("summon: spell failed")
		return flow.finish(StateFailed)
	}

	creature, err := s.host.Summon(id, points[0], caster, duration)
	if err != nil {
		_ = flow.finish(StateFailed)
		return fmt.Errorf("summon: creating %q: %w", id, err)
	}
	if bonus := BonusLevels(level, caster.HasAbility(ImprovedSummon)); bonus > 0 {
		creature.AddRoleLevels(creature.BaseRole(), bonus)
	}
	creature.ResetAll()

	log.Info("summoned",
		zap.String("uid", creature.ID()),
		zap.Stringer("at", points[0]),
		zap.Int("duration", duration),
	)
	return flow.finish(StateDone)
}

// AutoCast resolves the spell at sel without a menu, choosing the first
// option. It serves casters that are not player controlled.
func (s *Spell) AutoCast(sel host.Placement) (*Flow, error) {
	flow := NewFlow(s.Options(sel.Caster()))
	opts := flow.Options()
	if len(opts) == 0 {
		return flow, ErrNoOptions
	}
	if err := flow.Select(opts[0]); err != nil {
		return flow, err
	}
	return flow, s.OnTargetSelect(flow, sel)
}
