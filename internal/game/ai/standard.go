package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

// DefaultHealThreshold is the HP fraction below which a friendly makes heal
// slots jump the queue.
const DefaultHealThreshold = 0.5

// maxApproachSteps bounds the move loop against a host that reports
// movement without closing distance.
const maxApproachSteps = 64

// offensiveActions are the action types the standard policy considers every turn.
var offensiveActions = []ability.ActionType{
	ability.ActionBuff, ability.ActionDebuff, ability.ActionDamage, ability.ActionSummon,
}

// StandardOptions configures a StandardPolicy.
type StandardOptions struct {
	// Fallback runs when no ability could be tried or all were tried.
	Fallback Policy
	// HealThreshold defaults to DefaultHealThreshold when <= 0.
	HealThreshold float64
	// ActivationDelay is the pause after each committed activation.
	ActivationDelay time.Duration
	Logger          *zap.Logger
}

// StandardPolicy tries the creature's heal, buff, debuff, damage and summon
// abilities in order until its budget runs out, then defers to Fallback.
//
// StandardPolicy is stateless between turns and safe for concurrent use if
// the host is.
type StandardPolicy struct {
	fallback      Policy
	healThreshold float64
	delay         time.Duration
	logger        *zap.Logger
}

// NewStandardPolicy constructs a StandardPolicy.
//
// Precondition: opts.Fallback and opts.Logger must not be nil.
func NewStandardPolicy(opts StandardOptions) *StandardPolicy {
	if opts.Fallback == nil {
		panic("ai.NewStandardPolicy: fallback must not be nil")
	}
	if opts.Logger == nil {
		panic("ai.NewStandardPolicy: logger must not be nil")
	}
	threshold := opts.HealThreshold
	if threshold <= 0 {
		threshold = DefaultHealThreshold
	}
	return &StandardPolicy{
		fallback:      opts.Fallback,
		healThreshold: threshold,
		delay:         opts.ActivationDelay,
		logger:        opts.Logger,
	}
}

// SlotsWithActions returns the slots whose ability has one of the given
// action types, preserving slot order.
func SlotsWithActions(slots []host.Slot, actions ...ability.ActionType) []host.Slot {
	var out []host.Slot
	for _, s := range slots {
		for _, a := range actions {
			if s.Ability().Action == a {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// ActionList returns the ordered slots the standard policy will try this
// turn and the number of non-heal abilities among them.
//
// Postcondition: heal slots lead the list iff the actor has heal slots and
// some living visible friendly is below the heal threshold.
func (p *StandardPolicy) ActionList(battle host.Battle, actor host.Creature) ([]host.Slot, int) {
	slots := actor.Slots()
	actions := SlotsWithActions(slots, offensiveActions...)
	if len(actions) == 0 {
		return nil, 0
	}
	count := len(actions)
	heals := SlotsWithActions(slots, ability.ActionHeal)
	if len(heals) > 0 && p.needsHealing(battle, actor) {
		actions = append(heals, actions...)
	}
	return actions, count
}

func (p *StandardPolicy) needsHealing(battle host.Battle, actor host.Creature) bool {
	for _, c := range battle.LiveVisibleCreatures(actor, host.Friendly) {
		if hpFraction(c) < p.healThreshold {
			return true
		}
	}
	return false
}

// RunTurn performs actor's turn.
//
// Postcondition: returns nil for every policy outcome (no target, movement
// failure, refused activation); errors come only from the host or ctx.
func (p *StandardPolicy) RunTurn(ctx context.Context, battle host.Battle, actor host.Creature) error {
	log := p.logger.With(zap.String("actor", actor.ID()), zap.String("name", actor.Name()))

	actions, remaining := p.ActionList(battle, actor)
	if len(actions) == 0 {
		log.Debug("no usable abilities; falling back")
		return p.fallback.RunTurn(ctx, battle, actor)
	}

	for _, slot := range actions {
		a := slot.Ability()
		target, outcome, found := p.approach(battle, actor, slot)
		if outcome == EndTurn {
			log.Debug("turn ended while approaching", zap.String("ability", a.ID))
			return nil
		}
		if !found {
			log.Debug("no target", zap.String("ability", a.ID))
			continue
		}

		outcome, err := TryActivate(ctx, battle, slot, target, p.delay)
		remaining--
		if err != nil {
			return err
		}
		log.Debug("ability attempted",
			zap.String("ability", a.ID),
			zap.Stringer("action", a.Action),
			zap.Stringer("target", target),
			zap.Stringer("outcome", outcome),
		)
		if outcome == EndTurn {
			return nil
		}
	}

	if remaining == 0 {
		log.Debug("abilities exhausted; falling back")
		return p.fallback.RunTurn(ctx, battle, actor)
	}
	return nil
}

// approach resolves a target for slot and moves into range of it.
//
// Postcondition: EndTurn when the slot cannot activate before or after
// moving, or when a move fails; found is false when no target exists.
func (p *StandardPolicy) approach(battle host.Battle, actor host.Creature, slot host.Slot) (host.Point, Outcome, bool) {
	if !slot.CanActivate() {
		return host.Point{}, EndTurn, false
	}
	a := slot.Ability()
	preferred := a.PreferredDistance()

	target, found := ResolveTarget(battle, actor, a, preferred)
	if !found {
		return host.Point{}, Continue, false
	}

	for steps := 0; battle.Distance(actor, target) > preferred; steps++ {
		if steps >= maxApproachSteps || !battle.MoveTowards(actor, target, preferred) {
			return host.Point{}, EndTurn, false
		}
	}

	if !slot.CanActivate() {
		return host.Point{}, EndTurn, false
	}
	return target, Continue, true
}
