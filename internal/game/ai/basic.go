package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// touchDistance is how close BasicPolicy gets before attacking.
const touchDistance = 1

// BasicPolicy plans with an HTN domain and executes the plan with standard
// attacks and movement. It is the usual fallback for StandardPolicy.
type BasicPolicy struct {
	planner *Planner
	logger  *zap.Logger
}

// NewBasicPolicy constructs a BasicPolicy.
//
// Precondition: planner and logger must not be nil.
func NewBasicPolicy(planner *Planner, logger *zap.Logger) *BasicPolicy {
	if planner == nil {
		panic("ai.NewBasicPolicy: planner must not be nil")
	}
	if logger == nil {
		panic("ai.NewBasicPolicy: logger must not be nil")
	}
	return &BasicPolicy{planner: planner, logger: logger}
}

// RunTurn plans from a fresh world snapshot and executes actions in order
// until one cannot proceed.
func (b *BasicPolicy) RunTurn(ctx context.Context, battle host.Battle, actor host.Creature) error {
	ws := BuildWorldState(battle, actor)
	plan, err := b.planner.Plan(ws)
	if err != nil {
		return fmt.Errorf("ai: planning for %q: %w", actor.ID(), err)
	}
	log := b.logger.With(zap.String("actor", actor.ID()), zap.String("domain", b.planner.Domain().ID))
	for _, act := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch act.Action {
		case ActionPass:
			log.Debug("basic: pass")
			return nil
		case ActionApproach:
			if act.Target == nil || !closeTo(battle, actor, act.Target.Creature) {
				return nil
			}
		case ActionAttack:
			if act.Target == nil || !closeTo(battle, actor, act.Target.Creature) {
				return nil
			}
			if !battle.Attack(actor, act.Target.Creature) {
				log.Debug("basic: attack refused", zap.String("target", act.Target.UID))
				return nil
			}
			log.Debug("basic: attacked", zap.String("target", act.Target.UID))
		}
	}
	return nil
}

// closeTo moves actor until within touch distance of target.
// It reports false when movement fails first.
func closeTo(battle host.Battle, actor, target host.Creature) bool {
	for steps := 0; battle.Distance(actor, target.Position()) > touchDistance; steps++ {
		if steps >= maxApproachSteps || !battle.MoveTowards(actor, target.Position(), touchDistance) {
			return false
		}
	}
	return true
}
