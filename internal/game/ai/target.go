package ai

import (
	"sort"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

// hpFraction returns current/max HP; 1 when max <= 0.
func hpFraction(c ability.Subject) float64 {
	if c.MaxHP() <= 0 {
		return 1
	}
	return float64(c.CurrentHP()) / float64(c.MaxHP())
}

// SortClosestFirst stably orders creatures by distance from viewer.
func SortClosestFirst(battle host.Battle, viewer host.Creature, creatures []host.Creature) {
	sort.SliceStable(creatures, func(i, j int) bool {
		return battle.Distance(viewer, creatures[i].Position()) < battle.Distance(viewer, creatures[j].Position())
	})
}

// BestHealTarget returns the creature with the strictly lowest HP fraction
// below 1.
//
// Precondition: creatures are sorted nearest first.
// Postcondition: ties resolve to the earliest entry; nil when every
// candidate is at full health or the list is empty.
func BestHealTarget(creatures []host.Creature) host.Creature {
	var best host.Creature
	bestHP := 1.0
	for _, c := range creatures {
		if f := hpFraction(c); f < bestHP {
			best = c
			bestHP = f
		}
	}
	return best
}

// FirstValidTarget returns the first creature accepted by a's validator.
//
// Precondition: creatures are sorted nearest first.
func FirstValidTarget(creatures []host.Creature, a *ability.Ability) host.Creature {
	for _, c := range creatures {
		if a.IsTargetValid(c) {
			return c
		}
	}
	return nil
}

// ClosestTarget returns the first creature, or nil for an empty list.
func ClosestTarget(creatures []host.Creature) host.Creature {
	if len(creatures) == 0 {
		return nil
	}
	return creatures[0]
}

// ResolveTarget picks the point an ability of slot should be used on.
//
// Postcondition: preferred == 0 targets the actor's own position; summons
// target the closest empty tile within preferred; otherwise the chosen
// creature's position. Returns false when nothing qualifies.
func ResolveTarget(battle host.Battle, actor host.Creature, a *ability.Ability, preferred int) (host.Point, bool) {
	if preferred == 0 {
		return actor.Position(), true
	}
	if a.Action == ability.ActionSummon {
		return battle.FindClosestEmptyTile(actor.Position(), preferred)
	}

	candidates := append([]host.Creature(nil), battle.LiveVisibleCreatures(actor, host.RelationshipFor(a.Action))...)
	SortClosestFirst(battle, actor, candidates)

	var target host.Creature
	switch {
	case a.Action == ability.ActionHeal:
		target = BestHealTarget(candidates)
	case a.HasValidator():
		target = FirstValidTarget(candidates, a)
	default:
		target = ClosestTarget(candidates)
	}
	if target == nil {
		return host.Point{}, false
	}
	return target.Position(), true
}
