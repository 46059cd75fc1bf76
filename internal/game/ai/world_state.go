package ai

import "github.com/cory-johannsen/hale/internal/game/host"

// CombatantState captures another creature's state at planning time.
type CombatantState struct {
	UID      string
	Name     string
	HP       int
	MaxHP    int
	Distance int
	Hostile  bool
	Position host.Point
	// Creature is the live engine handle used when executing a plan.
	Creature host.Creature
}

// HPFraction returns HP/MaxHP; 1 when MaxHP <= 0 so malformed entries are
// never treated as wounded.
func (c *CombatantState) HPFraction() float64 {
	if c.MaxHP <= 0 {
		return 1
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// ActorState captures the planning creature's own state.
type ActorState struct {
	UID      string
	Name     string
	HP       int
	MaxHP    int
	Position host.Point
}

// WorldState is the snapshot passed to the HTN planner for one creature.
//
// Invariant: Actor must not be nil; Combatants are ordered nearest first.
type WorldState struct {
	Actor      *ActorState
	Combatants []*CombatantState
}

// Enemies returns all hostile combatants, nearest first.
func (ws *WorldState) Enemies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if c.Hostile {
			out = append(out, c)
		}
	}
	return out
}

// Allies returns all friendly combatants other than the actor, nearest first.
func (ws *WorldState) Allies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Hostile && c.UID != ws.Actor.UID {
			out = append(out, c)
		}
	}
	return out
}

// NearestEnemy returns the first enemy in distance order, or nil.
func (ws *WorldState) NearestEnemy() *CombatantState {
	enemies := ws.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	return enemies[0]
}

// WeakestEnemy returns the enemy with the lowest HP fraction, or nil.
//
// Postcondition: ties broken by distance order.
func (ws *WorldState) WeakestEnemy() *CombatantState {
	enemies := ws.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	weakest := enemies[0]
	for _, e := range enemies[1:] {
		if e.HPFraction() < weakest.HPFraction() {
			weakest = e
		}
	}
	return weakest
}

// ResolveTarget maps an operator target token to a combatant.
//
// Postcondition: "nearest_enemy" and "weakest_enemy" resolve against
// Enemies; "self" and "" resolve to nil; unknown tokens match a combatant
// by UID or name, else nil.
func (ws *WorldState) ResolveTarget(token string) *CombatantState {
	switch token {
	case TargetNearestEnemy:
		return ws.NearestEnemy()
	case TargetWeakestEnemy:
		return ws.WeakestEnemy()
	case TargetSelf, "":
		return nil
	default:
		for _, c := range ws.Combatants {
			if c.UID == token || c.Name == token {
				return c
			}
		}
		return nil
	}
}
