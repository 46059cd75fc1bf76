package ai

import "github.com/cory-johannsen/hale/internal/game/host"

// BuildWorldState snapshots the creatures visible to actor, hostiles and
// friendlies merged into one nearest-first list.
//
// Precondition: battle and actor must not be nil.
// Postcondition: ws.Actor.UID == actor.ID(); actor itself is not a combatant.
func BuildWorldState(battle host.Battle, actor host.Creature) *WorldState {
	ws := &WorldState{
		Actor: &ActorState{
			UID:      actor.ID(),
			Name:     actor.Name(),
			HP:       actor.CurrentHP(),
			MaxHP:    actor.MaxHP(),
			Position: actor.Position(),
		},
	}
	var all []host.Creature
	hostile := make(map[string]bool)
	for _, c := range battle.LiveVisibleCreatures(actor, host.Hostile) {
		hostile[c.ID()] = true
		all = append(all, c)
	}
	for _, c := range battle.LiveVisibleCreatures(actor, host.Friendly) {
		if c.ID() == actor.ID() {
			continue
		}
		all = append(all, c)
	}
	SortClosestFirst(battle, actor, all)
	for _, c := range all {
		ws.Combatants = append(ws.Combatants, &CombatantState{
			UID:      c.ID(),
			Name:     c.Name(),
			HP:       c.CurrentHP(),
			MaxHP:    c.MaxHP(),
			Distance: battle.Distance(actor, c.Position()),
			Hostile:  hostile[c.ID()],
			Position: c.Position(),
			Creature: c,
		})
	}
	return ws
}
