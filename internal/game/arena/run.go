package arena

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ai"
)

// Result summarises a finished battle.
type Result struct {
	Rounds int
	// Winner is the last team standing, or "" on a draw or timeout.
	Winner    string
	Survivors []*Creature
}

// RollInitiative sets every creature's initiative to d20 + DexMod.
func (a *Arena) RollInitiative() {
	for _, c := range a.creatures {
		c.Initiative = a.roller.Roll(attackDie).Total() + c.DexMod
	}
}

// turnOrder returns living creatures by initiative, highest first; ties
// keep placement order.
func (a *Arena) turnOrder() []*Creature {
	var order []*Creature
	for _, c := range a.creatures {
		if c.Alive() {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Initiative > order[j].Initiative })
	return order
}

// livingTeams returns the teams with at least one living creature, sorted.
func (a *Arena) livingTeams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, c := range a.creatures {
		if c.Alive() && !seen[c.Team] {
			seen[c.Team] = true
			teams = append(teams, c.Team)
		}
	}
	sort.Strings(teams)
	return teams
}

// endRound ticks effects and dismisses summons whose time ran out.
func (a *Arena) endRound() {
	for _, c := range a.creatures {
		if !c.Alive() {
			continue
		}
		c.effects = c.effects.tick()
		if c.RoundsLeft > 0 {
			c.RoundsLeft--
			if c.RoundsLeft == 0 {
				c.HP = 0
				a.logger.Info("summon expired", zap.String("creature", c.Name()))
			}
		}
	}
}

// Run plays up to maxRounds rounds, each creature's turn run by the policy
// its Policy field names in policies.
//
// Postcondition: returns early once at most one team is alive; an unknown
// policy name or a policy error aborts the battle.
func (a *Arena) Run(ctx context.Context, policies *ai.Registry, maxRounds int) (Result, error) {
	a.RollInitiative()
	for a.round = 1; a.round <= maxRounds; a.round++ {
		log := a.logger.With(zap.Int("round", a.round))
		log.Info("round start", zap.Strings("teams", a.livingTeams()))
		for _, c := range a.turnOrder() {
			if err := ctx.Err(); err != nil {
				return a.result(), err
			}
			if !c.Alive() {
				continue
			}
			p, ok := policies.PolicyFor(c.Policy)
			if !ok {
				return a.result(), fmt.Errorf("arena: creature %q: unknown policy %q", c.Name(), c.Policy)
			}
			c.AP = a.opts.ActionPoints
			if err := p.RunTurn(ctx, a, c); err != nil {
				return a.result(), fmt.Errorf("arena: %s turn: %w", c.Name(), err)
			}
			if len(a.livingTeams()) <= 1 {
				return a.result(), nil
			}
		}
		a.endRound()
		if len(a.livingTeams()) <= 1 {
			return a.result(), nil
		}
	}
	a.round = maxRounds
	return a.result(), nil
}

func (a *Arena) result() Result {
	r := Result{Rounds: a.round}
	if teams := a.livingTeams(); len(teams) == 1 {
		r.Winner = teams[0]
	}
	for _, c := range a.creatures {
		if c.Alive() {
			r.Survivors = append(r.Survivors, c)
		}
	}
	return r
}
