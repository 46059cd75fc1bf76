package summon

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/dice"
	"github.com/cory-johannsen/hale/internal/game/host"
)

// FailureChecker decides whether a cast by caster goes off.
type FailureChecker interface {
	// Check returns true when the spell succeeds.
	Check(caster host.Creature, a *ability.Ability) bool
}

// FailureFunc adapts a function to FailureChecker.
type FailureFunc func(caster host.Creature, a *ability.Ability) bool

func (f FailureFunc) Check(caster host.Creature, a *ability.Ability) bool { return f(caster, a) }

// NeverFails is a FailureChecker that always succeeds.
var NeverFails FailureChecker = FailureFunc(func(host.Creature, *ability.Ability) bool { return true })

// DiceFailureChecker rolls d100 against the caster's spell failure chance.
type DiceFailureChecker struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewDiceFailureChecker constructs a DiceFailureChecker.
//
// Precondition: roller and logger must not be nil.
func NewDiceFailureChecker(roller *dice.Roller, logger *zap.Logger) *DiceFailureChecker {
	if roller == nil || logger == nil {
		panic("summon.NewDiceFailureChecker: roller and logger must not be nil")
	}
	return &DiceFailureChecker{roller: roller, logger: logger}
}

// Check succeeds outright for abilities without SpellFailure and for casters
// with no failure chance.
func (c *DiceFailureChecker) Check(caster host.Creature, a *ability.Ability) bool {
	if !a.SpellFailure {
		return true
	}
	src, ok := caster.(host.SpellFailureSource)
	if !ok || src.SpellFailureChance() <= 0 {
		return true
	}
	chance := src.SpellFailureChance()
	failed, roll := c.roller.Percent(chance)
	if failed {
		c.logger.Info("spell failure",
			zap.String("caster", caster.ID()),
			zap.String("ability", a.ID),
			zap.Int("chance", chance),
			zap.Stringer("roll", roll),
		)
	}
	return !failed
}
