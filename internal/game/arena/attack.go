package arena

import "github.com/cory-johannsen/hale/internal/game/dice"

// Outcome is the four-tier attack result.
type Outcome int

const (
	CritSuccess Outcome = iota
	Success
	Failure
	CritFailure
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case CritSuccess:
		return "critical success"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case CritFailure:
		return "critical failure"
	default:
		return "unknown"
	}
}

// OutcomeFor maps an attack total against a defense into an Outcome.
// Beating the defense by 10 or more is critical; missing by more than 10 is a
// critical failure.
func OutcomeFor(total, ac int) Outcome {
	switch {
	case total >= ac+10:
		return CritSuccess
	case total >= ac:
		return Success
	case total >= ac-10:
		return Failure
	default:
		return CritFailure
	}
}

// ProficiencyBonus returns 2 + (level-1)/4, never below 2.
func ProficiencyBonus(level int) int {
	if level < 1 {
		return 2
	}
	return 2 + (level-1)/4
}

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	AttackerID string
	TargetID   string
	Roll       dice.RollResult
	Total      int
	Outcome    Outcome
	// Damage is the rolled damage before the outcome multiplier.
	Damage dice.RollResult
}

// EffectiveDamage returns damage after the outcome multiplier.
//
// Postcondition: Returns >= 0.
func (r AttackResult) EffectiveDamage() int {
	dmg := r.Damage.Total()
	if dmg < 0 {
		dmg = 0
	}
	switch r.Outcome {
	case CritSuccess:
		return dmg * 2
	case Success:
		return dmg
	default:
		return 0
	}
}

var (
	attackDie = dice.MustParse("d20")
	weaponDie = dice.MustParse("1d6")
)

// ResolveAttack rolls d20 + STR + proficiency + attack bonuses against the
// target's effective AC, and 1d6 + STR damage.
//
// Precondition: attacker and target are alive; roller is non-nil.
func ResolveAttack(attacker, target *Creature, roller *dice.Roller) AttackResult {
	roll := roller.Roll(attackDie)
	total := roll.Total() + attacker.StrMod + ProficiencyBonus(attacker.Level) + attacker.effects.attackMod()
	dmg := roller.Roll(weaponDie)
	strMod := attacker.StrMod
	if strMod < 0 {
		strMod = 0
	}
	dmg.Modifier += strMod
	return AttackResult{
		AttackerID: attacker.ID(),
		TargetID:   target.ID(),
		Roll:       roll,
		Total:      total,
		Outcome:    OutcomeFor(total, target.EffectiveAC()),
		Damage:     dmg,
	}
}
