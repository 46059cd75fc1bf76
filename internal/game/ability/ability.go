// Package ability defines the immutable ability metadata read by the combat
// AI and the spell policies.
package ability

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownActionType is returned when an action type string has no matching ActionType.
var ErrUnknownActionType = errors.New("ability: unknown action type")

// ErrUnknownRangeType is returned when a range type string has no matching RangeType.
var ErrUnknownRangeType = errors.New("ability: unknown range type")

// ActionType classifies what an ability does to its target.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionDamage
	ActionDebuff
	ActionBuff
	ActionHeal
	ActionSummon
)

// String returns the canonical name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionDamage:
		return "Damage"
	case ActionDebuff:
		return "Debuff"
	case ActionBuff:
		return "Buff"
	case ActionHeal:
		return "Heal"
	case ActionSummon:
		return "Summon"
	default:
		return "Unknown"
	}
}

// TargetsHostiles reports whether abilities of this type are aimed at enemies.
//
// Postcondition: true iff a is ActionDamage or ActionDebuff.
func (a ActionType) TargetsHostiles() bool {
	switch a {
	case ActionDamage, ActionDebuff:
		return true
	case ActionBuff, ActionHeal, ActionSummon, ActionUnknown:
		return false
	default:
		return false
	}
}

// ParseActionType maps a case-insensitive name to an ActionType.
//
// Postcondition: returns ErrUnknownActionType for any name other than
// Damage, Debuff, Buff, Heal or Summon.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "damage":
		return ActionDamage, nil
	case "debuff":
		return ActionDebuff, nil
	case "buff":
		return ActionBuff, nil
	case "heal":
		return ActionHeal, nil
	case "summon":
		return ActionSummon, nil
	default:
		return ActionUnknown, fmt.Errorf("%w: %q", ErrUnknownActionType, s)
	}
}

// RangeType is the engagement range category of an ability.
// The zero value (RangeUnknown) is intentionally invalid.
type RangeType int

const (
	RangeUnknown  RangeType = iota // zero value; intentionally invalid
	RangePersonal                  // self-targeted
	RangeTouch
	RangeShort
	RangeLong
)

// String returns the canonical name of the RangeType.
func (r RangeType) String() string {
	switch r {
	case RangePersonal:
		return "Personal"
	case RangeTouch:
		return "Touch"
	case RangeShort:
		return "Short"
	case RangeLong:
		return "Long"
	default:
		return "Unknown"
	}
}

// PreferredDistance returns the distance in grid units the caster tries to
// close to before using an ability of this range.
//
// Precondition: r must not be RangeUnknown.
// Postcondition: Personal=0, Touch=1, Short=2, Long=6.
func (r RangeType) PreferredDistance() int {
	switch r {
	case RangePersonal:
		return 0
	case RangeTouch:
		return 1
	case RangeShort:
		return 2
	case RangeLong:
		return 6
	default:
		panic(fmt.Sprintf("ability: PreferredDistance called on invalid range type %d", int(r)))
	}
}

// ParseRangeType maps a case-insensitive name to a RangeType.
//
// Postcondition: returns ErrUnknownRangeType for any name other than
// Personal, Touch, Short or Long.
func ParseRangeType(s string) (RangeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal":
		return RangePersonal, nil
	case "touch":
		return RangeTouch, nil
	case "short":
		return RangeShort, nil
	case "long":
		return RangeLong, nil
	default:
		return RangeUnknown, fmt.Errorf("%w: %q", ErrUnknownRangeType, s)
	}
}

// Subject is the view of a creature an ability validator may inspect.
type Subject interface {
	ID() string
	Name() string
	CurrentHP() int
	MaxHP() int
	CasterLevel() int
}

// Validator reports whether a candidate is an acceptable target for an ability.
type Validator func(target Subject) bool

// Ability is an immutable ability definition.
//
// Invariant: Action and Range are never the Unknown zero values once built by
// a Registry.
type Ability struct {
	ID     string
	Name   string
	Action ActionType
	Range  RangeType
	// APCost is the action point cost charged by the host on activation.
	APCost int
	// SpellFailure marks abilities subject to the caster's spell failure chance.
	SpellFailure bool
	// Validator is nil when any candidate of the right relationship is acceptable.
	Validator Validator
}

// HasValidator reports whether the ability restricts its targets.
func (a *Ability) HasValidator() bool { return a.Validator != nil }

// IsTargetValid applies the validator; abilities without one accept every target.
func (a *Ability) IsTargetValid(target Subject) bool {
	if a.Validator == nil {
		return true
	}
	return a.Validator(target)
}

// PreferredDistance is a shorthand for a.Range.PreferredDistance().
func (a *Ability) PreferredDistance() int { return a.Range.PreferredDistance() }
