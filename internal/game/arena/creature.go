package arena

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// Creature is a participant in an arena battle.
//
// Creature implements host.Summoned and host.SpellFailureSource.
type Creature struct {
	id       string
	name     string
	Template string
	Team     string
	// Policy names the ai.Registry entry that runs this creature's turns.
	Policy string

	Pos        host.Point
	HP         int
	MaxHPValue int
	AC         int
	Level      int
	StrMod     int
	DexMod     int
	Caster     int
	SpellFail  int
	Role       string
	RoleLevels map[string]int
	Initiative int
	AP         int
	RoundsLeft int
	Owner      *Creature

	abilities []string
	features  map[string]bool
	slots     []*Slot
	effects   effects
	arena     *Arena
}

func newCreature(t *Template, name string) *Creature {
	if name == "" {
		name = t.Name
	}
	c := &Creature{
		id:         uuid.NewString(),
		name:       name,
		Template:   t.ID,
		Policy:     t.Policy,
		HP:         t.HP,
		MaxHPValue: t.HP,
		AC:         t.AC,
		Level:      t.Level,
		StrMod:     t.StrMod,
		DexMod:     t.DexMod,
		Caster:     t.CasterLevel,
		SpellFail:  t.SpellFailure,
		Role:       t.Role,
		RoleLevels: map[string]int{},
		RoundsLeft: -1,
		abilities:  append([]string(nil), t.Abilities...),
		features:   map[string]bool{},
	}
	if t.Role != "" {
		c.RoleLevels[t.Role] = t.Level
	}
	for _, f := range t.Features {
		c.features[f] = true
	}
	return c
}

func (c *Creature) ID() string           { return c.id }
func (c *Creature) Name() string         { return c.name }
func (c *Creature) CurrentHP() int       { return c.HP }
func (c *Creature) MaxHP() int           { return c.MaxHPValue }
func (c *Creature) CasterLevel() int     { return c.Caster }
func (c *Creature) Position() host.Point { return c.Pos }

// Alive reports HP > 0.
func (c *Creature) Alive() bool { return c.HP > 0 }

// HasAbility reports whether the creature has the ability or feature id.
func (c *Creature) HasAbility(id string) bool {
	if c.features[id] {
		return true
	}
	for _, a := range c.abilities {
		if a == id {
			return true
		}
	}
	return false
}

// Slots returns the creature's ability slots in template order.
func (c *Creature) Slots() []host.Slot {
	out := make([]host.Slot, len(c.slots))
	for i, s := range c.slots {
		out[i] = s
	}
	return out
}

func (c *Creature) SpellFailureChance() int { return c.SpellFail }

func (c *Creature) BaseRole() string { return c.Role }

// AddRoleLevels raises role by levels; base role levels also raise Level,
// caster level for casters, and max HP by 5 per level.
func (c *Creature) AddRoleLevels(role string, levels int) {
	if levels <= 0 {
		return
	}
	c.RoleLevels[role] += levels
	if role != c.Role {
		return
	}
	c.Level += levels
	if c.Caster > 0 {
		c.Caster += levels
	}
	c.MaxHPValue += 5 * levels
}

// ResetAll restores HP to maximum and clears effects.
func (c *Creature) ResetAll() {
	c.HP = c.MaxHPValue
	c.effects = nil
}

// EffectiveAC is AC adjusted by active effects.
func (c *Creature) EffectiveAC() int { return c.AC + c.effects.acMod() }

func (c *Creature) applyDamage(n int) {
	if n < 0 {
		return
	}
	c.HP -= n
	if c.HP < 0 {
		c.HP = 0
	}
}

func (c *Creature) heal(n int) int {
	if n <= 0 || !c.Alive() {
		return 0
	}
	before := c.HP
	c.HP += n
	if c.HP > c.MaxHPValue {
		c.HP = c.MaxHPValue
	}
	return c.HP - before
}

// Effect is a timed modifier applied by a buff or debuff.
type Effect struct {
	Source     string
	AttackMod  int
	ACMod      int
	RoundsLeft int
}

type effects []Effect

func (e effects) attackMod() int {
	total := 0
	for _, x := range e {
		total += x.AttackMod
	}
	return total
}

func (e effects) acMod() int {
	total := 0
	for _, x := range e {
		total += x.ACMod
	}
	return total
}

// tick decrements every effect and drops the expired ones.
func (e effects) tick() effects {
	out := e[:0]
	for _, x := range e {
		x.RoundsLeft--
		if x.RoundsLeft > 0 {
			out = append(out, x)
		}
	}
	return out
}

// Effects returns a copy of the active effects.
func (c *Creature) Effects() []Effect { return append([]Effect(nil), c.effects...) }

// addEffect applies e, refreshing an effect from the same source instead of stacking.
func (c *Creature) addEffect(e Effect) {
	for i := range c.effects {
		if c.effects[i].Source == e.Source {
			c.effects[i] = e
			return
		}
	}
	c.effects = append(c.effects, e)
}
