// Package arena is an in-memory battle host: a grid map, creatures built
// from templates, AP-limited turns and initiative-ordered rounds. It
// implements host.Battle and host.SpellHost so turn policies and the summon
// spell can be driven without a game engine.
//
// An Arena is not safe for concurrent use.
package arena

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/dice"
	"github.com/cory-johannsen/hale/internal/game/host"
	"github.com/cory-johannsen/hale/internal/game/summon"
)

// Options configures an Arena.
type Options struct {
	// ActionPoints is the AP every creature starts its turn with.
	ActionPoints int
	MoveCost     int
	AttackCost   int
	// SummonPolicy runs summoned creatures whose template names no policy.
	SummonPolicy string
	// Chooser answers menus; FirstChoice when nil.
	Chooser Chooser
	Roller  *dice.Roller
	Logger  *zap.Logger
}

// Arena holds one battle.
type Arena struct {
	name      string
	width     int
	height    int
	blocked   map[host.Point]bool
	creatures []*Creature
	templates map[string]*Template
	abilities *ability.Registry
	opts      Options
	roller    *dice.Roller
	logger    *zap.Logger
	spell     *summon.Spell
	lastMenu  *Menu
	// placeAt is the point an AI summon committed at, consumed by RequestPlacement.
	placeAt *host.Point
	round   int
}

// New builds an arena from scenario.
//
// Precondition: opts.Roller and opts.Logger must not be nil.
// Postcondition: every template ability is resolved against abilities;
// unknown ids are treated as features without a slot.
func New(s *Scenario, templates map[string]*Template, abilities *ability.Registry, opts Options) (*Arena, error) {
	if opts.Roller == nil || opts.Logger == nil {
		return nil, errors.New("arena.New: roller and logger are required")
	}
	if opts.ActionPoints <= 0 {
		return nil, fmt.Errorf("arena.New: action points must be > 0, got %d", opts.ActionPoints)
	}
	if err := s.Validate(templates); err != nil {
		return nil, err
	}
	if opts.Chooser == nil {
		opts.Chooser = FirstChoice
	}
	a := &Arena{
		name:      s.Name,
		width:     s.Width,
		height:    s.Height,
		blocked:   make(map[host.Point]bool, len(s.Blocked)),
		templates: templates,
		abilities: abilities,
		opts:      opts,
		roller:    opts.Roller,
		logger:    opts.Logger.With(zap.String("arena", s.Name)),
	}
	for _, b := range s.Blocked {
		a.blocked[b] = true
	}
	for _, p := range s.Creatures {
		c := a.spawn(templates[p.Template], p.Name, p.Team)
		c.Pos = host.Point{X: p.X, Y: p.Y}
		if p.Policy != "" {
			c.Policy = p.Policy
		}
	}
	return a, nil
}

// UseSummonSpell routes summon abilities committed by AI casters through s.
func (a *Arena) UseSummonSpell(s *summon.Spell) { a.spell = s }

func (a *Arena) spawn(t *Template, name, team string) *Creature {
	c := newCreature(t, name)
	c.Team = team
	c.arena = a
	for _, id := range c.abilities {
		ab, ok := a.abilities.Get(id)
		if !ok {
			c.features[id] = true
			continue
		}
		c.slots = append(c.slots, &Slot{ability: ab, owner: c})
	}
	a.creatures = append(a.creatures, c)
	return c
}

// Creatures returns every creature ever placed, including the dead.
func (a *Arena) Creatures() []*Creature { return append([]*Creature(nil), a.creatures...) }

// Round returns the current round number, 0 before Run.
func (a *Arena) Round() int { return a.round }

// CreatureByID returns the creature with uid, or nil.
func (a *Arena) CreatureByID(uid string) *Creature {
	for _, c := range a.creatures {
		if c.ID() == uid {
			return c
		}
	}
	return nil
}

// Related returns the living creatures hostile (or friendly) to uid, nearest
// first, excluding uid itself.
func (a *Arena) Related(uid string, hostile bool) []*Creature {
	viewer := a.CreatureByID(uid)
	if viewer == nil {
		return nil
	}
	var out []*Creature
	for _, c := range a.creatures {
		if !c.Alive() || c == viewer || (c.Team != viewer.Team) != hostile {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return chebyshev(viewer.Pos, out[i].Pos) < chebyshev(viewer.Pos, out[j].Pos)
	})
	return out
}

// LiveVisibleCreatures returns living creatures by relationship; Friendly
// includes viewer. Every creature on the map is visible.
func (a *Arena) LiveVisibleCreatures(viewer host.Creature, rel host.Relationship) []host.Creature {
	v := a.CreatureByID(viewer.ID())
	if v == nil {
		return nil
	}
	var out []host.Creature
	for _, c := range a.creatures {
		if !c.Alive() {
			continue
		}
		if (c.Team != v.Team) == (rel == host.Hostile) {
			out = append(out, c)
		}
	}
	return out
}

func (a *Arena) Distance(c host.Creature, p host.Point) int { return chebyshev(c.Position(), p) }

// MoveTowards takes one step toward dest for MoveCost AP.
//
// Postcondition: false when mover lacks AP or no open step gets closer;
// true without moving when already within distance.
func (a *Arena) MoveTowards(mover host.Creature, dest host.Point, distance int) bool {
	c := a.CreatureByID(mover.ID())
	if c == nil || !c.Alive() {
		return false
	}
	if chebyshev(c.Pos, dest) <= distance {
		return true
	}
	if c.AP < a.opts.MoveCost {
		return false
	}
	next, ok := a.nextStep(c.Pos, dest)
	if !ok {
		return false
	}
	c.AP -= a.opts.MoveCost
	a.logger.Debug("move", zap.String("creature", c.Name()), zap.Stringer("from", c.Pos), zap.Stringer("to", next))
	c.Pos = next
	return true
}

// ActivateAndGetTargeter refuses slots that are not the arena's own or that
// cannot activate.
func (a *Arena) ActivateAndGetTargeter(slot host.Slot) (host.Targeter, bool) {
	s, ok := slot.(*Slot)
	if !ok || s.owner.arena != a || !s.CanActivate() {
		return nil, false
	}
	return &Targeter{arena: a, slot: s, cursor: s.owner.Pos}, true
}

// Attack makes a melee attack for AttackCost AP.
//
// Postcondition: false when either side is missing or dead, the target is
// not adjacent, or the attacker lacks AP.
func (a *Arena) Attack(attacker, defender host.Creature) bool {
	atk, def := a.CreatureByID(attacker.ID()), a.CreatureByID(defender.ID())
	if atk == nil || def == nil || !atk.Alive() || !def.Alive() {
		return false
	}
	if chebyshev(atk.Pos, def.Pos) > 1 || atk.AP < a.opts.AttackCost {
		return false
	}
	atk.AP -= a.opts.AttackCost
	r := ResolveAttack(atk, def, a.roller)
	def.applyDamage(r.EffectiveDamage())
	a.logger.Info("attack",
		zap.String("attacker", atk.Name()),
		zap.String("target", def.Name()),
		zap.Int("total", r.Total),
		zap.Stringer("outcome", r.Outcome),
		zap.Int("damage", r.EffectiveDamage()),
		zap.Int("target_hp", def.HP),
	)
	return true
}

// Pause waits for d or until ctx is done.
func (a *Arena) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var (
	damageDie = dice.MustParse("2d6")
	healDie   = dice.MustParse("1d8")
)

// Effect strengths and lengths for buffs and debuffs.
const (
	buffAttackMod = 2
	debuffACMod   = -2
	effectRounds  = 3
)

// resolveAbility applies a committed non-summon ability at p.
func (a *Arena) resolveAbility(s *Slot, p host.Point) {
	caster := s.owner
	target := a.CreatureAt(p)
	log := a.logger.With(zap.String("caster", caster.Name()), zap.String("ability", s.ability.ID))
	if target == nil {
		log.Debug("ability resolved on empty tile", zap.Stringer("at", p))
		return
	}
	switch s.ability.Action {
	case ability.ActionDamage:
		r := a.roller.Roll(damageDie)
		dmg := r.Total() + caster.Caster/2
		target.applyDamage(dmg)
		log.Info("damage", zap.String("target", target.Name()), zap.Int("amount", dmg), zap.Int("target_hp", target.HP))
	case ability.ActionHeal:
		r := a.roller.Roll(healDie)
		healed := target.heal(r.Total() + caster.Caster)
		log.Info("heal", zap.String("target", target.Name()), zap.Int("amount", healed), zap.Int("target_hp", target.HP))
	case ability.ActionBuff:
		target.addEffect(Effect{Source: s.ability.ID, AttackMod: buffAttackMod, RoundsLeft: effectRounds})
		log.Info("buff", zap.String("target", target.Name()))
	case ability.ActionDebuff:
		target.addEffect(Effect{Source: s.ability.ID, ACMod: debuffACMod, RoundsLeft: effectRounds})
		log.Info("debuff", zap.String("target", target.Name()))
	}
}

// castSummon runs the summon spell for an AI commit, placing at p.
func (a *Arena) castSummon(s *Slot, p host.Point) error {
	if a.spell == nil {
		return ErrNoSummonSpell
	}
	a.placeAt = &p
	defer func() { a.placeAt = nil }()

	flow, err := a.spell.OnActivate(s)
	if err != nil {
		return err
	}
	if a.lastMenu != nil && a.lastMenu.Err != nil {
		return a.lastMenu.Err
	}
	a.logger.Debug("summon flow finished",
		zap.String("caster", s.owner.Name()),
		zap.Stringer("state", flow.State()),
		zap.String("creature", flow.Creature()),
	)
	return nil
}

// Menu returns a fresh menu answered by the configured Chooser.
func (a *Arena) Menu() host.Menu {
	a.lastMenu = &Menu{chooser: a.opts.Chooser, logger: a.logger}
	return a.lastMenu
}

// LastMenu returns the menu most recently handed out, or nil.
func (a *Arena) LastMenu() *Menu { return a.lastMenu }

// CreatureName returns the display name of a template.
func (a *Arena) CreatureName(templateID string) (string, error) {
	t, ok := a.templates[templateID]
	if !ok {
		return "", fmt.Errorf("arena: unknown template %q", templateID)
	}
	return t.Name, nil
}

type placement struct {
	slot   host.Slot
	caster host.Creature
	points []host.Point
}

func (p placement) Slot() host.Slot              { return p.slot }
func (p placement) Caster() host.Creature        { return p.caster }
func (p placement) AffectedPoints() []host.Point { return p.points }

// RequestPlacement answers a placement request immediately: at the point an
// AI commit chose when it satisfies spec, else at the closest empty tile in
// range. No such tile cancels.
func (a *Arena) RequestPlacement(slot host.Slot, spec host.PlacementSpec, onSelect func(host.Placement) error, onCancel func()) error {
	caster := slot.Owner()
	ok := func(p host.Point) bool {
		if !a.inBounds(p) || a.blocked[p] || chebyshev(caster.Position(), p) > spec.MaxRange {
			return false
		}
		return spec.AllowOccupied || a.CreatureAt(p) == nil
	}
	var at host.Point
	switch {
	case a.placeAt != nil && ok(*a.placeAt):
		at = *a.placeAt
	default:
		p, found := a.FindClosestEmptyTile(caster.Position(), spec.MaxRange)
		if !found {
			onCancel()
			return nil
		}
		at = p
	}
	points := []host.Point{at}
	for r := 1; r <= spec.Radius; r++ {
		points = append(points, a.ring(at, r)...)
	}
	return onSelect(placement{slot: slot, caster: caster, points: points})
}

// Summon creates templateID at p on owner's team for duration rounds.
func (a *Arena) Summon(templateID string, p host.Point, owner host.Creature, duration int) (host.Summoned, error) {
	t, ok := a.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("arena: unknown template %q", templateID)
	}
	o := a.CreatureByID(owner.ID())
	if o == nil {
		return nil, fmt.Errorf("arena: unknown owner %q", owner.ID())
	}
	if !a.isEmpty(p) {
		return nil, fmt.Errorf("arena: cannot summon at %s: tile not empty", p)
	}
	c := a.spawn(t, "", o.Team)
	c.Pos = p
	c.Owner = o
	c.RoundsLeft = duration
	c.Initiative = o.Initiative
	if c.Policy == "" {
		c.Policy = a.opts.SummonPolicy
	}
	a.logger.Info("summon", zap.String("owner", o.Name()), zap.String("creature", c.Name()), zap.Stringer("at", p), zap.Int("rounds", duration))
	return c, nil
}
