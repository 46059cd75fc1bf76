package ai_test

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

type fakeCreature struct {
	id, name  string
	pos       host.Point
	hp, maxHP int
	level     int
	abilities map[string]bool
	slots     []host.Slot
}

func (c *fakeCreature) ID() string                { return c.id }
func (c *fakeCreature) Name() string              { return c.name }
func (c *fakeCreature) CurrentHP() int            { return c.hp }
func (c *fakeCreature) MaxHP() int                { return c.maxHP }
func (c *fakeCreature) CasterLevel() int          { return c.level }
func (c *fakeCreature) Position() host.Point      { return c.pos }
func (c *fakeCreature) HasAbility(id string) bool { return c.abilities[id] }
func (c *fakeCreature) Slots() []host.Slot        { return c.slots }

func creature(id string, x, y, hp, maxHP int) *fakeCreature {
	return &fakeCreature{id: id, name: id, pos: host.Point{X: x, Y: y}, hp: hp, maxHP: maxHP}
}

type fakeSlot struct {
	ab    *ability.Ability
	owner host.Creature
	// uses is how many more activations are allowed; < 0 = unlimited.
	uses int
	// allow overrides uses when set; it receives the 1-based check count.
	allow     func(check int) bool
	checks    int
	rounds    int
	activated int
}

func (s *fakeSlot) Ability() *ability.Ability { return s.ab }
func (s *fakeSlot) Owner() host.Creature      { return s.owner }
func (s *fakeSlot) CanActivate() bool {
	s.checks++
	if s.allow != nil {
		return s.allow(s.checks)
	}
	if s.uses < 0 {
		return true
	}
	return s.uses > 0
}
func (s *fakeSlot) SetActiveRoundsLeft(r int) { s.rounds = r }
func (s *fakeSlot) Activate() error {
	s.activated++
	if s.uses > 0 {
		s.uses--
	}
	return nil
}

func slot(owner *fakeCreature, id string, action ability.ActionType, rng ability.RangeType) *fakeSlot {
	s := &fakeSlot{
		ab:    &ability.Ability{ID: id, Name: id, Action: action, Range: rng, APCost: 2},
		owner: owner,
		uses:  -1,
	}
	owner.slots = append(owner.slots, s)
	return s
}

type fakeTargeter struct {
	slot      *fakeSlot
	valid     func(p host.Point) bool
	allowed   []host.Point
	cursor    host.Point
	committed []host.Point
	cancelled bool
	commitErr error
}

func (t *fakeTargeter) SetCursor(p host.Point) { t.cursor = p }
func (t *fakeTargeter) IsValidSelection() bool {
	return t.valid != nil && t.valid(t.cursor)
}
func (t *fakeTargeter) AllowedPoints() []host.Point { return t.allowed }
func (t *fakeTargeter) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = append(t.committed, t.cursor)
	return t.slot.Activate()
}
func (t *fakeTargeter) Cancel() { t.cancelled = true }

type fakeBattle struct {
	friendlies []host.Creature
	hostiles   []host.Creature
	emptyTile  *host.Point
	// moves is how many more MoveTowards calls succeed; < 0 = unlimited.
	moves     int
	moveCalls int
	refuse    bool
	// newTargeter customises targeters; default accepts any cursor.
	newTargeter func(s *fakeSlot) *fakeTargeter
	targeters   []*fakeTargeter
	activations []string
	pauses      int
	attacks     []string
}

func newBattle() *fakeBattle { return &fakeBattle{moves: -1} }

func (b *fakeBattle) LiveVisibleCreatures(viewer host.Creature, rel host.Relationship) []host.Creature {
	if rel == host.Hostile {
		return b.hostiles
	}
	return b.friendlies
}

func (b *fakeBattle) Distance(c host.Creature, p host.Point) int {
	dx, dy := abs(c.Position().X-p.X), abs(c.Position().Y-p.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func (b *fakeBattle) FindClosestEmptyTile(center host.Point, maxDistance int) (host.Point, bool) {
	if b.emptyTile == nil {
		return host.Point{}, false
	}
	return *b.emptyTile, true
}

func (b *fakeBattle) MoveTowards(mover host.Creature, dest host.Point, distance int) bool {
	b.moveCalls++
	if b.moves == 0 {
		return false
	}
	if b.moves > 0 {
		b.moves--
	}
	fc := mover.(*fakeCreature)
	fc.pos.X += sign(dest.X - fc.pos.X)
	fc.pos.Y += sign(dest.Y - fc.pos.Y)
	return true
}

func (b *fakeBattle) ActivateAndGetTargeter(s host.Slot) (host.Targeter, bool) {
	fs := s.(*fakeSlot)
	b.activations = append(b.activations, fs.ab.ID)
	if b.refuse {
		return nil, false
	}
	var t *fakeTargeter
	if b.newTargeter != nil {
		t = b.newTargeter(fs)
	} else {
		t = &fakeTargeter{valid: func(host.Point) bool { return true }}
	}
	t.slot = fs
	b.targeters = append(b.targeters, t)
	return t, true
}

func (b *fakeBattle) Attack(attacker, defender host.Creature) bool {
	b.attacks = append(b.attacks, defender.ID())
	return true
}

func (b *fakeBattle) Pause(ctx context.Context, d time.Duration) error {
	b.pauses++
	return ctx.Err()
}

var errCommit = errors.New("commit failed")

// recordingPolicy counts fallback invocations.
type recordingPolicy struct{ calls int }

func (r *recordingPolicy) RunTurn(context.Context, host.Battle, host.Creature) error {
	r.calls++
	return nil
}
