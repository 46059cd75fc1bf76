package summon_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

type fakeCreature struct {
	id        string
	level     int
	abilities map[string]bool
	failure   int
	pos       host.Point
}

func (c *fakeCreature) ID() string                { return c.id }
func (c *fakeCreature) Name() string              { return c.id }
func (c *fakeCreature) CurrentHP() int            { return 10 }
func (c *fakeCreature) MaxHP() int                { return 10 }
func (c *fakeCreature) CasterLevel() int          { return c.level }
func (c *fakeCreature) Position() host.Point      { return c.pos }
func (c *fakeCreature) HasAbility(id string) bool { return c.abilities[id] }
func (c *fakeCreature) Slots() []host.Slot        { return nil }
func (c *fakeCreature) SpellFailureChance() int   { return c.failure }

func caster(level int, caps ...string) *fakeCreature {
	c := &fakeCreature{id: "druid", level: level, abilities: map[string]bool{}}
	for _, name := range caps {
		c.abilities[name] = true
	}
	return c
}

type fakeSlot struct {
	ab        *ability.Ability
	owner     host.Creature
	rounds    int
	activated int
	// events records Activate relative to other host calls.
	events *[]string
}

func (s *fakeSlot) Ability() *ability.Ability { return s.ab }
func (s *fakeSlot) Owner() host.Creature      { return s.owner }
func (s *fakeSlot) CanActivate() bool         { return true }
func (s *fakeSlot) SetActiveRoundsLeft(r int) { s.rounds = r }
func (s *fakeSlot) Activate() error {
	s.activated++
	*s.events = append(*s.events, "activate")
	return nil
}

type fakeSummoned struct {
	*fakeCreature
	role   string
	levels map[string]int
	resets int
}

func (s *fakeSummoned) BaseRole() string { return s.role }
func (s *fakeSummoned) AddRoleLevels(role string, n int) {
	s.levels[role] += n
}
func (s *fakeSummoned) ResetAll() { s.resets++ }

type button struct {
	label    string
	onSelect func() error
}

type fakeMenu struct {
	titles  []string
	buttons []button
	shown   int
}

func (m *fakeMenu) AddLevel(title string) { m.titles = append(m.titles, title) }
func (m *fakeMenu) AddButton(label string, onSelect func() error) {
	m.buttons = append(m.buttons, button{label, onSelect})
}
func (m *fakeMenu) Show() { m.shown++ }

type fakePlacement struct {
	slot   host.Slot
	caster host.Creature
	points []host.Point
}

func (p fakePlacement) Slot() host.Slot              { return p.slot }
func (p fakePlacement) Caster() host.Creature        { return p.caster }
func (p fakePlacement) AffectedPoints() []host.Point { return p.points }

type placementRequest struct {
	slot     host.Slot
	spec     host.PlacementSpec
	onSelect func(host.Placement) error
	onCancel func()
}

type fakeHost struct {
	menu      *fakeMenu
	requests  []placementRequest
	summoned  []*fakeSummoned
	durations []int
	events    []string
	summonErr error
}

func newHost() *fakeHost { return &fakeHost{menu: &fakeMenu{}} }

func (h *fakeHost) Menu() host.Menu { return h.menu }

func (h *fakeHost) CreatureName(id string) (string, error) {
	if !strings.HasPrefix(id, "summon_") {
		return "", errors.New("no such template")
	}
	return "Name of " + strings.TrimPrefix(id, "summon_"), nil
}

func (h *fakeHost) RequestPlacement(slot host.Slot, spec host.PlacementSpec, onSelect func(host.Placement) error, onCancel func()) error {
	h.requests = append(h.requests, placementRequest{slot, spec, onSelect, onCancel})
	return nil
}

func (h *fakeHost) Summon(id string, p host.Point, owner host.Creature, duration int) (host.Summoned, error) {
	h.events = append(h.events, "summon")
	if h.summonErr != nil {
		return nil, h.summonErr
	}
	s := &fakeSummoned{
		fakeCreature: &fakeCreature{id: fmt.Sprintf("%s#%d", id, len(h.summoned)), pos: p},
		role:         "Fighter",
		levels:       map[string]int{},
	}
	h.summoned = append(h.summoned, s)
	h.durations = append(h.durations, duration)
	return s, nil
}

func (h *fakeHost) slot(owner host.Creature, spellFailure bool) *fakeSlot {
	return &fakeSlot{
		ab:     &ability.Ability{ID: "summon", Name: "Summon Creature", Action: ability.ActionSummon, Range: ability.RangeShort, SpellFailure: spellFailure},
		owner:  owner,
		events: &h.events,
	}
}
