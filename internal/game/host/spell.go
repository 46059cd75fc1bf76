package host

// Menu is the engine's player-choice menu.
type Menu interface {
	AddLevel(title string)
	// AddButton adds a choice; onSelect runs when the player picks it.
	AddButton(label string, onSelect func() error)
	Show()
}

// PlacementSpec configures a point targeter for placing a creature.
type PlacementSpec struct {
	AllowOccupied bool
	Radius        int
	MaxRange      int
}

// Placement is a committed placement selection.
type Placement interface {
	Slot() Slot
	Caster() Creature
	// AffectedPoints returns the selected points; the first is the anchor.
	AffectedPoints() []Point
}

// Summoned is a creature created by the engine on a caster's behalf.
type Summoned interface {
	Creature
	BaseRole() string
	AddRoleLevels(role string, levels int)
	// ResetAll restores hit points and resources to maximum.
	ResetAll()
}

// SpellHost is the engine surface used by spell policies.
type SpellHost interface {
	Menu() Menu
	// CreatureName returns the display name of a creature template.
	CreatureName(templateID string) (string, error)
	// RequestPlacement activates a placement targeter for slot. onSelect runs
	// on commit, onCancel when the player abandons the selection.
	RequestPlacement(slot Slot, spec PlacementSpec, onSelect func(Placement) error, onCancel func()) error
	// Summon creates templateID at p, owned by owner, lasting duration rounds.
	Summon(templateID string, p Point, owner Creature, duration int) (Summoned, error)
}

// SpellFailureSource is implemented by creatures that carry a spell failure
// percentage (armor, conditions).
type SpellFailureSource interface {
	SpellFailureChance() int
}
