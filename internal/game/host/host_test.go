package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/host"
)

func TestRelationshipFor(t *testing.T) {
	cases := map[ability.ActionType]host.Relationship{
		ability.ActionDamage: host.Hostile,
		ability.ActionDebuff: host.Hostile,
		ability.ActionBuff:   host.Friendly,
		ability.ActionHeal:   host.Friendly,
		ability.ActionSummon: host.Friendly,
	}
	for action, want := range cases {
		assert.Equal(t, want, host.RelationshipFor(action), action.String())
	}
}

func TestPoint_String(t *testing.T) {
	assert.Equal(t, "(3,-1)", host.Point{X: 3, Y: -1}.String())
}
