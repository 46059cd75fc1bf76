package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/ai"
	"github.com/cory-johannsen/hale/internal/game/host"
)

func newStandard(fallback ai.Policy) *ai.StandardPolicy {
	return ai.NewStandardPolicy(ai.StandardOptions{Fallback: fallback, Logger: zap.NewNop()})
}

func TestNewStandardPolicy_PanicsWithoutFallbackOrLogger(t *testing.T) {
	assert.Panics(t, func() { ai.NewStandardPolicy(ai.StandardOptions{Logger: zap.NewNop()}) })
	assert.Panics(t, func() { ai.NewStandardPolicy(ai.StandardOptions{Fallback: ai.PassPolicy}) })
}

func TestSlotsWithActions_PreservesOrder(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "heal", ability.ActionHeal, ability.RangeTouch)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeShort)
	slot(actor, "shield", ability.ActionBuff, ability.RangePersonal)
	got := ai.SlotsWithActions(actor.Slots(), ability.ActionBuff, ability.ActionDamage)
	require.Len(t, got, 2)
	assert.Equal(t, "bolt", got[0].Ability().ID)
	assert.Equal(t, "shield", got[1].Ability().ID)
}

func TestActionList_HealsLeadOnlyWhenFriendWounded(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeShort)
	slot(actor, "heal", ability.ActionHeal, ability.RangeTouch)
	ally := creature("ally", 1, 0, 10, 10)
	b := newBattle()
	b.friendlies = []host.Creature{actor, ally}
	p := newStandard(ai.PassPolicy)

	list, count := p.ActionList(b, actor)
	assert.Equal(t, 1, count)
	require.Len(t, list, 1)
	assert.Equal(t, "bolt", list[0].Ability().ID)

	ally.hp = 4
	list, count = p.ActionList(b, actor)
	assert.Equal(t, 1, count)
	require.Len(t, list, 2)
	assert.Equal(t, "heal", list[0].Ability().ID)
	assert.Equal(t, "bolt", list[1].Ability().ID)
}

func TestActionList_OnlyHealsIsEmpty(t *testing.T) {
	actor := creature("a", 0, 0, 1, 10)
	slot(actor, "heal", ability.ActionHeal, ability.RangeTouch)
	b := newBattle()
	b.friendlies = []host.Creature{actor}
	list, count := newStandard(ai.PassPolicy).ActionList(b, actor)
	assert.Empty(t, list)
	assert.Zero(t, count)
}

func TestRunTurn_NoAbilitiesFallsBack(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	fb := &recordingPolicy{}
	require.NoError(t, newStandard(fb).RunTurn(context.Background(), newBattle(), actor))
	assert.Equal(t, 1, fb.calls)
}

func TestRunTurn_HealsWoundedAllyBeforeAttacking(t *testing.T) {
	cleric := creature("cleric", 0, 0, 20, 20)
	cleric.level = 4
	slot(cleric, "cure", ability.ActionHeal, ability.RangeTouch)
	slot(cleric, "smite", ability.ActionDamage, ability.RangeShort)
	ally := creature("ally", 3, 0, 4, 10)
	enemy := creature("enemy", 4, 4, 10, 10)

	b := newBattle()
	b.friendlies = []host.Creature{cleric, ally}
	b.hostiles = []host.Creature{enemy}
	fb := &recordingPolicy{}

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, cleric))
	assert.Equal(t, []string{"cure", "smite"}, b.activations)
	require.Len(t, b.targeters, 2)
	assert.Equal(t, []host.Point{ally.Position()}, b.targeters[0].committed)
	assert.Equal(t, []host.Point{enemy.Position()}, b.targeters[1].committed)
	assert.Equal(t, 2, b.pauses)
	// The heal attempt drives the remaining counter negative.
	assert.Zero(t, fb.calls)
}

func TestRunTurn_ExhaustedAbilitiesFallBack(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeLong)
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 3, 0, 10, 10)}
	fb := &recordingPolicy{}

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, actor))
	assert.Equal(t, []string{"bolt"}, b.activations)
	assert.Equal(t, 1, fb.calls)
}

func TestRunTurn_NoTargetSkipsWithoutFallback(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeLong)
	fb := &recordingPolicy{}
	b := newBattle()

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, actor))
	assert.Empty(t, b.activations)
	assert.Zero(t, fb.calls)
}

func TestRunTurn_MovementFailureEndsTurn(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeShort)
	slot(actor, "shield", ability.ActionBuff, ability.RangePersonal)
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 6, 0, 10, 10)}
	b.moves = 1
	fb := &recordingPolicy{}

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, actor))
	assert.Equal(t, 2, b.moveCalls)
	assert.Empty(t, b.activations)
	assert.Zero(t, fb.calls)
}

func TestRunTurn_ApproachesToPreferredDistance(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "claw", ability.ActionDamage, ability.RangeTouch)
	enemy := creature("e", 4, 2, 10, 10)
	b := newBattle()
	b.hostiles = []host.Creature{enemy}

	require.NoError(t, newStandard(ai.PassPolicy).RunTurn(context.Background(), b, actor))
	assert.Equal(t, 1, b.Distance(actor, enemy.Position()))
	assert.Equal(t, []string{"claw"}, b.activations)
}

func TestRunTurn_RechecksActivationAfterMoving(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	s := slot(actor, "claw", ability.ActionDamage, ability.RangeTouch)
	s.allow = func(check int) bool { return check == 1 }
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 3, 0, 10, 10)}
	fb := &recordingPolicy{}

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, actor))
	assert.Equal(t, 2, s.checks)
	assert.Positive(t, b.moveCalls)
	assert.Empty(t, b.activations)
	assert.Zero(t, fb.calls)
}

func TestRunTurn_CannotActivateEndsTurnBeforeTargeting(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	s := slot(actor, "bolt", ability.ActionDamage, ability.RangeLong)
	s.uses = 0
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 9, 0, 10, 10)}

	require.NoError(t, newStandard(&recordingPolicy{}).RunTurn(context.Background(), b, actor))
	assert.Equal(t, 1, s.checks)
	assert.Zero(t, b.moveCalls)
}

func TestRunTurn_RefusedActivationEndsTurn(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeLong)
	slot(actor, "blast", ability.ActionDamage, ability.RangeLong)
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 2, 0, 10, 10)}
	b.refuse = true
	fb := &recordingPolicy{}

	require.NoError(t, newStandard(fb).RunTurn(context.Background(), b, actor))
	assert.Equal(t, []string{"bolt"}, b.activations)
	assert.Zero(t, fb.calls)
}

func TestRunTurn_SummonTargetsEmptyTile(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "summon", ability.ActionSummon, ability.RangeShort)
	b := newBattle()
	b.emptyTile = &host.Point{X: 2, Y: 1}

	require.NoError(t, newStandard(ai.PassPolicy).RunTurn(context.Background(), b, actor))
	require.Len(t, b.targeters, 1)
	assert.Equal(t, []host.Point{{X: 2, Y: 1}}, b.targeters[0].committed)
}

func TestRunTurn_CommitErrorPropagates(t *testing.T) {
	actor := creature("a", 0, 0, 10, 10)
	slot(actor, "bolt", ability.ActionDamage, ability.RangeLong)
	b := newBattle()
	b.hostiles = []host.Creature{creature("e", 2, 0, 10, 10)}
	b.newTargeter = func(*fakeSlot) *fakeTargeter {
		return &fakeTargeter{valid: func(host.Point) bool { return true }, commitErr: errCommit}
	}
	err := newStandard(ai.PassPolicy).RunTurn(context.Background(), b, actor)
	require.ErrorIs(t, err, errCommit)
}
