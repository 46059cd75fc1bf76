package ai_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/hale/internal/game/ai"
)

// hookTable answers preconditions from a fixed map.
type hookTable struct {
	results map[string]bool
	calls   []string
}

func (h *hookTable) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	h.calls = append(h.calls, hook)
	if hook == "broken" {
		return lua.LNil, errors.New("boom")
	}
	return lua.LBool(h.results[hook]), nil
}

func mustDomain(t *testing.T) *ai.Domain {
	t.Helper()
	d, err := ai.ParseDomain([]byte(basicDomainYAML))
	require.NoError(t, err)
	return d
}

func stateWithEnemy(dist int) *ai.WorldState {
	return &ai.WorldState{
		Actor: &ai.ActorState{UID: "me"},
		Combatants: []*ai.CombatantState{
			{UID: "e1", Hostile: true, HP: 5, MaxHP: 10, Distance: dist},
		},
	}
}

func TestNewPlanner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { ai.NewPlanner(nil, &hookTable{}, zap.NewNop()) })
	assert.Panics(t, func() { ai.NewPlanner(mustDomain(t), nil, zap.NewNop()) })
	assert.Panics(t, func() { ai.NewPlanner(mustDomain(t), &hookTable{}, nil) })
}

func TestPlan_AdjacentEnemyAttacks(t *testing.T) {
	p := ai.NewPlanner(mustDomain(t), &hookTable{results: map[string]bool{"has_enemy": true, "enemy_adjacent": true}}, zap.NewNop())
	plan, err := p.Plan(stateWithEnemy(1))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionAttack, plan[0].Action)
	require.NotNil(t, plan[0].Target)
	assert.Equal(t, "e1", plan[0].Target.UID)
}

func TestPlan_DistantEnemyApproachesThenAttacks(t *testing.T) {
	p := ai.NewPlanner(mustDomain(t), &hookTable{results: map[string]bool{"has_enemy": true}}, zap.NewNop())
	plan, err := p.Plan(stateWithEnemy(5))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, ai.ActionApproach, plan[0].Action)
	assert.Equal(t, ai.ActionAttack, plan[1].Action)
}

func TestPlan_NoEnemyPasses(t *testing.T) {
	h := &hookTable{}
	p := ai.NewPlanner(mustDomain(t), h, zap.NewNop())
	plan, err := p.Plan(&ai.WorldState{Actor: &ai.ActorState{UID: "me"}})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionPass, plan[0].Action)
	assert.Nil(t, plan[0].Target)
	assert.Equal(t, []string{"has_enemy"}, h.calls)
}

func TestPlan_HookErrorIsFalsePrecondition(t *testing.T) {
	d := mustDomain(t)
	d.Methods[0].Precondition = "broken"
	core, logs := observer.New(zap.DebugLevel)
	p := ai.NewPlanner(d, &hookTable{}, zap.New(core))
	plan, err := p.Plan(stateWithEnemy(1))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionPass, plan[0].Action)
	entries := logs.FilterMessage("precondition failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken", entries[0].ContextMap()["hook"])
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestPlan_NilStateErrors(t *testing.T) {
	p := ai.NewPlanner(mustDomain(t), &hookTable{}, zap.NewNop())
	_, err := p.Plan(nil)
	assert.Error(t, err)
	_, err = p.Plan(&ai.WorldState{})
	assert.Error(t, err)
}

func TestPlan_CyclicDomainTerminates(t *testing.T) {
	d := &ai.Domain{
		ID:    "loop",
		Tasks: []*ai.Task{{ID: ai.RootTask}},
		Methods: []*ai.Method{
			{TaskID: ai.RootTask, ID: "again", Subtasks: []string{ai.RootTask}},
		},
	}
	require.NoError(t, d.Validate())
	plan, err := ai.NewPlanner(d, &hookTable{}, zap.NewNop()).Plan(stateWithEnemy(1))
	require.NoError(t, err)
	assert.Empty(t, plan)
	assert.NotNil(t, plan)
}
