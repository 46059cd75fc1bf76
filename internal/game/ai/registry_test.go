package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hale/internal/game/ai"
	"github.com/cory-johannsen/hale/internal/game/host"
)

func TestRegistry_PassIsBuiltIn(t *testing.T) {
	r := ai.NewRegistry()
	p, ok := r.PolicyFor("pass")
	require.True(t, ok)
	assert.NoError(t, p.RunTurn(context.Background(), newBattle(), creature("a", 0, 0, 1, 1)))
	assert.Equal(t, []string{"pass"}, r.Names())
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := ai.NewRegistry()
	called := false
	require.NoError(t, r.Register("custom", ai.PolicyFunc(func(context.Context, host.Battle, host.Creature) error {
		called = true
		return nil
	})))
	p, ok := r.PolicyFor("custom")
	require.True(t, ok)
	require.NoError(t, p.RunTurn(context.Background(), newBattle(), creature("a", 0, 0, 1, 1)))
	assert.True(t, called)
	assert.Equal(t, []string{"custom", "pass"}, r.Names())

	_, ok = r.PolicyFor("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicatesAndBlanks(t *testing.T) {
	r := ai.NewRegistry()
	assert.Error(t, r.Register("pass", ai.PassPolicy))
	assert.Error(t, r.Register("", ai.PassPolicy))
	assert.Error(t, r.Register("x", nil))
}
