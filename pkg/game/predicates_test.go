package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

func TestBuiltinPredicates(t *testing.T) {
	t.Run("no-repeat", func(t *testing.T) {
		pred := game.NoRepeat()
		assert.False(t, pred(domain.Snapshot{Trail: domain.Strand{"wait"}}, "WAIT"))
		assert.True(t, pred(domain.Snapshot{Trail: domain.Strand{"north"}}, "wait"))
		assert.True(t, pred(domain.Snapshot{}, "wait"), "allowed at the initial state")
	})

	t.Run("max-uses", func(t *testing.T) {
		pred := game.MaxUses(2)
		assert.True(t, pred(domain.Snapshot{Trail: domain.Strand{"wait", "north"}}, "wait"))
		assert.False(t, pred(domain.Snapshot{Trail: domain.Strand{"wait", "north", "wait"}}, "wait"))
	})

	t.Run("max-depth", func(t *testing.T) {
		pred := game.MaxDepth(2)
		assert.True(t, pred(domain.Snapshot{Trail: domain.Strand{"a"}}, "x"))
		assert.False(t, pred(domain.Snapshot{Trail: domain.Strand{"a", "b"}}, "x"))
	})

	t.Run("rooms", func(t *testing.T) {
		in := game.InRoom("Balcony", "foyer")
		assert.True(t, in(domain.Snapshot{Room: "balcony"}, "x"))
		assert.False(t, in(domain.Snapshot{Room: "cellar"}, "x"))

		out := game.NotInRoom("cellar")
		assert.True(t, out(domain.Snapshot{Room: "balcony"}, "x"))
		assert.False(t, out(domain.Snapshot{Room: "cellar"}, "x"))
	})

	t.Run("inventory", func(t *testing.T) {
		snap := domain.Snapshot{Inventory: []string{"a brass key"}}
		assert.True(t, game.Has("key")(snap, "x"))
		assert.False(t, game.Lacks("key")(snap, "x"))
		assert.True(t, game.Lacks("sword")(snap, "x"))
	})

	t.Run("after", func(t *testing.T) {
		pred := game.After("open hatch")
		assert.False(t, pred(domain.Snapshot{}, "descend"))
		assert.True(t, pred(domain.Snapshot{Trail: domain.Strand{"open hatch"}}, "descend"))
	})
}

func TestRegistryBuild(t *testing.T) {
	reg := game.NewRegistry()

	t.Run("decodes params", func(t *testing.T) {
		pred, err := reg.Build(game.PredicateSpec{
			Name:   game.PredMaxUses,
			Params: map[string]any{"n": 1},
		})
		require.NoError(t, err)
		assert.True(t, pred(domain.Snapshot{}, "wait"))
		assert.False(t, pred(domain.Snapshot{Trail: domain.Strand{"wait"}}, "wait"))
	})

	t.Run("rejects bad params", func(t *testing.T) {
		_, err := reg.Build(game.PredicateSpec{Name: game.PredMaxUses, Params: map[string]any{"n": 0}})
		assert.ErrorContains(t, err, "at least 1")

		_, err = reg.Build(game.PredicateSpec{Name: game.PredInRoom})
		assert.ErrorContains(t, err, "rooms must not be empty")
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := reg.Build(game.PredicateSpec{Name: "nope"})
		assert.ErrorContains(t, err, "unknown predicate")
	})

	t.Run("custom registration", func(t *testing.T) {
		reg.Register("always-no", func(map[string]any) (game.Predicate, error) {
			return func(domain.Snapshot, string) bool { return false }, nil
		})
		pred, err := reg.Build(game.PredicateSpec{Name: "always-no"})
		require.NoError(t, err)
		assert.False(t, pred(domain.Snapshot{}, "x"))
	})
}

func TestCommandAllowed(t *testing.T) {
	p, err := game.NewBuilder("t").
		Command("go").
		Command("wait", game.NoRepeat(), game.MaxUses(2)).
		Build()
	require.NoError(t, err)

	var goCmd, waitCmd *game.Command
	for i := range p.Commands {
		switch p.Commands[i].Text {
		case "go":
			goCmd = &p.Commands[i]
		case "wait":
			waitCmd = &p.Commands[i]
		}
	}
	require.NotNil(t, goCmd)
	require.NotNil(t, waitCmd)

	assert.True(t, goCmd.Allowed(domain.Snapshot{}), "no predicates means always allowed")
	assert.True(t, waitCmd.Allowed(domain.Snapshot{Trail: domain.Strand{"go"}}))
	assert.False(t, waitCmd.Allowed(domain.Snapshot{Trail: domain.Strand{"wait"}}), "no-repeat")
	assert.False(t, waitCmd.Allowed(domain.Snapshot{Trail: domain.Strand{"wait", "go", "wait", "go"}}), "max-uses")
}
