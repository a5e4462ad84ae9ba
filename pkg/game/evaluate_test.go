package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

func testProfile(t *testing.T) *game.Profile {
	t.Helper()
	p, err := game.NewBuilder("test-game").
		Rooms("balcony", "conference room").
		Phrases(game.Phrases{
			Failure: []string{"*** you have failed ***"},
			Success: []string{"*** success. final, lasting success. ***"},
			Mistake: []string{"the only exits are"},
		}).
		Command("north").
		Command("wait", game.NoRepeat()).
		Extractor("clock", "4:").
		Build()
	require.NoError(t, err)
	return p
}

func TestEvaluateClassification(t *testing.T) {
	ev := game.NewEvaluator(testProfile(t))

	t.Run("failure phrase anywhere in output", func(t *testing.T) {
		frame, _ := ev.Evaluate("north", "You trip.\n\n    *** You have failed ***\n", 2)
		assert.Equal(t, domain.OutcomeFailure, frame.Outcome)
	})

	t.Run("success phrase", func(t *testing.T) {
		frame, _ := ev.Evaluate("north", "*** Success. Final, lasting success. ***", 2)
		assert.Equal(t, domain.OutcomeSuccess, frame.Outcome)
	})

	t.Run("mistake as line prefix", func(t *testing.T) {
		frame, _ := ev.Evaluate("east", "The only exits are north and west.", 2)
		assert.Equal(t, domain.OutcomeMistake, frame.Outcome)
	})

	t.Run("mistake as line suffix", func(t *testing.T) {
		frame, _ := ev.Evaluate("xyzzy", "Hmm. That's not a verb I recognise", 2)
		assert.Equal(t, domain.OutcomeMistake, frame.Outcome, "default tables apply too")
	})

	t.Run("continuing move picks up room and extras", func(t *testing.T) {
		frame, anomalies := ev.Evaluate("north", "\nBalcony  4:17:30\nYou are outside.\n", 2)
		assert.Empty(t, anomalies)
		assert.Equal(t, domain.OutcomeContinuing, frame.Outcome)
		assert.Equal(t, "balcony", frame.Room)
		assert.Equal(t, "4:17:30", frame.Extras["clock"])
	})

	t.Run("unknown room stays empty", func(t *testing.T) {
		frame, _ := ev.Evaluate("look", "Nothing to see here.", 2)
		assert.Equal(t, domain.OutcomeContinuing, frame.Outcome)
		assert.Empty(t, frame.Room)
	})
}

// Failure and success checks run before mistake checks, so output carrying
// both a failure banner and a mistake phrase is a failure, never a mistake.
func TestEvaluatePrecedence(t *testing.T) {
	ev := game.NewEvaluator(testProfile(t))

	frame, _ := ev.Evaluate("open door", "The only exits are north.\n*** You have failed ***", 2)
	assert.Equal(t, domain.OutcomeFailure, frame.Outcome)

	frame, _ = ev.Evaluate("open door", "The only exits are north.\n*** Success. Final, lasting success. ***", 2)
	assert.Equal(t, domain.OutcomeSuccess, frame.Outcome)
}

func TestEvaluateAnomalies(t *testing.T) {
	ev := game.NewEvaluator(testProfile(t))

	t.Run("unrecognized asterisk line is reported, not terminal", func(t *testing.T) {
		frame, anomalies := ev.Evaluate("north", "*** The walls shimmer oddly ***", 2)
		assert.Equal(t, domain.OutcomeContinuing, frame.Outcome)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "asterisk_line", anomalies[0].Kind)
		assert.Contains(t, anomalies[0].Line, "shimmer")
	})

	t.Run("asterisk separator is ignored", func(t *testing.T) {
		_, anomalies := ev.Evaluate("north", "*******", 2)
		assert.Empty(t, anomalies)
	})

	t.Run("disambiguation is a mistake and reported", func(t *testing.T) {
		frame, anomalies := ev.Evaluate("take key", "Which do you mean, the brass key or the iron key?", 2)
		assert.Equal(t, domain.OutcomeMistake, frame.Outcome)
		require.Len(t, anomalies, 1)
		assert.Equal(t, "disambiguation", anomalies[0].Kind)
	})
}

func TestParseInventory(t *testing.T) {
	ev := game.NewEvaluator(testProfile(t))

	t.Run("items survive, chrome does not", func(t *testing.T) {
		items := ev.ParseInventory("You are carrying:\n  a brass lantern\n  a sword\n\nBalcony\n...")
		assert.Equal(t, []string{"a brass lantern", "a sword"}, items)
	})

	t.Run("answer tag behind a prompt marker", func(t *testing.T) {
		items := ev.ParseInventory("> You are carrying:\na rope")
		assert.Equal(t, []string{"a rope"}, items)
	})

	t.Run("empty answer", func(t *testing.T) {
		assert.Empty(t, ev.ParseInventory("You are carrying:\n\n"))
	})
}
