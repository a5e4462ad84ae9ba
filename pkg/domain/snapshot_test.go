package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

func TestSnapshotHas(t *testing.T) {
	snap := domain.Snapshot{Inventory: []string{"a brass lantern", "two batteries"}}

	assert.True(t, snap.Has("batt"), "substring match")
	assert.True(t, snap.Has("LANTERN"), "case-insensitive")
	assert.False(t, snap.Has("sword"))
	assert.False(t, domain.Snapshot{}.Has("anything"))
}

func TestSnapshotTrailViews(t *testing.T) {
	snap := domain.Snapshot{Trail: domain.Strand{"north", "wait", "WAIT"}}

	assert.Equal(t, 3, snap.Depth())
	assert.Equal(t, "WAIT", snap.LastCommand())
	assert.Equal(t, 2, snap.Uses("wait"))
	assert.Equal(t, 0, snap.Uses("south"))

	assert.Equal(t, "", domain.Snapshot{}.LastCommand())
}

func TestSolutionViews(t *testing.T) {
	sol := domain.Solution{Frames: []domain.Frame{
		{Command: "", Output: "Opening banner.", Outcome: domain.OutcomeContinuing, Turn: 1},
		{Command: "north", Output: "You go north.", Outcome: domain.OutcomeContinuing, Turn: 2},
		{Command: "open door", Output: "*** You have won ***", Outcome: domain.OutcomeSuccess, Turn: 3},
	}}

	assert.Equal(t, domain.Strand{"north", "open door"}, sol.Strand())
	assert.Equal(t, "NORTH. OPEN DOOR.", sol.Walkthrough())

	tr := sol.Transcript()
	assert.Contains(t, tr, "Opening banner.")
	assert.Contains(t, tr, "> NORTH")
	assert.Contains(t, tr, "*** You have won ***")
}
