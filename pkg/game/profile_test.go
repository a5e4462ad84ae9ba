package game_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

const sampleProfile = `
name: two-room
interpreter: /usr/bin/dfrotz
interpreter_args: ["-m"]
story_file: /games/two-room.z5
rooms:
  - room a
  - room b
inventory_answer_tag: "You are carrying:"
phrases:
  success: ["you win"]
  failure: ["you lose"]
  mistake: ["nothing happens"]
commands:
  - text: go
  - text: wait
    when:
      - name: no-repeat
      - name: max-uses
        n: 3
tuning:
  retry_base: 50ms
  save_interval: 15m
  retain_floor: 8
`

func writeProfile(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadAndResolve(t *testing.T) {
	p, err := game.Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)
	require.NoError(t, p.Resolve(nil))

	assert.True(t, p.Resolved())
	assert.Equal(t, "two-room", p.Name)
	assert.Equal(t, []string{"room a", "room b"}, p.Rooms)
	assert.Equal(t, "you are carrying:", p.InventoryAnswerTag)

	// Profile phrases are merged over the generic defaults.
	assert.Contains(t, p.Phrases.Success, "you win")
	assert.Contains(t, p.Phrases.Success, "*** you have won ***")
	assert.Contains(t, p.Phrases.Mistake, "nothing happens")

	// Tuning overrides stick, gaps fill with defaults.
	assert.Equal(t, "50ms", p.Tuning.RetryBase.Std().String())
	assert.Equal(t, "15m0s", p.Tuning.SaveInterval.Std().String())
	assert.Equal(t, 12, p.Tuning.TrackWidth)
	assert.Equal(t, 1000, int(p.Tuning.ReportInterval))

	assert.True(t, p.SaveTurns())
	assert.True(t, p.InventoryTurns())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := game.Parse([]byte("name: x\nphrazes: {}\ncommands: [{text: go}]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing name",
			doc:  "commands: [{text: go}]",
			want: "name must not be empty",
		},
		{
			name: "no commands",
			doc:  "name: x",
			want: "at least one command",
		},
		{
			name: "duplicate command",
			doc:  "name: x\ncommands: [{text: go}, {text: GO}]",
			want: "duplicate command",
		},
		{
			name: "period in command",
			doc:  "name: x\ncommands: [{text: \"go. east\"}]",
			want: "must not contain a period",
		},
		{
			name: "upper-case room",
			doc:  "name: x\nrooms: [Balcony]\ncommands: [{text: go}]",
			want: "must be lower case",
		},
		{
			name: "track width below retain floor",
			doc:  "name: x\ncommands: [{text: go}]\ntuning: {track_width: 4, retain_floor: 8}",
			want: "track_width",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := game.Parse([]byte(tc.doc))
			require.NoError(t, err)
			err = p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestResolveRejectsUnknownPredicate(t *testing.T) {
	p, err := game.Parse([]byte("name: x\ncommands: [{text: go, when: [{name: bogus}]}]"))
	require.NoError(t, err)
	err = p.Resolve(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown predicate "bogus"`)
}
