package validator_test

import (
	"strings"
	"testing"

	"github.com/patrick-brian-mooney/IF-utils/internal/testutils"
	"github.com/patrick-brian-mooney/IF-utils/internal/validator"
	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

const validDoc = `
name: toy
interpreter: dfrotz
story_file: toy.z5
rooms:
  - alcove
  - belfry
commands:
  - text: go north
  - text: wait
    when:
      - name: no-repeat
  - text: ring bell
    when:
      - name: in-room
        rooms: [belfry]
      - name: after
        command: go north
`

func TestCheckProfileAcceptsAValidDocument(t *testing.T) {
	path := testutils.WriteProfile(t, validDoc)

	p, err := validator.CheckProfile(path)
	if err != nil {
		t.Fatalf("CheckProfile() = %v, want nil", err)
	}
	if !p.Resolved() {
		t.Error("CheckProfile() returned an unresolved profile")
	}
}

func TestCheckReportsReferentialProblems(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "unknown room",
			doc: `
name: toy
interpreter: dfrotz
rooms: [alcove]
commands:
  - text: ring bell
    when:
      - name: in-room
        rooms: [tower]
`,
			want: []string{`in-room references unknown room "tower"`},
		},
		{
			name: "room predicate without a rooms table",
			doc: `
name: toy
interpreter: dfrotz
commands:
  - text: ring bell
    when:
      - name: not-in-room
        rooms: [belfry]
`,
			want: []string{"not-in-room needs a rooms table"},
		},
		{
			name: "after an unknown command",
			doc: `
name: toy
interpreter: dfrotz
commands:
  - text: ring bell
    when:
      - name: after
        command: pull rope
`,
			want: []string{`after references unknown command "pull rope"`},
		},
		{
			name: "structural and referential problems arrive together",
			doc: `
name: toy
commands:
  - text: go. north
  - text: ring bell
    when:
      - name: after
        command: pull rope
`,
			want: []string{
				"must not contain a period",
				"interpreter must not be empty",
				"unknown command",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := game.Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			err = validator.Check(p)
			if err == nil {
				t.Fatal("Check() = nil, want problems")
			}
			for _, want := range tt.want {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Check() = %v\nwant substring %q", err, want)
				}
			}
		})
	}
}

func TestCheckEnvironment(t *testing.T) {
	story := testutils.WriteFile(t, "toy.z5", "not really a story file")

	ok := &game.Profile{Interpreter: "sh", StoryFile: story}
	if err := validator.CheckEnvironment(ok); err != nil {
		t.Errorf("CheckEnvironment() = %v, want nil", err)
	}

	missing := &game.Profile{Interpreter: "no-such-terp-anywhere", StoryFile: story + ".gone"}
	err := validator.CheckEnvironment(missing)
	if err == nil {
		t.Fatal("CheckEnvironment() = nil, want problems")
	}
	for _, want := range []string{"not found", "story file"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("CheckEnvironment() = %v\nwant substring %q", err, want)
		}
	}
}
