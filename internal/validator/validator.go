// Package validator performs the deep checks behind `ifexplore profile
// validate`: the structural rules every profile must satisfy, predicate
// compilation, and referential checks across the document. Environment
// checks (is the interpreter installed, does the story file exist) are
// split out so documents can be validated on machines without the game.
package validator

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/patrick-brian-mooney/IF-utils/pkg/game"
)

// CheckProfile loads the profile document at path and runs every static
// check against it. On success the returned profile is resolved and ready
// to run.
func CheckProfile(path string) (*game.Profile, error) {
	p, err := game.Load(path)
	if err != nil {
		return nil, err
	}
	if err := Check(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Check validates p in place: structural rules, predicate compilation
// against the built-in registry, and the referential checks below. All
// violations are reported together, not just the first.
func Check(p *game.Profile) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Resolve covers the structural rules and compiles every predicate
	// spec. Its joined error is one violation per line.
	if err := p.Resolve(nil); err != nil {
		problems = append(problems, strings.Split(err.Error(), "\n")...)
	}

	if strings.TrimSpace(p.Interpreter) == "" {
		add("interpreter must not be empty")
	}

	known := make(map[string]bool, len(p.Commands))
	for _, c := range p.Commands {
		known[strings.ToLower(strings.TrimSpace(c.Text))] = true
	}
	rooms := make(map[string]bool, len(p.Rooms))
	for _, r := range p.Rooms {
		rooms[strings.ToLower(strings.TrimSpace(r))] = true
	}

	// Referential checks: room predicates must name declared rooms, and
	// `after` must point at another command in the set. A predicate that
	// can never fire is a silent hole in the search space.
	for _, c := range p.Commands {
		for _, spec := range c.When {
			switch spec.Name {
			case game.PredInRoom, game.PredNotInRoom:
				if len(p.Rooms) == 0 {
					add("command %q: %s needs a rooms table in the profile", c.Text, spec.Name)
					continue
				}
				for _, room := range specRooms(spec) {
					if !rooms[strings.ToLower(strings.TrimSpace(room))] {
						add("command %q: %s references unknown room %q", c.Text, spec.Name, room)
					}
				}
			case game.PredAfter:
				if target := specCommand(spec); target != "" && !known[strings.ToLower(strings.TrimSpace(target))] {
					add("command %q: after references unknown command %q", c.Text, target)
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d problems:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// CheckEnvironment verifies the pieces outside the document: the
// interpreter binary must be resolvable and the story file must exist.
func CheckEnvironment(p *game.Profile) error {
	var problems []string

	if _, err := exec.LookPath(p.Interpreter); err != nil {
		problems = append(problems, fmt.Sprintf("interpreter %q not found: %v", p.Interpreter, err))
	}
	if p.StoryFile != "" {
		if _, err := os.Stat(p.StoryFile); err != nil {
			problems = append(problems, fmt.Sprintf("story file %q: %v", p.StoryFile, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d problems:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

func specRooms(spec game.PredicateSpec) []string {
	var p struct {
		Rooms []string `mapstructure:"rooms"`
	}
	decode(spec.Params, &p)
	return p.Rooms
}

func specCommand(spec game.PredicateSpec) string {
	var p struct {
		Command string `mapstructure:"command"`
	}
	decode(spec.Params, &p)
	return p.Command
}

// decode ignores decoding failures: malformed params already surface as
// compile errors from Resolve, so the referential pass only inspects what
// it can read.
func decode(params map[string]any, into any) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
	})
	if err == nil {
		_ = dec.Decode(params)
	}
}
