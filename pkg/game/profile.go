package game

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extractor scrapes one scalar field from output lines. A line containing
// Marker yields the text from the last occurrence of Marker to the end of
// the line; when several lines match, the last one wins. This is how the
// harness picks up things like an in-game clock or a score from the status
// line the interpreter mixes into its output.
type Extractor struct {
	Field  string `yaml:"field"`
	Marker string `yaml:"marker"`
}

// Profile describes one target game: how to launch it, how to read its
// output, and what to type at it. Profiles come from YAML documents (Load)
// or a Builder, and must be resolved against a predicate Registry before use.
type Profile struct {
	Name string `yaml:"name"`

	// Interpreter launch configuration.
	Interpreter     string   `yaml:"interpreter"`
	InterpreterArgs []string `yaml:"interpreter_args"`
	StoryFile       string   `yaml:"story_file"`

	// Phrases are merged over DefaultPhrases unless NoDefaultPhrases is set.
	Phrases          Phrases `yaml:"phrases"`
	NoDefaultPhrases bool    `yaml:"no_default_phrases"`

	// Rooms are the known location names, matched as line prefixes in table
	// order. Must be lower case.
	Rooms []string `yaml:"rooms"`

	// InventoryAnswerTag is the first line of the interpreter's response to
	// an INVENTORY command ("you are carrying:"), used to strip the header
	// when parsing the item list.
	InventoryAnswerTag string `yaml:"inventory_answer_tag"`

	Extractors []Extractor `yaml:"extractors"`

	// Per-turn bookkeeping toggles. Nil means the default (both on).
	SaveEveryTurn      *bool `yaml:"save_every_turn"`
	InventoryEveryTurn *bool `yaml:"inventory_every_turn"`
	// Transcript asks the interpreter to keep its own transcript file.
	Transcript bool `yaml:"transcript"`

	Commands []Command `yaml:"commands"`

	Tuning Tuning `yaml:"tuning"`

	resolved bool
}

// Load reads and parses a profile document. Unknown YAML keys are an error,
// since a typo in a phrase-table key would silently disable classification.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(raw)
}

// Parse is Load for in-memory documents.
func Parse(raw []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Validate checks the structural rules a profile must satisfy regardless of
// how it will be used. It returns all violations joined, not just the first.
func (p *Profile) Validate() error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(p.Name) == "" {
		fail("name must not be empty")
	}
	if len(p.Commands) == 0 {
		fail("at least one command is required")
	}
	seen := map[string]bool{}
	for _, c := range p.Commands {
		text := strings.ToLower(strings.TrimSpace(c.Text))
		switch {
		case text == "":
			fail("command text must not be empty")
		case strings.Contains(text, "."):
			fail("command %q: text must not contain a period (reserved as the strand separator)", c.Text)
		case seen[text]:
			fail("command %q: duplicate command text", c.Text)
		default:
			seen[text] = true
		}
	}
	for _, r := range p.Rooms {
		if r != strings.ToLower(r) {
			fail("room %q must be lower case", r)
		}
	}
	if p.NoDefaultPhrases && len(p.Phrases.Success) == 0 {
		fail("no success phrases: with no_default_phrases set, the profile must supply its own")
	}
	if p.Tuning.RetainFloor != 0 && p.Tuning.TrackWidth != 0 && p.Tuning.TrackWidth < p.Tuning.RetainFloor {
		fail("tuning: track_width (%d) must be at least retain_floor (%d)", p.Tuning.TrackWidth, p.Tuning.RetainFloor)
	}

	return errors.Join(problems...)
}

// Resolve validates the profile and prepares it for use: phrase tables are
// merged with the defaults, rooms and tags are normalized, predicate specs
// are compiled against reg, and tuning gaps are filled. A nil reg means
// NewRegistry().
func (p *Profile) Resolve(reg *Registry) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	if p.NoDefaultPhrases {
		p.Phrases = Phrases{}.Merge(p.Phrases)
	} else {
		p.Phrases = DefaultPhrases().Merge(p.Phrases)
	}

	rooms := make([]string, len(p.Rooms))
	for i, r := range p.Rooms {
		rooms[i] = strings.ToLower(strings.TrimSpace(r))
	}
	p.Rooms = rooms
	p.InventoryAnswerTag = strings.ToLower(strings.TrimSpace(p.InventoryAnswerTag))
	if p.InventoryAnswerTag == "" {
		p.InventoryAnswerTag = "you are carrying:"
	}

	for i := range p.Commands {
		p.Commands[i].Text = strings.ToLower(strings.TrimSpace(p.Commands[i].Text))
		if err := p.Commands[i].compile(reg); err != nil {
			return err
		}
	}

	p.Tuning = p.Tuning.withDefaults()
	p.resolved = true
	return nil
}

// Resolved reports whether Resolve has run.
func (p *Profile) Resolved() bool {
	return p.resolved
}

// SaveTurns reports whether a checkpoint should be captured every
// non-terminal turn.
func (p *Profile) SaveTurns() bool {
	return p.SaveEveryTurn == nil || *p.SaveEveryTurn
}

// InventoryTurns reports whether the inventory should be queried (and the
// query undone) every non-terminal turn.
func (p *Profile) InventoryTurns() bool {
	return p.InventoryEveryTurn == nil || *p.InventoryEveryTurn
}
