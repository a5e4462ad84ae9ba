package game

// Builder constructs a Profile programmatically, mostly for tests and for
// games whose command sets are generated rather than written by hand.
type Builder struct {
	profile Profile
}

// NewBuilder starts a profile with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{profile: Profile{Name: name}}
}

// Interpreter sets the interpreter binary and its flags.
func (b *Builder) Interpreter(path string, args ...string) *Builder {
	b.profile.Interpreter = path
	b.profile.InterpreterArgs = args
	return b
}

// Story sets the story file the interpreter plays.
func (b *Builder) Story(path string) *Builder {
	b.profile.StoryFile = path
	return b
}

// Rooms appends known room names.
func (b *Builder) Rooms(rooms ...string) *Builder {
	b.profile.Rooms = append(b.profile.Rooms, rooms...)
	return b
}

// Phrases merges extra phrase tables into the profile.
func (b *Builder) Phrases(p Phrases) *Builder {
	b.profile.Phrases = b.profile.Phrases.Merge(p)
	return b
}

// NoDefaults drops the generic interpreter phrase tables; the profile
// supplies everything itself.
func (b *Builder) NoDefaults() *Builder {
	b.profile.NoDefaultPhrases = true
	return b
}

// Command appends a command with optional pre-compiled predicates.
func (b *Builder) Command(text string, preds ...Predicate) *Builder {
	b.profile.Commands = append(b.profile.Commands, Command{
		Text:       text,
		predicates: preds,
	})
	return b
}

// Extractor appends a scalar extractor.
func (b *Builder) Extractor(field, marker string) *Builder {
	b.profile.Extractors = append(b.profile.Extractors, Extractor{Field: field, Marker: marker})
	return b
}

// InventoryTag sets the inventory answer header line.
func (b *Builder) InventoryTag(tag string) *Builder {
	b.profile.InventoryAnswerTag = tag
	return b
}

// Saving toggles per-turn checkpointing.
func (b *Builder) Saving(on bool) *Builder {
	b.profile.SaveEveryTurn = &on
	return b
}

// InventoryTracking toggles per-turn inventory queries.
func (b *Builder) InventoryTracking(on bool) *Builder {
	b.profile.InventoryEveryTurn = &on
	return b
}

// Transcript asks the interpreter to keep its own transcript file.
func (b *Builder) Transcript(on bool) *Builder {
	b.profile.Transcript = on
	return b
}

// Tuning replaces the tuning knobs; zero fields keep their defaults.
func (b *Builder) Tuning(t Tuning) *Builder {
	b.profile.Tuning = t
	return b
}

// Build resolves and returns the profile.
func (b *Builder) Build() (*Profile, error) {
	p := b.profile
	if err := p.Resolve(nil); err != nil {
		return nil, err
	}
	return &p, nil
}
