package game

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Predicate decides whether command should be tried from the state in snap.
// Predicates are pure: they consult the snapshot and nothing else, so the
// same predicate can be reused across commands and tested in isolation.
type Predicate func(snap domain.Snapshot, command string) bool

// PredicateSpec is the raw YAML form of a predicate: a name plus free-form
// parameters decoded by the predicate's builder.
type PredicateSpec struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}

// PredicateBuilder constructs a Predicate from decoded parameters.
type PredicateBuilder func(params map[string]any) (Predicate, error)

// Registry maps predicate names to builders. A Registry starts out loaded
// with the built-in predicates; callers may register their own.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]PredicateBuilder
}

// NewRegistry creates a registry preloaded with the built-in predicates.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]PredicateBuilder)}
	for name, b := range builtins() {
		r.Register(name, b)
	}
	return r
}

// Register adds a builder under name, overwriting any existing one.
func (r *Registry) Register(name string, b PredicateBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
}

// Build compiles one spec into a predicate.
func (r *Registry) Build(spec PredicateSpec) (Predicate, error) {
	r.mu.RLock()
	b, ok := r.builders[spec.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q", spec.Name)
	}
	pred, err := b(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("predicate %q: %w", spec.Name, err)
	}
	return pred, nil
}

// Command pairs a command text with the legality predicates that decide
// whether it is worth trying from the current state. The set of commands is
// fixed configuration per target game; the search engine tries them in
// declaration order.
type Command struct {
	Text string          `yaml:"text"`
	When []PredicateSpec `yaml:"when,omitempty"`

	predicates []Predicate
}

// Allowed reports whether every predicate permits the command from snap.
// A command with no predicates is always allowed.
func (c *Command) Allowed(snap domain.Snapshot) bool {
	for _, p := range c.predicates {
		if !p(snap, c.Text) {
			return false
		}
	}
	return true
}

// compile resolves When specs against reg and keeps any predicates already
// attached by a Builder.
func (c *Command) compile(reg *Registry) error {
	for _, spec := range c.When {
		pred, err := reg.Build(spec)
		if err != nil {
			return fmt.Errorf("command %q: %w", c.Text, err)
		}
		c.predicates = append(c.predicates, pred)
	}
	return nil
}

func decodeParams(params map[string]any, into any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
