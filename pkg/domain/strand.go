package domain

import "strings"

// Strand is an ordered sequence of commands from the initial state: a path
// prefix through the game tree. Strands index the progress store.
type Strand []string

// Key returns the canonical string form of the strand: upper-cased commands
// joined by ". ", with a trailing period. The empty strand has the empty key.
//
// The trailing period makes prefix tests boundary-safe: "NORTH." is a prefix
// of "NORTH. WEST." but not of "NORTHWEST.". Command texts must therefore
// never contain a period; profile validation enforces that.
func (s Strand) Key() string {
	if len(s) == 0 {
		return ""
	}
	return strings.ToUpper(strings.Join(s, ". ")) + "."
}

// Moves returns the number of commands in the strand.
func (s Strand) Moves() int {
	return len(s)
}

// Child returns a new strand extending s by one command. The receiver is
// never aliased, so callers may retain the child across backtracking.
func (s Strand) Child(command string) Strand {
	child := make(Strand, len(s), len(s)+1)
	copy(child, s)
	return append(child, command)
}

// ParseStrandKey reverses Key. An empty key yields a nil strand.
func ParseStrandKey(key string) Strand {
	key = strings.TrimSuffix(key, ".")
	if key == "" {
		return nil
	}
	return Strand(strings.Split(key, ". "))
}

// KeyMoves returns the number of commands encoded in a canonical strand key
// without materializing the strand.
func KeyMoves(key string) int {
	return strings.Count(key, ".")
}

// IsStrictKeyPrefix reports whether short is a strict ancestor of long in
// canonical key form.
func IsStrictKeyPrefix(short, long string) bool {
	return short != long && strings.HasPrefix(long, short)
}
