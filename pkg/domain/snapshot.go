package domain

import "strings"

// Snapshot is the read-only view of the current exploration state handed to
// legality predicates. Predicates consult it and nothing else, so they stay
// pure and testable in isolation.
type Snapshot struct {
	// Room is the current location in lower case, or "" when unknown.
	Room string
	// Inventory is the most recently observed inventory, one item per line.
	Inventory []string
	// Trail is the command sequence so far, oldest first, excluding the
	// game-start pseudo move.
	Trail Strand
}

// Depth returns the number of commands executed so far.
func (s Snapshot) Depth() int {
	return len(s.Trail)
}

// LastCommand returns the most recent command, or "" at the initial state.
func (s Snapshot) LastCommand() string {
	if len(s.Trail) == 0 {
		return ""
	}
	return s.Trail[len(s.Trail)-1]
}

// Has reports whether the inventory contains an item matching what,
// compared case-insensitively as a substring. Has("batt") matches
// "a battery" as well as "two batteries".
func (s Snapshot) Has(what string) bool {
	what = strings.ToLower(strings.TrimSpace(what))
	for _, item := range s.Inventory {
		if strings.Contains(strings.ToLower(item), what) {
			return true
		}
	}
	return false
}

// Uses counts how many times command already occurs in the trail,
// case-insensitively.
func (s Snapshot) Uses(command string) int {
	n := 0
	for _, c := range s.Trail {
		if strings.EqualFold(c, command) {
			n++
		}
	}
	return n
}
