package domain

import "time"

// EventType defines the category of an exploration event.
type EventType string

const (
	EventNodeEnter      EventType = "node_enter"
	EventCommandTried   EventType = "command_tried"
	EventRewind         EventType = "rewind"
	EventSolutionFound  EventType = "solution_found"
	EventStrandRecorded EventType = "strand_recorded"
	EventProblem        EventType = "problem"
	EventRunFinished    EventType = "run_finished"
)

// EventBase contains fields common to all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent fires when the engine enters a search node.
type NodeEvent struct {
	EventBase
	Strand Strand `json:"strand"`
	Depth  int    `json:"depth"`
	Room   string `json:"room,omitempty"`
	Pruned bool   `json:"pruned,omitempty"`
}

// CommandEvent fires after one command has been tried and classified.
type CommandEvent struct {
	EventBase
	Command string  `json:"command"`
	Outcome Outcome `json:"outcome"`
	Depth   int     `json:"depth"`
	// Errored is set when the attempt failed for an internal reason and
	// was converted into a dead end.
	Errored bool `json:"errored,omitempty"`
}

// RewindEvent fires after a tried command has been unwound back to its
// parent node.
type RewindEvent struct {
	EventBase
	Command string `json:"command"`
	Depth   int    `json:"depth"`
	// Restored is set when undo was refused and the parent checkpoint
	// was restored instead.
	Restored bool `json:"restored,omitempty"`
}

// SolutionEvent fires when a winning path is recorded.
type SolutionEvent struct {
	EventBase
	Number      int    `json:"number"`
	Walkthrough string `json:"walkthrough"`
	Artifact    string `json:"artifact,omitempty"`
}

// StoreEvent fires when a strand is recorded and the table persisted.
type StoreEvent struct {
	EventBase
	Key     string `json:"key"`
	Entries int    `json:"entries"`
}

// ProblemEvent fires when a diagnosable anomaly is documented.
type ProblemEvent struct {
	EventBase
	Kind   string `json:"kind"`
	Report string `json:"report,omitempty"`
}

// RunEvent fires once when the exploration finishes.
type RunEvent struct {
	EventBase
	Report Report `json:"report"`
}

// Report summarizes one exploration run.
type Report struct {
	DeadEnds       int64   `json:"dead_ends"`
	Successes      int64   `json:"successes"`
	TotalMoves     int64   `json:"total_moves"`
	Pruned         int64   `json:"pruned"`
	Problems       int64   `json:"problems"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Paths returns the number of complete paths explored so far.
func (r Report) Paths() int64 {
	return r.DeadEnds + r.Successes
}

// LifecycleHooks defines callbacks for engine observability. Hooks must be
// fast and must not block; the engine calls them inline between moves.
type LifecycleHooks struct {
	OnNodeEnter      func(*NodeEvent)
	OnCommandTried   func(*CommandEvent)
	OnRewind         func(*RewindEvent)
	OnSolutionFound  func(*SolutionEvent)
	OnStrandRecorded func(*StoreEvent)
	OnProblem        func(*ProblemEvent)
	OnRunFinished    func(*RunEvent)
}

// Merge combines two hook sets; both callbacks fire, h's first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:      chain(h.OnNodeEnter, other.OnNodeEnter),
		OnCommandTried:   chain(h.OnCommandTried, other.OnCommandTried),
		OnRewind:         chain(h.OnRewind, other.OnRewind),
		OnSolutionFound:  chain(h.OnSolutionFound, other.OnSolutionFound),
		OnStrandRecorded: chain(h.OnStrandRecorded, other.OnStrandRecorded),
		OnProblem:        chain(h.OnProblem, other.OnProblem),
		OnRunFinished:    chain(h.OnRunFinished, other.OnRunFinished),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return func(e *E) {
			a(e)
			b(e)
		}
	}
}
