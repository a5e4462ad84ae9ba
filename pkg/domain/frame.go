package domain

// Outcome classifies the interpreter's response to a single command.
type Outcome string

const (
	// OutcomeContinuing means the game accepted the move and play goes on.
	OutcomeContinuing Outcome = "continuing"
	// OutcomeMistake means the game rejected the move (parser error,
	// disambiguation question, locked door). The move changed nothing.
	OutcomeMistake Outcome = "mistake"
	// OutcomeFailure means the move ended the game in a losing state.
	OutcomeFailure Outcome = "failure"
	// OutcomeSuccess means the move ended the game in a winning state.
	OutcomeSuccess Outcome = "success"
)

// Terminal reports whether the outcome ends this branch of the search.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinuing
}

// DeadEnd reports whether the outcome terminates the branch without winning.
func (o Outcome) DeadEnd() bool {
	return o == OutcomeMistake || o == OutcomeFailure
}

// Frame records the result of executing one command. It is created once by
// the context evaluator, immediately after the command runs, and is immutable
// thereafter.
//
// Room, Inventory and Extras are sparse: a zero value means "not observed
// this turn, inherit from an ancestor frame". The history stack performs that
// inheritance; a Frame on its own only knows what its output revealed.
type Frame struct {
	// Command is the text sent to the interpreter. The bottom frame of a
	// history (the freshly started game) has an empty Command.
	Command string `json:"command"`
	// Output is the raw response text, prompt marker already stripped.
	Output  string  `json:"output"`
	Outcome Outcome `json:"outcome"`
	// Turn is the 1-based turn index in play order.
	Turn int `json:"turn"`

	Room      string   `json:"room,omitempty"`
	Inventory []string `json:"inventory,omitempty"`
	// Extras holds profile-configured scalars scraped from the output,
	// such as a clock time or a score.
	Extras map[string]string `json:"extras,omitempty"`

	// Checkpoint is the save file captured for this frame. Set exactly when
	// the outcome is non-terminal and per-turn saving is enabled; deleted
	// when the frame is popped from the history.
	Checkpoint string `json:"checkpoint,omitempty"`
}

// HasCheckpoint reports whether a save file was captured for this frame.
func (f Frame) HasCheckpoint() bool {
	return f.Checkpoint != ""
}
