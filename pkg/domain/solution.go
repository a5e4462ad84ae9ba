package domain

import (
	"strings"
	"time"
)

// Solution is one discovered winning path: every frame from game start
// through the winning move, in play order.
type Solution struct {
	Found          time.Time `json:"found"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Frames         []Frame   `json:"frames"`
}

// Strand returns the command sequence of the solution, excluding the
// game-start frame.
func (s Solution) Strand() Strand {
	var out Strand
	for _, f := range s.Frames {
		if f.Command != "" {
			out = append(out, f.Command)
		}
	}
	return out
}

// Walkthrough returns the terse one-line form of the solution, the same
// canonical shape used for strand keys.
func (s Solution) Walkthrough() string {
	return s.Strand().Key()
}

// Transcript reconstructs a readable play transcript from the frames. This
// is a reconstruction from recorded output, not the interpreter's own
// transcript file, but it should be a close one.
func (s Solution) Transcript() string {
	return Transcript(s.Frames)
}

// Transcript renders frames as a readable play transcript: each command in
// upper case behind a prompt marker, followed by the output it produced. The
// game-start frame contributes its output alone.
func Transcript(frames []Frame) string {
	blocks := make([]string, 0, len(frames))
	for _, f := range frames {
		if f.Command == "" {
			blocks = append(blocks, f.Output)
			continue
		}
		blocks = append(blocks, "> "+strings.ToUpper(f.Command)+"\n\n"+f.Output)
	}
	return strings.Join(blocks, "\n\n")
}
