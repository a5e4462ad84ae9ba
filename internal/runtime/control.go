package runtime

import (
	"sync/atomic"
	"time"
)

// Verbosity bounds. Level 0 is silent except for solutions and problems,
// level 4 echoes every command and its full output.
const (
	MinVerbosity = 0
	MaxVerbosity = 4
)

// Control is the operator surface of a running engine. Every method only
// sets or reads a flag; the search loop polls the flags between moves, so
// no request ever interrupts a command that is already in flight.
type Control struct {
	stop      atomic.Bool
	saveSoon  atomic.Bool
	verbosity atomic.Int32

	status atomic.Pointer[func() Status]
}

// NewControl returns a handle with the given initial verbosity.
func NewControl(verbosity int) *Control {
	c := &Control{}
	c.verbosity.Store(int32(clampVerbosity(verbosity)))
	return c
}

// Stop asks the engine to finish the move in progress, persist what it
// knows and return. It cannot be taken back.
func (c *Control) Stop() { c.stop.Store(true) }

// Stopped reports whether a stop has been requested.
func (c *Control) Stopped() bool { return c.stop.Load() }

// SaveSoon asks the engine to persist its progress table at the next node
// boundary, regardless of the save interval.
func (c *Control) SaveSoon() { c.saveSoon.Store(true) }

// consumeSave claims a pending save request. Only one caller wins.
func (c *Control) consumeSave() bool { return c.saveSoon.CompareAndSwap(true, false) }

// MoreVerbose raises the chatter level by one and returns the new level.
func (c *Control) MoreVerbose() int { return c.adjustVerbosity(1) }

// LessVerbose lowers the chatter level by one and returns the new level.
func (c *Control) LessVerbose() int { return c.adjustVerbosity(-1) }

// Verbosity returns the current chatter level.
func (c *Control) Verbosity() int { return int(c.verbosity.Load()) }

func (c *Control) adjustVerbosity(delta int) int {
	for {
		old := c.verbosity.Load()
		next := int32(clampVerbosity(int(old) + delta))
		if c.verbosity.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func clampVerbosity(v int) int {
	if v < MinVerbosity {
		return MinVerbosity
	}
	if v > MaxVerbosity {
		return MaxVerbosity
	}
	return v
}

// StatusSnapshot returns the engine's view of the run at this instant.
// Before the engine has started, or after it has been torn down, the
// zero Status is returned.
func (c *Control) StatusSnapshot() Status {
	if fn := c.status.Load(); fn != nil {
		return (*fn)()
	}
	return Status{}
}

func (c *Control) bind(fn func() Status) { c.status.Store(&fn) }

// Status is a point-in-time picture of a run, assembled without pausing
// the search.
type Status struct {
	Running        bool      `json:"running"`
	Started        time.Time `json:"started"`
	Paths          int64     `json:"paths"`
	DeadEnds       int64     `json:"dead_ends"`
	Successes      int64     `json:"successes"`
	Pruned         int64     `json:"pruned"`
	TotalMoves     int64     `json:"total_moves"`
	Restores       int64     `json:"restores"`
	Problems       int64     `json:"problems"`
	Depth          int       `json:"depth"`
	Room           string    `json:"room"`
	Strand         string    `json:"strand"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Verbosity      int       `json:"verbosity"`
}
