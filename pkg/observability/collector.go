package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Collector aggregates lifecycle events into a live picture of a run. It is
// the read model behind the status server: the engine publishes through the
// hooks, HTTP handlers and signal dumps read snapshots, and neither side
// ever touches the other directly.
//
// While a run is in flight the counters are deltas observed through the
// event stream; once the run finishes, the engine's own final report is
// authoritative and replaces them. Problems are counted through
// ProblemObserver rather than a hook, because problem reports come from
// every layer (driver, session, engine), not just the engine.
//
// Safe for concurrent use.
type Collector struct {
	clock   func() time.Time
	metrics *runMetrics

	mu        sync.Mutex
	started   time.Time
	finished  bool
	final     domain.Report
	solutions []SolutionRecord
	problems  map[string]int64

	nodes     int64
	pruned    int64
	deadEnds  int64
	successes int64
	moves     int64
	rewinds   int64
	restores  int64
	recorded  int64
	entries   int
	depth     int
	room      string
	strand    string
}

// SolutionRecord is one winning path as seen through the event stream.
type SolutionRecord struct {
	Number      int       `json:"number"`
	Found       time.Time `json:"found"`
	Walkthrough string    `json:"walkthrough"`
	Artifact    string    `json:"artifact,omitempty"`
}

// Snapshot is a point-in-time view of the collected run state.
type Snapshot struct {
	Running        bool      `json:"running"`
	Started        time.Time `json:"started"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`

	Nodes      int64 `json:"nodes"`
	Pruned     int64 `json:"pruned"`
	DeadEnds   int64 `json:"dead_ends"`
	Successes  int64 `json:"successes"`
	Paths      int64 `json:"paths"`
	TotalMoves int64 `json:"total_moves"`
	Rewinds    int64 `json:"rewinds"`
	Restores   int64 `json:"restores"`

	Depth  int    `json:"depth"`
	Room   string `json:"room,omitempty"`
	Strand string `json:"strand,omitempty"`

	Solutions       int              `json:"solutions"`
	StrandsRecorded int64            `json:"strands_recorded"`
	StoreEntries    int              `json:"store_entries"`
	Problems        int64            `json:"problems"`
	ProblemKinds    map[string]int64 `json:"problem_kinds,omitempty"`
}

// Option configures a Collector.
type Option func(*Collector)

// WithRegisterer publishes run metrics through reg. Without this option the
// collector keeps no Prometheus state at all.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Collector) {
		if reg != nil {
			c.metrics = newRunMetrics(reg, c.elapsedSeconds)
		}
	}
}

// WithClock overrides the time source used for live elapsed readings.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.clock = now
		}
	}
}

// NewCollector returns an empty collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		clock:    time.Now,
		problems: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hooks returns the lifecycle hooks that feed this collector. Merge them
// with any other hooks the caller wants on the same engine.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter:      c.onNode,
		OnCommandTried:   c.onCommand,
		OnRewind:         c.onRewind,
		OnSolutionFound:  c.onSolution,
		OnStrandRecorded: c.onStore,
		OnRunFinished:    c.onFinished,
	}
}

// ProblemObserver returns the callback to hang on the problem recorder, so
// every documented problem is counted no matter which layer filed it.
func (c *Collector) ProblemObserver() func(kind, path string) {
	return func(kind, _ string) {
		c.mu.Lock()
		c.problems[kind]++
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.problems.WithLabelValues(kind).Inc()
		}
	}
}

// Snapshot returns the current view of the run.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Started:         c.started,
		Nodes:           c.nodes,
		Pruned:          c.pruned,
		DeadEnds:        c.deadEnds,
		Successes:       c.successes,
		TotalMoves:      c.moves,
		Rewinds:         c.rewinds,
		Restores:        c.restores,
		Depth:           c.depth,
		Room:            c.room,
		Strand:          c.strand,
		Solutions:       len(c.solutions),
		StrandsRecorded: c.recorded,
		StoreEntries:    c.entries,
	}
	for kind, n := range c.problems {
		s.Problems += n
		if s.ProblemKinds == nil {
			s.ProblemKinds = make(map[string]int64, len(c.problems))
		}
		s.ProblemKinds[kind] = n
	}

	switch {
	case c.finished:
		s.DeadEnds = c.final.DeadEnds
		s.Successes = c.final.Successes
		s.TotalMoves = c.final.TotalMoves
		s.Pruned = c.final.Pruned
		s.Problems = c.final.Problems
		s.ElapsedSeconds = c.final.ElapsedSeconds
	case !c.started.IsZero():
		s.Running = true
		s.ElapsedSeconds = c.clock().Sub(c.started).Seconds()
	}
	s.Paths = s.DeadEnds + s.Successes
	return s
}

// elapsedSeconds feeds the run_elapsed_seconds gauge. Scrapes during the
// run read the live clock; after the finish event the engine's figure wins.
func (c *Collector) elapsedSeconds() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.finished:
		return c.final.ElapsedSeconds
	case !c.started.IsZero():
		return c.clock().Sub(c.started).Seconds()
	default:
		return 0
	}
}

// Solutions returns the winning paths seen so far, in discovery order.
func (c *Collector) Solutions() []SolutionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SolutionRecord(nil), c.solutions...)
}

func (c *Collector) onNode(ev *domain.NodeEvent) {
	c.mu.Lock()
	if c.started.IsZero() {
		c.started = ev.Timestamp
		if c.metrics != nil {
			c.metrics.running.Set(1)
		}
	}
	c.nodes++
	if ev.Pruned {
		c.pruned++
	} else {
		c.depth = ev.Depth
		c.room = ev.Room
		c.strand = ev.Strand.Key()
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.nodes.Inc()
		if ev.Pruned {
			c.metrics.prunes.Inc()
		} else {
			c.metrics.depth.Set(float64(ev.Depth))
		}
	}
}

func (c *Collector) onCommand(ev *domain.CommandEvent) {
	c.mu.Lock()
	if !ev.Errored {
		c.moves++
	}
	switch {
	case ev.Outcome == domain.OutcomeSuccess:
		c.successes++
	case ev.Outcome.DeadEnd():
		c.deadEnds++
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.commands.WithLabelValues(string(ev.Outcome)).Inc()
	}
}

func (c *Collector) onRewind(ev *domain.RewindEvent) {
	c.mu.Lock()
	c.rewinds++
	if ev.Restored {
		c.restores++
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.rewinds.Inc()
		if ev.Restored {
			c.metrics.restores.Inc()
		}
	}
}

func (c *Collector) onSolution(ev *domain.SolutionEvent) {
	c.mu.Lock()
	c.solutions = append(c.solutions, SolutionRecord{
		Number:      ev.Number,
		Found:       ev.Timestamp,
		Walkthrough: ev.Walkthrough,
		Artifact:    ev.Artifact,
	})
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.solutions.Inc()
	}
}

func (c *Collector) onStore(ev *domain.StoreEvent) {
	c.mu.Lock()
	// Interval saves carry no key; only genuine records count.
	if ev.Key != "" {
		c.recorded++
	}
	c.entries = ev.Entries
	c.mu.Unlock()

	if c.metrics != nil {
		if ev.Key != "" {
			c.metrics.strands.Inc()
		}
		c.metrics.entries.Set(float64(ev.Entries))
	}
}

func (c *Collector) onFinished(ev *domain.RunEvent) {
	c.mu.Lock()
	c.finished = true
	c.final = ev.Report
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.running.Set(0)
	}
}
