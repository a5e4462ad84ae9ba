package domain

// StrandStats is the cumulative run statistics captured at the moment a
// strand was recorded as fully explored. Counters are totals for the whole
// run up to that point, not per-strand figures, which is what makes the
// max-reconstruction in Totals work.
type StrandStats struct {
	DeadEnds       int64   `json:"dead_ends"`
	Successes      int64   `json:"successes"`
	TotalMoves     int64   `json:"total_moves"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Progress is the in-memory table of fully explored strands, keyed by
// canonical strand key. It carries the pure bookkeeping shared by every
// store adapter: prune lookup, redundancy compaction, and totals
// reconstruction. Adapters add persistence around it.
type Progress struct {
	Entries map[string]StrandStats `json:"entries"`
}

// NewProgress returns an empty table.
func NewProgress() *Progress {
	return &Progress{Entries: make(map[string]StrandStats)}
}

// Covered reports whether the strand, or any ancestor prefix of at least
// floor moves, is recorded as fully explored. The search engine calls this
// at node entry to skip work finished in a previous run.
func (p *Progress) Covered(s Strand, floor int) bool {
	if floor < 1 {
		floor = 1
	}
	for i := floor; i <= len(s); i++ {
		if _, ok := p.Entries[s[:i].Key()]; ok {
			return true
		}
	}
	return false
}

// Redundant reports whether key no longer needs to be stored because a
// shorter recorded strand is a strict prefix of it. Strands of at most
// retain moves are never redundant, so the table keeps a frontier of
// coarse entries (and their timing data) even after compaction.
func (p *Progress) Redundant(key string, retain int) bool {
	if KeyMoves(key) <= retain {
		return false
	}
	for other := range p.Entries {
		if IsStrictKeyPrefix(other, key) {
			return true
		}
	}
	return false
}

// Compact removes every entry rendered redundant by another entry and
// returns how many were dropped.
func (p *Progress) Compact(retain int) int {
	var doomed []string
	for key := range p.Entries {
		if p.Redundant(key, retain) {
			doomed = append(doomed, key)
		}
	}
	for _, key := range doomed {
		delete(p.Entries, key)
	}
	return len(doomed)
}

// Record inserts or overwrites the entry for s and compacts the table.
func (p *Progress) Record(s Strand, stats StrandStats, retain int) {
	p.Entries[s.Key()] = stats
	p.Compact(retain)
}

// Totals reconstructs the cumulative run counters from the table: each
// counter is the maximum seen across all entries. An empty table yields
// zeroes.
func (p *Progress) Totals() StrandStats {
	var t StrandStats
	for _, st := range p.Entries {
		t.DeadEnds = max(t.DeadEnds, st.DeadEnds)
		t.Successes = max(t.Successes, st.Successes)
		t.TotalMoves = max(t.TotalMoves, st.TotalMoves)
		if st.ElapsedSeconds > t.ElapsedSeconds {
			t.ElapsedSeconds = st.ElapsedSeconds
		}
	}
	return t
}

// Clone returns a deep copy of the table.
func (p *Progress) Clone() *Progress {
	out := NewProgress()
	for k, v := range p.Entries {
		out.Entries[k] = v
	}
	return out
}
