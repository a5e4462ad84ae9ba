package ports

// Reporter documents problem situations the run should survive: missing
// output, failed saves, unparseable responses. Documenting a problem is
// advisory; it can never fail the run, so implementations must be safe for
// concurrent use and must not panic.
type Reporter interface {
	// Report documents one problem of the given type together with its
	// context data. It returns the path of the written report file, or ""
	// when the implementation keeps no files.
	Report(problemType string, data map[string]any) string
}

type nopReporter struct{}

func (nopReporter) Report(string, map[string]any) string { return "" }

// NopReporter returns a Reporter that discards everything. Components that
// take a Reporter default to it.
func NopReporter() Reporter { return nopReporter{} }
