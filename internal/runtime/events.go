package runtime

import "github.com/patrick-brian-mooney/IF-utils/pkg/domain"

// Event emitters. Each fires only when a hook is installed, so a bare
// engine pays nothing for observability it does not use.

func (e *Engine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.clock(), Type: t}
}

func (e *Engine) emitNode(strand domain.Strand, depth int, room string, pruned bool) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(&domain.NodeEvent{
		EventBase: e.eventBase(domain.EventNodeEnter),
		Strand:    strand,
		Depth:     depth,
		Room:      room,
		Pruned:    pruned,
	})
}

func (e *Engine) emitCommand(command string, outcome domain.Outcome, depth int, errored bool) {
	if e.hooks.OnCommandTried == nil {
		return
	}
	e.hooks.OnCommandTried(&domain.CommandEvent{
		EventBase: e.eventBase(domain.EventCommandTried),
		Command:   command,
		Outcome:   outcome,
		Depth:     depth,
		Errored:   errored,
	})
}

func (e *Engine) emitRewind(command string, depth int, restored bool) {
	if e.hooks.OnRewind == nil {
		return
	}
	e.hooks.OnRewind(&domain.RewindEvent{
		EventBase: e.eventBase(domain.EventRewind),
		Command:   command,
		Depth:     depth,
		Restored:  restored,
	})
}

func (e *Engine) emitSolution(number int, walkthrough, artifact string) {
	if e.hooks.OnSolutionFound == nil {
		return
	}
	e.hooks.OnSolutionFound(&domain.SolutionEvent{
		EventBase:   e.eventBase(domain.EventSolutionFound),
		Number:      number,
		Walkthrough: walkthrough,
		Artifact:    artifact,
	})
}

func (e *Engine) emitStore(key string, entries int) {
	if e.hooks.OnStrandRecorded == nil {
		return
	}
	e.hooks.OnStrandRecorded(&domain.StoreEvent{
		EventBase: e.eventBase(domain.EventStrandRecorded),
		Key:       key,
		Entries:   entries,
	})
}

func (e *Engine) emitProblem(kind, report string) {
	if e.hooks.OnProblem == nil {
		return
	}
	e.hooks.OnProblem(&domain.ProblemEvent{
		EventBase: e.eventBase(domain.EventProblem),
		Kind:      kind,
		Report:    report,
	})
}

func (e *Engine) emitRunFinished(report domain.Report) {
	if e.hooks.OnRunFinished == nil {
		return
	}
	e.hooks.OnRunFinished(&domain.RunEvent{
		EventBase: e.eventBase(domain.EventRunFinished),
		Report:    report,
	})
}
