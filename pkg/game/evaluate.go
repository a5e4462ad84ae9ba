package game

import (
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Anomaly flags an output oddity noticed during classification: a line the
// evaluator recognized as important but could not interpret. The caller
// documents it; classification itself has already handled the text as best
// it could.
type Anomaly struct {
	Kind string // "asterisk_line" or "disambiguation"
	Line string
}

// asteriskSeparator is decorative output some games print between sections.
const asteriskSeparator = "*******"

// Evaluator classifies raw interpreter output into a domain.Frame using the
// profile's phrase tables. It is pure text analysis: checkpointing and
// inventory bookkeeping for non-terminal frames belong to the session.
type Evaluator struct {
	profile *Profile
}

// NewEvaluator wraps a resolved profile.
func NewEvaluator(p *Profile) *Evaluator {
	return &Evaluator{profile: p}
}

// Evaluate classifies the output of command at the given 1-based turn.
// Rules apply in strict order, first match wins: failure phrases, success
// phrases, disambiguation and mistake phrases (as a prefix or suffix of any
// single line), then room detection and extractors for moves that continue.
// Asterisk-marked lines that are not a recognized banner are returned as
// anomalies so unhandled end-game text never silently corrupts the search.
func (e *Evaluator) Evaluate(command, output string, turn int) (domain.Frame, []Anomaly) {
	frame := domain.Frame{
		Command: command,
		Output:  output,
		Outcome: domain.OutcomeContinuing,
		Turn:    turn,
	}

	lines := strings.Split(output, "\n")
	lower := strings.ToLower(output)

	for _, m := range e.profile.Phrases.Failure {
		if strings.Contains(lower, m) {
			frame.Outcome = domain.OutcomeFailure
			return frame, nil
		}
	}
	for _, m := range e.profile.Phrases.Success {
		if strings.Contains(lower, m) {
			frame.Outcome = domain.OutcomeSuccess
			return frame, nil
		}
	}

	var anomalies []Anomaly
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "**") && l != asteriskSeparator {
			anomalies = append(anomalies, Anomaly{Kind: "asterisk_line", Line: l})
		}
	}

	for _, raw := range lines {
		l := strings.ToLower(strings.TrimSpace(raw))
		for _, m := range e.profile.Phrases.Disambiguation {
			if strings.HasPrefix(l, m) || strings.HasSuffix(l, m) {
				frame.Outcome = domain.OutcomeMistake
				return frame, append(anomalies, Anomaly{Kind: "disambiguation", Line: strings.TrimSpace(raw)})
			}
		}
		for _, m := range e.profile.Phrases.Mistake {
			if strings.HasPrefix(l, m) || strings.HasSuffix(l, m) {
				frame.Outcome = domain.OutcomeMistake
				return frame, anomalies
			}
		}
	}

	frame.Room = e.findRoom(lines)
	frame.Extras = e.extract(lines)
	return frame, anomalies
}

// ParseInventory extracts the item list from the response to an INVENTORY
// command: the answer-tag line, room-name lines and blank or
// punctuation-only lines are dropped; whatever survives is one item per
// line. An empty result means the answer tag never showed up, which the
// caller documents as a problem.
func (e *Evaluator) ParseInventory(text string) []string {
	var items []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if strings.TrimSpace(strings.Trim(line, ".")) == "" {
			continue
		}
		lower := strings.ToLower(strings.TrimLeft(line, "> \t"))
		if strings.HasPrefix(lower, e.profile.InventoryAnswerTag) {
			continue
		}
		if e.roomPrefix(lower) != "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// findRoom returns the first known room name appearing as a prefix of an
// output line, in table order, or "".
func (e *Evaluator) findRoom(lines []string) string {
	for _, raw := range lines {
		l := strings.ToLower(strings.TrimSpace(raw))
		if l == "" {
			continue
		}
		if room := e.roomPrefix(l); room != "" {
			return room
		}
	}
	return ""
}

func (e *Evaluator) roomPrefix(lowerLine string) string {
	for _, room := range e.profile.Rooms {
		if strings.HasPrefix(lowerLine, room) {
			return room
		}
	}
	return ""
}

// extract runs the profile's extractors; for each, the last matching line
// wins.
func (e *Evaluator) extract(lines []string) map[string]string {
	if len(e.profile.Extractors) == 0 {
		return nil
	}
	extras := make(map[string]string)
	for _, ex := range e.profile.Extractors {
		for _, raw := range lines {
			if i := strings.LastIndex(raw, ex.Marker); i >= 0 {
				extras[ex.Field] = strings.TrimSpace(raw[i:])
			}
		}
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}
