package tui

import (
	"fmt"
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// SolutionMarkdown lays out a solution as a markdown document: headline,
// one-line walkthrough, then the reconstructed transcript. Feed the result
// through NewRenderer for terminal display.
func SolutionMarkdown(s domain.Solution) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Winning path: %d moves\n\n", s.Strand().Moves())
	if !s.Found.IsZero() {
		fmt.Fprintf(&b, "Found %s after %.1fs of exploration.\n\n",
			s.Found.Format("2006-01-02 15:04:05"), s.ElapsedSeconds)
	}

	b.WriteString("## Walkthrough\n\n")
	fmt.Fprintf(&b, "> %s\n\n", s.Walkthrough())

	b.WriteString("## Transcript\n\n")
	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(s.Transcript(), "\n"))
	b.WriteString("\n```\n")
	return b.String()
}
