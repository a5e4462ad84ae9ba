package graph_test

import (
	"strings"
	"testing"

	"github.com/patrick-brian-mooney/IF-utils/internal/presentation/graph"
	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

func table(keys ...string) *domain.Progress {
	p := domain.NewProgress()
	for _, k := range keys {
		p.Entries[k] = domain.StrandStats{}
	}
	return p
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		progress *domain.Progress
		contains []string
	}{
		{
			name:     "empty table still has a root",
			progress: domain.NewProgress(),
			contains: []string{
				"graph TD",
				"root((\"start\"))",
			},
		},
		{
			name:     "sibling strands share their parent",
			progress: table("GO. LOOK.", "GO. WAIT."),
			contains: []string{
				"s1[\"GO\"]",
				"s2[\"LOOK\"]",
				"s3[\"WAIT\"]",
				"root --> s1",
				"s1 --> s2",
				"s1 --> s3",
				"class s2 recorded;",
				"class s3 recorded;",
			},
		},
		{
			name:     "recorded interior nodes are styled too",
			progress: table("NORTH.", "NORTH. EAST."),
			contains: []string{
				"s1[\"NORTH\"]",
				"s2[\"EAST\"]",
				"class s1 recorded;",
				"class s2 recorded;",
			},
		},
		{
			name:     "quotes in commands become apostrophes",
			progress: table(`SAY "XYZZY".`),
			contains: []string{
				`s1["SAY 'XYZZY'"]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.progress)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nwant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaidDrawsEachEdgeOnce(t *testing.T) {
	got := graph.GenerateMermaid(table("GO. LOOK.", "GO. WAIT."))
	if n := strings.Count(got, "root --> s1"); n != 1 {
		t.Errorf("root edge drawn %d times, want once:\n%v", n, got)
	}
}
