package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// GenerateMermaid renders a progress table as a Mermaid flowchart of the
// explored command tree. Every prefix of every recorded strand becomes a
// node labelled with its final command; strands recorded as fully explored
// are highlighted. The output pastes straight into any Mermaid renderer.
func GenerateMermaid(p *domain.Progress) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    root((\"start\"))\n")

	if p == nil || len(p.Entries) == 0 {
		return sb.String()
	}

	keys := make([]string, 0, len(p.Entries))
	for key := range p.Entries {
		keys = append(keys, key)
	}
	// Sorted walk keeps node numbering stable across runs.
	sort.Strings(keys)

	ids := map[string]string{"": "root"}
	drawn := make(map[string]bool)
	for _, key := range keys {
		strand := domain.ParseStrandKey(key)
		for i := 1; i <= len(strand); i++ {
			childKey := strand[:i].Key()
			id, ok := ids[childKey]
			if !ok {
				id = fmt.Sprintf("s%d", len(ids))
				ids[childKey] = id
				// Escape double quotes so Mermaid labels stay parseable.
				label := strings.ReplaceAll(strand[i-1], "\"", "'")
				sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
			}
			parent := ids[strand[:i-1].Key()]
			edge := parent + "-->" + id
			if !drawn[edge] {
				drawn[edge] = true
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))
			}
		}
	}

	sb.WriteString("\n    %% Recorded strands: subtrees proven fully explored.\n")
	sb.WriteString("    classDef recorded fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("    class %s recorded;\n", ids[key]))
	}
	return sb.String()
}
