package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/selector"
)

// Overlay marks leaves of one selection run on the graph.
type Overlay struct {
	// Tried holds full leaf names that fell through.
	Tried []string
	// Answered is the full name of the leaf that broke, if any.
	Answered string
}

// GenerateMermaid produces a Mermaid flowchart of a leaf tree.
// Branches are drawn as hexagons and leaves as rectangles labelled with their
// try order. Dotted edges follow the order in which leaves are tried.
func GenerateMermaid(leaves []selector.Enumeration, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    root((\"root\"))\n")

	drawn := map[string]bool{}
	var order []string

	for i, e := range leaves {
		parent := "root"
		for depth := range e.PrefixLeafPaths {
			path := strings.Join(e.PrefixLeafPaths[:depth+1], branch.Separator)
			id := "b_" + sanitizeMermaidID(path)
			if !drawn[id] {
				drawn[id] = true
				fmt.Fprintf(&sb, "    %s{{\"%s\"}}\n", id, e.PrefixLeafPaths[depth])
				fmt.Fprintf(&sb, "    %s --> %s\n", parent, id)
			}
			parent = id
		}

		id := "l_" + sanitizeMermaidID(e.FullName())
		order = append(order, id)
		fmt.Fprintf(&sb, "    %s[\"%d. %s\"]\n", id, i+1, e.CurrentLeafName)
		fmt.Fprintf(&sb, "    %s --> %s\n", parent, id)
	}

	for i := 1; i < len(order); i++ {
		fmt.Fprintf(&sb, "    %s -. fallthrough .-> %s\n", order[i-1], order[i])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light and dark themes.
		sb.WriteString("    classDef tried fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef answered fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Tried {
			id := "l_" + sanitizeMermaidID(name)
			if !seen[id] && name != "" {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s tried;\n", id)
			}
		}
		if overlay.Answered != "" {
			fmt.Fprintf(&sb, "    class l_%s answered;\n", sanitizeMermaidID(overlay.Answered))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
