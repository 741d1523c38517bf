package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/storyloom/pkg/story"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed includes the scene text in node labels instead of just
	// the key.
	Detailed bool
}

// ToDOT converts a story to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered with
// [RenderSVG].
//
// Every scene in the collection appears as a node, including scenes
// unreachable from the root. Choice edges are labeled with their choice
// text; a choice whose target has no scene produces a dashed grey
// placeholder node annotated "(MISSING)".
func ToDOT(st *story.Story, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph story {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	missing := map[string]bool{}
	for _, key := range st.Keys() {
		sc, _ := st.Scene(key)
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(sc, opts.Detailed))}
		if root := st.Root(); root != nil && root.Key() == key {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", key, strings.Join(attrs, ", "))

		for _, c := range sc.Choices() {
			if _, ok := st.Scene(c.Target); !ok {
				missing[c.Target] = true
			}
		}
	}

	for _, target := range slices.Sorted(maps.Keys(missing)) {
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n",
			target, target+"\n"+missingMark)
	}

	buf.WriteString("\n")
	for _, key := range st.Keys() {
		sc, _ := st.Scene(key)
		for _, c := range sc.Choices() {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", key, c.Target, edgeLabel(c.Label))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(sc *story.Scene, detailed bool) string {
	if !detailed {
		return sc.Key()
	}
	return sc.Key() + "\n" + truncate(sc.Text(), 40)
}

func edgeLabel(label string) string {
	return truncate(label, 30)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
