package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/storyloom/pkg/story"
)

// missingMark annotates choices whose target has no scene.
const missingMark = "(MISSING)"

var (
	styleKey     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleRootKey = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	styleText    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleEdge    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

// TreeOptions configures terminal tree rendering.
type TreeOptions struct {
	// Plain disables lipgloss styling, producing bare text suitable
	// for piping or testing.
	Plain bool
	// MaxTextLen truncates scene text in the output; 0 uses a default
	// of 60 runes.
	MaxTextLen int
}

// Tree renders the story as an indented Unicode tree following the
// depth-first traversal from the root. Each scene line shows the key and
// a truncated preview of its text; beneath it every choice is listed
// with its label and target. Targets that do not resolve to a scene are
// annotated with "(MISSING)" - a presentation decision, the core itself
// skips them silently.
//
// Scenes reachable through several paths appear once, at their first
// DFS position; a repeated choice edge still shows the target key.
// Returns "" for an empty story.
func Tree(st *story.Story, opts TreeOptions) string {
	visits := st.ScenesDFS(nil)
	if len(visits) == 0 {
		return ""
	}
	if opts.MaxTextLen == 0 {
		opts.MaxTextLen = 60
	}

	var b strings.Builder
	for _, v := range visits {
		indent := strings.Repeat("  ", v.Depth)

		key := v.Key
		text := truncate(v.Scene.Text(), opts.MaxTextLen)
		if opts.Plain {
			fmt.Fprintf(&b, "%s%s: %s\n", indent, key, text)
		} else {
			ks := styleKey
			if v.Depth == 0 {
				ks = styleRootKey
			}
			fmt.Fprintf(&b, "%s%s: %s\n", indent, ks.Render(key), styleText.Render(text))
		}

		for _, c := range v.Scene.Choices() {
			_, resolved := st.Scene(c.Target)
			line := fmt.Sprintf("%s  └─ %s → %s", indent, truncate(c.Label, opts.MaxTextLen), c.Target)
			if !opts.Plain {
				line = styleEdge.Render(line)
			}
			b.WriteString(line)
			if !resolved {
				mark := missingMark
				if !opts.Plain {
					mark = styleMissing.Render(mark)
				}
				b.WriteString(" " + mark)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
