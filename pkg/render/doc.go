// Package render turns a narrative graph into human-readable depictions.
//
// Two output families are supported:
//
//   - [Tree] renders an indented Unicode tree of the depth-first
//     traversal, styled with lipgloss, for terminal display.
//   - [ToDOT] emits Graphviz DOT for node-link diagrams, and [RenderSVG]
//     rasterizes DOT to SVG via the goccy/go-graphviz bindings.
//
// The core never labels unresolved choice targets; this package is the
// layer that decides how to depict them. Tree and DOT output both mark a
// choice whose target has no scene with a "(MISSING)" annotation.
package render
