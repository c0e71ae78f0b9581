// Package outline renders a document's heading hierarchy as a diagram.
//
// # Usage
//
// Build the heading tree, convert it to DOT, then render to SVG:
//
//	tree := outline.Build(doc)
//	dot := outline.ToDOT(tree, outline.Options{Theme: &theme})
//	svg, err := outline.RenderSVG(ctx, dot)
//
// Headings hang under the nearest preceding heading of a lower level; a
// skipped level still nests under its closest ancestor, so a level-3 heading
// directly after a level-1 heading becomes its child and is drawn with a
// dashed edge.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package outline
