package outline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/document"
)

// maxLabel truncates long heading text in node labels.
const maxLabel = 48

// Node is a heading in the outline tree. The root has level 0.
type Node struct {
	Level    int
	Text     string
	Children []*Node
}

// Count returns the number of headings below n.
func (n *Node) Count() int {
	c := 0
	for _, ch := range n.Children {
		c += 1 + ch.Count()
	}
	return c
}

// Build returns the heading tree of doc. The root is labeled with the
// document title when there is one.
func Build(doc *document.Document) *Node {
	root := &Node{Text: "Document"}
	stack := []*Node{root}

	for _, p := range doc.Paragraphs() {
		switch p.Role {
		case document.RoleTitle:
			if root.Text == "Document" && !p.IsEmpty() {
				root.Text = strings.TrimSpace(p.Text())
			}
		case document.RoleHeading:
			if p.Level < 1 || p.IsEmpty() {
				continue
			}
			n := &Node{Level: p.Level, Text: strings.TrimSpace(p.Text())}
			for len(stack) > 1 && stack[len(stack)-1].Level >= n.Level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		}
	}
	return root
}

// Options configures diagram generation.
type Options struct {
	// Theme colors the diagram with a brand's palette when set.
	Theme *brand.Theme
}

// ToDOT converts an outline tree to Graphviz DOT format.
func ToDOT(root *Node, opts Options) string {
	fill, font, edge := "white", "black", "gray40"
	if t := opts.Theme; t != nil {
		if c, err := brand.ParseHex(t.Colors.Accent); err == nil {
			fill = c.Tint(0.85).String()
			edge = c.String()
		}
		if c, err := brand.ParseHex(t.Colors.TextPrimary); err == nil {
			font = c.String()
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph outline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, fontcolor=%q, fontsize=14, margin=\"0.2,0.1\"];\n", fill, font)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", edge)
	buf.WriteString("\n")

	id := 0
	var walk func(n *Node, name string)
	walk = func(n *Node, name string) {
		for _, ch := range n.Children {
			id++
			child := fmt.Sprintf("h%d", id)
			fmt.Fprintf(&buf, "  %s [label=%q];\n", child, label(ch))
			attrs := ""
			if ch.Level > n.Level+1 {
				attrs = " [style=dashed]"
			}
			fmt.Fprintf(&buf, "  %s -> %s%s;\n", name, child, attrs)
			walk(ch, child)
		}
	}
	fmt.Fprintf(&buf, "  root [label=%q, shape=plaintext, style=\"\"];\n", truncate(root.Text))
	walk(root, "root")

	buf.WriteString("}\n")
	return buf.String()
}

func label(n *Node) string {
	return fmt.Sprintf("H%d  %s", n.Level, truncate(n.Text))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabel {
		return s
	}
	return string(r[:maxLabel-1]) + "…"
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
