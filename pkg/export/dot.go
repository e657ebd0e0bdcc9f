// Package export writes the current roadmap as Graphviz DOT and renders it
// to SVG. Node positions are pinned, so Graphviz only draws; it never lays
// anything out.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ritzau/roadmap/pkg/model"
	"github.com/ritzau/roadmap/pkg/render"
)

// ToDOT converts nodes and edges to DOT.
// Edges whose endpoints are missing are left out, the same way the canvas
// simply doesn't draw them.
func ToDOT(nodes []model.Node, edges []model.Edge) string {
	var buf bytes.Buffer
	buf.WriteString("digraph roadmap {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
		style := render.StyleFor(n.Data.Status)
		// Canvas y grows downward, Graphviz y grows upward
		fmt.Fprintf(&buf, "  %s [label=%s, pos=\"%g,%g!\", fillcolor=%s, color=%s, fontcolor=\"#1a1a1a\"];\n",
			dotString(n.ID), dotString(nodeLabel(n)), n.Position.X, -n.Position.Y, dotString(style.Background), dotString(style.Border))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !present[e.Source] || !present[e.Target] {
			continue
		}
		attrs := []string{"id=" + dotString(e.ID)}
		if e.Animated {
			attrs = append(attrs, "style=dashed", "color=\"#b1b1b7\"")
		} else {
			attrs = append(attrs, "color=\"#b1b1b7\"")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotString(e.Source), dotString(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotString quotes s as a DOT string literal. DOT knows only \" and \\ plus
// its own \n line break, so invalid UTF-8 is replaced rather than escaped.
func dotString(s string) string {
	return `"` + dotEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD")) + `"`
}

func nodeLabel(n model.Node) string {
	parts := []string{n.Data.Label, "[" + n.Data.Status.Label() + "]"}
	parts = append(parts, n.Data.Items...)
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT to SVG with neato, honoring pinned positions
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
