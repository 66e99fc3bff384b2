package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/render/scene"
)

// Format is an output format of RenderDOT.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ToDOT converts the scene to an undirected Graphviz graph. Every mesh
// becomes a fixed-size node pinned at its projected center, sized to its
// projected bounding box, and listed back to front so neato draws nearer
// shapes last.
func ToDOT(sc *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [label=\"\", style=filled, fixedsize=true, penwidth=0];\n")
	buf.WriteString("\n")

	for _, it := range Collect(sc) {
		x0, y0, x1, y1 := Bounds([]Item{it})
		shape := "ellipse"
		if it.Shape == grid.Quad {
			// Rotated quads keep their projected bounding box.
			shape = "box"
		}
		fmt.Fprintf(&buf, "  \"m%d\" [shape=%s, pos=\"%.4f,%.4f!\", width=%.4f, height=%.4f, fillcolor=\"%s%02x\"];\n",
			it.Mesh, shape, (x0+x1)/2, (y0+y1)/2, max(x1-x0, 0.01), max(y1-y0, 0.01),
			it.Color, alphaByte(it.Opacity))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func alphaByte(a float64) int {
	return int(min(max(a, 0), 1)*255 + 0.5)
}

// RenderDOT lays out a DOT document with neato and renders it in-process.
func RenderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

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
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
