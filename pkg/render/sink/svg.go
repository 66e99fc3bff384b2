package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/shapegrid/pkg/render/scene"
)

// Default SVG parameters.
const (
	DefaultPixelsPerUnit = 40.0
	DefaultPadding       = 20.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	padding    float64
	background string
}

// WithScale sets the number of pixels per world unit.
func WithScale(px float64) SVGOption { return func(r *svgRenderer) { r.scale = px } }

// WithPadding sets the margin around the drawing in pixels.
func WithPadding(px float64) SVGOption { return func(r *svgRenderer) { r.padding = px } }

// WithBackground fills the canvas with a CSS color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws the scene as an orthographic front view. Items are drawn
// back to front so nearer shapes cover farther ones.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultPixelsPerUnit, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultPixelsPerUnit
	}

	items := Collect(sc)
	minX, minY, maxX, maxY := Bounds(items)
	width := (maxX-minX)*r.scale + 2*r.padding
	height := (maxY-minY)*r.scale + 2*r.padding

	// World Y points up; SVG Y points down.
	toPx := func(p [2]float64) (float64, float64) {
		return (p[0]-minX)*r.scale + r.padding, (maxY-p[1])*r.scale + r.padding
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	for _, it := range items {
		if len(it.Outline) == 0 {
			continue
		}
		pts := make([]string, len(it.Outline))
		for i, p := range it.Outline {
			x, y := toPx(p)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&buf, `  <polygon id="mesh-%d" class="%s %s" points="%s" fill="%s" fill-opacity="%.2f"/>`+"\n",
			it.Mesh, it.Part, it.Shape, strings.Join(pts, " "), it.Color, it.Opacity)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
