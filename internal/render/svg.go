package render

import (
	"fmt"
	"strings"

	"github.com/roadmap-visualizer/backend/internal/models"
)

// SVGRenderer writes scenes as standalone SVG documents.
type SVGRenderer struct {
	// Background fills the canvas when non-empty (e.g. "#FFFFFF").
	Background string
}

// RenderScene produces a complete SVG document for one scene, with an
// optional legend block appended beneath the plot area.
func (r *SVGRenderer) RenderScene(scene *models.Scene, legend *models.Legend) []byte {
	var b strings.Builder

	width := scene.Area.W
	height := scene.Area.H
	legendH := legendHeight(legend)
	captionH := 0.0
	if scene.Caption != "" {
		captionH = 24
	}

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		num(width), num(height+legendH+captionH),
		num(scene.Area.X), num(scene.Area.Y), num(width), num(height+legendH+captionH))

	if r.Background != "" {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(scene.Area.X), num(scene.Area.Y), num(width), num(height+legendH+captionH), r.Background)
	}

	if !scene.Empty() {
		writeStroke(&b, scene.Road)
		for i := range scene.LaneLines {
			writeStroke(&b, &scene.LaneLines[i])
		}
		for i := range scene.Leaders {
			writeStroke(&b, &scene.Leaders[i])
		}
		for _, label := range scene.Labels {
			writeLabel(&b, label)
		}
		for _, marker := range scene.Markers {
			writeMarker(&b, marker)
		}
	}

	y := scene.Area.Bottom()
	if scene.Caption != "" {
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="12" font-style="italic">%s</text>`+"\n",
			num(scene.Area.X+4), num(y+16), escape(scene.Caption))
		y += captionH
	}
	if legend != nil {
		writeLegend(&b, legend, scene.Area.X+4, y)
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func legendHeight(legend *models.Legend) float64 {
	if legend == nil {
		return 0
	}
	h := float64(len(legend.Entries)) * 18
	if legend.Header != "" {
		h += 20
	}
	return h + 8
}

func writeLegend(b *strings.Builder, legend *models.Legend, x, y float64) {
	if legend.Header != "" {
		y += 16
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="13" font-weight="bold">%s</text>`+"\n",
			num(x), num(y), escape(legend.Header))
		y += 4
	}
	for _, entry := range legend.Entries {
		y += 16
		writeMarker(b, models.Marker{
			Shape: entry.Shape,
			At:    models.Point{X: x + 6, Y: y - 4},
			Size:  12,
			Color: entry.Color,
		})
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="12">%s</text>`+"\n",
			num(x+18), num(y), escape(entry.Label))
		y += 2
	}
}

// writeStroke emits a stroked path; spline strokes are smoothed with
// Catmull-Rom derived cubic Beziers.
func writeStroke(b *strings.Builder, s *models.Stroke) {
	if len(s.Points) < 2 {
		return
	}
	var d string
	if s.Style == models.LineStyleSpline {
		d = splinePath(s.Points)
	} else {
		d = polylinePath(s.Points)
	}
	dash := ""
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, v := range s.Dash {
			parts[i] = num(v)
		}
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	fmt.Fprintf(b, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round"%s/>`+"\n",
		d, s.Color, num(s.Width), dash)
}

func polylinePath(pts []models.Point) string {
	var d strings.Builder
	fmt.Fprintf(&d, "M %s %s", num(pts[0].X), num(pts[0].Y))
	for _, p := range pts[1:] {
		fmt.Fprintf(&d, " L %s %s", num(p.X), num(p.Y))
	}
	return d.String()
}

// splinePath converts the point sequence into a smooth path using the
// Catmull-Rom to cubic Bezier identity with duplicated endpoints.
func splinePath(pts []models.Point) string {
	var d strings.Builder
	fmt.Fprintf(&d, "M %s %s", num(pts[0].X), num(pts[0].Y))
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxInt(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minInt(i+2, len(pts)-1)]

		c1x := p1.X + (p2.X-p0.X)/6
		c1y := p1.Y + (p2.Y-p0.Y)/6
		c2x := p2.X - (p3.X-p1.X)/6
		c2y := p2.Y - (p3.Y-p1.Y)/6
		fmt.Fprintf(&d, " C %s %s, %s %s, %s %s",
			num(c1x), num(c1y), num(c2x), num(c2y), num(p2.X), num(p2.Y))
	}
	return d.String()
}

func writeMarker(b *strings.Builder, m models.Marker) {
	switch m.Shape {
	case models.MarkerShapeGoSign:
		// Green disc on a short post.
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#555555" stroke-width="%s"/>`+"\n",
			num(m.At.X), num(m.At.Y), num(m.At.X), num(m.At.Y-m.Size*0.4), num(maxFloat(m.Size/10, 1)))
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#FFFFFF" stroke-width="%s"/>`+"\n",
			num(m.At.X), num(m.At.Y-m.Size*0.6), num(m.Size*0.4), m.Color, num(maxFloat(m.Size/12, 1)))
	case models.MarkerShapeWarningSign:
		// Diamond warning sign centered above the anchor.
		cx, cy, r := m.At.X, m.At.Y-m.Size*0.5, m.Size*0.5
		fmt.Fprintf(b, `<path d="M %s %s L %s %s L %s %s L %s %s Z" fill="%s" stroke="#000000" stroke-width="1"/>`+"\n",
			num(cx), num(cy-r), num(cx+r), num(cy),
			num(cx), num(cy+r), num(cx-r), num(cy), m.Color)
	default:
		// Location pin: disc with a triangular tail down to the anchor.
		r := m.Size * 0.35
		cy := m.At.Y - m.Size*0.55
		fmt.Fprintf(b, `<path d="M %s %s L %s %s L %s %s Z" fill="%s"/>`+"\n",
			num(m.At.X-r*0.8), num(cy), num(m.At.X+r*0.8), num(cy),
			num(m.At.X), num(m.At.Y), m.Color)
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			num(m.At.X), num(cy), num(r), m.Color)
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="#FFFFFF"/>`+"\n",
			num(m.At.X), num(cy), num(r*0.4))
	}
}

func writeLabel(b *strings.Builder, label models.TextLabel) {
	anchor := "start"
	if label.Anchor == models.AnchorBottomRight {
		anchor = "end"
	}
	size := label.FontSize * label.Scale
	// The anchor point is the label box's bottom corner; nudge the
	// baseline up by the approximate descent.
	baseline := label.At.Y - size*0.2
	fmt.Fprintf(b, `<text x="%s" y="%s" font-size="%s" text-anchor="%s">%s</text>`+"\n",
		num(label.At.X), num(baseline), num(size), anchor, escape(label.Text))
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// num formats coordinates compactly, trimming trailing zeroes.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
