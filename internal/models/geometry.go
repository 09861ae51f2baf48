// Package models contains domain types for the Roadmap Visualizer.
package models

// Point is a position in plot coordinates. The origin is the top-left
// corner of the plot area, Y grows downward (SVG convention).
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Rect is an axis-aligned rectangle in plot coordinates.
type Rect struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether inner lies fully inside r.
func (r Rect) Contains(inner Rect) bool {
	return inner.Left() >= r.Left() && inner.Right() <= r.Right() &&
		inner.Top() >= r.Top() && inner.Bottom() <= r.Bottom()
}

// LineStyle selects how a stroke's points are connected.
type LineStyle string

const (
	LineStyleStraight LineStyle = "straight"
	LineStyleSpline   LineStyle = "spline"
)

// Stroke is a stroked path through a sequence of points.
type Stroke struct {
	Points []Point   `json:"points" msgpack:"points"`
	Color  string    `json:"color" msgpack:"color"`
	Width  float64   `json:"width" msgpack:"width"`
	Style  LineStyle `json:"style" msgpack:"style"`
	Dash   []float64 `json:"dash,omitempty" msgpack:"dash,omitempty"`
}

// MarkerShape identifies the icon drawn for a road stop.
type MarkerShape string

const (
	MarkerShapeLocationPin MarkerShape = "location-pin"
	MarkerShapeGoSign      MarkerShape = "go-sign"
	MarkerShapeWarningSign MarkerShape = "warning-sign"
)

// Marker is a sized, colored icon anchored at its center point.
type Marker struct {
	Shape MarkerShape `json:"shape" msgpack:"shape"`
	At    Point       `json:"at" msgpack:"at"`
	Size  float64     `json:"size" msgpack:"size"`
	Color string      `json:"color" msgpack:"color"`
}

// AnchorCorner names the corner of a text label that is pinned to its
// anchor point.
type AnchorCorner string

const (
	AnchorBottomLeft  AnchorCorner = "bottom-left"
	AnchorBottomRight AnchorCorner = "bottom-right"
)

// TextLabel is a text run anchored by one of its corners. Scale is a
// multiplier applied to FontSize when rendering; the layout pass
// guarantees every label in a scene carries the same final scale.
type TextLabel struct {
	Text     string       `json:"text" msgpack:"text"`
	At       Point        `json:"at" msgpack:"at"`
	Anchor   AnchorCorner `json:"anchor" msgpack:"anchor"`
	FontSize float64      `json:"fontSize" msgpack:"fontSize"`
	Scale    float64      `json:"scale" msgpack:"scale"`
}

// LegendEntry pairs an icon with its explanatory text.
type LegendEntry struct {
	Shape MarkerShape `json:"shape" msgpack:"shape"`
	Color string      `json:"color" msgpack:"color"`
	Label string      `json:"label" msgpack:"label"`
}

// Legend is the chart key: one positive entry, one negative entry, and
// an optional header line.
type Legend struct {
	Header  string        `json:"header,omitempty" msgpack:"header,omitempty"`
	Entries []LegendEntry `json:"entries" msgpack:"entries"`
}

// Scene is the full set of drawing primitives for one chart render.
// The slices are listed in draw order: pavement first, then lane
// separator strokes, leader lines, labels, and markers on top.
// Markers are stored back-to-front (horizon first) so a renderer can
// draw them in slice order and have nearer markers overlap farther ones.
type Scene struct {
	Area       Rect        `json:"area" msgpack:"area"`
	Road       *Stroke     `json:"road,omitempty" msgpack:"road,omitempty"`
	LaneLines  []Stroke    `json:"laneLines,omitempty" msgpack:"laneLines,omitempty"`
	Leaders    []Stroke    `json:"leaders,omitempty" msgpack:"leaders,omitempty"`
	Labels     []TextLabel `json:"labels,omitempty" msgpack:"labels,omitempty"`
	Markers    []Marker    `json:"markers,omitempty" msgpack:"markers,omitempty"`
	Caption    string      `json:"caption,omitempty" msgpack:"caption,omitempty"`
	LabelScale float64     `json:"labelScale" msgpack:"labelScale"`
}

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool {
	return s == nil || s.Road == nil
}
