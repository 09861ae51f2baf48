package roadmap

import (
	"math"

	"github.com/roadmap-visualizer/backend/internal/models"
)

// TextMeasurer reports the rendered extent of a text run at a font size.
// The render package supplies the default implementation.
type TextMeasurer interface {
	MeasureText(text string, fontSize float64) (w, h float64)
}

// Marker sizes in drawing units; a stop's |value| scales between them.
const (
	markerSizeMin = 4
	markerSizeMax = 20
)

// Floor for the uniform label scale computed by the shrink pass.
const smallestLabelScaleAllowable = 0.5

// Leader lines use a long-dash pattern in a muted gray.
var leaderDash = []float64{6, 4}

// Layout computes the full scene for the current stops inside the given
// plot area. The pass is pure: it can run on every resize with no state
// carried over. An empty stop list or an unusable magnitude yields an
// empty scene rather than an error.
func (r *Roadmap) Layout(area models.Rect, measurer TextMeasurer) *models.Scene {
	scene := &models.Scene{Area: area, LabelScale: 1, Caption: r.caption}
	if len(r.stops) == 0 || math.IsNaN(r.magnitude) {
		return scene
	}

	// Trim a fifth of the axis range off each side so markers and
	// flush labels have somewhere to live.
	marginX := area.W / 5
	roadLeft := area.Left() + marginX
	roadRight := area.Right() - marginX
	middleX := area.Left() + area.W/2

	n := len(r.stops)

	// Stop i sits at slot i+1 of a [0, n+2] vertical range, measured
	// from the bottom of the plot; the spare slots leave headroom for
	// the road start and the horizon.
	yFor := func(i int) float64 {
		return area.Bottom() - float64(i+1)/float64(n+2)*area.H
	}
	xFor := func(v float64) float64 {
		frac := safeDivide(math.Abs(v), r.magnitude)
		if v >= 0 {
			return middleX + frac*(roadRight-middleX)
		}
		return middleX - frac*(middleX-roadLeft)
	}

	// Road path: start at bottom center, one point per stop, end at
	// top center.
	pathPts := make([]models.Point, 0, n+2)
	pathPts = append(pathPts, models.Point{X: middleX, Y: area.Bottom()})
	for i, stop := range r.stops {
		pathPts = append(pathPts, models.Point{X: xFor(stop.Value), Y: yFor(i)})
	}
	pathPts = append(pathPts, models.Point{X: middleX, Y: area.Top()})

	scene.Road = &models.Stroke{
		Points: pathPts,
		Color:  r.roadPen.Color,
		Width:  r.roadPen.Width,
		Style:  models.LineStyleSpline,
	}
	scene.LaneLines = r.laneSeparators(pathPts)

	// Markers and labels per stop.
	markers := make([]models.Marker, 0, n)
	labels := make([]models.TextLabel, 0, n)
	var leaders []models.Stroke

	for i, stop := range r.stops {
		at := models.Point{X: xFor(stop.Value), Y: yFor(i)}
		size := scaleWithin(math.Abs(stop.Value), r.magnitude, markerSizeMin, markerSizeMax)

		shape, color := r.negativeMarker()
		if stop.Value >= 0 {
			shape, color = r.positiveMarker()
		}
		markers = append(markers, models.Marker{Shape: shape, At: at, Size: size, Color: color})

		label := models.TextLabel{
			Text:     r.markerLabelText(stop),
			FontSize: r.labelFontSize,
			Scale:    1,
		}
		markerBottom := at.Y + size/2
		if r.labelPlacement == PlacementNextToParent {
			if stop.Value >= 0 {
				label.At = models.Point{X: at.X + size/2, Y: markerBottom}
				label.Anchor = models.AnchorBottomLeft
			} else {
				label.At = models.Point{X: at.X - size/2, Y: markerBottom}
				label.Anchor = models.AnchorBottomRight
			}
		} else {
			if stop.Value >= 0 {
				label.At = models.Point{X: area.Right(), Y: markerBottom}
				label.Anchor = models.AnchorBottomRight
			} else {
				label.At = models.Point{X: area.Left(), Y: markerBottom}
				label.Anchor = models.AnchorBottomLeft
			}
			leaders = append(leaders, models.Stroke{
				Points: []models.Point{label.At, at},
				Color:  colorWarmGray,
				Width:  1,
				Style:  models.LineStyleStraight,
				Dash:   leaderDash,
			})
		}
		labels = append(labels, label)
	}

	// Shrink overflowing labels, then apply the smallest computed scale
	// uniformly so every label in the chart renders at one size.
	leftTextArea := models.Rect{X: area.X, Y: area.Y, W: roadLeft - area.X, H: area.H}
	rightTextArea := models.Rect{X: roadRight, Y: area.Y, W: area.Right() - roadRight, H: area.H}

	smallest := 1.0
	for i := range labels {
		region := area
		if r.labelPlacement != PlacementNextToParent {
			if labels[i].Anchor == models.AnchorBottomLeft {
				region = leftTextArea
			} else {
				region = rightTextArea
			}
		}
		box := labelBounds(labels[i], measurer)
		if !region.Contains(box) {
			overhang := box.Right() - region.Right()
			if box.Left() < region.Left() {
				overhang = region.Left() - box.Left()
			}
			if overhang > 0 {
				inverse := 1 - safeDivide(overhang, box.W)
				labels[i].Scale *= math.Max(inverse, smallestLabelScaleAllowable)
			}
		}
		smallest = math.Min(smallest, labels[i].Scale)
		if doublesEqual(smallest, smallestLabelScaleAllowable) {
			break
		}
	}
	for i := range labels {
		labels[i].Scale = smallest
	}
	scene.LabelScale = smallest

	// Markers draw last, from the horizon back toward the start, so
	// nearer markers overlap farther ones.
	for i, j := 0, len(markers)-1; i < j; i, j = i+1, j-1 {
		markers[i], markers[j] = markers[j], markers[i]
	}

	scene.Leaders = leaders
	scene.Labels = labels
	scene.Markers = markers
	return scene
}

// laneSeparators builds the center-line strokes for the configured style.
// The single line is a tenth of the road width; the double line is a
// fifth with a thinner road-colored core making it read as two stripes.
func (r *Roadmap) laneSeparators(pathPts []models.Point) []models.Stroke {
	dash := []float64{r.roadPen.Width, r.roadPen.Width}
	switch r.laneStyle {
	case LaneNoDisplay:
		return nil
	case LaneDoubleLine:
		outer := models.Stroke{
			Points: pathPts,
			Color:  r.lanePen.Color,
			Width:  r.roadPen.Width / 5,
			Style:  models.LineStyleSpline,
			Dash:   dash,
		}
		core := models.Stroke{
			Points: pathPts,
			Color:  r.roadPen.Color,
			Width:  r.roadPen.Width / 15,
			Style:  models.LineStyleSpline,
			Dash:   dash,
		}
		return []models.Stroke{outer, core}
	default:
		return []models.Stroke{{
			Points: pathPts,
			Color:  r.lanePen.Color,
			Width:  r.roadPen.Width / 10,
			Style:  models.LineStyleSpline,
			Dash:   dash,
		}}
	}
}

// labelBounds computes the box a label occupies given its anchor corner
// and current scale.
func labelBounds(label models.TextLabel, measurer TextMeasurer) models.Rect {
	w, h := measurer.MeasureText(label.Text, label.FontSize*label.Scale)
	if label.Anchor == models.AnchorBottomRight {
		return models.Rect{X: label.At.X - w, Y: label.At.Y - h, W: w, H: h}
	}
	return models.Rect{X: label.At.X, Y: label.At.Y - h, W: w, H: h}
}
