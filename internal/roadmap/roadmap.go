// Package roadmap implements the roadmap chart layout engine: reducers
// that turn tabular data into signed road stops, the road/marker/label
// geometry pass, and legend assembly. The package is rendering-surface
// agnostic; it emits models.Scene primitives.
package roadmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/roadmap-visualizer/backend/internal/models"
)

// Influence is a bitmask choosing which stop signs to include when
// loading regression data.
type Influence uint8

const (
	InfluenceNegative Influence = 1 << iota
	InfluenceNeutral
	InfluencePositive

	InfluenceAll = InfluenceNegative | InfluenceNeutral | InfluencePositive
)

// ParseInfluence reads a comma-separated influence list
// ("negative,positive", "all", ...).
func ParseInfluence(s string) (Influence, error) {
	var mask Influence
	for _, tok := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(tok)) {
		case "", "all":
			mask |= InfluenceAll
		case "negative":
			mask |= InfluenceNegative
		case "neutral":
			mask |= InfluenceNeutral
		case "positive":
			mask |= InfluencePositive
		default:
			return 0, fmt.Errorf("unknown influence value: %q", tok)
		}
	}
	return mask, nil
}

// RoadStopTheme selects the marker icon set.
type RoadStopTheme string

const (
	ThemeLocationMarkers RoadStopTheme = "location-markers"
	ThemeRoadSigns       RoadStopTheme = "road-signs"
)

// LaneSeparatorStyle selects how the center line of the road is drawn.
type LaneSeparatorStyle string

const (
	LaneSingleLine LaneSeparatorStyle = "single-line"
	LaneDoubleLine LaneSeparatorStyle = "double-line"
	LaneNoDisplay  LaneSeparatorStyle = "no-display"
)

// MarkerLabelDisplay selects what text accompanies each marker.
type MarkerLabelDisplay string

const (
	LabelName                 MarkerLabelDisplay = "name"
	LabelNameAndValue         MarkerLabelDisplay = "name-and-value"
	LabelNameAndAbsoluteValue MarkerLabelDisplay = "name-and-absolute-value"
)

// LabelPlacement selects where marker labels are anchored.
type LabelPlacement string

const (
	PlacementNextToParent LabelPlacement = "next-to-parent"
	PlacementFlush        LabelPlacement = "flush"
)

// Theme colors. The location-marker theme follows the usual
// green-positive / red-negative pairing; road signs use a green "go"
// circle and a yellow warning diamond.
const (
	colorKellyGreen      = "#4CBB17"
	colorTomato          = "#FF6347"
	colorGoGreen         = "#00A550"
	colorWarningYellow   = "#FFC300"
	colorSchoolBusYellow = "#FFD800"
	colorWarmGray        = "#808069"
	colorBlack           = "#000000"
)

// Pen describes a stroke configuration.
type Pen struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// RoadStop is one named, signed-magnitude item along the road.
// Negative values sit on the left side, non-negative on the right.
type RoadStop struct {
	Name  string
	Value float64
}

// legendLabeler supplies the kind-specific legend texts and caption.
// The two chart kinds (regression, pro/con) implement it.
type legendLabeler interface {
	positiveLegendLabel() string
	negativeLegendLabel() string
	defaultCaption() string
}

// Roadmap holds the shared chart state: the stop list, the scaling
// magnitude, theme selections, and pens. It is embedded by the two
// concrete chart kinds and rebuilt wholesale on every SetData call.
type Roadmap struct {
	stops     []RoadStop
	magnitude float64
	goalLabel string
	caption   string

	theme          RoadStopTheme
	laneStyle      LaneSeparatorStyle
	labelDisplay   MarkerLabelDisplay
	labelPlacement LabelPlacement

	roadPen       Pen
	lanePen       Pen
	labelFontSize float64

	labeler legendLabeler
}

func newRoadmap() Roadmap {
	return Roadmap{
		magnitude:      math.NaN(),
		goalLabel:      "DV",
		theme:          ThemeLocationMarkers,
		laneStyle:      LaneSingleLine,
		labelDisplay:   LabelNameAndValue,
		labelPlacement: PlacementFlush,
		roadPen:        Pen{Color: colorBlack, Width: 10},
		lanePen:        Pen{Color: colorSchoolBusYellow},
		labelFontSize:  12,
	}
}

// Stops returns the current road stops in stacking order (bottom to top).
func (r *Roadmap) Stops() []RoadStop { return r.stops }

// Magnitude returns the scaling reference: the maximum absolute value
// all stop sizes and offsets are normalized against. NaN when no valid
// data has been loaded.
func (r *Roadmap) Magnitude() float64 { return r.magnitude }

// SetMagnitude overrides the scaling reference. Useful for giving two
// stacked roadmaps a common scale.
func (r *Roadmap) SetMagnitude(m float64) { r.magnitude = m }

// GoalLabel returns the name of the outcome the road leads toward.
func (r *Roadmap) GoalLabel() string { return r.goalLabel }

// SetGoalLabel sets the goal name used in the legend and caption.
func (r *Roadmap) SetGoalLabel(label string) { r.goalLabel = label }

// SetTheme selects the marker icon theme.
func (r *Roadmap) SetTheme(t RoadStopTheme) { r.theme = t }

// Theme returns the marker icon theme.
func (r *Roadmap) Theme() RoadStopTheme { return r.theme }

// SetLaneSeparatorStyle selects the center-line style.
func (r *Roadmap) SetLaneSeparatorStyle(s LaneSeparatorStyle) { r.laneStyle = s }

// SetMarkerLabelDisplay selects the marker label text mode.
func (r *Roadmap) SetMarkerLabelDisplay(d MarkerLabelDisplay) { r.labelDisplay = d }

// SetLabelPlacement selects flush or next-to-parent label anchoring.
func (r *Roadmap) SetLabelPlacement(p LabelPlacement) { r.labelPlacement = p }

// LabelPlacement returns the current label placement mode.
func (r *Roadmap) LabelPlacement() LabelPlacement { return r.labelPlacement }

// RoadPen returns a pointer to the road pen so callers can restyle it.
func (r *Roadmap) RoadPen() *Pen { return &r.roadPen }

// LanePen returns a pointer to the lane separator pen.
func (r *Roadmap) LanePen() *Pen { return &r.lanePen }

// Caption returns the caption text, if one was set.
func (r *Roadmap) Caption() string { return r.caption }

// SetCaption sets the caption included in rendered scenes.
func (r *Roadmap) SetCaption(text string) { r.caption = text }

// AddDefaultCaption sets the kind-specific caption explaining how to
// read the chart.
func (r *Roadmap) AddDefaultCaption() {
	if r.labeler != nil {
		r.caption = r.labeler.defaultCaption()
	}
}

// resetStops clears loaded data before a reload.
func (r *Roadmap) resetStops() {
	r.stops = nil
	r.magnitude = math.NaN()
}

// positiveMarker returns the icon and color for right-side stops.
func (r *Roadmap) positiveMarker() (models.MarkerShape, string) {
	if r.theme == ThemeRoadSigns {
		return models.MarkerShapeGoSign, colorGoGreen
	}
	return models.MarkerShapeLocationPin, colorKellyGreen
}

// negativeMarker returns the icon and color for left-side stops.
func (r *Roadmap) negativeMarker() (models.MarkerShape, string) {
	if r.theme == ThemeRoadSigns {
		return models.MarkerShapeWarningSign, colorWarningYellow
	}
	return models.MarkerShapeLocationPin, colorTomato
}

// CreateLegend builds the two-entry chart key. When includeHeader is
// set, a "Key" header line is prepended.
func (r *Roadmap) CreateLegend(includeHeader bool) *models.Legend {
	posShape, posColor := r.positiveMarker()
	negShape, negColor := r.negativeMarker()

	legend := &models.Legend{
		Entries: []models.LegendEntry{
			{Shape: posShape, Color: posColor, Label: r.labeler.positiveLegendLabel()},
			{Shape: negShape, Color: negColor, Label: r.labeler.negativeLegendLabel()},
		},
	}
	if includeHeader {
		legend.Header = "Key"
	}
	return legend
}

// markerLabelText builds the label text for one stop per the display mode.
func (r *Roadmap) markerLabelText(stop RoadStop) string {
	switch r.labelDisplay {
	case LabelNameAndValue:
		return fmt.Sprintf("%s (%s)", stop.Name, formatValue(stop.Value))
	case LabelNameAndAbsoluteValue:
		return fmt.Sprintf("%s (%s)", stop.Name, formatValue(math.Abs(stop.Value)))
	default:
		return stop.Name
	}
}
