package roadmap

import (
	"math"
	"sort"

	"github.com/roadmap-visualizer/backend/internal/dataset"
)

// ProConRoadmap compares positive and negative sentiments about a
// subject, e.g. survey responses or the quadrants of a SWOT analysis.
// Stop size and curve depth reflect how often (or how heavily) each
// sentiment was mentioned.
type ProConRoadmap struct {
	Roadmap

	positiveLabel string
	negativeLabel string
}

// NewProConRoadmap creates an empty pro/con roadmap. Counts are shown
// as absolute values since the sign only encodes the side.
func NewProConRoadmap() *ProConRoadmap {
	r := &ProConRoadmap{
		Roadmap:       newRoadmap(),
		positiveLabel: "Pro",
		negativeLabel: "Con",
	}
	r.labeler = r
	r.SetMarkerLabelDisplay(LabelNameAndAbsoluteValue)
	return r
}

// ProConData names the dataset columns for a pro/con roadmap.
type ProConData struct {
	// PositiveColumn holds positive sentiment labels.
	PositiveColumn string
	// PositiveValueColumn optionally holds pre-aggregated totals for
	// the positive labels; empty means frequency counting.
	PositiveValueColumn string
	// NegativeColumn holds negative sentiment labels.
	NegativeColumn string
	// NegativeValueColumn mirrors PositiveValueColumn for the negative side.
	NegativeValueColumn string
	// MinimumCount drops labels whose aggregated |value| falls below
	// it. Zero includes everything.
	MinimumCount float64
}

// SetData aggregates sentiment labels into signed road stops. A label
// appearing on both sides nets its contributions. The minimum-count
// filter runs after aggregation across all rows; when it leaves nothing
// behind, the chart stays empty without error.
func (r *ProConRoadmap) SetData(ds *dataset.Dataset, data ProConData) error {
	r.resetStops()
	if ds == nil {
		return nil
	}

	positiveCol, err := ds.CategoricalColumn(data.PositiveColumn)
	if err != nil {
		return err
	}
	var positiveValueCol *dataset.ContinuousColumn
	if data.PositiveValueColumn != "" {
		positiveValueCol, err = ds.ContinuousColumn(data.PositiveValueColumn)
		if err != nil {
			return err
		}
	}
	negativeCol, err := ds.CategoricalColumn(data.NegativeColumn)
	if err != nil {
		return err
	}
	var negativeValueCol *dataset.ContinuousColumn
	if data.NegativeValueColumn != "" {
		negativeValueCol, err = ds.ContinuousColumn(data.NegativeValueColumn)
		if err != nil {
			return err
		}
	}

	// Tally signed aggregates per label. Weights are forced to the
	// side's sign in case the data carried negative values.
	influencers := make(map[string]float64)
	for i := 0; i < ds.RowCount(); i++ {
		if label := positiveCol.Labels[i]; label != "" {
			weight := 1.0
			if positiveValueCol != nil {
				weight = positiveValueCol.Values[i]
			}
			if !math.IsNaN(weight) {
				influencers[label] += math.Abs(weight)
			}
		}
		if label := negativeCol.Labels[i]; label != "" {
			weight := 1.0
			if negativeValueCol != nil {
				weight = negativeValueCol.Values[i]
			}
			if !math.IsNaN(weight) {
				influencers[label] -= math.Abs(weight)
			}
		}
	}

	if data.MinimumCount > 0 {
		for label, value := range influencers {
			if math.Abs(value) < data.MinimumCount {
				delete(influencers, label)
			}
		}
	}

	// Nothing left after filtering: quit quietly.
	if len(influencers) == 0 {
		return nil
	}

	labels := make([]string, 0, len(influencers))
	maxAbs := 0.0
	for label, value := range influencers {
		labels = append(labels, label)
		if math.Abs(value) > maxAbs {
			maxAbs = math.Abs(value)
		}
	}
	sort.Strings(labels)

	// The magnitude is the heaviest aggregate of the filtered set.
	r.magnitude = maxAbs
	for _, label := range labels {
		r.stops = append(r.stops, RoadStop{Name: label, Value: influencers[label]})
	}
	return nil
}

// SetPositiveLegendLabel overrides the "Pro" legend text.
func (r *ProConRoadmap) SetPositiveLegendLabel(label string) { r.positiveLabel = label }

// SetNegativeLegendLabel overrides the "Con" legend text.
func (r *ProConRoadmap) SetNegativeLegendLabel(label string) { r.negativeLabel = label }

func (r *ProConRoadmap) positiveLegendLabel() string { return r.positiveLabel }

func (r *ProConRoadmap) negativeLegendLabel() string { return r.negativeLabel }

func (r *ProConRoadmap) defaultCaption() string {
	return "The larger the map marker and deeper the curve, " +
		"the more responses for the positive or negative sentiment"
}
