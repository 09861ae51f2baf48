package roadmap

import (
	"fmt"
	"math"

	"github.com/roadmap-visualizer/backend/internal/dataset"
)

// LRRoadmap shows predictors' influence on a dependent variable from a
// multiple linear regression. Stops on the right side of the road are
// positive influencers, left stops are negative; both marker size and
// curve depth scale with the coefficient's strength.
type LRRoadmap struct {
	Roadmap
}

// NewLRRoadmap creates an empty regression roadmap.
func NewLRRoadmap() *LRRoadmap {
	r := &LRRoadmap{Roadmap: newRoadmap()}
	r.labeler = r
	return r
}

// RegressionData names the dataset columns for a regression roadmap.
type RegressionData struct {
	// PredictorColumn is the categorical column holding predictor names.
	PredictorColumn string
	// CoefficientColumn is the continuous column of signed coefficients.
	CoefficientColumn string
	// PValueColumn optionally filters predictors by significance.
	PValueColumn string
	// PLevel is the significance cutoff; predictors with p-values at or
	// above it (or with missing p-values) are excluded. NaN disables
	// the filter.
	PLevel float64
	// Include restricts which coefficient signs load. Zero means all.
	Include Influence
	// Goal names the dependent variable for the legend and caption.
	Goal string
}

// SetData derives the road stops from a regression result table.
// The magnitude is taken from the full coefficient column before any
// row filtering, so the curve scale stays stable across p-level and
// influence filters. Missing columns return a
// dataset.ColumnNotFoundError; an all-NaN coefficient column leaves the
// chart empty without error.
func (r *LRRoadmap) SetData(ds *dataset.Dataset, data RegressionData) error {
	r.resetStops()
	if ds == nil {
		return nil
	}

	if data.Goal != "" {
		r.SetGoalLabel(data.Goal)
	}

	predictorCol, err := ds.CategoricalColumn(data.PredictorColumn)
	if err != nil {
		return err
	}
	coefficientCol, err := ds.ContinuousColumn(data.CoefficientColumn)
	if err != nil {
		return err
	}
	var pValueCol *dataset.ContinuousColumn
	if data.PValueColumn != "" {
		pValueCol, err = ds.ContinuousColumn(data.PValueColumn)
		if err != nil {
			return err
		}
	}

	// Magnitude is the strongest coefficient, negative or positive, of
	// the whole column.
	r.magnitude = coefficientCol.MaxAbs()
	if math.IsNaN(r.magnitude) {
		return nil
	}

	include := data.Include
	if include == 0 {
		include = InfluenceAll
	}

	includePredictor := func(value, pValue float64) bool {
		if math.IsNaN(value) {
			return false
		}
		if pValueCol != nil && !math.IsNaN(data.PLevel) &&
			(math.IsNaN(pValue) || pValue >= data.PLevel) {
			return false
		}
		if include&InfluenceAll == InfluenceAll {
			return true
		}
		if include&InfluenceNegative != 0 && value < 0 {
			return true
		}
		if include&InfluenceNeutral != 0 && value == 0 {
			return true
		}
		if include&InfluencePositive != 0 && value > 0 {
			return true
		}
		return false
	}

	for i := 0; i < ds.RowCount(); i++ {
		pValue := math.NaN()
		if pValueCol != nil {
			pValue = pValueCol.Values[i]
		}
		if includePredictor(coefficientCol.Values[i], pValue) {
			r.stops = append(r.stops, RoadStop{
				Name:  predictorCol.Labels[i],
				Value: coefficientCol.Values[i],
			})
		}
	}
	return nil
}

func (r *LRRoadmap) positiveLegendLabel() string {
	return fmt.Sprintf("Positively associated with %s", r.GoalLabel())
}

func (r *LRRoadmap) negativeLegendLabel() string {
	return fmt.Sprintf("Negatively associated with %s", r.GoalLabel())
}

func (r *LRRoadmap) defaultCaption() string {
	return fmt.Sprintf("The larger the map marker and deeper the curve, "+
		"the stronger the item's association with %s", r.GoalLabel())
}
