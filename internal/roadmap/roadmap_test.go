package roadmap

import (
	"math"
	"testing"

	"github.com/roadmap-visualizer/backend/internal/models"
)

func TestParseInfluence(t *testing.T) {
	cases := []struct {
		in      string
		want    Influence
		wantErr bool
	}{
		{"all", InfluenceAll, false},
		{"", InfluenceAll, false},
		{"negative", InfluenceNegative, false},
		{"negative,positive", InfluenceNegative | InfluencePositive, false},
		{" Neutral , POSITIVE ", InfluenceNeutral | InfluencePositive, false},
		{"bogus", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseInfluence(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseInfluence(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInfluence(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseInfluence(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{7, "7"},
		{-0.5, "-0.5"},
		{0.125, "0.125"},
		{1.5000, "1.5"},
		{-0.0001, "0"}, // rounds to -0, normalized
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMarkerLabelText(t *testing.T) {
	r := newRoadmap()
	stop := RoadStop{Name: "Age", Value: -7.25}

	r.SetMarkerLabelDisplay(LabelName)
	if got := r.markerLabelText(stop); got != "Age" {
		t.Errorf("name mode: got %q", got)
	}

	r.SetMarkerLabelDisplay(LabelNameAndValue)
	if got := r.markerLabelText(stop); got != "Age (-7.25)" {
		t.Errorf("name-and-value mode: got %q", got)
	}

	r.SetMarkerLabelDisplay(LabelNameAndAbsoluteValue)
	if got := r.markerLabelText(stop); got != "Age (7.25)" {
		t.Errorf("name-and-absolute-value mode: got %q", got)
	}
}

func TestThemeMarkers(t *testing.T) {
	r := newRoadmap()

	shape, _ := r.positiveMarker()
	if shape != models.MarkerShapeLocationPin {
		t.Errorf("Expected location pin for default theme, got %v", shape)
	}
	negShape, negColor := r.negativeMarker()
	if negShape != models.MarkerShapeLocationPin || negColor == "" {
		t.Errorf("Unexpected negative marker: %v %v", negShape, negColor)
	}

	r.SetTheme(ThemeRoadSigns)
	shape, _ = r.positiveMarker()
	if shape != models.MarkerShapeGoSign {
		t.Errorf("Expected go sign for road-signs theme, got %v", shape)
	}
	negShape, _ = r.negativeMarker()
	if negShape != models.MarkerShapeWarningSign {
		t.Errorf("Expected warning sign for road-signs theme, got %v", negShape)
	}
}

func TestSafeDivide(t *testing.T) {
	if got := safeDivide(5, 0); got != 0 {
		t.Errorf("Expected 0 for division by zero, got %v", got)
	}
	if got := safeDivide(5, math.NaN()); got != 0 {
		t.Errorf("Expected 0 for NaN divisor, got %v", got)
	}
	if got := safeDivide(6, 3); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
}

func TestScaleWithin(t *testing.T) {
	if got := scaleWithin(0, 10, 4, 20); got != 4 {
		t.Errorf("Expected lower bound 4, got %v", got)
	}
	if got := scaleWithin(10, 10, 4, 20); got != 20 {
		t.Errorf("Expected upper bound 20, got %v", got)
	}
	if got := scaleWithin(5, 10, 4, 20); got != 12 {
		t.Errorf("Expected midpoint 12, got %v", got)
	}
}
