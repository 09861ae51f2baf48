package render

import "testing"

func TestEstimatingMeasurer(t *testing.T) {
	m := EstimatingMeasurer{}

	w, h := m.MeasureText("hello", 10)
	if w != 5*0.6*10 {
		t.Errorf("Expected width 30, got %v", w)
	}
	if h != 12 {
		t.Errorf("Expected height 12, got %v", h)
	}

	// Empty text has no width but keeps the line height
	w, h = m.MeasureText("", 10)
	if w != 0 || h != 12 {
		t.Errorf("Expected 0x12, got %vx%v", w, h)
	}

	// Multibyte runes count once, not per byte
	w1, _ := m.MeasureText("éé", 10)
	w2, _ := m.MeasureText("ee", 10)
	if w1 != w2 {
		t.Errorf("Expected rune-count measurement, got %v vs %v", w1, w2)
	}
}

func TestEstimatingMeasurerCustomRatios(t *testing.T) {
	m := EstimatingMeasurer{CharWidthRatio: 1, LineHeightRatio: 2}
	w, h := m.MeasureText("ab", 10)
	if w != 20 || h != 20 {
		t.Errorf("Expected 20x20, got %vx%v", w, h)
	}
}
