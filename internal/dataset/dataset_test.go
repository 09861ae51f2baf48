package dataset

import (
	"math"
	"testing"
)

func TestMaxAbs(t *testing.T) {
	t.Run("ignores NaN values", func(t *testing.T) {
		col := &ContinuousColumn{Values: []float64{-7, math.NaN(), 1, 3}}
		if got := col.MaxAbs(); got != 7 {
			t.Errorf("Expected 7, got %v", got)
		}
	})

	t.Run("all NaN returns NaN", func(t *testing.T) {
		col := &ContinuousColumn{Values: []float64{math.NaN(), math.NaN()}}
		if got := col.MaxAbs(); !math.IsNaN(got) {
			t.Errorf("Expected NaN, got %v", got)
		}
	})

	t.Run("empty column returns NaN", func(t *testing.T) {
		col := &ContinuousColumn{}
		if got := col.MaxAbs(); !math.IsNaN(got) {
			t.Errorf("Expected NaN, got %v", got)
		}
	})

	t.Run("negative dominates", func(t *testing.T) {
		col := &ContinuousColumn{Values: []float64{-12.5, 3, 4}}
		if got := col.MaxAbs(); got != 12.5 {
			t.Errorf("Expected 12.5, got %v", got)
		}
	})
}

func TestDatasetColumns(t *testing.T) {
	ds := New()
	if err := ds.AddContinuousColumn("coef", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddContinuousColumn failed: %v", err)
	}
	if err := ds.AddCategoricalColumn("predictor", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("AddCategoricalColumn failed: %v", err)
	}

	if ds.RowCount() != 3 {
		t.Errorf("Expected 3 rows, got %d", ds.RowCount())
	}

	if _, err := ds.ContinuousColumn("coef"); err != nil {
		t.Errorf("Expected coef column, got error: %v", err)
	}
	if _, err := ds.CategoricalColumn("predictor"); err != nil {
		t.Errorf("Expected predictor column, got error: %v", err)
	}
}

func TestDatasetColumnNotFound(t *testing.T) {
	ds := New()
	ds.AddContinuousColumn("coef", []float64{1})

	_, err := ds.ContinuousColumn("missing")
	if err == nil {
		t.Fatal("Expected error for missing column")
	}
	colErr, ok := err.(*ColumnNotFoundError)
	if !ok {
		t.Fatalf("Expected ColumnNotFoundError, got %T", err)
	}
	if colErr.Column != "missing" {
		t.Errorf("Expected column name 'missing', got %q", colErr.Column)
	}

	// Kind mismatch reports the same error type
	if _, err := ds.CategoricalColumn("coef"); err == nil {
		t.Error("Expected error when reading continuous column as categorical")
	}
}

func TestDatasetRowCountMismatch(t *testing.T) {
	ds := New()
	ds.AddContinuousColumn("a", []float64{1, 2})
	if err := ds.AddContinuousColumn("b", []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for mismatched row count")
	}
	if err := ds.AddCategoricalColumn("c", []string{"x"}); err == nil {
		t.Error("Expected error for mismatched row count")
	}
}
