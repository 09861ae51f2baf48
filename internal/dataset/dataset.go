// Package dataset provides the in-memory tabular dataset consumed by the
// roadmap reducers: named columns of continuous (float64) or categorical
// (string) values, addressable by name.
package dataset

import (
	"fmt"
	"math"
)

// ColumnKind tags a column as continuous or categorical.
type ColumnKind int

const (
	ColumnContinuous ColumnKind = iota
	ColumnCategorical
)

func (k ColumnKind) String() string {
	if k == ColumnCategorical {
		return "categorical"
	}
	return "continuous"
}

// ColumnNotFoundError is returned when a column lookup by name fails.
// The message is plain UTF-8 and safe to surface to a user.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("'%s': column not found in dataset", e.Column)
}

// ContinuousColumn is a named column of float64 values.
// Missing values are stored as NaN.
type ContinuousColumn struct {
	Name   string
	Values []float64
}

// MaxAbs returns the largest absolute value in the column, ignoring NaNs.
// Returns NaN when the column holds no finite values.
func (c *ContinuousColumn) MaxAbs() float64 {
	maxVal := math.NaN()
	for _, v := range c.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(maxVal) || math.Abs(v) > maxVal {
			maxVal = math.Abs(v)
		}
	}
	return maxVal
}

// CategoricalColumn is a named column of string labels. Labels are
// interned so repeated values share backing storage.
type CategoricalColumn struct {
	Name   string
	Labels []string
}

// Dataset is an immutable-after-build table of named columns.
// All columns have the same row count.
type Dataset struct {
	continuous  []*ContinuousColumn
	categorical []*CategoricalColumn
	rowCount    int
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{}
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int { return d.rowCount }

// AddContinuousColumn appends a continuous column. The first column added
// fixes the dataset's row count; later columns must match it.
func (d *Dataset) AddContinuousColumn(name string, values []float64) error {
	if err := d.checkRowCount(len(values)); err != nil {
		return err
	}
	d.continuous = append(d.continuous, &ContinuousColumn{Name: name, Values: values})
	return nil
}

// AddCategoricalColumn appends a categorical column.
func (d *Dataset) AddCategoricalColumn(name string, labels []string) error {
	if err := d.checkRowCount(len(labels)); err != nil {
		return err
	}
	d.categorical = append(d.categorical, &CategoricalColumn{Name: name, Labels: labels})
	return nil
}

func (d *Dataset) checkRowCount(n int) error {
	if d.rowCount == 0 && len(d.continuous) == 0 && len(d.categorical) == 0 {
		d.rowCount = n
		return nil
	}
	if n != d.rowCount {
		return fmt.Errorf("column length %d does not match dataset row count %d", n, d.rowCount)
	}
	return nil
}

// ContinuousColumn looks up a continuous column by name.
func (d *Dataset) ContinuousColumn(name string) (*ContinuousColumn, error) {
	for _, c := range d.continuous {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &ColumnNotFoundError{Column: name}
}

// CategoricalColumn looks up a categorical column by name.
func (d *Dataset) CategoricalColumn(name string) (*CategoricalColumn, error) {
	for _, c := range d.categorical {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &ColumnNotFoundError{Column: name}
}

// ColumnNames returns all column names in insertion order,
// continuous first.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, 0, len(d.continuous)+len(d.categorical))
	for _, c := range d.continuous {
		names = append(names, c.Name)
	}
	for _, c := range d.categorical {
		names = append(names, c.Name)
	}
	return names
}

// ColumnKindOf reports the kind of a named column.
func (d *Dataset) ColumnKindOf(name string) (ColumnKind, error) {
	for _, c := range d.continuous {
		if c.Name == name {
			return ColumnContinuous, nil
		}
	}
	for _, c := range d.categorical {
		if c.Name == name {
			return ColumnCategorical, nil
		}
	}
	return ColumnContinuous, &ColumnNotFoundError{Column: name}
}
