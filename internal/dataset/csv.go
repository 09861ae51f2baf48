package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ImportInfo declares how the columns of a delimited file should be loaded.
// Columns not named in either list are skipped.
type ImportInfo struct {
	ContinuousColumns  []string
	CategoricalColumns []string
}

// ImportError records one row that could not be loaded. Import keeps
// going and reports these alongside the dataset.
type ImportError struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// missingValues are cell contents treated as NaN in continuous columns.
var missingValues = map[string]bool{
	"": true, "NA": true, "N/A": true, "NAN": true, "NULL": true,
}

// ImportCSV loads a comma- or tab-delimited file with a header row.
// Continuous cells that are empty or non-numeric become NaN; a
// non-numeric cell that is not a recognized missing-value token is also
// reported as an ImportError so the caller can surface it.
func ImportCSV(filePath string, info ImportInfo) (*Dataset, []*ImportError, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = detectDelimiter(filePath)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: file has no header row", filePath)
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[strings.TrimSpace(h)] = i
	}

	for _, name := range info.ContinuousColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, nil, &ColumnNotFoundError{Column: name}
		}
	}
	for _, name := range info.CategoricalColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, nil, &ColumnNotFoundError{Column: name}
		}
	}

	rows := records[1:]
	errors := make([]*ImportError, 0)
	ds := New()

	for _, name := range info.ContinuousColumns {
		idx := colIndex[name]
		values := make([]float64, len(rows))
		for rowNum, row := range rows {
			values[rowNum] = math.NaN()
			if idx >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[idx])
			if missingValues[strings.ToUpper(cell)] {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
			if err != nil {
				errors = append(errors, &ImportError{
					Line:    rowNum + 2, // 1-based, after header
					Content: cell,
					Reason:  fmt.Sprintf("'%s': not a number", name),
				})
				continue
			}
			values[rowNum] = v
		}
		if err := ds.AddContinuousColumn(name, values); err != nil {
			return nil, nil, err
		}
	}

	intern := NewStringIntern()
	for _, name := range info.CategoricalColumns {
		idx := colIndex[name]
		labels := make([]string, len(rows))
		for rowNum, row := range rows {
			if idx >= len(row) {
				continue
			}
			labels[rowNum] = intern.Intern(strings.TrimSpace(row[idx]))
		}
		if err := ds.AddCategoricalColumn(name, labels); err != nil {
			return nil, nil, err
		}
	}

	return ds, errors, nil
}

// detectDelimiter picks tab for .tsv/.tab files, comma otherwise.
func detectDelimiter(filePath string) rune {
	lower := strings.ToLower(filePath)
	if strings.HasSuffix(lower, ".tsv") || strings.HasSuffix(lower, ".tab") {
		return '\t'
	}
	return ','
}
