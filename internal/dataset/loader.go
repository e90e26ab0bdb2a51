package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phishguard/phishguard/internal/model"
)

// Default column names looked up in the CSV header.
const (
	// URLColumn is the name of the column holding the raw URL string.
	URLColumn = "URL"

	// LabelColumn is the name of the column holding the label value.
	LabelColumn = "Label"
)

// Load reads a labeled URL dataset from a CSV file.
// See Read for the format contract.
func Load(path string) (model.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a labeled URL dataset from CSV content.
//
// The first row is the header. It must contain a "URL" and a "Label" column
// (matched case-insensitively, whitespace trimmed); any additional columns
// are ignored. Each data row yields one Sample. Rows with a label that does
// not parse fail the whole load with model.ErrInvalidLabel wrapped with the
// row number: a dataset with unreadable labels is a data problem to surface,
// not to paper over.
//
// Returns ErrEmptyDataset when no data rows are present and
// ErrMissingColumn when a required column is absent.
func Read(r io.Reader) (model.Dataset, error) {
	reader := csv.NewReader(r)
	// Rows in the wild sometimes carry trailing columns; tolerate ragged
	// records and index only the columns we need.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	urlIdx, labelIdx := -1, -1
	for i, name := range header {
		switch {
		case strings.EqualFold(strings.TrimSpace(name), URLColumn):
			urlIdx = i
		case strings.EqualFold(strings.TrimSpace(name), LabelColumn):
			labelIdx = i
		}
	}
	if urlIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, URLColumn)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, LabelColumn)
	}

	var ds model.Dataset
	row := 1 // header was row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}
		row++

		if urlIdx >= len(record) || labelIdx >= len(record) {
			return nil, fmt.Errorf("row %d has %d columns, need at least %d: %w",
				row, len(record), max(urlIdx, labelIdx)+1, ErrMissingColumn)
		}

		label, err := model.ParseLabel(record[labelIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w (value %q)", row, err, record[labelIdx])
		}

		ds = append(ds, model.Sample{
			URL:   strings.TrimSpace(record[urlIdx]),
			Label: label,
		})
	}

	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}
