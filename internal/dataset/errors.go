package dataset

import "errors"

// Dataset loading errors.
var (
	// ErrEmptyDataset is returned when the file contains a header but no
	// data rows, or no rows at all.
	ErrEmptyDataset = errors.New("dataset contains no rows")

	// ErrMissingColumn is returned when the header lacks a URL or Label column.
	ErrMissingColumn = errors.New("dataset is missing a required column")
)
