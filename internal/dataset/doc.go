// Package dataset loads labeled URL datasets from CSV files.
//
// The expected input is a tabular file with at least a URL column and a
// Label column, one row per sample. Column names are matched
// case-insensitively and incidental leading/trailing whitespace in headers
// and cells is trimmed before use, because public phishing datasets are
// frequently exported with sloppy headers.
package dataset
