package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDataset is returned when training is requested without a dataset.
	ErrNoDataset = errors.New("no dataset specified: provide the path of a labeled CSV file")

	// ErrInvalidTestFraction is returned when the holdout fraction is not
	// strictly between 0 and 1. A fraction of 0 leaves nothing to evaluate
	// on; 1 leaves nothing to train on.
	ErrInvalidTestFraction = errors.New("invalid test fraction: must be between 0 and 1 exclusive")

	// ErrInvalidJobs is returned when the worker count is negative.
	// Use 0 to select the CPU count.
	ErrInvalidJobs = errors.New("invalid jobs: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidAddr is returned when the serve address is empty.
	ErrInvalidAddr = errors.New("invalid listen address: must be host:port")
)
