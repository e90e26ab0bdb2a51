package feature

import "errors"

// Extraction errors.
//
// Design decision: The extractor never recovers internally. A URL that is
// empty or fails the authority/path split surfaces immediately to the
// caller; silently producing features for garbage input would poison both
// training and inference.
var (
	// ErrEmptyURL is returned when the input URL is an empty string.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidURL is returned when the input cannot be parsed as a URI.
	ErrInvalidURL = errors.New("url is not parseable")
)
