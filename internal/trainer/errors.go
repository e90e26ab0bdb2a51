package trainer

import "errors"

// Training errors.
var (
	// ErrRowExtraction is returned when feature extraction fails for a
	// dataset row. The wrapping error names the row and the cause.
	ErrRowExtraction = errors.New("feature extraction failed for dataset row")

	// ErrInsufficientData is returned when the training partition contains
	// fewer than two classes after the split; a classifier fit is
	// undefined in that case.
	ErrInsufficientData = errors.New("training partition must contain both classes")

	// ErrInvalidTestFraction is returned when the test fraction is outside
	// the open interval (0, 1).
	ErrInvalidTestFraction = errors.New("test fraction must be between 0 and 1 exclusive")

	// ErrNotFitted is returned when a step requiring a fitted classifier
	// runs before the fit step.
	ErrNotFitted = errors.New("pipeline has no fitted classifier")
)
