package artifact

import "errors"

// Artifact store errors.
var (
	// ErrModelNotFound is returned when no artifact exists at the store path.
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrModelPersist is returned when writing the artifact fails.
	ErrModelPersist = errors.New("failed to persist model artifact")

	// ErrArtifactCorrupt is returned when an artifact exists but cannot be
	// decoded.
	ErrArtifactCorrupt = errors.New("model artifact is corrupt")

	// ErrSchemaMismatch is returned when an artifact's feature schema does
	// not match the extractor schema of the running process. Scoring a
	// vector against a drifted schema silently corrupts predictions, so
	// this is checked, never assumed.
	ErrSchemaMismatch = errors.New("model feature schema does not match extractor schema")
)
