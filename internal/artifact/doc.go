// Package artifact persists and loads trained model artifacts.
//
// An artifact is a single JSON blob binding the fitted classifier state to
// the feature schema it was trained on, plus training metadata. The blob
// round-trips the exact decision function: loading never refits anything.
//
// Writes are atomic (temp file + rename) so a crashed or failed training
// run can never leave a truncated artifact behind, and the file is written
// with owner-only permissions. The sha256 digest of the encoded artifact
// identifies a model across the training-run history.
package artifact
