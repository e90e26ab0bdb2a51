// Package trainer implements the training pipeline: load a labeled URL
// dataset, extract a feature vector per row, split into train/test
// partitions, fit the selected ensemble classifier, evaluate holdout
// accuracy, and persist the model artifact.
//
// The pipeline is a sequence of Step implementations executed over a
// shared *model.TrainingRun. It always stops on the first error: a failed
// stage means no artifact is written, so a broken run can never leave a
// partial model behind. The context is checked between steps, which makes
// a run cancellable at partition boundaries without requiring mid-fit
// cancellation.
//
// Row-level extraction failures abort the whole run by default rather than
// silently dropping rows, to avoid training on a biased sample. The skip
// behavior is available but must be asked for explicitly.
package trainer
