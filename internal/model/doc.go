// Package model defines the core domain types shared between training and
// inference: labels, samples, datasets, predictions, and the training-run
// report that the trainer pipeline accumulates.
//
// Design decision: These types live in their own package so that feature
// extraction, training, persistence, and serving can all depend on them
// without depending on each other. The package has no dependencies outside
// the standard library.
package model
