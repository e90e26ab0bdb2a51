package classifier

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Fitting errors.
var (
	// ErrNoSamples is returned when Fit is called with no training rows.
	ErrNoSamples = errors.New("no training samples")

	// ErrSingleClass is returned when the training rows contain only one
	// class; a binary classifier fit is undefined in that case.
	ErrSingleClass = errors.New("training data must contain both classes")

	// ErrNotFitted is returned when PredictProba is called before Fit
	// or before the model state has been decoded from an artifact.
	ErrNotFitted = errors.New("classifier is not fitted")

	// ErrDimensionMismatch is returned when a vector's length does not
	// match the number of features the model was fitted on.
	ErrDimensionMismatch = errors.New("feature vector has wrong dimension")
)

// Classifier is a binary ensemble classifier over fixed-schema feature
// vectors. Implementations are immutable after Fit and safe for concurrent
// PredictProba calls.
type Classifier interface {
	// Fit trains the ensemble on the given vectors and 0/1 labels.
	// The context is checked between trees so a long fit can be cancelled.
	Fit(ctx context.Context, vectors [][]float64, labels []int) error

	// PredictProba returns the class probability distribution for a vector:
	// index 0 is the legitimate probability, index 1 the phishing
	// probability. The two values sum to 1.
	PredictProba(vector []float64) ([]float64, error)

	// FeatureImportances returns the per-feature contribution weights of the
	// fitted ensemble, normalized to sum to 1. The slice is indexed in
	// schema order.
	FeatureImportances() []float64

	// Kind identifies the ensemble strategy.
	Kind() Kind
}

// options holds the tunable parameters shared by both ensemble kinds.
type options struct {
	trees        int
	maxDepth     int
	minLeaf      int
	learningRate float64
	seed         int64
	jobs         int
}

// Option configures a classifier at construction time.
type Option func(*options)

// WithTrees sets the number of trees in the ensemble. Default 100.
func WithTrees(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.trees = n
		}
	}
}

// WithMaxDepth sets the maximum tree depth. Defaults: 3 for gradient
// boosting (shallow trees, many rounds), 8 for random forests.
func WithMaxDepth(d int) Option {
	return func(o *options) {
		if d > 0 {
			o.maxDepth = d
		}
	}
}

// WithMinLeaf sets the minimum number of samples per leaf. Default 1.
func WithMinLeaf(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minLeaf = n
		}
	}
}

// WithLearningRate sets the gradient-boosting shrinkage. Default 0.1.
// Ignored by random forests.
func WithLearningRate(lr float64) Option {
	return func(o *options) {
		if lr > 0 {
			o.learningRate = lr
		}
	}
}

// WithSeed sets the RNG seed used for bootstrap sampling and feature
// subsampling. Default 42.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithJobs sets the number of goroutines used to fit forest trees in
// parallel. Default is the number of CPUs. Gradient boosting is inherently
// sequential across trees and ignores this.
func WithJobs(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.jobs = n
		}
	}
}

// New creates a classifier of the given kind.
func New(kind Kind, opts ...Option) (Classifier, error) {
	o := options{
		trees:        100,
		minLeaf:      1,
		learningRate: 0.1,
		seed:         42,
		jobs:         runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case KindGradientBoosting:
		if o.maxDepth == 0 {
			o.maxDepth = 3
		}
		return newGradientBoosting(o), nil
	case KindRandomForest:
		if o.maxDepth == 0 {
			o.maxDepth = 8
		}
		return newRandomForest(o), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// validateTrainingData performs the shared sanity checks before fitting.
func validateTrainingData(vectors [][]float64, labels []int) error {
	if len(vectors) == 0 {
		return ErrNoSamples
	}
	if len(vectors) != len(labels) {
		return fmt.Errorf("%d vectors but %d labels: %w", len(vectors), len(labels), ErrDimensionMismatch)
	}

	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return ErrDimensionMismatch
		}
	}

	havePos, haveNeg := false, false
	for _, y := range labels {
		if y == 1 {
			havePos = true
		} else {
			haveNeg = true
		}
	}
	if !havePos || !haveNeg {
		return ErrSingleClass
	}
	return nil
}
