package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/dataset"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
)

// fitted carries the trained classifier between the fit, evaluate, and
// persist steps. The TrainingRun itself stays free of classifier types so
// the model package has no dependency on the ensemble implementation.
type fitted struct {
	clf classifier.Classifier
}

// LoadStep reads the labeled dataset from run.DatasetPath.
// If the run already carries an in-memory dataset, the step is a no-op;
// this is how programmatic callers and tests inject samples directly.
type LoadStep struct{}

// Name returns the step name.
func (s *LoadStep) Name() string { return "load" }

// Do loads the dataset.
func (s *LoadStep) Do(_ context.Context, run *model.TrainingRun) error {
	if run.Dataset.Len() > 0 {
		return nil
	}

	ds, err := dataset.Load(run.DatasetPath)
	if err != nil {
		return err
	}
	run.Dataset = ds
	return nil
}

// ExtractStep materializes a feature vector per dataset row.
//
// Extraction is pure, so rows are processed in parallel as an optimization;
// results land in pre-sized slices indexed by row, which keeps the output
// order identical to sequential extraction.
type ExtractStep struct {
	extractor *feature.Extractor
	jobs      int
	skipBad   bool
	logger    *slog.Logger
}

// ExtractOption configures an ExtractStep.
type ExtractOption func(*ExtractStep)

// WithExtractJobs bounds extraction parallelism. Default is the CPU count.
func WithExtractJobs(n int) ExtractOption {
	return func(s *ExtractStep) {
		if n > 0 {
			s.jobs = n
		}
	}
}

// WithExtractSkipBadRows drops rows whose URL fails extraction instead of
// aborting the run. Off by default: silently dropping rows trains on a
// biased sample, so skipping must be an explicit choice.
func WithExtractSkipBadRows(skip bool) ExtractOption {
	return func(s *ExtractStep) {
		s.skipBad = skip
	}
}

// WithExtractLogger sets the step logger.
func WithExtractLogger(logger *slog.Logger) ExtractOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates the extraction step.
func NewExtractStep(extractor *feature.Extractor, opts ...ExtractOption) *ExtractStep {
	s := &ExtractStep{
		extractor: extractor,
		jobs:      runtime.NumCPU(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string { return "extract" }

// Do extracts features for every dataset row.
// By default any row failure aborts the run with ErrRowExtraction naming
// the row; with WithSkipBadRows the failing rows are dropped and counted.
func (s *ExtractStep) Do(ctx context.Context, run *model.TrainingRun) error {
	if run.Dataset.Len() == 0 {
		return dataset.ErrEmptyDataset
	}

	run.FeatureNames = feature.SchemaNames()

	n := run.Dataset.Len()
	vectors := make([][]float64, n)
	rowErrs := make([]error, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	for i, sample := range run.Dataset {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			v, err := s.extractor.Extract(sample.URL)
			if err != nil {
				if s.skipBad {
					rowErrs[i] = err
					return nil
				}
				return fmt.Errorf("%w %d: %w", ErrRowExtraction, i+1, err)
			}
			vectors[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	run.Vectors = make([][]float64, 0, n)
	run.Labels = make([]model.Label, 0, n)
	skipped := 0
	for i := range vectors {
		if rowErrs[i] != nil {
			skipped++
			continue
		}
		run.Vectors = append(run.Vectors, vectors[i])
		run.Labels = append(run.Labels, run.Dataset[i].Label)
	}

	if skipped > 0 {
		s.logger.Warn("skipped rows with failing extraction", "skipped", skipped, "total", n)
	}
	if len(run.Vectors) == 0 {
		return dataset.ErrEmptyDataset
	}
	return nil
}

// SplitStep partitions the rows into train and test sets using the run's
// seed and test fraction, so a run is reproducible end to end.
type SplitStep struct{}

// Name returns the step name.
func (s *SplitStep) Name() string { return "split" }

// Do shuffles row indices with the run seed and carves off the test
// fraction. Fails with ErrInsufficientData when the training partition
// does not contain both classes.
func (s *SplitStep) Do(_ context.Context, run *model.TrainingRun) error {
	if run.TestFraction <= 0 || run.TestFraction >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidTestFraction, run.TestFraction)
	}

	n := len(run.Vectors)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(run.Seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testCount := int(math.Round(float64(n) * run.TestFraction))
	if testCount < 1 {
		testCount = 1
	}
	if testCount >= n {
		testCount = n - 1
	}

	run.TestIndices = indices[:testCount]
	run.TrainIndices = indices[testCount:]
	run.TrainCount = len(run.TrainIndices)
	run.TestCount = len(run.TestIndices)

	havePos, haveNeg := false, false
	for _, i := range run.TrainIndices {
		if run.Labels[i].IsPhishing() {
			havePos = true
		} else {
			haveNeg = true
		}
	}
	if !havePos || !haveNeg {
		return fmt.Errorf("%w (train size %d)", ErrInsufficientData, run.TrainCount)
	}
	return nil
}

// FitStep fits the selected ensemble classifier on the training partition.
type FitStep struct {
	holder  *fitted
	kind    classifier.Kind
	options []classifier.Option
}

// NewFitStep creates the fit step. Extra classifier options (tree count,
// depth, learning rate) are passed through untouched.
func NewFitStep(holder *fitted, kind classifier.Kind, opts ...classifier.Option) *FitStep {
	return &FitStep{holder: holder, kind: kind, options: opts}
}

// Name returns the step name.
func (s *FitStep) Name() string { return "fit" }

// Do fits the classifier on the training partition.
func (s *FitStep) Do(ctx context.Context, run *model.TrainingRun) error {
	opts := append([]classifier.Option{classifier.WithSeed(run.Seed)}, s.options...)
	clf, err := classifier.New(s.kind, opts...)
	if err != nil {
		return err
	}

	vectors := make([][]float64, run.TrainCount)
	labels := make([]int, run.TrainCount)
	for k, i := range run.TrainIndices {
		vectors[k] = run.Vectors[i]
		labels[k] = int(run.Labels[i])
	}

	if err := clf.Fit(ctx, vectors, labels); err != nil {
		return fmt.Errorf("failed to fit %s classifier: %w", s.kind, err)
	}

	s.holder.clf = clf
	run.ClassifierKind = s.kind.String()
	return nil
}

// EvaluateStep scores the test partition and records holdout accuracy,
// the confusion matrix, and feature importances on the run.
type EvaluateStep struct {
	holder *fitted
}

// NewEvaluateStep creates the evaluation step.
func NewEvaluateStep(holder *fitted) *EvaluateStep {
	return &EvaluateStep{holder: holder}
}

// Name returns the step name.
func (s *EvaluateStep) Name() string { return "evaluate" }

// Do computes holdout metrics.
func (s *EvaluateStep) Do(_ context.Context, run *model.TrainingRun) error {
	if s.holder.clf == nil {
		return ErrNotFitted
	}

	var m model.ConfusionMatrix
	for _, i := range run.TestIndices {
		probs, err := s.holder.clf.PredictProba(run.Vectors[i])
		if err != nil {
			return fmt.Errorf("failed to score test row: %w", err)
		}

		predicted := model.LabelLegitimate
		if probs[1] > probs[0] {
			predicted = model.LabelPhishing
		}

		switch {
		case predicted.IsPhishing() && run.Labels[i].IsPhishing():
			m.TruePositive++
		case !predicted.IsPhishing() && !run.Labels[i].IsPhishing():
			m.TrueNegative++
		case predicted.IsPhishing():
			m.FalsePositive++
		default:
			m.FalseNegative++
		}
	}

	run.Confusion = m
	run.Accuracy = m.Accuracy()

	weights := s.holder.clf.FeatureImportances()
	importances := make([]model.FeatureImportance, 0, len(weights))
	for i, w := range weights {
		name := ""
		if i < len(run.FeatureNames) {
			name = run.FeatureNames[i]
		}
		importances = append(importances, model.FeatureImportance{Name: name, Weight: w})
	}
	sort.SliceStable(importances, func(a, b int) bool {
		return importances[a].Weight > importances[b].Weight
	})
	run.Importances = importances
	return nil
}

// PersistStep writes the model artifact via the artifact store. It runs
// last: every earlier failure leaves the store untouched.
type PersistStep struct {
	holder *fitted
	store  *artifact.Store
}

// NewPersistStep creates the persist step.
func NewPersistStep(holder *fitted, store *artifact.Store) *PersistStep {
	return &PersistStep{holder: holder, store: store}
}

// Name returns the step name.
func (s *PersistStep) Name() string { return "persist" }

// Do encodes the fitted classifier and persists the artifact.
func (s *PersistStep) Do(_ context.Context, run *model.TrainingRun) error {
	if s.holder.clf == nil {
		return ErrNotFitted
	}

	encoded, err := classifier.Encode(s.holder.clf)
	if err != nil {
		return err
	}

	art := &artifact.Artifact{
		Kind:         s.holder.clf.Kind(),
		FeatureNames: run.FeatureNames,
		TrainedAt:    time.Now().UTC(),
		Accuracy:     run.Accuracy,
		Seed:         run.Seed,
		TestFraction: run.TestFraction,
		Model:        encoded,
	}

	digest, err := s.store.Save(art)
	if err != nil {
		return err
	}

	run.ArtifactPath = s.store.Path()
	run.ArtifactDigest = digest
	run.FinishedAt = time.Now()
	return nil
}
