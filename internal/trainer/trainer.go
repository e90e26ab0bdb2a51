package trainer

import (
	"context"
	"log/slog"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
)

// Default training parameters, matching the reference system.
const (
	// DefaultTestFraction holds out 20% of rows for evaluation.
	DefaultTestFraction = 0.2

	// DefaultSeed fixes the split and fit RNG for reproducible runs.
	DefaultSeed = 42
)

// Trainer assembles and runs the default training pipeline.
type Trainer struct {
	kind           classifier.Kind
	seed           int64
	testFraction   float64
	extractor      *feature.Extractor
	store          *artifact.Store
	logger         *slog.Logger
	jobs           int
	skipBad        bool
	classifierOpts []classifier.Option
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithKind selects the ensemble strategy. Default gradient boosting.
func WithKind(kind classifier.Kind) TrainerOption {
	return func(t *Trainer) {
		t.kind = kind
	}
}

// WithSeed sets the RNG seed for the split and the fit. Default 42.
func WithSeed(seed int64) TrainerOption {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithTestFraction sets the holdout fraction. Default 0.2.
func WithTestFraction(f float64) TrainerOption {
	return func(t *Trainer) {
		t.testFraction = f
	}
}

// WithExtractor sets a custom feature extractor (for replaceable
// shortener/TLD lists). Default is the stock extractor.
func WithExtractor(e *feature.Extractor) TrainerOption {
	return func(t *Trainer) {
		t.extractor = e
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithJobs bounds extraction parallelism.
func WithJobs(n int) TrainerOption {
	return func(t *Trainer) {
		t.jobs = n
	}
}

// WithSkipBadRows drops rows that fail extraction instead of aborting.
func WithSkipBadRows(skip bool) TrainerOption {
	return func(t *Trainer) {
		t.skipBad = skip
	}
}

// WithClassifierOptions passes extra options (tree count, depth, learning
// rate, fit parallelism) to the classifier.
func WithClassifierOptions(opts ...classifier.Option) TrainerOption {
	return func(t *Trainer) {
		t.classifierOpts = opts
	}
}

// New creates a Trainer that persists artifacts to the given store.
func New(store *artifact.Store, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		kind:         classifier.KindGradientBoosting,
		seed:         DefaultSeed,
		testFraction: DefaultTestFraction,
		store:        store,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.extractor == nil {
		t.extractor = feature.NewExtractor()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Run executes a full training run over the dataset at the given path and
// returns the completed TrainingRun. On any stage error the run aborts and
// no artifact is written.
func (t *Trainer) Run(ctx context.Context, datasetPath string) (*model.TrainingRun, error) {
	run := model.NewTrainingRun(datasetPath)
	return run, t.execute(ctx, run)
}

// RunDataset is Run for an already-loaded in-memory dataset.
func (t *Trainer) RunDataset(ctx context.Context, ds model.Dataset) (*model.TrainingRun, error) {
	run := model.NewTrainingRun("")
	run.Dataset = ds
	return run, t.execute(ctx, run)
}

// execute builds the default pipeline and runs it.
func (t *Trainer) execute(ctx context.Context, run *model.TrainingRun) error {
	run.Seed = t.seed
	run.TestFraction = t.testFraction

	extractOpts := []ExtractOption{WithExtractLogger(t.logger)}
	if t.jobs > 0 {
		extractOpts = append(extractOpts, WithExtractJobs(t.jobs))
	}
	if t.skipBad {
		extractOpts = append(extractOpts, WithExtractSkipBadRows(true))
	}

	holder := &fitted{}
	p := NewPipeline(WithPipelineLogger(t.logger))
	p.AddSteps(
		&LoadStep{},
		NewExtractStep(t.extractor, extractOpts...),
		&SplitStep{},
		NewFitStep(holder, t.kind, t.classifierOpts...),
		NewEvaluateStep(holder),
		NewPersistStep(holder, t.store),
	)

	return p.Execute(ctx, run)
}
