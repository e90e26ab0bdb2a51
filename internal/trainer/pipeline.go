package trainer

import (
	"context"
	"log/slog"

	"github.com/phishguard/phishguard/internal/model"
)

// Step is one stage of the training pipeline. Steps execute in sequence,
// each reading and extending the shared TrainingRun.
//
// Design decision: An interface rather than function types, because steps
// carry configuration (extractor lists, classifier parameters, artifact
// store) and a Name() for logging. This mirrors how each stage of the run
// is observable and replaceable in isolation.
type Step interface {
	// Do executes the stage. A returned error aborts the whole run;
	// stages never record partial results and continue.
	Do(ctx context.Context, run *model.TrainingRun) error

	// Name returns the stage name for logging and run bookkeeping.
	Name() string
}

// Pipeline executes training steps in order over a single TrainingRun.
// Unlike a scan that may tolerate partial results, training is all or
// nothing: the first failing step aborts the run so no partial artifact is
// ever persisted.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPipelineLogger sets a custom logger for the pipeline.
func WithPipelineLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an empty Pipeline. Steps are added with AddSteps.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all steps in sequence, stopping on the first error.
//
// The context is checked before each step, so cancellation takes effect at
// stage boundaries (notably after the split, before the fit). Steps with
// internal concurrency also observe the context themselves.
func (p *Pipeline) Execute(ctx context.Context, run *model.TrainingRun) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("training cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"dataset", run.DatasetPath,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"dataset", run.DatasetPath,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed", "step", step.Name())
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}
