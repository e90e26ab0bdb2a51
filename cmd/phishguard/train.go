package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/history"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/report"
	"github.com/phishguard/phishguard/internal/trainer"
)

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <dataset.csv>",
		Short: "Train a phishing detection model from a labeled dataset",
		Long: `Train fits a tree-ensemble classifier on a labeled URL dataset.

The dataset is a CSV file with a URL column and a Label column, where
label 1 marks phishing URLs and label 0 marks legitimate ones. Features
are extracted from each URL, a holdout fraction is evaluated, and the
fitted model is persisted as the active model artifact. Every completed
run is also recorded in the training history database.

Examples:
  # Train with defaults (gradient boosting, 20% holdout, seed 42)
  phishguard train dataset.csv

  # Train a random forest with a custom split
  phishguard train --classifier random-forest --test-fraction 0.3 dataset.csv

  # Write a Markdown report next to the terminal output
  phishguard train --markdown --output report.md dataset.csv

Configuration file (.phishguard) example:
  classifier: random-forest
  seed: 7
  shorteners:
    - bit.ly
    - is.gd
  suspicious_tlds:
    - .tk
    - .zip`,
		Args: cobra.ExactArgs(1),
		RunE: runTrainCmd,
	}

	// Training flags
	cmd.Flags().StringP("classifier", "k", config.DefaultClassifier,
		"Ensemble strategy: gradient-boosting or random-forest")
	cmd.Flags().Float64P("test-fraction", "f", config.DefaultTestFraction,
		"Fraction of samples held out for evaluation (0 < f < 1)")
	cmd.Flags().Int64P("seed", "s", config.DefaultSeed,
		"RNG seed for the train/test split and tree fitting")
	cmd.Flags().Int("jobs", 0,
		"Worker parallelism for extraction and forest fitting (0 = CPU count)")
	cmd.Flags().Bool("skip-bad-rows", false,
		"Drop rows whose URL fails feature extraction instead of aborting")

	// Artifact flags
	cmd.Flags().String("model", "",
		"Model artifact output path (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path in addition to stdout")

	return cmd
}

// runTrainCmd executes the train command.
func runTrainCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildTrainConfig(cmd, args)
	if err != nil {
		return err
	}

	if cfg.DatasetPath == "" {
		return config.ErrNoDataset
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	kind, err := classifier.ParseKind(cfg.Classifier)
	if err != nil {
		return err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	return runTrain(ctx, cfg, kind, logger)
}

// buildTrainConfig creates a Config from cobra command flags.
// CLI flags the user set explicitly win over config file values, which win
// over defaults.
func buildTrainConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.DatasetPath = args[0]

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadFileConfig(cfg); err != nil {
		return nil, err
	}

	// Flag values override file values only when the flag was set.
	if cmd.Flags().Changed("classifier") || cfg.Classifier == "" {
		if cfg.Classifier, err = cmd.Flags().GetString("classifier"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("test-fraction") {
		if cfg.TestFraction, err = cmd.Flags().GetFloat64("test-fraction"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		if cfg.Seed, err = cmd.Flags().GetInt64("seed"); err != nil {
			return nil, err
		}
	}

	cfg.Jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	cfg.SkipBadRows, err = cmd.Flags().GetBool("skip-bad-rows")
	if err != nil {
		return nil, err
	}
	cfg.ModelPath, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Runs are always recorded for provenance
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runTrain executes the training run, prints the report, and records the
// run in the history database.
func runTrain(ctx context.Context, cfg *config.Config, kind classifier.Kind, logger *slog.Logger) error {
	store := artifact.NewStore(cfg.ModelPath)

	opts := []trainer.TrainerOption{
		trainer.WithKind(kind),
		trainer.WithSeed(cfg.Seed),
		trainer.WithTestFraction(cfg.TestFraction),
		trainer.WithExtractor(buildExtractor(cfg)),
		trainer.WithLogger(logger),
	}
	if cfg.Jobs > 0 {
		opts = append(opts,
			trainer.WithJobs(cfg.Jobs),
			trainer.WithClassifierOptions(classifier.WithJobs(cfg.Jobs)),
		)
	}
	if cfg.SkipBadRows {
		opts = append(opts, trainer.WithSkipBadRows(true))
	}

	fmt.Printf("Training %s model on %s...\n", kind, cfg.DatasetPath)
	startTime := time.Now()

	run, err := trainer.New(store, opts...).Run(ctx, cfg.DatasetPath)
	if err != nil {
		return err
	}

	fmt.Printf("Training completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, run); err != nil {
		logger.Error("report failed", "dataset", cfg.DatasetPath, "error", err)
	}

	if err := saveRun(ctx, cfg, run, logger); err != nil {
		logger.Error("failed to record training run", "error", err)
	}
	return nil
}

// outputReport writes the training report in the requested format to
// stdout and, when configured, to the report file.
func outputReport(cfg *config.Config, run *model.TrainingRun) error {
	outputs := []io.Writer{os.Stdout}

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort close on read-only path
		outputs = append(outputs, f)
	}

	writers := make([]report.Writer, 0, len(outputs))
	for _, out := range outputs {
		switch {
		case cfg.JSONReport:
			writers = append(writers, report.NewJSONWriter(out,
				report.WithPrettyPrint(), report.WithVersion(getVersion())))
		case cfg.MarkdownReport:
			writers = append(writers, report.NewMarkdownWriter(out))
		default:
			writers = append(writers, report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)))
		}
	}

	_, err := report.NewMultiWriter(writers...).Write(run)
	return err
}

// saveRun records the completed run in the history database.
func saveRun(ctx context.Context, cfg *config.Config, run *model.TrainingRun, logger *slog.Logger) error {
	db, err := history.Open(cfg.DBDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort close

	id, err := db.SaveRun(ctx, run)
	if err != nil {
		return err
	}

	logger.Info("training run recorded", "id", id, "db", db.Path())
	return nil
}
