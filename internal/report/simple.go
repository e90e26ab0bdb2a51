package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/model"
)

// defaultImportanceRows bounds the feature importance listing in
// non-verbose output.
const defaultImportanceRows = 5

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the full feature importance listing instead of the
	// top entries.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in human-readable format.
func (w *SimpleWriter) Write(run *model.TrainingRun) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeMetrics(&sb, run)
	w.writeConfusion(&sb, run)
	w.writeImportances(&sb, run)
	w.writeArtifact(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run header with training parameters.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.TrainingRun) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        TRAINING RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if run.DatasetPath != "" {
		sb.WriteString(fmt.Sprintf("Dataset:       %s\n", run.DatasetPath))
	}
	sb.WriteString(fmt.Sprintf("Classifier:    %s\n", run.ClassifierKind))
	sb.WriteString(fmt.Sprintf("Seed:          %d\n", run.Seed))
	sb.WriteString(fmt.Sprintf("Test Fraction: %.2f\n", run.TestFraction))
	sb.WriteString(fmt.Sprintf("Started:       %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	if !run.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Duration:      %s\n", run.FinishedAt.Sub(run.StartedAt).Round(10*time.Millisecond)))
	}
	sb.WriteString("\n")
}

// writeMetrics writes the holdout evaluation summary.
func (w *SimpleWriter) writeMetrics(sb *strings.Builder, run *model.TrainingRun) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EVALUATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Training samples: %d\n", run.TrainCount))
	sb.WriteString(fmt.Sprintf("  Holdout samples:  %d\n", run.TestCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Accuracy:  %.2f%%\n", run.Accuracy*100))
	sb.WriteString(fmt.Sprintf("  Precision: %.2f%%\n", run.Confusion.Precision()*100))
	sb.WriteString(fmt.Sprintf("  Recall:    %.2f%%\n", run.Confusion.Recall()*100))
	sb.WriteString("\n")
}

// writeConfusion writes the holdout confusion matrix.
// Phishing (label 1) is the positive class.
func (w *SimpleWriter) writeConfusion(sb *strings.Builder, run *model.TrainingRun) {
	m := run.Confusion

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONFUSION MATRIX\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  True Positive  (phishing caught):     %d\n", m.TruePositive))
	sb.WriteString(fmt.Sprintf("  True Negative  (legitimate passed):   %d\n", m.TrueNegative))
	sb.WriteString(fmt.Sprintf("  False Positive (legitimate flagged):  %d\n", m.FalsePositive))
	sb.WriteString(fmt.Sprintf("  False Negative (phishing missed):     %d\n", m.FalseNegative))
	sb.WriteString("\n")
}

// writeImportances writes the feature importance listing.
func (w *SimpleWriter) writeImportances(sb *strings.Builder, run *model.TrainingRun) {
	if len(run.Importances) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	if w.verbose {
		sb.WriteString("FEATURE IMPORTANCES\n")
	} else {
		sb.WriteString(fmt.Sprintf("TOP %d FEATURES\n", defaultImportanceRows))
	}
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	importances := run.Importances
	if !w.verbose && len(importances) > defaultImportanceRows {
		importances = importances[:defaultImportanceRows]
	}

	for _, imp := range importances {
		sb.WriteString(fmt.Sprintf("  %-20s %.4f\n", imp.Name, imp.Weight))
	}
	sb.WriteString("\n")
}

// writeArtifact writes the persisted artifact section.
func (w *SimpleWriter) writeArtifact(sb *strings.Builder, run *model.TrainingRun) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if run.ArtifactPath != "" {
		sb.WriteString(fmt.Sprintf("Model saved to %s\n", run.ArtifactPath))
		sb.WriteString(fmt.Sprintf("Digest: %s\n", run.ArtifactDigest))
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
