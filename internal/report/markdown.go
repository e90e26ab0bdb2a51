package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/phishguard/phishguard/internal/model"
)

// MarkdownWriter outputs training runs in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.TrainingRun) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeEvaluation(md, run)
	w.writeConfusion(md, run)
	w.writeImportances(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run parameters.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.TrainingRun) {
	md.H1("Training Run Report")
	md.PlainText("")

	dataset := run.DatasetPath
	if dataset == "" {
		dataset = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dataset", "`" + dataset + "`"},
			{"Classifier", run.ClassifierKind},
			{"Seed", strconv.FormatInt(run.Seed, 10)},
			{"Test Fraction", fmt.Sprintf("%.2f", run.TestFraction)},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Training Samples", strconv.Itoa(run.TrainCount)},
			{"Holdout Samples", strconv.Itoa(run.TestCount)},
		},
	})
	md.PlainText("")
}

// writeEvaluation writes the holdout metrics section with an alert
// reflecting the model quality.
func (w *MarkdownWriter) writeEvaluation(md *markdown.Markdown, run *model.TrainingRun) {
	md.H2("Evaluation")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Accuracy", fmt.Sprintf("%.2f%%", run.Accuracy*100)},
			{"Precision", fmt.Sprintf("%.2f%%", run.Confusion.Precision()*100)},
			{"Recall", fmt.Sprintf("%.2f%%", run.Confusion.Recall()*100)},
		},
	})
	md.PlainText("")

	switch {
	case run.Accuracy >= 0.9:
		md.Tip(fmt.Sprintf("Holdout accuracy %.2f%%.", run.Accuracy*100))
	case run.Accuracy >= 0.75:
		md.Note(fmt.Sprintf("Holdout accuracy %.2f%%. Consider more training data or parameter tuning.", run.Accuracy*100))
	default:
		md.Warningf("Holdout accuracy %.2f%% is low. The model may not be usable for real verdicts.", run.Accuracy*100)
	}
	md.PlainText("")
}

// writeConfusion writes the confusion matrix with a distribution chart.
// Phishing (label 1) is the positive class.
func (w *MarkdownWriter) writeConfusion(md *markdown.Markdown, run *model.TrainingRun) {
	m := run.Confusion

	md.H2("Confusion Matrix")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"True Positive (phishing caught)", strconv.Itoa(m.TruePositive)},
			{"True Negative (legitimate passed)", strconv.Itoa(m.TrueNegative)},
			{"False Positive (legitimate flagged)", strconv.Itoa(m.FalsePositive)},
			{"False Negative (phishing missed)", strconv.Itoa(m.FalseNegative)},
		},
	})
	md.PlainText("")

	if m.Total() > 0 {
		w.writePieChart(md, m)
	}
}

// writePieChart writes a mermaid pie chart of holdout outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, m model.ConfusionMatrix) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Holdout Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if m.TruePositive > 0 {
		chart.LabelAndIntValue("True Positive", uint64(m.TruePositive))
	}
	if m.TrueNegative > 0 {
		chart.LabelAndIntValue("True Negative", uint64(m.TrueNegative))
	}
	if m.FalsePositive > 0 {
		chart.LabelAndIntValue("False Positive", uint64(m.FalsePositive))
	}
	if m.FalseNegative > 0 {
		chart.LabelAndIntValue("False Negative", uint64(m.FalseNegative))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeImportances writes the feature importance table.
func (w *MarkdownWriter) writeImportances(md *markdown.Markdown, run *model.TrainingRun) {
	md.H2("Feature Importances")
	md.PlainText("")

	if len(run.Importances) == 0 {
		md.PlainText("No importance data recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Importances))
	for i, imp := range run.Importances {
		rows[i] = []string{imp.Name, fmt.Sprintf("%.4f", imp.Weight)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Feature", "Weight"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by phishguard*")
}
