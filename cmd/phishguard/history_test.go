package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/phishguard/phishguard/internal/history"
	"github.com/phishguard/phishguard/internal/model"
)

// populatedHistoryDir creates a history database with the given runs and
// returns its directory.
func populatedHistoryDir(t *testing.T, runs ...*model.TrainingRun) string {
	t.Helper()

	dir := t.TempDir()
	db, err := history.Open(dir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open history database: %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	for _, run := range runs {
		if _, err := db.SaveRun(context.Background(), run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	return dir
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "10" {
			t.Errorf("expected default '10', got %q", flag.DefValue)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has db-dir flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Fatal("expected db-dir flag")
		}
	})
}

// TestRunHistoryCmd tests listing through the command.
func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	sampleRun := func(dataset, digest string, accuracy float64) *model.TrainingRun {
		return &model.TrainingRun{
			DatasetPath:    dataset,
			ClassifierKind: "gradient-boosting",
			Seed:           42,
			TestFraction:   0.2,
			TrainCount:     80,
			TestCount:      20,
			Accuracy:       accuracy,
			ArtifactDigest: digest,
		}
	}

	t.Run("reports empty history without creating a database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"history", "--db-dir", dir})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("history command failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No training runs recorded yet.") {
			t.Errorf("expected empty-history message, got %q", buf.String())
		}
	})

	t.Run("lists recorded runs as a table", func(t *testing.T) {
		t.Parallel()

		dir := populatedHistoryDir(t,
			sampleRun("first.csv", "aaaa1111bbbb2222cccc", 0.91),
			sampleRun("second.csv", "dddd3333eeee4444ffff", 0.95),
		)

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"history", "--db-dir", dir})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("history command failed: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "first.csv") || !strings.Contains(output, "second.csv") {
			t.Errorf("expected both datasets listed, got %q", output)
		}
		if !strings.Contains(output, "gradient-boosting") {
			t.Errorf("expected classifier column, got %q", output)
		}
		if !strings.Contains(output, "aaaa1111bbbb") {
			t.Errorf("expected truncated digest, got %q", output)
		}
		if strings.Contains(output, "aaaa1111bbbb2222") {
			t.Errorf("expected digest truncated to 12 characters, got %q", output)
		}
	})

	t.Run("outputs JSON run list", func(t *testing.T) {
		t.Parallel()

		dir := populatedHistoryDir(t, sampleRun("data.csv", "abc123", 0.9))

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"history", "--json", "--db-dir", dir})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("history command failed: %v", err)
		}

		var records []history.RunRecord
		if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
			t.Fatalf("expected valid JSON, got error: %v (output %q)", err, buf.String())
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].DatasetPath != "data.csv" {
			t.Errorf("expected dataset 'data.csv', got %q", records[0].DatasetPath)
		}
	})

	t.Run("applies the limit flag", func(t *testing.T) {
		t.Parallel()

		dir := populatedHistoryDir(t,
			sampleRun("a.csv", "d1", 0.9),
			sampleRun("b.csv", "d2", 0.9),
			sampleRun("c.csv", "d3", 0.9),
		)

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"history", "--json", "--limit", "2", "--db-dir", dir})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("history command failed: %v", err)
		}

		var records []history.RunRecord
		if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
			t.Fatalf("expected valid JSON, got error: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records with limit 2, got %d", len(records))
		}
	})
}
