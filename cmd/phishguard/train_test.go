package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
)

// writeDataset creates a small separable CSV dataset and returns its path.
func writeDataset(t *testing.T, perClass int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("URL,Label\n")
	for i := range perClass {
		fmt.Fprintf(&sb, "https://example%d.com/page,0\n", i)
		fmt.Fprintf(&sb, "http://192.168.0.%d/secure-login-verify-account-update-2024/%d9184,1\n", i%250, i)
	}

	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

// TestNewTrainCmd tests the train command creation.
func TestNewTrainCmd(t *testing.T) {
	t.Parallel()

	cmd := NewTrainCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "train <dataset.csv>" {
			t.Errorf("expected use 'train <dataset.csv>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has classifier flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("classifier")
		if flag == nil {
			t.Fatal("expected classifier flag")
		}
		if flag.Shorthand != "k" {
			t.Errorf("expected shorthand 'k', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultClassifier {
			t.Errorf("expected default %q, got %q", config.DefaultClassifier, flag.DefValue)
		}
	})

	t.Run("has test-fraction flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("test-fraction")
		if flag == nil {
			t.Fatal("expected test-fraction flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})

	t.Run("has seed flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("seed")
		if flag == nil {
			t.Fatal("expected seed flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
		if flag.DefValue != "42" {
			t.Errorf("expected default '42', got %q", flag.DefValue)
		}
	})

	t.Run("has jobs flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("jobs") == nil {
			t.Fatal("expected jobs flag")
		}
	})

	t.Run("has skip-bad-rows flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("skip-bad-rows") == nil {
			t.Fatal("expected skip-bad-rows flag")
		}
	})

	t.Run("has report format flags", func(t *testing.T) {
		t.Parallel()
		jsonFlag := cmd.Flags().Lookup("json")
		if jsonFlag == nil {
			t.Fatal("expected json flag")
		}
		if jsonFlag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", jsonFlag.Shorthand)
		}
		mdFlag := cmd.Flags().Lookup("markdown")
		if mdFlag == nil {
			t.Fatal("expected markdown flag")
		}
		if mdFlag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", mdFlag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})
}

// TestBuildTrainConfig tests configuration building from flags.
func TestBuildTrainConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewTrainCmd()
		cfg, err := buildTrainConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.DatasetPath != "data.csv" {
			t.Errorf("expected dataset 'data.csv', got %q", cfg.DatasetPath)
		}
		if cfg.Classifier != config.DefaultClassifier {
			t.Errorf("expected classifier %q, got %q", config.DefaultClassifier, cfg.Classifier)
		}
		if cfg.TestFraction != config.DefaultTestFraction {
			t.Errorf("expected test fraction %v, got %v", config.DefaultTestFraction, cfg.TestFraction)
		}
		if cfg.Seed != config.DefaultSeed {
			t.Errorf("expected seed %d, got %d", config.DefaultSeed, cfg.Seed)
		}
	})

	t.Run("builds config with custom classifier", func(t *testing.T) {
		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("classifier", "random-forest")
		cfg, err := buildTrainConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Classifier != "random-forest" {
			t.Errorf("expected classifier 'random-forest', got %q", cfg.Classifier)
		}
	})

	t.Run("builds config with custom split", func(t *testing.T) {
		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("test-fraction", "0.3")
		_ = cmd.Flags().Set("seed", "7")
		cfg, err := buildTrainConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.TestFraction != 0.3 {
			t.Errorf("expected test fraction 0.3, got %v", cfg.TestFraction)
		}
		if cfg.Seed != 7 {
			t.Errorf("expected seed 7, got %d", cfg.Seed)
		}
	})

	t.Run("config file values apply when flags unset", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".phishguard")
		content := "classifier: random-forest\nseed: 99\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildTrainConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Classifier != "random-forest" {
			t.Errorf("expected classifier 'random-forest' from file, got %q", cfg.Classifier)
		}
		if cfg.Seed != 99 {
			t.Errorf("expected seed 99 from file, got %d", cfg.Seed)
		}
	})

	t.Run("explicit flags win over config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".phishguard")
		content := "classifier: random-forest\nseed: 99\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("classifier", "gradient-boosting")
		cfg, err := buildTrainConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Classifier != "gradient-boosting" {
			t.Errorf("expected flag to win, got %q", cfg.Classifier)
		}
		if cfg.Seed != 99 {
			t.Errorf("expected seed 99 from file, got %d", cfg.Seed)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yml"))
		if _, err := buildTrainConfig(cmd, []string{"data.csv"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".phishguard")
		if err := os.WriteFile(configPath, []byte("{invalid yaml"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewTrainCmd()
		_ = cmd.Flags().Set("config", configPath)
		if _, err := buildTrainConfig(cmd, []string{"data.csv"}); err == nil {
			t.Error("expected error for invalid config file")
		}
	})
}

// TestOutputReport tests report output in each format.
func TestOutputReport(t *testing.T) {
	newRun := func() *model.TrainingRun {
		return &model.TrainingRun{
			DatasetPath:    "data.csv",
			ClassifierKind: "gradient-boosting",
			Seed:           42,
			TestFraction:   0.2,
			TrainCount:     80,
			TestCount:      20,
			Accuracy:       0.95,
		}
	}

	t.Run("writes JSON report to file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "report.json")
		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = outputPath

		if err := outputReport(cfg, newRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("expected valid JSON, got error: %v", err)
		}
	})

	t.Run("writes Markdown report to file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "report.md")
		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = outputPath

		if err := outputReport(cfg, newRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# Training Run Report") {
			t.Error("expected Markdown heading in report")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "sub", "nested", "report.txt")
		cfg := config.NewConfig()
		cfg.ReportFile = outputPath

		if err := outputReport(cfg, newRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			t.Error("expected report file in nested directory")
		}
	})
}

// TestRunTrainCmd tests the full train command against a real dataset.
func TestRunTrainCmd(t *testing.T) {
	t.Run("trains and persists a model", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		xdg.Reload()

		datasetPath := writeDataset(t, 25)
		modelPath := filepath.Join(t.TempDir(), "model.json")

		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", "--model", modelPath, datasetPath})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("train command failed: %v", err)
		}

		a, err := artifact.NewStore(modelPath).Load()
		if err != nil {
			t.Fatalf("failed to load trained artifact: %v", err)
		}
		if err := a.VerifySchema(feature.SchemaNames()); err != nil {
			t.Errorf("artifact schema mismatch: %v", err)
		}
	})

	t.Run("returns error for unknown classifier", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", "--classifier", "neural-net", "data.csv"})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for unknown classifier")
		}
	})

	t.Run("returns error for conflicting report formats", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", "--json", "--markdown", "data.csv"})

		err := rootCmd.Execute()
		if err == nil {
			t.Fatal("expected error for conflicting report formats")
		}
		if !strings.Contains(err.Error(), "conflicting report formats") {
			t.Errorf("expected 'conflicting report formats' error, got: %v", err)
		}
	})

	t.Run("returns error for invalid test fraction", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", "--test-fraction", "1.5", "data.csv"})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for invalid test fraction")
		}
	})

	t.Run("returns error for missing dataset", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		xdg.Reload()

		modelPath := filepath.Join(t.TempDir(), "model.json")
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", "--model", modelPath, filepath.Join(t.TempDir(), "missing.csv")})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for missing dataset file")
		}
	})

	t.Run("rejects empty dataset path", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train", ""})

		err := rootCmd.Execute()
		if !errors.Is(err, config.ErrNoDataset) {
			t.Errorf("expected ErrNoDataset, got %v", err)
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"train"})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for missing dataset argument")
		}
	})
}
