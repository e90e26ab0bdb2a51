package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/model"
)

// trainedModelPath fits a small model on separable URLs, persists it, and
// returns the artifact path for --model.
func trainedModelPath(t *testing.T) string {
	t.Helper()

	extractor := feature.NewExtractor()
	var vectors [][]float64
	var labels []int
	for i := range 20 {
		v, err := extractor.Extract(fmt.Sprintf("https://example%d.com/page", i))
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		vectors = append(vectors, v)
		labels = append(labels, int(model.LabelLegitimate))
	}
	for i := range 20 {
		v, err := extractor.Extract(fmt.Sprintf("http://192.168.0.%d/secure-login-verify-account-update-2024/%d9184", i+1, i))
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		vectors = append(vectors, v)
		labels = append(labels, int(model.LabelPhishing))
	}

	clf, err := classifier.New(classifier.KindGradientBoosting, classifier.WithTrees(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := clf.Fit(context.Background(), vectors, labels); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	encoded, err := classifier.Encode(clf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	modelPath := filepath.Join(t.TempDir(), "model.json")
	_, err = artifact.NewStore(modelPath).Save(&artifact.Artifact{
		Kind:         clf.Kind(),
		FeatureNames: feature.SchemaNames(),
		Seed:         42,
		TestFraction: 0.2,
		Model:        encoded,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	return modelPath
}

// TestNewPredictCmd tests the predict command creation.
func TestNewPredictCmd(t *testing.T) {
	t.Parallel()

	cmd := NewPredictCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "predict <url>" {
			t.Errorf("expected use 'predict <url>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has model flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("model") == nil {
			t.Fatal("expected model flag")
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
}

// TestRunPredictCmd tests classification through the command.
func TestRunPredictCmd(t *testing.T) {
	t.Parallel()

	modelPath := trainedModelPath(t)

	t.Run("classifies a legitimate URL", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"predict", "--model", modelPath, "https://newsite.com/page"})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("predict command failed: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "LEGITIMATE") {
			t.Errorf("expected LEGITIMATE verdict, got %q", output)
		}
		if !strings.Contains(output, "Confidence:") {
			t.Errorf("expected confidence line, got %q", output)
		}
	})

	t.Run("classifies a phishing URL", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"predict", "--model", modelPath,
			"http://192.168.0.200/secure-login-verify-account-update-2024/779184"})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("predict command failed: %v", err)
		}

		if !strings.Contains(buf.String(), "PHISHING") {
			t.Errorf("expected PHISHING verdict, got %q", buf.String())
		}
	})

	t.Run("outputs JSON verdict", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"predict", "--json", "--model", modelPath, "https://newsite.com/page"})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("predict command failed: %v", err)
		}

		var result predictResult
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("expected valid JSON, got error: %v (output %q)", err, buf.String())
		}
		if result.URL != "https://newsite.com/page" {
			t.Errorf("expected echoed URL, got %q", result.URL)
		}
		if result.Confidence < 50 || result.Confidence > 100 {
			t.Errorf("expected confidence in [50,100], got %v", result.Confidence)
		}
	})

	t.Run("shows feature breakdown in verbose mode", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rootCmd := NewRootCmd()
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"predict", "--verbose", "--model", modelPath, "https://www.newsite.co.uk/page"})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("predict command failed: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Features:") {
			t.Errorf("expected feature breakdown, got %q", output)
		}
		if !strings.Contains(output, "Registered domain: newsite.co.uk") {
			t.Errorf("expected registered domain line, got %q", output)
		}
		for _, name := range feature.SchemaNames() {
			if !strings.Contains(output, name) {
				t.Errorf("expected feature %q in breakdown", name)
			}
		}
	})

	t.Run("returns error for empty URL", func(t *testing.T) {
		t.Parallel()

		rootCmd := NewRootCmd()
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"predict", "--model", modelPath, ""})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("returns error when no model exists", func(t *testing.T) {
		t.Parallel()

		rootCmd := NewRootCmd()
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"predict", "--model",
			filepath.Join(t.TempDir(), "missing.json"), "https://example.com"})

		if err := rootCmd.Execute(); err == nil {
			t.Error("expected error for missing model")
		}
	})
}

// TestRegisteredDomain tests eTLD+1 resolution.
func TestRegisteredDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{name: "simple domain", rawURL: "https://example.com/page", want: "example.com"},
		{name: "subdomain stripped", rawURL: "https://login.accounts.example.com", want: "example.com"},
		{name: "multi-label suffix", rawURL: "https://www.example.co.uk/x", want: "example.co.uk"},
		{name: "IP host", rawURL: "http://192.168.0.1/x", want: ""},
		{name: "unparseable", rawURL: "http://exa mple.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := registeredDomain(tt.rawURL); got != tt.want {
				t.Errorf("registeredDomain(%q) = %q, want %q", tt.rawURL, got, tt.want)
			}
		})
	}
}
