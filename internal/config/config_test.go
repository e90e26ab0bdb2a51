package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.Classifier != DefaultClassifier {
		t.Errorf("expected classifier %q, got %q", DefaultClassifier, c.Classifier)
	}
	if c.TestFraction != DefaultTestFraction {
		t.Errorf("expected test fraction %v, got %v", DefaultTestFraction, c.TestFraction)
	}
	if c.Seed != DefaultSeed {
		t.Errorf("expected seed %d, got %d", DefaultSeed, c.Seed)
	}
	if c.Addr != DefaultAddr {
		t.Errorf("expected addr %q, got %q", DefaultAddr, c.Addr)
	}
}

// TestValidate verifies configuration validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "zero test fraction",
			mutate:  func(c *Config) { c.TestFraction = 0 },
			wantErr: ErrInvalidTestFraction,
		},
		{
			name:    "test fraction of one",
			mutate:  func(c *Config) { c.TestFraction = 1 },
			wantErr: ErrInvalidTestFraction,
		},
		{
			name:    "negative jobs",
			mutate:  func(c *Config) { c.Jobs = -1 },
			wantErr: ErrInvalidJobs,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.Addr = "" },
			wantErr: ErrInvalidAddr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewConfig()
			tt.mutate(c)

			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile verifies YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `classifier: random-forest
test_fraction: 0.3
seed: 7
addr: 0.0.0.0:9000
shorteners:
  - bit.ly
  - is.gd
suspicious_tlds:
  - .tk
  - .zip
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Classifier != "random-forest" {
			t.Errorf("unexpected classifier %q", cf.Classifier)
		}
		if cf.TestFraction == nil || *cf.TestFraction != 0.3 {
			t.Errorf("unexpected test fraction %v", cf.TestFraction)
		}
		if cf.Seed == nil || *cf.Seed != 7 {
			t.Errorf("unexpected seed %v", cf.Seed)
		}
		if len(cf.Shorteners) != 2 || cf.Shorteners[1] != "is.gd" {
			t.Errorf("unexpected shorteners %v", cf.Shorteners)
		}
		if len(cf.SuspiciousTLDs) != 2 || cf.SuspiciousTLDs[1] != ".zip" {
			t.Errorf("unexpected suspicious TLDs %v", cf.SuspiciousTLDs)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("classifier: [unclosed"), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for invalid YAML")
		}
	})
}

// TestFileApply verifies file values override defaults but absent keys
// leave the config untouched.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("applies present keys", func(t *testing.T) {
		t.Parallel()

		frac := 0.25
		seed := int64(9)
		cf := &File{
			Classifier:   "random-forest",
			TestFraction: &frac,
			Seed:         &seed,
			Addr:         "0.0.0.0:9000",
		}

		c := NewConfig()
		cf.Apply(c)

		if c.Classifier != "random-forest" || c.TestFraction != 0.25 ||
			c.Seed != 9 || c.Addr != "0.0.0.0:9000" {
			t.Errorf("unexpected config after apply: %+v", c)
		}
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		(&File{}).Apply(c)

		if c.Classifier != DefaultClassifier || c.TestFraction != DefaultTestFraction ||
			c.Seed != DefaultSeed || c.Addr != DefaultAddr {
			t.Errorf("unexpected config after apply: %+v", c)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		var cf *File
		cf.Apply(c)

		if c.Classifier != DefaultClassifier {
			t.Errorf("unexpected config after apply: %+v", c)
		}
	})
}

// TestFindConfigFile verifies the search order.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("classifier: random-forest\n"), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})

	t.Run("falls back to current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		t.Chdir(dir)

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("expected %s in cwd, got %q", DefaultConfigFile, got)
		}
	})
}
