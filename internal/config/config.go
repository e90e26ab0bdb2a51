package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the reference training setup where applicable.
const (
	// DefaultClassifier is the ensemble strategy used when none is selected.
	// Gradient boosting is the reference default and usually wins on small
	// lexical feature sets.
	DefaultClassifier = "gradient-boosting"

	// DefaultTestFraction holds out 20% of the dataset for evaluation.
	// Enough rows to make the accuracy figure meaningful without starving
	// the training partition.
	DefaultTestFraction = 0.2

	// DefaultSeed fixes the train/test split and tree fitting RNG.
	// A fixed default makes runs reproducible out of the box; vary it
	// explicitly to check split sensitivity.
	DefaultSeed = 42

	// DefaultAddr is the default web interface listen address.
	// Loopback only: the front-end has no authentication.
	DefaultAddr = "127.0.0.1:8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "phishguard"
)

// Config holds all configuration options for phishguard.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., TrainConfig, ServeConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// DatasetPath is the labeled CSV file used for training.
	DatasetPath string

	// Classifier selects the ensemble strategy
	// ("gradient-boosting" or "random-forest").
	Classifier string

	// TestFraction is the fraction of samples held out for evaluation.
	TestFraction float64

	// Seed is the RNG seed for the split and tree fitting. Runs with the
	// same dataset, classifier, and seed produce identical models.
	Seed int64

	// Jobs bounds worker parallelism for feature extraction and forest
	// fitting. Zero selects the CPU count.
	Jobs int

	// SkipBadRows drops dataset rows whose URL fails extraction instead of
	// aborting the run. Off by default because silently dropping rows
	// trains on a biased sample.
	SkipBadRows bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the training report.
	// When set, the report is written to this file in addition to stdout.
	ReportFile string

	// ModelPath is the model artifact location. When empty, the default
	// under the XDG data directory is used.
	ModelPath string

	// DBDir is the directory for the training history SQLite database.
	// When empty, the XDG data directory is used.
	DBDir string

	// Addr is the web interface listen address in "host:port" format.
	Addr string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .phishguard in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds values loaded from the optional YAML config file.
	File *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., the test fraction
// and seed). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Classifier:   DefaultClassifier,
		TestFraction: DefaultTestFraction,
		Seed:         DefaultSeed,
		Addr:         DefaultAddr,
	}
}

// XDGDataDir returns the XDG data directory for phishguard.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/phishguard
// On macOS: ~/Library/Application Support/phishguard
// On Windows: %LOCALAPPDATA%\phishguard
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for phishguard.
// On Linux: ~/.config/phishguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return ErrInvalidTestFraction
	}

	if c.Jobs < 0 {
		return ErrInvalidJobs
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Addr == "" {
		return ErrInvalidAddr
	}

	return nil
}
