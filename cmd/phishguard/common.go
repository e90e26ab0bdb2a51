package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/feature"
	"github.com/phishguard/phishguard/internal/log"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitizing structured logger and installs it as
// the default.
func setupLogger(verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadFileConfig resolves and loads the optional YAML config file.
// If the user explicitly specified a config file path, a missing file is
// an error; otherwise a missing file just leaves defaults in place.
func loadFileConfig(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.File = cf
	cf.Apply(cfg)
	return nil
}

// buildExtractor creates the feature extractor, applying list overrides
// from the config file. Training and prediction must use the same lists,
// so both code paths build their extractor here.
func buildExtractor(cfg *config.Config) *feature.Extractor {
	var opts []feature.Option
	if cfg.File != nil {
		if len(cfg.File.Shorteners) > 0 {
			opts = append(opts, feature.WithShorteners(cfg.File.Shorteners))
		}
		if len(cfg.File.SuspiciousTLDs) > 0 {
			opts = append(opts, feature.WithSuspiciousTLDs(cfg.File.SuspiciousTLDs))
		}
	}
	return feature.NewExtractor(opts...)
}
