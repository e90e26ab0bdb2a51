package main

import (
	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/artifact"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/predictor"
	"github.com/phishguard/phishguard/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface for URL analysis",
		Long: `Serve starts a local HTTP server with a browser form for URL analysis.

The trained model artifact is loaded once at startup; if no model has
been trained yet, the server refuses to start. The server binds to
loopback by default and has no authentication, so it is not meant to be
exposed to untrusted networks.

Examples:
  phishguard serve
  phishguard serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultAddr, "Listen address (host:port)")
	cmd.Flags().String("model", "",
		"Model artifact path (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadFileConfig(cfg); err != nil {
		return err
	}

	if cmd.Flags().Changed("addr") || cfg.Addr == "" {
		if cfg.Addr, err = cmd.Flags().GetString("addr"); err != nil {
			return err
		}
	}
	cfg.ModelPath, err = cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	ctx, cancel := signalContext(logger)
	defer cancel()

	p := predictor.New(artifact.NewStore(cfg.ModelPath),
		predictor.WithExtractor(buildExtractor(cfg)),
		predictor.WithLogger(logger),
	)

	srv, err := server.New(p,
		server.WithAddr(cfg.Addr),
		server.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}
