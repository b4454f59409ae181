package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dockwatch/dockwatch/internal/config"
	"github.com/dockwatch/dockwatch/internal/logger"
	"github.com/dockwatch/dockwatch/internal/stream"
)

type contextKey string

const configKey = contextKey("config")

var rootCmd = &cobra.Command{
	Use:   "dockwatch",
	Short: "Stream Docker lifecycle events and resource usage",
	Long:  "A tool that turns the Docker CLI's continuous JSON output into filtered event and stats streams with derived metrics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		cmd.SetContext(ctx)
		return nil
	},
}

// setup pulls the loaded config out of the command context and builds the
// logger plus stream options every subcommand needs.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, stream.Options) {
	cfg := cmd.Context().Value(configKey).(*config.Config)
	log := logger.SetupLogger(&cfg.Logging)
	opts := stream.Options{
		Binary:     cfg.Docker.Binary,
		BufferSize: cfg.Stream.BufferSize,
		Logger:     &log,
	}
	return cfg, log, opts
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info().Msgf("Received signal: %v", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "set log level (e.g. INFO, DEBUG, WARN)")
	viper.BindPFlag("log.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Enable automatic environment variable binding.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}
}
