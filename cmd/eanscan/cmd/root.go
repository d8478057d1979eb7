package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/eanscan/internal/config"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
	"github.com/MeKo-Tech/eanscan/internal/version"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "eanscan",
	Short: "EAN-13 barcode decoder for scanned images",
	Long: `eanscan reads EAN-13 (European Article Number) barcodes from images by
binarizing the picture, estimating the orientation of the barcode blob and
decoding a single scan line through its centre.

This tool provides:
- Decoding of single images with checksum verification
- Batch accuracy reports against reference codes
- Synthetic barcode images and noise datasets for testing

Examples:
  eanscan decode product.png
  eanscan batch scans/ --reference 9310232954790 --format csv
  eanscan generate 9310232954790 -o code.png --rotate 15`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		}
		return cmd.Help()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalConfig == nil || globalConfig.Metrics.File == "" {
			return nil
		}
		if err := metrics.Default.WriteFile(globalConfig.Metrics.File); err != nil {
			return err
		}
		slog.Debug("Wrote metrics", "path", globalConfig.Metrics.File)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $XDG_CONFIG_HOME/eanscan, /etc/eanscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus text metrics to this file on exit")
	rootCmd.Flags().Bool("version", false, "print version information and exit")

	// Assigned here rather than in the literal: initConfig reads rootCmd's flags.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		setupLogging(cmd.ErrOrStderr(), globalConfig)
		return nil
	}
}

// rootFlagBindings maps configuration keys to persistent root flags.
var rootFlagBindings = map[string]string{
	"verbose":      "verbose",
	"log_level":    "log-level",
	"log_format":   "log-format",
	"metrics.file": "metrics-file",
}

// initConfig reads in config file, ENV variables and the root flags.
func initConfig() error {
	configLoader = config.NewLoader()
	if err := configLoader.BindFlags(rootCmd.PersistentFlags(), rootFlagBindings); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	var err error
	globalConfig, err = configLoader.LoadWithFile(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	return nil
}

// setupLogging installs the default slog logger for the configured level and format.
func setupLogging(w io.Writer, cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// GetConfig returns the global configuration, loading it on first use.
func GetConfig() *config.Config {
	if globalConfig == nil {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			cfg := config.DefaultConfig()
			return &cfg
		}
	}
	return globalConfig
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// commandContext returns the command context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
