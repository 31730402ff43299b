package cmd

import (
	"context"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/classify-cli/internal/config"
	"github.com/KaramelBytes/classify-cli/pkg/logger"
	"github.com/KaramelBytes/classify-cli/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	logLevel    string
	metricsFile string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process-wide metrics; exported with --metrics-file
	mm = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify: a simulated no-code classification workbench",
	Long: `Classify loads a CSV file, treats one column as the class label and shows
simulated classification metrics, a prediction playground and exportable
JSON/PDF reports. No real model is trained.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return flushMetrics()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = flushMetrics()
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.classify/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = cfgpkg.Defaults()
		return
	}
	cfg = c
}

// settings returns the loaded config, or defaults when loading was skipped.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

func initLogging() error {
	level := settings().LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	if err := logger.Init(os.Stderr, level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Get().Debug(context.Background(), "logger ready", logger.String("level", level))
	return nil
}

func flushMetrics() error {
	if metricsFile == "" {
		return nil
	}
	return mm.WriteTextfile(metricsFile)
}
