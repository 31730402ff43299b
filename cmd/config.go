package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/classify-cli/internal/config"
	"github.com/KaramelBytes/classify-cli/pkg/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Classify configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "training_delay_ms: %d\n", c.TrainingDelayMs)
		fmt.Fprintf(out, "top_features: %d\n", c.TopFeatures)
		fmt.Fprintf(out, "history_size: %d\n", c.HistorySize)
		fmt.Fprintf(out, "seed: %d\n", c.Seed)
		fmt.Fprintf(out, "strict_headers: %t\n", c.StrictHeaders)
		fmt.Fprintf(out, "max_file_mb: %d\n", c.MaxFileMB)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		if c.ReportsDir != "" {
			fmt.Fprintf(out, "reports_dir: %s\n", c.ReportsDir)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "training_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for training_delay_ms: %v", val)
			}
			cfg.TrainingDelayMs = i
		case "top_features":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_features: %v", val)
			}
			cfg.TopFeatures = i
		case "history_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for history_size: %v", val)
			}
			cfg.HistorySize = i
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = i
		case "strict_headers":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for strict_headers: %w", err)
			}
			cfg.StrictHeaders = b
		case "max_file_mb":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_file_mb: %v", val)
			}
			cfg.MaxFileMB = i
		case "log_level":
			lvl := strings.ToLower(val)
			if _, err := logger.ParseLevel(lvl); err != nil {
				return err
			}
			cfg.LogLevel = lvl
		case "reports_dir":
			cfg.ReportsDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
