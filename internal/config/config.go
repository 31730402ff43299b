package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Simulation
	TrainingDelayMs int   `mapstructure:"training_delay_ms" yaml:"training_delay_ms"`
	TopFeatures     int   `mapstructure:"top_features" yaml:"top_features"`
	HistorySize     int   `mapstructure:"history_size" yaml:"history_size"`
	Seed            int64 `mapstructure:"seed" yaml:"seed"`

	// Ingest
	StrictHeaders bool `mapstructure:"strict_headers" yaml:"strict_headers"`
	MaxFileMB     int  `mapstructure:"max_file_mb" yaml:"max_file_mb"`

	// Output
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	ReportsDir string `mapstructure:"reports_dir" yaml:"reports_dir"`
}

// Defaults mirrors the values Load falls back to.
func Defaults() *Global {
	return &Global{
		TrainingDelayMs: 2000,
		TopFeatures:     3,
		HistorySize:     5,
		MaxFileMB:       10,
		LogLevel:        "warn",
	}
}

// TrainingDelay is TrainingDelayMs as a duration; negative values count as zero.
func (c *Global) TrainingDelay() time.Duration {
	if c.TrainingDelayMs < 0 {
		return 0
	}
	return time.Duration(c.TrainingDelayMs) * time.Millisecond
}

// Dir returns ~/.classify.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".classify"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.classify/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CLASSIFY")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("training_delay_ms", d.TrainingDelayMs)
	v.SetDefault("top_features", d.TopFeatures)
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("strict_headers", d.StrictHeaders)
	v.SetDefault("max_file_mb", d.MaxFileMB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("reports_dir", d.ReportsDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.TopFeatures <= 0 {
		c.TopFeatures = d.TopFeatures
	}
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	return &c, nil
}
