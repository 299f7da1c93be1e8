package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"karmad/internal/config"
	"karmad/internal/slogutil"
	"karmad/internal/version"
)

var (
	configDir  string
	rangesFlag string
	verbosity  int
	quietFlag  bool
	logFile    string
	formatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "karmad",
	Short: "karmad - karma range registry",
	Long: `karmad maintains a validated registry of karma tiers and resolves
numeric karma values to the tier that governs them. Tiers come from a
ranges file (INI or TOML) and are rebuilt atomically when it changes.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("karmad version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".",
		"Directory containing the .karmad/config.json app config")
	rootCmd.PersistentFlags().StringVar(&rangesFlag, "ranges", "",
		"Path to the ranges file (overrides config)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Also log to this file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"Output format: human, json, yaml, or toml")
}

// loadAppConfig loads and validates the app config for the --config dir.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRangesPath determines the effective ranges file.
// Precedence: CLI flag > KARMAD_RANGES env var > config rangesPath.
func resolveRangesPath(cfg *config.Config) string {
	if rangesFlag != "" {
		return rangesFlag
	}
	if env := os.Getenv("KARMAD_RANGES"); env != "" {
		return env
	}
	return cfg.RangesPath
}

// newLogger builds the process logger from config plus CLI flags.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	logCfg := cfg.Logging
	if logFile != "" {
		logCfg.File = logFile
	}
	return slogutil.NewFromConfig(logCfg, verbosity, quietFlag)
}
