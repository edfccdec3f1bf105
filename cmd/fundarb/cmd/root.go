package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/fundarb/config"
)

var rootCmd = &cobra.Command{
	Use:   "fundarb",
	Short: "A delta-neutral funding rate arbitrage backtester",
	Long: `Fundarb replays historical funding rate data against a simulated
delta-neutral account: long spot and short perpetual (or the reverse),
sized to cancel price exposure, collecting funding payments in between.

It provides tools for:
  - Backtesting the funding capture strategy over CSV history
  - Importing and inspecting funding rate datasets
  - Persisting runs, trades and equity curves to SQLite or CSV
  - Reviewing past runs from the journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgPath string
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// buildLogger constructs the process logger. Logs go to stderr so
// report output on stdout stays clean. --verbose forces debug level.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		zc.Level = lvl
	}
	return zc.Build()
}
