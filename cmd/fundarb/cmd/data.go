package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/fundarb/config"
	"github.com/quantfold/fundarb/market"
	"github.com/quantfold/fundarb/report"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Import and inspect funding rate datasets",
	Long: `Manage the historical dataset used by the backtester.

Subcommands:
  import - Normalize external history files into the data directory
  info   - Summarize the datasets in the data directory

Examples:
  fundarb data import downloads/BTC_history.csv.gz
  fundarb data info --data-dir backtest_data`,
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import history files into the data directory",
	Long: `Import normalizes external funding history into the data directory.

Source files may be plain CSV or gzip/xz compressed; the asset symbol
is inferred from the file name (<ASSET>_history.csv[.gz|.xz]).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDataImport,
}

var dataInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize datasets in the data directory",
	Args:  cobra.NoArgs,
	RunE:  runDataInfo,
}

var dataDirPath string

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataInfoCmd)

	dataCmd.PersistentFlags().StringVarP(&dataDirPath, "data-dir", "d", "", "data directory (default from config)")
}

func dataConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dataDirPath != "" {
		cfg.Data.DataDir = dataDirPath
	}
	return cfg, nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	cfg, err := dataConfig()
	if err != nil {
		return err
	}

	for _, src := range args {
		asset, n, err := market.ImportFile(src, cfg.Data.DataDir)
		if err != nil {
			return fmt.Errorf("import %s: %w", src, err)
		}
		fmt.Printf("Imported %s: %d points -> %s\n", asset, n, market.HistoryPath(cfg.Data.DataDir, asset))
	}
	return nil
}

func runDataInfo(cmd *cobra.Command, args []string) error {
	cfg, err := dataConfig()
	if err != nil {
		return err
	}

	assets, err := market.DiscoverAssets(cfg.Data.DataDir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.Data.DataDir, err)
	}
	if len(assets) == 0 {
		fmt.Printf("No history files in %s\n", cfg.Data.DataDir)
		return nil
	}

	history, err := market.LoadDir(cfg.Data.DataDir, assets)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	report.PrintDataSummary(os.Stdout, history)
	return nil
}
