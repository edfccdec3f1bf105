package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/fundarb/backtest"
	"github.com/quantfold/fundarb/config"
	"github.com/quantfold/fundarb/journal"
	"github.com/quantfold/fundarb/market"
	"github.com/quantfold/fundarb/report"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the funding arbitrage backtest over historical data",
	Long: `Backtest replays funding rate history bucket by bucket, entering a
delta-neutral position when |funding rate| clears the threshold and
closing it when the signal flips or disappears.

Example:
  fundarb backtest --data-dir backtest_data --assets BTC,ETH --capital 10000`,
	RunE: runBacktestCmd,
}

var (
	btAssets    []string
	btDataDir   string
	btCapital   float64
	btThreshold float64
	btMaxPos    float64
	btLeverage  float64
	btFee       float64
	btInterval  int
	btDBPath    string
	btOutDir    string
	btExport    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringSliceVarP(&btAssets, "assets", "a", nil, "assets to backtest (default from config)")
	backtestCmd.Flags().StringVarP(&btDataDir, "data-dir", "d", "", "directory with <ASSET>_history.csv files")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", 0, "initial capital in USD")
	backtestCmd.Flags().Float64Var(&btThreshold, "funding-threshold", 0, "minimum |funding rate| per interval to enter")
	backtestCmd.Flags().Float64Var(&btMaxPos, "max-position", 0, "maximum position size in USD")
	backtestCmd.Flags().Float64Var(&btLeverage, "leverage", 0, "perpetual leverage")
	backtestCmd.Flags().Float64Var(&btFee, "fee", 0, "taker fee rate per leg")
	backtestCmd.Flags().IntVar(&btInterval, "interval", 0, "funding interval in hours")
	backtestCmd.Flags().StringVar(&btDBPath, "db", "", "SQLite journal path (forces sqlite journaling)")
	backtestCmd.Flags().StringVarP(&btOutDir, "out", "o", "", "output directory for CSV exports")
	backtestCmd.Flags().BoolVar(&btExport, "export", false, "export trades and positions to CSV")
}

// applyBacktestFlags overlays explicitly set flags on the loaded config.
func applyBacktestFlags(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("assets") {
		cfg.Data.Assets = btAssets
	}
	if fl.Changed("data-dir") {
		cfg.Data.DataDir = btDataDir
	}
	if fl.Changed("capital") {
		cfg.Account.InitialCapital = btCapital
	}
	if fl.Changed("funding-threshold") {
		cfg.Account.FundingThreshold = btThreshold
	}
	if fl.Changed("max-position") {
		cfg.Account.MaxPositionSizeUSD = btMaxPos
	}
	if fl.Changed("leverage") {
		cfg.Account.Leverage = btLeverage
	}
	if fl.Changed("fee") {
		cfg.Account.TradingFee = btFee
	}
	if fl.Changed("interval") {
		cfg.Account.CheckIntervalHours = btInterval
	}
	if fl.Changed("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = btDBPath
	}
	if fl.Changed("out") {
		cfg.Data.OutputDir = btOutDir
	}
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyBacktestFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	history, err := market.LoadDir(cfg.Data.DataDir, cfg.Data.Assets)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	for _, asset := range cfg.Data.Assets {
		if _, ok := history[asset]; !ok {
			log.Warn("no history for asset, skipping", zap.String("asset", asset))
		}
	}
	if len(history) == 0 {
		return fmt.Errorf("no history in %s for assets %v", cfg.Data.DataDir, cfg.Data.Assets)
	}

	engine := backtest.NewEngine(cfg.Backtest(), log)
	res, err := engine.Run(history)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	report.PrintSummary(os.Stdout, res)
	report.PrintPositions(os.Stdout, res.Positions)

	if err := journalRun(cfg, history, res); err != nil {
		return err
	}

	if btExport {
		tradesPath, positionsPath, err := report.ExportAll(cfg.Data.OutputDir, res)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("\nExported:\n  %s\n  %s\n", tradesPath, positionsPath)
	}
	return nil
}

func openJournal(cfg *config.Config) (journal.Journal, string, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		return j, cfg.Journal.DBPath, err
	case "csv":
		j, err := journal.NewCSV(cfg.Journal.Dir)
		return j, cfg.Journal.Dir, err
	case "none", "":
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

func journalRun(cfg *config.Config, history map[string][]market.Point, res backtest.Result) error {
	j, target, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j == nil {
		return nil
	}
	defer j.Close()

	run := journal.NewRunRecord(market.SortedAssets(history), cfg.Data.DataDir, res)
	if err := journal.Record(j, run, res); err != nil {
		return fmt.Errorf("journal run: %w", err)
	}

	fmt.Printf("\nRun %s journaled to %s\n", run.RunID, target)
	return nil
}
