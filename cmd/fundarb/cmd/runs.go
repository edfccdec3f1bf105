package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/fundarb/config"
	"github.com/quantfold/fundarb/journal"
	"github.com/quantfold/fundarb/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent backtest runs from the journal",
	Long: `Query backtest runs recorded in the SQLite journal.

Subcommands:
  show - Display one run with its trade log

Examples:
  fundarb runs --limit 10
  fundarb runs show 01JF8ZQ2V9GX5T3M7KDHB4RCWN`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Display one run with its trade log",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var (
	runsDBPath string
	runsLimit  int
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", "", "SQLite journal path (default from config)")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
}

func openRunsDB() (*journal.SQLite, error) {
	path := runsDBPath
	if path == "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database configured (set journal.db_path or --db)")
	}

	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	report.PrintRuns(os.Stdout, runs)
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return err
	}
	trades, err := j.ListTradesByRun(rec.RunID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	report.PrintRuns(os.Stdout, []journal.RunRecord{rec})
	report.PrintRunTrades(os.Stdout, trades)
	return nil
}
