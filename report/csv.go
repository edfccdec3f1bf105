package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantfold/fundarb/backtest"
)

func g(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteTradesCSV writes every executed action, open rows carrying the
// entry signal and close rows a blank one.
func WriteTradesCSV(w io.Writer, trades []backtest.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"timestamp", "datetime", "asset", "action", "price", "size", "signal"}); err != nil {
		return err
	}
	for _, tr := range trades {
		signal := ""
		if tr.Action == backtest.ActionOpen {
			signal = tr.Signal.String()
		}
		if err := cw.Write([]string{
			strconv.FormatInt(tr.Time, 10),
			time.UnixMilli(tr.Time).UTC().Format(time.RFC3339),
			tr.Asset,
			string(tr.Action),
			g(tr.Price),
			g(tr.Size),
			signal,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePositionsCSV writes one row per closed position.
func WritePositionsCSV(w io.Writer, positions []backtest.Position) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"asset", "signal", "entry_time", "exit_time", "entry_price", "exit_price",
		"size", "funding_collected", "pnl", "duration_hours",
	}); err != nil {
		return err
	}
	for _, p := range positions {
		hours := float64(p.ExitTime-p.EntryTime) / 3600000.0
		if err := cw.Write([]string{
			p.Asset,
			p.Signal.String(),
			ts(p.EntryTime),
			ts(p.ExitTime),
			g(p.EntryPrice),
			g(p.ExitPrice),
			g(p.SpotSize),
			g(p.FundingCollected),
			g(p.PnL),
			g(hours),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportAll writes timestamped trade and position CSVs into dir and
// returns both paths.
func ExportAll(dir string, res backtest.Result) (tradesPath, positionsPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	tradesPath = filepath.Join(dir, fmt.Sprintf("backtest_trades_%s.csv", stamp))
	positionsPath = filepath.Join(dir, fmt.Sprintf("backtest_positions_%s.csv", stamp))

	tf, err := os.Create(tradesPath)
	if err != nil {
		return "", "", err
	}
	defer tf.Close()
	if err := WriteTradesCSV(tf, res.Trades); err != nil {
		return "", "", err
	}

	pf, err := os.Create(positionsPath)
	if err != nil {
		return "", "", err
	}
	defer pf.Close()
	if err := WritePositionsCSV(pf, res.Positions); err != nil {
		return "", "", err
	}

	return tradesPath, positionsPath, nil
}
