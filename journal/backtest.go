package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantfold/fundarb/backtest"
	"github.com/quantfold/fundarb/pkg/id"
)

// NewRunRecord summarizes a finished run under a fresh run ID.
func NewRunRecord(assets []string, dataDir string, res backtest.Result) RunRecord {
	return RunRecord{
		RunID:   id.New(),
		Created: time.Now().UTC(),

		Assets:  strings.Join(assets, ","),
		DataDir: dataDir,

		InitialCapital:   res.InitialCapital,
		FinalCapital:     res.FinalCapital,
		TotalReturn:      res.TotalReturn,
		TotalReturnPct:   res.TotalReturnPct,
		FundingCollected: res.FundingCollected,

		StartTime: res.StartTime,
		EndTime:   res.EndTime,

		NumTrades: res.NumTrades,
		Wins:      res.NumWinningTrades,
		Losses:    res.NumLosingTrades,
		WinRate:   res.WinRate,

		MaxDrawdown: res.MaxDrawdown,
		SharpeRatio: res.SharpeRatio,
	}
}

// Record writes the run summary plus every trade and equity sample.
func Record(j Journal, run RunRecord, res backtest.Result) error {
	if err := j.RecordRun(run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, tr := range res.Trades {
		rec := TradeRecord{
			TradeID: id.New(),
			RunID:   run.RunID,
			Time:    tr.Time,
			Asset:   tr.Asset,
			Action:  string(tr.Action),
			Price:   tr.Price,
			Size:    tr.Size,
		}
		// Close rows carry no signal; the open row already names it.
		if tr.Action == backtest.ActionOpen {
			rec.Signal = tr.Signal.String()
		}
		if err := j.RecordTrade(rec); err != nil {
			return fmt.Errorf("record trade %s %s: %w", tr.Asset, tr.Action, err)
		}
	}

	for _, s := range res.EquityCurve {
		if err := j.RecordEquity(EquityPoint{RunID: run.RunID, Time: s.Time, Equity: s.Equity}); err != nil {
			return fmt.Errorf("record equity at %d: %w", s.Time, err)
		}
	}

	return nil
}
