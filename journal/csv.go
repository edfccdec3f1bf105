package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSV appends run, trade and equity rows to three files in a directory.
type CSV struct {
	runs   *csv.Writer
	trades *csv.Writer
	equity *csv.Writer

	rf, tf, ef *os.File
}

func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	rf, err := os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(filepath.Join(dir, "trades.csv"))
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(filepath.Join(dir, "equity.csv"))
	if err != nil {
		return nil, err
	}

	rw := csv.NewWriter(rf)
	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := rw.Write([]string{
		"run_id", "created", "assets", "data_dir", "initial_capital", "final_capital",
		"total_return", "total_return_pct", "funding_collected", "start_time", "end_time",
		"num_trades", "wins", "losses", "win_rate", "max_drawdown", "sharpe_ratio",
	}); err != nil {
		return nil, err
	}
	if err := tw.Write([]string{"trade_id", "run_id", "time", "asset", "action", "price", "size", "signal"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "time", "equity"}); err != nil {
		return nil, err
	}

	for _, w := range []*csv.Writer{rw, tw, ew} {
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	return &CSV{runs: rw, trades: tw, equity: ew, rf: rf, tf: tf, ef: ef}, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	if err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Assets,
		r.DataDir,
		f(r.InitialCapital),
		f(r.FinalCapital),
		f(r.TotalReturn),
		f(r.TotalReturnPct),
		f(r.FundingCollected),
		strconv.FormatInt(r.StartTime, 10),
		strconv.FormatInt(r.EndTime, 10),
		strconv.Itoa(r.NumTrades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		f(r.WinRate),
		f(r.MaxDrawdown),
		f(r.SharpeRatio),
	}); err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	if err := j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		strconv.FormatInt(t.Time, 10),
		t.Asset,
		t.Action,
		f(t.Price),
		f(t.Size),
		t.Signal,
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordEquity(e EquityPoint) error {
	if err := j.equity.Write([]string{
		e.RunID,
		strconv.FormatInt(e.Time, 10),
		f(e.Equity),
	}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	for _, w := range []*csv.Writer{j.runs, j.trades, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, file := range []*os.File{j.rf, j.tf, j.ef} {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
