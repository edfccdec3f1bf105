package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, assets, data_dir, initial_capital, final_capital,
		 total_return, total_return_pct, funding_collected, start_time, end_time,
		 num_trades, wins, losses, win_rate, max_drawdown, sharpe_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Assets, r.DataDir, r.InitialCapital, r.FinalCapital,
		r.TotalReturn, r.TotalReturnPct, r.FundingCollected, r.StartTime, r.EndTime,
		r.NumTrades, r.Wins, r.Losses, r.WinRate, r.MaxDrawdown, r.SharpeRatio,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, time, asset, action, price, size, signal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Time, t.Asset, t.Action, t.Price, t.Size, t.Signal,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, equity)
		VALUES (?, ?, ?)`,
		e.RunID, e.Time, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
