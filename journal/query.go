package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, assets, data_dir, initial_capital, final_capital,
		       total_return, total_return_pct, funding_collected, start_time, end_time,
		       num_trades, wins, losses, win_rate, max_drawdown, sharpe_ratio
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Assets,
		&rec.DataDir,
		&rec.InitialCapital,
		&rec.FinalCapital,
		&rec.TotalReturn,
		&rec.TotalReturnPct,
		&rec.FundingCollected,
		&rec.StartTime,
		&rec.EndTime,
		&rec.NumTrades,
		&rec.Wins,
		&rec.Losses,
		&rec.WinRate,
		&rec.MaxDrawdown,
		&rec.SharpeRatio,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(`
		SELECT run_id, created, assets, data_dir, initial_capital, final_capital,
		       total_return, total_return_pct, funding_collected, start_time, end_time,
		       num_trades, wins, losses, win_rate, max_drawdown, sharpe_ratio
		FROM runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Created,
			&rec.Assets,
			&rec.DataDir,
			&rec.InitialCapital,
			&rec.FinalCapital,
			&rec.TotalReturn,
			&rec.TotalReturnPct,
			&rec.FundingCollected,
			&rec.StartTime,
			&rec.EndTime,
			&rec.NumTrades,
			&rec.Wins,
			&rec.Losses,
			&rec.WinRate,
			&rec.MaxDrawdown,
			&rec.SharpeRatio,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns a run's trades in execution order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, time, asset, action, price, size, signal
		FROM trades
		WHERE run_id = ?
		ORDER BY time ASC, trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.RunID,
			&rec.Time,
			&rec.Asset,
			&rec.Action,
			&rec.Price,
			&rec.Size,
			&rec.Signal,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var rec EquityPoint
		if err := rows.Scan(&rec.RunID, &rec.Time, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
