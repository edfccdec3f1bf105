package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	assets TEXT NOT NULL,
	data_dir TEXT NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_return REAL NOT NULL,
	total_return_pct REAL NOT NULL,
	funding_collected REAL NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	num_trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	sharpe_ratio REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	time INTEGER NOT NULL,
	asset TEXT NOT NULL,
	action TEXT NOT NULL,
	price REAL NOT NULL,
	size REAL NOT NULL,
	signal TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, time);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time INTEGER NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
