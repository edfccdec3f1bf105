// Package journal persists backtest runs so results can be compared
// across sessions: a summary row per run plus every trade and equity
// sample, keyed by run ID. SQLite and CSV backends share the Journal
// interface.
package journal

import "time"

// RunRecord is one run's summary row.
type RunRecord struct {
	RunID   string
	Created time.Time

	Assets  string // comma-joined symbols
	DataDir string

	InitialCapital   float64
	FinalCapital     float64
	TotalReturn      float64
	TotalReturnPct   float64
	FundingCollected float64

	StartTime int64 // ms, first data point
	EndTime   int64 // ms, last data point

	NumTrades int
	Wins      int
	Losses    int
	WinRate   float64

	MaxDrawdown float64
	SharpeRatio float64
}

// TradeRecord is one executed action, keyed to its run.
type TradeRecord struct {
	TradeID string
	RunID   string
	Time    int64 // ms
	Asset   string
	Action  string // "open" or "close"
	Price   float64
	Size    float64
	Signal  string // empty on close rows
}

// EquityPoint is one equity curve sample, keyed to its run.
type EquityPoint struct {
	RunID  string
	Time   int64 // ms
	Equity float64
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}
