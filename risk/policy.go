// Package risk carries the account limits shared by the backtest
// engine and the config validator: position sizing, concurrency caps,
// and delta-balance checks for the paired spot/perp legs.
package risk

type Limits struct {
	InitialCapital float64 // starting balance in USD, e.g. 10000

	// Entry constraints
	FundingThreshold   float64 // min |period rate| to act on, e.g. 0.0001
	MaxPositionSizeUSD float64 // per-position notional cap, e.g. 5000

	// Account constraints
	Leverage   float64 // carried for parity with live trading, 1.0 = unlevered
	TradingFee float64 // per-side taker rate, e.g. 0.0002

	// Hedge constraints
	RebalanceThreshold float64 // max tolerated |net delta| / spot leg, e.g. 0.05

	CheckIntervalHours int // funding bucket width, e.g. 8
}
