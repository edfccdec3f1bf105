package backtest

import (
	"math"

	"github.com/quantfold/fundarb/funding"
	"github.com/quantfold/fundarb/risk"
)

// Action distinguishes the two sides of a round trip in the trade log.
type Action string

const (
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// Position is one delta-neutral spot/perp pair for a single asset.
type Position struct {
	Asset      string
	Signal     funding.Signal
	SpotSize   float64 // base units, sign follows the spot leg
	PerpSize   float64 // base units, opposite sign to the spot leg
	EntryPrice float64
	EntryTime  int64 // ms

	FundingCollected float64 // accrued, realized into capital on close

	// Set once the position reaches the closed collection.
	ExitPrice float64
	ExitTime  int64 // ms
	PnL       float64
}

func (p Position) NetDelta() float64 { return risk.NetDelta(p.SpotSize, p.PerpSize) }

func (p Position) Balanced(threshold float64) bool {
	return risk.IsBalanced(p.SpotSize, p.PerpSize, threshold)
}

// UnrealizedPnL is the mark-to-market price PnL across both legs.
// Funding is tracked separately in FundingCollected. Near zero while
// the legs stay balanced.
func (p Position) UnrealizedPnL(price float64) float64 {
	return (p.SpotSize + p.PerpSize) * (price - p.EntryPrice)
}

// Value is the notional the per-period funding accrual applies to.
func (p Position) Value() float64 {
	return math.Abs(p.PerpSize) * p.EntryPrice
}

// Trade is one executed action; every round trip produces two.
type Trade struct {
	Time   int64 // ms
	Asset  string
	Action Action
	Price  float64
	Size   float64 // base units, absolute
	Signal funding.Signal
}

// EquitySample is one point on the equity curve, taken once per bucket.
type EquitySample struct {
	Time   int64 // ms
	Equity float64
}
