package backtest

import (
	"math"
	"sort"

	"github.com/quantfold/fundarb/funding"
)

// Ledger owns every Position for a run. All mutation flows through
// Open, Update and Close; callers only ever see copies, so no position
// record can be aliased or modified behind the ledger's back.
type Ledger struct {
	capital      float64
	feeRate      float64
	fundingTotal float64

	open   map[string]*Position
	closed []Position
	trades []Trade
}

func NewLedger(initialCapital, feeRate float64) *Ledger {
	return &Ledger{
		capital: initialCapital,
		feeRate: feeRate,
		open:    make(map[string]*Position),
	}
}

func (l *Ledger) Capital() float64 { return l.capital }

// FundingCollected is the total funding accrued across all positions
// over the life of the run.
func (l *Ledger) FundingCollected() float64 { return l.fundingTotal }

func (l *Ledger) OpenCount() int { return len(l.open) }

// OpenAssets returns the held assets in lexical order.
func (l *Ledger) OpenAssets() []string {
	assets := make([]string, 0, len(l.open))
	for a := range l.open {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}

// Get returns a copy of the open position for the asset.
func (l *Ledger) Get(asset string) (Position, bool) {
	p, ok := l.open[asset]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

func (l *Ledger) ClosedPositions() []Position { return l.closed }

func (l *Ledger) Trades() []Trade { return l.trades }

// Open creates a delta-neutral pair for the asset: spot and perp legs
// of equal size and opposite direction, both entry fees deducted from
// capital up front. Reports false if the asset is already held or the
// signal carries no direction.
func (l *Ledger) Open(asset string, ts int64, price float64, sig funding.Signal, sizeUSD float64) bool {
	if _, held := l.open[asset]; held {
		return false
	}

	size := sizeUSD / price
	p := &Position{
		Asset:      asset,
		Signal:     sig,
		EntryPrice: price,
		EntryTime:  ts,
	}
	switch sig {
	case funding.LongSpotShortPerp:
		p.SpotSize = size
		p.PerpSize = -size
	case funding.ShortSpotLongPerp:
		p.SpotSize = -size
		p.PerpSize = size
	default:
		return false
	}

	l.capital -= 2 * sizeUSD * l.feeRate // both legs pay the taker fee
	l.open[asset] = p
	l.trades = append(l.trades, Trade{
		Time:   ts,
		Asset:  asset,
		Action: ActionOpen,
		Price:  price,
		Size:   size,
		Signal: sig,
	})
	return true
}

// Update accrues one funding period onto the held position. The
// accrual stays on the position until Close realizes it into capital.
// Returns the amount accrued, 0 when the asset is not held.
func (l *Ledger) Update(asset string, rate float64) float64 {
	p, ok := l.open[asset]
	if !ok {
		return 0
	}
	accrued := funding.Accrue(p.Signal, rate, p.Value())
	p.FundingCollected += accrued
	l.fundingTotal += accrued
	return accrued
}

// Close settles the pair at the given price: accrued funding plus the
// mark-to-market PnL of both legs, minus both exit fees, is realized
// into capital in one step. The position moves to the closed
// collection. Reports false when the asset is not held.
func (l *Ledger) Close(asset string, ts int64, price float64) (Position, bool) {
	p, ok := l.open[asset]
	if !ok {
		return Position{}, false
	}

	pricePnL := p.UnrealizedPnL(price)
	exitUSD := math.Abs(p.PerpSize) * price
	fees := 2 * exitUSD * l.feeRate
	total := p.FundingCollected + pricePnL - fees

	p.ExitPrice = price
	p.ExitTime = ts
	p.PnL = total
	l.capital += total

	delete(l.open, asset)
	l.closed = append(l.closed, *p)
	l.trades = append(l.trades, Trade{
		Time:   ts,
		Asset:  asset,
		Action: ActionClose,
		Price:  price,
		Size:   math.Abs(p.PerpSize),
	})
	return *p, true
}
