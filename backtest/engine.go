package backtest

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/quantfold/fundarb/funding"
	"github.com/quantfold/fundarb/market"
	"github.com/quantfold/fundarb/risk"
)

// Engine replays a funding-rate history through the ledger, one bucket
// at a time. It is a pure function of its input and configuration:
// single-threaded, no I/O, no clock.
type Engine struct {
	cfg Config
	log *zap.Logger
}

func NewEngine(cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg.withDefaults(), log: log}
}

// Run replays the history and returns the run summary. The input maps
// asset symbol to raw points; sequences need not be pre-sorted. An
// empty map yields a benign empty result, not an error.
func (e *Engine) Run(history map[string][]market.Point) (Result, error) {
	tl, err := market.BuildTimeline(history, e.cfg.CheckInterval)
	if err != nil {
		return Result{}, err
	}

	led := NewLedger(e.cfg.InitialCapital, e.cfg.TradingFee)
	trk := &Tracker{}
	lastPrice := make(map[string]float64)

	e.log.Info("backtest starting",
		zap.Int("assets", len(history)),
		zap.Int("buckets", len(tl.Buckets)),
		zap.Float64("initial_capital", e.cfg.InitialCapital),
	)

	for _, b := range tl.Buckets {
		e.processBucket(b, led, trk, lastPrice)
	}

	// Settle whatever is still open at the last seen price per asset.
	if !tl.Empty() {
		final := tl.Buckets[len(tl.Buckets)-1].Time
		for _, asset := range led.OpenAssets() {
			price, ok := lastPrice[asset]
			if !ok {
				continue
			}
			if p, closed := led.Close(asset, final, price); closed {
				e.log.Debug("force close at end of data",
					zap.String("asset", asset),
					zap.Float64("pnl", p.PnL),
				)
			}
		}
	}

	res := buildResult(e.cfg, led, trk, tl.Start, tl.End)

	e.log.Info("backtest complete",
		zap.Float64("final_capital", res.FinalCapital),
		zap.Float64("return_pct", res.TotalReturnPct),
		zap.Int("trades", res.NumTrades),
		zap.Float64("funding_collected", res.FundingCollected),
	)
	return res, nil
}

func (e *Engine) processBucket(b market.Bucket, led *Ledger, trk *Tracker, lastPrice map[string]float64) {
	assets := b.Assets()

	for _, asset := range assets {
		lastPrice[asset] = b.Points[asset].MarkPrice
	}

	// Assets already held when the bucket opened. A position closed in
	// this bucket must not re-enter until the next one.
	heldAtStart := make(map[string]bool, led.OpenCount())
	for _, asset := range led.OpenAssets() {
		heldAtStart[asset] = true
	}

	// Update phase: accrue funding, then exit on signal change. A held
	// asset missing from this bucket carries over untouched.
	for _, asset := range led.OpenAssets() {
		pt, ok := b.Points[asset]
		if !ok {
			continue
		}
		if accrued := led.Update(asset, pt.FundingRate); accrued != 0 {
			e.log.Debug("funding accrued",
				zap.String("asset", asset),
				zap.Float64("rate", pt.FundingRate),
				zap.Float64("amount", accrued),
			)
		}
		held, _ := led.Get(asset)
		sig := funding.Classify(pt.FundingRate, e.cfg.FundingThreshold)
		if funding.ShouldExit(held.Signal, sig) {
			if p, closed := led.Close(asset, b.Time, pt.MarkPrice); closed {
				e.log.Debug("position closed",
					zap.String("asset", asset),
					zap.String("signal", sig.String()),
					zap.Float64("pnl", p.PnL),
					zap.Float64("funding", p.FundingCollected),
				)
			}
		}
	}

	// Entry phase: rank fresh candidates by |rate|, strongest first.
	// Equal rates keep lexical asset order, so replays are stable.
	type candidate struct {
		asset string
		pt    market.Point
		sig   funding.Signal
	}
	var candidates []candidate
	for _, asset := range assets {
		if heldAtStart[asset] {
			continue
		}
		pt := b.Points[asset]
		sig := funding.Classify(pt.FundingRate, e.cfg.FundingThreshold)
		if sig == funding.NoSignal {
			continue
		}
		candidates = append(candidates, candidate{asset: asset, pt: pt, sig: sig})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].pt.FundingRate) > math.Abs(candidates[j].pt.FundingRate)
	})

	for _, c := range candidates {
		if led.OpenCount() >= risk.MaxConcurrent(led.Capital(), e.cfg.MaxPositionSizeUSD) {
			continue
		}
		sizeUSD := risk.PositionSize(led.Capital(), e.cfg.MaxPositionSizeUSD)
		if led.Open(c.asset, b.Time, c.pt.MarkPrice, c.sig, sizeUSD) {
			p, _ := led.Get(c.asset)
			e.log.Debug("position opened",
				zap.String("asset", c.asset),
				zap.String("signal", c.sig.String()),
				zap.Float64("rate", c.pt.FundingRate),
				zap.Float64("size_usd", sizeUSD),
				zap.Float64("expected_apr", funding.ExpectedAPR(c.pt.FundingRate)),
				zap.Float64("net_delta", p.NetDelta()),
			)
		}
	}

	// Equity sample: capital plus marked-to-market open positions.
	// Held assets absent from this bucket contribute nothing new.
	equity := led.Capital()
	for _, asset := range led.OpenAssets() {
		pt, ok := b.Points[asset]
		if !ok {
			continue
		}
		p, _ := led.Get(asset)
		equity += p.UnrealizedPnL(pt.MarkPrice) + p.FundingCollected
	}
	trk.Record(b.Time, equity)
}
