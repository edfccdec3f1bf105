// Package backtest replays historical funding-rate data through a
// delta-neutral ledger and produces a deterministic run summary:
// identical input and configuration always yield an identical Result.
package backtest

import (
	"time"

	"github.com/quantfold/fundarb/funding"
	"github.com/quantfold/fundarb/market"
)

// Config is the immutable per-run configuration.
type Config struct {
	InitialCapital     float64
	FundingThreshold   float64 // min |period rate| to open
	MaxPositionSizeUSD float64
	Leverage           float64 // carried for parity with live accounts, not applied to sizing
	RebalanceThreshold float64 // reserved for the live rebalancer, unused during replay
	TradingFee         float64 // per-side rate
	CheckInterval      time.Duration
	PeriodsPerYear     float64 // Sharpe annualization
}

// DefaultConfig mirrors the live monitor defaults.
func DefaultConfig() Config {
	return Config{
		InitialCapital:     10000,
		FundingThreshold:   0.0001,
		MaxPositionSizeUSD: 5000,
		Leverage:           2.0,
		RebalanceThreshold: 0.05,
		TradingFee:         0.0002,
		CheckInterval:      market.DefaultInterval,
		PeriodsPerYear:     funding.PeriodsPerYear,
	}
}

func (c Config) withDefaults() Config {
	if c.CheckInterval <= 0 {
		c.CheckInterval = market.DefaultInterval
	}
	if c.PeriodsPerYear <= 0 {
		c.PeriodsPerYear = funding.PeriodsPerYear
	}
	return c
}
