package backtest

// Result is the complete output of one replay, consumed as plain data
// by the reporting and journaling layers.
type Result struct {
	StartTime      int64 // ms, first raw point across all assets
	EndTime        int64 // ms, last raw point
	InitialCapital float64
	FinalCapital   float64
	TotalReturn    float64
	TotalReturnPct float64

	FundingCollected float64

	NumTrades        int // open actions
	NumWinningTrades int
	NumLosingTrades  int
	WinRate          float64 // fraction of closed positions with positive pnl

	MaxDrawdown float64 // fraction of peak equity
	SharpeRatio float64

	Positions   []Position // closed, in close order
	Trades      []Trade
	EquityCurve []EquitySample
}

func buildResult(cfg Config, led *Ledger, trk *Tracker, start, end int64) Result {
	closed := led.ClosedPositions()

	var wins, losses int
	for _, p := range closed {
		switch {
		case p.PnL > 0:
			wins++
		case p.PnL < 0:
			losses++
		}
	}

	var opens int
	for _, t := range led.Trades() {
		if t.Action == ActionOpen {
			opens++
		}
	}

	finalCapital := led.Capital()
	totalReturn := finalCapital - cfg.InitialCapital
	var returnPct float64
	if cfg.InitialCapital != 0 {
		returnPct = totalReturn / cfg.InitialCapital * 100
	}

	denom := len(closed)
	if denom < 1 {
		denom = 1
	}

	return Result{
		StartTime:        start,
		EndTime:          end,
		InitialCapital:   cfg.InitialCapital,
		FinalCapital:     finalCapital,
		TotalReturn:      totalReturn,
		TotalReturnPct:   returnPct,
		FundingCollected: led.FundingCollected(),
		NumTrades:        opens,
		NumWinningTrades: wins,
		NumLosingTrades:  losses,
		WinRate:          float64(wins) / float64(denom),
		MaxDrawdown:      trk.MaxDrawdown(),
		SharpeRatio:      trk.SharpeRatio(cfg.PeriodsPerYear),
		Positions:        closed,
		Trades:           led.Trades(),
		EquityCurve:      trk.Samples(),
	}
}
