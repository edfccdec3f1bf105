package backtest

import "math"

// Tracker accumulates the equity curve and derives its risk metrics.
type Tracker struct {
	samples []EquitySample
}

func (t *Tracker) Record(ts int64, equity float64) {
	t.samples = append(t.samples, EquitySample{Time: ts, Equity: equity})
}

func (t *Tracker) Samples() []EquitySample { return t.samples }

// MaxDrawdown is the deepest peak-to-trough decline as a fraction of
// the peak. 0 for a non-decreasing curve.
func (t *Tracker) MaxDrawdown() float64 {
	var peak, maxDD float64
	for _, s := range t.samples {
		if s.Equity > peak {
			peak = s.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - s.Equity) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Returns is the fractional change between consecutive samples.
func (t *Tracker) Returns() []float64 {
	if len(t.samples) < 2 {
		return nil
	}
	rets := make([]float64, 0, len(t.samples)-1)
	for i := 1; i < len(t.samples); i++ {
		prev := t.samples[i-1].Equity
		if prev == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (t.samples[i].Equity-prev)/prev)
	}
	return rets
}

// SharpeRatio annualizes the mean period return over its volatility.
// 0 when fewer than two returns exist or volatility is zero.
func (t *Tracker) SharpeRatio(periodsPerYear float64) float64 {
	rets := t.Returns()
	if len(rets) < 2 {
		return 0
	}
	std := sampleStdDev(rets)
	if std == 0 {
		return 0
	}
	return arithmeticMean(rets) / std * math.Sqrt(periodsPerYear)
}

func arithmeticMean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := arithmeticMean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
