// Package funding holds the funding-rate domain logic: signal
// classification against a threshold, the one-sided accrual model, and
// annualization helpers shared by the engine and the reports.
package funding

import "math"

// PeriodsPerYear is the default annualization constant: three 8-hour
// funding periods per day, 365 days. Callers that run with a different
// bucket width can supply their own value where one is accepted.
const PeriodsPerYear = 3 * 365

// Signal is the direction of a delta-neutral funding trade.
type Signal int

const (
	NoSignal Signal = iota
	LongSpotShortPerp
	ShortSpotLongPerp
)

func (s Signal) String() string {
	switch s {
	case LongSpotShortPerp:
		return "long_spot_short_perp"
	case ShortSpotLongPerp:
		return "short_spot_long_perp"
	default:
		return "no_signal"
	}
}

// Classify maps a fractional period funding rate to a trade signal.
// Positive rates above the threshold favor shorting the perp (shorts
// collect funding); negative rates below it favor the reverse.
func Classify(rate, threshold float64) Signal {
	switch {
	case rate > threshold:
		return LongSpotShortPerp
	case rate < -threshold:
		return ShortSpotLongPerp
	default:
		return NoSignal
	}
}

// ShouldExit reports whether a position held with signal held should be
// closed given the freshly classified signal for the same asset.
func ShouldExit(held, current Signal) bool {
	return current != held || current == NoSignal
}

// Accrue returns the funding credited (positive) or charged (negative)
// to a position of the given signal for one period, on a notional of
// position value in USD.
//
// The model is one-sided: a LongSpotShortPerp position collects funding
// when the rate is positive and pays nothing when it flips negative. A
// ShortSpotLongPerp position pays when the rate is positive and
// collects when it is negative.
func Accrue(sig Signal, rate, notional float64) float64 {
	switch sig {
	case LongSpotShortPerp:
		if rate > 0 {
			return rate * notional
		}
		return 0
	case ShortSpotLongPerp:
		return -rate * notional
	default:
		return 0
	}
}

// ExpectedAPR annualizes a fractional period rate, assuming the
// position collects every period.
func ExpectedAPR(rate float64) float64 {
	return math.Abs(rate) * PeriodsPerYear
}
