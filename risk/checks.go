package risk

import (
	"fmt"
	"strings"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Err collapses the violations into a single error. Nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	msgs := make([]string, 0, len(d.Violations))
	for _, v := range d.Violations {
		msgs = append(msgs, v.Msg)
	}
	return fmt.Errorf("risk: %s", strings.Join(msgs, "; "))
}

// Check validates a set of account limits before a run is allowed to
// start. Every violation is collected rather than failing on the first,
// so a bad config surfaces all its problems at once.
func Check(l Limits) Decision {
	d := Decision{Allowed: true}

	if l.InitialCapital <= 0 {
		d.add("CAPITAL_NOT_POSITIVE",
			fmt.Sprintf("initial capital %.2f must be positive", l.InitialCapital))
	}
	if l.FundingThreshold < 0 {
		d.add("THRESHOLD_NEGATIVE",
			fmt.Sprintf("funding threshold %g must not be negative", l.FundingThreshold))
	}
	if l.MaxPositionSizeUSD <= 0 {
		d.add("MAX_POSITION_NOT_POSITIVE",
			fmt.Sprintf("max position size %.2f must be positive", l.MaxPositionSizeUSD))
	}
	if l.TradingFee < 0 {
		d.add("FEE_NEGATIVE",
			fmt.Sprintf("trading fee %g must not be negative", l.TradingFee))
	}
	if l.TradingFee >= 1 {
		d.add("FEE_NOT_FRACTIONAL",
			fmt.Sprintf("trading fee %g must be a per-side fraction, not a percentage", l.TradingFee))
	}
	if l.Leverage < 1 {
		d.add("LEVERAGE_TOO_LOW",
			fmt.Sprintf("leverage %.2f below 1.0", l.Leverage))
	}
	if l.RebalanceThreshold < 0 {
		d.add("REBALANCE_NEGATIVE",
			fmt.Sprintf("rebalance threshold %g must not be negative", l.RebalanceThreshold))
	}
	if l.CheckIntervalHours <= 0 {
		d.add("INTERVAL_NOT_POSITIVE",
			fmt.Sprintf("check interval %d hours must be positive", l.CheckIntervalHours))
	}

	return d
}
