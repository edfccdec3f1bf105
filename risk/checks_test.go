package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLimits() Limits {
	return Limits{
		InitialCapital:     10000,
		FundingThreshold:   0.0001,
		MaxPositionSizeUSD: 5000,
		Leverage:           2.0,
		TradingFee:         0.0002,
		RebalanceThreshold: 0.05,
		CheckIntervalHours: 8,
	}
}

func hasCode(d Decision, code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func TestCheckAllowed(t *testing.T) {
	t.Parallel()

	d := Check(validLimits())
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)
	assert.NoError(t, d.Err())
}

func TestCheckViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Limits)
		code   string
	}{
		{name: "zero_capital", mutate: func(l *Limits) { l.InitialCapital = 0 }, code: "CAPITAL_NOT_POSITIVE"},
		{name: "negative_threshold", mutate: func(l *Limits) { l.FundingThreshold = -0.0001 }, code: "THRESHOLD_NEGATIVE"},
		{name: "zero_max_position", mutate: func(l *Limits) { l.MaxPositionSizeUSD = 0 }, code: "MAX_POSITION_NOT_POSITIVE"},
		{name: "negative_fee", mutate: func(l *Limits) { l.TradingFee = -0.0002 }, code: "FEE_NEGATIVE"},
		{name: "percentage_fee", mutate: func(l *Limits) { l.TradingFee = 2 }, code: "FEE_NOT_FRACTIONAL"},
		{name: "sub_unit_leverage", mutate: func(l *Limits) { l.Leverage = 0.5 }, code: "LEVERAGE_TOO_LOW"},
		{name: "negative_rebalance", mutate: func(l *Limits) { l.RebalanceThreshold = -0.01 }, code: "REBALANCE_NEGATIVE"},
		{name: "zero_interval", mutate: func(l *Limits) { l.CheckIntervalHours = 0 }, code: "INTERVAL_NOT_POSITIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := validLimits()
			tt.mutate(&l)
			d := Check(l)
			assert.False(t, d.Allowed)
			assert.True(t, hasCode(d, tt.code), "want violation %s, got %v", tt.code, d.Violations)
			assert.Error(t, d.Err())
		})
	}
}

func TestCheckCollectsAllViolations(t *testing.T) {
	t.Parallel()

	d := Check(Limits{})
	assert.False(t, d.Allowed)
	// Zero value trips capital, max position, leverage and interval.
	assert.GreaterOrEqual(t, len(d.Violations), 4)

	err := d.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial capital")
	assert.Contains(t, err.Error(), "check interval")
}
