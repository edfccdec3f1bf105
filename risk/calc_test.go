package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		capital float64
		maxPos  float64
		want    float64
	}{
		{name: "cap_wins_when_capital_large", capital: 10000, maxPos: 5000, want: 5000},
		{name: "capital_wins_when_small", capital: 1000, maxPos: 5000, want: 800},
		{name: "boundary_uses_cap", capital: 6250, maxPos: 5000, want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, PositionSize(tt.capital, tt.maxPos), 1e-9)
		})
	}
}

func TestMaxConcurrent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		capital float64
		maxPos  float64
		want    int
	}{
		{name: "one_slot", capital: 10000, maxPos: 5000, want: 1},
		{name: "many_slots", capital: 100000, maxPos: 5000, want: 16},
		{name: "small_account_still_one", capital: 1000, maxPos: 5000, want: 1},
		{name: "zero_cap_clamps", capital: 10000, maxPos: 0, want: 1},
		{name: "negative_capital_clamps", capital: -100, maxPos: 5000, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MaxConcurrent(tt.capital, tt.maxPos))
		})
	}
}

func TestNetDelta(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, NetDelta(0.1, -0.1), 1e-12)
	assert.InDelta(t, 0.01, NetDelta(0.1, -0.09), 1e-12)
}

func TestIsBalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		spot      float64
		perp      float64
		threshold float64
		want      bool
	}{
		{name: "no_spot_leg", spot: 0, perp: -0.1, threshold: 0.05, want: true},
		{name: "perfect_hedge", spot: 0.1, perp: -0.1, threshold: 0.05, want: true},
		{name: "drift_within_tolerance", spot: 0.1, perp: -0.096, threshold: 0.05, want: true},
		{name: "drift_at_tolerance", spot: 1.0, perp: -0.9375, threshold: 0.0625, want: true},
		{name: "drift_beyond_tolerance", spot: 0.1, perp: -0.09, threshold: 0.05, want: false},
		{name: "short_spot_leg", spot: -0.1, perp: 0.1, threshold: 0.05, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsBalanced(tt.spot, tt.perp, tt.threshold))
		})
	}
}
