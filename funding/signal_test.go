package funding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	const threshold = 0.0001

	tests := []struct {
		name string
		rate float64
		want Signal
	}{
		{name: "above_threshold", rate: 0.0002, want: LongSpotShortPerp},
		{name: "below_neg_threshold", rate: -0.0003, want: ShortSpotLongPerp},
		{name: "inside_band_positive", rate: 0.00005, want: NoSignal},
		{name: "inside_band_negative", rate: -0.00005, want: NoSignal},
		{name: "zero", rate: 0, want: NoSignal},
		{name: "exactly_threshold", rate: threshold, want: NoSignal},
		{name: "exactly_neg_threshold", rate: -threshold, want: NoSignal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Classify(tt.rate, threshold))
		})
	}
}

func TestSignalString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "long_spot_short_perp", LongSpotShortPerp.String())
	assert.Equal(t, "short_spot_long_perp", ShortSpotLongPerp.String())
	assert.Equal(t, "no_signal", NoSignal.String())
	assert.Equal(t, "no_signal", Signal(99).String())
}

func TestShouldExit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		held    Signal
		current Signal
		want    bool
	}{
		{name: "same_signal_holds", held: LongSpotShortPerp, current: LongSpotShortPerp, want: false},
		{name: "flip_exits", held: LongSpotShortPerp, current: ShortSpotLongPerp, want: true},
		{name: "fade_to_none_exits", held: ShortSpotLongPerp, current: NoSignal, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ShouldExit(tt.held, tt.current))
		})
	}
}

func TestAccrue(t *testing.T) {
	t.Parallel()

	const notional = 5000.0

	tests := []struct {
		name string
		sig  Signal
		rate float64
		want float64
	}{
		{name: "short_perp_collects_positive", sig: LongSpotShortPerp, rate: 0.0002, want: 1.0},
		{name: "short_perp_never_pays", sig: LongSpotShortPerp, rate: -0.0003, want: 0},
		{name: "long_perp_pays_positive", sig: ShortSpotLongPerp, rate: 0.0002, want: -1.0},
		{name: "long_perp_collects_negative", sig: ShortSpotLongPerp, rate: -0.0003, want: 1.5},
		{name: "no_signal_accrues_nothing", sig: NoSignal, rate: 0.01, want: 0},
		{name: "zero_rate", sig: LongSpotShortPerp, rate: 0, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, Accrue(tt.sig, tt.rate, notional), 1e-12)
		})
	}
}

func TestExpectedAPR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.1095, ExpectedAPR(0.0001), 1e-12)
	assert.InDelta(t, 0.1095, ExpectedAPR(-0.0001), 1e-12)
	assert.Zero(t, ExpectedAPR(0))
}
