package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hourMS = int64(3600 * 1000)

func TestBuildTimelineBucketsByInterval(t *testing.T) {
	t.Parallel()

	history := map[string][]Point{
		"BTC": {
			{Timestamp: 0, Asset: "BTC", FundingRate: 0.0001, MarkPrice: 50000},
			{Timestamp: 8*hourMS - 1, Asset: "BTC", FundingRate: 0.0002, MarkPrice: 50100},
			{Timestamp: 8 * hourMS, Asset: "BTC", FundingRate: 0.0003, MarkPrice: 50200},
		},
	}

	tl, err := BuildTimeline(history, 8*time.Hour)
	require.NoError(t, err)

	require.Len(t, tl.Buckets, 2)
	assert.Equal(t, int64(0), tl.Buckets[0].Time)
	assert.Equal(t, 8*hourMS, tl.Buckets[1].Time)

	// Within a bucket the later point wins.
	assert.Equal(t, 0.0002, tl.Buckets[0].Points["BTC"].FundingRate)
	assert.Equal(t, 0.0003, tl.Buckets[1].Points["BTC"].FundingRate)

	// Start/End are the raw input range, not bucket boundaries.
	assert.Equal(t, int64(0), tl.Start)
	assert.Equal(t, 8*hourMS, tl.End)
}

func TestBuildTimelineUnsortedInput(t *testing.T) {
	t.Parallel()

	history := map[string][]Point{
		"ETH": {
			{Timestamp: 16 * hourMS, Asset: "ETH", FundingRate: 0.0003, MarkPrice: 3010},
			{Timestamp: 0, Asset: "ETH", FundingRate: 0.0001, MarkPrice: 3000},
			{Timestamp: 8 * hourMS, Asset: "ETH", FundingRate: 0.0002, MarkPrice: 3005},
		},
	}

	tl, err := BuildTimeline(history, 8*time.Hour)
	require.NoError(t, err)

	require.Len(t, tl.Buckets, 3)
	for i := 1; i < len(tl.Buckets); i++ {
		assert.Less(t, tl.Buckets[i-1].Time, tl.Buckets[i].Time)
	}
	assert.Equal(t, int64(0), tl.Start)
	assert.Equal(t, 16*hourMS, tl.End)
}

func TestBuildTimelineLaterDuplicateWins(t *testing.T) {
	t.Parallel()

	// Both points land in bucket 0; the one stamped later must win even
	// though it appears first in the slice.
	history := map[string][]Point{
		"SOL": {
			{Timestamp: 2 * hourMS, Asset: "SOL", FundingRate: 0.0009, MarkPrice: 151},
			{Timestamp: 1 * hourMS, Asset: "SOL", FundingRate: 0.0001, MarkPrice: 150},
		},
	}

	tl, err := BuildTimeline(history, 8*time.Hour)
	require.NoError(t, err)

	require.Len(t, tl.Buckets, 1)
	assert.Equal(t, 0.0009, tl.Buckets[0].Points["SOL"].FundingRate)
	assert.Equal(t, 151.0, tl.Buckets[0].Points["SOL"].MarkPrice)
}

func TestBuildTimelineDeterministic(t *testing.T) {
	t.Parallel()

	history := map[string][]Point{}
	for _, asset := range []string{"BTC", "ETH", "SOL", "HYPE", "DOGE"} {
		for i := int64(0); i < 10; i++ {
			history[asset] = append(history[asset], Point{
				Timestamp:   i * 8 * hourMS,
				Asset:       asset,
				FundingRate: 0.0001 * float64(i+1),
				MarkPrice:   100 + float64(i),
			})
		}
	}

	first, err := BuildTimeline(history, 8*time.Hour)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := BuildTimeline(history, 8*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildTimelineRejectsBadMarkPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price float64
	}{
		{name: "zero", price: 0},
		{name: "negative", price: -42.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			history := map[string][]Point{
				"BTC": {{Timestamp: hourMS, Asset: "BTC", FundingRate: 0.0001, MarkPrice: tt.price}},
			}
			_, err := BuildTimeline(history, 8*time.Hour)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "mark price")
		})
	}
}

func TestBuildTimelineEmptyInput(t *testing.T) {
	t.Parallel()

	tl, err := BuildTimeline(map[string][]Point{}, 8*time.Hour)
	require.NoError(t, err)
	assert.True(t, tl.Empty())
	assert.Empty(t, tl.Buckets)
}

func TestBuildTimelineDefaultInterval(t *testing.T) {
	t.Parallel()

	history := map[string][]Point{
		"BTC": {
			{Timestamp: 0, Asset: "BTC", FundingRate: 0.0001, MarkPrice: 50000},
			{Timestamp: 9 * hourMS, Asset: "BTC", FundingRate: 0.0001, MarkPrice: 50000},
		},
	}

	tl, err := BuildTimeline(history, 0)
	require.NoError(t, err)
	require.Len(t, tl.Buckets, 2)
	assert.Equal(t, 8*hourMS, tl.Buckets[1].Time)
}

func TestBucketAssetsSorted(t *testing.T) {
	t.Parallel()

	b := Bucket{Points: map[string]Point{
		"SOL": {}, "BTC": {}, "ETH": {},
	}}
	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, b.Assets())
}
