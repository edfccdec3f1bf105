package market

import (
	"fmt"
	"sort"
	"time"
)

// DefaultInterval is the funding cadence on most perpetual venues.
const DefaultInterval = 8 * time.Hour

// Bucket holds the points of all assets that reported within one interval,
// keyed by asset symbol.
type Bucket struct {
	Time   int64 // bucket start, milliseconds
	Points map[string]Point
}

// Assets returns the bucket's asset symbols in lexical order.
func (b Bucket) Assets() []string {
	assets := make([]string, 0, len(b.Points))
	for asset := range b.Points {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Timeline is the bucketed, replay-ready view of a raw history map.
// Buckets ascend by time; Start and End are the raw (unbucketed) timestamp
// range of the input.
type Timeline struct {
	Buckets []Bucket
	Start   int64
	End     int64
}

// Empty reports whether the timeline holds no data at all.
func (t Timeline) Empty() bool { return len(t.Buckets) == 0 }

// SortedAssets returns a history map's asset symbols in lexical order.
func SortedAssets(history map[string][]Point) []string {
	assets := make([]string, 0, len(history))
	for asset := range history {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// BuildTimeline groups per-asset point sequences into interval-aligned
// buckets: bucket time = floor(timestamp/interval)*interval. Input slices
// need not be sorted and are not modified. When two points for the same
// asset land in the same bucket, the chronologically later one wins; equal
// timestamps resolve to the later entry in that asset's sequence.
//
// The result is fully deterministic: assets are processed in lexical order,
// so identical input always yields an identical timeline regardless of map
// iteration order.
//
// A point with a non-positive mark price aborts the build. Prices feed
// directly into sizing and PnL arithmetic, and a zero or negative mark
// would corrupt every downstream number silently.
func BuildTimeline(history map[string][]Point, interval time.Duration) (Timeline, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	intervalMS := interval.Milliseconds()

	assets := SortedAssets(history)

	var tl Timeline
	byTime := make(map[int64]map[string]Point)
	seen := false

	for _, asset := range assets {
		points := append([]Point(nil), history[asset]...)
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp < points[j].Timestamp
		})

		for _, p := range points {
			if p.MarkPrice <= 0 {
				return Timeline{}, fmt.Errorf("market: %s at %d: mark price must be positive, got %g",
					asset, p.Timestamp, p.MarkPrice)
			}
			if !seen || p.Timestamp < tl.Start {
				tl.Start = p.Timestamp
			}
			if !seen || p.Timestamp > tl.End {
				tl.End = p.Timestamp
			}
			seen = true

			bt := p.Timestamp / intervalMS * intervalMS
			if byTime[bt] == nil {
				byTime[bt] = make(map[string]Point)
			}
			byTime[bt][asset] = p
		}
	}

	times := make([]int64, 0, len(byTime))
	for bt := range byTime {
		times = append(times, bt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	tl.Buckets = make([]Bucket, 0, len(times))
	for _, bt := range times {
		tl.Buckets = append(tl.Buckets, Bucket{Time: bt, Points: byTime[bt]})
	}
	return tl, nil
}
