package market

// Point is a single observation of an asset's perpetual market: the
// fractional funding rate for the period ending at Timestamp and the mark
// price at that moment. Rates are per-period (typically 8 hours), never
// annualized.
type Point struct {
	Timestamp    int64 // milliseconds since the Unix epoch
	Asset        string
	FundingRate  float64
	MarkPrice    float64
	OpenInterest float64 // zero when the feed does not report it
}
