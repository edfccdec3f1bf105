package risk

// deployableFraction caps how much of current capital may be committed
// across all open positions at once.
const deployableFraction = 0.8

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PositionSize returns the notional for the next position: the
// per-position cap or the deployable share of current capital,
// whichever is smaller.
func PositionSize(capital, maxPositionUSD float64) float64 {
	if deployable := deployableFraction * capital; deployable < maxPositionUSD {
		return deployable
	}
	return maxPositionUSD
}

// MaxConcurrent returns how many positions at the configured cap fit in
// the deployable share of capital. Always at least one, so a small
// account can still trade.
func MaxConcurrent(capital, maxPositionUSD float64) int {
	if maxPositionUSD <= 0 {
		return 1
	}
	n := int(deployableFraction * capital / maxPositionUSD)
	if n < 1 {
		return 1
	}
	return n
}

// NetDelta is the combined signed exposure of the spot and perp legs.
func NetDelta(spotSize, perpSize float64) float64 {
	return spotSize + perpSize
}

// IsBalanced reports whether the net delta is within tolerance,
// measured relative to the spot leg. A position with no spot leg is
// trivially balanced.
func IsBalanced(spotSize, perpSize, threshold float64) bool {
	if spotSize == 0 {
		return true
	}
	return abs(NetDelta(spotSize, perpSize)/spotSize) <= threshold
}
