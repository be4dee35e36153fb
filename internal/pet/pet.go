package pet

import "math"

// PET combines two occupancy intervals for the same conflict area into the
// post-encroachment time.
//
//   - +Inf: no temporal conflict was ever established (at least one interval
//     is indeterminate).
//   - Negative: the intervals overlap; the magnitude is the overlap
//     duration. The sign convention intentionally flags collisions.
//   - Zero: the intervals exactly touch.
//   - Positive: the true safety gap between the first agent's exit and the
//     second agent's entry.
//
// The result is symmetric in a and b apart from the overlap sign, which
// depends only on which bounds form the max/min pair, never on argument
// order.
func PET(a, b Interval) float64 {
	if !a.Determinate || !b.Determinate {
		return math.Inf(1)
	}

	latestEntry := math.Max(a.Entry, b.Entry)
	earliestExit := math.Min(a.Exit, b.Exit)

	if latestEntry < earliestExit {
		// Overlapping occupancy: negative, magnitude = overlap depth.
		return latestEntry - earliestExit
	}

	switch {
	case a.Exit <= b.Entry:
		return b.Entry - a.Exit
	case b.Exit <= a.Entry:
		return a.Entry - b.Exit
	default:
		// Boundaries coincide in both directions.
		return 0
	}
}
