// Package pet computes the Post-Encroachment Time safety metric: the
// temporal gap (or overlap, if negative) between two agents' occupancy of a
// shared conflict area. Trajectories come in as time-stamped position
// samples; the package reduces each to an occupancy interval per conflict
// area and combines interval pairs into a single PET value.
package pet

import "math"

// TrajectoryPoint is one time-stamped position sample for an agent. Samples
// arrive from the simulation engine ordered by non-decreasing Time.
//
// A sample with a non-finite field is malformed. The engine boundary encodes
// records with missing fields as NaN, so malformed wire data surfaces here
// rather than in later arithmetic.
type TrajectoryPoint struct {
	Time float64
	X    float64
	Y    float64
}

// wellFormed reports whether every field holds a finite value.
func (p TrajectoryPoint) wellFormed() bool {
	return !math.IsNaN(p.Time) && !math.IsInf(p.Time, 0) &&
		!math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// MalformedPoint is the sentinel sample the engine boundary substitutes for
// a wire record missing a required field. Any trajectory containing it
// yields an indeterminate occupancy interval.
func MalformedPoint() TrajectoryPoint {
	nan := math.NaN()
	return TrajectoryPoint{Time: nan, X: nan, Y: nan}
}
