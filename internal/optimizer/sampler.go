package optimizer

import "math/rand"

// SpeedSampler draws pedestrian walking speeds from a floored normal
// distribution: N(Mean, StdDev) clamped below at Floor. The floor keeps
// sampled pedestrians moving at a realistic minimum pace.
type SpeedSampler struct {
	Mean   float64
	StdDev float64
	Floor  float64
}

// Sample draws one speed using the supplied source. Each trial owns an
// independent source so concurrent trials never correlate.
func (s SpeedSampler) Sample(rng *rand.Rand) float64 {
	v := s.Mean + s.StdDev*rng.NormFloat64()
	if v < s.Floor {
		return s.Floor
	}
	return v
}
