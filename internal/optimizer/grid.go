// Package optimizer runs the Monte-Carlo grid search for an AV target
// speed that satisfies the PET safety constraint with high probability
// while minimising junction traversal time.
package optimizer

// Linspace returns count evenly spaced values from min to max, inclusive of
// both endpoints. count <= 0 yields nil; count == 1 yields just min.
func Linspace(min, max float64, count int) []float64 {
	if count <= 0 || min > max {
		return nil
	}
	if count == 1 {
		return []float64{min}
	}
	out := make([]float64, count)
	step := (max - min) / float64(count-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	// Pin the endpoint to avoid float accumulation drift.
	out[count-1] = max
	return out
}
