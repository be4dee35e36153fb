package optimizer

import (
	"math/rand"
	"testing"
)

func TestSpeedSamplerFloor(t *testing.T) {
	s := SpeedSampler{Mean: 1.34, StdDev: 0.26, Floor: 0.2}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		v := s.Sample(rng)
		if v < s.Floor {
			t.Fatalf("sample %d = %v, below floor %v", i, v, s.Floor)
		}
	}
}

func TestSpeedSamplerDeterministic(t *testing.T) {
	s := SpeedSampler{Mean: 1.34, StdDev: 0.26, Floor: 0.2}

	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		if got, want := s.Sample(a), s.Sample(b); got != want {
			t.Fatalf("draw %d diverged: %v vs %v", i, got, want)
		}
	}
}

func TestSpeedSamplerZeroStdDev(t *testing.T) {
	s := SpeedSampler{Mean: 1.5, StdDev: 0, Floor: 0.2}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5; i++ {
		if v := s.Sample(rng); v != 1.5 {
			t.Fatalf("zero-stddev sample = %v, want 1.5", v)
		}
	}
}
