package optimizer

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		count    int
		want     []float64
	}{
		{"five points", 5, 20, 5, []float64{5, 8.75, 12.5, 16.25, 20}},
		{"two points", 0, 1, 2, []float64{0, 1}},
		{"single point", 7, 9, 1, []float64{7}},
		{"zero width", 3, 3, 4, []float64{3, 3, 3, 3}},
		{"zero count", 0, 1, 0, nil},
		{"negative count", 0, 1, -3, nil},
		{"inverted range", 2, 1, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.min, tt.max, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("Linspace(%v, %v, %d) = %v, want %v", tt.min, tt.max, tt.count, got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLinspaceEndpointsExact(t *testing.T) {
	got := Linspace(5.0, 20.0, 7)
	if got[0] != 5.0 {
		t.Errorf("first point = %v, want exactly 5.0", got[0])
	}
	if got[len(got)-1] != 20.0 {
		t.Errorf("last point = %v, want exactly 20.0", got[len(got)-1])
	}
}
