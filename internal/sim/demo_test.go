package sim

import (
	"context"
	"math"
	"testing"

	"github.com/banshee-data/crossing.report/internal/geom"
	"github.com/banshee-data/crossing.report/internal/pet"
)

func TestDemoEngineRun(t *testing.T) {
	engine := DemoEngine{}
	res, err := engine.Run(context.Background(), RunRequest{
		AVSpeed:   10.0,
		PedSpeeds: []float64{1.34, 1.2},
		Steps:     200,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Vehicle) != 200 {
		t.Errorf("vehicle samples = %d, want 200", len(res.Vehicle))
	}
	if len(res.Pedestrians) != 2 {
		t.Fatalf("pedestrian trajectories = %d, want 2", len(res.Pedestrians))
	}
	for i, traj := range res.Pedestrians {
		if len(traj) != 200 {
			t.Errorf("pedestrian %d samples = %d, want 200", i, len(traj))
		}
	}

	// At 10 m/s the vehicle covers the 30 m segment in 3 s. Sampling at
	// 0.1 s quantises entry/exit detection to one step.
	if !res.Traversal.Valid {
		t.Fatal("traversal should be measurable at 10 m/s over 200 steps")
	}
	if math.Abs(res.Traversal.Seconds-3.0) > 0.2 {
		t.Errorf("traversal = %.2fs, want ~3.0s", res.Traversal.Seconds)
	}
}

func TestDemoEngineTraversalUnmeasurable(t *testing.T) {
	engine := DemoEngine{}

	// Too few steps for the vehicle to clear the segment.
	res, err := engine.Run(context.Background(), RunRequest{AVSpeed: 5.0, Steps: 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Traversal.Valid {
		t.Errorf("traversal should be invalid, got %.2fs", res.Traversal.Seconds)
	}

	// A stationary vehicle never enters the segment at all.
	res, err = engine.Run(context.Background(), RunRequest{AVSpeed: 0, Steps: 50})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Traversal.Valid {
		t.Error("stationary vehicle should have no traversal")
	}
}

// The demo world and DemoAreas must line up: both agents pass through the
// conflict polygons and produce a finite PET.
func TestDemoEngineAreasProduceFinitePET(t *testing.T) {
	engine := DemoEngine{}
	areas := DemoAreas(2)
	tester := geom.WindingTester{}

	res, err := engine.Run(context.Background(), RunRequest{
		AVSpeed:   12.0,
		PedSpeeds: []float64{1.34, 1.34},
		Steps:     200,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, area := range areas {
		veh := pet.ExtractInterval(res.Vehicle, area, tester)
		ped := pet.ExtractInterval(res.Pedestrians[i], area, tester)
		if !veh.Determinate {
			t.Errorf("area %d: vehicle occupancy indeterminate", i)
		}
		if !ped.Determinate {
			t.Errorf("area %d: pedestrian occupancy indeterminate", i)
		}
		if v := pet.PET(veh, ped); math.IsInf(v, 0) {
			t.Errorf("area %d: PET = %v, want finite", i, v)
		}
	}
}

func TestDemoEngineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (DemoEngine{}).Run(ctx, RunRequest{AVSpeed: 10}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestNewEngine(t *testing.T) {
	testCases := []struct {
		kind      string
		bin       string
		expectErr bool
	}{
		{"demo", "", false},
		{"process", "sumo", false},
		{"process", "", true},
		{"traci", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.kind+"_"+tc.bin, func(t *testing.T) {
			engine, err := NewEngine(tc.kind, tc.bin)
			if tc.expectErr {
				if err == nil {
					t.Errorf("NewEngine(%q, %q) expected error, got %T", tc.kind, tc.bin, engine)
				}
				return
			}
			if err != nil {
				t.Errorf("NewEngine(%q, %q): %v", tc.kind, tc.bin, err)
			}
		})
	}
}
