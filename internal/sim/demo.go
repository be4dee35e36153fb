package sim

import (
	"context"

	"github.com/banshee-data/crossing.report/internal/geom"
	"github.com/banshee-data/crossing.report/internal/pet"
)

// Demo world geometry. The vehicle drives east along y=0 and the monitored
// junction segment spans x in [segmentStart, segmentEnd]. Pedestrian i walks
// north across the road at x = crossingX(i).
const (
	demoStepSeconds  = 0.1
	demoDefaultSteps = 200

	demoVehicleStartX = -40.0
	demoSegmentStart  = 0.0
	demoSegmentEnd    = 30.0

	demoPedStartY      = -15.0
	demoCrossingFirstX = 5.0
	demoCrossingPitchX = 20.0
	demoCrossingHalf   = 1.5
)

// DemoEngine synthesises constant-speed trajectories for a straight road
// with marked pedestrian crossings. It exists so the search binary can run
// end to end without an external simulator, and it doubles as a
// deterministic fixture for integration-style tests.
type DemoEngine struct{}

// DemoAreas returns one conflict polygon per crossing, matching the
// geometry DemoEngine simulates.
func DemoAreas(count int) []geom.Polygon {
	areas := make([]geom.Polygon, count)
	for i := range areas {
		cx := crossingX(i)
		areas[i] = geom.Polygon{
			{X: cx - demoCrossingHalf, Y: -demoCrossingHalf},
			{X: cx + demoCrossingHalf, Y: -demoCrossingHalf},
			{X: cx + demoCrossingHalf, Y: demoCrossingHalf},
			{X: cx - demoCrossingHalf, Y: demoCrossingHalf},
		}
	}
	return areas
}

func crossingX(i int) float64 {
	return demoCrossingFirstX + demoCrossingPitchX*float64(i)
}

// Ping always succeeds; the demo engine is in-process.
func (DemoEngine) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Run steps the demo world and samples every agent each step, tracking the
// vehicle's first entry to and first exit from the monitored segment.
func (DemoEngine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	steps := req.Steps
	if steps <= 0 {
		steps = demoDefaultSteps
	}

	res := &RunResult{
		Vehicle:     make([]pet.TrajectoryPoint, 0, steps),
		Pedestrians: make([][]pet.TrajectoryPoint, len(req.PedSpeeds)),
	}
	for i := range res.Pedestrians {
		res.Pedestrians[i] = make([]pet.TrajectoryPoint, 0, steps)
	}

	enterTime := -1.0
	exitTime := -1.0

	for step := 0; step < steps; step++ {
		t := float64(step) * demoStepSeconds

		vx := demoVehicleStartX + req.AVSpeed*t
		res.Vehicle = append(res.Vehicle, pet.TrajectoryPoint{Time: t, X: vx, Y: 0})

		if vx >= demoSegmentStart && vx <= demoSegmentEnd {
			if enterTime < 0 {
				enterTime = t
			}
		} else if enterTime >= 0 && vx > demoSegmentEnd && exitTime < 0 {
			// First exit only; the demo vehicle never reverses.
			exitTime = t
		}

		for i, speed := range req.PedSpeeds {
			py := demoPedStartY + speed*t
			res.Pedestrians[i] = append(res.Pedestrians[i], pet.TrajectoryPoint{Time: t, X: crossingX(i), Y: py})
		}
	}

	if enterTime >= 0 && exitTime >= 0 {
		res.Traversal = Traversal{Seconds: exitTime - enterTime, Valid: true}
	}
	return res, nil
}
