package optimizer

import (
	"context"
	"math"
	"math/rand"

	"github.com/banshee-data/crossing.report/internal/geom"
	"github.com/banshee-data/crossing.report/internal/monitoring"
	"github.com/banshee-data/crossing.report/internal/pet"
	"github.com/banshee-data/crossing.report/internal/sim"
)

// TrialOutcome holds the derived metrics of one stochastic trial: one PET
// value per monitored conflict area plus the AV traversal metric. Degraded
// marks trials whose engine run failed; their PETs are forced to +Inf and
// the traversal to invalid so the aggregation always has numbers to reduce.
type TrialOutcome struct {
	PETs      []float64
	Traversal sim.Traversal
	Degraded  bool
}

// TrialRunner executes single trials for the grid search. Each trial draws
// fresh pedestrian speeds, runs the engine under an exclusive session, and
// reduces the returned trajectories to PET values.
type TrialRunner struct {
	Engine     sim.Engine
	Areas      []geom.Polygon
	Tester     geom.ContainmentTester
	Sampler    SpeedSampler
	ConfigPath string
	Steps      int
}

// Run executes one trial at the given AV speed. Engine-level failures are
// absorbed into a degraded outcome rather than propagated; the search loop
// keeps going.
func (t *TrialRunner) Run(ctx context.Context, avSpeed float64, rng *rand.Rand) TrialOutcome {
	pedSpeeds := make([]float64, len(t.Areas))
	for i := range pedSpeeds {
		pedSpeeds[i] = t.Sampler.Sample(rng)
	}

	res, err := t.Engine.Run(ctx, sim.RunRequest{
		AVSpeed:    avSpeed,
		PedSpeeds:  pedSpeeds,
		ConfigPath: t.ConfigPath,
		Steps:      t.Steps,
	})
	if err != nil {
		monitoring.Logf("[trial] engine run failed at speed %.2f m/s, degrading: %v", avSpeed, err)
		return degradedOutcome(len(t.Areas))
	}

	pets := make([]float64, len(t.Areas))
	for i, area := range t.Areas {
		var pedTraj []pet.TrajectoryPoint
		if i < len(res.Pedestrians) {
			pedTraj = res.Pedestrians[i]
		}
		veh := pet.ExtractInterval(res.Vehicle, area, t.Tester)
		ped := pet.ExtractInterval(pedTraj, area, t.Tester)
		pets[i] = pet.PET(veh, ped)
	}

	return TrialOutcome{PETs: pets, Traversal: res.Traversal}
}

// degradedOutcome is the worst-case stand-in for a failed trial: no
// conflict established on any area, traversal unmeasurable.
func degradedOutcome(areas int) TrialOutcome {
	pets := make([]float64, areas)
	for i := range pets {
		pets[i] = math.Inf(1)
	}
	return TrialOutcome{PETs: pets, Degraded: true}
}
