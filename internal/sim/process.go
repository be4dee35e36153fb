package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"github.com/banshee-data/crossing.report/internal/pet"
)

// ProcessEngine drives an external simulator binary. One process is spawned
// per Run; the process is the session, so reaping it on every exit path
// satisfies the scoped-acquisition contract (exec's Output kills the child
// when the context is cancelled and always waits for it).
//
// Protocol: the binary receives the scenario config, target speeds and step
// budget as flags and writes a single JSON document to stdout.
type ProcessEngine struct {
	// Bin is the simulator executable name or path.
	Bin string
	// ExtraArgs are prepended before the generated flags, e.g. a
	// subcommand.
	ExtraArgs []string
}

// wirePoint is the boundary representation of a trajectory sample. Fields
// are pointers so records missing a required key survive decoding and can be
// converted into the malformed-sample condition instead of a zero value.
type wirePoint struct {
	Time *float64 `json:"time"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

type wireResult struct {
	TraversalSeconds float64       `json:"traversal_seconds"`
	TraversalValid   bool          `json:"traversal_valid"`
	Vehicle          []wirePoint   `json:"vehicle"`
	Pedestrians      [][]wirePoint `json:"pedestrians"`
}

// Ping checks that the simulator binary is resolvable.
func (e *ProcessEngine) Ping(ctx context.Context) error {
	if e.Bin == "" {
		return fmt.Errorf("%w: no simulator binary configured", ErrUnavailable)
	}
	if _, err := exec.LookPath(e.Bin); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Run launches one simulator process and decodes its output.
func (e *ProcessEngine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	args := append([]string{}, e.ExtraArgs...)
	args = append(args,
		"-c", req.ConfigPath,
		"--av-speed", strconv.FormatFloat(req.AVSpeed, 'f', -1, 64),
		"--steps", strconv.Itoa(req.Steps),
		"--json",
	)
	for _, s := range req.PedSpeeds {
		args = append(args, "--ped-speed", strconv.FormatFloat(s, 'f', -1, 64))
	}

	cmd := exec.CommandContext(ctx, e.Bin, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("simulator run failed: %w", err)
	}

	var wire wireResult
	if err := json.Unmarshal(out, &wire); err != nil {
		return nil, fmt.Errorf("decode simulator output: %w", err)
	}

	res := &RunResult{
		Traversal: Traversal{Seconds: wire.TraversalSeconds, Valid: wire.TraversalValid},
		Vehicle:   convertPoints(wire.Vehicle),
	}
	res.Pedestrians = make([][]pet.TrajectoryPoint, len(wire.Pedestrians))
	for i, traj := range wire.Pedestrians {
		res.Pedestrians[i] = convertPoints(traj)
	}
	return res, nil
}

// convertPoints validates wire records. A record missing any required field
// becomes a malformed sample, which downstream extraction treats as
// invalidating the whole trajectory.
func convertPoints(wire []wirePoint) []pet.TrajectoryPoint {
	if wire == nil {
		return nil
	}
	out := make([]pet.TrajectoryPoint, len(wire))
	for i, w := range wire {
		out[i] = pet.TrajectoryPoint{
			Time: deref(w.Time),
			X:    deref(w.X),
			Y:    deref(w.Y),
		}
	}
	return out
}

func deref(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
