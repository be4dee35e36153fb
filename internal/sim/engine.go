// Package sim abstracts the external traffic simulation engine that
// produces agent trajectories. The engine is a black box to the rest of the
// pipeline: given an AV target speed and per-pedestrian walking speeds it
// returns sampled positions for every agent plus the AV's traversal time
// over the monitored junction segment.
//
// Each Run call owns an exclusive engine session for its duration; the
// session is released on every exit path, including errors and context
// cancellation.
package sim

import (
	"context"
	"errors"

	"github.com/banshee-data/crossing.report/internal/pet"
)

// ErrUnavailable indicates the engine cannot be reached at all. Callers
// treat this as fatal before any trial has started, unlike per-run failures
// which degrade a single trial.
var ErrUnavailable = errors.New("sim: engine unavailable")

// RunRequest parameterises one simulation run.
type RunRequest struct {
	// AVSpeed is the vehicle's target speed in m/s.
	AVSpeed float64
	// PedSpeeds holds one target walking speed per monitored pedestrian,
	// in crossing order.
	PedSpeeds []float64
	// ConfigPath is an opaque reference to the engine's scenario
	// configuration.
	ConfigPath string
	// Steps bounds the run at a fixed number of simulation steps.
	Steps int
}

// Traversal is the AV's measured travel time over the monitored junction
// segment. Valid is false when the traversal could not be measured: the
// vehicle never entered the segment or was still on it when the run ended.
type Traversal struct {
	Seconds float64
	Valid   bool
}

// RunResult is the engine's output for one run. Pedestrians is parallel to
// RunRequest.PedSpeeds.
type RunResult struct {
	Traversal   Traversal
	Vehicle     []pet.TrajectoryPoint
	Pedestrians [][]pet.TrajectoryPoint
}

// Engine is the external trajectory-producing collaborator.
type Engine interface {
	// Ping reports whether the engine can be reached. A failure before
	// the first trial aborts the whole search.
	Ping(ctx context.Context) error

	// Run executes a single simulation. Launch and protocol errors are
	// returned rather than panicking; the caller decides whether to
	// degrade or abort.
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}
