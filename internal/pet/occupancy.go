package pet

import (
	"github.com/banshee-data/crossing.report/internal/geom"
)

// Interval is the time window during which one agent occupied a conflict
// area. Determinate is false when occupancy could not be established: the
// agent never entered, the trajectory was empty or malformed, the polygon
// was degenerate, or extraction produced an inconsistent bound pair.
type Interval struct {
	Entry       float64
	Exit        float64
	Determinate bool
}

// indeterminate is the collapsed "never determinately occupied" interval.
var indeterminate = Interval{}

// ExtractInterval reduces a sampled trajectory to the agent's first
// occupancy interval within area.
//
// Crossing instants are approximated by the midpoint of the two sample
// times that straddle a membership transition. This is a deliberate
// time-domain simplification; no geometric interpolation along the segment
// is attempted. Only the first exit is reported: re-entries after leaving
// the area are ignored. An agent still inside at the end of the trajectory
// gets the last sample's time as its exit.
func ExtractInterval(traj []TrajectoryPoint, area geom.Polygon, tester geom.ContainmentTester) Interval {
	if len(traj) == 0 || area.Degenerate() {
		return indeterminate
	}
	// A malformed sample anywhere invalidates the whole trajectory.
	for _, s := range traj {
		if !s.wellFormed() {
			return indeterminate
		}
	}

	var entry, exit float64
	var haveEntry, haveExit bool

	inside := tester.Contains(geom.Point{X: traj[0].X, Y: traj[0].Y}, area)
	if inside {
		entry = traj[0].Time
		haveEntry = true
	}

	for i := 1; i < len(traj); i++ {
		cur := traj[i]
		curInside := tester.Contains(geom.Point{X: cur.X, Y: cur.Y}, area)
		if !inside && curInside {
			if !haveEntry {
				entry = (traj[i-1].Time + cur.Time) / 2
				haveEntry = true
			}
			inside = true
		} else if inside && !curInside {
			exit = (traj[i-1].Time + cur.Time) / 2
			haveExit = true
			inside = false
			break
		}
	}

	// Still inside at trajectory end: occupancy runs to the last sample.
	if inside && haveEntry && !haveExit {
		exit = traj[len(traj)-1].Time
		haveExit = true
	}

	if !haveEntry || !haveExit {
		return indeterminate
	}
	if exit < entry {
		// Inconsistent sample ordering; treat as undetermined.
		return indeterminate
	}
	return Interval{Entry: entry, Exit: exit, Determinate: true}
}
