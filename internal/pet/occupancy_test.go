package pet

import (
	"math"
	"testing"

	"github.com/banshee-data/crossing.report/internal/geom"
)

var square = geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

func tp(t, x, y float64) TrajectoryPoint {
	return TrajectoryPoint{Time: t, X: x, Y: y}
}

func TestExtractInterval(t *testing.T) {
	tester := geom.WindingTester{}

	testCases := []struct {
		name string
		traj []TrajectoryPoint
		area geom.Polygon
		want Interval
	}{
		{
			name: "pass_through_midpoint_crossings",
			traj: []TrajectoryPoint{tp(0, -5, 5), tp(1, 5, 5), tp(2, 15, 5)},
			area: square,
			want: Interval{Entry: 0.5, Exit: 1.5, Determinate: true},
		},
		{
			name: "starts_inside_then_exits",
			traj: []TrajectoryPoint{tp(0, 5, 5), tp(1, 15, 5)},
			area: square,
			want: Interval{Entry: 0, Exit: 0.5, Determinate: true},
		},
		{
			name: "enters_and_ends_inside",
			traj: []TrajectoryPoint{tp(0, -5, 5), tp(1, 5, 5)},
			area: square,
			want: Interval{Entry: 0.5, Exit: 1, Determinate: true},
		},
		{
			name: "never_enters",
			traj: []TrajectoryPoint{tp(0, -5, 20), tp(1, 5, 20), tp(2, 15, 20)},
			area: square,
			want: Interval{},
		},
		{
			name: "single_sample_inside",
			traj: []TrajectoryPoint{tp(0, 5, 5)},
			area: square,
			want: Interval{Entry: 0, Exit: 0, Determinate: true},
		},
		{
			name: "single_sample_outside",
			traj: []TrajectoryPoint{tp(0, 100, 100)},
			area: square,
			want: Interval{},
		},
		{
			name: "empty_trajectory",
			traj: nil,
			area: square,
			want: Interval{},
		},
		{
			name: "degenerate_polygon",
			traj: []TrajectoryPoint{tp(0, 5, 5), tp(1, 6, 5)},
			area: geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}},
			want: Interval{},
		},
		{
			name: "first_exit_only_ignores_reentry",
			traj: []TrajectoryPoint{tp(0, -5, 5), tp(1, 5, 5), tp(2, 15, 5), tp(3, 5, 5), tp(4, -5, 5)},
			area: square,
			want: Interval{Entry: 0.5, Exit: 1.5, Determinate: true},
		},
		{
			name: "boundary_touch_is_outside",
			traj: []TrajectoryPoint{tp(0, -1, 0), tp(1, 0, 0), tp(2, 1, -1)},
			area: square,
			want: Interval{},
		},
		{
			name: "corner_clip",
			traj: []TrajectoryPoint{tp(0, -1, -1), tp(1, 0.1, 0.1), tp(2, 1, -1)},
			area: square,
			want: Interval{Entry: 0.5, Exit: 1.5, Determinate: true},
		},
		{
			name: "malformed_sample_aborts_extraction",
			traj: []TrajectoryPoint{tp(0, -5, 5), MalformedPoint(), tp(2, 15, 5)},
			area: square,
			want: Interval{},
		},
		{
			name: "nan_coordinate_aborts_extraction",
			traj: []TrajectoryPoint{tp(0, 5, 5), {Time: 1, X: math.NaN(), Y: 5}},
			area: square,
			want: Interval{},
		},
		{
			name: "decreasing_time_collapses",
			traj: []TrajectoryPoint{tp(5, -5, 5), tp(4, 5, 5), tp(-3, 15, 5)},
			area: square,
			want: Interval{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractInterval(tc.traj, tc.area, tester)
			if got != tc.want {
				t.Errorf("ExtractInterval() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// Extraction must produce identical intervals under both containment
// strategies for trajectories that stay clear of polygon boundaries.
func TestExtractIntervalStrategyAgreement(t *testing.T) {
	trajs := [][]TrajectoryPoint{
		{tp(0, -5, 5), tp(1, 5, 5), tp(2, 15, 5)},
		{tp(0, 5, 5), tp(1, 15, 5)},
		{tp(3, 5, -5), tp(4, 5, 5), tp(5, 5, 15)},
		{tp(0, -5, 20), tp(1, 5, 20)},
	}
	for i, traj := range trajs {
		a := ExtractInterval(traj, square, geom.CrossingTester{})
		b := ExtractInterval(traj, square, geom.WindingTester{})
		if a != b {
			t.Errorf("trajectory %d: crossing=%+v winding=%+v", i, a, b)
		}
	}
}
