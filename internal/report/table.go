// Package report renders completed grid searches as text tables, CSV files,
// interactive HTML charts and static PNG plots.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/banshee-data/crossing.report/internal/optimizer"
)

// WriteTable renders the candidate grid as an aligned text table. Undefined
// mean traversals print as "n/a".
func WriteTable(w io.Writer, res *optimizer.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "SPEED (M/S)\tP(PET OK)\tMEAN TRAVERSAL\tTRIALS\tSATISFIED\tDEGRADED")
	for _, c := range res.Candidates {
		marker := ""
		if c.Speed == res.Best.Speed {
			marker = " *"
		}
		fmt.Fprintf(tw, "%.2f%s\t%.3f\t%s\t%d\t%d\t%d\n",
			c.Speed, marker, c.Probability, traversalCell(c), c.Trials, c.Satisfied, c.Degraded)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.MetConstraint {
		fmt.Fprintf(w, "\nbest speed %.2f m/s (P=%.3f, traversal %s)\n",
			res.Best.Speed, res.Best.Probability, traversalCell(res.Best))
	} else {
		fmt.Fprintf(w, "\nno candidate met the target; best compromise %.2f m/s (P=%.3f)\n",
			res.Best.Speed, res.Best.Probability)
	}
	return nil
}

// WriteCSV writes one row per candidate. Undefined traversals emit an empty
// cell rather than a sentinel number.
func WriteCSV(w io.Writer, res *optimizer.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"speed_mps", "probability", "mean_traversal_seconds", "trials", "satisfied", "valid_trials", "degraded"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, c := range res.Candidates {
		traversal := ""
		if c.TraversalValid {
			traversal = strconv.FormatFloat(c.MeanTraversal, 'f', -1, 64)
		}
		row := []string{
			strconv.FormatFloat(c.Speed, 'f', -1, 64),
			strconv.FormatFloat(c.Probability, 'f', -1, 64),
			traversal,
			strconv.Itoa(c.Trials),
			strconv.Itoa(c.Satisfied),
			strconv.Itoa(c.ValidTrials),
			strconv.Itoa(c.Degraded),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for speed %.2f: %w", c.Speed, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func traversalCell(c optimizer.CandidateStats) string {
	if !c.TraversalValid {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", c.MeanTraversal)
}
