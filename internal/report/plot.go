package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/crossing.report/internal/optimizer"
)

// SavePlots writes probability.png and traversal.png into dir, creating it
// if needed. The traversal plot only includes candidates with a measurable
// mean.
func SavePlots(dir string, res *optimizer.Result, targetProbability float64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating plot dir: %w", err)
	}

	if err := saveProbabilityPlot(filepath.Join(dir, "probability.png"), res, targetProbability); err != nil {
		return err
	}
	return saveTraversalPlot(filepath.Join(dir, "traversal.png"), res)
}

func saveProbabilityPlot(path string, res *optimizer.Result, targetProbability float64) error {
	p := plot.New()
	p.Title.Text = "PET constraint satisfaction"
	p.X.Label.Text = "AV speed (m/s)"
	p.Y.Label.Text = "P(all PETs >= threshold)"
	p.Y.Min, p.Y.Max = 0, 1.05

	pts := make(plotter.XYs, len(res.Candidates))
	for i, c := range res.Candidates {
		pts[i] = plotter.XY{X: c.Speed, Y: c.Probability}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building probability line: %w", err)
	}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("P(PET ok)", line)

	if len(res.Candidates) > 0 {
		first := res.Candidates[0].Speed
		last := res.Candidates[len(res.Candidates)-1].Speed
		target, err := plotter.NewLine(plotter.XYs{
			{X: first, Y: targetProbability},
			{X: last, Y: targetProbability},
		})
		if err != nil {
			return fmt.Errorf("building target line: %w", err)
		}
		target.Color = color.RGBA{R: 200, A: 255}
		target.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(target)
		p.Legend.Add("target", target)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func saveTraversalPlot(path string, res *optimizer.Result) error {
	p := plot.New()
	p.Title.Text = "Mean junction traversal"
	p.X.Label.Text = "AV speed (m/s)"
	p.Y.Label.Text = "seconds"

	pts := make(plotter.XYs, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		if !c.TraversalValid {
			continue
		}
		pts = append(pts, plotter.XY{X: c.Speed, Y: c.MeanTraversal})
	}
	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building traversal line: %w", err)
		}
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
