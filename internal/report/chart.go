package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/crossing.report/internal/optimizer"
)

// RenderHTML writes an interactive page with two line charts: satisfaction
// probability and mean traversal time over the candidate speed grid.
// Candidates without a measurable traversal are left as gaps in the second
// chart.
func RenderHTML(w io.Writer, res *optimizer.Result, targetProbability float64) error {
	speeds := make([]string, len(res.Candidates))
	probData := make([]opts.LineData, len(res.Candidates))
	travData := make([]opts.LineData, len(res.Candidates))
	targetData := make([]opts.LineData, len(res.Candidates))
	for i, c := range res.Candidates {
		speeds[i] = fmt.Sprintf("%.2f", c.Speed)
		probData[i] = opts.LineData{Value: c.Probability}
		targetData[i] = opts.LineData{Value: targetProbability}
		if c.TraversalValid {
			travData[i] = opts.LineData{Value: c.MeanTraversal}
		} else {
			travData[i] = opts.LineData{Value: "-"}
		}
	}

	prob := charts.NewLine()
	prob.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "PET Grid Search", Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "PET constraint satisfaction",
			Subtitle: fmt.Sprintf("best speed %.2f m/s", res.Best.Speed),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "AV speed (m/s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "probability", Min: 0, Max: 1}),
	)
	prob.SetXAxis(speeds).
		AddSeries("P(PET ok)", probData).
		AddSeries("target", targetData, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	trav := charts.NewLine()
	trav.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean junction traversal"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "AV speed (m/s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "seconds"}),
	)
	trav.SetXAxis(speeds).AddSeries("mean traversal", travData)

	page := components.NewPage()
	page.AddCharts(prob, trav)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering search charts: %w", err)
	}
	return nil
}
