// Command petsearch runs the Monte-Carlo grid search for an AV target speed
// at a pedestrian junction and reports the safest fast candidate.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/crossing.report/internal/config"
	"github.com/banshee-data/crossing.report/internal/geom"
	"github.com/banshee-data/crossing.report/internal/optimizer"
	"github.com/banshee-data/crossing.report/internal/report"
	"github.com/banshee-data/crossing.report/internal/results"
	"github.com/banshee-data/crossing.report/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "Search configuration JSON file (optional, defaults apply)")
	engineKind := flag.String("engine", "demo", "Simulation engine: 'demo' (in-process) or 'process' (external binary)")
	simBin := flag.String("sim-bin", "", "Path to the external simulator binary (engine=process)")
	outputDir := flag.String("output", "", "Output directory for reports (defaults to petsearch-<timestamp>)")
	writeCSV := flag.Bool("csv", true, "Write candidates.csv to the output directory")
	writeHTML := flag.Bool("html", true, "Write charts.html to the output directory")
	writePlots := flag.Bool("plots", false, "Write PNG plots to the output directory")
	dbPath := flag.String("db", "", "Persist the run to this sqlite database (optional)")
	trials := flag.Int("trials", 0, "Override trials per candidate speed")
	seed := flag.Int64("seed", 0, "Override random seed (0 = time-based)")
	flag.Parse()

	cfg := config.EmptySearchConfig()
	if *configPath != "" {
		loaded, err := config.LoadSearchConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *trials > 0 {
		cfg.TrialsPerSpeed = trials
	}
	if *seed != 0 {
		cfg.Seed = seed
	}

	engine, err := sim.NewEngine(*engineKind, *simBin)
	if err != nil {
		log.Fatalf("configuring engine: %v", err)
	}

	areas := cfg.Areas()
	if *engineKind == "demo" && cfg.ConflictAreas == nil {
		// Keep the monitored areas aligned with the demo world.
		areas = sim.DemoAreas(2)
	}

	tester, err := geom.NewTester(cfg.GetContainment())
	if err != nil {
		log.Fatalf("configuring containment: %v", err)
	}

	opt := &optimizer.Optimizer{
		Runner: &optimizer.TrialRunner{
			Engine: engine,
			Areas:  areas,
			Tester: tester,
			Sampler: optimizer.SpeedSampler{
				Mean:   cfg.GetPedSpeedMean(),
				StdDev: cfg.GetPedSpeedStdDev(),
				Floor:  cfg.GetPedSpeedFloor(),
			},
			ConfigPath: cfg.GetSimConfigPath(),
			Steps:      cfg.GetSimSteps(),
		},
		MinSpeed:          cfg.GetAVSpeedMin(),
		MaxSpeed:          cfg.GetAVSpeedMax(),
		SpeedSteps:        cfg.GetAVSpeedSteps(),
		TrialsPerSpeed:    cfg.GetTrialsPerSpeed(),
		PETThreshold:      cfg.GetPETThreshold(),
		TargetProbability: cfg.GetTargetProbability(),
		Workers:           cfg.GetWorkers(),
		Seed:              cfg.GetSeed(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	res, err := opt.Search(ctx)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	if err := report.WriteTable(os.Stdout, res); err != nil {
		log.Fatalf("writing table: %v", err)
	}
	fmt.Printf("elapsed: %s\n", res.Elapsed.Round(time.Millisecond))

	dir := *outputDir
	if dir == "" && (*writeCSV || *writeHTML || *writePlots) {
		dir = fmt.Sprintf("petsearch-%s", startedAt.Format("20060102_150405"))
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("creating output dir: %v", err)
		}
	}

	if *writeCSV {
		if err := writeFile(filepath.Join(dir, "candidates.csv"), func(f *os.File) error {
			return report.WriteCSV(f, res)
		}); err != nil {
			log.Fatalf("writing csv: %v", err)
		}
	}
	if *writeHTML {
		if err := writeFile(filepath.Join(dir, "charts.html"), func(f *os.File) error {
			return report.RenderHTML(f, res, opt.TargetProbability)
		}); err != nil {
			log.Fatalf("writing charts: %v", err)
		}
	}
	if *writePlots {
		if err := report.SavePlots(dir, res, opt.TargetProbability); err != nil {
			log.Fatalf("writing plots: %v", err)
		}
	}

	if *dbPath != "" {
		if err := persist(*dbPath, cfg, res, startedAt); err != nil {
			log.Fatalf("persisting run: %v", err)
		}
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func persist(path string, cfg *config.SearchConfig, res *optimizer.Result, startedAt time.Time) error {
	store, err := results.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	params, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	runID := results.NewRunID()
	rec := results.RunRecord{
		RunID:         runID,
		Params:        params,
		BestSpeed:     res.Best.Speed,
		MetConstraint: res.MetConstraint,
		ElapsedMS:     res.Elapsed.Milliseconds(),
		StartedAt:     startedAt,
	}

	rows := make([]results.CandidateRow, len(res.Candidates))
	for i, c := range res.Candidates {
		row := results.CandidateRow{
			RunID:       runID,
			Speed:       c.Speed,
			Probability: c.Probability,
			Trials:      c.Trials,
			Satisfied:   c.Satisfied,
			ValidTrials: c.ValidTrials,
			Degraded:    c.Degraded,
		}
		if c.TraversalValid {
			v := c.MeanTraversal
			row.MeanTraversal = &v
		}
		rows[i] = row
	}

	if err := store.InsertRun(rec, rows); err != nil {
		return err
	}
	log.Printf("run %s persisted to %s", runID, path)
	return nil
}
