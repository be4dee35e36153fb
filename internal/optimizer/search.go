package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/crossing.report/internal/monitoring"
)

// CandidateStats summarises all trials for one candidate AV speed.
type CandidateStats struct {
	Speed float64 `json:"speed_mps"`

	// Probability is the empirical fraction of trials in which every
	// monitored PET met the threshold. Always k/N for integer k.
	Probability float64 `json:"probability"`

	// MeanTraversal averages the traversal metric over trials where it
	// was measurable. TraversalValid is false when no trial produced a
	// defined metric.
	MeanTraversal  float64 `json:"mean_traversal_seconds"`
	TraversalValid bool    `json:"traversal_valid"`

	Trials      int `json:"trials"`
	Satisfied   int `json:"satisfied"`
	ValidTrials int `json:"valid_trials"`
	Degraded    int `json:"degraded"`
}

// Result is the outcome of a full grid search.
type Result struct {
	// Best is the selected candidate. When MetConstraint is false the
	// selection is the best compromise (maximum probability, then
	// minimum traversal), not a candidate satisfying the target.
	Best          CandidateStats   `json:"best"`
	MetConstraint bool             `json:"met_constraint"`
	Candidates    []CandidateStats `json:"candidates"`
	Elapsed       time.Duration    `json:"elapsed"`
}

// Optimizer evaluates candidate AV speeds over an inclusive [MinSpeed,
// MaxSpeed] grid, running TrialsPerSpeed independent trials per candidate.
type Optimizer struct {
	Runner *TrialRunner

	MinSpeed   float64
	MaxSpeed   float64
	SpeedSteps int

	TrialsPerSpeed    int
	PETThreshold      float64
	TargetProbability float64

	// Workers bounds concurrent trials within a candidate. Zero or one
	// means sequential execution. Aggregation is a commutative reduction,
	// so trial ordering never matters.
	Workers int

	// Seed makes the secondary-parameter sampling reproducible. Zero
	// selects a time-based seed; note the engine may carry its own
	// internal randomness, so end-to-end determinism also requires a
	// seedable engine.
	Seed int64
}

// Search runs the full grid search. It fails fast if the engine is
// unreachable before any trial starts; after that, per-trial failures only
// degrade individual trials.
func (o *Optimizer) Search(ctx context.Context) (*Result, error) {
	if o.Runner == nil || o.Runner.Engine == nil {
		return nil, fmt.Errorf("optimizer: no trial runner configured")
	}
	if o.TrialsPerSpeed <= 0 {
		return nil, fmt.Errorf("optimizer: trials per speed must be positive, got %d", o.TrialsPerSpeed)
	}

	speeds := Linspace(o.MinSpeed, o.MaxSpeed, o.SpeedSteps)
	if len(speeds) == 0 {
		return nil, fmt.Errorf("optimizer: empty speed grid [%.2f, %.2f] with %d steps", o.MinSpeed, o.MaxSpeed, o.SpeedSteps)
	}

	if err := o.Runner.Engine.Ping(ctx); err != nil {
		return nil, fmt.Errorf("simulation engine unavailable: %w", err)
	}

	baseSeed := o.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	start := time.Now()
	monitoring.Logf("[search] grid search: %d speeds in [%.2f, %.2f] m/s, %d trials each, PET >= %.2fs at P >= %.0f%%",
		len(speeds), o.MinSpeed, o.MaxSpeed, o.TrialsPerSpeed, o.PETThreshold, o.TargetProbability*100)

	stats := make([]CandidateStats, 0, len(speeds))
	trialBase := 0
	for _, speed := range speeds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search cancelled after %d candidates: %w", len(stats), err)
		}

		cs := o.runCandidate(ctx, speed, baseSeed, trialBase)
		trialBase += o.TrialsPerSpeed

		monitoring.Logf("[search] speed %.2f m/s: P(PET ok) = %.2f, mean traversal = %s (%d/%d valid, %d degraded)",
			cs.Speed, cs.Probability, fmtTraversal(cs), cs.ValidTrials, cs.Trials, cs.Degraded)
		stats = append(stats, cs)
	}

	best, met := selectBest(stats, o.TargetProbability)
	if !met {
		monitoring.Logf("[search] no candidate met target probability %.0f%%; reporting best compromise at %.2f m/s",
			o.TargetProbability*100, best.Speed)
	}

	return &Result{
		Best:          best,
		MetConstraint: met,
		Candidates:    stats,
		Elapsed:       time.Since(start),
	}, nil
}

// runCandidate executes all trials for one speed. Per-trial random sources
// are derived from the base seed and the global trial index, which keeps the
// streams independent and the run reproducible regardless of worker
// scheduling.
func (o *Optimizer) runCandidate(ctx context.Context, speed float64, baseSeed int64, trialBase int) CandidateStats {
	acc := newAccumulator(speed)

	workers := o.Workers
	if workers <= 1 {
		for i := 0; i < o.TrialsPerSpeed; i++ {
			rng := rand.New(rand.NewSource(trialSeed(baseSeed, trialBase+i)))
			acc.record(o.Runner.Run(ctx, speed, rng), o.PETThreshold)
		}
		return acc.finalize()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rng := rand.New(rand.NewSource(trialSeed(baseSeed, idx)))
				acc.record(o.Runner.Run(ctx, speed, rng), o.PETThreshold)
			}
		}()
	}
	for i := 0; i < o.TrialsPerSpeed; i++ {
		jobs <- trialBase + i
	}
	close(jobs)
	wg.Wait()

	return acc.finalize()
}

// trialSeed derives an independent per-trial seed from the base seed and
// the global trial index.
func trialSeed(base int64, idx int) int64 {
	return base + int64(idx)
}

// candidateAccumulator gathers trial outcomes for exactly one candidate.
// It is created fresh per candidate so no state leaks across the grid.
type candidateAccumulator struct {
	mu         sync.Mutex
	speed      float64
	trials     int
	satisfied  int
	degraded   int
	traversals []float64
}

func newAccumulator(speed float64) *candidateAccumulator {
	return &candidateAccumulator{speed: speed}
}

// record counts one trial. A trial satisfies the constraint iff every
// monitored PET is at or above the threshold; +Inf (no conflict
// established) satisfies by definition.
func (a *candidateAccumulator) record(out TrialOutcome, threshold float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.trials++
	if out.Degraded {
		a.degraded++
	}

	ok := true
	for _, p := range out.PETs {
		if !(p >= threshold) {
			ok = false
			break
		}
	}
	if ok {
		a.satisfied++
	}
	if out.Traversal.Valid {
		a.traversals = append(a.traversals, out.Traversal.Seconds)
	}
}

func (a *candidateAccumulator) finalize() CandidateStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	cs := CandidateStats{
		Speed:       a.speed,
		Trials:      a.trials,
		Satisfied:   a.satisfied,
		ValidTrials: len(a.traversals),
		Degraded:    a.degraded,
	}
	if a.trials > 0 {
		cs.Probability = float64(a.satisfied) / float64(a.trials)
	}
	if len(a.traversals) > 0 {
		cs.MeanTraversal = stat.Mean(a.traversals, nil)
		cs.TraversalValid = true
	}
	return cs
}

// selectBest applies the selection rule: among candidates meeting the
// target probability, minimise the defined mean traversal (undefined ranks
// last) and break exact ties towards the higher speed. With no eligible
// candidate it falls back to the best compromise: maximum probability,
// then minimum defined traversal.
func selectBest(stats []CandidateStats, targetProb float64) (CandidateStats, bool) {
	var eligible []CandidateStats
	for _, s := range stats {
		if s.Probability >= targetProb {
			eligible = append(eligible, s)
		}
	}

	if len(eligible) > 0 {
		best := eligible[0]
		for _, s := range eligible[1:] {
			sk, bk := traversalKey(s), traversalKey(best)
			if sk < bk || (sk == bk && s.Speed > best.Speed) {
				best = s
			}
		}
		return best, true
	}

	best := stats[0]
	for _, s := range stats[1:] {
		if s.Probability > best.Probability ||
			(s.Probability == best.Probability && traversalKey(s) < traversalKey(best)) {
			best = s
		}
	}
	return best, false
}

// traversalKey orders candidates by mean traversal, ranking undefined
// metrics last.
func traversalKey(s CandidateStats) float64 {
	if !s.TraversalValid {
		return math.Inf(1)
	}
	return s.MeanTraversal
}

func fmtTraversal(s CandidateStats) string {
	if !s.TraversalValid {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", s.MeanTraversal)
}
