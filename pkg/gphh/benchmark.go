package gphh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gphh/internal/stats"
)

type BenchmarkRequest struct {
	Objective        string
	Trials           int
	Seed             int64
	Population       int
	Generations      int
	BudgetPerProgram int
	MaxEvaluations   int
	Workers          int
}

type BenchmarkSummary struct {
	BenchmarkID string
	Directory   string
	Objective   string
	Trials      int
	RunIDs      []string
	BestByTrial []float64
	BestMean    float64
	BestStd     float64
	BestMax     float64
	BestMin     float64
}

// Benchmark repeats the same run configuration across consecutive seeds and
// aggregates the deployed best values. Each trial is a full run with its own
// artifacts; the aggregate lands in its own directory next to them.
func (c *Client) Benchmark(ctx context.Context, req BenchmarkRequest) (BenchmarkSummary, error) {
	if req.Objective == "" {
		return BenchmarkSummary{}, errors.New("benchmark requires an objective")
	}
	if req.Trials <= 0 {
		req.Trials = 5
	}

	runIDs := make([]string, 0, req.Trials)
	bestByTrial := make([]float64, 0, req.Trials)
	for trial := 0; trial < req.Trials; trial++ {
		summary, err := c.Run(ctx, RunRequest{
			Objective:        req.Objective,
			Population:       req.Population,
			Generations:      req.Generations,
			Seed:             req.Seed + int64(trial),
			Workers:          req.Workers,
			BudgetPerProgram: req.BudgetPerProgram,
			MaxEvaluations:   req.MaxEvaluations,
		})
		if err != nil {
			return BenchmarkSummary{}, fmt.Errorf("benchmark trial %d: %w", trial+1, err)
		}
		runIDs = append(runIDs, summary.RunID)
		bestByTrial = append(bestByTrial, summary.FBest)
	}

	mean, std, max, min := stats.Summarize(bestByTrial)

	benchmarkID := fmt.Sprintf("bench-%s-%d-%d", req.Objective, req.Seed, time.Now().UTC().Unix())
	benchDir := filepath.Join(c.benchmarksDir, benchmarkID)
	if err := os.MkdirAll(benchDir, 0o755); err != nil {
		return BenchmarkSummary{}, err
	}
	if err := stats.WriteBenchmarkSummary(benchDir, stats.BenchmarkSummary{
		RunID:          benchmarkID,
		Objective:      req.Objective,
		PopulationSize: req.Population,
		Generations:    req.Generations,
		Trials:         req.Trials,
		BaseSeed:       req.Seed,
		BestMean:       mean,
		BestStd:        std,
		BestMax:        max,
		BestMin:        min,
	}); err != nil {
		return BenchmarkSummary{}, err
	}
	if err := stats.WriteBenchmarkSeries(benchDir, bestByTrial); err != nil {
		return BenchmarkSummary{}, err
	}

	return BenchmarkSummary{
		BenchmarkID: benchmarkID,
		Directory:   filepath.Clean(benchDir),
		Objective:   req.Objective,
		Trials:      req.Trials,
		RunIDs:      runIDs,
		BestByTrial: bestByTrial,
		BestMean:    mean,
		BestStd:     std,
		BestMax:     max,
		BestMin:     min,
	}, nil
}
