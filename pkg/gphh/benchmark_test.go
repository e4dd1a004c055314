package gphh

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBenchmarkAggregatesTrials(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Benchmark(ctx, BenchmarkRequest{
		Objective:        "f1_D2",
		Trials:           3,
		Seed:             1,
		Population:       8,
		Generations:      2,
		BudgetPerProgram: 40,
		MaxEvaluations:   200,
		Workers:          2,
	})
	if err != nil {
		t.Fatalf("benchmark: %v", err)
	}

	if summary.Trials != 3 {
		t.Fatalf("trials: got %d, want 3", summary.Trials)
	}
	if len(summary.RunIDs) != 3 || len(summary.BestByTrial) != 3 {
		t.Fatalf("per-trial results: %d runs, %d values", len(summary.RunIDs), len(summary.BestByTrial))
	}
	seen := map[string]bool{}
	for _, id := range summary.RunIDs {
		if seen[id] {
			t.Fatalf("duplicate run id: %s", id)
		}
		seen[id] = true
	}
	if summary.BestMin > summary.BestMean || summary.BestMean > summary.BestMax {
		t.Fatalf("aggregate ordering violated: min %g mean %g max %g",
			summary.BestMin, summary.BestMean, summary.BestMax)
	}

	for _, file := range []string{"benchmark_summary.json", "benchmark_series.csv"} {
		if _, err := os.Stat(filepath.Join(summary.Directory, file)); err != nil {
			t.Fatalf("missing aggregate %s: %v", file, err)
		}
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("indexed runs: got %d, want 3", len(runs))
	}
}

func TestBenchmarkRequiresObjective(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Benchmark(context.Background(), BenchmarkRequest{}); err == nil {
		t.Fatal("expected error for missing objective")
	}
}
