package gphh

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gphh/internal/evo"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{
		StoreKind:     "memory",
		BenchmarksDir: t.TempDir(),
		ExportsDir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return client
}

func smallRun(seed int64) RunRequest {
	return RunRequest{
		Objective:        "f1_D2",
		Population:       10,
		Generations:      3,
		Seed:             seed,
		Workers:          2,
		BudgetPerProgram: 50,
		MaxEvaluations:   500,
	}
}

func TestRunProducesSummaryAndArtifacts(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.RunID == "" {
		t.Fatal("empty run id")
	}
	if summary.Objective != "f1_D2" || summary.Dimension != 2 {
		t.Fatalf("objective: %s dimension %d", summary.Objective, summary.Dimension)
	}
	if math.IsNaN(summary.FBest) || math.IsInf(summary.FBest, 0) {
		t.Fatalf("f_best not finite: %g", summary.FBest)
	}
	if summary.Evaluations < 1 || summary.Evaluations > 500 {
		t.Fatalf("deployment evaluations out of range: %d", summary.Evaluations)
	}
	if len(summary.BestByGeneration) != 3 {
		t.Fatalf("history length: got %d, want 3", len(summary.BestByGeneration))
	}
	if summary.ProgramID == "" || summary.ProgramDescription == "" {
		t.Fatalf("winner not described: %+v", summary)
	}

	files := []string{
		"config.json",
		"fitness_history.json",
		"deployment.json",
		"top_programs.json",
		"lineage.json",
		"generation_diagnostics.json",
	}
	for _, file := range files {
		if _, err := os.Stat(filepath.Join(summary.ArtifactsDir, file)); err != nil {
			t.Fatalf("missing artifact %s: %v", file, err)
		}
	}
}

func TestRunReproducibleForSeed(t *testing.T) {
	ctx := context.Background()

	a, err := newTestClient(t).Run(ctx, smallRun(42))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := newTestClient(t).Run(ctx, smallRun(42))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if a.FBest != b.FBest {
		t.Fatalf("f_best diverged: %g vs %g", a.FBest, b.FBest)
	}
	if a.EvolutionBest != b.EvolutionBest {
		t.Fatalf("evolution best diverged: %g vs %g", a.EvolutionBest, b.EvolutionBest)
	}
	if a.ProgramDescription != b.ProgramDescription {
		t.Fatalf("winning program diverged: %s vs %s", a.ProgramDescription, b.ProgramDescription)
	}
}

func TestRunRejectsUnknownObjective(t *testing.T) {
	client := newTestClient(t)
	req := smallRun(1)
	req.Objective = "f99"
	if _, err := client.Run(context.Background(), req); err == nil {
		t.Fatal("expected unknown objective error")
	}
}

func TestRunRejectsTinyPopulation(t *testing.T) {
	client := newTestClient(t)
	req := smallRun(1)
	req.Population = 1
	if _, err := client.Run(context.Background(), req); err == nil {
		t.Fatal("expected configuration error for population of one")
	}
}

func TestRunReportsProgress(t *testing.T) {
	client := newTestClient(t)
	req := smallRun(1)
	var generations []int
	req.Progress = func(u evo.ProgressUpdate) {
		generations = append(generations, u.Generation)
	}
	if _, err := client.Run(context.Background(), req); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(generations) != req.Generations {
		t.Fatalf("progress updates: got %d, want %d", len(generations), req.Generations)
	}
}

func TestRunsListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	first, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := client.Run(ctx, smallRun(2))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	items, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("run count: got %d, want 2", len(items))
	}
	if items[0].RunID != second.RunID {
		t.Fatalf("newest first: got %s, want %s", items[0].RunID, second.RunID)
	}
	if items[1].RunID != first.RunID {
		t.Fatalf("oldest last: got %s, want %s", items[1].RunID, first.RunID)
	}

	limited, err := client.Runs(ctx, RunsRequest{Limit: 1})
	if err != nil {
		t.Fatalf("runs limited: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != second.RunID {
		t.Fatalf("limit: %+v", limited)
	}
}

func TestRunsFromStoreMatchesIndex(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for seed := int64(1); seed <= 2; seed++ {
		if _, err := client.Run(ctx, smallRun(seed)); err != nil {
			t.Fatalf("run %d: %v", seed, err)
		}
	}

	fromIndex, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs from index: %v", err)
	}
	fromStore, err := client.Runs(ctx, RunsRequest{FromStore: true})
	if err != nil {
		t.Fatalf("runs from store: %v", err)
	}
	if len(fromStore) != len(fromIndex) {
		t.Fatalf("run count: got %d, want %d", len(fromStore), len(fromIndex))
	}
	for i := range fromStore {
		if fromStore[i] != fromIndex[i] {
			t.Fatalf("run %d: got %+v, want %+v", i, fromStore[i], fromIndex[i])
		}
	}

	limited, err := client.Runs(ctx, RunsRequest{FromStore: true, Limit: 1})
	if err != nil {
		t.Fatalf("runs limited: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != fromIndex[0].RunID {
		t.Fatalf("limit: %+v", limited)
	}
}

func TestProgramReturnsWinner(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	item, err := client.Program(ctx, ProgramRequest{Latest: true})
	if err != nil {
		t.Fatalf("program latest: %v", err)
	}
	if item.RunID != summary.RunID {
		t.Fatalf("run id: got %s, want %s", item.RunID, summary.RunID)
	}
	if item.ProgramID != summary.ProgramID {
		t.Fatalf("program id: got %s, want %s", item.ProgramID, summary.ProgramID)
	}
	if item.Description != summary.ProgramDescription {
		t.Fatalf("description: got %q, want %q", item.Description, summary.ProgramDescription)
	}
	if item.FBest != summary.FBest {
		t.Fatalf("f_best: got %g, want %g", item.FBest, summary.FBest)
	}
	if item.Fingerprint == "" || item.NodeCount <= 0 || item.Depth <= 0 {
		t.Fatalf("program metrics: %+v", item)
	}

	byID, err := client.Program(ctx, ProgramRequest{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("program by id: %v", err)
	}
	if byID != item {
		t.Fatalf("by id: got %+v, want %+v", byID, item)
	}
}

func TestProgramRejectsBadTarget(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	if _, err := client.Run(ctx, smallRun(1)); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := client.Program(ctx, ProgramRequest{RunID: "r1", Latest: true}); err == nil {
		t.Fatal("expected error for run id plus latest")
	}
	if _, err := client.Program(ctx, ProgramRequest{}); err == nil {
		t.Fatal("expected error for no target")
	}
	if _, err := client.Program(ctx, ProgramRequest{RunID: "no-such-run"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestQueriesResolveLatestRun(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	history, err := client.FitnessHistory(ctx, FitnessHistoryRequest{Latest: true})
	if err != nil {
		t.Fatalf("fitness history: %v", err)
	}
	if len(history) != len(summary.BestByGeneration) {
		t.Fatalf("history length: got %d, want %d", len(history), len(summary.BestByGeneration))
	}

	diagnostics, err := client.Diagnostics(ctx, DiagnosticsRequest{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diagnostics) != 3 {
		t.Fatalf("diagnostics length: got %d, want 3", len(diagnostics))
	}

	top, err := client.TopPrograms(ctx, TopProgramsRequest{Latest: true})
	if err != nil {
		t.Fatalf("top programs: %v", err)
	}
	if len(top) == 0 || top[0].Rank != 1 {
		t.Fatalf("top programs: %+v", top)
	}

	lineage, err := client.Lineage(ctx, LineageRequest{Latest: true})
	if err != nil {
		t.Fatalf("lineage: %v", err)
	}
	if len(lineage) == 0 {
		t.Fatal("empty lineage")
	}
}

func TestQueriesRejectAmbiguousTarget(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	if _, err := client.Run(ctx, smallRun(1)); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{RunID: "r1", Latest: true}); err == nil {
		t.Fatal("expected error for run id plus latest")
	}
	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{}); err == nil {
		t.Fatal("expected error for no target")
	}
}

func TestObjectiveSummaryKeepsBestRun(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	first, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := client.Run(ctx, smallRun(2))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	item, err := client.ObjectiveSummary(ctx, "f1_D2")
	if err != nil {
		t.Fatalf("objective summary: %v", err)
	}
	wantBest := first.FBest
	wantRun := first.RunID
	if second.FBest < wantBest {
		wantBest = second.FBest
		wantRun = second.RunID
	}
	if item.BestValue != wantBest {
		t.Fatalf("best value: got %g, want %g", item.BestValue, wantBest)
	}
	if item.BestRunID != wantRun {
		t.Fatalf("best run: got %s, want %s", item.BestRunID, wantRun)
	}
}

func TestExportCopiesArtifacts(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, smallRun(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	exported, err := client.Export(ctx, ExportRequest{Latest: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported.RunID != summary.RunID {
		t.Fatalf("exported run: got %s, want %s", exported.RunID, summary.RunID)
	}
	if _, err := os.Stat(filepath.Join(exported.Directory, "config.json")); err != nil {
		t.Fatalf("exported config missing: %v", err)
	}
}
