package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"gphh/internal/evo"
	"gphh/internal/objective"
	"gphh/internal/storage"
	gphhapi "gphh/pkg/gphh"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
	defaultDBPath = "gphh.db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "benchmark":
		return runBenchmark(ctx, args[1:])
	case "profile":
		return runProfile(ctx, args[1:])
	case "objectives":
		return runObjectives(ctx, args[1:])
	case "objective-summary":
		return runObjectiveSummary(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "lineage":
		return runLineage(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "top":
		return runTop(ctx, args[1:])
	case "program":
		return runProgram(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}
	if err := storage.ResetIfSupported(ctx, store); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	profileName := fs.String("profile", "", "optional run profile: quick|default|thorough")
	objectiveName := fs.String("objective", "f1", "objective key from the catalog (see objectives command)")
	population := fs.Int("pop", 60, "population size")
	generations := fs.Int("gens", 20, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "worker count")
	budget := fs.Int("budget", 3000, "objective evaluations per candidate program")
	maxEvals := fs.Int("max-evals", 200000, "objective evaluations for deploying the winning program")
	eliteCount := fs.Int("elite", 0, "elite count (0 derives from population size)")
	selectionName := fs.String("selection", "tournament", "parent selection strategy: tournament|elite")
	tournamentSize := fs.Int("tournament-size", 3, "tournament size for selection=tournament")
	crossoverRate := fs.Float64("crossover-rate", 0.9, "probability of producing offspring by subtree crossover")
	mutationRate := fs.Float64("mutation-rate", 0.15, "probability of subtree mutation per offspring")
	maxDepth := fs.Int("max-depth", 0, "maximum program tree depth (0 uses default)")
	maxNodes := fs.Int("max-nodes", 0, "maximum program tree node count (0 uses default)")
	verbose := fs.Bool("verbose", false, "print per-generation progress")
	printEvery := fs.Int("print-every", 1, "progress print cadence in generations")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = gphhapi.RunRequest{
			Objective:        *objectiveName,
			Population:       *population,
			Generations:      *generations,
			Seed:             *seed,
			Workers:          *workers,
			BudgetPerProgram: *budget,
			MaxEvaluations:   *maxEvals,
			EliteCount:       *eliteCount,
			Selection:        *selectionName,
			TournamentSize:   *tournamentSize,
			CrossoverRate:    *crossoverRate,
			MutationRate:     *mutationRate,
			MaxDepth:         *maxDepth,
			MaxNodes:         *maxNodes,
		}
	} else {
		if err := overrideFromFlags(&req, setFlags, map[string]any{
			"objective":       *objectiveName,
			"pop":             *population,
			"gens":            *generations,
			"seed":            *seed,
			"workers":         *workers,
			"budget":          *budget,
			"max-evals":       *maxEvals,
			"elite":           *eliteCount,
			"selection":       *selectionName,
			"tournament-size": *tournamentSize,
			"crossover-rate":  *crossoverRate,
			"mutation-rate":   *mutationRate,
			"max-depth":       *maxDepth,
			"max-nodes":       *maxNodes,
		}); err != nil {
			return err
		}
	}
	if *profileName != "" {
		preset, err := lookupProfile(*profileName)
		if err != nil {
			return err
		}
		applyProfile(&req, preset, setFlags)
	}

	if *verbose {
		every := *printEvery
		if every < 1 {
			every = 1
		}
		req.Progress = func(u evo.ProgressUpdate) {
			if u.Generation%every != 0 && u.Generation != u.Generations {
				return
			}
			fmt.Printf("generation=%d/%d best=%.6g mean=%.6g best_ever=%.6g evaluations=%s\n",
				u.Generation,
				u.Generations,
				u.BestFitness,
				u.MeanFitness,
				u.BestEver,
				humanize.Comma(int64(u.Evaluations)),
			)
		}
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s objective=%s dimension=%d seed=%d\n", summary.RunID, summary.Objective, summary.Dimension, req.Seed)
	fmt.Printf("evolved program: %s\n", summary.ProgramDescription)
	fmt.Printf("evolution_best=%.6g\n", summary.EvolutionBest)
	fmt.Printf("deployed f_best=%.6g evaluations=%s\n", summary.FBest, humanize.Comma(int64(summary.Evaluations)))
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	return nil
}

func runBenchmark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	objectiveName := fs.String("objective", "", "objective key from the catalog")
	trials := fs.Int("trials", 5, "number of trials with consecutive seeds")
	seed := fs.Int64("seed", 1, "base rng seed")
	population := fs.Int("pop", 0, "population size (0 uses default)")
	generations := fs.Int("gens", 0, "generation count (0 uses default)")
	budget := fs.Int("budget", 0, "objective evaluations per candidate program (0 uses default)")
	maxEvals := fs.Int("max-evals", 0, "deployment evaluation budget (0 uses default)")
	workers := fs.Int("workers", 0, "worker count (0 uses default)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *objectiveName == "" {
		return errors.New("benchmark requires --objective")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Benchmark(ctx, gphhapi.BenchmarkRequest{
		Objective:        *objectiveName,
		Trials:           *trials,
		Seed:             *seed,
		Population:       *population,
		Generations:      *generations,
		BudgetPerProgram: *budget,
		MaxEvaluations:   *maxEvals,
		Workers:          *workers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("benchmark completed id=%s objective=%s trials=%d\n", summary.BenchmarkID, summary.Objective, summary.Trials)
	for i, best := range summary.BestByTrial {
		fmt.Printf("trial=%d run_id=%s f_best=%.6g\n", i+1, summary.RunIDs[i], best)
	}
	fmt.Printf("f_best mean=%.6g std=%.6g min=%.6g max=%.6g\n", summary.BestMean, summary.BestStd, summary.BestMin, summary.BestMax)
	fmt.Printf("benchmark_dir=%s\n", summary.Directory)
	return nil
}

func runProfile(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit profiles as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profiles := listProfiles()
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}
	for _, p := range profiles {
		fmt.Printf("profile=%s pop=%d gens=%d budget=%d max_evals=%d\n",
			p.Name, p.Population, p.Generations, p.BudgetPerProgram, p.MaxEvaluations)
	}
	return nil
}

func runObjectives(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("objectives", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit objective catalog as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog := objective.Catalog()
	if *jsonOut {
		type catalogItem struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Dimension   int     `json:"dimension"`
			Lower       float64 `json:"lower"`
			Upper       float64 `json:"upper"`
		}
		items := make([]catalogItem, 0, len(catalog))
		for _, e := range catalog {
			items = append(items, catalogItem{
				Name:        e.Name,
				Description: e.Description,
				Dimension:   e.Dimension,
				Lower:       e.Lower,
				Upper:       e.Upper,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, e := range catalog {
		fmt.Printf("objective=%s dimension=%d bounds=[%g, %g] description=%q\n",
			e.Name, e.Dimension, e.Lower, e.Upper, e.Description)
	}
	return nil
}

func runObjectiveSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("objective-summary", flag.ContinueOnError)
	name := fs.String("objective", "", "objective key")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("objective-summary requires --objective")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.ObjectiveSummary(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("objective=%s best_value=%.6g best_run_id=%s description=%q\n",
		summary.Name, summary.BestValue, summary.BestRunID, summary.Description)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	fromStore := fs.Bool("from-store", false, "list from the persistent store instead of the run index")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, gphhapi.RunsRequest{Limit: *limit, FromStore: *fromStore})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, e := range items {
		fmt.Printf("run_id=%s created_at=%s objective=%s dim=%d seed=%d pop=%d gens=%d f_best=%.6g evaluations=%s\n",
			e.RunID,
			e.CreatedAtUTC,
			e.Objective,
			e.Dimension,
			e.Seed,
			e.Population,
			e.Generations,
			e.FBest,
			humanize.Comma(int64(e.Evaluations)),
		)
	}
	return nil
}

func runProgram(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("program", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the winning program of the most recent run from run index")
	jsonOut := fs.Bool("json", false, "emit the program as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("program requires --run-id or --latest")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	item, err := client.Program(ctx, gphhapi.ProgramRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	}

	fmt.Printf("run_id=%s program_id=%s objective=%s\n", item.RunID, item.ProgramID, item.Objective)
	fmt.Printf("program: %s\n", item.Description)
	fmt.Printf("fingerprint=%s nodes=%d depth=%d\n", item.Fingerprint, item.NodeCount, item.Depth)
	fmt.Printf("evolution_best=%.6g deployed f_best=%.6g\n", item.EvolutionBest, item.FBest)
	return nil
}

func runLineage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lineage", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show lineage for the most recent run from run index")
	limit := fs.Int("limit", 50, "max lineage rows to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit lineage rows as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("lineage requires --run-id or --latest")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	lineage, err := client.Lineage(ctx, gphhapi.LineageRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(lineage) == 0 {
		fmt.Println("no lineage records")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lineage)
	}

	for _, rec := range lineage {
		fmt.Printf("gen=%d program_id=%s parent_id=%s op=%s fingerprint=%s nodes=%d depth=%d\n",
			rec.Generation,
			rec.ProgramID,
			rec.ParentID,
			rec.Operation,
			rec.Fingerprint,
			rec.NodeCount,
			rec.Depth,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("fitness requires --run-id or --latest")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, gphhapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no fitness history")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for i, best := range history {
		fmt.Printf("generation=%d best_fitness=%.6g\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("diagnostics requires --run-id or --latest")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, gphhapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d best=%.6g mean=%.6g worst=%.6g best_ever=%.6g mean_nodes=%.2f max_depth=%d evaluations=%s\n",
			d.Generation,
			d.BestFitness,
			d.MeanFitness,
			d.WorstFitness,
			d.BestEver,
			d.MeanNodeCount,
			d.MaxDepth,
			humanize.Comma(int64(d.Evaluations)),
		)
	}
	return nil
}

func runTop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show top programs for the most recent run from run index")
	limit := fs.Int("limit", 5, "max top programs to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit top programs as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("top requires --run-id or --latest")
	}

	client, err := gphhapi.New(gphhapi.Options{
		StoreKind:     *storeKind,
		DBPath:        *dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	top, err := client.TopPrograms(ctx, gphhapi.TopProgramsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Println("no top programs")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(top)
	}

	for _, t := range top {
		fmt.Printf("rank=%d fitness=%.6g evaluations=%d program=%s\n",
			t.Rank,
			t.Fitness,
			t.Evaluations,
			t.Description,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out-dir", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := gphhapi.New(gphhapi.Options{
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, gphhapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: gphhctl <init|reset|run|benchmark|profile|objectives|objective-summary|runs|lineage|fitness|diagnostics|top|program|export> [flags]", msg)
}
