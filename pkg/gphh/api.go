// Package gphh is the public facade: it wires configuration defaulting, the
// GP evolutionary driver, deployment of the winning program, persistence and
// artifact writing behind a single Client.
package gphh

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gphh/internal/deploy"
	"gphh/internal/evo"
	"gphh/internal/model"
	"gphh/internal/objective"
	"gphh/internal/program"
	"gphh/internal/stats"
	"gphh/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "gphh.db"

	defaultPopulation       = 60
	defaultGenerations      = 20
	defaultBudgetPerProgram = 3000
	defaultMaxEvaluations   = 200000
	defaultWorkers          = 4
	defaultCrossoverRate    = 0.9
	defaultMutationRate     = 0.15
	topProgramCount         = 5
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store       storage.Store
	initialized bool

	benchmarksDir string
	exportsDir    string
}

type RunRequest struct {
	Objective        string
	Population       int
	Generations      int
	Seed             int64
	Workers          int
	BudgetPerProgram int
	MaxEvaluations   int
	EliteCount       int
	Selection        string
	TournamentSize   int
	CrossoverRate    float64
	MutationRate     float64
	MaxDepth         int
	MaxNodes         int
	Progress         func(evo.ProgressUpdate)
}

type RunSummary struct {
	RunID              string
	ArtifactsDir       string
	Objective          string
	Dimension          int
	BestByGeneration   []float64
	EvolutionBest      float64
	FBest              float64
	Evaluations        int
	ProgramID          string
	ProgramDescription string
}

type RunsRequest struct {
	Limit int
	// FromStore lists runs from the persistent store instead of the run
	// index file, so a sqlite-backed history survives a wiped benchmarks
	// directory.
	FromStore bool
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Objective    string
	Dimension    int
	Seed         int64
	Population   int
	Generations  int
	FBest        float64
	Evaluations  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type LineageRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type TopProgramsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ProgramRequest struct {
	RunID  string
	Latest bool
}

// ProgramItem describes a run's winning program as stored, with structural
// metrics recomputed from the persisted tree.
type ProgramItem struct {
	RunID         string
	ProgramID     string
	Objective     string
	Description   string
	Fingerprint   string
	NodeCount     int
	Depth         int
	EvolutionBest float64
	FBest         float64
}

type ObjectiveSummaryItem struct {
	Name        string
	Description string
	BestValue   float64
	BestRunID   string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Objective == "" {
		req.Objective = "f1"
	}
	if req.Population <= 0 {
		req.Population = defaultPopulation
	}
	if req.Generations <= 0 {
		req.Generations = defaultGenerations
	}
	if req.Workers <= 0 {
		req.Workers = defaultWorkers
	}
	if req.BudgetPerProgram <= 0 {
		req.BudgetPerProgram = defaultBudgetPerProgram
	}
	if req.MaxEvaluations <= 0 {
		req.MaxEvaluations = defaultMaxEvaluations
	}
	if req.EliteCount <= 0 {
		req.EliteCount = req.Population / 5
		if req.EliteCount < 1 {
			req.EliteCount = 1
		}
	}
	if req.Selection == "" {
		req.Selection = "tournament"
	}
	if req.CrossoverRate == 0 {
		req.CrossoverRate = defaultCrossoverRate
	}
	if req.MutationRate == 0 {
		req.MutationRate = defaultMutationRate
	}
	limits := program.DefaultLimits()
	if req.MaxDepth > 0 {
		limits.MaxDepth = req.MaxDepth
	}
	if req.MaxNodes > 0 {
		limits.MaxNodes = req.MaxNodes
	}
	req.MaxDepth = limits.MaxDepth
	req.MaxNodes = limits.MaxNodes

	entry, ok := objective.Lookup(req.Objective)
	if !ok {
		return RunSummary{}, fmt.Errorf("unknown objective: %s", req.Objective)
	}
	spec, err := entry.Spec()
	if err != nil {
		return RunSummary{}, err
	}
	selector, err := evo.SelectorFromName(req.Selection, req.TournamentSize)
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}

	driver, err := evo.NewDriver(evo.Config{
		PopulationSize:   req.Population,
		Generations:      req.Generations,
		EliteCount:       req.EliteCount,
		Workers:          req.Workers,
		Seed:             req.Seed,
		BudgetPerProgram: req.BudgetPerProgram,
		CrossoverRate:    req.CrossoverRate,
		MutationRate:     req.MutationRate,
		Limits:           limits,
		Selector:         selector,
		Progress:         req.Progress,
	}, spec)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("%s-%d-%d", req.Objective, req.Seed, now.Unix())

	result, err := driver.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	deployed, err := deploy.Run(ctx, result.Best.Program, spec, req.MaxEvaluations, req.Seed)
	if err != nil {
		return RunSummary{}, err
	}

	bestProgram := stamp(result.Best.Program)
	description := program.Describe(bestProgram.Root)
	if err := c.store.SaveProgram(ctx, bestProgram); err != nil {
		return RunSummary{}, err
	}

	run := model.RunRecord{
		VersionedRecord:  currentVersion(),
		ID:               runID,
		Objective:        req.Objective,
		Dimension:        spec.Dimension(),
		Seed:             req.Seed,
		Population:       req.Population,
		Generations:      req.Generations,
		BudgetPerProgram: req.BudgetPerProgram,
		MaxEvaluations:   req.MaxEvaluations,
		FBest:            deployed.Best,
		Evaluations:      deployed.Evaluations,
		EvolutionBest:    result.Best.Fitness,
		BestProgramID:    bestProgram.ID,
		Description:      description,
		CreatedAtUTC:     now.Format(time.RFC3339Nano),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return RunSummary{}, err
	}

	top := topPrograms(result.FinalPopulation, topProgramCount)
	if err := c.store.SaveTopPrograms(ctx, runID, top); err != nil {
		return RunSummary{}, err
	}

	lineage := stampLineage(result.Lineage)
	if err := c.store.SaveLineage(ctx, runID, lineage); err != nil {
		return RunSummary{}, err
	}

	if err := c.updateObjectiveSummary(ctx, entry, runID, deployed.Best); err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:            runID,
			Objective:        req.Objective,
			Dimension:        spec.Dimension(),
			PopulationSize:   req.Population,
			Generations:      req.Generations,
			BudgetPerProgram: req.BudgetPerProgram,
			MaxEvaluations:   req.MaxEvaluations,
			Seed:             req.Seed,
			Workers:          req.Workers,
			EliteCount:       req.EliteCount,
			Selection:        req.Selection,
			TournamentSize:   req.TournamentSize,
			CrossoverRate:    req.CrossoverRate,
			MutationRate:     req.MutationRate,
			MaxDepth:         req.MaxDepth,
			MaxNodes:         req.MaxNodes,
		},
		BestByGeneration:      result.BestByGeneration,
		GenerationDiagnostics: result.Diagnostics,
		EvolutionBest:         result.Best.Fitness,
		Deployment: stats.Deployment{
			ProgramID:   bestProgram.ID,
			Description: description,
			FBest:       deployed.Best,
			BestPoint:   deployed.BestPoint,
			Evaluations: deployed.Evaluations,
		},
		TopPrograms: top,
		Lineage:     lineage,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:          runID,
		Objective:      req.Objective,
		Dimension:      spec.Dimension(),
		PopulationSize: req.Population,
		Generations:    req.Generations,
		Seed:           req.Seed,
		Workers:        req.Workers,
		EliteCount:     req.EliteCount,
		FBest:          deployed.Best,
		Evaluations:    deployed.Evaluations,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:              runID,
		ArtifactsDir:       filepath.Clean(runDir),
		Objective:          req.Objective,
		Dimension:          spec.Dimension(),
		BestByGeneration:   append([]float64(nil), result.BestByGeneration...),
		EvolutionBest:      result.Best.Fitness,
		FBest:              deployed.Best,
		Evaluations:        deployed.Evaluations,
		ProgramID:          bestProgram.ID,
		ProgramDescription: description,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.FromStore {
		return c.runsFromStore(ctx, req.Limit)
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:        e.RunID,
			CreatedAtUTC: e.CreatedAtUTC,
			Objective:    e.Objective,
			Dimension:    e.Dimension,
			Seed:         e.Seed,
			Population:   e.PopulationSize,
			Generations:  e.Generations,
			FBest:        e.FBest,
			Evaluations:  e.Evaluations,
		})
	}
	return out, nil
}

// runsFromStore reads run records from the store, newest-first. The store
// lists oldest-first, so the order is reversed while mapping.
func (c *Client) runsFromStore(ctx context.Context, limit int) ([]RunItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	records, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RunItem, 0, len(records))
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		r := records[i]
		out = append(out, RunItem{
			RunID:        r.ID,
			CreatedAtUTC: r.CreatedAtUTC,
			Objective:    r.Objective,
			Dimension:    r.Dimension,
			Seed:         r.Seed,
			Population:   r.Population,
			Generations:  r.Generations,
			FBest:        r.FBest,
			Evaluations:  r.Evaluations,
		})
	}
	return out, nil
}

// Program loads a run's winning program from the store and reports it with
// its structural metrics.
func (c *Client) Program(ctx context.Context, req ProgramRequest) (ProgramItem, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, 0, "program")
	if err != nil {
		return ProgramItem{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return ProgramItem{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return ProgramItem{}, err
	}
	if !ok {
		return ProgramItem{}, fmt.Errorf("run not found: %s", runID)
	}
	prog, ok, err := c.store.GetProgram(ctx, run.BestProgramID)
	if err != nil {
		return ProgramItem{}, err
	}
	if !ok {
		return ProgramItem{}, fmt.Errorf("program not found: %s", run.BestProgramID)
	}

	return ProgramItem{
		RunID:         run.ID,
		ProgramID:     prog.ID,
		Objective:     run.Objective,
		Description:   program.Describe(prog.Root),
		Fingerprint:   program.Fingerprint(prog.Root),
		NodeCount:     program.NodeCount(prog.Root),
		Depth:         program.Depth(prog.Root),
		EvolutionBest: run.EvolutionBest,
		FBest:         run.FBest,
	}, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) Lineage(ctx context.Context, req LineageRequest) ([]model.LineageRecord, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit, "lineage")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	lineage, ok, err := c.store.GetLineage(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("lineage not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(lineage) > req.Limit {
		lineage = lineage[:req.Limit]
	}
	out := make([]model.LineageRecord, len(lineage))
	copy(out, lineage)
	return out, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit, "fitness history")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit, "diagnostics")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) TopPrograms(ctx context.Context, req TopProgramsRequest) ([]model.TopProgramRecord, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit, "top programs")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	top, ok, err := c.store.GetTopPrograms(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("top programs not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(top) > req.Limit {
		top = top[:req.Limit]
	}
	out := make([]model.TopProgramRecord, len(top))
	copy(out, top)
	return out, nil
}

func (c *Client) ObjectiveSummary(ctx context.Context, name string) (ObjectiveSummaryItem, error) {
	if name == "" {
		return ObjectiveSummaryItem{}, errors.New("objective name is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return ObjectiveSummaryItem{}, err
	}
	summary, ok, err := c.store.GetObjectiveSummary(ctx, name)
	if err != nil {
		return ObjectiveSummaryItem{}, err
	}
	if !ok {
		return ObjectiveSummaryItem{}, fmt.Errorf("objective summary not found: %s", name)
	}
	return ObjectiveSummaryItem{
		Name:        summary.Name,
		Description: summary.Description,
		BestValue:   summary.BestValue,
		BestRunID:   summary.BestRunID,
	}, nil
}

func (c *Client) BenchmarksDir() string {
	return c.benchmarksDir
}

func (c *Client) resolveRunID(runID string, latest bool, limit int, what string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", fmt.Errorf("%s requires run id or latest", what)
	}
	return runID, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Client) updateObjectiveSummary(ctx context.Context, entry objective.CatalogEntry, runID string, best float64) error {
	summary, ok, err := c.store.GetObjectiveSummary(ctx, entry.Name)
	if err != nil {
		return err
	}
	if ok && summary.BestValue <= best {
		return nil
	}
	return c.store.SaveObjectiveSummary(ctx, model.ObjectiveSummary{
		VersionedRecord: currentVersion(),
		Name:            entry.Name,
		Description:     entry.Description,
		BestValue:       best,
		BestRunID:       runID,
	})
}

func topPrograms(ranked []evo.Individual, count int) []model.TopProgramRecord {
	if count > len(ranked) {
		count = len(ranked)
	}
	top := make([]model.TopProgramRecord, 0, count)
	for i := 0; i < count; i++ {
		item := ranked[i]
		top = append(top, model.TopProgramRecord{
			Rank:        i + 1,
			Fitness:     item.Fitness,
			Evaluations: item.Evaluations,
			Program:     stamp(item.Program),
			Description: program.Describe(item.Program.Root),
		})
	}
	return top
}

func stamp(p model.Program) model.Program {
	p.VersionedRecord = currentVersion()
	return p
}

func stampLineage(records []model.LineageRecord) []model.LineageRecord {
	out := make([]model.LineageRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].VersionedRecord = currentVersion()
	}
	return out
}

func currentVersion() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
}
