// Package evo runs the GP evolutionary loop: a fixed-size population of
// search programs scored under a small per-program evaluation budget, bred by
// tournament selection, subtree crossover and subtree mutation, with
// unconditional elitism and best-ever tracking.
package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"gphh/internal/interp"
	"gphh/internal/model"
	"gphh/internal/objective"
	"gphh/internal/program"
)

// Individual pairs a program with its evolution-time score. Fitness is the
// best objective value reached within the per-program budget; lower is
// better.
type Individual struct {
	Program     model.Program
	Fitness     float64
	Evaluations int
	Nodes       int
}

// Less orders individuals best-first: lower fitness, then fewer evaluations
// (cheaper equally-good programs win), then fewer nodes (bloat control).
func Less(a, b Individual) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness < b.Fitness
	}
	if a.Evaluations != b.Evaluations {
		return a.Evaluations < b.Evaluations
	}
	return a.Nodes < b.Nodes
}

type ProgressUpdate struct {
	Generation      int
	Generations     int
	BestFitness     float64
	MeanFitness     float64
	BestEver        float64
	Evaluations     int
	BestDescription string
}

type Config struct {
	PopulationSize   int
	Generations      int
	EliteCount       int
	Workers          int
	Seed             int64
	BudgetPerProgram int
	CrossoverRate    float64
	MutationRate     float64
	Limits           program.Limits
	Selector         Selector
	Progress         func(ProgressUpdate)
}

type RunResult struct {
	Best             Individual
	BestByGeneration []float64
	Diagnostics      []model.GenerationDiagnostics
	FinalPopulation  []Individual
	Lineage          []model.LineageRecord
	Evaluations      int
}

type Driver struct {
	cfg  Config
	spec objective.Spec
	rng  *rand.Rand

	totalEvals int
}

// NewDriver validates the configuration before any evaluation happens.
// Population and generation counts below the minimum are configuration
// errors, not runtime faults.
func NewDriver(cfg Config, spec objective.Spec) (*Driver, error) {
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be >= 2, got %d", cfg.PopulationSize)
	}
	if cfg.Generations < 1 {
		return nil, fmt.Errorf("generations must be >= 1, got %d", cfg.Generations)
	}
	if cfg.BudgetPerProgram < 1 {
		return nil, fmt.Errorf("per-program evaluation budget must be >= 1, got %d", cfg.BudgetPerProgram)
	}
	if cfg.EliteCount <= 0 {
		cfg.EliteCount = 1
	}
	if cfg.EliteCount > cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [1, population size], got %d", cfg.EliteCount)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0, 1], got %g", cfg.CrossoverRate)
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0, 1], got %g", cfg.MutationRate)
	}
	if cfg.Limits.MaxDepth == 0 && cfg.Limits.MaxNodes == 0 {
		cfg.Limits = program.DefaultLimits()
	}
	if cfg.Limits.MaxDepth < 1 || cfg.Limits.MaxNodes < 1 {
		return nil, fmt.Errorf("tree limits must be >= 1, got depth=%d nodes=%d", cfg.Limits.MaxDepth, cfg.Limits.MaxNodes)
	}
	if cfg.Selector == nil {
		cfg.Selector = TournamentSelector{}
	}

	return &Driver{
		cfg:  cfg,
		spec: spec,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

type member struct {
	Individual
	evaluated bool
}

// Run executes the full Initialize → {Evaluate → Select → Reproduce} →
// Finalize cycle and returns the best individual seen across all
// generations, not merely the final one.
func (d *Driver) Run(ctx context.Context) (RunResult, error) {
	pop := make([]member, 0, d.cfg.PopulationSize)
	lineage := make([]model.LineageRecord, 0, d.cfg.PopulationSize*(d.cfg.Generations+1))
	for i := 0; i < d.cfg.PopulationSize; i++ {
		prog, err := program.GrowProgram(d.rng, d.cfg.Limits, fmt.Sprintf("p-g0-i%d", i))
		if err != nil {
			return RunResult{}, err
		}
		pop = append(pop, member{Individual: Individual{Program: prog}})
		lineage = append(lineage, lineageRecord(prog, "", "", 0, "seed"))
	}

	var best Individual
	bestSet := false
	bestHistory := make([]float64, 0, d.cfg.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, d.cfg.Generations)
	var ranked []Individual

	for gen := 0; gen < d.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		if err := d.evaluatePopulation(ctx, pop, gen); err != nil {
			return RunResult{}, err
		}
		ranked = rank(pop)
		if !bestSet || Less(ranked[0], best) {
			best = ranked[0]
			bestSet = true
		}
		bestHistory = append(bestHistory, best.Fitness)
		diagnostics = append(diagnostics, d.summarizeGeneration(ranked, gen+1, best.Fitness))

		if d.cfg.Progress != nil {
			d.cfg.Progress(ProgressUpdate{
				Generation:      gen + 1,
				Generations:     d.cfg.Generations,
				BestFitness:     ranked[0].Fitness,
				MeanFitness:     meanFitness(ranked),
				BestEver:        best.Fitness,
				Evaluations:     d.totalEvals,
				BestDescription: program.Describe(best.Program.Root),
			})
		}

		if gen == d.cfg.Generations-1 {
			break
		}
		var generationLineage []model.LineageRecord
		var err error
		pop, generationLineage, err = d.nextGeneration(ctx, ranked, gen)
		if err != nil {
			return RunResult{}, err
		}
		lineage = append(lineage, generationLineage...)
	}

	return RunResult{
		Best:             best,
		BestByGeneration: bestHistory,
		Diagnostics:      diagnostics,
		FinalPopulation:  ranked,
		Lineage:          lineage,
		Evaluations:      d.totalEvals,
	}, nil
}

// evaluatePopulation scores every not-yet-evaluated member under the
// per-program budget. Evaluations are independent: each worker gets a seed
// derived from (base seed, generation, member index), so the resulting
// fitness set does not depend on scheduling order. Elites keep their cached
// score; the interpreter is deterministic for a fixed program and seed.
func (d *Driver) evaluatePopulation(ctx context.Context, pop []member, generation int) error {
	type job struct {
		idx int
	}
	type result struct {
		idx    int
		scored Individual
		err    error
	}

	pending := make([]int, 0, len(pop))
	for i := range pop {
		if !pop[i].evaluated {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	jobs := make(chan job)
	results := make(chan result, len(pending))

	workerCount := d.cfg.Workers
	if workerCount > len(pending) {
		workerCount = len(pending)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				scored, err := d.score(ctx, pop[j.idx].Program, evalSeed(d.cfg.Seed, generation, j.idx))
				results <- result{idx: j.idx, scored: scored, err: err}
			}
		}()
	}

	for _, idx := range pending {
		jobs <- job{idx: idx}
	}
	close(jobs)

	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			return res.err
		}
		pop[res.idx].Individual = res.scored
		pop[res.idx].evaluated = true
		d.totalEvals += res.scored.Evaluations
	}
	return nil
}

func (d *Driver) score(ctx context.Context, prog model.Program, seed int64) (Individual, error) {
	wrapper, err := objective.NewWrapper(d.spec, d.cfg.BudgetPerProgram)
	if err != nil {
		return Individual{}, err
	}
	res, err := interp.Execute(ctx, prog, wrapper, rand.New(rand.NewSource(seed)))
	if err != nil {
		return Individual{}, err
	}
	return Individual{
		Program:     prog,
		Fitness:     res.Best,
		Evaluations: res.Evaluations,
		Nodes:       program.NodeCount(prog.Root),
	}, nil
}

func (d *Driver) nextGeneration(ctx context.Context, ranked []Individual, generation int) ([]member, []model.LineageRecord, error) {
	next := make([]member, 0, d.cfg.PopulationSize)
	lineage := make([]model.LineageRecord, 0, d.cfg.PopulationSize)
	nextGen := generation + 1

	for i := 0; i < d.cfg.EliteCount && i < len(ranked); i++ {
		elite := ranked[i]
		next = append(next, member{Individual: elite, evaluated: true})
		lineage = append(lineage, lineageRecord(elite.Program, elite.Program.ID, "", nextGen, "elite"))
	}

	for len(next) < d.cfg.PopulationSize {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		parent, err := d.cfg.Selector.PickParent(d.rng, ranked)
		if err != nil {
			return nil, nil, err
		}

		if d.rng.Float64() < d.cfg.CrossoverRate {
			mate, err := d.cfg.Selector.PickParent(d.rng, ranked)
			if err != nil {
				return nil, nil, err
			}
			idA := childID(nextGen, len(next))
			idB := childID(nextGen, len(next)+1)
			childA, childB, ok := Crossover(d.rng, parent.Program, mate.Program, d.cfg.Limits, idA, idB)
			if !ok {
				// Degenerate parents leave no valid swap; mutate instead.
				child, err := Mutate(d.rng, parent.Program, d.cfg.Limits, idA)
				if err != nil {
					return nil, nil, err
				}
				next = append(next, member{Individual: Individual{Program: child}})
				lineage = append(lineage, lineageRecord(child, parent.Program.ID, "", nextGen, "mutation(fallback)"))
				continue
			}
			for _, offspring := range []model.Program{childA, childB} {
				if len(next) >= d.cfg.PopulationSize {
					break
				}
				op := "crossover"
				if d.rng.Float64() < d.cfg.MutationRate {
					mutated, err := Mutate(d.rng, offspring, d.cfg.Limits, offspring.ID)
					if err != nil {
						return nil, nil, err
					}
					offspring = mutated
					op = "crossover+mutation"
				}
				next = append(next, member{Individual: Individual{Program: offspring}})
				lineage = append(lineage, lineageRecord(offspring, parent.Program.ID, mate.Program.ID, nextGen, op))
			}
			continue
		}

		id := childID(nextGen, len(next))
		if d.rng.Float64() < d.cfg.MutationRate {
			child, err := Mutate(d.rng, parent.Program, d.cfg.Limits, id)
			if err != nil {
				return nil, nil, err
			}
			next = append(next, member{Individual: Individual{Program: child}})
			lineage = append(lineage, lineageRecord(child, parent.Program.ID, "", nextGen, "mutation"))
			continue
		}

		child := program.Clone(parent.Program, id)
		next = append(next, member{Individual: Individual{Program: child}})
		lineage = append(lineage, lineageRecord(child, parent.Program.ID, "", nextGen, "clone"))
	}

	return next, lineage, nil
}

func (d *Driver) summarizeGeneration(ranked []Individual, generation int, bestEver float64) model.GenerationDiagnostics {
	if len(ranked) == 0 {
		return model.GenerationDiagnostics{Generation: generation}
	}

	totalFitness := 0.0
	totalNodes := 0
	maxDepth := 0
	for _, item := range ranked {
		totalFitness += item.Fitness
		totalNodes += item.Nodes
		if depth := program.Depth(item.Program.Root); depth > maxDepth {
			maxDepth = depth
		}
	}
	return model.GenerationDiagnostics{
		Generation:    generation,
		BestFitness:   ranked[0].Fitness,
		MeanFitness:   totalFitness / float64(len(ranked)),
		WorstFitness:  ranked[len(ranked)-1].Fitness,
		BestEver:      bestEver,
		MeanNodeCount: float64(totalNodes) / float64(len(ranked)),
		MaxDepth:      maxDepth,
		Evaluations:   d.totalEvals,
	}
}

func rank(pop []member) []Individual {
	ranked := make([]Individual, 0, len(pop))
	for i := range pop {
		ranked = append(ranked, pop[i].Individual)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	return ranked
}

func meanFitness(ranked []Individual) float64 {
	if len(ranked) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range ranked {
		total += item.Fitness
	}
	return total / float64(len(ranked))
}

func lineageRecord(prog model.Program, parentID, secondParentID string, generation int, operation string) model.LineageRecord {
	return model.LineageRecord{
		ProgramID:      prog.ID,
		ParentID:       parentID,
		SecondParentID: secondParentID,
		Generation:     generation,
		Operation:      operation,
		Fingerprint:    program.Fingerprint(prog.Root),
		NodeCount:      program.NodeCount(prog.Root),
		Depth:          program.Depth(prog.Root),
	}
}

func childID(generation, index int) string {
	return fmt.Sprintf("p-g%d-i%d", generation, index)
}

// evalSeed derives a per-evaluation seed from the base seed, the generation
// and the member's position, keeping parallel scoring schedule-independent.
func evalSeed(base int64, generation, index int) int64 {
	return base + int64(generation+1)*1000003 + int64(index+1)*101
}
