// Package deploy runs an evolved search program against an objective under
// the full deployment budget, which is orders of magnitude larger than the
// per-program budget used while scoring candidates during evolution.
package deploy

import (
	"context"
	"fmt"
	"math/rand"

	"gphh/internal/interp"
	"gphh/internal/model"
	"gphh/internal/objective"
)

// SeedOffset separates the deployment random stream from every evolution-time
// evaluation stream derived from the same base seed.
const SeedOffset = 1 << 40

type Result struct {
	Best        float64
	BestPoint   []float64
	Evaluations int
}

// Run executes prog against spec with a fresh evaluation budget of maxEvaluations.
func Run(ctx context.Context, prog model.Program, spec objective.Spec, maxEvaluations int, seed int64) (Result, error) {
	if maxEvaluations < 1 {
		return Result{}, fmt.Errorf("deployment budget must be >= 1, got %d", maxEvaluations)
	}
	wrapper, err := objective.NewWrapper(spec, maxEvaluations)
	if err != nil {
		return Result{}, err
	}
	rng := rand.New(rand.NewSource(seed + SeedOffset))
	res, err := interp.Execute(ctx, prog, wrapper, rng)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Best:        res.Best,
		BestPoint:   res.BestPoint,
		Evaluations: res.Evaluations,
	}, nil
}
