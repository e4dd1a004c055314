// Package interp executes search programs against a budgeted objective
// wrapper. Budget exhaustion unwinds as a normal stop, never as an error.
package interp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gphh/internal/model"
	"gphh/internal/objective"
)

// Result is the outcome of one program execution: the best value observed
// anywhere during the run and the budget actually consumed.
type Result struct {
	Best        float64
	BestPoint   []float64
	Evaluations int
}

type state struct {
	wrapper *objective.Wrapper
	rng     *rand.Rand

	// Running incumbent and its value; combinators move these.
	x  []float64
	fx float64

	// Best-ever bookkeeping, decoupled from incumbent control flow.
	best      float64
	bestPoint []float64

	stopped bool
}

// Execute runs a program against the wrapper until the tree completes or the
// wrapper's budget is exhausted. The incumbent is initialized with one
// evaluation at a random feasible point. All randomness comes from rng, so
// execution is reproducible for a fixed program, seed and budget.
func Execute(ctx context.Context, prog model.Program, wrapper *objective.Wrapper, rng *rand.Rand) (Result, error) {
	if wrapper == nil {
		return Result{}, fmt.Errorf("objective wrapper is required")
	}
	if rng == nil {
		return Result{}, fmt.Errorf("random source is required")
	}

	s := &state{wrapper: wrapper, rng: rng}
	s.x = s.uniformPoint()
	fx, ok := s.evaluate(s.x)
	if !ok {
		return Result{Best: 0, Evaluations: wrapper.Used()}, fmt.Errorf("budget too small for initial evaluation")
	}
	s.fx = fx
	s.best = fx
	s.bestPoint = append([]float64(nil), s.x...)

	if err := s.exec(ctx, prog.Root); err != nil {
		return Result{}, err
	}
	return Result{Best: s.best, BestPoint: s.bestPoint, Evaluations: wrapper.Used()}, nil
}

func (s *state) exec(ctx context.Context, n model.Node) error {
	if s.stopped {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch n.Kind {
	case model.KindRandomSample:
		// Scores a fresh uniform point without moving the incumbent.
		s.evaluate(s.uniformPoint())
	case model.KindPerturb:
		candidate := s.perturb(n.Scale)
		if fx, ok := s.evaluate(candidate); ok {
			s.x = candidate
			s.fx = fx
		}
	case model.KindRestart:
		candidate := s.uniformPoint()
		if fx, ok := s.evaluate(candidate); ok {
			s.x = candidate
			s.fx = fx
		}
	case model.KindSeq:
		for i := range n.Children {
			if err := s.exec(ctx, n.Children[i]); err != nil {
				return err
			}
			if s.stopped {
				return nil
			}
		}
	case model.KindRepeat:
		for !s.stopped {
			if err := ctx.Err(); err != nil {
				return err
			}
			before := s.wrapper.Used()
			if err := s.exec(ctx, n.Children[0]); err != nil {
				return err
			}
			// A child that consumes no budget would loop forever.
			if s.wrapper.Used() == before {
				break
			}
		}
	case model.KindAccept:
		savedX := append([]float64(nil), s.x...)
		savedFX := s.fx
		if err := s.exec(ctx, n.Children[0]); err != nil {
			return err
		}
		if !(s.fx < savedFX) {
			s.x = savedX
			s.fx = savedFX
		}
	default:
		return fmt.Errorf("unknown node kind: %s", n.Kind)
	}
	return nil
}

// evaluate scores a candidate, tracking the best-ever value. A false return
// means the budget is spent and execution should unwind.
func (s *state) evaluate(x []float64) (float64, bool) {
	fx, err := s.wrapper.Evaluate(x)
	if err != nil {
		if errors.Is(err, objective.ErrBudgetExhausted) {
			s.stopped = true
			return 0, false
		}
		// Dimension mismatches cannot happen for points built from the
		// wrapper's own spec; treat any other failure as a stop as well.
		s.stopped = true
		return 0, false
	}
	if fx < s.best {
		s.best = fx
		s.bestPoint = append(s.bestPoint[:0], x...)
	}
	return fx, true
}

func (s *state) uniformPoint() []float64 {
	spec := s.wrapper.Spec()
	lower := spec.Lower()
	upper := spec.Upper()
	x := make([]float64, spec.Dimension())
	for i := range x {
		x[i] = lower[i] + s.rng.Float64()*(upper[i]-lower[i])
	}
	return x
}

func (s *state) perturb(scale float64) []float64 {
	spec := s.wrapper.Spec()
	lower := spec.Lower()
	upper := spec.Upper()
	x := make([]float64, len(s.x))
	for i := range x {
		width := upper[i] - lower[i]
		x[i] = s.x[i] + s.rng.NormFloat64()*scale*width
	}
	return x
}
