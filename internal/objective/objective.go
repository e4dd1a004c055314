package objective

import (
	"errors"
	"fmt"
)

// ErrBudgetExhausted signals that the evaluation budget attached to a wrapper
// has been spent. It is the normal termination path for program execution and
// must be checked with errors.Is rather than surfaced to callers.
var ErrBudgetExhausted = errors.New("evaluation budget exhausted")

// Func is a black-box real-valued objective over a fixed-length vector.
type Func func(x []float64) float64

// Spec binds an objective function to per-dimension bounds. Immutable once
// constructed.
type Spec struct {
	f     Func
	lower []float64
	upper []float64
}

func NewSpec(f Func, lower, upper []float64) (Spec, error) {
	if f == nil {
		return Spec{}, fmt.Errorf("objective function is required")
	}
	if len(lower) == 0 {
		return Spec{}, fmt.Errorf("bounds are required")
	}
	if len(lower) != len(upper) {
		return Spec{}, fmt.Errorf("bounds dimension mismatch: lower=%d upper=%d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return Spec{}, fmt.Errorf("lower bound exceeds upper bound at dimension %d: %g > %g", i, lower[i], upper[i])
		}
	}
	return Spec{
		f:     f,
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
	}, nil
}

func (s Spec) Dimension() int {
	return len(s.lower)
}

func (s Spec) Lower() []float64 {
	return append([]float64(nil), s.lower...)
}

func (s Spec) Upper() []float64 {
	return append([]float64(nil), s.upper...)
}

// Clamp returns a copy of x with every component forced into the bounds, and
// whether any component was out of range.
func (s Spec) Clamp(x []float64) ([]float64, bool) {
	out := append([]float64(nil), x...)
	clamped := false
	for i := range out {
		if out[i] < s.lower[i] {
			out[i] = s.lower[i]
			clamped = true
		} else if out[i] > s.upper[i] {
			out[i] = s.upper[i]
			clamped = true
		}
	}
	return out, clamped
}

// Counter is the evaluation budget attached to one wrapper. It is owned by a
// single execution and never shared across phases.
type Counter struct {
	limit int
	used  int
}

func NewCounter(limit int) *Counter {
	return &Counter{limit: limit}
}

func (c *Counter) Limit() int {
	return c.limit
}

func (c *Counter) Used() int {
	return c.used
}

func (c *Counter) Remaining() int {
	if c.used >= c.limit {
		return 0
	}
	return c.limit - c.used
}

func (c *Counter) Exhausted() bool {
	return c.used >= c.limit
}

// Wrapper couples a Spec with a Counter and enforces the clamp policy. Every
// successful Evaluate consumes exactly one unit of budget.
type Wrapper struct {
	spec    Spec
	counter *Counter

	clampCount int
}

func NewWrapper(spec Spec, budget int) (*Wrapper, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("evaluation budget must be > 0, got %d", budget)
	}
	return &Wrapper{spec: spec, counter: NewCounter(budget)}, nil
}

func (w *Wrapper) Spec() Spec {
	return w.spec
}

func (w *Wrapper) Used() int {
	return w.counter.Used()
}

func (w *Wrapper) Remaining() int {
	return w.counter.Remaining()
}

func (w *Wrapper) Exhausted() bool {
	return w.counter.Exhausted()
}

// ClampCount reports how many evaluations required clamping an out-of-range
// candidate. Informational only; surfaced in verbose progress output.
func (w *Wrapper) ClampCount() int {
	return w.clampCount
}

// Evaluate clamps x into bounds, calls the objective once and counts the
// evaluation. Returns ErrBudgetExhausted once the counter is spent.
func (w *Wrapper) Evaluate(x []float64) (float64, error) {
	if len(x) != w.spec.Dimension() {
		return 0, fmt.Errorf("point dimension mismatch: got=%d want=%d", len(x), w.spec.Dimension())
	}
	if w.counter.Exhausted() {
		return 0, ErrBudgetExhausted
	}
	point, clamped := w.spec.Clamp(x)
	if clamped {
		w.clampCount++
	}
	w.counter.used++
	return w.spec.f(point), nil
}
