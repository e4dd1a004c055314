package objective

import (
	"errors"
	"testing"
)

func sphereFunc(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += v * v
	}
	return total
}

func TestNewSpecValidation(t *testing.T) {
	if _, err := NewSpec(nil, []float64{-1}, []float64{1}); err == nil {
		t.Fatal("expected error for nil objective function")
	}
	if _, err := NewSpec(sphereFunc, nil, nil); err == nil {
		t.Fatal("expected error for empty bounds")
	}
	if _, err := NewSpec(sphereFunc, []float64{-1, -1}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched bound lengths")
	}
	if _, err := NewSpec(sphereFunc, []float64{2}, []float64{1}); err == nil {
		t.Fatal("expected error for inverted bounds")
	}

	spec, err := NewSpec(sphereFunc, []float64{-5, -5}, []float64{5, 5})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	if got := spec.Dimension(); got != 2 {
		t.Fatalf("dimension: got %d, want 2", got)
	}
}

func TestSpecClamp(t *testing.T) {
	spec, err := NewSpec(sphereFunc, []float64{-1, -1}, []float64{1, 1})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}

	clamped, changed := spec.Clamp([]float64{2, -3})
	if !changed {
		t.Fatal("expected clamp to report a change")
	}
	if clamped[0] != 1 || clamped[1] != -1 {
		t.Fatalf("unexpected clamped point: %v", clamped)
	}

	inside, changed := spec.Clamp([]float64{0.5, -0.5})
	if changed {
		t.Fatal("in-bounds point must not be reported as clamped")
	}
	if inside[0] != 0.5 || inside[1] != -0.5 {
		t.Fatalf("unexpected point: %v", inside)
	}
}

func TestWrapperBudgetEnforced(t *testing.T) {
	spec, err := NewSpec(sphereFunc, []float64{-1}, []float64{1})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	wrapper, err := NewWrapper(spec, 3)
	if err != nil {
		t.Fatalf("new wrapper: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := wrapper.Evaluate([]float64{0.5}); err != nil {
			t.Fatalf("evaluate %d: %v", i, err)
		}
	}
	if got := wrapper.Used(); got != 3 {
		t.Fatalf("used: got %d, want 3", got)
	}
	if !wrapper.Exhausted() {
		t.Fatal("expected wrapper to be exhausted")
	}
	if _, err := wrapper.Evaluate([]float64{0.5}); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected ErrBudgetExhausted, got %v", err)
	}
	if got := wrapper.Used(); got != 3 {
		t.Fatalf("rejected evaluation must not consume budget: used=%d", got)
	}
}

func TestWrapperClampsBeforeEvaluating(t *testing.T) {
	var seen []float64
	record := func(x []float64) float64 {
		seen = append([]float64(nil), x...)
		return 0
	}
	spec, err := NewSpec(record, []float64{-1}, []float64{1})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	wrapper, err := NewWrapper(spec, 10)
	if err != nil {
		t.Fatalf("new wrapper: %v", err)
	}

	if _, err := wrapper.Evaluate([]float64{9}); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if seen[0] != 1 {
		t.Fatalf("objective saw out-of-bounds point: %v", seen)
	}
	if got := wrapper.ClampCount(); got != 1 {
		t.Fatalf("clamp count: got %d, want 1", got)
	}
}

func TestWrapperRejectsWrongDimension(t *testing.T) {
	spec, err := NewSpec(sphereFunc, []float64{-1, -1}, []float64{1, 1})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	wrapper, err := NewWrapper(spec, 5)
	if err != nil {
		t.Fatalf("new wrapper: %v", err)
	}
	if _, err := wrapper.Evaluate([]float64{0.5}); err == nil {
		t.Fatal("expected error for wrong dimension")
	}
	if got := wrapper.Used(); got != 0 {
		t.Fatalf("failed evaluation must not consume budget: used=%d", got)
	}
}

func TestNewWrapperRequiresPositiveBudget(t *testing.T) {
	spec, err := NewSpec(sphereFunc, []float64{-1}, []float64{1})
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	if _, err := NewWrapper(spec, 0); err == nil {
		t.Fatal("expected error for zero budget")
	}
}
