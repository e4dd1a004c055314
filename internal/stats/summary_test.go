package stats

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
		wantMax  float64
		wantMin  float64
	}{
		{name: "empty", values: nil},
		{name: "single", values: []float64{4}, wantMean: 4, wantMax: 4, wantMin: 4},
		{name: "uniform", values: []float64{2, 2, 2}, wantMean: 2, wantMax: 2, wantMin: 2},
		{name: "spread", values: []float64{1, 2, 3, 4}, wantMean: 2.5, wantStd: math.Sqrt(1.25), wantMax: 4, wantMin: 1},
		{name: "negative", values: []float64{-3, 3}, wantMean: 0, wantStd: 3, wantMax: 3, wantMin: -3},
	}

	const eps = 1e-12
	for _, tc := range cases {
		mean, std, max, min := Summarize(tc.values)
		if math.Abs(mean-tc.wantMean) > eps {
			t.Fatalf("%s: mean got %g, want %g", tc.name, mean, tc.wantMean)
		}
		if math.Abs(std-tc.wantStd) > eps {
			t.Fatalf("%s: std got %g, want %g", tc.name, std, tc.wantStd)
		}
		if max != tc.wantMax {
			t.Fatalf("%s: max got %g, want %g", tc.name, max, tc.wantMax)
		}
		if min != tc.wantMin {
			t.Fatalf("%s: min got %g, want %g", tc.name, min, tc.wantMin)
		}
	}
}
