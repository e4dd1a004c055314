package evo

import (
	"math/rand"
	"testing"
)

func rankedPopulation(n int) []Individual {
	pop := make([]Individual, n)
	for i := range pop {
		pop[i] = Individual{Fitness: float64(i)}
	}
	return pop
}

func TestTournamentSelectorPrefersBetterRank(t *testing.T) {
	ranked := rankedPopulation(20)
	sel := TournamentSelector{Size: 5}
	rng := rand.New(rand.NewSource(7))

	wins := 0
	const picks = 2000
	for i := 0; i < picks; i++ {
		got, err := sel.PickParent(rng, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if got.Fitness < 10 {
			wins++
		}
	}
	// Five uniform draws land entirely in the worse half with probability
	// 1/32, so the better half must dominate by a wide margin.
	if wins < picks*8/10 {
		t.Fatalf("better half picked %d of %d times, want at least %d", wins, picks, picks*8/10)
	}
}

func TestTournamentSelectorDeterministicForSeed(t *testing.T) {
	ranked := rankedPopulation(10)
	sel := TournamentSelector{Size: 3}

	a := rand.New(rand.NewSource(11))
	b := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		pa, err := sel.PickParent(a, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		pb, err := sel.PickParent(b, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if pa.Fitness != pb.Fitness {
			t.Fatalf("pick %d diverged: %g vs %g", i, pa.Fitness, pb.Fitness)
		}
	}
}

func TestTournamentSelectorEmptyPopulation(t *testing.T) {
	sel := TournamentSelector{}
	if _, err := sel.PickParent(rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatal("expected error for empty population")
	}
}

func TestEliteSelectorStaysInTopSet(t *testing.T) {
	ranked := rankedPopulation(25)
	sel := EliteSelector{Count: 5}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		got, err := sel.PickParent(rng, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if got.Fitness >= 5 {
			t.Fatalf("elite pick outside top 5: fitness %g", got.Fitness)
		}
	}
}

func TestEliteSelectorDefaultsCount(t *testing.T) {
	ranked := rankedPopulation(3)
	sel := EliteSelector{}
	rng := rand.New(rand.NewSource(9))

	got, err := sel.PickParent(rng, ranked)
	if err != nil {
		t.Fatalf("pick parent: %v", err)
	}
	// Count defaults to a fifth of the population, clamped to at least one.
	if got.Fitness != 0 {
		t.Fatalf("default elite count should pick the best, got fitness %g", got.Fitness)
	}
}

func TestSelectorFromName(t *testing.T) {
	cases := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "", wantName: "tournament"},
		{name: "tournament", wantName: "tournament"},
		{name: "elite", wantName: "elite"},
		{name: "roulette", wantErr: true},
	}
	for _, tc := range cases {
		sel, err := SelectorFromName(tc.name, 3)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SelectorFromName(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SelectorFromName(%q): %v", tc.name, err)
		}
		if got := sel.Name(); got != tc.wantName {
			t.Fatalf("SelectorFromName(%q): got %q, want %q", tc.name, got, tc.wantName)
		}
	}
}
