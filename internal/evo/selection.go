package evo

import (
	"fmt"
	"math/rand"
)

// Selector chooses parents from a ranked population for reproduction. The
// slice is ordered best-first (ascending fitness, ties broken by fewer
// evaluations, then fewer nodes), so comparing indexes compares individuals.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []Individual) (Individual, error)
}

// TournamentSelector samples candidates uniformly and keeps the best ranked.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []Individual) (Individual, error) {
	if rng == nil {
		return Individual{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return Individual{}, fmt.Errorf("ranked population is empty")
	}

	size := s.Size
	if size <= 0 {
		size = 3
	}
	if size > len(ranked) {
		size = len(ranked)
	}

	best := rng.Intn(len(ranked))
	for i := 1; i < size; i++ {
		candidate := rng.Intn(len(ranked))
		if candidate < best {
			best = candidate
		}
	}
	return ranked[best], nil
}

// EliteSelector picks uniformly from the top elite set.
type EliteSelector struct {
	Count int
}

func (EliteSelector) Name() string {
	return "elite"
}

func (s EliteSelector) PickParent(rng *rand.Rand, ranked []Individual) (Individual, error) {
	if rng == nil {
		return Individual{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return Individual{}, fmt.Errorf("ranked population is empty")
	}

	count := s.Count
	if count <= 0 {
		count = len(ranked) / 5
	}
	if count < 1 {
		count = 1
	}
	if count > len(ranked) {
		count = len(ranked)
	}
	return ranked[rng.Intn(count)], nil
}

// SelectorFromName resolves a selection strategy by its configured name.
func SelectorFromName(name string, tournamentSize int) (Selector, error) {
	switch name {
	case "", "tournament":
		return TournamentSelector{Size: tournamentSize}, nil
	case "elite":
		return EliteSelector{}, nil
	default:
		return nil, fmt.Errorf("unsupported selection strategy: %s", name)
	}
}
