package main

import (
	"fmt"

	gphhapi "gphh/pkg/gphh"
)

// runProfilePreset trades search effort against wall-clock time; the run
// command applies one underneath any flags set explicitly.
type runProfilePreset struct {
	Name             string `json:"name"`
	Population       int    `json:"population"`
	Generations      int    `json:"generations"`
	BudgetPerProgram int    `json:"budget_per_program"`
	MaxEvaluations   int    `json:"max_evaluations"`
}

var runProfiles = []runProfilePreset{
	{Name: "quick", Population: 30, Generations: 10, BudgetPerProgram: 1000, MaxEvaluations: 50000},
	{Name: "default", Population: 60, Generations: 20, BudgetPerProgram: 3000, MaxEvaluations: 200000},
	{Name: "thorough", Population: 100, Generations: 40, BudgetPerProgram: 5000, MaxEvaluations: 500000},
}

func listProfiles() []runProfilePreset {
	out := make([]runProfilePreset, len(runProfiles))
	copy(out, runProfiles)
	return out
}

func lookupProfile(name string) (runProfilePreset, error) {
	for _, p := range runProfiles {
		if p.Name == name {
			return p, nil
		}
	}
	return runProfilePreset{}, fmt.Errorf("unknown profile: %s", name)
}

// applyProfile fills in the preset values, keeping any field the user pinned
// with an explicit flag.
func applyProfile(req *gphhapi.RunRequest, preset runProfilePreset, set map[string]bool) {
	if !set["pop"] {
		req.Population = preset.Population
	}
	if !set["gens"] {
		req.Generations = preset.Generations
	}
	if !set["budget"] {
		req.BudgetPerProgram = preset.BudgetPerProgram
	}
	if !set["max-evals"] {
		req.MaxEvaluations = preset.MaxEvaluations
	}
}
