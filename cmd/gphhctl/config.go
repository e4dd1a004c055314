package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	gphhapi "gphh/pkg/gphh"
)

// loadRunRequestFromConfig reads a run request from a loosely typed JSON
// document. Unknown keys are ignored; numeric values accept both integral and
// floating JSON numbers.
func loadRunRequestFromConfig(path string) (gphhapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gphhapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return gphhapi.RunRequest{}, err
	}

	var req gphhapi.RunRequest
	if v, ok := asString(raw["objective"]); ok {
		req.Objective = v
	}
	if v, ok := asInt(raw["population"]); ok {
		req.Population = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asInt(raw["budget_per_program"]); ok {
		req.BudgetPerProgram = v
	}
	if v, ok := asInt(raw["max_evaluations"]); ok {
		req.MaxEvaluations = v
	}
	if v, ok := asInt(raw["elite_count"]); ok {
		req.EliteCount = v
	}
	if v, ok := asString(raw["selection"]); ok {
		req.Selection = v
	}
	if v, ok := asInt(raw["tournament_size"]); ok {
		req.TournamentSize = v
	}
	if v, ok := asFloat64(raw["crossover_rate"]); ok {
		req.CrossoverRate = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asInt(raw["max_depth"]); ok {
		req.MaxDepth = v
	}
	if v, ok := asInt(raw["max_nodes"]); ok {
		req.MaxNodes = v
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (gphhapi.RunRequest, error) {
	if configPath == "" {
		return gphhapi.RunRequest{}, nil
	}
	return loadRunRequestFromConfig(configPath)
}

// overrideFromFlags applies explicitly set command-line flags on top of a
// config-file request, so flags win over the file.
func overrideFromFlags(req *gphhapi.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name, value := range flagValue {
		if !set[name] {
			continue
		}
		switch name {
		case "objective":
			req.Objective = value.(string)
		case "pop":
			req.Population = value.(int)
		case "gens":
			req.Generations = value.(int)
		case "seed":
			req.Seed = value.(int64)
		case "workers":
			req.Workers = value.(int)
		case "budget":
			req.BudgetPerProgram = value.(int)
		case "max-evals":
			req.MaxEvaluations = value.(int)
		case "elite":
			req.EliteCount = value.(int)
		case "selection":
			req.Selection = value.(string)
		case "tournament-size":
			req.TournamentSize = value.(int)
		case "crossover-rate":
			req.CrossoverRate = value.(float64)
		case "mutation-rate":
			req.MutationRate = value.(float64)
		case "max-depth":
			req.MaxDepth = value.(int)
		case "max-nodes":
			req.MaxNodes = value.(int)
		default:
			return fmt.Errorf("unknown override flag: %s", name)
		}
	}
	return nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
