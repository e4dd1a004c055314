package evo

import (
	"fmt"
	"math/rand"

	"gphh/internal/model"
	"gphh/internal/program"
)

const crossoverAttempts = 10

type slot struct {
	node  *model.Node
	depth int
}

// collectSlots gathers pointers to every node in the tree together with its
// depth, so variation operators can splice subtrees in place.
func collectSlots(root *model.Node) []slot {
	slots := make([]slot, 0, 16)
	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		slots = append(slots, slot{node: n, depth: depth})
		for i := range n.Children {
			walk(&n.Children[i], depth+1)
		}
	}
	walk(root, 1)
	return slots
}

// Crossover swaps one random subtree between copies of the two parents. Every
// attachment point is arity-compatible (the primitive set is single-typed),
// so only the depth and node limits can invalidate an attempt; offending
// swaps are resampled. Returns false when no valid pair of offspring was
// found, in which case the caller falls back to mutation.
func Crossover(rng *rand.Rand, a, b model.Program, limits program.Limits, idA, idB string) (model.Program, model.Program, bool) {
	for attempt := 0; attempt < crossoverAttempts; attempt++ {
		childA := program.Clone(a, idA)
		childB := program.Clone(b, idB)

		slotsA := collectSlots(&childA.Root)
		slotsB := collectSlots(&childB.Root)
		pickA := slotsA[rng.Intn(len(slotsA))]
		pickB := slotsB[rng.Intn(len(slotsB))]
		*pickA.node, *pickB.node = *pickB.node, *pickA.node

		if program.Validate(childA.Root, limits) != nil {
			continue
		}
		if program.Validate(childB.Root, limits) != nil {
			continue
		}
		return childA, childB, true
	}
	return model.Program{}, model.Program{}, false
}

// Mutate replaces one random subtree with a freshly grown one that fits the
// remaining depth and node allowance at that point.
func Mutate(rng *rand.Rand, p model.Program, limits program.Limits, newID string) (model.Program, error) {
	child := program.Clone(p, newID)
	slots := collectSlots(&child.Root)
	pick := slots[rng.Intn(len(slots))]

	depthLeft := limits.MaxDepth - pick.depth + 1
	if depthLeft < 1 {
		depthLeft = 1
	}
	nodeAllowance := limits.MaxNodes - (program.NodeCount(child.Root) - program.NodeCount(*pick.node))
	if nodeAllowance < 1 {
		nodeAllowance = 1
	}

	replacement, err := program.Grow(rng, program.Limits{MaxDepth: depthLeft, MaxNodes: nodeAllowance})
	if err != nil {
		return model.Program{}, err
	}
	*pick.node = replacement

	if err := program.Validate(child.Root, limits); err != nil {
		return model.Program{}, fmt.Errorf("mutated tree is invalid: %w", err)
	}
	return child, nil
}
