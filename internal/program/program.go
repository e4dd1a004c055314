// Package program builds and inspects search-program trees: seeded random
// growth, cloning, structural limits and canonical descriptions. Structural
// variation (crossover, subtree mutation) lives in the evo package.
package program

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"

	"gphh/internal/model"
)

// Limits bound tree shape so evaluation cost stays predictable.
type Limits struct {
	MaxDepth int
	MaxNodes int
}

const (
	DefaultMaxDepth = 6
	DefaultMaxNodes = 48

	// Perturbation scales are drawn from this range, relative to the
	// objective's per-dimension bound width.
	minPerturbScale = 0.01
	maxPerturbScale = 0.5
)

func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}

func (l Limits) validate() error {
	if l.MaxDepth < 1 {
		return fmt.Errorf("max depth must be >= 1, got %d", l.MaxDepth)
	}
	if l.MaxNodes < 1 {
		return fmt.Errorf("max nodes must be >= 1, got %d", l.MaxNodes)
	}
	return nil
}

// Arity returns the fixed child count for a node kind.
func Arity(kind string) (int, error) {
	switch kind {
	case model.KindRandomSample, model.KindPerturb, model.KindRestart:
		return 0, nil
	case model.KindRepeat, model.KindAccept:
		return 1, nil
	case model.KindSeq:
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown node kind: %s", kind)
	}
}

var terminalKinds = []string{model.KindRandomSample, model.KindPerturb, model.KindRestart}

var functionKinds = []string{model.KindSeq, model.KindRepeat, model.KindAccept}

// Grow builds a random program tree within the limits, all randomness drawn
// from rng.
func Grow(rng *rand.Rand, limits Limits) (model.Node, error) {
	if err := limits.validate(); err != nil {
		return model.Node{}, err
	}
	budget := limits.MaxNodes
	return growNode(rng, limits.MaxDepth, &budget), nil
}

// GrowProgram wraps Grow with an ID, for initial population construction.
func GrowProgram(rng *rand.Rand, limits Limits, id string) (model.Program, error) {
	root, err := Grow(rng, limits)
	if err != nil {
		return model.Program{}, err
	}
	return model.Program{ID: id, Root: root}, nil
}

func growNode(rng *rand.Rand, depthLeft int, nodeBudget *int) model.Node {
	*nodeBudget--
	// Leaves are forced at the depth limit or when the node budget cannot
	// cover a combinator's children.
	if depthLeft <= 1 || *nodeBudget < 2 || rng.Float64() < 0.35 {
		return growTerminal(rng)
	}

	kind := functionKinds[rng.Intn(len(functionKinds))]
	arity, _ := Arity(kind)
	if *nodeBudget < arity {
		return growTerminal(rng)
	}
	children := make([]model.Node, 0, arity)
	for i := 0; i < arity; i++ {
		children = append(children, growNode(rng, depthLeft-1, nodeBudget))
	}
	return model.Node{Kind: kind, Children: children}
}

func growTerminal(rng *rand.Rand) model.Node {
	kind := terminalKinds[rng.Intn(len(terminalKinds))]
	node := model.Node{Kind: kind}
	if kind == model.KindPerturb {
		node.Scale = minPerturbScale + rng.Float64()*(maxPerturbScale-minPerturbScale)
	}
	return node
}

// Clone deep-copies a program under a new ID.
func Clone(p model.Program, newID string) model.Program {
	return model.Program{
		VersionedRecord: p.VersionedRecord,
		ID:              newID,
		Root:            CloneNode(p.Root),
	}
}

func CloneNode(n model.Node) model.Node {
	out := model.Node{Kind: n.Kind, Scale: n.Scale}
	if len(n.Children) > 0 {
		out.Children = make([]model.Node, len(n.Children))
		for i := range n.Children {
			out.Children[i] = CloneNode(n.Children[i])
		}
	}
	return out
}

func NodeCount(n model.Node) int {
	count := 1
	for i := range n.Children {
		count += NodeCount(n.Children[i])
	}
	return count
}

func Depth(n model.Node) int {
	deepest := 0
	for i := range n.Children {
		if d := Depth(n.Children[i]); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Validate checks arity, depth and node count against the limits.
func Validate(n model.Node, limits Limits) error {
	if err := limits.validate(); err != nil {
		return err
	}
	if err := validateArity(n); err != nil {
		return err
	}
	if d := Depth(n); d > limits.MaxDepth {
		return fmt.Errorf("tree depth %d exceeds limit %d", d, limits.MaxDepth)
	}
	if c := NodeCount(n); c > limits.MaxNodes {
		return fmt.Errorf("tree node count %d exceeds limit %d", c, limits.MaxNodes)
	}
	return nil
}

func validateArity(n model.Node) error {
	arity, err := Arity(n.Kind)
	if err != nil {
		return err
	}
	if len(n.Children) != arity {
		return fmt.Errorf("node kind %s expects %d children, got %d", n.Kind, arity, len(n.Children))
	}
	for i := range n.Children {
		if err := validateArity(n.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// Describe renders the canonical human-readable form of a program, e.g.
// Seq(Repeat(Accept(Perturb(0.12))), Restart).
func Describe(n model.Node) string {
	var b strings.Builder
	describeNode(&b, n)
	return b.String()
}

func describeNode(b *strings.Builder, n model.Node) {
	switch n.Kind {
	case model.KindRandomSample:
		b.WriteString("Sample")
	case model.KindPerturb:
		fmt.Fprintf(b, "Perturb(%.3f)", n.Scale)
	case model.KindRestart:
		b.WriteString("Restart")
	case model.KindSeq:
		b.WriteString("Seq(")
		for i := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			describeNode(b, n.Children[i])
		}
		b.WriteString(")")
	case model.KindRepeat:
		b.WriteString("Repeat(")
		describeNode(b, n.Children[0])
		b.WriteString(")")
	case model.KindAccept:
		b.WriteString("Accept(")
		describeNode(b, n.Children[0])
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "?%s", n.Kind)
	}
}

// Fingerprint hashes the canonical description so structurally identical
// programs share a key across runs.
func Fingerprint(n model.Node) string {
	digest := sha1.Sum([]byte(Describe(n)))
	return hex.EncodeToString(digest[:])
}
