package objective

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// CatalogEntry is one named benchmark objective with its canonical bounds.
type CatalogEntry struct {
	Name        string
	Description string
	Dimension   int
	Lower       float64
	Upper       float64
	F           Func
}

func (e CatalogEntry) Spec() (Spec, error) {
	lower := make([]float64, e.Dimension)
	upper := make([]float64, e.Dimension)
	for i := range lower {
		lower[i] = e.Lower
		upper[i] = e.Upper
	}
	return NewSpec(e.F, lower, upper)
}

type benchmarkFunc struct {
	key         string
	description string
	lower       float64
	upper       float64
	f           Func
}

// The classic continuous benchmark suite the original harness keys into
// (f1, f9_D10, ...). Base keys use D=30; _D2 and _D10 variants are
// registered alongside.
var benchmarkSuite = []benchmarkFunc{
	{key: "f1", description: "sphere", lower: -100, upper: 100, f: sphere},
	{key: "f2", description: "schwefel 2.22", lower: -10, upper: 10, f: schwefel222},
	{key: "f5", description: "rosenbrock", lower: -30, upper: 30, f: rosenbrock},
	{key: "f6", description: "step", lower: -100, upper: 100, f: step},
	{key: "f8", description: "schwefel", lower: -500, upper: 500, f: schwefel},
	{key: "f9", description: "rastrigin", lower: -5.12, upper: 5.12, f: rastrigin},
	{key: "f10", description: "ackley", lower: -32, upper: 32, f: ackley},
	{key: "f11", description: "griewank", lower: -600, upper: 600, f: griewank},
	{key: "f13", description: "generalized penalized", lower: -50, upper: 50, f: penalized2},
}

var catalogDimensions = []int{2, 10, 30}

// Catalog returns every registered objective, sorted by name.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(benchmarkSuite)*len(catalogDimensions))
	for _, fn := range benchmarkSuite {
		for _, dim := range catalogDimensions {
			name := fn.key
			if dim != 30 {
				name = fmt.Sprintf("%s_D%d", fn.key, dim)
			}
			entries = append(entries, CatalogEntry{
				Name:        name,
				Description: fmt.Sprintf("%s (D=%d)", fn.description, dim),
				Dimension:   dim,
				Lower:       fn.lower,
				Upper:       fn.upper,
				F:           fn.f,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Lookup resolves an objective key from the catalog.
func Lookup(name string) (CatalogEntry, bool) {
	name = strings.TrimSpace(name)
	for _, entry := range Catalog() {
		if entry.Name == name {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// Names returns the sorted catalog keys.
func Names() []string {
	entries := Catalog()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}

func sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func schwefel222(x []float64) float64 {
	sum := 0.0
	prod := 1.0
	for _, v := range x {
		a := math.Abs(v)
		sum += a
		prod *= a
	}
	return sum + prod
}

func rosenbrock(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := x[i] - 1
		sum += 100*a*a + b*b
	}
	return sum
}

func step(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		t := math.Floor(v + 0.5)
		sum += t * t
	}
	return sum
}

func schwefel(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += -v * math.Sin(math.Sqrt(math.Abs(v)))
	}
	return 418.9828872724339*float64(len(x)) + sum
}

func rastrigin(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v) + 10
	}
	return sum
}

func ackley(x []float64) float64 {
	n := float64(len(x))
	sumSq := 0.0
	sumCos := 0.0
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E
}

func griewank(x []float64) float64 {
	sum := 0.0
	prod := 1.0
	for i, v := range x {
		sum += v * v / 4000
		prod *= math.Cos(v / math.Sqrt(float64(i+1)))
	}
	return sum - prod + 1
}

func penalized2(x []float64) float64 {
	n := len(x)
	sum := math.Pow(math.Sin(3*math.Pi*x[0]), 2)
	for i := 0; i+1 < n; i++ {
		a := x[i] - 1
		sum += a * a * (1 + math.Pow(math.Sin(3*math.Pi*x[i+1]), 2))
	}
	last := x[n-1] - 1
	sum += last * last * (1 + math.Pow(math.Sin(2*math.Pi*x[n-1]), 2))
	penalty := 0.0
	for _, v := range x {
		penalty += penaltyTerm(v, 5, 100, 4)
	}
	return 0.1*sum + penalty
}

func penaltyTerm(v, a, k, m float64) float64 {
	switch {
	case v > a:
		return k * math.Pow(v-a, m)
	case v < -a:
		return k * math.Pow(-v-a, m)
	default:
		return 0
	}
}
