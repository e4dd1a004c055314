package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Node kinds form a closed set: three terminals and three combinators.
const (
	KindRandomSample = "random_sample"
	KindPerturb      = "perturb"
	KindRestart      = "restart"
	KindSeq          = "seq"
	KindRepeat       = "repeat"
	KindAccept       = "accept"
)

// Node is one tagged node of a search program tree. Terminals carry bound
// numeric parameters; combinators carry ordered children of fixed arity.
type Node struct {
	Kind     string  `json:"kind"`
	Scale    float64 `json:"scale,omitempty"`
	Children []Node  `json:"children,omitempty"`
}

// Program is a rooted search program evolved by the GP driver.
type Program struct {
	VersionedRecord
	ID   string `json:"id"`
	Root Node   `json:"root"`
}

// RunRecord describes one completed run: configuration, the deployed result
// and a pointer to the winning program.
type RunRecord struct {
	VersionedRecord
	ID               string  `json:"id"`
	Objective        string  `json:"objective"`
	Dimension        int     `json:"dimension"`
	Seed             int64   `json:"seed"`
	Population       int     `json:"population"`
	Generations      int     `json:"generations"`
	BudgetPerProgram int     `json:"budget_per_program"`
	MaxEvaluations   int     `json:"max_evaluations"`
	FBest            float64 `json:"f_best"`
	Evaluations      int     `json:"evaluations"`
	EvolutionBest    float64 `json:"evolution_best"`
	BestProgramID    string  `json:"best_program_id"`
	Description      string  `json:"description"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

// ObjectiveSummary tracks the best value ever deployed against an objective.
// Values minimize, so lower is better.
type ObjectiveSummary struct {
	VersionedRecord
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BestValue   float64 `json:"best_value"`
	BestRunID   string  `json:"best_run_id"`
}

type GenerationDiagnostics struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	WorstFitness  float64 `json:"worst_fitness"`
	BestEver      float64 `json:"best_ever"`
	MeanNodeCount float64 `json:"mean_node_count"`
	MaxDepth      int     `json:"max_depth"`
	Evaluations   int     `json:"evaluations"`
}

type TopProgramRecord struct {
	Rank        int     `json:"rank"`
	Fitness     float64 `json:"fitness"`
	Evaluations int     `json:"evaluations"`
	Program     Program `json:"program"`
	Description string  `json:"description"`
}

// LineageRecord traces how one program was produced from its parents.
type LineageRecord struct {
	VersionedRecord
	ProgramID      string `json:"program_id"`
	ParentID       string `json:"parent_id,omitempty"`
	SecondParentID string `json:"second_parent_id,omitempty"`
	Generation     int    `json:"generation"`
	Operation      string `json:"operation"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	NodeCount      int    `json:"node_count"`
	Depth          int    `json:"depth"`
}
