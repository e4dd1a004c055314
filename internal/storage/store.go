package storage

import (
	"context"

	"gphh/internal/model"
)

// Store defines transaction-like persistence operations for core GPHH entities.
type Store interface {
	Init(ctx context.Context) error
	SaveProgram(ctx context.Context, program model.Program) error
	GetProgram(ctx context.Context, id string) (model.Program, bool, error)
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveObjectiveSummary(ctx context.Context, summary model.ObjectiveSummary) error
	GetObjectiveSummary(ctx context.Context, name string) (model.ObjectiveSummary, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveTopPrograms(ctx context.Context, runID string, top []model.TopProgramRecord) error
	GetTopPrograms(ctx context.Context, runID string) ([]model.TopProgramRecord, bool, error)
	SaveLineage(ctx context.Context, runID string, lineage []model.LineageRecord) error
	GetLineage(ctx context.Context, runID string) ([]model.LineageRecord, bool, error)
}
