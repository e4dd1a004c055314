package storage

import (
	"errors"
	"testing"

	"gphh/internal/model"
)

func TestProgramCodecRoundTrip(t *testing.T) {
	want := testProgram("p1")
	data, err := EncodeProgram(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeProgram(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("id: got %q, want %q", got.ID, want.ID)
	}
	if got.Root.Kind != model.KindSeq || len(got.Root.Children) != 2 {
		t.Fatalf("root mismatch: %+v", got.Root)
	}
	if got.Root.Children[0].Scale != 0.1 {
		t.Fatalf("scale: got %g", got.Root.Children[0].Scale)
	}
}

func TestDecodeProgramRejectsVersionMismatch(t *testing.T) {
	prog := testProgram("p1")
	prog.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeProgram(prog)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeProgram(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("schema mismatch: got %v, want ErrVersionMismatch", err)
	}

	prog = testProgram("p1")
	prog.CodecVersion = CurrentCodecVersion + 1
	data, err = EncodeProgram(prog)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeProgram(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("codec mismatch: got %v, want ErrVersionMismatch", err)
	}
}

func TestDecodeProgramRejectsGarbage(t *testing.T) {
	if _, err := DecodeProgram([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRunCodecRoundTrip(t *testing.T) {
	want := model.RunRecord{
		VersionedRecord:  versioned(),
		ID:               "f1-1-1700000000",
		Objective:        "f1",
		Dimension:        30,
		Seed:             1,
		Population:       60,
		Generations:      20,
		BudgetPerProgram: 3000,
		MaxEvaluations:   200000,
		FBest:            0.125,
		Evaluations:      199981,
		BestProgramID:    "p-g19-i4",
		CreatedAtUTC:     "2026-08-29T09:00:00Z",
	}
	data, err := EncodeRun(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := model.RunRecord{VersionedRecord: versioned(), ID: "r1"}
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestObjectiveSummaryCodec(t *testing.T) {
	want := model.ObjectiveSummary{
		VersionedRecord: versioned(),
		Name:            "f5",
		Description:     "rosenbrock",
		BestValue:       28.7,
		BestRunID:       "r9",
	}
	data, err := EncodeObjectiveSummary(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeObjectiveSummary(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLineageCodecChecksEveryRecord(t *testing.T) {
	records := []model.LineageRecord{
		{VersionedRecord: versioned(), ProgramID: "p1", Operation: "seed"},
		{VersionedRecord: versioned(), ProgramID: "p2", ParentID: "p1", Operation: "mutation"},
	}
	data, err := EncodeLineage(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeLineage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].ParentID != "p1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	records[1].SchemaVersion = CurrentSchemaVersion + 1
	data, err = EncodeLineage(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeLineage(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestTopProgramsCodecChecksEmbeddedPrograms(t *testing.T) {
	top := []model.TopProgramRecord{
		{Rank: 1, Fitness: 0.5, Program: testProgram("p1"), Description: "Seq(Perturb(0.100), Restart)"},
	}
	data, err := EncodeTopPrograms(top)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTopPrograms(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Program.ID != "p1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	top[0].Program.CodecVersion = CurrentCodecVersion + 1
	data, err = EncodeTopPrograms(top)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeTopPrograms(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestFitnessHistoryCodec(t *testing.T) {
	want := []float64{100, 42.5, 42.5, 3}
	data, err := EncodeFitnessHistory(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeFitnessHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %g, want %g", i, got[i], want[i])
		}
	}
}
