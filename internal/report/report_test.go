package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tbrink/jif/internal/pipeline"
)

func sampleResults() []pipeline.Result {
	factor := 3.2
	return []pipeline.Result{
		{
			File:           "papers/a.pdf",
			Journal:        "Journal of Applied Physics",
			MatchedJournal: "Journal of Applied Physics",
			ImpactFactor:   &factor,
			Edition:        "SCIE",
			MatchType:      "exact",
			Score:          100,
			Rule:           "comma-prefix",
			Status:         pipeline.StatusResolved,
		},
		{
			File:   "papers/b.pdf",
			Status: pipeline.StatusNoJournal,
		},
		{
			File:       "papers/c.pdf",
			Journal:    "Nature Comm",
			Status:     pipeline.StatusAmbiguous,
			Score:      88,
			Candidates: []string{"Nature Communications", "Nature Communications Biology"},
			Detail:     "equally plausible: Nature Communications; Nature Communications Biology",
		},
	}
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.csv", FormatCSV},
		{"out.xlsx", FormatXLSX},
		{"out.jsonl", FormatJSONL},
		{"out.txt", FormatCSV},
		{"out", FormatCSV},
	}

	for _, tt := range tests {
		if got := InferFormat(tt.path); got != tt.want {
			t.Errorf("InferFormat(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := Write(path, FormatCSV, sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing report: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][0] != "file" || records[0][4] != "edition" || records[0][8] != "status" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][3] != "3.2" {
		t.Errorf("expected impact factor cell 3.2, got %q", records[1][3])
	}
	if records[1][4] != "SCIE" {
		t.Errorf("expected edition cell SCIE, got %q", records[1][4])
	}
	// Absent values stay blank, not zero.
	if records[2][3] != "" || records[2][4] != "" || records[2][6] != "" {
		t.Errorf("expected blank cells for unresolved row, got %v", records[2])
	}
	if records[3][8] != "ambiguous" {
		t.Errorf("expected ambiguous status, got %q", records[3][8])
	}
}

func TestWriteCSV_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	results := sampleResults()
	if err := Write(first, FormatCSV, results); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(second, FormatCSV, results); err != nil {
		t.Fatalf("second write: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("reading first: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("reading second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("expected byte-identical reports for identical results")
	}
}

func TestWriteJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	if err := Write(path, FormatJSONL, sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var first pipeline.Result
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("parsing line 1: %v", err)
	}
	if first.Status != pipeline.StatusResolved {
		t.Errorf("expected resolved, got %s", first.Status)
	}
	if first.ImpactFactor == nil || *first.ImpactFactor != 3.2 {
		t.Errorf("expected impact factor 3.2, got %v", first.ImpactFactor)
	}

	var second pipeline.Result
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("parsing line 2: %v", err)
	}
	if second.ImpactFactor != nil {
		t.Error("expected absent impact factor to stay absent")
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := Write(path, FormatXLSX, sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "file" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != "3.2" {
		t.Errorf("expected impact factor 3.2, got %q", rows[1][3])
	}
	if rows[1][4] != "SCIE" {
		t.Errorf("expected edition SCIE, got %q", rows[1][4])
	}
	if rows[3][8] != "ambiguous" {
		t.Errorf("expected ambiguous status, got %q", rows[3][8])
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "out"), "parquet", nil); err == nil {
		t.Error("expected an error for unsupported format")
	}
}

func TestWrite_InfersFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	if err := Write(path, "", sampleResults()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !json.Valid(bytes.Split(data, []byte("\n"))[0]) {
		t.Error("expected jsonl output")
	}
}
