// Package report writes run results to delimited table files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tbrink/jif/internal/pipeline"
)

// Formats supported by Write.
const (
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatJSONL = "jsonl"
)

// Header is the column layout shared by all tabular formats.
var Header = []string{
	"file", "journal", "matched_journal", "impact_factor", "edition",
	"match_type", "score", "rule", "status", "detail",
}

// Write writes results to path in the given format. An empty format is
// inferred from the path extension, falling back to csv.
func Write(path, format string, results []pipeline.Result) error {
	if format == "" {
		format = InferFormat(path)
	}

	switch format {
	case FormatCSV:
		return writeCSV(path, results)
	case FormatXLSX:
		return writeXLSX(path, results)
	case FormatJSONL:
		return writeJSONL(path, results)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// InferFormat maps a path extension to a format, defaulting to csv.
func InferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".jsonl":
		return FormatJSONL
	default:
		return FormatCSV
	}
}

// row converts a result to table cells. Absent values become blank
// cells so the report stays machine-diffable across runs.
func row(r pipeline.Result) []string {
	factor := ""
	if r.ImpactFactor != nil {
		factor = strconv.FormatFloat(*r.ImpactFactor, 'f', -1, 64)
	}
	score := ""
	if r.Score > 0 {
		score = strconv.Itoa(r.Score)
	}
	return []string{
		r.File, r.Journal, r.MatchedJournal, factor, r.Edition,
		r.MatchType, score, r.Rule, string(r.Status), r.Detail,
	}
}

func writeCSV(path string, results []pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range results {
		if err := w.Write(row(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

func writeJSONL(path string, results []pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	for i, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding result %d: %w", i+1, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing result %d: %w", i+1, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}
