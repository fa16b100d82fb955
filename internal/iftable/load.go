package iftable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyTable is returned when the reference table loads but contains
// no usable rows. The run cannot proceed without lookup data.
var ErrEmptyTable = errors.New("reference table has no usable rows")

// LoadOptions overrides header detection when a provider's spreadsheet
// uses nonstandard column names.
type LoadOptions struct {
	NameColumn    string // Header of the journal name column
	IFColumn      string // Header of the impact factor column
	EditionColumn string // Header of the edition/year column (optional)
}

// Load reads a reference table from path, dispatching on extension.
// Supported formats: .xlsx, .csv, .tsv. Any failure here is fatal to
// the run; per-row problems are skipped and counted instead.
func Load(path string, opts LoadOptions) (*Table, error) {
	var rows [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path, ',')
	case ".tsv":
		rows, err = readCSV(path, '\t')
	default:
		return nil, fmt.Errorf("unsupported reference table format %q (want .xlsx, .csv or .tsv)", ext)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(path, rows, opts)
}

// readXLSX reads all rows of the first sheet.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// readCSV reads all records of a delimited text file.
func readCSV(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1 // Provider exports have ragged rows

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing reference table: %w", err)
	}
	return records, nil
}

// Column header spellings seen across provider exports.
var (
	nameHeaders    = []string{"journal name", "full journal title", "journal title", "journal", "name"}
	ifHeaders      = []string{"jif", "impact factor", "journal impact factor", "if"}
	editionHeaders = []string{"edition", "jcr year", "year"}
)

// buildTable maps the header row and converts data rows to entries.
func buildTable(path string, rows [][]string, opts LoadOptions) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	header := rows[0]
	nameCol := findColumn(header, opts.NameColumn, nameHeaders)
	ifCol := findColumn(header, opts.IFColumn, ifHeaders)
	editionCol := findColumn(header, opts.EditionColumn, editionHeaders)

	if nameCol < 0 || ifCol < 0 {
		return nil, fmt.Errorf("reference table %s: cannot find journal name and impact factor columns in header %v", path, header)
	}

	t := &Table{
		byNorm: make(map[string]int),
		Source: path,
	}

	for _, row := range rows[1:] {
		if nameCol >= len(row) || ifCol >= len(row) {
			t.SkippedRows++
			continue
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			t.SkippedRows++
			continue
		}

		factor, err := parseFactor(row[ifCol])
		if err != nil {
			t.SkippedRows++
			continue
		}

		entry := Entry{Journal: name, ImpactFactor: factor}
		if editionCol >= 0 && editionCol < len(row) {
			entry.Edition = strings.TrimSpace(row[editionCol])
		}

		t.entries = append(t.entries, entry)
		norm := normalizeName(name)
		if _, exists := t.byNorm[norm]; !exists {
			t.byNorm[norm] = len(t.entries) - 1
		}
	}

	if len(t.entries) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// findColumn locates a column by explicit header first, then by the
// known spellings. Matching is case-insensitive; known spellings also
// match as prefixes ("JIF 2024" matches "jif"). Returns -1 if absent.
func findColumn(header []string, explicit string, known []string) int {
	if explicit != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), explicit) {
				return i
			}
		}
		return -1
	}

	for _, want := range known {
		for i, h := range header {
			got := strings.ToLower(strings.TrimSpace(h))
			if got == want || strings.HasPrefix(got, want+" ") {
				return i
			}
		}
	}
	return -1
}

// parseFactor parses an impact factor cell. Provider exports sometimes
// use comma decimals or annotate values ("<0.1"); plain junk is a row
// skip, not a fatal error.
func parseFactor(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimPrefix(s, ">")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
