// Package pipeline runs PDFs through metadata extraction, journal name
// resolution and impact-factor lookup, one file at a time.
package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tbrink/jif/internal/iftable"
	"github.com/tbrink/jif/internal/pdfmeta"
	"github.com/tbrink/jif/internal/resolver"
)

// Status is the terminal state of one processed document.
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusNoJournal Status = "no_journal_found"
	StatusNoIF      Status = "no_if_found"
	StatusAmbiguous Status = "ambiguous"
	StatusReadError Status = "read_error"
)

// Result is the record produced for one input file.
type Result struct {
	File           string   `json:"file"`
	Journal        string   `json:"journal,omitempty"`         // Extracted candidate
	MatchedJournal string   `json:"matched_journal,omitempty"` // Canonical name from the table
	ImpactFactor   *float64 `json:"impact_factor,omitempty"`
	Edition        string   `json:"edition,omitempty"`
	MatchType      string   `json:"match_type,omitempty"` // exact or fuzzy
	Score          int      `json:"score,omitempty"`
	Rule           string   `json:"rule,omitempty"` // Resolver rule that fired
	Status         Status   `json:"status"`
	Candidates     []string `json:"candidates,omitempty"` // Contenders of an ambiguous match
	Detail         string   `json:"detail,omitempty"`     // Read error message or triage hint
}

// Summary aggregates result statuses for the run report.
type Summary struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	NoJournal  int `json:"no_journal_found"`
	NoIF       int `json:"no_if_found"`
	Ambiguous  int `json:"ambiguous"`
	ReadErrors int `json:"read_errors"`
}

// Percent formats n as a percentage of the total.
func (s Summary) Percent(n int) string {
	if s.Total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(s.Total)*100)
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Status {
	case StatusResolved:
		s.Resolved++
	case StatusNoJournal:
		s.NoJournal++
	case StatusNoIF:
		s.NoIF++
	case StatusAmbiguous:
		s.Ambiguous++
	case StatusReadError:
		s.ReadErrors++
	}
}

// Processor runs documents through the extract-resolve-lookup pipeline.
// The table and rules are read-only; the processor holds no per-file state.
type Processor struct {
	Table     *iftable.Table
	Rules     *resolver.RuleSet
	Threshold int // Minimum fuzzy similarity score (0-100)
	MaxPages  int // Pages scanned by the body-text fallback
}

// ProcessFile runs one PDF through the pipeline. All failures downgrade
// to a status on the result; this never returns an error so a bad file
// cannot abort the batch.
func (p *Processor) ProcessFile(path string) Result {
	res := Result{File: path}

	subject, present, err := pdfmeta.Subject(path)
	if err != nil {
		res.Status = StatusReadError
		res.Detail = err.Error()
		return res
	}

	var candidate, rule string
	var ok bool
	if present {
		candidate, rule, ok = p.Rules.Resolve(subject)
	}
	if !ok {
		// Subjects field missing or unresolvable: try known journal
		// header patterns against the first pages' text.
		if text, terr := pdfmeta.FirstPagesText(path, p.maxPages()); terr == nil {
			candidate, rule, ok = resolver.ResolveText(text)
		}
	}
	if !ok {
		res.Status = StatusNoJournal
		return res
	}

	res.Journal = candidate
	res.Rule = rule

	match := p.Table.Lookup(candidate, p.Threshold)
	switch match.Status {
	case iftable.MatchExact, iftable.MatchFuzzy:
		res.Status = StatusResolved
		res.MatchedJournal = match.Entry.Journal
		factor := match.Entry.ImpactFactor
		res.ImpactFactor = &factor
		res.Edition = match.Entry.Edition
		res.MatchType = string(match.Status)
		res.Score = match.Score
	case iftable.MatchAmbiguous:
		res.Status = StatusAmbiguous
		res.Score = match.Score
		res.Candidates = match.Candidates
		res.Detail = fmt.Sprintf("equally plausible: %s", strings.Join(match.Candidates, "; "))
	default:
		res.Status = StatusNoIF
	}
	return res
}

// Run processes paths in order. The progress callback, if non-nil, is
// invoked after each file with its 1-based position and result.
func (p *Processor) Run(paths []string, progress func(i, n int, r Result)) ([]Result, Summary) {
	results := make([]Result, 0, len(paths))
	var summary Summary

	for i, path := range paths {
		res := p.ProcessFile(path)
		results = append(results, res)
		summary.add(res)
		if progress != nil {
			progress(i+1, len(paths), res)
		}
	}
	return results, summary
}

func (p *Processor) maxPages() int {
	if p.MaxPages > 0 {
		return p.MaxPages
	}
	return pdfmeta.DefaultMaxPages
}

// FindPDFs expands the given paths (files or directories) into a
// sorted, deduplicated list of PDF files. A missing or unreadable root
// is a fatal setup error.
func FindPDFs(roots []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input path: %w", err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if !recursive && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".pdf") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
