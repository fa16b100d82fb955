// Package iftable loads the journal impact-factor reference table and
// answers name lookups against it.
package iftable

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Entry is one journal row from the reference table.
type Entry struct {
	Journal      string  `json:"journal"`
	ImpactFactor float64 `json:"impact_factor"`
	Edition      string  `json:"edition,omitempty"`
}

// Table is the in-memory reference table. Read-only after load.
type Table struct {
	entries []Entry
	byNorm  map[string]int // normalized name -> index of first entry

	// Source is the file the table was loaded from.
	Source string
	// SkippedRows counts rows dropped during load (missing name,
	// unparseable impact factor).
	SkippedRows int
}

// MatchStatus classifies a lookup outcome.
type MatchStatus string

const (
	MatchExact     MatchStatus = "exact"
	MatchFuzzy     MatchStatus = "fuzzy"
	MatchAmbiguous MatchStatus = "ambiguous"
	MatchNotFound  MatchStatus = "not_found"
)

// Match is the outcome of a table lookup.
type Match struct {
	Status MatchStatus `json:"status"`
	Entry  *Entry      `json:"entry,omitempty"`
	Score  int         `json:"score,omitempty"`
	// Candidates holds the contending journal names of an ambiguous match.
	Candidates []string `json:"candidates,omitempty"`
}

// ambiguityBand is how close (in score points) a runner-up must be to
// the best fuzzy score to make the lookup ambiguous. Near-ties are
// surfaced for manual disambiguation rather than resolved by rank.
const ambiguityBand = 5

// Lookup matches a journal name candidate against the table.
// Exact normalized match wins outright; otherwise the best fuzzy score
// at or above threshold wins unless runners-up land within the
// ambiguity band.
func (t *Table) Lookup(name string, threshold int) Match {
	norm := normalizeName(name)
	if norm == "" || len(t.entries) == 0 {
		return Match{Status: MatchNotFound}
	}

	if idx, ok := t.byNorm[norm]; ok {
		return Match{Status: MatchExact, Entry: &t.entries[idx], Score: 100}
	}

	type scored struct {
		idx   int
		score int
	}
	var best []scored
	bestScore := 0

	for i := range t.entries {
		score := similarity(norm, normalizeName(t.entries[i].Journal))
		if score > bestScore {
			bestScore = score
		}
		best = append(best, scored{i, score})
	}

	if bestScore < threshold {
		return Match{Status: MatchNotFound}
	}

	// Collect everything within the ambiguity band of the best score.
	var contenders []scored
	for _, s := range best {
		if s.score >= bestScore-ambiguityBand {
			contenders = append(contenders, s)
		}
	}
	sort.Slice(contenders, func(i, j int) bool {
		if contenders[i].score != contenders[j].score {
			return contenders[i].score > contenders[j].score
		}
		return t.entries[contenders[i].idx].Journal < t.entries[contenders[j].idx].Journal
	})

	if len(contenders) > 1 {
		names := make([]string, len(contenders))
		for i, c := range contenders {
			names[i] = t.entries[c.idx].Journal
		}
		return Match{Status: MatchAmbiguous, Score: bestScore, Candidates: names}
	}

	return Match{
		Status: MatchFuzzy,
		Entry:  &t.entries[contenders[0].idx],
		Score:  bestScore,
	}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the table rows in load order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Duplicates returns normalized names that appear more than once,
// mapped to the recorded journal names.
func (t *Table) Duplicates() map[string][]string {
	seen := make(map[string][]string)
	for _, e := range t.entries {
		norm := normalizeName(e.Journal)
		seen[norm] = append(seen[norm], e.Journal)
	}
	dupes := make(map[string][]string)
	for norm, names := range seen {
		if len(names) > 1 {
			dupes[norm] = names
		}
	}
	return dupes
}

// similarity scores two normalized names 0-100. Substring containment
// scores in a high band proportional to the length ratio, so partial
// names like "Nature Comm" land close for every journal that contains
// them. Everything else scores by Levenshtein distance.
func similarity(a, b string) int {
	if a == b {
		return 100
	}

	if strings.Contains(b, a) {
		return 75 + 25*len(a)/len(b)
	}
	if strings.Contains(a, b) {
		return 75 + 25*len(b)/len(a)
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 100 * (maxLen - dist) / maxLen
}

// normalizeName lowercases and collapses whitespace for matching.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
