package iftable

import (
	"testing"
)

func testTable(entries ...Entry) *Table {
	t := &Table{byNorm: make(map[string]int)}
	for _, e := range entries {
		t.entries = append(t.entries, e)
		norm := normalizeName(e.Journal)
		if _, ok := t.byNorm[norm]; !ok {
			t.byNorm[norm] = len(t.entries) - 1
		}
	}
	return t
}

func TestLookup_Exact(t *testing.T) {
	table := testTable(
		Entry{Journal: "Journal of Applied Physics", ImpactFactor: 3.2},
		Entry{Journal: "Nature", ImpactFactor: 64.8},
	)

	m := table.Lookup("Journal of Applied Physics", 85)
	if m.Status != MatchExact {
		t.Fatalf("expected exact match, got %s", m.Status)
	}
	if m.Entry.ImpactFactor != 3.2 {
		t.Errorf("expected IF 3.2, got %v", m.Entry.ImpactFactor)
	}
	if m.Score != 100 {
		t.Errorf("expected score 100, got %d", m.Score)
	}
}

func TestLookup_ExactIsCaseAndWhitespaceInsensitive(t *testing.T) {
	table := testTable(Entry{Journal: "Physical Review Letters", ImpactFactor: 8.6})

	for _, query := range []string{
		"physical review letters",
		"  Physical   Review  Letters ",
		"PHYSICAL REVIEW LETTERS",
	} {
		m := table.Lookup(query, 85)
		if m.Status != MatchExact {
			t.Errorf("query %q: expected exact match, got %s", query, m.Status)
		}
	}
}

func TestLookup_Fuzzy(t *testing.T) {
	table := testTable(
		Entry{Journal: "Journal of Theoretical Biology", ImpactFactor: 2.1},
		Entry{Journal: "Cell", ImpactFactor: 45.5},
	)

	// One dropped word; no other entry comes close.
	m := table.Lookup("Journal of Theoretical Biolog", 85)
	if m.Status != MatchFuzzy {
		t.Fatalf("expected fuzzy match, got %s", m.Status)
	}
	if m.Entry.Journal != "Journal of Theoretical Biology" {
		t.Errorf("expected Journal of Theoretical Biology, got %s", m.Entry.Journal)
	}
	if m.Score < 85 {
		t.Errorf("expected score >= 85, got %d", m.Score)
	}
}

func TestLookup_Ambiguous(t *testing.T) {
	table := testTable(
		Entry{Journal: "Nature Communications", ImpactFactor: 16.6},
		Entry{Journal: "Nature Communications Biology", ImpactFactor: 5.9},
	)

	m := table.Lookup("Nature Comm", 85)
	if m.Status != MatchAmbiguous {
		t.Fatalf("expected ambiguous, got %s", m.Status)
	}
	if len(m.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(m.Candidates), m.Candidates)
	}
	if m.Entry != nil {
		t.Error("ambiguous match must not pick an entry")
	}
}

func TestLookup_NotFound(t *testing.T) {
	table := testTable(Entry{Journal: "Nature", ImpactFactor: 64.8})

	m := table.Lookup("Quarterly Bulletin of Unrelated Studies", 85)
	if m.Status != MatchNotFound {
		t.Errorf("expected not_found, got %s", m.Status)
	}
}

func TestLookup_EmptyTable(t *testing.T) {
	table := testTable()

	m := table.Lookup("Nature", 85)
	if m.Status != MatchNotFound {
		t.Errorf("expected not_found on empty table, got %s", m.Status)
	}
}

func TestLookup_EmptyName(t *testing.T) {
	table := testTable(Entry{Journal: "Nature", ImpactFactor: 64.8})

	m := table.Lookup("   ", 85)
	if m.Status != MatchNotFound {
		t.Errorf("expected not_found for blank name, got %s", m.Status)
	}
}

func TestLookup_ThresholdBlocksWeakMatches(t *testing.T) {
	table := testTable(Entry{Journal: "Nature Communications", ImpactFactor: 16.6})

	// "Nat" is contained but scores well below any sane threshold.
	m := table.Lookup("Nat", 85)
	if m.Status != MatchNotFound {
		t.Errorf("expected not_found below threshold, got %s", m.Status)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		min  int
		max  int
	}{
		{"nature", "nature", 100, 100},
		{"nature comm", "nature communications", 85, 92},
		{"nature comm", "nature communications biology", 80, 87},
		{"cell", "journal of applied physics", 0, 30},
	}

	for _, tt := range tests {
		got := similarity(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("similarity(%q, %q) = %d, want between %d and %d", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nature", "nature"},
		{"  Physical   Review  B ", "physical review b"},
		{"", ""},
		{"\t\n", ""},
	}

	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDuplicates(t *testing.T) {
	table := testTable(
		Entry{Journal: "Nature", ImpactFactor: 64.8},
		Entry{Journal: "NATURE", ImpactFactor: 50.5},
		Entry{Journal: "Cell", ImpactFactor: 45.5},
	)

	dupes := table.Duplicates()
	if len(dupes) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d", len(dupes))
	}
	if names, ok := dupes["nature"]; !ok || len(names) != 2 {
		t.Errorf("expected 2 entries under 'nature', got %v", dupes)
	}
}
