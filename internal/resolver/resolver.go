// Package resolver extracts journal name candidates from freeform
// PDF metadata. Publishers populate the subjects field inconsistently:
// sometimes "Journal Name, 12(3), doi:...", sometimes a bare name,
// sometimes an abstract. The resolver applies ordered rules and reports
// no match rather than guessing when nothing fires.
package resolver

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLen is the longest candidate accepted as a plausible journal
// name. Anything longer is almost certainly an abstract or other prose
// stored in the subjects field, which must surface as no match for
// manual review.
const maxNameLen = 120

// rule is a single ordered extraction rule. apply returns the candidate
// and whether the rule matched.
type rule struct {
	name  string
	apply func(string) (string, bool)
}

// RuleSet is an ordered set of extraction rules. Rules are tried in
// sequence and the first match wins.
type RuleSet struct {
	rules []rule
}

// Resolve extracts a journal name candidate from the subjects text.
// Returns the candidate, the name of the rule that fired, and whether
// any rule matched. Empty input short-circuits without applying rules.
func (rs *RuleSet) Resolve(subject string) (candidate, ruleName string, ok bool) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", "", false
	}

	for _, r := range rs.rules {
		if c, matched := r.apply(subject); matched {
			return c, r.name, true
		}
	}
	return "", "", false
}

// RuleNames returns the rule names in application order.
func (rs *RuleSet) RuleNames() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.name
	}
	return names
}

// Default returns the built-in subject rule set.
func Default() *RuleSet {
	return &RuleSet{rules: []rule{
		{name: "comma-prefix", apply: commaPrefix},
		{name: "doi-prefix", apply: doiPrefix},
		{name: "year-prefix", apply: yearPrefix},
		{name: "trailing-junk", apply: trailingJunk},
	}}
}

var (
	leadingSymbols = regexp.MustCompile(`^[^\p{L}\p{N}\s]+`)
	doiSplit       = regexp.MustCompile(`(?i)\s*doi:`)
	yearSuffix     = regexp.MustCompile(`^(.+?)\s+(?:19|20)\d{2}`)
	trailingNoise  = regexp.MustCompile(`\s*[\d,.:\-]+\s*$`)
)

// commaPrefix extracts the text before the first comma.
// Typical format: "Nature, 2023, doi:10.1038/xxx" -> "Nature".
func commaPrefix(subject string) (string, bool) {
	idx := strings.Index(subject, ",")
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(subject[:idx])
	name = strings.TrimSpace(leadingSymbols.ReplaceAllString(name, ""))
	if !plausibleName(name) {
		return "", false
	}
	return name, true
}

// doiPrefix extracts the text before a doi: marker.
// Typical format: "Nature doi:10.1038/xxx" -> "Nature".
func doiPrefix(subject string) (string, bool) {
	if !strings.Contains(strings.ToLower(subject), "doi:") {
		return "", false
	}
	parts := doiSplit.Split(subject, 2)
	name := strings.TrimSpace(parts[0])
	if !plausibleName(name) {
		return "", false
	}
	return name, true
}

// yearPrefix extracts the text before a four-digit year.
// Typical format: "Nature 2023" -> "Nature".
func yearPrefix(subject string) (string, bool) {
	m := yearSuffix.FindStringSubmatch(subject)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if !plausibleName(name) {
		return "", false
	}
	return name, true
}

// trailingJunk strips trailing digits and punctuation and accepts the
// remainder if it still looks like a name. Last resort for subjects
// that hold a bare journal name with volume/issue noise appended.
// Unlike the delimiter rules it has no structural anchor, so it also
// requires title casing to keep abstracts stored in the subjects field
// from being mistaken for journal names.
func trailingJunk(subject string) (string, bool) {
	name := strings.TrimSpace(trailingNoise.ReplaceAllString(subject, ""))
	if len(name) <= 3 || !plausibleName(name) || !titleCased(name) {
		return "", false
	}
	return name, true
}

// functionWords are lowercase words allowed inside a title-cased name.
var functionWords = map[string]bool{
	"of": true, "the": true, "and": true, "in": true, "on": true,
	"for": true, "de": true, "la": true, "der": true, "und": true,
	"et": true, "&": true, "a": true, "an": true,
}

// titleCased reports whether most significant words start uppercase,
// as journal names do and sentences do not.
func titleCased(s string) bool {
	var significant, capitalized int
	for _, w := range strings.Fields(s) {
		if functionWords[strings.ToLower(w)] {
			continue
		}
		significant++
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			capitalized++
		}
	}
	if significant == 0 {
		return false
	}
	return capitalized*2 > significant
}

// plausibleName reports whether s could be a journal name: non-empty,
// contains a letter, and short enough to not be prose.
func plausibleName(s string) bool {
	if s == "" || len([]rune(s)) > maxNameLen {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
