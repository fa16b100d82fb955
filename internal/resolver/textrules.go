package resolver

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// textScanWindow limits how much page text the body rules scan.
// Journal headers sit at the top of the first page.
const textScanWindow = 2000

// textPatterns match journal names in page text when the subjects
// field yields nothing. Ordered, first match wins.
var textPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"published-in", regexp.MustCompile(`Published in:?\s*([A-Z][A-Za-z\s&\-:]+?)(?:\n|,|Vol|\d{4})`)},
	{"vol-marker", regexp.MustCompile(`([A-Z][A-Za-z\s&\-:]+?)\s+Vol\.\s*\d+`)},
	{"journal-label", regexp.MustCompile(`Journal:\s*([A-Z][A-Za-z\s&\-:]+)`)},
	{"copyright-line", regexp.MustCompile(`©.*?(\b[A-Z][A-Za-z\s&\-:]+?)\s+\d{4}`)},
}

// ResolveText extracts a journal name candidate from page text.
// Used as a fallback when the subjects field resolves nothing.
func ResolveText(text string) (candidate, ruleName string, ok bool) {
	if text == "" {
		return "", "", false
	}
	if len(text) > textScanWindow {
		text = text[:textScanWindow]
	}

	for _, p := range textPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if plausibleName(name) {
				return name, p.name, true
			}
		}
	}
	return "", "", false
}

// FileRule is one entry in a yaml rule-set file. Pattern is a regular
// expression; Group selects the capture group holding the name
// (0 means the whole match).
type FileRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
}

// LoadRules reads an ordered rule set from a yaml file, replacing the
// built-in subject rules.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var fileRules []FileRule
	if err := yaml.Unmarshal(data, &fileRules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(fileRules) == 0 {
		return nil, fmt.Errorf("rule set %s contains no rules", path)
	}

	rs := &RuleSet{}
	for i, fr := range fileRules {
		if fr.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", i+1)
		}
		re, err := regexp.Compile(fr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: compiling pattern: %w", fr.Name, err)
		}
		if fr.Group < 0 || fr.Group > re.NumSubexp() {
			return nil, fmt.Errorf("rule %q: group %d out of range (pattern has %d groups)",
				fr.Name, fr.Group, re.NumSubexp())
		}

		group := fr.Group
		rs.rules = append(rs.rules, rule{
			name: fr.Name,
			apply: func(subject string) (string, bool) {
				m := re.FindStringSubmatch(subject)
				if m == nil {
					return "", false
				}
				name := strings.TrimSpace(m[group])
				if !plausibleName(name) {
					return "", false
				}
				return name, true
			},
		})
	}
	return rs, nil
}
