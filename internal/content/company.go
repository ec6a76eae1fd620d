package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// companyScanLines is how many leading lines are searched for a name.
// Blank lines count toward the limit.
const companyScanLines = 8

// NameStrategy is one way of pulling a company name out of a line.
// Accepts decides whether the strategy owns the line at all; when it does,
// no later strategy is consulted for that line, even if Extract finds nothing.
type NameStrategy struct {
	Name    string
	Accepts func(line string) bool
	Extract func(line string) (string, bool)
}

var (
	partnerPhraseRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z\s&.,-]+?)\s+should partner`)
	capitalizedRe   = regexp.MustCompile(`\b([A-Z][a-zA-Z]{2,}(?:\s+[A-Z][a-zA-Z]*)*)`)
	trailingVerbRe  = regexp.MustCompile(`(?i)\s+(should|needs|faces|is)\s+.*`)

	boilerplatePrefixes = []string{"Top 5", "Here are", "The following"}
)

// NameStrategies lists the company-name heuristics in priority order.
var NameStrategies = []NameStrategy{
	{
		Name: "partnership-phrase",
		Accepts: func(line string) bool {
			lower := strings.ToLower(line)
			return strings.Contains(lower, "should partner") || strings.Contains(lower, "partner with")
		},
		Extract: func(line string) (string, bool) {
			m := partnerPhraseRe.FindStringSubmatch(line)
			if m == nil {
				return "", false
			}
			return strings.TrimSpace(m[1]), true
		},
	},
	{
		Name: "capitalized-run",
		Accepts: func(line string) bool {
			n := utf8.RuneCountInString(line)
			return n >= 15 && n < 120
		},
		Extract: func(line string) (string, bool) {
			m := capitalizedRe.FindStringSubmatch(line)
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	},
}

func extractCompanyName(lines []string) string {
	name := DefaultCompanyName
	limit := min(len(lines), companyScanLines)

scan:
	for _, line := range lines[:limit] {
		if line == "" || isBoilerplate(line) {
			continue
		}
		for _, s := range NameStrategies {
			if !s.Accepts(line) {
				continue
			}
			if found, ok := s.Extract(line); ok {
				name = found
				break scan
			}
			break
		}
	}

	name = strings.TrimSpace(trailingVerbRe.ReplaceAllString(name, ""))
	if name == "" {
		return DefaultCompanyName
	}
	return name
}

func isBoilerplate(line string) bool {
	for _, p := range boilerplatePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return numberedRe.MatchString(line)
}
