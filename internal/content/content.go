// Package content turns free-form proposal prose into structured fields.
//
// Parsing is heuristic and total: any input string yields a ParsedContent,
// with defaults standing in for whatever could not be found.
package content

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultCompanyName is used when no company name can be extracted.
const DefaultCompanyName = "Company"

// MaxReasons caps the number of reasons kept from the source text.
const MaxReasons = 5

// ParsedContent is the structured view of one generated proposal.
type ParsedContent struct {
	CompanyName    string   `json:"company_name"`
	IntroParagraph string   `json:"intro_paragraph"`
	Reasons        []Reason `json:"reasons"`
}

// Reason is one numbered argument. Number is taken verbatim from the text.
type Reason struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Parse extracts the company name, introduction, and up to MaxReasons
// reasons from raw text. It never fails.
func Parse(raw string) ParsedContent {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	reasons := extractReasons(lines)
	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}

	return ParsedContent{
		CompanyName:    extractCompanyName(lines),
		IntroParagraph: extractIntro(lines),
		Reasons:        reasons,
	}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberedRe   = regexp.MustCompile(`^\d+\.`)
)

// CollapseWhitespace replaces every whitespace run with a single space and
// trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// EnsureTerminalPunctuation appends a period unless s is empty or already
// ends in '.', '!' or '?'.
func EnsureTerminalPunctuation(s string) string {
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

// isUpper reports whether s has at least one cased letter and no lower-case
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
