package content

import (
	"strings"
	"unicode/utf8"
)

const (
	introMinLine  = 25
	introStartLen = 30
	introMaxLen   = 200
)

// extractIntro collects the first substantial prose lines that appear before
// the numbered list.
func extractIntro(lines []string) string {
	var collected []string
	collecting := false

	for _, line := range lines {
		if line == "" {
			continue
		}
		if numberedRe.MatchString(line) {
			break
		}
		if isBanner(line) {
			continue
		}
		if !collecting && utf8.RuneCountInString(line) > introStartLen {
			collecting = true
		}
		if !collecting {
			continue
		}
		collected = append(collected, line)
		if utf8.RuneCountInString(strings.Join(collected, " ")) > introMaxLen {
			break
		}
	}

	if len(collected) == 0 {
		return ""
	}
	return EnsureTerminalPunctuation(CollapseWhitespace(strings.Join(collected, " ")))
}

// isBanner reports lines that are headings or slogans rather than prose.
func isBanner(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "top 5") && strings.Contains(lower, "reasons"):
		return true
	case strings.Contains(lower, "talentcraft") && strings.Contains(lower, "should") && strings.Contains(lower, "partner"):
		return true
	case utf8.RuneCountInString(line) < introMinLine:
		return true
	case isUpper(line):
		return true
	case strings.HasSuffix(line, ":"):
		return true
	case strings.Contains(lower, "flexible tech"):
		return true
	}
	return false
}
