package content

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reasonLineRe = regexp.MustCompile(`^(\d+)\.\s*(.+)`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
)

// TitleStrategy derives a reason title from the raw reason text.
type TitleStrategy struct {
	Name    string
	Extract func(raw string) (string, bool)
}

// TitleStrategies lists the title heuristics in priority order. The last one
// always succeeds.
var TitleStrategies = []TitleStrategy{
	{Name: "upper-case-label", Extract: upperCaseLabel},
	{Name: "first-sentence", Extract: firstSentence},
	{Name: "colon-label", Extract: colonLabel},
	{Name: "leading-words", Extract: leadingWords},
}

// extractReasons walks the lines and groups numbered items with their
// continuation lines, in the order they appear.
func extractReasons(lines []string) []Reason {
	var (
		reasons []Reason
		open    bool
		number  int
		text    string
	)

	flush := func() {
		if open {
			reasons = append(reasons, buildReason(number, text))
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		if m := reasonLineRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				// Only overflow gets here; the line still opens a reason.
				n = math.MaxInt
			}
			flush()
			open, number, text = true, n, m[2]
			continue
		}
		if !open {
			continue
		}
		// A bare "N." with nothing after it is a marker, never body text.
		if numberedRe.MatchString(line) {
			continue
		}
		text += " " + line
	}
	flush()

	return reasons
}

func buildReason(number int, raw string) Reason {
	return Reason{
		Number:  number,
		Title:   ExtractTitle(raw),
		Content: ExtractReasonContent(raw),
	}
}

// ExtractTitle applies TitleStrategies in order and returns the first hit.
func ExtractTitle(raw string) string {
	for _, s := range TitleStrategies {
		if title, ok := s.Extract(raw); ok {
			return title
		}
	}
	return ""
}

// ExtractReasonContent returns the text after the first colon, or the whole
// text when there is none, with whitespace collapsed.
func ExtractReasonContent(raw string) string {
	if _, after, ok := strings.Cut(raw, ":"); ok {
		return CollapseWhitespace(after)
	}
	return CollapseWhitespace(raw)
}

// StripEmphasis removes markdown bold and italic markers.
func StripEmphasis(s string) string {
	s = boldRe.ReplaceAllString(s, "$1")
	return italicRe.ReplaceAllString(s, "$1")
}

func upperCaseLabel(raw string) (string, bool) {
	before, _, ok := strings.Cut(raw, ":")
	if !ok {
		return "", false
	}
	label := strings.TrimSpace(before)
	n := utf8.RuneCountInString(label)
	if n <= 10 || n >= 100 {
		return "", false
	}
	if isUpper(label) || countUpperWords(label) >= 2 {
		return label, true
	}
	return "", false
}

func firstSentence(raw string) (string, bool) {
	sentences := strings.Split(StripEmphasis(raw), ".")
	if len(sentences) < 2 {
		return "", false
	}
	first := strings.TrimSpace(sentences[0])
	if n := utf8.RuneCountInString(first); n > 10 && n <= 80 {
		return first, true
	}
	return "", false
}

func colonLabel(raw string) (string, bool) {
	before, _, ok := strings.Cut(StripEmphasis(raw), ":")
	if !ok {
		return "", false
	}
	label := strings.TrimSpace(before)
	if n := utf8.RuneCountInString(label); n > 10 && n <= 80 {
		return label, true
	}
	return "", false
}

func leadingWords(raw string) (string, bool) {
	words := strings.Fields(StripEmphasis(raw))
	if len(words) > 12 {
		words = words[:12]
	}
	title := strings.Join(words, " ")
	if utf8.RuneCountInString(title) > 80 {
		title = strings.Join(words[:min(len(words), 8)], " ")
	}
	return title, true
}

func countUpperWords(s string) int {
	n := 0
	for _, w := range strings.Fields(s) {
		if isUpper(w) {
			n++
		}
	}
	return n
}
