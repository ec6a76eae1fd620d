// Package excerpt cuts scraped pages and uploaded context down to a size
// that fits in a generation prompt.
package excerpt

import (
	"strings"
	"unicode/utf8"
)

// Config controls splitting.
type Config struct {
	MaxTokens int // Target size of each part in tokens.
	Overlap   int // Tokens repeated at the start of the next part.
}

// DefaultConfig returns the budget used for company context.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 1500,
		Overlap:   0,
	}
}

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := tokensForWords(len(strings.Fields(text)))
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

func tokensForWords(n int) int {
	return int(float64(n) * 1.33)
}

// Trim returns the leading paragraphs and sentences of text that fit in
// maxTokens. A single sentence larger than the budget is cut on a word
// boundary.
func Trim(text string, maxTokens int) string {
	text = strings.TrimSpace(text)
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		return text
	}
	parts := Split(text, Config{MaxTokens: maxTokens})
	if len(parts) == 0 {
		return ""
	}
	head := parts[0]
	if EstimateTokens(head) > maxTokens {
		head = firstWords(head, int(float64(maxTokens)/1.33))
	}
	return head
}

// Split breaks text into parts of roughly cfg.MaxTokens, preferring
// paragraph and then sentence boundaries.
func Split(text string, cfg Config) []string {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}

	var result []string
	var current strings.Builder
	currentWords := 0

	flush := func() {
		if currentWords > 0 {
			result = append(result, current.String())
		}
		current.Reset()
		currentWords = 0
	}

	for _, para := range paragraphs(text) {
		paraWords := len(strings.Fields(para))

		if tokensForWords(paraWords) > cfg.MaxTokens {
			flush()
			result = append(result, splitSentences(para, cfg)...)
			continue
		}

		if currentWords > 0 && tokensForWords(currentWords+paraWords) > cfg.MaxTokens {
			overlap := tailWords(current.String(), cfg.Overlap)
			flush()
			if overlap != "" {
				current.WriteString(overlap)
				currentWords = len(strings.Fields(overlap))
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentWords += paraWords
	}
	flush()

	return result
}

// Runes truncates s to at most n runes.
func Runes(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitSentences(text string, cfg Config) []string {
	var result []string
	var current strings.Builder
	currentWords := 0

	for _, sent := range sentences(text) {
		sentWords := len(strings.Fields(sent))

		if currentWords > 0 && tokensForWords(currentWords+sentWords) > cfg.MaxTokens {
			result = append(result, current.String())
			overlap := tailWords(current.String(), cfg.Overlap)
			current.Reset()
			currentWords = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentWords = len(strings.Fields(overlap))
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentWords += sentWords
	}
	if currentWords > 0 {
		result = append(result, current.String())
	}
	return result
}

// sentences splits after '.', '!' or '?' when followed by a space.
func sentences(text string) []string {
	var out []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func tailWords(text string, tokens int) string {
	words := strings.Fields(text)
	n := int(float64(tokens) / 1.33)
	if n <= 0 || len(words) <= n {
		return ""
	}
	return strings.Join(words[len(words)-n:], " ")
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if n <= 0 {
		return ""
	}
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}
