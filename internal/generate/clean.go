package generate

import (
	"regexp"
	"strings"
)

var (
	headerMarker    = regexp.MustCompile(`(?m)^#+\s*(.+)$`)
	numberedListGap = regexp.MustCompile(`(?m)^(\d+\.\s+)\s+`)
	excessIndent    = regexp.MustCompile(`(?m)^[ \t]{3,}`)
)

// CleanMarkdown removes the markdown the model emits despite being asked
// not to: emphasis asterisks, header hashes, doubled spacing after list
// numbers and deep indentation. The text of emphasized spans is kept.
func CleanMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = headerMarker.ReplaceAllString(text, "$1")
	text = numberedListGap.ReplaceAllString(text, "$1")
	text = excessIndent.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
