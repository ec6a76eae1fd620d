// Package proposal assembles parsed proposal content into a one-page Word
// document.
package proposal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/talentcraft/proposalgen/internal/content"
)

const (
	// DefaultJobRoles fills the subtitle when no roles are given.
	DefaultJobRoles = "Account Director of Sales"

	// canonicalTitlePhrase keeps the title on one line whenever present.
	canonicalTitlePhrase = "Should Partner with TalentCraft"

	titleSplitThreshold = 50
	dividerWidth        = 80
	headerGap           = 40
)

const (
	headerText = "[Company Logo]"
	brandName  = "TalentCraft"
	markerText = "TalentCraft Partnership Proposal"
)

var (
	introPrefixes = []string{
		"Research-backed proposal for",
		"Introduction:",
		"Executive Summary:",
		"Overview:",
	}
	whyItMattersRe = regexp.MustCompile(`(?i)\s*Why it matters:\s*`)
)

// Block is one paragraph of the assembled document.
type Block struct {
	Role Role
	Text string
	// Align overrides the role alignment when set.
	Align Alignment
}

// Document is the logical layout of a proposal before rendering.
type Document struct {
	CompanyName string
	JobRoles    string
	Title       string
	Blocks      []Block
}

// Assemble lays out parsed content. A non-empty companyOverride replaces the
// parsed company name. It never fails.
func Assemble(parsed content.ParsedContent, jobRoles, companyOverride string) *Document {
	company := parsed.CompanyName
	if companyOverride != "" {
		company = companyOverride
	}
	if company == "" {
		company = content.DefaultCompanyName
	}
	roles := strings.TrimSpace(jobRoles)
	if roles == "" {
		roles = DefaultJobRoles
	}

	title := fmt.Sprintf("Top 5 Reasons %s Should Partner with TalentCraft", company)
	doc := &Document{
		CompanyName: company,
		JobRoles:    roles,
		Title:       title,
	}

	doc.add(RoleHeader, headerText+strings.Repeat(" ", headerGap)+brandName)
	doc.Blocks = append(doc.Blocks, Block{Role: RoleHeader, Text: markerText, Align: AlignRight})

	for _, line := range SplitTitle(title) {
		doc.add(RoleTitle, line)
	}
	doc.add(RoleSubtitle, "Flexible Tech + Leadership Talent for "+roles)
	doc.add(RoleDivider, strings.Repeat("_", dividerWidth))

	intro := CleanIntro(parsed.IntroParagraph)
	if intro == "" {
		intro = fmt.Sprintf("Research-Backed Proposal for %s: TalentCraft Partnership", company)
	}
	doc.add(RoleIntro, intro)

	for i, r := range parsed.Reasons {
		if i >= content.MaxReasons {
			break
		}
		doc.add(RoleReasonHeading, fmt.Sprintf("%d. %s", r.Number, r.Title))
		if body := CleanReasonBody(r.Content); body != "" {
			doc.add(RoleReasonBody, body)
		}
	}

	return doc
}

func (d *Document) add(role Role, text string) {
	d.Blocks = append(d.Blocks, Block{Role: role, Text: text})
}

// BlocksFor returns the blocks with the given role in order.
func (d *Document) BlocksFor(role Role) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Role == role {
			out = append(out, b)
		}
	}
	return out
}

// Text renders the document as plain lines, one per block.
func (d *Document) Text() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		lines = append(lines, b.Text)
	}
	return strings.Join(lines, "\n")
}

// SplitTitle breaks a title into display lines.
//
// A title containing the canonical partnership phrase always stays on one
// line, even when it is longer than the split threshold. Only other titles
// longer than the threshold are split, before the word "Should" when present
// and at the middle word otherwise.
func SplitTitle(title string) []string {
	if strings.Contains(title, canonicalTitlePhrase) {
		return []string{title}
	}
	if utf8.RuneCountInString(title) <= titleSplitThreshold {
		return []string{title}
	}

	words := strings.Fields(title)
	cut := len(words) / 2
	for i, w := range words {
		if w == "Should" {
			cut = i
			break
		}
	}
	return []string{
		strings.Join(words[:cut], " "),
		strings.Join(words[cut:], " "),
	}
}

// CleanIntro strips boilerplate lead-ins and ensures terminal punctuation.
func CleanIntro(intro string) string {
	intro = strings.TrimSpace(intro)
	for _, prefix := range introPrefixes {
		if len(intro) >= len(prefix) && strings.EqualFold(intro[:len(prefix)], prefix) {
			intro = strings.TrimSpace(intro[len(prefix):])
			intro = strings.TrimSpace(strings.TrimLeft(intro, ":"))
		}
	}
	return content.EnsureTerminalPunctuation(intro)
}

// CleanReasonBody drops "Why it matters:" labels, collapses whitespace and
// ensures terminal punctuation.
func CleanReasonBody(body string) string {
	body = whyItMattersRe.ReplaceAllString(strings.TrimSpace(body), " ")
	return content.EnsureTerminalPunctuation(content.CollapseWhitespace(body))
}
