package proposal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/talentcraft/proposalgen/internal/content"
)

func sampleContent(n int) content.ParsedContent {
	pc := content.ParsedContent{
		CompanyName:    "Acme Corp",
		IntroParagraph: "Acme Corp is growing fast and needs senior engineers.",
	}
	for i := 1; i <= n; i++ {
		pc.Reasons = append(pc.Reasons, content.Reason{
			Number:  i,
			Title:   "REASON TITLE",
			Content: "Body text",
		})
	}
	return pc
}

func TestAssemble_RendersAtMostFiveReasons(t *testing.T) {
	doc := Assemble(sampleContent(7), "Backend Engineers", "")

	headings := doc.BlocksFor(RoleReasonHeading)
	if len(headings) != 5 {
		t.Fatalf("expected 5 reason headings, got %d", len(headings))
	}
	for i, h := range headings {
		want := string(rune('1'+i)) + ". REASON TITLE"
		if h.Text != want {
			t.Errorf("heading[%d]: expected %q, got %q", i, want, h.Text)
		}
	}
}

func TestAssemble_NoReasons(t *testing.T) {
	doc := Assemble(sampleContent(0), "", "")

	if n := len(doc.BlocksFor(RoleReasonHeading)); n != 0 {
		t.Errorf("expected no reason headings, got %d", n)
	}
	if n := len(doc.BlocksFor(RoleReasonBody)); n != 0 {
		t.Errorf("expected no reason bodies, got %d", n)
	}
	intro := doc.BlocksFor(RoleIntro)
	if len(intro) != 1 || intro[0].Text != "Acme Corp is growing fast and needs senior engineers." {
		t.Errorf("unexpected intro blocks: %+v", intro)
	}
}

func TestAssemble_DefaultsAndOverride(t *testing.T) {
	pc := content.ParsedContent{CompanyName: "Company"}
	doc := Assemble(pc, "  ", "Globex")

	if doc.CompanyName != "Globex" {
		t.Errorf("expected override company, got %q", doc.CompanyName)
	}
	if doc.Title != "Top 5 Reasons Globex Should Partner with TalentCraft" {
		t.Errorf("unexpected title %q", doc.Title)
	}

	sub := doc.BlocksFor(RoleSubtitle)
	if len(sub) != 1 || sub[0].Text != "Flexible Tech + Leadership Talent for Account Director of Sales" {
		t.Errorf("unexpected subtitle: %+v", sub)
	}
	intro := doc.BlocksFor(RoleIntro)
	if len(intro) != 1 || intro[0].Text != "Research-Backed Proposal for Globex: TalentCraft Partnership" {
		t.Errorf("unexpected default intro: %+v", intro)
	}
}

func TestAssemble_LayoutOrder(t *testing.T) {
	doc := Assemble(sampleContent(1), "SREs", "")

	want := []Role{RoleHeader, RoleHeader, RoleTitle, RoleSubtitle, RoleDivider, RoleIntro, RoleReasonHeading, RoleReasonBody}
	if len(doc.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(doc.Blocks))
	}
	for i, r := range want {
		if doc.Blocks[i].Role != r {
			t.Errorf("block[%d]: expected role %s, got %s", i, r, doc.Blocks[i].Role)
		}
	}
	if !strings.HasPrefix(doc.Blocks[0].Text, "[Company Logo]"+strings.Repeat(" ", 40)) {
		t.Errorf("unexpected header %q", doc.Blocks[0].Text)
	}
	if doc.Blocks[1].Align != AlignRight {
		t.Errorf("expected right-aligned marker, got %q", doc.Blocks[1].Align)
	}
	if doc.Blocks[4].Text != strings.Repeat("_", 80) {
		t.Errorf("unexpected divider %q", doc.Blocks[4].Text)
	}
}

func TestAssemble_EmptyReasonContentRendersHeadingOnly(t *testing.T) {
	pc := sampleContent(1)
	pc.Reasons[0].Content = ""
	doc := Assemble(pc, "SREs", "")

	if n := len(doc.BlocksFor(RoleReasonHeading)); n != 1 {
		t.Errorf("expected 1 heading, got %d", n)
	}
	if n := len(doc.BlocksFor(RoleReasonBody)); n != 0 {
		t.Errorf("expected no body, got %d", n)
	}
}

func TestAssemble_FromParsedText(t *testing.T) {
	raw := "Acme Corp faces hiring challenges.\n\n" +
		"1. STRONG NETWORK: We know   engineers\n" +
		"2. FAST DELIVERY: Why it matters: Shortlists in days"

	doc := Assemble(content.Parse(raw), "Data Engineers", "")

	bodies := doc.BlocksFor(RoleReasonBody)
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[0].Text != "We know engineers." {
		t.Errorf("expected normalized body, got %q", bodies[0].Text)
	}
	if bodies[1].Text != "Shortlists in days." {
		t.Errorf("expected label removed, got %q", bodies[1].Text)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "canonical phrase stays on one line even when long",
			title: "Top 5 Reasons International Business Machines Corporation Should Partner with TalentCraft",
			want:  []string{"Top 5 Reasons International Business Machines Corporation Should Partner with TalentCraft"},
		},
		{
			name:  "short title",
			title: "Why Acme Wins",
			want:  []string{"Why Acme Wins"},
		},
		{
			name:  "long title splits before Should",
			title: "Top 5 Reasons Acme Corporation Should Consider Hiring With Our Network",
			want:  []string{"Top 5 Reasons Acme Corporation", "Should Consider Hiring With Our Network"},
		},
		{
			name:  "long title without Should splits at midpoint",
			title: "Five compelling reasons to expand engineering capacity this year",
			want:  []string{"Five compelling reasons to", "expand engineering capacity this year"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitTitle(tc.title)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d lines, got %d (%q)", len(tc.want), len(got), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("line[%d]: expected %q, got %q", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestCleanIntro(t *testing.T) {
	tests := map[string]string{
		"Introduction: Acme is hiring":                    "Acme is hiring.",
		"executive summary: Acme is hiring!":              "Acme is hiring!",
		"Research-backed proposal for: Acme needs talent": "Acme needs talent.",
		"Acme is hiring?":                                 "Acme is hiring?",
		"":                                                "",
	}
	for in, want := range tests {
		if got := CleanIntro(in); got != want {
			t.Errorf("CleanIntro(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestCleanReasonBody_IrregularWhitespace(t *testing.T) {
	got := CleanReasonBody("  lots    of\t talent\n here  ")
	if got != "lots of talent here." {
		t.Errorf("expected %q, got %q", "lots of talent here.", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":         "Acme_Corp",
		"Acme Corp, Inc.":   "Acme_Corp_Inc",
		"AT&T - West":       "ATT_West",
		"  padded  name  ":  "padded_name",
		"under_score stays": "under_score_stays",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got := Filename("Acme Corp", now)
	want := "TalentCraft_Proposal_Acme_Corp_20260304_050607.docx"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderer_WriteRoundTrip(t *testing.T) {
	r := NewRenderer(DefaultTheme())
	doc := Assemble(sampleContent(2), "SREs", "")

	var buf bytes.Buffer
	if err := r.Write(&buf, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("parse rendered docx: %v", err)
	}

	var paras []*docx.Paragraph
	var sect *docx.SectPr
	for _, item := range parsed.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			paras = append(paras, v)
		case *docx.SectPr:
			sect = v
		}
	}

	if len(paras) != len(doc.Blocks) {
		t.Fatalf("expected %d paragraphs, got %d", len(doc.Blocks), len(paras))
	}
	for i, b := range doc.Blocks {
		if got := paras[i].String(); got != b.Text {
			t.Errorf("paragraph[%d]: expected %q, got %q", i, b.Text, got)
		}
	}

	title := paras[2]
	if title.Properties == nil || title.Properties.Justification == nil || title.Properties.Justification.Val != "center" {
		t.Errorf("expected centered title")
	}
	marker := paras[1]
	if marker.Properties == nil || marker.Properties.Justification == nil || marker.Properties.Justification.Val != "end" {
		t.Errorf("expected right-aligned marker")
	}

	if sect == nil || sect.PgSz == nil || sect.PgMar == nil {
		t.Fatal("expected section properties with page size and margins")
	}
	if sect.PgSz.W != 12240 || sect.PgSz.H != 15840 {
		t.Errorf("expected letter page 12240x15840, got %dx%d", sect.PgSz.W, sect.PgSz.H)
	}
	if sect.PgMar.Top != 1080 || sect.PgMar.Bottom != 1080 {
		t.Errorf("expected 1080 top/bottom margins, got %d/%d", sect.PgMar.Top, sect.PgMar.Bottom)
	}
	if sect.PgMar.Left != 1224 || sect.PgMar.Right != 1224 {
		t.Errorf("expected 1224 left/right margins, got %d/%d", sect.PgMar.Left, sect.PgMar.Right)
	}
}

func TestRenderer_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := NewRenderer(DefaultTheme())
	doc := Assemble(sampleContent(1), "SREs", "Acme Corp, Inc.")

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	path, err := r.Save(doc, dir, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "TalentCraft_Proposal_Acme_Corp_Inc_20260102_030405.docx" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty file")
	}
}

func TestRenderer_SaveFailureIsDocumentWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r := NewRenderer(DefaultTheme())
	_, err := r.Save(Assemble(sampleContent(1), "", ""), blocker, time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	var werr *DocumentWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected DocumentWriteError, got %T", err)
	}
	if werr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}
