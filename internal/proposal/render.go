package proposal

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"
)

// Renderer turns assembled documents into .docx files using a fixed theme.
type Renderer struct {
	theme Theme
}

// NewRenderer returns a renderer bound to theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render builds the go-docx representation of doc.
func (r *Renderer) Render(doc *Document) *docx.Docx {
	f := docx.New().WithDefaultTheme()

	for _, b := range doc.Blocks {
		style := r.theme.Style(b.Role)
		if b.Align != "" {
			style.Align = b.Align
		}
		p := f.AddParagraph()
		applyParagraph(p, style)
		run := p.AddText(b.Text)
		applyRun(run, style)
	}

	pg := r.theme.Page
	f.Document.Body.Items = append(f.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{
			W: twips(pg.WidthIn),
			H: twips(pg.HeightIn),
		},
		PgMar: &docx.PgMar{
			Top:    twips(pg.MarginTopIn),
			Bottom: twips(pg.MarginBottomIn),
			Left:   twips(pg.MarginLeftIn),
			Right:  twips(pg.MarginRightIn),
			Header: twips(0.5),
			Footer: twips(0.5),
		},
	})
	return f
}

// Write renders doc and writes the .docx bytes to w.
func (r *Renderer) Write(w io.Writer, doc *Document) error {
	if _, err := r.Render(doc).WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func applyParagraph(p *docx.Paragraph, s RoleStyle) {
	if s.Align != "" {
		p.Justification(string(s.Align))
	}
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	if s.SpaceBeforePt > 0 || s.LineSpacing > 0 {
		sp := &docx.Spacing{Before: pointTwips(s.SpaceBeforePt)}
		if s.LineSpacing > 0 {
			sp.Line = lineTwips(s.LineSpacing)
			sp.LineRule = "auto"
		}
		p.Properties.Spacing = sp
	}
	if s.IndentLeftIn > 0 {
		p.Properties.Ind = &docx.Ind{Left: twips(s.IndentLeftIn)}
	}
}

func applyRun(run *docx.Run, s RoleStyle) {
	if s.Font != "" {
		run.Font(s.Font, s.Font, s.Font, "")
	}
	if s.SizePt > 0 {
		run.Size(halfPoints(s.SizePt))
	}
	if s.Color != "" {
		run.Color(s.Color)
	}
	if s.Bold {
		run.Bold()
	}
	if s.Italic {
		run.Italic()
	}
	// Runs of spaces in the header must survive Word's whitespace folding.
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}
