package research

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/talentcraft/proposalgen/internal/excerpt"
	"github.com/talentcraft/proposalgen/internal/fetch"
)

const (
	maxParagraphs      = 10
	minParagraphLength = 50
	maxMainContent     = 1500
	maxSectionContent  = 800
	minSectionContent  = 100
	maxSectionElements = 3
)

type websiteSection struct {
	target   func(*WebsiteData) *string
	keywords []string
}

var websiteSections = []websiteSection{
	{func(w *WebsiteData) *string { return &w.AboutContent }, []string{"about", "about-us", "company", "our-story", "who-we-are"}},
	{func(w *WebsiteData) *string { return &w.ServicesContent }, []string{"services", "products", "solutions", "what-we-do"}},
	{func(w *WebsiteData) *string { return &w.CareersContent }, []string{"careers", "jobs", "join-us", "work-with-us", "team"}},
	{func(w *WebsiteData) *string { return &w.NewsContent }, []string{"news", "blog", "press", "announcements", "updates"}},
}

// ScrapeWebsite reads the company's landing page. Failures are reported in
// WebsiteData.Error rather than returned.
func (r *Researcher) ScrapeWebsite(ctx context.Context, rawURL string) WebsiteData {
	target := fetch.NormalizeURL(rawURL)
	if target == "" {
		return WebsiteData{}
	}

	r.log.Info("analyzing website", "url", target)
	doc, err := fetch.Document(ctx, target, r.fetch)
	if err != nil {
		r.log.Warn("website scraping failed", "url", target, "error", err)
		return WebsiteData{URL: target, Error: "could not access website: " + err.Error()}
	}

	data := ExtractWebsite(doc)
	data.URL = target
	r.log.Info("website analysis complete", "url", target, "main_content_chars", len([]rune(data.MainContent)))
	return data
}

// ExtractWebsite pulls the title, meta description, leading paragraphs and
// keyword-located sections from a parsed page.
func ExtractWebsite(doc *goquery.Document) WebsiteData {
	fetch.StripNoise(doc)

	var data WebsiteData
	data.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		data.MetaDescription = strings.TrimSpace(desc)
	}

	var paras []string
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxParagraphs {
			return false
		}
		if text := fetch.CleanText(s.Text()); len([]rune(text)) > minParagraphLength {
			paras = append(paras, text)
		}
		return true
	})
	data.MainContent = excerpt.Runes(strings.Join(paras, " "), maxMainContent)

	for _, sec := range websiteSections {
		for _, kw := range sec.keywords {
			if content := sectionText(doc, kw); content != "" {
				*sec.target(&data) = content
				break
			}
		}
	}
	return data
}

// sectionText looks for elements whose class, then id, then own text
// mentions keyword, and returns their combined text when it is substantial.
func sectionText(doc *goquery.Document, keyword string) string {
	matches := doc.Find("div, section, a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && strings.Contains(strings.ToLower(class), keyword)
	})
	if matches.Length() == 0 {
		matches = doc.Find("div, section").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, ok := s.Attr("id")
			return ok && strings.Contains(strings.ToLower(id), keyword)
		})
	}
	if matches.Length() == 0 {
		matches = elementsWithText(doc, keyword)
	}
	if matches.Length() == 0 {
		return ""
	}

	var parts []string
	matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxSectionElements {
			return false
		}
		parts = append(parts, strings.TrimSpace(s.Text()))
		return true
	})
	content := fetch.CleanText(strings.Join(parts, " "))
	if len([]rune(content)) <= minSectionContent {
		return ""
	}
	return excerpt.Runes(content, maxSectionContent)
}

// elementsWithText returns the parents of text nodes containing keyword.
func elementsWithText(doc *goquery.Document, keyword string) *goquery.Selection {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))
	return doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		found := false
		s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if goquery.NodeName(c) == "#text" && re.MatchString(c.Text()) {
				found = true
				return false
			}
			return true
		})
		return found
	})
}
