package research

import (
	"regexp"
	"strings"
)

const (
	maxRecentNews  = 3
	maxCompetitors = 5
	maxKeyFacts    = 5
)

type industryKeywords struct {
	name     string
	keywords []string
}

// industries are checked in order; the first with a matching keyword wins.
var industries = []industryKeywords{
	{"Technology", []string{"tech", "software", "saas", "artificial intelligence", "ai", "machine learning", "data science"}},
	{"Healthcare", []string{"healthcare", "medical", "pharmaceutical", "biotech", "health"}},
	{"Finance", []string{"financial", "banking", "fintech", "investment", "insurance"}},
	{"Retail", []string{"retail", "e-commerce", "consumer", "shopping"}},
	{"Manufacturing", []string{"manufacturing", "industrial", "automotive", "aerospace"}},
	{"Consulting", []string{"consulting", "advisory", "professional services"}},
	{"Media", []string{"media", "advertising", "marketing", "entertainment"}},
}

var (
	largeCompanyTerms = []string{"fortune 500", "large corporation", "multinational", "global company"}
	midCompanyTerms   = []string{"mid-size", "medium", "100-1000 employees"}
	smallCompanyTerms = []string{"startup", "small business", "growing company"}
	newsTitleTerms    = []string{"news", "announces", "launches", "reports", "hiring"}
	challengeKeywords = []string{
		"hiring difficulties", "talent shortage", "recruitment challenges",
		"skills gap", "competitive market", "growth challenges",
		"scaling issues", "workforce expansion",
	}
)

var competitorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)competes with ([A-Za-z\s,]+)`),
	regexp.MustCompile(`(?i)competitors include ([A-Za-z\s,]+)`),
	regexp.MustCompile(`(?i)rivals ([A-Za-z\s,]+)`),
}

var factPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,.]+ (?:million|billion) (?:revenue|sales)`),
	regexp.MustCompile(`(?i)\$[\d,.]+ (?:million|billion) (?:funding|investment)`),
	regexp.MustCompile(`(?i)[\d,]+ employees`),
}

// Analyze distills industry, size, news, challenges, competitors and key
// facts from search results with keyword heuristics.
func Analyze(companyName string, results []SearchResult) Insights {
	var sb strings.Builder
	sb.WriteString("Company: " + companyName + "\n\n")
	for _, r := range results {
		sb.WriteString("Title: " + r.Title + "\n")
		sb.WriteString("Content: " + r.Snippet + "\n\n")
	}
	text := sb.String()

	return Insights{
		CompanyName: companyName,
		Industry:    Industry(text),
		CompanySize: CompanySize(text),
		RecentNews:  RecentNews(results),
		Challenges:  Challenges(text),
		Competitors: Competitors(text),
		KeyFacts:    KeyFacts(text),
	}
}

// Industry returns the first industry whose keywords appear in text.
func Industry(text string) string {
	lower := strings.ToLower(text)
	for _, ind := range industries {
		if containsAny(lower, ind.keywords) {
			return ind.name
		}
	}
	return "Not determined"
}

func CompanySize(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, largeCompanyTerms):
		return "Large Enterprise (1000+ employees)"
	case containsAny(lower, midCompanyTerms):
		return "Mid-size Company (100-1000 employees)"
	case containsAny(lower, smallCompanyTerms):
		return "Small to Medium Business (10-100 employees)"
	default:
		return "Size not determined"
	}
}

// RecentNews returns up to three result titles that read like news.
func RecentNews(results []SearchResult) []string {
	news := []string{}
	for _, r := range results {
		if containsAny(strings.ToLower(r.Title), newsTitleTerms) {
			news = append(news, r.Title)
			if len(news) == maxRecentNews {
				break
			}
		}
	}
	return news
}

// Challenges returns the known hiring challenge phrases found in text, in
// title case.
func Challenges(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, c := range challengeKeywords {
		if strings.Contains(lower, c) {
			found = append(found, titleCase(c))
		}
	}
	return found
}

func Competitors(text string) []string {
	competitors := []string{}
	for _, re := range competitorPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, name := range strings.Split(m[1], ",") {
				if name = strings.TrimSpace(name); name != "" {
					competitors = append(competitors, name)
				}
			}
		}
	}
	if len(competitors) > maxCompetitors {
		competitors = competitors[:maxCompetitors]
	}
	return competitors
}

// KeyFacts returns revenue, funding and headcount mentions, in that order.
func KeyFacts(text string) []string {
	facts := []string{}
	for _, re := range factPatterns {
		facts = append(facts, re.FindAllString(text, -1)...)
	}
	if len(facts) > maxKeyFacts {
		facts = facts[:maxKeyFacts]
	}
	return facts
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
