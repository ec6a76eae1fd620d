// Package research gathers public information about a prospect company
// from web search and the company's own website.
package research

// SearchResult is one hit from a search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Insights are the facts distilled from search results.
type Insights struct {
	CompanyName string   `json:"company_name"`
	Industry    string   `json:"industry"`
	CompanySize string   `json:"company_size"`
	RecentNews  []string `json:"recent_news"`
	Challenges  []string `json:"challenges"`
	Competitors []string `json:"competitors"`
	KeyFacts    []string `json:"key_facts"`
}

// FallbackInsights stands in when research could not run at all.
func FallbackInsights(companyName string) Insights {
	return Insights{
		CompanyName: companyName,
		Industry:    "Business Services",
		CompanySize: "Not determined",
		RecentNews:  []string{},
		Challenges:  []string{"Talent acquisition challenges"},
		Competitors: []string{},
		KeyFacts:    []string{},
	}
}

// WebsiteData holds text pulled from the company's website. Error is set
// when the site could not be read.
type WebsiteData struct {
	URL             string `json:"url,omitempty"`
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	MainContent     string `json:"main_content"`
	AboutContent    string `json:"about_content"`
	ServicesContent string `json:"services_content"`
	CareersContent  string `json:"careers_content"`
	NewsContent     string `json:"news_content"`
	Error           string `json:"error,omitempty"`
}

// Analyzed reports whether a website was requested and read successfully.
func (w WebsiteData) Analyzed() bool {
	return w.URL != "" && w.Error == ""
}
