package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	mu      sync.Mutex
	name    string
	queries []string
	maxes   []int
	respond func(query string, max int) ([]SearchResult, error)
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Search(_ context.Context, query string, max int) ([]SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.maxes = append(s.maxes, max)
	s.mu.Unlock()
	return s.respond(query, max)
}

func hit(title, snippet, url string) SearchResult {
	return SearchResult{Title: title, Snippet: snippet, URL: url, Source: "stub"}
}

func TestWebSearch_SplitsBudgetAndFilters(t *testing.T) {
	a := &stubSearcher{name: "a", respond: func(q string, max int) ([]SearchResult, error) {
		return []SearchResult{
			hit("Acme Corp overview", "Acme Corp is a logistics software vendor.", "https://a/1"),
			hit("Acme", "Title too short to be useful here.", "https://a/2"),
			hit("Acme Corp careers", "short", "https://a/3"),
		}, nil
	}}
	b := &stubSearcher{name: "b", respond: func(string, int) ([]SearchResult, error) {
		return nil, errors.New("blocked")
	}}

	r := New(Options{Searchers: []Searcher{a, b}})
	results := r.WebSearch(context.Background(), "acme", 4)

	require.Len(t, results, 1)
	assert.Equal(t, "https://a/1", results[0].URL)
	assert.Equal(t, []int{2}, a.maxes)
	assert.Equal(t, []int{2}, b.maxes)
}

func TestWebSearch_CapsAtTwiceMax(t *testing.T) {
	s := &stubSearcher{name: "s", respond: func(string, int) ([]SearchResult, error) {
		var out []SearchResult
		for i := 0; i < 20; i++ {
			out = append(out, hit(fmt.Sprintf("Result number %d", i), "A snippet that is long enough to keep.", fmt.Sprintf("https://x/%d", i)))
		}
		return out, nil
	}}
	r := New(Options{Searchers: []Searcher{s}})
	assert.Len(t, r.WebSearch(context.Background(), "q", 4), 8)
}

func TestSearchCompany_RunsTargetedQueries(t *testing.T) {
	s := &stubSearcher{name: "s", respond: func(q string, _ int) ([]SearchResult, error) {
		return []SearchResult{
			hit("Result for "+q, "Snippet about "+q+" with enough text to pass.", "https://x/"+q),
		}, nil
	}}
	r := New(Options{Searchers: []Searcher{s}})

	results := r.SearchCompany(context.Background(), "Acme", 100)
	assert.Len(t, results, 15)
	assert.Equal(t, CompanyQueries("Acme"), s.queries)
	assert.Equal(t, `"Acme" company overview business`, s.queries[0])
}

func TestSearchCompany_CapsResults(t *testing.T) {
	s := &stubSearcher{name: "s", respond: func(q string, _ int) ([]SearchResult, error) {
		return []SearchResult{
			hit("Result for "+q, "Snippet about "+q+" with enough text to pass.", "https://x/"+q),
		}, nil
	}}
	r := New(Options{Searchers: []Searcher{s}})

	assert.Len(t, r.SearchCompany(context.Background(), "Acme", 5), 5)
}

func TestSearchCompany_EarlyExit(t *testing.T) {
	n := 0
	s := &stubSearcher{name: "s", respond: func(q string, _ int) ([]SearchResult, error) {
		var out []SearchResult
		for i := 0; i < 8; i++ {
			n++
			out = append(out, hit(fmt.Sprintf("Result %d", n), fmt.Sprintf("Distinct snippet number %d for the query.", n), fmt.Sprintf("https://x/%d", n)))
		}
		return out, nil
	}}
	// Four results per query are requested; the stub returns eight, capped
	// by WebSearch at 2*4 = 8. After eight queries there are 64 raw results.
	r := New(Options{Searchers: []Searcher{s}})
	r.SearchCompany(context.Background(), "Acme", 15)
	assert.Len(t, s.queries, 8)
}

func TestSearchCompany_FallbackQueries(t *testing.T) {
	s := &stubSearcher{name: "s", respond: func(q string, _ int) ([]SearchResult, error) {
		if strings.HasPrefix(q, "Acme") && !strings.Contains(q, "\"") && len(strings.Fields(q)) <= 2 {
			return []SearchResult{hit("Fallback "+q, "Fallback snippet long enough for "+q+".", "https://f/"+q)}, nil
		}
		return nil, nil
	}}
	r := New(Options{Searchers: []Searcher{s}})

	results := r.SearchCompany(context.Background(), "Acme", 15)
	require.Len(t, results, 3)
	assert.Equal(t, FallbackQueries("Acme"), s.queries[len(s.queries)-3:])
}

func TestSearchCompany_StopsOnCancel(t *testing.T) {
	s := &stubSearcher{name: "s", respond: func(string, int) ([]SearchResult, error) { return nil, nil }}
	r := New(Options{Searchers: []Searcher{s}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, r.SearchCompany(ctx, "Acme", 15))
	assert.Empty(t, s.queries)
}

func TestDedupe(t *testing.T) {
	results := []SearchResult{
		hit("One", "Acme Corp builds logistics software for carriers.", "https://acme.example/a?utm=1"),
		hit("Same URL other snippet", "A different snippet about Acme Corp and its hiring plans.", "https://ACME.example/a?utm=2"),
		hit("Same snippet new URL", "Acme Corp builds logistics software for carriers.", "https://other.example"),
		hit("Duplicate of both", "Acme Corp builds logistics software for carriers.", "https://acme.example/a"),
		hit("Too short", "tiny snippet", "https://short.example"),
		hit("No URL", "Snippets without a URL are kept when long enough.", ""),
		hit("No URL again", "Snippets without a URL are kept when long enough.", ""),
	}

	unique := Dedupe(results)
	var titles []string
	for _, r := range unique {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"One", "Same URL other snippet", "Same snippet new URL", "No URL", "No URL again"}, titles)
}

func TestAnalyze(t *testing.T) {
	results := []SearchResult{
		hit("Acme announces new routing platform", "Acme is a SaaS company and a Fortune 500 supplier. Acme competes with Globex, Initech.", ""),
		hit("Acme hiring engineers", "The company reported $12 million revenue and now has 1,200 employees amid a talent shortage.", ""),
		hit("Acme profile", "Analysts cite a skills gap in the region.", ""),
		hit("Acme reports earnings", "Quarterly results.", ""),
		hit("More news on Acme", "Growth continues.", ""),
	}

	in := Analyze("Acme", results)
	assert.Equal(t, "Acme", in.CompanyName)
	assert.Equal(t, "Technology", in.Industry)
	assert.Equal(t, "Large Enterprise (1000+ employees)", in.CompanySize)
	assert.Equal(t, []string{"Acme announces new routing platform", "Acme hiring engineers", "Acme reports earnings"}, in.RecentNews)
	assert.Equal(t, []string{"Talent Shortage", "Skills Gap"}, in.Challenges)
	assert.Equal(t, []string{"Globex", "Initech"}, in.Competitors)
	assert.Equal(t, []string{"$12 million revenue", "1,200 employees"}, in.KeyFacts)
}

func TestIndustry_Order(t *testing.T) {
	assert.Equal(t, "Healthcare", Industry("a medical devices maker"))
	assert.Equal(t, "Finance", Industry("commercial banking group"))
	assert.Equal(t, "Not determined", Industry("xyz"))
}

func TestCompanySize(t *testing.T) {
	assert.Equal(t, "Mid-size Company (100-1000 employees)", CompanySize("a mid-size firm"))
	assert.Equal(t, "Small to Medium Business (10-100 employees)", CompanySize("a startup"))
	assert.Equal(t, "Size not determined", CompanySize("unknown"))
}

func TestAnalyze_EmptyResults(t *testing.T) {
	in := Analyze("Zeta", nil)
	assert.Equal(t, "Not determined", in.Industry)
	assert.Empty(t, in.RecentNews)
	assert.NotNil(t, in.Competitors)
}

const websitePage = `<html>
<head>
  <title> Acme Corp | Freight Software </title>
  <meta name="description" content="Acme Corp builds routing software for carriers.">
  <script>var tracking = true;</script>
</head>
<body>
  <header>Site header with about link</header>
  <nav><a class="about-link">About</a></nav>
  <p>Short para.</p>
  <p>Acme Corp helps regional carriers plan routes, balance loads and cut empty miles across North America.</p>
  <div class="services-grid">Our services include route optimization, load planning, fleet telematics and driver scheduling for carriers of every size across the continent.</div>
  <section id="careers-section">Careers at Acme: we are hiring backend engineers, data scientists and customer success managers to support our growing customer base.</section>
  <footer>Footer about us</footer>
</body>
</html>`

func TestScrapeWebsite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(websitePage))
	}))
	defer server.Close()

	r := New(Options{})
	data := r.ScrapeWebsite(context.Background(), server.URL)

	assert.True(t, data.Analyzed())
	assert.Equal(t, "Acme Corp | Freight Software", data.Title)
	assert.Equal(t, "Acme Corp builds routing software for carriers.", data.MetaDescription)
	assert.True(t, strings.HasPrefix(data.MainContent, "Acme Corp helps regional carriers"))
	assert.NotContains(t, data.MainContent, "Short para")
	assert.Contains(t, data.ServicesContent, "route optimization")
	assert.Contains(t, data.CareersContent, "backend engineers")
	assert.Empty(t, data.AboutContent)
}

func TestScrapeWebsite_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	data := New(Options{}).ScrapeWebsite(context.Background(), server.URL)
	assert.False(t, data.Analyzed())
	assert.Contains(t, data.Error, "could not access website")
}

func TestScrapeWebsite_NoURL(t *testing.T) {
	data := New(Options{}).ScrapeWebsite(context.Background(), "  ")
	assert.Equal(t, WebsiteData{}, data)
	assert.False(t, data.Analyzed())
}
