package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/talentcraft/proposalgen/internal/excerpt"
	"github.com/talentcraft/proposalgen/internal/fetch"
)

const (
	GoogleSearchURL     = "https://www.google.com/search"
	DuckDuckGoAPIURL    = "https://api.duckduckgo.com/"
	DuckDuckGoHTMLURL   = "https://duckduckgo.com/html/"
	maxTopicTitleLength = 100
)

// Searcher is a web search provider.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]SearchResult, error)
}

// googleSnippetSelectors are tried in order inside each result container.
var googleSnippetSelectors = []string{
	"span[data-ved]",
	"div.VwiC3b",
	"div.IsZvec",
	"span.aCOpRe",
	"div.s",
	"span.st",
}

// GoogleHTML scrapes the Google results page.
type GoogleHTML struct {
	BaseURL string
	Fetch   *fetch.Options
}

func (g *GoogleHTML) Name() string { return "google" }

func (g *GoogleHTML) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		return nil, nil
	}
	base := g.BaseURL
	if base == "" {
		base = GoogleSearchURL
	}
	u := fmt.Sprintf("%s?q=%s&num=%d", base, url.QueryEscape(query), max)

	doc, err := fetch.Document(ctx, u, g.Fetch)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	return parseGoogle(doc, max), nil
}

func parseGoogle(doc *goquery.Document, max int) []SearchResult {
	var results []SearchResult
	doc.Find("div.g").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= max {
			return false
		}
		h3 := s.Find("h3").First()
		if h3.Length() == 0 {
			return true
		}

		snippet, found := "", false
		for _, sel := range googleSnippetSelectors {
			if e := s.Find(sel).First(); e.Length() > 0 {
				snippet, found = strings.TrimSpace(e.Text()), true
				break
			}
		}
		if !found {
			s.Find("div").EachWithBreak(func(_ int, d *goquery.Selection) bool {
				text := strings.TrimSpace(d.Text())
				if n := len([]rune(text)); n > 50 && n < 500 {
					snippet, found = text, true
					return false
				}
				return true
			})
		}
		if !found {
			return true
		}

		href, _ := s.Find("a").First().Attr("href")
		title := strings.TrimSpace(h3.Text())
		if title != "" && len([]rune(snippet)) > 10 {
			results = append(results, SearchResult{
				Title:   title,
				Snippet: snippet,
				URL:     href,
				Source:  "google",
			})
		}
		return true
	})
	return results
}

// DuckDuckGoAPI queries the DuckDuckGo instant answer API and falls back to
// the HTML results page when the API has nothing to offer.
type DuckDuckGoAPI struct {
	BaseURL  string
	Fetch    *fetch.Options
	Fallback Searcher
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type ddgResponse struct {
	Abstract      string     `json:"Abstract"`
	AbstractURL   string     `json:"AbstractURL"`
	Heading       string     `json:"Heading"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGoAPI) Name() string { return "duckduckgo" }

func (d *DuckDuckGoAPI) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		return nil, nil
	}
	base := d.BaseURL
	if base == "" {
		base = DuckDuckGoAPIURL
	}
	u := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1", base, url.QueryEscape(query))

	res, err := fetch.URL(ctx, u, d.Fetch)
	if err != nil {
		return d.fallback(ctx, query, max, fmt.Errorf("duckduckgo api: %w", err))
	}

	var body ddgResponse
	if err := json.Unmarshal([]byte(res.Body), &body); err != nil {
		return d.fallback(ctx, query, max, fmt.Errorf("decode duckduckgo response: %w", err))
	}

	results := parseDDGTopics(body, query, max)
	if len(results) == 0 {
		return d.fallback(ctx, query, max, nil)
	}
	return results, nil
}

func (d *DuckDuckGoAPI) fallback(ctx context.Context, query string, max int, cause error) ([]SearchResult, error) {
	if d.Fallback == nil {
		return nil, cause
	}
	results, err := d.Fallback.Search(ctx, query, max)
	if err != nil {
		return nil, errors.Join(cause, err)
	}
	return results, nil
}

func parseDDGTopics(body ddgResponse, query string, max int) []SearchResult {
	var results []SearchResult
	topics := body.RelatedTopics
	if len(topics) > max {
		topics = topics[:max]
	}
	for _, topic := range topics {
		if topic.Text == "" || len([]rune(topic.Text)) <= 20 {
			continue
		}
		title := topic.Text
		if len([]rune(title)) > maxTopicTitleLength {
			title = excerpt.Runes(title, maxTopicTitleLength) + "..."
		}
		results = append(results, SearchResult{
			Title:   title,
			Snippet: topic.Text,
			URL:     topic.FirstURL,
			Source:  "duckduckgo_api",
		})
	}

	if len([]rune(body.Abstract)) > 20 {
		title := body.Heading
		if title == "" {
			title = query
		}
		abstract := SearchResult{
			Title:   title,
			Snippet: body.Abstract,
			URL:     body.AbstractURL,
			Source:  "duckduckgo_api",
		}
		results = append([]SearchResult{abstract}, results...)
	}

	if len(results) > max {
		results = results[:max]
	}
	return results
}

// DuckDuckGoHTML scrapes the DuckDuckGo HTML-only results page.
type DuckDuckGoHTML struct {
	BaseURL string
	Fetch   *fetch.Options
}

func (d *DuckDuckGoHTML) Name() string { return "duckduckgo_html" }

func (d *DuckDuckGoHTML) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		return nil, nil
	}
	base := d.BaseURL
	if base == "" {
		base = DuckDuckGoHTMLURL
	}
	u := fmt.Sprintf("%s?q=%s", base, url.QueryEscape(query))

	doc, err := fetch.Document(ctx, u, d.Fetch)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html: %w", err)
	}
	return parseDDGHTML(doc, max), nil
}

func parseDDGHTML(doc *goquery.Document, max int) []SearchResult {
	var results []SearchResult
	doc.Find("div.result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= max {
			return false
		}
		link := s.Find("a.result__a").First()
		snippetEl := s.Find("a.result__snippet").First()
		if link.Length() == 0 || snippetEl.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(snippetEl.Text())
		href, _ := link.Attr("href")
		if title != "" && len([]rune(snippet)) > 10 {
			results = append(results, SearchResult{
				Title:   title,
				Snippet: snippet,
				URL:     href,
				Source:  "duckduckgo_html",
			})
		}
		return true
	})
	return results
}

// CustomSearch uses the Google Programmable Search JSON API.
type CustomSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewCustomSearch creates a Programmable Search provider for engine cx.
func NewCustomSearch(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*CustomSearch, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("custom search requires an API key and engine id")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CustomSearch{svc: svc, cx: cx}, nil
}

func (c *CustomSearch) Name() string { return "google_cse" }

func (c *CustomSearch) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 {
		return nil, nil
	}
	// The API serves at most 10 results per call.
	if max > 10 {
		max = 10
	}
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(int64(max)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
			Source:  c.Name(),
		})
	}
	return results, nil
}
