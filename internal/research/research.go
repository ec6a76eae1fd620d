package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talentcraft/proposalgen/internal/config"
	"github.com/talentcraft/proposalgen/internal/excerpt"
	"github.com/talentcraft/proposalgen/internal/fetch"
)

const (
	resultsPerQuery         = 4
	fallbackResultsPerQuery = 5
	earlyExitResults        = 60
	earlyExitQueries        = 8
	dedupeSnippetPrefix     = 200
	minDedupeSnippet        = 30
	minTitleLength          = 5
	minSnippetLength        = 20
)

// Researcher runs company searches across a set of providers.
type Researcher struct {
	searchers []Searcher
	fetch     *fetch.Options
	delay     time.Duration
	log       *slog.Logger
}

// Options configures a Researcher.
type Options struct {
	Searchers []Searcher
	Fetch     *fetch.Options
	// Delay is the pause between consecutive search queries.
	Delay  time.Duration
	Logger *slog.Logger
}

func New(opts Options) *Researcher {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fo := opts.Fetch
	if fo == nil {
		fo = fetch.DefaultOptions()
	}
	return &Researcher{
		searchers: opts.Searchers,
		fetch:     fo,
		delay:     opts.Delay,
		log:       log,
	}
}

// NewFromConfig wires Google, DuckDuckGo and, when configured, the
// Programmable Search API.
func NewFromConfig(ctx context.Context, cfg config.Config, log *slog.Logger) (*Researcher, error) {
	fo := fetch.DefaultOptions()
	fo.Timeout = cfg.FetchTimeout
	fo.UserAgent = cfg.UserAgent

	searchers := []Searcher{
		&GoogleHTML{Fetch: fo},
		&DuckDuckGoAPI{Fetch: fo, Fallback: &DuckDuckGoHTML{Fetch: fo}},
	}
	if cfg.CustomSearchEnabled() {
		cse, err := NewCustomSearch(ctx, cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX)
		if err != nil {
			return nil, fmt.Errorf("custom search: %w", err)
		}
		searchers = append(searchers, cse)
	}

	return New(Options{
		Searchers: searchers,
		Fetch:     fo,
		Delay:     cfg.SearchDelay,
		Logger:    log,
	}), nil
}

// CompanyQueries are the targeted searches run for a company.
func CompanyQueries(name string) []string {
	return []string{
		fmt.Sprintf(`"%s" company overview business`, name),
		fmt.Sprintf(`"%s" headquarters location employees`, name),
		fmt.Sprintf(`"%s" industry market revenue`, name),
		fmt.Sprintf(`"%s" recent news 2024 2023`, name),
		fmt.Sprintf(`"%s" hiring jobs recruiting`, name),
		fmt.Sprintf(`"%s" technology stack software`, name),
		fmt.Sprintf(`"%s" competitors market share`, name),
		fmt.Sprintf(`"%s" about us company profile`, name),
		fmt.Sprintf("%s Inc CEO leadership team", name),
		fmt.Sprintf("%s company size funding", name),
		fmt.Sprintf("%s company culture values", name),
		fmt.Sprintf("%s products services offerings", name),
		fmt.Sprintf("%s annual report financial", name),
		fmt.Sprintf("%s press releases announcements", name),
		fmt.Sprintf("%s careers job openings", name),
	}
}

// FallbackQueries are broader searches used when the targeted ones find nothing.
func FallbackQueries(name string) []string {
	return []string{
		name,
		name + " company",
		name + " business",
	}
}

// SearchCompany runs the targeted queries for name and returns up to max
// deduplicated results. Provider failures are logged and skipped.
func (r *Researcher) SearchCompany(ctx context.Context, name string, max int) []SearchResult {
	queries := CompanyQueries(name)
	var all []SearchResult
	successful := 0

	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		results := r.WebSearch(ctx, q, resultsPerQuery)
		if len(results) > 0 {
			all = append(all, results...)
			successful++
		}
		r.log.Debug("search query", "index", i+1, "total", len(queries), "query", q, "results", len(results))

		if len(all) > earlyExitResults && successful >= earlyExitQueries {
			r.log.Info("search early exit", "raw_results", len(all), "successful_queries", successful)
			break
		}
		if i < len(queries)-1 && !r.pause(ctx) {
			break
		}
	}

	unique := Dedupe(all)
	if len(unique) == 0 && ctx.Err() == nil {
		r.log.Info("no search results, trying fallback queries", "company", name)
		for _, q := range FallbackQueries(name) {
			all = append(all, r.WebSearch(ctx, q, fallbackResultsPerQuery)...)
		}
		unique = Dedupe(all)
	}

	r.log.Info("company search complete", "company", name, "raw_results", len(all), "unique_results", len(unique))
	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}
	return unique
}

// WebSearch asks every provider for max/2 results, drops hits with a short
// title or snippet, and returns at most 2*max.
func (r *Researcher) WebSearch(ctx context.Context, query string, max int) []SearchResult {
	per := max / 2
	var all []SearchResult
	for _, s := range r.searchers {
		results, err := s.Search(ctx, query, per)
		if err != nil {
			r.log.Debug("search provider failed", "provider", s.Name(), "query", query, "error", err)
			continue
		}
		all = append(all, results...)
	}

	valid := make([]SearchResult, 0, len(all))
	for _, res := range all {
		title := strings.TrimSpace(res.Title)
		snippet := strings.TrimSpace(res.Snippet)
		if len([]rune(title)) > minTitleLength && len([]rune(snippet)) > minSnippetLength {
			valid = append(valid, res)
		}
	}
	if len(valid) > max*2 {
		valid = valid[:max*2]
	}
	return valid
}

// Dedupe keeps results with a substantial snippet whose URL (ignoring the
// query string) or snippet prefix has not been seen yet.
func Dedupe(results []SearchResult) []SearchResult {
	var unique []SearchResult
	seenSnippets := make(map[string]bool)
	seenURLs := make(map[string]bool)

	for _, res := range results {
		snippet := strings.ToLower(strings.TrimSpace(res.Snippet))
		urlKey := strings.ToLower(strings.TrimSpace(res.URL))
		urlKey, _, _ = strings.Cut(urlKey, "?")
		snippetKey := excerpt.Runes(snippet, dedupeSnippetPrefix)

		uniqueURL := !seenURLs[urlKey]
		uniqueSnippet := !seenSnippets[snippetKey]
		if len([]rune(snippet)) > minDedupeSnippet && (uniqueURL || uniqueSnippet) {
			unique = append(unique, res)
			seenSnippets[snippetKey] = true
			if urlKey != "" {
				seenURLs[urlKey] = true
			}
		}
	}
	return unique
}

// pause waits for the configured delay. It returns false when ctx ends first.
func (r *Researcher) pause(ctx context.Context) bool {
	if r.delay <= 0 {
		return true
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
