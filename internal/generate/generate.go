// Package generate researches a prospect company and asks the language model
// for proposal copy, degrading to simpler prompts and finally to a static
// proposal when the model is unavailable.
package generate

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/talentcraft/proposalgen/internal/excerpt"
	"github.com/talentcraft/proposalgen/internal/llm"
	"github.com/talentcraft/proposalgen/internal/research"
)

const (
	researchTemperature = 0.7
	researchMaxTokens   = 2000
	fallbackTemperature = 0.8
	fallbackMaxTokens   = 1200

	defaultMaxResults    = 15
	defaultContextTokens = 1500
	industryQuerySuffix  = "industry recruitment challenges hiring trends"
)

// Researcher is the subset of research.Researcher the service uses.
type Researcher interface {
	SearchCompany(ctx context.Context, name string, max int) []research.SearchResult
	WebSearch(ctx context.Context, query string, max int) []research.SearchResult
	ScrapeWebsite(ctx context.Context, rawURL string) research.WebsiteData
}

// Input describes the prospect.
type Input struct {
	CompanyName    string
	JobRoles       string
	CompanyURL     string
	CompanyContext string
}

func (in Input) normalized() Input {
	return Input{
		CompanyName:    strings.TrimSpace(in.CompanyName),
		JobRoles:       strings.TrimSpace(in.JobRoles),
		CompanyURL:     strings.TrimSpace(in.CompanyURL),
		CompanyContext: strings.TrimSpace(in.CompanyContext),
	}
}

// Research is everything gathered about a company before prompting.
type Research struct {
	Insights        research.Insights
	Results         []research.SearchResult
	IndustryResults []research.SearchResult
	Website         research.WebsiteData
}

// Result is the generated copy and the research behind it.
type Result struct {
	Content              string               `json:"content"`
	Insights             research.Insights    `json:"research_insights"`
	SearchResultsCount   int                  `json:"search_results_count"`
	IndustryResultsCount int                  `json:"industry_results_count"`
	WebsiteAnalyzed      bool                 `json:"website_analyzed"`
	Website              research.WebsiteData `json:"website_data"`
	ResearchQuality      string               `json:"research_quality"`
	// Fallback names the stage that produced Content when the research
	// prompt did not: "fallback" or "static".
	Fallback string `json:"fallback,omitempty"`
}

// Options configures a Service.
type Options struct {
	MaxResults    int
	ContextTokens int
	Logger        *slog.Logger
}

// Service writes proposal copy.
type Service struct {
	gen           llm.Generator
	researcher    Researcher
	maxResults    int
	contextTokens int
	sanitizer     *bluemonday.Policy
	log           *slog.Logger
}

func NewService(gen llm.Generator, researcher Researcher, opts Options) *Service {
	s := &Service{
		gen:           gen,
		researcher:    researcher,
		maxResults:    opts.MaxResults,
		contextTokens: opts.ContextTokens,
		sanitizer:     bluemonday.StrictPolicy(),
		log:           opts.Logger,
	}
	if s.maxResults <= 0 {
		s.maxResults = defaultMaxResults
	}
	if s.contextTokens <= 0 {
		s.contextTokens = defaultContextTokens
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}

// Research scrapes the website and searches for the company concurrently,
// analyzes the results and then looks up industry hiring trends.
func (s *Service) Research(ctx context.Context, in Input) (*Research, error) {
	in = in.normalized()
	r := &Research{}

	g, gctx := errgroup.WithContext(ctx)
	if in.CompanyURL != "" {
		g.Go(func() error {
			r.Website = s.researcher.ScrapeWebsite(gctx, in.CompanyURL)
			return nil
		})
	}
	g.Go(func() error {
		r.Results = s.researcher.SearchCompany(gctx, in.CompanyName, s.maxResults)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("research %s: %w", in.CompanyName, err)
	}

	r.Insights = research.Analyze(in.CompanyName, r.Results)
	s.log.Info("company research complete",
		"company", in.CompanyName,
		"results", len(r.Results),
		"industry", r.Insights.Industry,
		"website_analyzed", r.Website.Analyzed(),
	)

	query := r.Insights.Industry + " " + industryQuerySuffix
	r.IndustryResults = s.researcher.WebSearch(ctx, query, s.maxResults/3)
	return r, nil
}

// Generate researches the company and writes proposal copy. Research that
// cannot run degrades to fallback insights. An error is returned only when
// ctx ends.
func (s *Service) Generate(ctx context.Context, in Input) (*Result, error) {
	r, err := s.Research(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.log.Warn("research failed, using fallback insights", "company", in.CompanyName, "error", err)
		r = FallbackResearch(in.CompanyName)
	}
	return s.Write(ctx, in, r)
}

// FallbackResearch stands in for research that could not run.
func FallbackResearch(companyName string) *Research {
	return &Research{Insights: research.FallbackInsights(strings.TrimSpace(companyName))}
}

// Write asks the model for proposal copy grounded on r. Model failures
// degrade to the fallback prompt and then to the static proposal.
func (s *Service) Write(ctx context.Context, in Input, r *Research) (*Result, error) {
	in = in.normalized()
	in.CompanyContext = s.sanitizeContext(in.CompanyContext)

	res := &Result{
		Insights:             r.Insights,
		SearchResultsCount:   len(r.Results),
		IndustryResultsCount: len(r.IndustryResults),
		WebsiteAnalyzed:      r.Website.Analyzed(),
		Website:              r.Website,
		ResearchQuality:      ResearchQuality(len(r.Results)),
	}

	content, err := s.writeResearched(ctx, in, r)
	if err == nil && content != "" && !strings.HasPrefix(content, "Error") {
		res.Content = content
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.log.Warn("research prompt failed, using fallback prompt", "company", in.CompanyName, "error", err)

	content, err = s.writeFallback(ctx, in, r.Insights)
	if err == nil && content != "" {
		res.Content = content
		res.Fallback = "fallback"
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.log.Error("fallback prompt failed, using static proposal", "company", in.CompanyName, "error", err)

	res.Content = StaticFallback(in.CompanyName, in.JobRoles)
	res.Fallback = "static"
	return res, nil
}

func (s *Service) writeResearched(ctx context.Context, in Input, r *Research) (string, error) {
	summary, err := ResearchSummary(in, r)
	if err != nil {
		return "", err
	}
	prompt, err := RenderPrompt(PromptResearch, map[string]string{
		"CompanyName":     in.CompanyName,
		"JobRoles":        in.JobRoles,
		"ResearchSummary": summary,
		"TemplateContext": MustRenderPrompt(PromptTemplateContext, nil),
		"FormattingRules": MustRenderPrompt(PromptFormattingRules, nil),
	})
	if err != nil {
		return "", err
	}

	out, err := s.gen.Generate(ctx, llm.Request{
		System:      MustRenderPrompt(PromptSystemResearch, nil),
		Prompt:      prompt,
		MaxTokens:   researchMaxTokens,
		Temperature: researchTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("research prompt: %w", err)
	}
	return CleanMarkdown(out), nil
}

func (s *Service) writeFallback(ctx context.Context, in Input, insights research.Insights) (string, error) {
	prompt, err := RenderPrompt(PromptFallback, map[string]any{
		"CompanyName":     in.CompanyName,
		"JobRoles":        in.JobRoles,
		"Insights":        insights,
		"CompanyContext":  in.CompanyContext,
		"FormattingRules": MustRenderPrompt(PromptFormattingRules, nil),
	})
	if err != nil {
		return "", err
	}

	out, err := s.gen.Generate(ctx, llm.Request{
		System:      MustRenderPrompt(PromptSystemFallback, nil),
		Prompt:      prompt,
		MaxTokens:   fallbackMaxTokens,
		Temperature: fallbackTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("fallback prompt: %w", err)
	}
	return CleanMarkdown(out), nil
}

// sanitizeContext strips markup from user-supplied context and trims it to
// the configured token budget.
func (s *Service) sanitizeContext(text string) string {
	if text == "" {
		return ""
	}
	clean := html.UnescapeString(s.sanitizer.Sanitize(text))
	return excerpt.Trim(strings.TrimSpace(clean), s.contextTokens)
}

// ResearchSummary renders the research block that grounds the main prompt.
func ResearchSummary(in Input, r *Research) (string, error) {
	return RenderPrompt(PromptResearchSummary, map[string]any{
		"CompanyNameUpper": strings.ToUpper(in.CompanyName),
		"Insights":         r.Insights,
		"SourceCount":      len(r.Results),
		"Confidence":       ResearchQuality(len(r.Results)),
		"WebsiteAnalyzed":  r.Website.Analyzed(),
		"Website":          r.Website,
		"CompanyContext":   in.CompanyContext,
	})
}

// ResearchQuality grades research by the number of sources found.
func ResearchQuality(sources int) string {
	switch {
	case sources > 5:
		return "High"
	case sources > 2:
		return "Medium"
	default:
		return "Basic"
	}
}

// StaticFallback is the proposal used when no model output is available.
func StaticFallback(companyName, jobRoles string) string {
	return MustRenderPrompt(PromptStaticFallback, map[string]string{
		"CompanyName": companyName,
		"JobRoles":    jobRoles,
	})
}
