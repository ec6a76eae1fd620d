package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/talentcraft/proposalgen/internal/config"
	"github.com/talentcraft/proposalgen/internal/generate"
	"github.com/talentcraft/proposalgen/internal/llm"
	"github.com/talentcraft/proposalgen/internal/pipeline"
)

// Generator writes proposal copy for a company.
type Generator interface {
	Generate(ctx context.Context, in generate.Input) (*generate.Result, error)
}

// Server is the HTTP API for the proposal generator.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	generator    Generator
	stats        *llm.Stats
	model        string
	validate     *validator.Validate
	log          *slog.Logger
	cfg          config.Config
}

// Options carries the optional LLM stats shown at /api/stats/llm.
type Options struct {
	Stats *llm.Stats
	Model string
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, gen Generator, log *slog.Logger, cfg config.Config, opts Options) *Server {
	s := &Server{
		orchestrator: orch,
		generator:    gen,
		stats:        opts.Stats,
		model:        opts.Model,
		validate:     newValidator(),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Endpoints behind the optional API key.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/generate", s.handleGenerate)
		r.Post("/generate-document", s.handleGenerateDocument)

		r.Post("/api/context/extract", s.handleExtractContext)
		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/document", s.handleJobDocument)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
