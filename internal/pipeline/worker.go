package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/talentcraft/proposalgen/internal/content"
	"github.com/talentcraft/proposalgen/internal/generate"
	"github.com/talentcraft/proposalgen/internal/proposal"
)

// Writer researches a company and writes proposal copy.
type Writer interface {
	Research(ctx context.Context, in generate.Input) (*generate.Research, error)
	Write(ctx context.Context, in generate.Input, r *generate.Research) (*generate.Result, error)
}

// Worker builds the proposal document for a single job.
type Worker struct {
	writer    Writer
	renderer  *proposal.Renderer
	outputDir string
	roles     string
	log       *slog.Logger
	now       func() time.Time
}

// NewWorker returns a worker that saves documents under outputDir. Jobs
// without job roles use defaultRoles.
func NewWorker(writer Writer, renderer *proposal.Renderer, outputDir, defaultRoles string, log *slog.Logger) *Worker {
	return &Worker{
		writer:    writer,
		renderer:  renderer,
		outputDir: outputDir,
		roles:     defaultRoles,
		log:       log,
		now:       time.Now,
	}
}

// Process runs research, generation and rendering for a job. Jobs that
// carry their own content skip straight to rendering.
func (w *Worker) Process(ctx context.Context, job *Job) {
	req := job.Request
	log := w.log.With("job_id", job.ID, "company", req.CompanyName)

	roles := strings.TrimSpace(req.JobRoles)
	if roles == "" {
		roles = w.roles
	}

	text := strings.TrimSpace(req.Content)
	if text == "" {
		in := generate.Input{
			CompanyName:    req.CompanyName,
			JobRoles:       roles,
			CompanyURL:     req.CompanyURL,
			CompanyContext: req.CompanyContext,
		}

		// Phase 1: Research
		job.SetStatus(StatusResearching, "researching company")
		r, err := w.writer.Research(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				job.Fail("researching", err)
				return
			}
			log.Warn("research failed, using fallback insights", "error", err)
			job.AddError(fmt.Sprintf("research: %s", err))
			r = generate.FallbackResearch(req.CompanyName)
		}

		// Phase 2: Generate
		job.SetStatus(StatusGenerating, "writing proposal copy")
		res, err := w.writer.Write(ctx, in, r)
		if err != nil {
			log.Error("generation failed", "error", err)
			job.Fail("generating", err)
			return
		}
		job.SetContent(res.Content, res.ResearchQuality, res.Fallback, res.SearchResultsCount)
		log.Info("proposal copy written", "research_quality", res.ResearchQuality, "fallback", res.Fallback)
		text = res.Content
	} else {
		job.SetContent(text, "", "", 0)
	}

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering document")
	parsed := content.Parse(text)
	doc := proposal.Assemble(parsed, roles, strings.TrimSpace(req.CompanyName))
	path, err := w.renderer.Save(doc, w.outputDir, w.now())
	if err != nil {
		log.Error("render failed", "error", err)
		job.Fail("rendering", err)
		return
	}

	log.Info("proposal saved", "path", path, "reasons", len(parsed.Reasons))
	job.Complete(path)
}
