package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talentcraft/proposalgen/internal/pipeline"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.normalize()
	if err := s.validate.Struct(&req); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	job := req.job()
	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrStopped) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":           snap.ID,
		"status":           snap.Status,
		"phase":            snap.Phase,
		"company_name":     snap.CompanyName,
		"job_roles":        snap.JobRoles,
		"research_quality": snap.ResearchQuality,
		"sources_analyzed": snap.SourcesAnalyzed,
		"fallback":         snap.Fallback,
		"errors":           snap.Errors,
		"created_at":       snap.CreatedAt,
		"updated_at":       snap.UpdatedAt,
	}
	if snap.Status == pipeline.StatusCompleted {
		resp["document_url"] = fmt.Sprintf("/api/jobs/%s/document", snap.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJobDocument(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}
	serveDocument(w, r, snap.OutputPath)
}
