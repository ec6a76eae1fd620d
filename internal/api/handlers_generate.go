package api

import (
	"net/http"
	"strings"

	"github.com/talentcraft/proposalgen/internal/pipeline"
)

const missingFieldsMessage = "Please provide both company name and job roles"

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.normalize()
	if err := s.validate.Struct(&req); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	res, err := s.generator.Generate(r.Context(), req.input())
	if err != nil {
		s.log.Error("generation failed", "company", req.CompanyName, "error", err)
		jsonError(w, "Research and generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"content":           res.Content,
		"company_name":      req.CompanyName,
		"job_roles":         req.JobRoles,
		"research_insights": res.Insights,
		"sources_analyzed":  res.SearchResultsCount,
		"research_quality":  res.ResearchQuality,
		"website_analyzed":  res.WebsiteAnalyzed,
		"fallback":          res.Fallback,
	})
}

func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
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
	s.orchestrator.Run(r.Context(), job)

	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, "Document generation failed: "+strings.Join(snap.Errors, "; "), http.StatusInternalServerError)
		return
	}
	serveDocument(w, r, snap.OutputPath)
}
