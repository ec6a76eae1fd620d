package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/talentcraft/proposalgen/internal/attach"
)

// handleExtractContext turns an uploaded brief into plain text that clients
// send back as company_context.
func (s *Server) handleExtractContext(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeUploadName(header.Filename)
	if _, err := attach.ForFile(filename); err != nil {
		jsonError(w, fmt.Sprintf("%s (supported: %s)", err, strings.Join(attach.SupportedExtensions(), ", ")), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	text, err := attach.Extract(bytes.NewReader(data), filename)
	if err != nil {
		var unsupported *attach.UnsupportedError
		if errors.As(err, &unsupported) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Warn("context extraction failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename":   filename,
		"text":       text,
		"characters": len([]rune(text)),
	})
}
