package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/talentcraft/proposalgen/internal/proposal"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// serveDocument streams a saved proposal as an attachment.
func serveDocument(w http.ResponseWriter, r *http.Request, docPath string) {
	f, err := os.Open(docPath)
	if err != nil {
		jsonError(w, "document not available", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		jsonError(w, "document not available", http.StatusNotFound)
		return
	}

	name := filepath.Base(docPath)
	w.Header().Set("Content-Type", proposal.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// sanitizeUploadName keeps only the base name of an uploaded file.
func sanitizeUploadName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "unnamed"
	}
	return name
}
