package proposal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MIMEType is the content type of the generated files.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	unsafeFilenameRe = regexp.MustCompile(`[^\w\s-]`)
	separatorRunRe   = regexp.MustCompile(`[-\s]+`)
)

// DocumentWriteError reports a failure to persist a rendered document.
type DocumentWriteError struct {
	Path string
	Err  error
}

func (e *DocumentWriteError) Error() string {
	return fmt.Sprintf("write document %s: %v", e.Path, e.Err)
}

func (e *DocumentWriteError) Unwrap() error {
	return e.Err
}

// SanitizeFilename drops characters other than word characters, whitespace
// and hyphens, then turns each run of whitespace or hyphens into "_".
func SanitizeFilename(name string) string {
	safe := strings.TrimSpace(unsafeFilenameRe.ReplaceAllString(name, ""))
	return separatorRunRe.ReplaceAllString(safe, "_")
}

// Filename is the output name for a company at time now.
func Filename(company string, now time.Time) string {
	if company == "" {
		company = "Company"
	}
	return fmt.Sprintf("TalentCraft_Proposal_%s_%s.docx", SanitizeFilename(company), now.Format("20060102_150405"))
}

// Save renders doc into dir and returns the written path. Two saves for the
// same company within one second overwrite each other.
func (r *Renderer) Save(doc *Document, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, Filename(doc.CompanyName, now))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &DocumentWriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", &DocumentWriteError{Path: path, Err: err}
	}
	if err := r.Write(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", &DocumentWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &DocumentWriteError{Path: path, Err: err}
	}
	return path, nil
}
