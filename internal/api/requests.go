package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talentcraft/proposalgen/internal/generate"
	"github.com/talentcraft/proposalgen/internal/pipeline"
)

const maxJSONBody = 1 << 20

// GenerateRequest asks for proposal copy.
type GenerateRequest struct {
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	JobRoles       string `json:"job_roles" validate:"required,max=500"`
	CompanyURL     string `json:"company_url" validate:"omitempty,max=2048"`
	CompanyContext string `json:"company_context" validate:"max=20000"`
}

func (r *GenerateRequest) normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.JobRoles = strings.TrimSpace(r.JobRoles)
	r.CompanyURL = strings.TrimSpace(r.CompanyURL)
	r.CompanyContext = strings.TrimSpace(r.CompanyContext)
}

func (r *GenerateRequest) input() generate.Input {
	return generate.Input{
		CompanyName:    r.CompanyName,
		JobRoles:       r.JobRoles,
		CompanyURL:     r.CompanyURL,
		CompanyContext: r.CompanyContext,
	}
}

// DocumentRequest asks for a rendered proposal. When Content is supplied it
// is used as the proposal copy and the company fields become optional.
type DocumentRequest struct {
	CompanyName    string `json:"company_name" validate:"required_without=Content,max=200"`
	JobRoles       string `json:"job_roles" validate:"required_without=Content,max=500"`
	CompanyURL     string `json:"company_url" validate:"omitempty,max=2048"`
	CompanyContext string `json:"company_context" validate:"max=20000"`
	Content        string `json:"content" validate:"max=50000"`
}

func (r *DocumentRequest) normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.JobRoles = strings.TrimSpace(r.JobRoles)
	r.CompanyURL = strings.TrimSpace(r.CompanyURL)
	r.CompanyContext = strings.TrimSpace(r.CompanyContext)
	r.Content = strings.TrimSpace(r.Content)
}

func (r *DocumentRequest) job() *pipeline.Job {
	return pipeline.NewJob(pipeline.Request{
		CompanyName:    r.CompanyName,
		JobRoles:       r.JobRoles,
		CompanyURL:     r.CompanyURL,
		CompanyContext: r.CompanyContext,
		Content:        r.Content,
	})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// validationMessage reports missing fields the way clients expect and names
// the field for any other rule.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() != "required" && fe.Tag() != "required_without" {
				return fmt.Sprintf("%s is too long", fe.Field())
			}
		}
	}
	return missingFieldsMessage
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
