package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a proposal job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusResearching JobStatus = "researching"
	StatusGenerating  JobStatus = "generating"
	StatusRendering   JobStatus = "rendering"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Request is what a caller asks a job to produce. Content, when set, is used
// as the proposal copy and research is skipped.
type Request struct {
	CompanyName    string
	JobRoles       string
	CompanyURL     string
	CompanyContext string
	Content        string
}

// Job tracks the state of a single proposal build.
type Job struct {
	mu sync.Mutex

	ID      string
	Request Request

	Status JobStatus
	Phase  string

	OutputPath      string
	ResearchQuality string
	Fallback        string
	Sources         int

	CreatedAt time.Time
	UpdatedAt time.Time

	content string
	errors  []string
}

// NewJob creates a queued job with a time-ordered ID.
func NewJob(req Request) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Request:   req,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs not updated within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in phase.
func (j *Job) Fail(phase string, err error) {
	j.AddError(err.Error())
	j.SetStatus(StatusFailed, phase)
}

// SetContent records the proposal copy and how it was produced.
func (j *Job) SetContent(content, quality, fallback string, sources int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.content = content
	j.ResearchQuality = quality
	j.Fallback = fallback
	j.Sources = sources
	j.UpdatedAt = time.Now()
}

// Content returns the proposal copy, once generated.
func (j *Job) Content() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.content
}

// Complete records the saved document path and marks the job completed.
func (j *Job) Complete(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID              string    `json:"job_id"`
	Status          JobStatus `json:"status"`
	Phase           string    `json:"phase"`
	CompanyName     string    `json:"company_name"`
	JobRoles        string    `json:"job_roles"`
	ResearchQuality string    `json:"research_quality,omitempty"`
	Fallback        string    `json:"fallback,omitempty"`
	SourcesAnalyzed int       `json:"sources_analyzed"`
	OutputPath      string    `json:"output_path,omitempty"`
	Errors          []string  `json:"errors"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:              j.ID,
		Status:          j.Status,
		Phase:           j.Phase,
		CompanyName:     j.Request.CompanyName,
		JobRoles:        j.Request.JobRoles,
		ResearchQuality: j.ResearchQuality,
		Fallback:        j.Fallback,
		SourcesAnalyzed: j.Sources,
		OutputPath:      j.OutputPath,
		Errors:          errs,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}
