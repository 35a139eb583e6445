package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/quality"
)

// JobStatus represents the state of a work generation job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusLoadingSpec  JobStatus = "loading_spec"
	StatusGenerating   JobStatus = "generating"
	StatusPolishing    JobStatus = "polishing"
	StatusPartitioning JobStatus = "partitioning"
	StatusAssembling   JobStatus = "assembling"
	StatusRendering    JobStatus = "rendering"
	StatusStoring      JobStatus = "storing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Request describes the work a job produces. An empty MethodicID formats
// with the default spec; non-empty Content skips generation.
type Request struct {
	UserID     string           `json:"user_id"`
	MethodicID string           `json:"methodic_id,omitempty"`
	WorkType   string           `json:"work_type"`
	Subject    string           `json:"subject"`
	Topic      string           `json:"topic"`
	Student    *assemble.Person `json:"student,omitempty"`
	Teacher    *assemble.Person `json:"teacher,omitempty"`
	City       string           `json:"city,omitempty"`
	Year       int              `json:"year,omitempty"`
	Content    string           `json:"content,omitempty"`
}

// Job tracks the state of a single work generation.
type Job struct {
	mu sync.Mutex

	ID      string
	Request Request

	Status   JobStatus
	Phase    string
	Progress Progress

	WorkID    string
	Quality   *quality.Report
	CreatedAt time.Time
	UpdatedAt time.Time

	errors []string
}

// Progress tracks section generation.
type Progress struct {
	TotalSections     int      `json:"total_sections"`
	SectionsGenerated int      `json:"sections_generated"`
	Errors            []string `json:"errors"`
}

// NewJob returns a queued job for req.
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
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
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalSections records how many sections will be generated.
func (j *Job) SetTotalSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSections = n
	j.UpdatedAt = time.Now()
}

// IncrSectionsGenerated atomically increments the generated section count.
func (j *Job) IncrSectionsGenerated() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsGenerated++
	j.UpdatedAt = time.Now()
}

// Complete records the stored work and marks the job done.
func (j *Job) Complete(workID string, q quality.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.WorkID = workID
	j.Quality = &q
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string          `json:"job_id"`
	UserID     string          `json:"user_id"`
	MethodicID string          `json:"methodic_id,omitempty"`
	WorkType   string          `json:"work_type"`
	Topic      string          `json:"topic"`
	Status     JobStatus       `json:"status"`
	Phase      string          `json:"phase"`
	Progress   Progress        `json:"progress"`
	WorkID     string          `json:"work_id,omitempty"`
	Quality    *quality.Report `json:"quality,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	var q *quality.Report
	if j.Quality != nil {
		cp := *j.Quality
		q = &cp
	}
	return JobSnapshot{
		ID:         j.ID,
		UserID:     j.Request.UserID,
		MethodicID: j.Request.MethodicID,
		WorkType:   j.Request.WorkType,
		Topic:      j.Request.Topic,
		Status:     j.Status,
		Phase:      j.Phase,
		Progress: Progress{
			TotalSections:     j.Progress.TotalSections,
			SectionsGenerated: j.Progress.SectionsGenerated,
			Errors:            errs,
		},
		WorkID:    j.WorkID,
		Quality:   q,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
