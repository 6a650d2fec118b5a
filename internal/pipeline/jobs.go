package pipeline

import (
	"sync"
	"time"

	"github.com/figtools/compdiff/internal/report"
	"github.com/google/uuid"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusFetching  JobStatus = "fetching"
	StatusAnalyzing JobStatus = "analyzing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single analysis run.
type Job struct {
	mu sync.Mutex

	ID           string `json:"job_id"`
	FileKey      string `json:"file_key"`
	NodeID       string `json:"node_id,omitempty"`
	RegistryPath string `json:"registry_path,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	result *report.Report
	errors []string
}

// Progress tracks analysis progress.
type Progress struct {
	NodesVisited    int      `json:"nodes_visited"`
	ComponentsFound int      `json:"components_found"`
	ScreensFound    int      `json:"screens_found"`
	Existing        int      `json:"existing"`
	New             int      `json:"new"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job for a file key.
func NewJob(fileKey, nodeID, registryPath string) *Job {
	now := time.Now()
	return &Job{
		ID:           uuid.NewString(),
		FileKey:      fileKey,
		NodeID:       nodeID,
		RegistryPath: registryPath,
		Status:       StatusQueued,
		Phase:        "queued",
		CreatedAt:    now,
		UpdatedAt:    now,
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
		if now.Sub(job.UpdatedAt) > s.ttl {
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

// SetCounts records traversal and diff totals.
func (j *Job) SetCounts(visited, components, screens, existing, newCount int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.NodesVisited = visited
	j.Progress.ComponentsFound = components
	j.Progress.ScreensFound = screens
	j.Progress.Existing = existing
	j.Progress.New = newCount
	j.UpdatedAt = time.Now()
}

// SetReport attaches the finished report. Only completed jobs carry one; a
// failed run never exposes a partial report.
func (j *Job) SetReport(r *report.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Report returns the finished report, or nil if the job has not completed.
func (j *Job) Report() *report.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string    `json:"job_id"`
	FileKey      string    `json:"file_key"`
	NodeID       string    `json:"node_id,omitempty"`
	RegistryPath string    `json:"registry_path,omitempty"`
	Status       JobStatus `json:"status"`
	Phase        string    `json:"phase"`
	Progress     Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:           j.ID,
		FileKey:      j.FileKey,
		NodeID:       j.NodeID,
		RegistryPath: j.RegistryPath,
		Status:       j.Status,
		Phase:        j.Phase,
		Progress: Progress{
			NodesVisited:    j.Progress.NodesVisited,
			ComponentsFound: j.Progress.ComponentsFound,
			ScreensFound:    j.Progress.ScreensFound,
			Existing:        j.Progress.Existing,
			New:             j.Progress.New,
			Errors:          errs,
		},
	}
}
