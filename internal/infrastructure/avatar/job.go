package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/cache"
)

// JobStatus is the lifecycle state of an avatar job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ErrCodeTaskNotFound is returned for unknown or expired job ids
const ErrCodeTaskNotFound = "TASK_NOT_FOUND"

// Job is the pollable state of one avatar upload
type Job struct {
	ID        string            `json:"task_id"`
	UserID    int64             `json:"user_id"`
	Status    JobStatus         `json:"status"`
	Message   string            `json:"message"`
	Progress  int               `json:"progress"`
	Variants  map[string]string `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsFinished reports whether the job reached a terminal state
func (j *Job) IsFinished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

func (j *Job) advance(status JobStatus, progress int, message string) {
	j.Status = status
	j.Progress = progress
	j.Message = message
	j.UpdatedAt = time.Now()
}

// JobStore keeps job state in a cache.Store as JSON, expiring after ttl
type JobStore struct {
	store cache.Store
	ttl   time.Duration
}

// NewJobStore creates a job store
func NewJobStore(store cache.Store, ttl time.Duration) *JobStore {
	return &JobStore{store: store, ttl: ttl}
}

// Save writes the job, refreshing its expiry
func (s *JobStore) Save(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal avatar job: %w", err)
	}
	return s.store.Set(ctx, job.ID, data, s.ttl)
}

// Get loads a job; unknown or expired ids return TASK_NOT_FOUND
func (s *JobStore) Get(ctx context.Context, id string) (*Job, error) {
	data, err := s.store.Get(ctx, id)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, shared.NewNotFoundError(ErrCodeTaskNotFound, "avatar task")
	}
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal avatar job %s: %w", id, err)
	}
	return &job, nil
}
