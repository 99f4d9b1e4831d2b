package avatar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrPoolNotRunning is returned when submitting to a stopped pool
	ErrPoolNotRunning = errors.New("avatar pool is not running")

	// ErrQueueFull is returned when the job queue is full
	ErrQueueFull = errors.New("avatar job queue is full")
)

// VariantRecorder stores the resulting variant URLs on the user
type VariantRecorder interface {
	RecordAvatarVariants(ctx context.Context, userID int64, variants map[string]string) error
}

type task struct {
	jobID  string
	userID int64
	data   []byte
}

// Pool processes avatar uploads on a fixed number of workers
type Pool struct {
	cfg      config.AvatarConfig
	jobs     *JobStore
	objects  storage.ObjectStore
	recorder VariantRecorder
	logger   *zap.Logger

	queue     chan task
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPool creates a pool; call Start before submitting
func NewPool(
	cfg config.AvatarConfig,
	jobs *JobStore,
	objects storage.ObjectStore,
	recorder VariantRecorder,
	logger *zap.Logger,
) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	return &Pool{
		cfg:      cfg,
		jobs:     jobs,
		objects:  objects,
		recorder: recorder,
		logger:   logger,
		queue:    make(chan task, cfg.QueueSize),
	}
}

// Start launches the workers
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info("Avatar pool started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("queue_size", p.cfg.QueueSize),
	)
}

// Stop signals the workers and waits for in-flight jobs until ctx expires
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Avatar pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Avatar pool stop timed out")
		return ctx.Err()
	}
}

// Submit records a pending job and queues it. The returned id is polled with Status.
func (p *Pool) Submit(ctx context.Context, userID int64, data []byte) (string, error) {
	p.mu.Lock()
	running := p.isRunning
	p.mu.Unlock()
	if !running {
		return "", ErrPoolNotRunning
	}

	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    JobStatusPending,
		Message:   "Queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.jobs.Save(ctx, job); err != nil {
		return "", fmt.Errorf("save avatar job: %w", err)
	}

	select {
	case p.queue <- task{jobID: job.ID, userID: userID, data: data}:
		p.logger.Debug("Avatar job submitted", zap.String("task_id", job.ID), zap.Int64("user_id", userID))
		return job.ID, nil
	default:
		job.advance(JobStatusFailed, 0, "Queue is full, try again later")
		if err := p.jobs.Save(ctx, job); err != nil {
			p.logger.Warn("Failed to record rejected avatar job", zap.String("task_id", job.ID), zap.Error(err))
		}
		return "", ErrQueueFull
	}
}

// Status returns the current state of a job
func (p *Pool) Status(ctx context.Context, jobID string) (*Job, error) {
	return p.jobs.Get(ctx, jobID)
}

func (p *Pool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			p.process(ctx, t, workerID)
		}
	}
}

func (p *Pool) process(ctx context.Context, t task, workerID int) {
	log := p.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("task_id", t.jobID),
		zap.Int64("user_id", t.userID),
	)

	job, err := p.jobs.Get(ctx, t.jobID)
	if err != nil {
		log.Warn("Avatar job vanished before processing", zap.Error(err))
		return
	}

	variants, err := p.render(ctx, job, t)
	if err != nil {
		job.advance(JobStatusFailed, job.Progress, err.Error())
		p.save(ctx, job, log)
		log.Error("Avatar job failed", zap.Error(err))
		return
	}

	if err := p.recorder.RecordAvatarVariants(ctx, t.userID, variants); err != nil {
		job.advance(JobStatusFailed, job.Progress, "Could not update user avatar")
		p.save(ctx, job, log)
		log.Error("Failed to record avatar variants", zap.Error(err))
		return
	}

	job.Variants = variants
	job.advance(JobStatusCompleted, 100, "Avatar updated")
	p.save(ctx, job, log)
	log.Info("Avatar job completed", zap.Int("variants", len(variants)))
}

// render decodes the upload, then resizes and stores every variant
func (p *Pool) render(ctx context.Context, job *Job, t task) (map[string]string, error) {
	job.advance(JobStatusProcessing, 10, "Decoding image")
	p.save(ctx, job, p.logger)

	img, format, err := Decode(t.data)
	if err != nil {
		return nil, errors.New("could not decode image")
	}

	variants := make(map[string]string, len(Variants))
	step := 90 / len(Variants)
	for i, v := range Variants {
		encoded, contentType, ext, err := Encode(Resize(img, v.Size), format)
		if err != nil {
			return nil, fmt.Errorf("could not encode %s variant", v.Name)
		}
		key := fmt.Sprintf("avatars/%d/%s/%s.%s", t.userID, t.jobID, v.Name, ext)
		url, err := p.objects.Put(ctx, key, encoded, contentType)
		if err != nil {
			p.logger.Error("Avatar upload failed", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("could not store %s variant", v.Name)
		}
		variants[v.Name] = url
		job.advance(JobStatusProcessing, 10+step*(i+1), fmt.Sprintf("Stored %s variant", v.Name))
		p.save(ctx, job, p.logger)
	}
	return variants, nil
}

func (p *Pool) save(ctx context.Context, job *Job, log *zap.Logger) {
	if err := p.jobs.Save(ctx, job); err != nil {
		log.Warn("Failed to save avatar job state", zap.String("task_id", job.ID), zap.Error(err))
	}
}
