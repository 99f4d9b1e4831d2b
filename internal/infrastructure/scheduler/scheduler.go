// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrInvalidSchedule is returned when the cron expression cannot be parsed
var ErrInvalidSchedule = errors.New("invalid cron schedule")

// Task is one unit of maintenance work
type Task interface {
	Name() string
	// Run performs the work and returns the number of items it removed
	Run(ctx context.Context) (int64, error)
}

// Scheduler runs registered tasks on a cron expression
type Scheduler struct {
	schedule   string
	tasks      []Task
	jobTimeout time.Duration
	logger     *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler; the schedule uses the standard five-field cron syntax
func NewScheduler(schedule string, logger *zap.Logger, tasks ...Task) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return &Scheduler{
		schedule:   schedule,
		tasks:      tasks,
		jobTimeout: 5 * time.Minute,
		logger:     logger,
		cron:       cron.New(),
	}, nil
}

// Start registers the tasks with cron and starts it
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return errors.Join(ErrInvalidSchedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Maintenance scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("tasks", len(s.tasks)),
	)
	return nil
}

// Stop stops cron and waits for a running pass until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// RunOnce runs every task in order. A failing task is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]int64 {
	results := make(map[string]int64, len(s.tasks))
	for _, task := range s.tasks {
		start := time.Now()
		removed, err := task.Run(ctx)
		if err != nil {
			s.logger.Error("Maintenance task failed", zap.String("task", task.Name()), zap.Error(err))
			continue
		}
		results[task.Name()] = removed
		s.logger.Info("Maintenance task finished",
			zap.String("task", task.Name()),
			zap.Int64("removed", removed),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return results
}
