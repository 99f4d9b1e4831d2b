package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/avatar"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrCodeAvatarUnavailable is returned when the avatar workers cannot take a job
const ErrCodeAvatarUnavailable = "AVATAR_UNAVAILABLE"

// AvatarQueue accepts avatar jobs and reports their progress
type AvatarQueue interface {
	Submit(ctx context.Context, userID int64, data []byte) (string, error)
	Status(ctx context.Context, jobID string) (*avatar.Job, error)
}

// AvatarService validates uploads and hands them to the background workers
type AvatarService struct {
	queue   AvatarQueue
	maxSize int64
	metrics *telemetry.MarketMetrics
	logger  *zap.Logger
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(queue AvatarQueue, maxSize int64, metrics *telemetry.MarketMetrics, logger *zap.Logger) *AvatarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvatarService{queue: queue, maxSize: maxSize, metrics: metrics, logger: logger}
}

// Upload checks the image and queues it for resizing. The returned task is polled with Status.
func (s *AvatarService) Upload(ctx context.Context, userID int64, data []byte) (*AvatarTaskResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "avatar", "upload",
		telemetry.AttrUserID.Int64(userID),
	)
	defer span.End()

	if _, err := avatar.Validate(data, s.maxSize); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	jobID, err := s.queue.Submit(ctx, userID, data)
	s.metrics.RecordAvatarJob(ctx, err)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, avatar.ErrQueueFull) || errors.Is(err, avatar.ErrPoolNotRunning) {
			logger.Enrich(ctx, s.logger).Warn("Avatar job rejected", zap.Error(err))
			return nil, shared.NewDomainError(ErrCodeAvatarUnavailable, "Avatar processing is busy, try again later")
		}
		return nil, fmt.Errorf("failed to submit avatar job: %w", err)
	}

	telemetry.SetOK(span)
	return s.Status(ctx, userID, jobID)
}

// Status returns the state of one of the user's avatar jobs. Jobs of other users are reported as missing.
func (s *AvatarService) Status(ctx context.Context, userID int64, jobID string) (*AvatarTaskResponse, error) {
	job, err := s.queue.Status(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, shared.NewNotFoundError(avatar.ErrCodeTaskNotFound, "avatar task")
	}
	return &AvatarTaskResponse{
		TaskID:   job.ID,
		Status:   string(job.Status),
		Message:  job.Message,
		Progress: job.Progress,
		Variants: job.Variants,
	}, nil
}

// AvatarRecorder stores finished avatar variants on the user record
type AvatarRecorder struct {
	users identity.UserRepository
}

// NewAvatarRecorder creates a recorder backed by the user repository
func NewAvatarRecorder(users identity.UserRepository) *AvatarRecorder {
	return &AvatarRecorder{users: users}
}

// RecordAvatarVariants implements avatar.VariantRecorder
func (r *AvatarRecorder) RecordAvatarVariants(ctx context.Context, userID int64, variants map[string]string) error {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}
	user.SetAvatarVariants(variants)
	return r.users.Update(ctx, user)
}

var _ avatar.VariantRecorder = (*AvatarRecorder)(nil)
