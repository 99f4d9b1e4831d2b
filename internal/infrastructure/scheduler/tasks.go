package scheduler

import (
	"context"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
)

// ExpiredTokenCleanup deletes email confirmation tokens past their expiry
type ExpiredTokenCleanup struct {
	tokens identity.EmailConfirmTokenRepository
	now    func() time.Time
}

// NewExpiredTokenCleanup creates the task
func NewExpiredTokenCleanup(tokens identity.EmailConfirmTokenRepository) *ExpiredTokenCleanup {
	return &ExpiredTokenCleanup{tokens: tokens, now: time.Now}
}

func (t *ExpiredTokenCleanup) Name() string { return "expired_email_tokens" }

func (t *ExpiredTokenCleanup) Run(ctx context.Context) (int64, error) {
	return t.tokens.DeleteExpired(ctx, t.now())
}

// Purger is implemented by in-memory stores that drop expired entries on demand
type Purger interface {
	Purge() int
}

// PurgeTask evicts expired entries from an in-memory store
type PurgeTask struct {
	name   string
	target Purger
}

// NewPurgeTask creates a task named name over target
func NewPurgeTask(name string, target Purger) *PurgeTask {
	return &PurgeTask{name: name, target: target}
}

func (t *PurgeTask) Name() string { return t.name }

func (t *PurgeTask) Run(context.Context) (int64, error) {
	return int64(t.target.Purge()), nil
}
