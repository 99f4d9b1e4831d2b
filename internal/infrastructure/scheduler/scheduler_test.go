package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Create(ctx context.Context, token *identity.EmailConfirmToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRepo) FindByToken(ctx context.Context, token string) (*identity.EmailConfirmToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.EmailConfirmToken), args.Error(1)
}

func (m *mockTokenRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type failingTask struct{}

func (failingTask) Name() string { return "broken" }
func (failingTask) Run(context.Context) (int64, error) { return 0, errors.New("boom") }

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler("every tuesday", zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestScheduler_RunOnce(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	repo := new(mockTokenRepo)
	repo.On("DeleteExpired", mock.Anything, now).Return(int64(3), nil)
	tokens := NewExpiredTokenCleanup(repo)
	tokens.now = func() time.Time { return now }

	store := cache.NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "job", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	core, logs := observer.New(zap.InfoLevel)
	s, err := NewScheduler("@hourly", zap.New(core), tokens, failingTask{}, NewPurgeTask("avatar_jobs", store))
	require.NoError(t, err)

	results := s.RunOnce(ctx)
	assert.Equal(t, map[string]int64{"expired_email_tokens": 3, "avatar_jobs": 1}, results)
	assert.Equal(t, 1, logs.FilterMessage("Maintenance task failed").Len())
	repo.AssertExpectations(t)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("*/5 * * * *", zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
