package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockFeedLoader is a mock implementation of FeedLoader
type MockFeedLoader struct {
	mock.Mock
}

func (m *MockFeedLoader) Load(ctx context.Context, url string) (*catalog.Feed, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Feed), args.Error(1)
}

// MockTransactionScope is a mock implementation of TransactionScope
type MockTransactionScope struct {
	mock.Mock
}

func (m *MockTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestImportService_Guards(t *testing.T) {
	tests := []struct {
		name     string
		input    ImportCatalogInput
		wantCode string
	}{
		{
			name:     "anonymous requester",
			input:    ImportCatalogInput{URL: "http://example.com/feed.yaml"},
			wantCode: "UNAUTHORIZED",
		},
		{
			name:     "buyer account",
			input:    ImportCatalogInput{UserID: 1, UserType: "buyer", URL: "http://example.com/feed.yaml"},
			wantCode: ErrCodeNotShopUser,
		},
		{
			name:     "empty url",
			input:    ImportCatalogInput{UserID: 1, UserType: "shop"},
			wantCode: ErrCodeInvalidURL,
		},
		{
			name:     "relative url",
			input:    ImportCatalogInput{UserID: 1, UserType: "shop", URL: "/feed.yaml"},
			wantCode: ErrCodeInvalidURL,
		},
		{
			name:     "ftp scheme",
			input:    ImportCatalogInput{UserID: 1, UserType: "shop", URL: "ftp://example.com/feed.yaml"},
			wantCode: ErrCodeInvalidURL,
		},
		{
			name:     "malformed url",
			input:    ImportCatalogInput{UserID: 1, UserType: "shop", URL: "http://exa mple.com/%zz"},
			wantCode: ErrCodeInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockFeedLoader)
			scope := new(MockTransactionScope)
			svc := NewImportService(loader, scope, nil, zap.NewNop())

			_, err := svc.ImportCatalog(context.Background(), tt.input)
			assert.Equal(t, tt.wantCode, codeOf(t, err))
			loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
			scope.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestImportService_LoaderFailureSkipsTransaction(t *testing.T) {
	loader := new(MockFeedLoader)
	scope := new(MockTransactionScope)
	core, logs := observer.New(zap.WarnLevel)
	svc := NewImportService(loader, scope, nil, zap.New(core))

	feedErr := shared.NewDomainError("INVALID_FEED", "Invalid feed: missing required key: shop")
	loader.On("Load", mock.Anything, "https://example.com/feed.yaml").Return(nil, feedErr)

	_, err := svc.ImportCatalog(context.Background(), ImportCatalogInput{
		UserID: 3, UserType: "shop", URL: " https://example.com/feed.yaml ",
	})
	assert.ErrorIs(t, err, feedErr)
	scope.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	assert.Equal(t, 1, logs.FilterMessage("Catalog import failed").Len())
	loader.AssertExpectations(t)
}

func TestImportService_TransactionErrorPropagates(t *testing.T) {
	loader := new(MockFeedLoader)
	scope := new(MockTransactionScope)
	svc := NewImportService(loader, scope, nil, nil)

	loader.On("Load", mock.Anything, "http://example.com/feed.yaml").Return(&catalog.Feed{Shop: "Acme"}, nil)
	scope.On("Execute", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	result, err := svc.ImportCatalog(context.Background(), ImportCatalogInput{
		UserID: 3, UserType: "shop", URL: "http://example.com/feed.yaml",
	})
	assert.Nil(t, result)
	assert.EqualError(t, err, "database is locked")
}

func TestValidateFeedURL(t *testing.T) {
	got, err := validateFeedURL("  https://partner.example.com/shop1.yaml?v=2 ")
	require.NoError(t, err)
	assert.Equal(t, "https://partner.example.com/shop1.yaml?v=2", got)

	_, err = validateFeedURL("https://")
	assert.Error(t, err)
}
