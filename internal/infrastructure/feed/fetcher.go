// Package feed downloads and decodes partner catalog feeds.
package feed

import (
	"context"
	"fmt"
	"io"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrCodeFetchFailed marks feeds that could not be downloaded
const ErrCodeFetchFailed = "FEED_FETCH_FAILED"

// Fetcher downloads feed documents over HTTP.
// A single attempt is made per call; failures are reported to the caller, not retried.
type Fetcher struct {
	client  *resty.Client
	maxSize int64
	logger  *zap.Logger
}

// NewFetcher creates a fetcher with the configured timeout, size limit and user agent
func NewFetcher(cfg config.FeedConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/x-yaml, text/yaml, text/plain, */*")

	return &Fetcher{
		client:  client,
		maxSize: cfg.MaxSize,
		logger:  logger,
	}
}

// Fetch GETs the URL and returns the body.
// Transport errors, non-2xx statuses and bodies over the size limit fail with FEED_FETCH_FAILED.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		f.logger.Warn("Feed fetch failed", zap.String("url", url), zap.Error(err))
		return nil, fetchFailed(fmt.Sprintf("could not download feed: %v", err))
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		f.logger.Warn("Feed fetch returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fetchFailed(fmt.Sprintf("feed server answered %d", resp.StatusCode()))
	}

	reader := io.Reader(body)
	if f.maxSize > 0 {
		reader = io.LimitReader(body, f.maxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fetchFailed(fmt.Sprintf("could not read feed body: %v", err))
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, fetchFailed(fmt.Sprintf("feed exceeds %d bytes", f.maxSize))
	}

	f.logger.Debug("Feed fetched", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

func fetchFailed(msg string) error {
	return shared.NewDomainError(ErrCodeFetchFailed, "Feed fetch failed: "+msg)
}
