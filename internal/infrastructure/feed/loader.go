package feed

import (
	"context"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
)

// Loader fetches a feed URL and parses the document
type Loader struct {
	fetcher *Fetcher
}

// NewLoader creates a loader over the fetcher
func NewLoader(fetcher *Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load downloads and decodes the feed published at url
func (l *Loader) Load(ctx context.Context, url string) (*catalog.Feed, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
