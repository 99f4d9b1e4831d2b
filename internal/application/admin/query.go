package admin

import "context"

// ListQuery is a validated admin list request against one table
type ListQuery struct {
	Table        string
	Columns      []string
	SearchFields []string
	Search       string
	Filters      map[string]string // column -> exact value
	OrderBy      string
	Descending   bool
	Page         int
	PageSize     int
}

// QueryRepository runs admin list queries
type QueryRepository interface {
	List(ctx context.Context, q ListQuery) ([]map[string]any, int64, error)
}
