package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// Admin error codes
const (
	ErrCodeModelNotFound   = "MODEL_NOT_FOUND"
	ErrCodeInvalidOrdering = "INVALID_ORDERING"
	ErrCodeInvalidFilter   = "INVALID_FILTER"
)

// ListParams are the raw list options of an admin request
type ListParams struct {
	Search   string
	Ordering string
	Page     int
	PageSize int
	Filters  map[string]string
}

// Service serves the admin console from a fixed model registry
type Service struct {
	registry *Registry
	rows     QueryRepository
}

// NewService creates a new admin Service
func NewService(registry *Registry, rows QueryRepository) *Service {
	return &Service{registry: registry, rows: rows}
}

// Models returns the registered model descriptors
func (s *Service) Models() []ModelAdmin {
	return s.registry.List()
}

// Model returns one model descriptor
func (s *Service) Model(name string) (ModelAdmin, error) {
	m, ok := s.registry.Get(name)
	if !ok {
		return ModelAdmin{}, shared.NewNotFoundError(ErrCodeModelNotFound, "Admin model")
	}
	return m, nil
}

// List returns one page of rows of the named model.
// Filters must be declared in the model's list_filter; ordering must name a displayed column.
func (s *Service) List(ctx context.Context, name string, params ListParams) (shared.Paginated[map[string]any], error) {
	var empty shared.Paginated[map[string]any]

	m, err := s.Model(name)
	if err != nil {
		return empty, err
	}

	ordering := strings.TrimSpace(params.Ordering)
	if ordering == "" {
		ordering = m.Ordering
	}
	orderBy, desc := parseOrdering(ordering)
	if orderBy != "" && !m.columnSet()[orderBy] {
		return empty, shared.NewDomainError(ErrCodeInvalidOrdering,
			fmt.Sprintf("Cannot order %s by %q", m.Name, orderBy))
	}

	allowedFilters := make(map[string]bool, len(m.ListFilter))
	for _, f := range m.ListFilter {
		allowedFilters[f] = true
	}
	filters := make(map[string]string, len(params.Filters))
	for _, key := range sortedKeys(params.Filters) {
		if !allowedFilters[key] {
			return empty, shared.NewDomainError(ErrCodeInvalidFilter,
				fmt.Sprintf("Cannot filter %s by %q", m.Name, key))
		}
		filters[key] = params.Filters[key]
	}

	page := shared.Filter{Page: params.Page, PageSize: params.PageSize}.Normalize()
	rows, total, err := s.rows.List(ctx, ListQuery{
		Table:        m.Table,
		Columns:      m.ListDisplay,
		SearchFields: m.SearchFields,
		Search:       params.Search,
		Filters:      filters,
		OrderBy:      orderBy,
		Descending:   desc,
		Page:         page.Page,
		PageSize:     page.PageSize,
	})
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(rows, total, page.Page, page.PageSize), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
