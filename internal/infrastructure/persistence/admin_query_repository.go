package persistence

import (
	"context"
	"fmt"
	"strings"

	appadmin "github.com/d8nd8/python-final-diplom/internal/application/admin"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdminQueryRepository runs admin console list queries against any registered table.
// Only columns present in q.Columns ever reach the generated SQL.
type GormAdminQueryRepository struct {
	db *gorm.DB
}

// NewGormAdminQueryRepository creates a new GormAdminQueryRepository
func NewGormAdminQueryRepository(db *gorm.DB) *GormAdminQueryRepository {
	return &GormAdminQueryRepository{db: db}
}

// List returns one page of rows and the total row count matching the query
func (r *GormAdminQueryRepository) List(ctx context.Context, q appadmin.ListQuery) ([]map[string]any, int64, error) {
	allowed := make(map[string]bool, len(q.Columns))
	for _, c := range q.Columns {
		allowed[c] = true
	}

	query := r.db.WithContext(ctx).Table(q.Table)

	if search := strings.TrimSpace(q.Search); search != "" {
		var clauses []string
		var args []any
		pattern := containsPattern(search)
		for _, field := range q.SearchFields {
			if !allowed[field] {
				continue
			}
			clauses = append(clauses, fmt.Sprintf("LOWER(CAST(%s AS CHAR(255))) LIKE ?", field))
			args = append(args, pattern)
		}
		if len(clauses) > 0 {
			query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}
	for field, value := range q.Filters {
		if !allowed[field] {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Cannot filter by "+field)
		}
		query = query.Where(fmt.Sprintf("%s = ?", field), value)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := shared.Filter{Page: q.Page, PageSize: q.PageSize}.Normalize()

	rows := make([]map[string]any, 0)
	if err := query.
		Select(q.Columns).
		Order(orderClause(q.OrderBy, q.Descending, allowed, "id")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	return rows, total, nil
}

var _ appadmin.QueryRepository = (*GormAdminQueryRepository)(nil)
