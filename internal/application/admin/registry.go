package admin

import (
	"sort"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// ModelAdmin describes how one table is exposed in the admin console
type ModelAdmin struct {
	Name         string   `json:"name"`
	Table        string   `json:"table"`
	ListDisplay  []string `json:"list_display"`
	SearchFields []string `json:"search_fields"`
	ListFilter   []string `json:"list_filter"`
	Ordering     string   `json:"ordering"` // column, "-" prefix for descending
}

// Validate checks that filters, search and ordering only reference displayed columns
func (m ModelAdmin) Validate() error {
	if m.Name == "" || m.Table == "" {
		return shared.NewDomainError("INVALID_MODEL_ADMIN", "Model admin requires a name and a table")
	}
	if len(m.ListDisplay) == 0 {
		return shared.NewDomainError("INVALID_MODEL_ADMIN", "Model admin "+m.Name+" has no list columns")
	}
	columns := m.columnSet()
	for _, field := range append(append([]string{}, m.SearchFields...), m.ListFilter...) {
		if !columns[field] {
			return shared.NewDomainError("INVALID_MODEL_ADMIN", "Model admin "+m.Name+" references unknown column "+field)
		}
	}
	if field, _ := parseOrdering(m.Ordering); field != "" && !columns[field] {
		return shared.NewDomainError("INVALID_MODEL_ADMIN", "Model admin "+m.Name+" orders by unknown column "+field)
	}
	return nil
}

func (m ModelAdmin) columnSet() map[string]bool {
	set := make(map[string]bool, len(m.ListDisplay))
	for _, c := range m.ListDisplay {
		set[c] = true
	}
	return set
}

// Registry holds the models exposed by the admin console.
// It is built once at startup and read concurrently afterwards.
type Registry struct {
	models map[string]ModelAdmin
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]ModelAdmin)}
}

// Register adds a model; registering the same name twice is an error
func (r *Registry) Register(m ModelAdmin) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := r.models[m.Name]; exists {
		return shared.NewDomainError("ALREADY_REGISTERED", "Model "+m.Name+" is already registered")
	}
	r.models[m.Name] = m
	return nil
}

// Get returns the named model
func (r *Registry) Get(name string) (ModelAdmin, bool) {
	m, ok := r.models[name]
	return m, ok
}

// List returns all models sorted by name
func (r *Registry) List() []ModelAdmin {
	out := make([]ModelAdmin, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry registers the marketplace tables
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, m := range []ModelAdmin{
		{
			Name:         "users",
			Table:        "users",
			ListDisplay:  []string{"id", "email", "first_name", "last_name", "company", "type", "is_active", "created_at"},
			SearchFields: []string{"email", "first_name", "last_name", "company"},
			ListFilter:   []string{"type", "is_active"},
			Ordering:     "-created_at",
		},
		{
			Name:         "shops",
			Table:        "shops",
			ListDisplay:  []string{"id", "name", "url", "user_id", "created_at"},
			SearchFields: []string{"name", "url"},
			ListFilter:   []string{"user_id"},
			Ordering:     "name",
		},
		{
			Name:         "categories",
			Table:        "categories",
			ListDisplay:  []string{"id", "name"},
			SearchFields: []string{"name"},
			Ordering:     "name",
		},
		{
			Name:         "products",
			Table:        "products",
			ListDisplay:  []string{"id", "name", "category_id"},
			SearchFields: []string{"name"},
			ListFilter:   []string{"category_id"},
			Ordering:     "name",
		},
		{
			Name:         "product_infos",
			Table:        "product_infos",
			ListDisplay:  []string{"id", "article", "name", "model", "product_id", "shop_id", "price", "price_rrc", "quantity"},
			SearchFields: []string{"article", "name", "model"},
			ListFilter:   []string{"shop_id", "product_id"},
			Ordering:     "name",
		},
		{
			Name:         "orders",
			Table:        "orders",
			ListDisplay:  []string{"id", "user_id", "contact_id", "status", "created_at", "updated_at"},
			SearchFields: []string{"status"},
			ListFilter:   []string{"status", "user_id"},
			Ordering:     "-created_at",
		},
		{
			Name:         "contacts",
			Table:        "contacts",
			ListDisplay:  []string{"id", "user_id", "city", "street", "house", "apartment", "phone"},
			SearchFields: []string{"city", "street", "phone"},
			ListFilter:   []string{"user_id", "city"},
			Ordering:     "id",
		},
	} {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// parseOrdering splits "-field" into ("field", true)
func parseOrdering(ordering string) (string, bool) {
	if len(ordering) > 0 && ordering[0] == '-' {
		return ordering[1:], true
	}
	return ordering, false
}
