package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Feed is a partner's full catalog as published at its feed URL
type Feed struct {
	Shop       string
	Categories []FeedCategory
	Goods      []FeedGood
}

// FeedCategory declares a category by its stable numeric identifier
type FeedCategory struct {
	ID   int64
	Name string
}

// FeedGood is one listing in the feed. ID is the supplier article.
type FeedGood struct {
	ID         string
	Name       string
	Category   int64
	Model      string
	Price      decimal.Decimal
	PriceRRC   *decimal.Decimal
	Quantity   int
	Parameters map[string]string
}

// SortedParameterNames returns the parameter names in a stable order
func (g FeedGood) SortedParameterNames() []string {
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the feed for structural problems that must abort an import before any write
func (f *Feed) Validate() error {
	if strings.TrimSpace(f.Shop) == "" {
		return invalidFeed("missing shop name")
	}

	seenCategories := make(map[int64]struct{}, len(f.Categories))
	for i, c := range f.Categories {
		if c.ID <= 0 {
			return invalidFeed(fmt.Sprintf("categories[%d]: id must be a positive integer", i))
		}
		if strings.TrimSpace(c.Name) == "" {
			return invalidFeed(fmt.Sprintf("categories[%d]: name is required", i))
		}
		if _, dup := seenCategories[c.ID]; dup {
			return invalidFeed(fmt.Sprintf("categories[%d]: duplicate id %d", i, c.ID))
		}
		seenCategories[c.ID] = struct{}{}
	}

	seenArticles := make(map[string]struct{}, len(f.Goods))
	for i, g := range f.Goods {
		article := strings.TrimSpace(g.ID)
		if article == "" {
			return invalidFeed(fmt.Sprintf("goods[%d]: id is required", i))
		}
		if _, dup := seenArticles[article]; dup {
			return invalidFeed(fmt.Sprintf("goods[%d]: duplicate id %q", i, article))
		}
		seenArticles[article] = struct{}{}

		if strings.TrimSpace(g.Name) == "" {
			return invalidFeed(fmt.Sprintf("goods[%d]: name is required", i))
		}
		if g.Category <= 0 {
			return invalidFeed(fmt.Sprintf("goods[%d]: category is required", i))
		}
		if g.Price.IsNegative() {
			return invalidFeed(fmt.Sprintf("goods[%d]: price cannot be negative", i))
		}
		if g.PriceRRC != nil && g.PriceRRC.IsNegative() {
			return invalidFeed(fmt.Sprintf("goods[%d]: price_rrc cannot be negative", i))
		}
		if g.Quantity < 0 {
			return invalidFeed(fmt.Sprintf("goods[%d]: quantity cannot be negative", i))
		}
		for name := range g.Parameters {
			if strings.TrimSpace(name) == "" {
				return invalidFeed(fmt.Sprintf("goods[%d]: parameter name cannot be empty", i))
			}
		}
	}

	return nil
}

func invalidFeed(msg string) error {
	return shared.NewDomainError("INVALID_FEED", "Invalid feed: "+msg)
}
