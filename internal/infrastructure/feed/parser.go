package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrCodeInvalidFeed marks feeds that could not be decoded
const ErrCodeInvalidFeed = "INVALID_FEED"

// scalar accepts any YAML scalar and keeps its literal text, so that
// `id: 4216292` and `id: "4216292"` decode the same way.
type scalar struct {
	value string
	set   bool
}

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		return nil
	}
	s.value = strings.TrimSpace(node.Value)
	s.set = true
	return nil
}

func (s scalar) int64(field string) (int64, error) {
	v, err := strconv.ParseInt(s.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", field, s.value)
	}
	return v, nil
}

func (s scalar) decimal(field string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s.value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number, got %q", field, s.value)
	}
	return v, nil
}

// Categories and Goods are pointers so that a missing key is told apart from an empty list
type rawFeed struct {
	Shop       scalar         `yaml:"shop"`
	Categories *[]rawCategory `yaml:"categories"`
	Goods      *[]rawGood     `yaml:"goods"`
}

type rawCategory struct {
	ID   scalar `yaml:"id"`
	Name scalar `yaml:"name"`
}

type rawGood struct {
	ID         scalar            `yaml:"id"`
	Category   scalar            `yaml:"category"`
	Model      scalar            `yaml:"model"`
	Name       scalar            `yaml:"name"`
	Price      scalar            `yaml:"price"`
	PriceRRC   scalar            `yaml:"price_rrc"`
	Quantity   scalar            `yaml:"quantity"`
	Parameters map[string]scalar `yaml:"parameters"`
}

// Parse decodes a YAML feed document and checks it for structural problems.
// Every failure is reported as an INVALID_FEED domain error.
func Parse(data []byte) (*catalog.Feed, error) {
	var raw rawFeed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalidFeed("document is empty")
		}
		return nil, invalidFeed(err.Error())
	}

	feed, err := raw.toDomain()
	if err != nil {
		return nil, invalidFeed(err.Error())
	}
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return feed, nil
}

func (r rawFeed) toDomain() (*catalog.Feed, error) {
	switch {
	case !r.Shop.set:
		return nil, errors.New("missing required key: shop")
	case r.Categories == nil:
		return nil, errors.New("missing required key: categories")
	case r.Goods == nil:
		return nil, errors.New("missing required key: goods")
	}
	categories, goods := *r.Categories, *r.Goods
	feed := &catalog.Feed{
		Shop:       r.Shop.value,
		Categories: make([]catalog.FeedCategory, 0, len(categories)),
		Goods:      make([]catalog.FeedGood, 0, len(goods)),
	}

	for i, c := range categories {
		if !c.ID.set || !c.Name.set {
			return nil, fmt.Errorf("categories[%d]: id and name are required", i)
		}
		id, err := c.ID.int64(fmt.Sprintf("categories[%d].id", i))
		if err != nil {
			return nil, err
		}
		feed.Categories = append(feed.Categories, catalog.FeedCategory{ID: id, Name: c.Name.value})
	}

	for i, g := range goods {
		good, err := g.toDomain(i)
		if err != nil {
			return nil, err
		}
		feed.Goods = append(feed.Goods, good)
	}
	return feed, nil
}

func (g rawGood) toDomain(i int) (catalog.FeedGood, error) {
	field := func(name string) string { return fmt.Sprintf("goods[%d].%s", i, name) }
	required := []struct {
		name string
		s    scalar
	}{{"id", g.ID}, {"name", g.Name}, {"category", g.Category}, {"price", g.Price}, {"quantity", g.Quantity}}
	for _, r := range required {
		if !r.s.set {
			return catalog.FeedGood{}, fmt.Errorf("%s is required", field(r.name))
		}
	}

	category, err := g.Category.int64(field("category"))
	if err != nil {
		return catalog.FeedGood{}, err
	}
	price, err := g.Price.decimal(field("price"))
	if err != nil {
		return catalog.FeedGood{}, err
	}
	quantity, err := g.Quantity.int64(field("quantity"))
	if err != nil {
		return catalog.FeedGood{}, err
	}

	good := catalog.FeedGood{
		ID:         g.ID.value,
		Name:       g.Name.value,
		Category:   category,
		Model:      g.Model.value,
		Price:      price,
		Quantity:   int(quantity),
		Parameters: make(map[string]string, len(g.Parameters)),
	}
	if g.PriceRRC.set {
		rrc, err := g.PriceRRC.decimal(field("price_rrc"))
		if err != nil {
			return catalog.FeedGood{}, err
		}
		good.PriceRRC = &rrc
	}
	for name, value := range g.Parameters {
		good.Parameters[strings.TrimSpace(name)] = value.value
	}
	return good, nil
}

func invalidFeed(msg string) error {
	return shared.NewDomainError(ErrCodeInvalidFeed, "Invalid feed: "+msg)
}
