package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Import error codes
const (
	ErrCodeInvalidURL      = "INVALID_URL"
	ErrCodeNotShopUser     = "NOT_SHOP_USER"
	ErrCodeShopNameTaken   = "SHOP_NAME_TAKEN"
	ErrCodeArticleTaken    = "ARTICLE_TAKEN"
	ErrCodeUnknownCategory = "UNKNOWN_CATEGORY"
)

// FeedLoader downloads and parses a partner feed
type FeedLoader interface {
	Load(ctx context.Context, url string) (*catalog.Feed, error)
}

// ImportService replaces a shop's listings with the content of its feed
type ImportService struct {
	loader  FeedLoader
	txScope TransactionScope
	metrics *telemetry.MarketMetrics
	logger  *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	loader FeedLoader,
	txScope TransactionScope,
	metrics *telemetry.MarketMetrics,
	logger *zap.Logger,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		loader:  loader,
		txScope: txScope,
		metrics: metrics,
		logger:  logger,
	}
}

// ImportCatalog fetches the feed at input.URL and rewrites the requester's shop from it.
// Everything after the fetch runs in one transaction; any failure leaves the catalog untouched.
func (s *ImportService) ImportCatalog(ctx context.Context, input ImportCatalogInput) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog_import", "import",
		telemetry.AttrUserID.Int64(input.UserID),
		telemetry.AttrFeedURL.String(input.URL),
	)
	defer span.End()

	result, err := s.importCatalog(ctx, input)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordImport(ctx, 0, err)
		logger.Enrich(ctx, s.logger).Warn("Catalog import failed",
			zap.String("url", input.URL),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrShopID.Int64(result.ShopID),
		telemetry.AttrListings.Int(result.Listings),
	)
	telemetry.SetOK(span)
	s.metrics.RecordImport(ctx, result.Listings, nil)
	logger.Enrich(ctx, s.logger).Info("Catalog imported",
		zap.Int64("shop_id", result.ShopID),
		zap.String("shop", result.Shop),
		zap.Int("categories", result.Categories),
		zap.Int("listings", result.Listings),
	)
	return result, nil
}

func (s *ImportService) importCatalog(ctx context.Context, input ImportCatalogInput) (*ImportResult, error) {
	if input.UserID == 0 {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Authentication required")
	}
	if input.UserType != identity.UserTypeShop.String() {
		return nil, shared.NewDomainError(ErrCodeNotShopUser, "Only shop accounts can import catalogs")
	}
	feedURL, err := validateFeedURL(input.URL)
	if err != nil {
		return nil, err
	}

	feed, err := s.loader.Load(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var result *ImportResult
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		imp := &feedImport{repos: repos, userID: input.UserID, url: feedURL}
		r, err := imp.apply(ctx, feed)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateFeedURL accepts absolute http(s) URLs only
func validateFeedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", shared.NewDomainError(ErrCodeInvalidURL, "Feed URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", shared.NewDomainError(ErrCodeInvalidURL, "Feed URL must be an absolute http or https URL")
	}
	return u.String(), nil
}

// feedImport carries the state of one import inside its transaction
type feedImport struct {
	repos      TransactionalRepositories
	userID     int64
	url        string
	categories map[int64]bool
	parameters map[string]*catalog.Parameter
}

func (f *feedImport) apply(ctx context.Context, feed *catalog.Feed) (*ImportResult, error) {
	f.categories = make(map[int64]bool, len(feed.Categories))
	f.parameters = make(map[string]*catalog.Parameter)

	shop, err := f.shop(ctx, feed.Shop)
	if err != nil {
		return nil, err
	}

	for _, c := range feed.Categories {
		if err := f.category(ctx, c, shop.ID); err != nil {
			return nil, err
		}
	}

	if _, err := f.repos.ProductInfoRepo().DeleteByShop(ctx, shop.ID); err != nil {
		return nil, fmt.Errorf("failed to delete listings of shop %d: %w", shop.ID, err)
	}

	for _, good := range feed.Goods {
		if err := f.listing(ctx, good, shop.ID); err != nil {
			return nil, err
		}
	}

	return &ImportResult{
		ShopID:     shop.ID,
		Shop:       shop.Name,
		Categories: len(feed.Categories),
		Listings:   len(feed.Goods),
	}, nil
}

// shop gets or creates the requester's shop by name
func (f *feedImport) shop(ctx context.Context, name string) (*catalog.Shop, error) {
	repo := f.repos.ShopRepo()
	shop, err := repo.FindByName(ctx, strings.TrimSpace(name))
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shop, err = catalog.NewShop(name, f.userID)
		if err != nil {
			return nil, err
		}
		shop.SetURL(f.url)
		if err := repo.Create(ctx, shop); err != nil {
			return nil, fmt.Errorf("failed to create shop: %w", err)
		}
		return shop, nil
	case err != nil:
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}

	if !shop.OwnedBy(f.userID) {
		return nil, shared.NewDomainError(ErrCodeShopNameTaken,
			fmt.Sprintf("Shop name %q belongs to another account", shop.Name))
	}
	shop.SetURL(f.url)
	if err := repo.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}
	return shop, nil
}

// category gets or creates a category by its feed id and links the shop.
// The feed name is only used when the category is new.
func (f *feedImport) category(ctx context.Context, c catalog.FeedCategory, shopID int64) error {
	repo := f.repos.CategoryRepo()
	_, err := repo.FindByID(ctx, c.ID)
	if errors.Is(err, shared.ErrNotFound) {
		category, err := catalog.NewCategory(c.ID, c.Name)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %d: %w", c.ID, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to find category %d: %w", c.ID, err)
	}

	if err := repo.AttachShop(ctx, c.ID, shopID); err != nil {
		return fmt.Errorf("failed to attach shop to category %d: %w", c.ID, err)
	}
	f.categories[c.ID] = true
	return nil
}

// knownCategory reports whether a good's category exists, looking beyond the feed's own list
func (f *feedImport) knownCategory(ctx context.Context, id int64) (bool, error) {
	if known, seen := f.categories[id]; seen {
		return known, nil
	}
	_, err := f.repos.CategoryRepo().FindByID(ctx, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		f.categories[id] = false
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	f.categories[id] = true
	return true, nil
}

func (f *feedImport) listing(ctx context.Context, good catalog.FeedGood, shopID int64) error {
	known, err := f.knownCategory(ctx, good.Category)
	if err != nil {
		return err
	}
	if !known {
		return shared.NewDomainError(ErrCodeUnknownCategory,
			fmt.Sprintf("Good %q refers to unknown category %d", good.ID, good.Category))
	}

	product, err := f.product(ctx, good.Name, good.Category)
	if err != nil {
		return err
	}

	if existing, err := f.repos.ProductInfoRepo().FindByArticle(ctx, good.ID); err == nil {
		// this shop's listings are already gone, so any hit belongs to someone else
		return shared.NewDomainError(ErrCodeArticleTaken,
			fmt.Sprintf("Article %q is already listed by shop %d", existing.Article, existing.ShopID))
	} else if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to check article %q: %w", good.ID, err)
	}

	info, err := catalog.NewProductInfo(product.ID, shopID, catalog.ProductInfoInput{
		Article:  good.ID,
		Model:    good.Model,
		Name:     good.Name,
		Price:    good.Price,
		PriceRRC: good.PriceRRC,
		Quantity: good.Quantity,
	})
	if err != nil {
		return err
	}

	for _, name := range good.SortedParameterNames() {
		param, err := f.parameter(ctx, name)
		if err != nil {
			return err
		}
		if err := info.SetParameter(param, good.Parameters[name]); err != nil {
			return err
		}
	}

	if err := f.repos.ProductInfoRepo().Create(ctx, info); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.NewDomainError(ErrCodeArticleTaken, fmt.Sprintf("Article %q is already listed", good.ID))
		}
		return fmt.Errorf("failed to create listing %q: %w", good.ID, err)
	}
	return nil
}

// product gets or creates a product by (name, category)
func (f *feedImport) product(ctx context.Context, name string, categoryID int64) (*catalog.Product, error) {
	repo := f.repos.ProductRepo()
	product, err := repo.FindByNameAndCategory(ctx, strings.TrimSpace(name), categoryID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to find product %q: %w", name, err)
	}
	product, err = catalog.NewProduct(name, categoryID)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product %q: %w", name, err)
	}
	return product, nil
}

// parameter gets or creates a parameter by name, caching it for the rest of the import
func (f *feedImport) parameter(ctx context.Context, name string) (*catalog.Parameter, error) {
	name = strings.TrimSpace(name)
	if p, ok := f.parameters[name]; ok {
		return p, nil
	}
	repo := f.repos.ParameterRepo()
	param, err := repo.FindByName(ctx, name)
	if errors.Is(err, shared.ErrNotFound) {
		param, err = catalog.NewParameter(name)
		if err != nil {
			return nil, err
		}
		if err := repo.Create(ctx, param); err != nil {
			return nil, fmt.Errorf("failed to create parameter %q: %w", name, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find parameter %q: %w", name, err)
	}
	f.parameters[name] = param
	return param, nil
}
