package storefront

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/cache"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/telemetry"
)

// ProductSource is the slice of the backend client the catalog needs
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
	BaseURL() string
}

// CatalogService serves the storefront product list. The list is fetched
// from the backend once and cached; filter requests never trigger backend
// I/O of their own.
type CatalogService struct {
	source  ProductSource
	cache   cache.ProductCache
	ttl     time.Duration
	logger  *zap.Logger
	metrics *telemetry.StorefrontMetrics
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(source ProductSource, productCache cache.ProductCache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		source: source,
		cache:  productCache,
		ttl:    ttl,
		logger: logger,
	}
}

// SetMetrics wires the storefront metrics collector
func (s *CatalogService) SetMetrics(metrics *telemetry.StorefrontMetrics) {
	s.metrics = metrics
}

// ListProducts returns the filtered product list with image references
// resolved against the backend base.
func (s *CatalogService) ListProducts(ctx context.Context, filter catalog.Filter) ([]ProductView, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.FilterProducts(products, filter)
	resolved := make([]catalog.Product, 0, len(filtered))
	for _, p := range filtered {
		resolved = append(resolved, catalog.ResolveImages(p, s.source.BaseURL()))
	}
	return ToProductViews(resolved), nil
}

// GetProduct returns a single product with resolved images
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*ProductView, error) {
	p, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	view := ToProductView(*p)
	return &view, nil
}

// findProduct looks a product up in the cached list and resolves its images.
// Used by the cart and overlay paths as well, so adding to the cart never
// stores an unresolved image reference.
func (s *CatalogService) findProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == productID {
			resolved := catalog.ResolveImages(p, s.source.BaseURL())
			return &resolved, nil
		}
	}
	return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
}

// products returns the product list from cache, fetching from the backend
// and repopulating on a miss. Raw image references are cached; resolution
// happens per response.
func (s *CatalogService) products(ctx context.Context) ([]catalog.Product, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		// A broken cache must not take the storefront down; fall through
		s.logger.Warn("product cache read failed", zap.Error(err))
	}
	if ok {
		if s.metrics != nil {
			s.metrics.RecordCacheHit(ctx)
		}
		return cached, nil
	}

	if s.metrics != nil {
		s.metrics.RecordCacheMiss(ctx)
	}

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, products, s.ttl); err != nil {
		s.logger.Warn("product cache write failed", zap.Error(err))
	}
	return products, nil
}

// Invalidate drops the cached product list so the next request refetches
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
