package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/backend"
)

// BackendGateway is the slice of the backend client the dashboard needs.
// Every call carries the admin's bearer token; the backend is the authority
// on authorization and on every write.
type BackendGateway interface {
	ListProducts(ctx context.Context, token string) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, token string, input catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input catalog.ProductInput) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	ListOrders(ctx context.Context, token string) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status order.Status) (*order.Order, error)
	BaseURL() string
}

var _ BackendGateway = (*backend.Client)(nil)

// ProductService proxies admin product management to the backend. Inputs
// are validated locally first so obviously bad requests never leave the
// process; successful writes publish the matching product event, which in
// turn drops the storefront's cached product list.
type ProductService struct {
	gateway        BackendGateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new admin ProductService
func NewProductService(gateway BackendGateway, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		gateway: gateway,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for catalog invalidation
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns all products for the dashboard, resolved images included
func (s *ProductService) List(ctx context.Context, token string) ([]ProductView, error) {
	products, err := s.gateway.ListProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	resolved := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		resolved = append(resolved, catalog.ResolveImages(p, s.gateway.BaseURL()))
	}
	return ToProductViews(resolved), nil
}

// Create validates the request locally and forwards it to the backend
func (s *ProductService) Create(ctx context.Context, token string, req ProductRequest) (*ProductView, error) {
	input := req.ToInput()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.gateway.CreateProduct(ctx, token, input)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, catalog.NewProductCreatedEvent(*created))
	s.logger.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("name", created.Name),
	)

	view := ToProductView(catalog.ResolveImages(*created, s.gateway.BaseURL()))
	return &view, nil
}

// Update validates the request locally and forwards it to the backend
func (s *ProductService) Update(ctx context.Context, token, productID string, req ProductRequest) (*ProductView, error) {
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	input := req.ToInput()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateProduct(ctx, token, productID, input)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, catalog.NewProductUpdatedEvent(*updated))
	s.logger.Info("product updated", zap.String("product_id", updated.ID))

	view := ToProductView(catalog.ResolveImages(*updated, s.gateway.BaseURL()))
	return &view, nil
}

// Delete removes the product through the backend
func (s *ProductService) Delete(ctx context.Context, token, productID string) error {
	if productID == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	if err := s.gateway.DeleteProduct(ctx, token, productID); err != nil {
		return err
	}

	s.publish(ctx, catalog.NewProductDeletedEvent(productID))
	s.logger.Info("product deleted", zap.String("product_id", productID))
	return nil
}

func (s *ProductService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish product event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
