package storefront

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/telemetry"
)

// CartService applies cart mutations to session state. Product lookups go
// through the catalog service so cart lines always carry current, resolved
// product data.
type CartService struct {
	store   *SessionStore
	catalog *CatalogService
	logger  *zap.Logger
	metrics *telemetry.StorefrontMetrics
}

// NewCartService creates a new CartService
func NewCartService(store *SessionStore, catalogService *CatalogService, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:   store,
		catalog: catalogService,
		logger:  logger,
	}
}

// SetMetrics wires the storefront metrics collector
func (s *CartService) SetMetrics(metrics *telemetry.StorefrontMetrics) {
	s.metrics = metrics
}

// GetCart returns the session's cart
func (s *CartService) GetCart(ctx context.Context, sessionID uuid.UUID) (*CartView, error) {
	var view CartView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		view = ToCartView(state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// AddItem adds one unit of the product to the session's cart. The product
// is looked up first, outside the session lock; an unknown product is
// rejected before any state changes.
func (s *CartService) AddItem(ctx context.Context, sessionID uuid.UUID, productID string) (*CartView, error) {
	product, err := s.catalog.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var view CartView
	err = s.store.WithSession(sessionID, func(state *SessionState) error {
		if err := state.Cart.AddItem(*product); err != nil {
			return err
		}
		view = ToCartView(state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation(ctx, telemetry.CartOpAdd)
	}
	s.logger.Debug("cart item added",
		zap.String("session_id", sessionID.String()),
		zap.String("product_id", productID),
	)
	return &view, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// An absent product ID leaves the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*CartView, error) {
	var view CartView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		state.Cart.UpdateQuantity(productID, quantity)
		view = ToCartView(state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		op := telemetry.CartOpUpdate
		if quantity <= 0 {
			op = telemetry.CartOpRemove
		}
		s.metrics.RecordCartOperation(ctx, op)
	}
	return &view, nil
}

// RemoveItem removes a line entirely
func (s *CartService) RemoveItem(ctx context.Context, sessionID uuid.UUID, productID string) (*CartView, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// Reset clears all cart lines
func (s *CartService) Reset(ctx context.Context, sessionID uuid.UUID) (*CartView, error) {
	var view CartView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		state.Cart.Reset()
		view = ToCartView(state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartOperation(ctx, telemetry.CartOpClear)
	}
	return &view, nil
}

// ToggleCheckout sets the checkout-modal visibility
func (s *CartService) ToggleCheckout(ctx context.Context, sessionID uuid.UUID, open bool) (*CartView, error) {
	var view CartView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		state.Cart.ToggleCheckout(open)
		view = ToCartView(state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
