package storefront

import (
	"context"

	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// CatalogInvalidator drops the cached product list
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ProductChangedHandler invalidates the catalog cache whenever an admin
// mutation goes through, so the storefront converges on the backend's
// product list promptly instead of waiting out the cache TTL.
type ProductChangedHandler struct {
	invalidator CatalogInvalidator
	logger      *zap.Logger
}

// NewProductChangedHandler creates a handler for admin product mutations
func NewProductChangedHandler(invalidator CatalogInvalidator, logger *zap.Logger) *ProductChangedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductChangedHandler{
		invalidator: invalidator,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductChangedHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductDeleted,
	}
}

// Handle drops the cached product list for any product mutation
func (h *ProductChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.invalidator.Invalidate(ctx); err != nil {
		h.logger.Error("failed to invalidate product cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Debug("product cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID()),
	)
	return nil
}

// Ensure ProductChangedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductChangedHandler)(nil)
