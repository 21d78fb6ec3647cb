package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// OrderService proxies the dashboard's order views and status changes to
// the backend. Status values are checked against the fixed set locally;
// whether a particular transition is permitted stays the backend's call.
type OrderService struct {
	gateway        BackendGateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new admin OrderService
func NewOrderService(gateway BackendGateway, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		gateway: gateway,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for the live order feed
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns all orders for the dashboard
func (s *OrderService) List(ctx context.Context, token string) ([]OrderView, error) {
	orders, err := s.gateway.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	return ToOrderViews(orders), nil
}

// UpdateStatus moves an order to a new status through the backend
func (s *OrderService) UpdateStatus(ctx context.Context, token, orderID, statusValue string) (*OrderView, error) {
	if orderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	status, err := order.ValidateStatusValue(statusValue)
	if err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateOrderStatus(ctx, token, orderID, status)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := order.NewOrderStatusChangedEvent(updated.ID, updated.Status)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish order status event",
				zap.String("order_id", updated.ID),
				zap.Error(err),
			)
		}
	}
	s.logger.Info("order status updated",
		zap.String("order_id", updated.ID),
		zap.String("status", updated.Status.String()),
	)

	view := ToOrderView(*updated)
	return &view, nil
}
