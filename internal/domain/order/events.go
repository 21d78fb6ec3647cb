package order

import (
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderStatusChangedEvent is published after the backend confirms a status update
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   string `json:"order_id"`
	NewStatus Status `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(orderID string, newStatus Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		NewStatus:       newStatus,
	}
}
