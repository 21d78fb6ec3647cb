package checkout

import (
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCheckout = "CheckoutFlow"

// Event type constants
const (
	EventTypeOrderSubmitted = "OrderSubmitted"
)

// OrderSubmittedEvent is published after the backend accepts an order
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	SessionID string           `json:"session_id"`
	OrderID   string           `json:"order_id"`
	FullName  string           `json:"full_name"`
	Items     []SubmissionItem `json:"items"`
	Total     string           `json:"total"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(sessionID, orderID string, submission Submission, total string) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, AggregateTypeCheckout, sessionID),
		SessionID:       sessionID,
		OrderID:         orderID,
		FullName:        submission.FullName,
		Items:           submission.Items,
		Total:           total,
	}
}
