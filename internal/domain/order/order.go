package order

import (
	"time"

	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// Status represents the status of a backend-owned order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses returns every order status
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The relation is advisory for the dashboard; the backend stays
// authoritative for the transition itself.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// AllowedTransitions returns the statuses reachable from this one, in the
// fixed display order. Used to populate the dashboard's status dropdown.
func (s Status) AllowedTransitions() []Status {
	allowed := make([]Status, 0, 2)
	for _, target := range Statuses() {
		if s.CanTransitionTo(target) {
			allowed = append(allowed, target)
		}
	}
	return allowed
}

// Item is one (productId, quantity) pair of a backend order
type Item struct {
	ProductID string
	Quantity  int
}

// Order is the dashboard's view of a backend-owned order. The backend
// computes the authoritative total; it is carried here for display only.
type Order struct {
	ID        string
	FullName  string
	Phone     string
	Address   string
	Size      string
	Items     []Item
	Total     valueobject.Money
	Status    Status
	CreatedAt time.Time
}

// ValidateStatusValue rejects status strings outside the fixed set before
// any network call is made
func ValidateStatusValue(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Status must be one of pending, confirmed, shipped, delivered, cancelled")
	}
	return s, nil
}
