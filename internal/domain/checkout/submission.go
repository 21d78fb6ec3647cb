package checkout

import (
	"github.com/AdamBejaoui/project-frontend/internal/domain/cart"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// SubmissionItem is one (productId, quantity) pair of the order payload
type SubmissionItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Submission is the order-creation payload sent to the backend. The
// displayed total is never part of it; the backend prices the item list
// itself.
type Submission struct {
	FullName string           `json:"fullName"`
	Phone    string           `json:"phone"`
	Address  string           `json:"address"`
	Size     string           `json:"size"`
	Items    []SubmissionItem `json:"items"`
}

// NewSubmission derives the order payload from the delivery details and the
// current cart. An empty cart cannot be submitted.
func NewSubmission(details Details, c *cart.Cart) (Submission, error) {
	if c == nil || c.IsEmpty() {
		return Submission{}, shared.NewDomainError("CART_EMPTY", "Your cart is currently empty")
	}

	items := make([]SubmissionItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, SubmissionItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}

	return Submission{
		FullName: details.FullName,
		Phone:    details.Phone,
		Address:  details.Address,
		Size:     string(details.Size),
		Items:    items,
	}, nil
}
