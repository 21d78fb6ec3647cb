package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// Line represents one (product, quantity) pair in the cart
type Line struct {
	Product   catalog.Product
	Quantity  int
	AddedAt   time.Time
	UpdatedAt time.Time
}

// Total returns the line total as price * quantity
func (l Line) Total() valueobject.Money {
	return l.Product.Price.MultiplyByInt(int64(l.Quantity))
}

// Cart is the per-session cart aggregate. Lines are ordered by insertion
// and keyed by product ID: at most one line per product, all quantities >= 1.
// All operations are pure state transitions; the cart performs no I/O.
type Cart struct {
	shared.BaseAggregateRoot
	SessionID           uuid.UUID
	Lines               []Line
	CheckoutOpen        bool
	ConfirmationMessage *string
}

// NewCart creates an empty cart for the session
func NewCart(sessionID uuid.UUID) (*Cart, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	c := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Lines:             make([]Line, 0),
	}
	c.ID = sessionID

	return c, nil
}

// AddItem adds one unit of the product. If a line for the product already
// exists its quantity is incremented; otherwise a new line is appended at
// the end. Existing line order is preserved.
func (c *Cart) AddItem(product catalog.Product) error {
	if product.ID == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	now := time.Now()
	for idx := range c.Lines {
		if c.Lines[idx].Product.ID == product.ID {
			c.Lines[idx].Quantity++
			c.Lines[idx].UpdatedAt = now
			c.UpdatedAt = now
			return nil
		}
	}

	c.Lines = append(c.Lines, Line{
		Product:   product,
		Quantity:  1,
		AddedAt:   now,
		UpdatedAt: now,
	})
	c.UpdatedAt = now

	return nil
}

// UpdateQuantity sets the line's quantity. A quantity of zero or less
// removes the line entirely; quantity zero is never stored. An absent
// product ID is a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	now := time.Now()
	for idx := range c.Lines {
		if c.Lines[idx].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		} else {
			c.Lines[idx].Quantity = quantity
			c.Lines[idx].UpdatedAt = now
		}
		c.UpdatedAt = now
		return
	}
}

// ToggleCheckout sets checkout-modal visibility
func (c *Cart) ToggleCheckout(open bool) {
	c.CheckoutOpen = open
	c.UpdatedAt = time.Now()
}

// SetConfirmationMessage sets the transient banner shown in the checkout
// flow; nil clears it
func (c *Cart) SetConfirmationMessage(message *string) {
	c.ConfirmationMessage = message
	c.UpdatedAt = time.Now()
}

// Reset clears all lines. Visibility and the confirmation message are left
// as they are, so a banner raised on order success survives the reset.
func (c *Cart) Reset() {
	c.Lines = make([]Line, 0)
	c.UpdatedAt = time.Now()
}

// Subtotal returns the display total: the sum of price * quantity over all
// lines. All prices share the default currency.
func (c *Cart) Subtotal() valueobject.Money {
	total := valueobject.Zero(valueobject.DefaultCurrency)
	for _, line := range c.Lines {
		total = total.MustAdd(line.Total())
	}
	return total
}

// Line returns the line for the product, if present
func (c *Cart) Line(productID string) (*Line, bool) {
	for idx := range c.Lines {
		if c.Lines[idx].Product.ID == productID {
			return &c.Lines[idx], true
		}
	}
	return nil, false
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Lines)
}

// TotalQuantity returns the total number of units across all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// IsEmpty returns true when the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
