package storefront

import (
	"github.com/AdamBejaoui/project-frontend/internal/domain/cart"
	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/showcase"
)

// ProductView is the serialized storefront product. Image references are
// resolved against the backend base by the time a view is built.
type ProductView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Images      []string `json:"images"`
}

// ToProductView converts a product to its serialized form
func ToProductView(p catalog.Product) ProductView {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		Images:      images,
	}
}

// ToProductViews converts a product list, preserving order
func ToProductViews(products []catalog.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToProductView(p))
	}
	return views
}

// CartLineView is one serialized cart line
type CartLineView struct {
	Product   ProductView `json:"product"`
	Quantity  int         `json:"quantity"`
	LineTotal string      `json:"lineTotal"`
}

// CartView is the serialized cart state
type CartView struct {
	Items               []CartLineView `json:"items"`
	Subtotal            string         `json:"subtotal"`
	TotalQuantity       int            `json:"totalQuantity"`
	CheckoutOpen        bool           `json:"checkoutOpen"`
	ConfirmationMessage *string        `json:"confirmationMessage,omitempty"`
}

// ToCartView converts a cart to its serialized form. The subtotal is a
// display value only; authoritative totals are computed backend-side.
func ToCartView(c *cart.Cart) CartView {
	items := make([]CartLineView, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, CartLineView{
			Product:   ToProductView(line.Product),
			Quantity:  line.Quantity,
			LineTotal: line.Total().StringFixed(2),
		})
	}
	return CartView{
		Items:               items,
		Subtotal:            c.Subtotal().StringFixed(2),
		TotalQuantity:       c.TotalQuantity(),
		CheckoutOpen:        c.CheckoutOpen,
		ConfirmationMessage: c.ConfirmationMessage,
	}
}

// DetailsView echoes the delivery details typed so far
type DetailsView struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Size     string `json:"size"`
}

// CheckoutView is the serialized checkout flow state. It carries the cart
// subtotal for display and the confirmation banner raised on success.
type CheckoutView struct {
	State               string      `json:"state"`
	Details             DetailsView `json:"details"`
	Subtotal            string      `json:"subtotal"`
	ErrorMessage        *string     `json:"errorMessage,omitempty"`
	ConfirmationMessage *string     `json:"confirmationMessage,omitempty"`
	Sizes               []string    `json:"sizes"`
}

// ToCheckoutView converts the flow and its cart to the serialized form
func ToCheckoutView(f *checkout.Flow, c *cart.Cart) CheckoutView {
	sizes := checkout.Sizes()
	sizeValues := make([]string, 0, len(sizes))
	for _, s := range sizes {
		sizeValues = append(sizeValues, string(s))
	}

	return CheckoutView{
		State: f.State.String(),
		Details: DetailsView{
			FullName: f.Details.FullName,
			Phone:    f.Details.Phone,
			Address:  f.Details.Address,
			Size:     string(f.Details.Size),
		},
		Subtotal:            c.Subtotal().StringFixed(2),
		ErrorMessage:        f.ErrorMessage,
		ConfirmationMessage: c.ConfirmationMessage,
		Sizes:               sizeValues,
	}
}

// OverlayView is the serialized image overlay state. A closed overlay
// serializes as {open: false} with no product.
type OverlayView struct {
	Open        bool         `json:"open"`
	Product     *ProductView `json:"product,omitempty"`
	ActiveIndex int          `json:"activeIndex"`
	ActiveImage string       `json:"activeImage,omitempty"`
	Rotating    bool         `json:"rotating"`
	ImageCount  int          `json:"imageCount"`
}

// ToOverlayView converts an overlay to its serialized form; nil means closed
func ToOverlayView(o *showcase.Overlay) OverlayView {
	if o == nil {
		return OverlayView{Open: false}
	}
	product := ToProductView(o.Product)
	return OverlayView{
		Open:        true,
		Product:     &product,
		ActiveIndex: o.ActiveIndex,
		ActiveImage: o.ActiveImage(),
		Rotating:    o.Rotating,
		ImageCount:  len(o.Product.Images),
	}
}
