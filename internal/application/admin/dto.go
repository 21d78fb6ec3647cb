package admin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// ProductRequest is the admin payload for creating or updating a product
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description" binding:"max=2000"`
	Images      []string        `json:"images"`
}

// ToInput converts the request to the domain input forwarded to the backend
func (r ProductRequest) ToInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		Category:    catalog.Category(r.Category),
		Price:       valueobject.NewMoneyUSD(r.Price),
		Description: r.Description,
		Images:      r.Images,
	}
}

// UpdateOrderStatusRequest is the admin payload for an order status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ProductView is the serialized admin product
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

// ToProductView converts a product to its serialized admin form
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

// OrderItemView is one serialized order line
type OrderItemView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderView is the serialized dashboard order. AllowedTransitions carries
// the statuses the dashboard may offer next, derived from the status machine.
type OrderView struct {
	ID                 string          `json:"id"`
	FullName           string          `json:"fullName"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	Size               string          `json:"size"`
	Items              []OrderItemView `json:"items"`
	Total              string          `json:"total"`
	Status             string          `json:"status"`
	AllowedTransitions []string        `json:"allowedTransitions"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToOrderView converts an order to its serialized dashboard form
func ToOrderView(o order.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	transitions := o.Status.AllowedTransitions()
	allowed := make([]string, 0, len(transitions))
	for _, s := range transitions {
		allowed = append(allowed, s.String())
	}

	return OrderView{
		ID:                 o.ID,
		FullName:           o.FullName,
		Phone:              o.Phone,
		Address:            o.Address,
		Size:               o.Size,
		Items:              items,
		Total:              o.Total.StringFixed(2),
		Status:             o.Status.String(),
		AllowedTransitions: allowed,
		CreatedAt:          o.CreatedAt,
	}
}

// ToOrderViews converts an order list, preserving order
func ToOrderViews(orders []order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ToOrderView(o))
	}
	return views
}
