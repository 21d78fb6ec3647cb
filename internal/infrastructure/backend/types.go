package backend

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// flexibleID accepts both string and numeric identifiers. The commerce API
// is not consistent about which one it emits.
type flexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// productRecord mirrors the backend's product payload
type productRecord struct {
	ID          flexibleID      `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
}

// toDomain converts a wire record to the catalog view. Records that only
// carry a single image field are normalized into the images slice.
func (r productRecord) toDomain() catalog.Product {
	images := r.Images
	if len(images) == 0 && r.Image != "" {
		images = []string{r.Image}
	}
	return catalog.Product{
		ID:          string(r.ID),
		Name:        r.Name,
		Category:    catalog.Category(r.Category),
		Price:       valueobject.NewMoneyUSD(r.Price),
		Description: r.Description,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		Images:      images,
	}
}

// productPayload is the body sent on admin product create and update
type productPayload struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Images      []string    `json:"images,omitempty"`
}

func newProductPayload(input catalog.ProductInput) productPayload {
	return productPayload{
		Name:        input.Name,
		Category:    string(input.Category),
		Price:       json.Number(input.Price.StringFixed(2)),
		Description: input.Description,
		Images:      input.Images,
	}
}

// orderItemRecord mirrors one line of a backend order
type orderItemRecord struct {
	ProductID flexibleID `json:"productId"`
	Quantity  int        `json:"quantity"`
}

// orderRecord mirrors the backend's order payload
type orderRecord struct {
	ID        flexibleID        `json:"id"`
	FullName  string            `json:"fullName"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Size      string            `json:"size"`
	Items     []orderItemRecord `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (r orderRecord) toDomain() order.Order {
	items := make([]order.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, order.Item{
			ProductID: string(it.ProductID),
			Quantity:  it.Quantity,
		})
	}

	status := order.Status(strings.ToLower(r.Status))
	if r.Status == "" {
		// Freshly created orders start their lifecycle at pending
		status = order.StatusPending
	}

	return order.Order{
		ID:        string(r.ID),
		FullName:  r.FullName,
		Phone:     r.Phone,
		Address:   r.Address,
		Size:      r.Size,
		Items:     items,
		Total:     valueobject.NewMoneyUSD(r.Total),
		Status:    status,
		CreatedAt: r.CreatedAt,
	}
}

// statusPayload is the body sent on admin order status updates
type statusPayload struct {
	Status string `json:"status"`
}
