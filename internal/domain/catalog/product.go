package catalog

import (
	"strings"

	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

// Category represents a product category from the fixed storefront set
type Category string

const (
	CategoryStreetwear  Category = "Streetwear"
	CategoryFormal      Category = "Formal"
	CategoryCasual      Category = "Casual"
	CategoryAccessories Category = "Accessories"
	CategoryFootwear    Category = "Footwear"

	// CategoryAll is the filter wildcard, never a product's own category
	CategoryAll Category = "All"
)

// Categories returns all assignable product categories
func Categories() []Category {
	return []Category{
		CategoryStreetwear,
		CategoryFormal,
		CategoryCasual,
		CategoryAccessories,
		CategoryFootwear,
	}
}

// IsValid checks if the category is an assignable product category
func (c Category) IsValid() bool {
	switch c {
	case CategoryStreetwear, CategoryFormal, CategoryCasual, CategoryAccessories, CategoryFootwear:
		return true
	}
	return false
}

// Product is the storefront's view of a backend-owned product.
// It is immutable here; the backend owns creation and mutation.
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       valueobject.Money
	Description string
	Rating      float64
	Reviews     int
	Images      []string
}

// PrimaryImage returns the first image reference, or empty if there is none
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductInput carries the fields an admin submits when creating or
// updating a product. Validation here is advisory; the backend decides.
type ProductInput struct {
	Name        string
	Category    Category
	Price       valueobject.Money
	Description string
	Images      []string
}

// Validate checks the input before it is forwarded to the backend
func (in ProductInput) Validate() error {
	if err := validateProductName(in.Name); err != nil {
		return err
	}
	if !in.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Category must be one of the storefront categories")
	}
	if in.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
