package catalog

import "strings"

// Filter narrows a product list by category and search term.
// Both conditions must hold for a product to pass.
type Filter struct {
	// Category selects a single category; CategoryAll (or empty) matches every product
	Category Category
	// Search is matched case-insensitively as a substring of name or description;
	// empty matches every product
	Search string
}

// Matches reports whether the product passes the filter
func (f Filter) Matches(p Product) bool {
	return f.matchesCategory(p) && f.matchesSearch(p)
}

func (f Filter) matchesCategory(p Product) bool {
	if f.Category == "" || f.Category == CategoryAll {
		return true
	}
	return p.Category == f.Category
}

func (f Filter) matchesSearch(p Product) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// FilterProducts returns the products that pass the filter, preserving order.
// The input slice is never mutated.
func FilterProducts(products []Product, f Filter) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}
