package domain

import "github.com/shopspring/decimal"

// Category is the closed set of product categories.
type Category string

const (
	CategoryBook     Category = "book"
	CategoryDevice   Category = "device"
	CategoryClothing Category = "clothing"
)

// ValidCategory reports whether c is one of the defined categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryBook, CategoryDevice, CategoryClothing:
		return true
	}
	return false
}

// Dimensions are the physical dimensions of a product in centimeters. All
// values must be positive.
type Dimensions struct {
	W float64
	H float64
	D float64
}

// Product is a catalog entry. IDs are sequential and collection-scoped; the
// SKU is unique case-insensitively.
type Product struct {
	ID         int64
	SKU        string
	Name       string
	Price      decimal.Decimal
	Category   Category
	Tags       []string
	Dimensions *Dimensions
}
