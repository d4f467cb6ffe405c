package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Categories is the fixed set of product categories a product may belong to.
var Categories = []string{"Running", "Basketball", "Casual", "Skateboarding", "Kids", "Women"}

// IsValidCategory reports whether c is one of Categories. The match is exact.
func IsValidCategory(c string) bool {
	for _, category := range Categories {
		if category == c {
			return true
		}
	}
	return false
}

// MaxPrice is the exclusive upper bound on a product price. Prices carry at
// most PriceScale decimal places; together these fit the numeric(12,2) column.
var MaxPrice = decimal.New(1, 10)

// PriceScale is the number of decimal places a price may have.
const PriceScale = 2

// Product represents a shoe in the store catalog.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Category    string          `json:"category" gorm:"type:varchar(32);not null;index"`
	Image       string          `json:"image" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:varchar(500);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Case-folded copies of the searchable columns. SQL LOWER() only folds
	// ASCII on SQLite, so matching runs against these instead.
	NameFolded        string `json:"-" gorm:"type:varchar(400);not null;default:''"`
	CategoryFolded    string `json:"-" gorm:"type:varchar(128);not null;default:'';index"`
	DescriptionFolded string `json:"-" gorm:"type:varchar(2000);not null;default:''"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// FormattedPrice renders the price in dollars, e.g. "$120.00".
func (p Product) FormattedPrice() string {
	return "$" + p.Price.StringFixed(2)
}

// IsOnSale reports whether the product is priced under $100.
func (p Product) IsOnSale() bool {
	return p.Price.LessThan(decimal.NewFromInt(100))
}

// MarshalJSON adds the display fields formatted_price and on_sale.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		FormattedPrice string `json:"formatted_price"`
		OnSale         bool   `json:"on_sale"`
	}{
		product:        product(p),
		FormattedPrice: p.FormattedPrice(),
		OnSale:         p.IsOnSale(),
	})
}

// ProductInput is the candidate field set for creating or replacing a product.
type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"-"`
	Category    string           `json:"category" validate:"required,category"`
	Image       string           `json:"image" validate:"required,max=255"`
	Description string           `json:"description" validate:"required,max=500"`
}

// ProductQuery narrows a product listing. Zero values mean "no constraint".
type ProductQuery struct {
	// Category matches case-insensitively and exactly.
	Category string
	// Search matches case-insensitively as a substring of name, description or category.
	Search string
	// ExcludeID drops a single product from the result.
	ExcludeID string
	Limit     int
}
