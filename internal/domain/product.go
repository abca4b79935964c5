package domain

import (
	"time"
)

// Product is the catalog read model served by search and catalog endpoints.
// Attributes is a semi-structured bag (brand, color, storage, ...) stored as
// JSONB.
type Product struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	SalePrice    *float64       `json:"sale_price,omitempty"`
	Stock        int            `json:"stock"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Rating       float64        `json:"rating"`
	ReviewCount  int            `json:"review_count"`
	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name,omitempty"`
	SellerID     string         `json:"seller_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// EffectivePrice returns the sale price when set, otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Brand returns the brand attribute, or "" when absent.
func (p *Product) Brand() string {
	if p.Attributes == nil {
		return ""
	}
	if b, ok := p.Attributes["brand"].(string); ok {
		return b
	}
	return ""
}

// Category is a product grouping.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
