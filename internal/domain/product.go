package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ProductCode string          `json:"productCode"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Variants    []Variant       `json:"variants,omitempty"`
	Images      []Image         `json:"images,omitempty"`
}

// Variant is one size/color/SKU combination of a product. Quantity is the
// sole stock authority; there is no separate in-stock flag.
type Variant struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Size      string           `json:"size,omitempty"`
	Color     string           `json:"color,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Quantity  int              `json:"quantity"`
	SKU       string           `json:"sku"`
}

// EffectivePrice is the price actually charged: the sale price when present
// and positive, otherwise the list price.
func (v Variant) EffectivePrice() decimal.Decimal {
	if v.SalePrice != nil && v.SalePrice.IsPositive() {
		return *v.SalePrice
	}
	return v.Price
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// MainImageURL returns the first image URL, or "" when the product has none.
func (p Product) MainImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
