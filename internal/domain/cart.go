package domain

import "github.com/shopspring/decimal"

// Cart mirrors the server-side cart for one anonymous session. TotalAmount
// and ItemCount are always taken from the server response, never recomputed
// locally as the authoritative value.
type Cart struct {
	SessionID   string          `json:"sessionId"`
	Items       []CartLineItem  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

// CartLineItem is one entry in a cart. ID is assigned by the remote service
// and is the only identity mutation calls may use.
type CartLineItem struct {
	ID            string           `json:"cartItemId"`
	ProductID     string           `json:"productId"`
	VariantID     string           `json:"variantId"`
	ProductName   string           `json:"productName,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	Size          string           `json:"size,omitempty"`
	Color         string           `json:"color,omitempty"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`

	// Variants caches the product's variant list when the server response
	// nests it, so the item editor can re-resolve without a product fetch.
	Variants []Variant `json:"-"`
}

// LineTotal is a display-only preview of price times quantity; authoritative
// totals always come from the server.
func (li CartLineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Empty reports whether the cart has no line items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
