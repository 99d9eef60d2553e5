package upstream

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
)

// envelope is the remote service's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type cartPayload struct {
	Cart     *wireCart  `json:"cart"`
	Items    []wireItem `json:"items"`
	CartItem *wireItem  `json:"cart_item"`
}

type wireCart struct {
	SessionID   string          `json:"session_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Items       []wireItem      `json:"items,omitempty"`
}

type wireItem struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	VariantID     string           `json:"variant_id"`
	Size          string           `json:"size,omitempty"`
	Color         string           `json:"color,omitempty"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Product       *wireProduct     `json:"product,omitempty"`
	Variant       *wireVariant     `json:"variant,omitempty"`
}

type wireProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Variants    []wireVariant   `json:"variants,omitempty"`
	Images      []wireImage     `json:"images,omitempty"`
}

type wireVariant struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Size      string           `json:"size,omitempty"`
	Color     string           `json:"color,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Quantity  int              `json:"quantity"`
	SKU       string           `json:"sku"`
}

type wireImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// AddItemRequest is the body of POST /cart/add.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	SessionID string `json:"session_id"`
}

// AddOutcomeKind tags the three response shapes the add endpoint produces.
// The store pattern-matches on the tag instead of probing object shapes.
type AddOutcomeKind int

const (
	// AddOutcomeFullItems carries the complete updated item list and totals.
	AddOutcomeFullItems AddOutcomeKind = iota + 1
	// AddOutcomeSingleItem carries only the created line item.
	AddOutcomeSingleItem
	// AddOutcomeCartOnly carries totals without any usable item data.
	AddOutcomeCartOnly
)

// AddOutcome is the decoded result of an add-to-cart call. Cart is populated
// only for AddOutcomeFullItems; anything else is insufficient to reconcile
// locally and callers must re-fetch the cart.
type AddOutcome struct {
	Kind    AddOutcomeKind
	Message string
	Cart    *domain.Cart
	Item    *domain.CartLineItem
}

func (p cartPayload) addOutcome(sessionID, message string) AddOutcome {
	items := p.Items
	if len(items) == 0 && p.Cart != nil {
		items = p.Cart.Items
	}
	if len(items) > 0 {
		return AddOutcome{
			Kind:    AddOutcomeFullItems,
			Message: message,
			Cart:    p.toDomainCart(sessionID),
		}
	}
	if p.CartItem != nil {
		item := p.CartItem.toDomain()
		return AddOutcome{Kind: AddOutcomeSingleItem, Message: message, Item: &item}
	}
	return AddOutcome{Kind: AddOutcomeCartOnly, Message: message}
}

func (p cartPayload) toDomainCart(sessionID string) *domain.Cart {
	cart := domain.Cart{SessionID: sessionID}
	items := p.Items
	if p.Cart != nil {
		if p.Cart.SessionID != "" {
			cart.SessionID = p.Cart.SessionID
		}
		cart.TotalAmount = p.Cart.TotalAmount
		cart.ItemCount = p.Cart.ItemCount
		if len(items) == 0 {
			items = p.Cart.Items
		}
	}
	cart.Items = make([]domain.CartLineItem, 0, len(items))
	for _, it := range items {
		cart.Items = append(cart.Items, it.toDomain())
	}
	return &cart
}

// toDomain re-derives display name, image and price from the nested
// variant/product payload when the server sends one; a stale local snapshot
// is never preferred over fresh server data.
func (it wireItem) toDomain() domain.CartLineItem {
	item := domain.CartLineItem{
		ID:            it.ID,
		ProductID:     it.ProductID,
		VariantID:     it.VariantID,
		Size:          it.Size,
		Color:         it.Color,
		Quantity:      it.Quantity,
		UnitPrice:     it.UnitPrice,
		OriginalPrice: it.OriginalPrice,
	}
	if it.Product != nil {
		item.ProductName = it.Product.Name
		if len(it.Product.Images) > 0 {
			item.ImageURL = it.Product.Images[0].URL
		}
		item.Variants = toDomainVariants(it.Product.Variants)
	}
	if it.Variant != nil {
		v := it.Variant.toDomain()
		item.UnitPrice = v.EffectivePrice()
		if v.SalePrice != nil && v.SalePrice.IsPositive() {
			price := v.Price
			item.OriginalPrice = &price
		}
	}
	return item
}

func (v wireVariant) toDomain() domain.Variant {
	return domain.Variant{
		ID:        v.ID,
		ProductID: v.ProductID,
		Size:      v.Size,
		Color:     v.Color,
		Price:     v.Price,
		SalePrice: v.SalePrice,
		Quantity:  v.Quantity,
		SKU:       v.SKU,
	}
}

func toDomainVariants(in []wireVariant) []domain.Variant {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Variant, 0, len(in))
	for _, v := range in {
		out = append(out, v.toDomain())
	}
	return out
}

func (p wireProduct) toDomain() domain.Product {
	product := domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		ProductCode: p.ProductCode,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Variants:    toDomainVariants(p.Variants),
	}
	for _, img := range p.Images {
		product.Images = append(product.Images, domain.Image{URL: img.URL, Alt: img.Alt})
	}
	return product
}
