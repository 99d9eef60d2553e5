package cart

import (
	"context"
	"log"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/variant"
)

// ProductAPI is the slice of the upstream client the editor consumes.
type ProductAPI interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Editor changes size, color or quantity of an existing line item. A changed
// size/color means a new variant identity: the remote API has no atomic swap
// endpoint, so the editor removes and re-adds, restoring the original
// selection when the re-add fails.
type Editor struct {
	products ProductAPI
	logger   *log.Logger
}

func NewEditor(products ProductAPI, logger *log.Logger) *Editor {
	return &Editor{products: products, logger: logger}
}

// Change is the prospective new selection for a line item.
type Change struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// Options are the size/color choices offered while editing. Degraded is set
// when the variant list could not be loaded and generic defaults stand in so
// the dialog stays usable.
type Options struct {
	Sizes    []string `json:"sizes"`
	Colors   []string `json:"colors"`
	Degraded bool     `json:"degraded,omitempty"`
}

var (
	defaultSizes  = []string{"S", "M", "L", "XL"}
	defaultColors = []string{"Black", "White", "Gray", "Navy"}
)

// OptionsFor lists the sizes and the colors valid for the selected size,
// preferring the variant cache on the line item over a product fetch.
func (e *Editor) OptionsFor(ctx context.Context, item domain.CartLineItem, selectedSize string) Options {
	variants, err := e.variantsFor(ctx, item)
	if err != nil || len(variants) == 0 {
		if err != nil {
			e.logger.Printf("variant options for product %s unavailable: %v", item.ProductID, err)
		}
		return Options{Sizes: defaultSizes, Colors: defaultColors, Degraded: true}
	}
	size := selectedSize
	if size == "" {
		size = item.Size
	}
	return Options{
		Sizes:  variant.AvailableSizes(variants),
		Colors: variant.AvailableColors(variants, size),
	}
}

// Apply commits a change to the given line item through the store.
func (e *Editor) Apply(ctx context.Context, store *Store, item domain.CartLineItem, ch Change) Result {
	identityChanged := ch.Size != item.Size || ch.Color != item.Color
	if !identityChanged && ch.Quantity == item.Quantity {
		return success("No changes to apply")
	}

	// Quantity zero is a removal, never an update call with 0.
	if ch.Quantity < 1 {
		return store.Remove(ctx, item.ID)
	}

	product, err := e.productFor(ctx, item)
	if err != nil {
		e.logger.Printf("product %s unavailable while editing item %s: %v", item.ProductID, item.ID, err)
		return failure("Could not load product details, please try again")
	}

	target, err := variant.Resolve(*product, ch.Size, ch.Color)
	if err != nil {
		return failure("Selected variant not available")
	}
	if err := domain.CheckStock(ch.Quantity, variant.AvailableQuantity(target)); err != nil {
		return failure(stockMessage(err))
	}

	if !identityChanged {
		return store.UpdateQuantity(ctx, item.ID, ch.Quantity)
	}

	if res := store.Remove(ctx, item.ID); !res.Success {
		return res
	}
	res := store.Add(ctx, *product, ch.Size, ch.Color, ch.Quantity)
	if !res.Success {
		// The original item is already gone; re-add it so a failed swap does
		// not silently lose it.
		if rb := store.Add(ctx, *product, item.Size, item.Color, item.Quantity); !rb.Success {
			e.logger.Printf("rollback after failed variant swap lost item %s: %s", item.ID, rb.Message)
			return failure("Could not change the variant and the original item could not be restored")
		}
		return failure(res.Message)
	}
	return res
}

// productFor reconstructs enough of the product to resolve variants: the
// cached variant list on the item when present, otherwise a fresh fetch.
func (e *Editor) productFor(ctx context.Context, item domain.CartLineItem) (*domain.Product, error) {
	if len(item.Variants) > 0 {
		return &domain.Product{
			ID:       item.ProductID,
			Name:     item.ProductName,
			Variants: item.Variants,
		}, nil
	}
	return e.products.GetProduct(ctx, item.ProductID)
}

func (e *Editor) variantsFor(ctx context.Context, item domain.CartLineItem) ([]domain.Variant, error) {
	if len(item.Variants) > 0 {
		return item.Variants, nil
	}
	p, err := e.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	return p.Variants, nil
}
