// Package variant resolves a chosen size/color pair against a product's
// variant list and derives effective price and available stock.
package variant

import (
	"sort"

	"storefront-gateway/internal/domain"
)

// AvailableSizes lists all distinct non-empty sizes, sorted for stable
// picker ordering.
func AvailableSizes(variants []domain.Variant) []string {
	return distinct(variants, func(v domain.Variant) string { return v.Size })
}

// AvailableColors lists colors the picker may offer. When a size is selected
// only colors that co-occur with that size are returned; this narrowing is
// one-directional — color selection never filters size options.
func AvailableColors(variants []domain.Variant, selectedSize string) []string {
	if selectedSize == "" {
		return distinct(variants, func(v domain.Variant) string { return v.Color })
	}
	matching := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		if v.Size == selectedSize {
			matching = append(matching, v)
		}
	}
	return distinct(matching, func(v domain.Variant) string { return v.Color })
}

// RetainColor keeps the current color selection across a size change, or
// clears it when the color no longer co-occurs with the new size.
func RetainColor(variants []domain.Variant, newSize, color string) string {
	if color == "" {
		return ""
	}
	for _, c := range AvailableColors(variants, newSize) {
		if c == color {
			return color
		}
	}
	return ""
}

// Resolve finds the variant matching the selection exactly. A dimension the
// product never declares (all sizes empty, or all colors empty) is not
// required and is ignored during matching. Products with no variants at all
// fall back to an implicit default variant carrying the product's own price
// and quantity; legacy products were never migrated to variants and still
// rely on this.
func Resolve(p domain.Product, size, color string) (*domain.Variant, error) {
	if len(p.Variants) == 0 {
		return &domain.Variant{
			ProductID: p.ID,
			Price:     p.Price,
			Quantity:  p.Quantity,
			SKU:       p.ProductCode,
		}, nil
	}

	sizeRequired := len(AvailableSizes(p.Variants)) > 0
	colorRequired := len(AvailableColors(p.Variants, "")) > 0

	if sizeRequired && size == "" {
		return nil, domain.ErrVariantNotFound
	}
	if colorRequired && color == "" {
		return nil, domain.ErrVariantNotFound
	}

	for i := range p.Variants {
		v := p.Variants[i]
		if sizeRequired && v.Size != size {
			continue
		}
		if colorRequired && v.Color != color {
			continue
		}
		return &v, nil
	}
	return nil, domain.ErrVariantNotFound
}

// AvailableQuantity returns the variant's stock, or 0 for an unresolved
// variant.
func AvailableQuantity(v *domain.Variant) int {
	if v == nil {
		return 0
	}
	return v.Quantity
}

func distinct(variants []domain.Variant, field func(domain.Variant) string) []string {
	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		val := field(v)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}
