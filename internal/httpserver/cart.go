package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/service/cart"
	"storefront-gateway/internal/variant"
)

type cartHandlers struct {
	deps   Deps
	logger *log.Logger
}

type addItemBody struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateQuantityBody struct {
	Quantity int `json:"quantity"`
}

func (h *cartHandlers) store(c *gin.Context) *cart.Store {
	return h.deps.Carts.ForSession(sessionID(c))
}

func (h *cartHandlers) getCart(c *gin.Context) {
	force := c.Query("reload") == "1"
	snap, err := h.store(c).Load(c.Request.Context(), force)
	if err != nil {
		h.logger.Printf("cart load failed for session %s: %v", sessionID(c), err)
		respond(c, http.StatusBadGateway, false, "Could not load your cart", nil)
		return
	}
	respondCart(c, http.StatusOK, true, "", snap)
}

func (h *cartHandlers) addItem(c *gin.Context) {
	var body addItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, false, "Invalid request body", nil)
		return
	}

	product, err := h.deps.Products.GetProduct(c.Request.Context(), body.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respond(c, http.StatusNotFound, false, "Product not found", nil)
			return
		}
		respond(c, http.StatusBadGateway, false, "Could not load the product", nil)
		return
	}

	store := h.store(c)
	res := store.Add(c.Request.Context(), *product, body.Size, body.Color, body.Quantity)
	respondCart(c, statusFor(res), res.Success, res.Message, store.Snapshot())
}

func (h *cartHandlers) updateQuantity(c *gin.Context) {
	var body updateQuantityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, false, "Invalid request body", nil)
		return
	}

	store := h.store(c)
	res := store.UpdateQuantity(c.Request.Context(), c.Param("itemID"), body.Quantity)
	respondCart(c, statusFor(res), res.Success, res.Message, store.Snapshot())
}

func (h *cartHandlers) removeItem(c *gin.Context) {
	store := h.store(c)
	res := store.Remove(c.Request.Context(), c.Param("itemID"))
	respondCart(c, statusFor(res), res.Success, res.Message, store.Snapshot())
}

func (h *cartHandlers) clearCart(c *gin.Context) {
	store := h.store(c)
	res := store.Clear(c.Request.Context())
	respondCart(c, statusFor(res), res.Success, res.Message, store.Snapshot())
}

// editItem applies a size/color/quantity change to an existing line item.
func (h *cartHandlers) editItem(c *gin.Context) {
	var change cart.Change
	if err := c.ShouldBindJSON(&change); err != nil {
		respond(c, http.StatusBadRequest, false, "Invalid request body", nil)
		return
	}

	store := h.store(c)
	item, ok := findItem(store.Snapshot(), c.Param("itemID"))
	if !ok {
		respond(c, http.StatusNotFound, false, "Cart item not found", nil)
		return
	}

	res := h.deps.Editor.Apply(c.Request.Context(), store, item, change)
	respondCart(c, statusFor(res), res.Success, res.Message, store.Snapshot())
}

// itemOptions lists the size/color choices for editing an existing item.
func (h *cartHandlers) itemOptions(c *gin.Context) {
	store := h.store(c)
	item, ok := findItem(store.Snapshot(), c.Param("itemID"))
	if !ok {
		respond(c, http.StatusNotFound, false, "Cart item not found", nil)
		return
	}

	opts := h.deps.Editor.OptionsFor(c.Request.Context(), item, c.Query("size"))
	respond(c, http.StatusOK, true, "", opts)
}

// productOptions feeds the product page pickers: all sizes, the colors valid
// for the selected size, and the color selection after the one-directional
// narrowing rule is applied.
func (h *cartHandlers) productOptions(c *gin.Context) {
	product, err := h.deps.Products.GetProduct(c.Request.Context(), c.Param("productID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respond(c, http.StatusNotFound, false, "Product not found", nil)
			return
		}
		respond(c, http.StatusBadGateway, false, "Could not load the product", nil)
		return
	}

	size := c.Query("size")
	color := variant.RetainColor(product.Variants, size, c.Query("color"))
	respond(c, http.StatusOK, true, "", gin.H{
		"sizes":         variant.AvailableSizes(product.Variants),
		"colors":        variant.AvailableColors(product.Variants, size),
		"selectedColor": color,
	})
}

func findItem(snap domain.Cart, itemID string) (domain.CartLineItem, bool) {
	for _, it := range snap.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return domain.CartLineItem{}, false
}

func statusFor(res cart.Result) int {
	if res.Success {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}
