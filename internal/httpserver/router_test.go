package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/service/cart"
	"storefront-gateway/internal/service/session"
	"storefront-gateway/internal/upstream"
)

type stubRemote struct {
	cart       *domain.Cart
	getErr     error
	addOutcome upstream.AddOutcome
	addErr     error
	product    *domain.Product
	productErr error
}

func (s *stubRemote) GetCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cart != nil {
		return s.cart, nil
	}
	return &domain.Cart{SessionID: sessionID}, nil
}

func (s *stubRemote) AddItem(_ context.Context, _ upstream.AddItemRequest) (upstream.AddOutcome, error) {
	return s.addOutcome, s.addErr
}

func (s *stubRemote) UpdateItemQuantity(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return &domain.Cart{}, nil
}

func (s *stubRemote) RemoveItem(_ context.Context, _, _ string) (*domain.Cart, error) {
	return &domain.Cart{}, nil
}

func (s *stubRemote) ClearCart(_ context.Context, _ string) error {
	return nil
}

func (s *stubRemote) GetProduct(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.productErr
}

func testRouter(t *testing.T, remote *stubRemote) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := log.New(io.Discard, "", 0)
	sessions := session.New(session.NewFileStore(t.TempDir()), logger)
	return buildRouter(logger, Deps{
		Sessions:       sessions,
		Carts:          cart.NewRegistry(remote, logger),
		Editor:         cart.NewEditor(remote, logger),
		Products:       remote,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func testProduct() *domain.Product {
	sale := decimal.NewFromInt(800)
	return &domain.Product{
		ID:   "p1",
		Name: "Oxford Shirt",
		Variants: []domain.Variant{
			{ID: "v1", ProductID: "p1", Size: "M", Color: "Black", Price: decimal.NewFromInt(1000), SalePrice: &sale, Quantity: 5},
			{ID: "v2", ProductID: "p1", Size: "M", Color: "White", Price: decimal.NewFromInt(1000), Quantity: 0},
			{ID: "v3", ProductID: "p1", Size: "L", Color: "Navy", Price: decimal.NewFromInt(1000), Quantity: 2},
		},
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, &stubRemote{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetCartIssuesSessionCookie(t *testing.T) {
	router := testRouter(t, &stubRemote{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "cart_session_id=sess_") {
		t.Fatalf("expected session cookie, got %q", cookie)
	}
}

func TestGetCartReusesCookieSession(t *testing.T) {
	item := domain.CartLineItem{ID: "77", ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(800)}
	remote := &stubRemote{cart: &domain.Cart{SessionID: "sess_fixed", Items: []domain.CartLineItem{item}, ItemCount: 1}}
	router := testRouter(t, remote)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session_id", Value: "sess_fixed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Cart domain.Cart `json:"cart"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.Data.Cart.Items) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if body.Data.Cart.SessionID != "sess_fixed" {
		t.Fatalf("expected cookie session to scope the cart, got %q", body.Data.Cart.SessionID)
	}
}

func TestAddItemBlockedByStock(t *testing.T) {
	remote := &stubRemote{product: testProduct()}
	router := testRouter(t, remote)

	payload := `{"product_id": "p1", "size": "M", "color": "White", "quantity": 1}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session_id", Value: "sess_fixed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "out of stock") {
		t.Fatalf("expected out-of-stock message, got %s", rec.Body.String())
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	remote := &stubRemote{productErr: domain.ErrNotFound}
	router := testRouter(t, remote)

	payload := `{"product_id": "missing", "quantity": 1}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session_id", Value: "sess_fixed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEditUnknownItem(t *testing.T) {
	router := testRouter(t, &stubRemote{})

	payload := `{"size": "L", "color": "Navy", "quantity": 1}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items/404/changes", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session_id", Value: "sess_fixed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductOptionsNarrowsColors(t *testing.T) {
	remote := &stubRemote{product: testProduct()}
	router := testRouter(t, remote)

	// Size switches to L; the previously selected White is no longer valid.
	req := httptest.NewRequest(http.MethodGet, "/products/p1/options?size=L&color=White", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session_id", Value: "sess_fixed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data struct {
			Sizes         []string `json:"sizes"`
			Colors        []string `json:"colors"`
			SelectedColor string   `json:"selectedColor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data.Colors) != 1 || body.Data.Colors[0] != "Navy" {
		t.Fatalf("expected only Navy for size L, got %v", body.Data.Colors)
	}
	if body.Data.SelectedColor != "" {
		t.Fatalf("expected invalid color cleared, got %q", body.Data.SelectedColor)
	}
}
