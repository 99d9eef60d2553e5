// Package upstream is the HTTP client for the remote commerce service that
// owns carts, products and inventory. The gateway only mirrors what this
// service returns; it never acts as an authority of its own.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-gateway/internal/domain"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New builds a Client for the given base URL. The timeout bounds each round
// trip; a hung upstream must not pin a mutation forever.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type sessionBody struct {
	SessionID string `json:"session_id"`
}

type quantityBody struct {
	Quantity  int    `json:"quantity"`
	SessionID string `json:"session_id"`
}

// GetCart fetches the cart for a session. A session with no server-side cart
// decodes to an empty cart, not an error.
func (c *Client) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	path := "/cart?session_id=" + url.QueryEscape(sessionID)
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	payload, err := decodeCartPayload(env)
	if err != nil {
		return nil, err
	}
	return payload.toDomainCart(sessionID), nil
}

// AddItem posts a new line item and decodes whichever of the three response
// shapes the server chose into a tagged AddOutcome.
func (c *Client) AddItem(ctx context.Context, req AddItemRequest) (AddOutcome, error) {
	env, err := c.do(ctx, http.MethodPost, "/cart/add", req)
	if err != nil {
		return AddOutcome{}, err
	}
	payload, err := decodeCartPayload(env)
	if err != nil {
		return AddOutcome{}, err
	}
	return payload.addOutcome(req.SessionID, env.Message), nil
}

func (c *Client) UpdateItemQuantity(ctx context.Context, sessionID, cartItemID string, quantity int) (*domain.Cart, error) {
	path := "/cart/items/" + url.PathEscape(cartItemID)
	env, err := c.do(ctx, http.MethodPut, path, quantityBody{Quantity: quantity, SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	payload, err := decodeCartPayload(env)
	if err != nil {
		return nil, err
	}
	return payload.toDomainCart(sessionID), nil
}

func (c *Client) RemoveItem(ctx context.Context, sessionID, cartItemID string) (*domain.Cart, error) {
	path := "/cart/items/" + url.PathEscape(cartItemID)
	env, err := c.do(ctx, http.MethodDelete, path, sessionBody{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	payload, err := decodeCartPayload(env)
	if err != nil {
		return nil, err
	}
	return payload.toDomainCart(sessionID), nil
}

func (c *Client) ClearCart(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart/clear", sessionBody{SessionID: sessionID})
	return err
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	// Some deployments wrap the product under data.product, others return it
	// as data directly.
	var wrapped struct {
		Product *wireProduct `json:"product"`
	}
	if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.Product != nil {
		product := wrapped.Product.toDomain()
		return &product, nil
	}
	var wp wireProduct
	if err := json.Unmarshal(env.Data, &wp); err != nil || wp.ID == "" {
		return nil, fmt.Errorf("%w: malformed product payload", domain.ErrRemoteRequestFailed)
	}
	product := wp.toDomain()
	return &product, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrRemoteRequestFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Printf("%s %s: upstream status %d", method, path, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrRemoteRequestFailed, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRemoteRequestFailed, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteRequestFailed, msg)
	}
	return &env, nil
}

func decodeCartPayload(env *envelope) (cartPayload, error) {
	var payload cartPayload
	if len(env.Data) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return payload, fmt.Errorf("%w: decode cart payload: %v", domain.ErrRemoteRequestFailed, err)
	}
	return payload, nil
}
