// Package cart holds the session-scoped mirror of the server-side cart and
// the mutation operations that reconcile it against the remote commerce
// service. The server is the single source of truth; the mirror only renders
// what the server last confirmed.
package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/upstream"
	"storefront-gateway/internal/variant"
)

// RemoteAPI is the slice of the upstream client the store consumes.
type RemoteAPI interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, req upstream.AddItemRequest) (upstream.AddOutcome, error)
	UpdateItemQuantity(ctx context.Context, sessionID, cartItemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, cartItemID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// clearSuppressWindow bounds how long a just-cleared cart ignores non-forced
// reloads, so a background reload racing the clear cannot repopulate it.
const clearSuppressWindow = 5 * time.Second

// Store owns the cart mirror for one session. All operations are serialized
// on one mutex, so two rapid mutations apply in submission order instead of
// whichever response happens to arrive last.
type Store struct {
	session string
	remote  RemoteAPI
	logger  *log.Logger

	mu          sync.Mutex
	items       []domain.CartLineItem
	totalAmount decimal.Decimal
	itemCount   int
	loaded      bool
	clearedAt   time.Time

	subMu   sync.Mutex
	subs    map[int]func(domain.Cart)
	nextSub int
}

func NewStore(sessionID string, remote RemoteAPI, logger *log.Logger) *Store {
	return &Store{
		session: sessionID,
		remote:  remote,
		logger:  logger,
		subs:    make(map[int]func(domain.Cart)),
	}
}

// SessionID returns the session this store is scoped to.
func (s *Store) SessionID() string {
	return s.session
}

// Subscribe registers an update callback invoked with a snapshot after every
// local mirror change. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(domain.Cart)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot returns a copy of the current mirror.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Load fetches the cart from the remote service and replaces the mirror.
// Non-forced loads are skipped when the mirror is already known empty, and
// for a short window after a clear. On error the mirror is left untouched.
func (s *Store) Load(ctx context.Context, force bool) (domain.Cart, error) {
	s.mu.Lock()
	if !force {
		if time.Since(s.clearedAt) < clearSuppressWindow {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		if s.loaded && len(s.items) == 0 {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
	}

	remote, err := s.remote.GetCart(ctx, s.session)
	if err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	s.replaceLocked(remote)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// Add resolves the target variant, validates stock, and posts the new line
// item. When the server's response does not contain the full item list the
// store re-fetches the whole cart rather than synthesizing state from a
// partial payload.
func (s *Store) Add(ctx context.Context, product domain.Product, size, color string, quantity int) Result {
	if quantity < 1 {
		return failure("Quantity must be at least 1")
	}
	target, err := variant.Resolve(product, size, color)
	if err != nil {
		return failure("Selected variant not available")
	}
	if err := domain.CheckStock(quantity, variant.AvailableQuantity(target)); err != nil {
		return failure(stockMessage(err))
	}

	s.mu.Lock()
	outcome, err := s.remote.AddItem(ctx, upstream.AddItemRequest{
		ProductID: product.ID,
		VariantID: target.ID,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
		SessionID: s.session,
	})
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("add to cart failed for session %s: %v", s.session, err)
		return failure("Could not add the item to your cart")
	}

	switch outcome.Kind {
	case upstream.AddOutcomeFullItems:
		s.replaceLocked(outcome.Cart)
	default:
		// Single-item and cart-only responses carry too little to reconcile.
		remote, lerr := s.remote.GetCart(ctx, s.session)
		if lerr != nil {
			// The add landed on the server but the mirror no longer matches
			// it. Drop the known-empty marker so the next non-forced load
			// re-fetches instead of skipping the network.
			s.loaded = false
			s.mu.Unlock()
			s.logger.Printf("reload after partial add response failed for session %s: %v", s.session, lerr)
			return success(addMessage(outcome.Message))
		}
		s.replaceLocked(remote)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return success(addMessage(outcome.Message))
}

// UpdateQuantity changes a line item's quantity in place. Callers validate
// stock first; a quantity below 1 routes to removal, never to an update call
// with zero.
func (s *Store) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) Result {
	if quantity < 1 {
		return s.Remove(ctx, cartItemID)
	}

	s.mu.Lock()
	remote, err := s.remote.UpdateItemQuantity(ctx, s.session, cartItemID, quantity)
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("quantity update failed for item %s: %v", cartItemID, err)
		return failure("Could not update the quantity")
	}
	s.replaceLocked(remote)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return success("Cart updated")
}

// Remove deletes a line item by its server-assigned id.
func (s *Store) Remove(ctx context.Context, cartItemID string) Result {
	s.mu.Lock()
	remote, err := s.remote.RemoveItem(ctx, s.session, cartItemID)
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("remove failed for item %s: %v", cartItemID, err)
		return failure("Could not remove the item")
	}
	s.replaceLocked(remote)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return success("Item removed")
}

// Clear empties the mirror unconditionally before calling the remote
// service: a cart that is already empty on the server but fails the call
// must not keep showing stale items. The suppression window then shields the
// emptied cart from racing background reloads.
func (s *Store) Clear(ctx context.Context) Result {
	s.mu.Lock()
	s.items = nil
	s.totalAmount = decimal.Zero
	s.itemCount = 0
	s.loaded = true
	s.clearedAt = time.Now()
	err := s.remote.ClearCart(ctx, s.session)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if err != nil {
		s.logger.Printf("remote clear failed for session %s: %v", s.session, err)
		return failure("Could not clear the cart on the server")
	}
	return success("Cart cleared")
}

// replaceLocked swaps the mirror for the server's view. Display fields the
// server omitted fall back to the previous mirror entry for the same item.
func (s *Store) replaceLocked(remote *domain.Cart) {
	prev := make(map[string]domain.CartLineItem, len(s.items))
	for _, it := range s.items {
		prev[it.ID] = it
	}

	items := make([]domain.CartLineItem, 0, len(remote.Items))
	for _, it := range remote.Items {
		if old, ok := prev[it.ID]; ok {
			if it.ProductName == "" {
				it.ProductName = old.ProductName
			}
			if it.ImageURL == "" {
				it.ImageURL = old.ImageURL
			}
			if it.UnitPrice.IsZero() {
				it.UnitPrice = old.UnitPrice
				it.OriginalPrice = old.OriginalPrice
			}
			if len(it.Variants) == 0 {
				it.Variants = old.Variants
			}
		}
		items = append(items, it)
	}

	s.items = items
	s.totalAmount = remote.TotalAmount
	s.itemCount = remote.ItemCount
	s.loaded = true
}

func (s *Store) snapshotLocked() domain.Cart {
	items := make([]domain.CartLineItem, len(s.items))
	copy(items, s.items)
	return domain.Cart{
		SessionID:   s.session,
		Items:       items,
		TotalAmount: s.totalAmount,
		ItemCount:   s.itemCount,
	}
}

func (s *Store) notify(snap domain.Cart) {
	s.subMu.Lock()
	fns := make([]func(domain.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func addMessage(serverMessage string) string {
	if serverMessage != "" {
		return serverMessage
	}
	return "Item added to cart"
}
