package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/abisalde/storefront-client/internal/api"
	"github.com/abisalde/storefront-client/internal/identity"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/notify"
	"github.com/abisalde/storefront-client/pkg/observer"
)

// Backend is the slice of the commerce API the cart talks to.
type Backend interface {
	GetCart(ctx context.Context) (*model.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) (*model.Cart, error)
	ClearCart(ctx context.Context) error
}

// UserSource reports who is signed in.
type UserSource interface {
	CurrentUser() *identity.User
}

// Store is the process-wide client cart. The server is authoritative: every
// mutation replaces the local cart with the server's response. Mutations
// are not serialized against each other, so the last response wins.
type Store struct {
	backend  Backend
	users    UserSource
	notifier notify.Notifier

	mu      sync.RWMutex
	cart    *model.Cart
	loading bool

	observers observer.Registry[*model.Cart]
}

func NewStore(backend Backend, users UserSource, notifier notify.Notifier) *Store {
	return &Store{
		backend:  backend,
		users:    users,
		notifier: notifier,
		loading:  true,
	}
}

// Cart returns the current cart, nil when signed out or not loaded yet.
func (s *Store) Cart() *model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn for every cart replacement.
func (s *Store) Subscribe(fn func(*model.Cart)) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

// MarkLoading flags the cart stale until the next Refresh completes. The
// session wiring calls it when the signed-in user changes.
func (s *Store) MarkLoading() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

// Refresh loads the server cart for the signed-in user. Fetch failures are
// not returned: a 404 keeps the current cart, anything else substitutes an
// empty one.
func (s *Store) Refresh(ctx context.Context) {
	if s.users.CurrentUser() == nil {
		s.replace(nil)
		return
	}

	cart, err := s.backend.GetCart(ctx)
	switch {
	case err != nil && s.users.CurrentUser() == nil:
		// signed out while the fetch was in flight, e.g. by a 401
		s.replace(nil)
	case err == nil:
		s.replace(cart)
	case errors.Is(err, api.ErrNotFound):
		log.Printf("Error fetching cart: %v", err)
		s.finishLoading()
	default:
		log.Printf("Error fetching cart: %v", err)
		s.replace(model.EmptyCart())
	}
}

func (s *Store) AddToCart(ctx context.Context, productID int64, quantity int) error {
	cart, err := s.backend.AddToCart(ctx, productID, quantity)
	if err != nil {
		s.notifier.Error(api.UserMessage(err, "Failed to add to cart"))
		return err
	}
	s.replace(cart)
	s.notifier.Success("Added to cart!")
	return nil
}

// UpdateCartItem sets an item's quantity. A quantity below 1 removes the
// item instead.
func (s *Store) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return s.RemoveFromCart(ctx, itemID)
	}

	cart, err := s.backend.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		s.notifier.Error(api.UserMessage(err, "Failed to update cart"))
		return err
	}
	s.replace(cart)
	s.notifier.Success("Cart updated!")
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) error {
	cart, err := s.backend.RemoveCartItem(ctx, itemID)
	if err != nil {
		s.notifier.Error(api.UserMessage(err, "Failed to remove item"))
		return err
	}
	s.replace(cart)
	s.notifier.Success("Item removed from cart!")
	return nil
}

func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.backend.ClearCart(ctx); err != nil {
		s.notifier.Error(api.UserMessage(err, "Failed to clear cart"))
		return err
	}
	s.replace(model.EmptyCart())
	s.notifier.Success("Cart cleared!")
	return nil
}

// Reset drops the local cart without talking to the server.
func (s *Store) Reset() {
	s.replace(nil)
}

func (s *Store) replace(cart *model.Cart) {
	s.mu.Lock()
	s.cart = cart
	s.loading = false
	s.mu.Unlock()

	s.observers.Publish(cart)
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}
