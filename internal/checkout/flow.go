package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/abisalde/storefront-client/internal/api"
	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/navigation"
	"github.com/abisalde/storefront-client/internal/notify"
)

// CartSource is the cart state checkout reads and refreshes.
type CartSource interface {
	Cart() *model.Cart
	Loading() bool
	Refresh(ctx context.Context)
}

type OrderBackend interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
}

// Flow owns the checkout draft between Enter and a successful Submit or
// Leave.
type Flow struct {
	cart      CartSource
	backend   OrderBackend
	navigator navigation.Navigator
	notifier  notify.Notifier

	mu    sync.Mutex
	draft *Draft
}

func NewFlow(cart CartSource, backend OrderBackend, navigator navigation.Navigator, notifier notify.Notifier) *Flow {
	return &Flow{
		cart:      cart,
		backend:   backend,
		navigator: navigator,
		notifier:  notifier,
	}
}

// Enter starts checkout with a fresh draft. An empty cart sends the user
// back to the cart page.
func (f *Flow) Enter(ctx context.Context) error {
	if f.cart.Loading() {
		f.cart.Refresh(ctx)
	}

	if f.cart.Cart().IsEmpty() {
		f.Leave()
		f.navigator.Navigate(navigation.PathCart, nil)
		return customErrors.ErrEmptyCart
	}

	f.mu.Lock()
	if f.draft == nil {
		d := NewDraft()
		f.draft = &d
	}
	f.mu.Unlock()
	return nil
}

// Draft returns a copy of the active draft.
func (f *Flow) Draft() (Draft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return Draft{}, false
	}
	return *f.draft, true
}

func (f *Flow) Apply(field Field, value string) error {
	return f.update(func(d Draft) (Draft, error) {
		return Apply(d, field, value), nil
	})
}

func (f *Flow) SetSameAsShipping(on bool) error {
	return f.update(func(d Draft) (Draft, error) {
		return SetSameAsShipping(d, on), nil
	})
}

// Next advances the wizard, failing with ErrStepInvalid while the current
// step is incomplete.
func (f *Flow) Next() error {
	return f.update(func(d Draft) (Draft, error) {
		next, ok := Next(d)
		if !ok {
			return d, fmt.Errorf("%w: %s", customErrors.ErrStepInvalid, d.Step)
		}
		return next, nil
	})
}

func (f *Flow) Back() error {
	return f.update(func(d Draft) (Draft, error) {
		return Back(d), nil
	})
}

// Submit places the order from the review step. On success the cart is
// refreshed, the user is taken to the new order and the draft is dropped.
// On failure the draft and step are kept so the user can resubmit.
func (f *Flow) Submit(ctx context.Context) (*model.Order, error) {
	draft, ok := f.Draft()
	if !ok {
		return nil, customErrors.ErrNoCheckout
	}
	if !ReadyToSubmit(draft) {
		return nil, fmt.Errorf("%w: %s", customErrors.ErrStepInvalid, draft.Step)
	}

	order, err := f.backend.CreateOrder(ctx, draft.OrderRequest())
	if err != nil {
		log.Printf("Order creation failed: %v", err)
		f.notifier.Error(api.UserMessage(err, "Failed to place order"))
		return nil, err
	}

	f.cart.Refresh(ctx)
	f.Leave()
	f.navigator.Navigate(fmt.Sprintf("%s/%d", navigation.PathOrders, order.ID), map[string]any{"orderCreated": true})
	return order, nil
}

// Leave discards the draft.
func (f *Flow) Leave() {
	f.mu.Lock()
	f.draft = nil
	f.mu.Unlock()
}

func (f *Flow) update(fn func(Draft) (Draft, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return customErrors.ErrNoCheckout
	}
	next, err := fn(*f.draft)
	if err != nil {
		return err
	}
	*f.draft = next
	return nil
}
