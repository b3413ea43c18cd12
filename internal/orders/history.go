package orders

import (
	"context"
	"log"
	"sync"

	"github.com/abisalde/storefront-client/internal/api"
	"github.com/abisalde/storefront-client/internal/model"
	"github.com/abisalde/storefront-client/internal/notify"
)

const PageSize = 10

type Backend interface {
	UserOrders(ctx context.Context, page, size int) (*model.Page[model.Order], error)
	GetOrder(ctx context.Context, orderID int64) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) error
}

// History is the signed-in user's paged order list.
type History struct {
	backend  Backend
	notifier notify.Notifier

	mu      sync.RWMutex
	orders  []model.Order
	page    int
	hasMore bool
	loaded  bool
}

func NewHistory(backend Backend, notifier notify.Notifier) *History {
	return &History{
		backend:  backend,
		notifier: notifier,
		hasMore:  true,
	}
}

// Load replaces the list with the first page.
func (h *History) Load(ctx context.Context) error {
	return h.fetch(ctx, 0)
}

// LoadMore appends the next page.
func (h *History) LoadMore(ctx context.Context) error {
	h.mu.RLock()
	next := h.page + 1
	if !h.loaded {
		next = 0
	}
	h.mu.RUnlock()
	return h.fetch(ctx, next)
}

func (h *History) Orders() []model.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.Order, len(h.orders))
	copy(out, h.orders)
	return out
}

func (h *History) HasMore() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hasMore
}

func (h *History) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := h.backend.GetOrder(ctx, orderID)
	if err != nil {
		h.notifier.Error(api.UserMessage(err, "Failed to fetch order details"))
		return nil, err
	}
	return order, nil
}

// Cancel asks the backend to cancel the order, then reloads the first page.
func (h *History) Cancel(ctx context.Context, orderID int64) error {
	if err := h.backend.CancelOrder(ctx, orderID); err != nil {
		log.Printf("Error cancelling order %d: %v", orderID, err)
		h.notifier.Error(api.UserMessage(err, "Failed to cancel order"))
		return err
	}
	return h.fetch(ctx, 0)
}

// Reset forgets every loaded page.
func (h *History) Reset() {
	h.mu.Lock()
	h.orders = nil
	h.page = 0
	h.hasMore = true
	h.loaded = false
	h.mu.Unlock()
}

func (h *History) fetch(ctx context.Context, page int) error {
	result, err := h.backend.UserOrders(ctx, page, PageSize)
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		h.notifier.Error(api.UserMessage(err, "Failed to fetch orders"))
		return err
	}

	h.mu.Lock()
	if page == 0 {
		h.orders = append([]model.Order{}, result.Content...)
	} else {
		h.orders = append(h.orders, result.Content...)
	}
	h.page = page
	h.hasMore = !result.Last
	h.loaded = true
	h.mu.Unlock()
	return nil
}
