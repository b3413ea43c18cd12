package navigation

import "sync"

const (
	PathLogin  = "/login"
	PathCart   = "/cart"
	PathOrders = "/orders"
)

// Navigator moves the presentation layer to another route.
type Navigator interface {
	Navigate(path string, state map[string]any)
}

type Entry struct {
	Path  string
	State map[string]any
}

// History records navigations in order. The CLI uses it to decide what to
// render after an operation; tests use it to assert routing.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Navigate(path string, state map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, Entry{Path: path, State: state})
}

// Current returns the latest entry and false when nothing was navigated to.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
