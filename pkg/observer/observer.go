package observer

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Registry fans a value out to subscribers in subscription order. The zero
// value is ready to use.
type Registry[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (r *Registry[T]) Subscribe(fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber with v. Subscribers run on the caller's
// goroutine without the registry lock held, so they may subscribe or
// unsubscribe.
func (r *Registry[T]) Publish(v T) {
	r.mu.Lock()
	snapshot := make([]subscriber[T], len(r.subs))
	copy(snapshot, r.subs)
	r.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
