package location

import (
	"fmt"
	"sync"

	"github.com/niksmo/storefront/pkg/store"
)

const maxHistory = 64

// A Router owns the current location and its history.
type Router struct {
	current *store.Value[Location]

	mu      sync.Mutex
	history []Location
}

func NewRouter(initial Location) *Router {
	return &Router{
		current: store.NewValue(initial, store.WithEqual(Location.Equal)),
	}
}

func (r *Router) Location() Location {
	return r.current.Get()
}

func (r *Router) Subscribe() *store.Subscription {
	return r.current.Subscribe()
}

// Navigate parses raw and pushes it.
func (r *Router) Navigate(raw string) error {
	const op = "Router.Navigate"

	l, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.Push(l)
	return nil
}

func (r *Router) Push(l Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current.Get()
	if cur.Equal(l) {
		return
	}
	r.history = append(r.history, cur)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
	r.current.Set(l)
}

func (r *Router) Replace(l Location) {
	r.current.Set(l)
}

// SetParam pushes the current location with key set to value.
func (r *Router) SetParam(key, value string) {
	r.Push(r.Location().WithParam(key, value))
}

// Back restores the previous location. It reports false when the history
// is empty.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.history)
	if n == 0 {
		return false
	}
	prev := r.history[n-1]
	r.history = r.history[:n-1]
	r.current.Set(prev)
	return true
}
