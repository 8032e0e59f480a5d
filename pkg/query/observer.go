package query

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/pkg/notify"
)

type FetchFunc[T any] func(ctx context.Context) (*T, error)

// An Observer follows one key of a [Client] at a time.
type Observer[T any] struct {
	c   *Client
	sig *notify.Signal

	mu       sync.Mutex
	key      Key
	fn       FetchFunc[T]
	attached bool
	closed   bool
}

func NewObserver[T any](c *Client) *Observer[T] {
	return &Observer[T]{c: c, sig: notify.NewSignal()}
}

// Observe switches the observer to key and returns the current result.
//
// A fetch starts when the key differs from the observed one and the
// entry is neither fresh nor already in flight. Observing the same key
// again only replaces the fetch function used by [Observer.Refetch].
func (o *Observer[T]) Observe(key Key, fn FetchFunc[T]) Result[T] {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return Result[T]{Status: StatusIdle}
	}
	o.fn = fn
	prev, wasAttached := o.key, o.attached
	switched := !wasAttached || prev != key
	o.key, o.attached = key, true
	o.mu.Unlock()

	if switched {
		if wasAttached {
			o.c.unsubscribe(prev, o.sig)
		}
		o.c.subscribe(key, o.sig, erase(fn))
	}
	return o.Result()
}

// Refetch starts a new request for the observed key with the latest
// fetch function. A request already in flight is superseded.
func (o *Observer[T]) Refetch() {
	o.mu.Lock()
	key, fn, ok := o.key, o.fn, o.attached && !o.closed
	o.mu.Unlock()

	if !ok {
		return
	}
	o.c.refetch(key, erase(fn))
}

func (o *Observer[T]) Result() Result[T] {
	o.mu.Lock()
	key, ok := o.key, o.attached
	o.mu.Unlock()

	if !ok {
		return Result[T]{Status: StatusIdle}
	}
	return toResult[T](o.c.state(key))
}

// Changed is signalled whenever the observed entry changes.
func (o *Observer[T]) Changed() <-chan struct{} {
	return o.sig.C()
}

func (o *Observer[T]) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	key, ok := o.key, o.attached
	o.mu.Unlock()

	if ok {
		o.c.unsubscribe(key, o.sig)
	}
	o.sig.Close()
}

func erase[T any](fn FetchFunc[T]) fetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func toResult[T any](s entryState) Result[T] {
	data, _ := s.data.(*T)
	return Result[T]{
		Status:    s.status,
		Data:      data,
		Err:       s.err,
		UpdatedAt: s.updatedAt,
		Fetching:  s.fetching,
	}
}
