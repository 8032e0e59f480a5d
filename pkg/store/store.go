// Package store holds typed observable state containers shared between
// views.
package store

import (
	"sync"

	"github.com/niksmo/storefront/pkg/notify"
)

type Readable[T any] interface {
	Get() T
	Subscribe() *Subscription
}

type Writable[T any] interface {
	Readable[T]
	Set(T)
}

var _ Writable[int] = (*Value[int])(nil)

type Opt[T any] func(*Value[T])

// WithEqual suppresses notifications when the new value equals the
// current one.
func WithEqual[T any](eq func(a, b T) bool) Opt[T] {
	return func(v *Value[T]) {
		v.equal = eq
	}
}

// A Value is a typed container that notifies subscribers on change.
type Value[T any] struct {
	mu    sync.RWMutex
	v     T
	equal func(a, b T) bool
	subs  map[*Subscription]struct{}
}

func NewValue[T any](initial T, opts ...Opt[T]) *Value[T] {
	v := &Value[T]{
		v:    initial,
		subs: make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

func (v *Value[T]) Set(x T) {
	v.Update(func(T) T { return x })
}

// Update replaces the value with fn(current) under the write lock.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := fn(v.v)
	if v.equal != nil && v.equal(v.v, next) {
		return
	}
	v.v = next
	for sub := range v.subs {
		sub.sig.Notify()
	}
}

func (v *Value[T]) Subscribe() *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()

	sub := &Subscription{sig: notify.NewSignal()}
	sub.unsubscribe = func() {
		v.mu.Lock()
		delete(v.subs, sub)
		v.mu.Unlock()
	}
	v.subs[sub] = struct{}{}
	return sub
}

func (v *Value[T]) subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

type Subscription struct {
	sig         *notify.Signal
	once        sync.Once
	unsubscribe func()
}

// C is signalled after each change and closed by Close.
func (s *Subscription) C() <-chan struct{} {
	return s.sig.C()
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.unsubscribe()
		s.sig.Close()
	})
}
