package query

import (
	"context"
	"sync"
	"time"
)

type MutateFunc[In, Out any] func(context.Context, In) (*Out, error)

// A Mutation tracks the state of a one-shot operation such as a form
// submission. Only the latest run updates the state.
type Mutation[In, Out any] struct {
	fn MutateFunc[In, Out]

	mu  sync.Mutex
	gen uint64
	res Result[Out]
}

func NewMutation[In, Out any](fn MutateFunc[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{fn: fn}
}

// Mutate marks the mutation pending and returns the function that runs
// it. The returned function blocks and is meant to run off the UI loop.
func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In) func() Result[Out] {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.res = Result[Out]{Status: StatusPending, Fetching: true}
	m.mu.Unlock()

	return func() Result[Out] {
		out, err := m.fn(ctx, in)

		res := Result[Out]{Status: StatusSuccess, Data: out, UpdatedAt: time.Now()}
		if err != nil {
			res = Result[Out]{Status: StatusError, Err: err, UpdatedAt: time.Now()}
		}

		m.mu.Lock()
		if gen == m.gen {
			m.res = res
		}
		m.mu.Unlock()
		return res
	}
}

func (m *Mutation[In, Out]) Result() Result[Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.res
}

func (m *Mutation[In, Out]) IsPending() bool {
	return m.Result().IsPending()
}

func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.res = Result[Out]{}
}
