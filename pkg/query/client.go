package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/storefront/pkg/notify"
	"golang.org/x/sync/singleflight"
)

const defaultGCTime = 5 * time.Minute

type fetchFunc func(ctx context.Context) (any, error)

type Opt func(*Client)

// StaleTimeOpt sets how long a successful result is served without a
// refetch when a new observer attaches. Zero means always refetch.
func StaleTimeOpt(d time.Duration) Opt {
	return func(c *Client) {
		c.staleTime = d
	}
}

// GCTimeOpt sets how long an unobserved entry is kept.
func GCTimeOpt(d time.Duration) Opt {
	return func(c *Client) {
		c.gcTime = d
	}
}

func clockOpt(now func() time.Time) Opt {
	return func(c *Client) {
		c.now = now
	}
}

type entry struct {
	status    Status
	data      any
	err       error
	updatedAt time.Time
	fetching  bool
	gen       uint64
	cancel    context.CancelFunc
	observers map[*notify.Signal]struct{}
	idleSince time.Time
}

type entryState struct {
	status    Status
	data      any
	err       error
	updatedAt time.Time
	fetching  bool
}

type Client struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	flights   singleflight.Group
	staleTime time.Duration
	gcTime    time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[Key]*entry
	closed  bool
}

func NewClient(opts ...Opt) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ctx:     ctx,
		cancel:  cancel,
		gcTime:  defaultGCTime,
		now:     time.Now,
		entries: make(map[Key]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close cancels in-flight fetches and waits for them to settle.
func (c *Client) Close() {
	const op = "Client.Close"
	log := slog.With("op", op)

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	log.Info("query client is closed")
}

func (c *Client) subscribe(key Key, sig *notify.Signal, fn fetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			status:    StatusPending,
			observers: make(map[*notify.Signal]struct{}),
		}
		c.entries[key] = e
	}
	e.observers[sig] = struct{}{}

	if e.fetching || c.freshLocked(e) {
		return
	}
	c.startLocked(key, e, fn, false)
}

func (c *Client) unsubscribe(key Key, sig *notify.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(e.observers, sig)
	if len(e.observers) == 0 {
		e.idleSince = c.now()
	}
}

func (c *Client) refetch(key Key, fn fetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.startLocked(key, e, fn, true)
}

func (c *Client) state(key Key) entryState {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return entryState{status: StatusIdle}
	}
	return entryState{
		status:    e.status,
		data:      e.data,
		err:       e.err,
		updatedAt: e.updatedAt,
		fetching:  e.fetching,
	}
}

func (c *Client) freshLocked(e *entry) bool {
	if e.status != StatusSuccess || e.updatedAt.IsZero() {
		return false
	}
	return c.now().Sub(e.updatedAt) < c.staleTime
}

func (c *Client) startLocked(key Key, e *entry, fn fetchFunc, force bool) {
	if c.closed {
		return
	}
	if force {
		if e.cancel != nil {
			e.cancel()
		}
		c.flights.Forget(string(key))
	}

	ctx, cancel := context.WithCancel(c.ctx)
	e.gen++
	gen := e.gen
	e.cancel = cancel
	e.fetching = true
	if e.status != StatusSuccess {
		e.status = StatusPending
		e.err = nil
	}

	ch := c.flights.DoChan(string(key), func() (any, error) {
		return fn(ctx)
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		res := <-ch
		c.settle(key, gen, res.Val, res.Err)
	}()

	c.notifyLocked(e)
}

func (c *Client) settle(key Key, gen uint64, v any, err error) {
	const op = "Client.settle"

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		slog.Debug("superseded result discarded", "op", op, "key", key)
		return
	}

	e.fetching = false
	e.cancel = nil
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = v
		e.err = nil
	}
	e.updatedAt = c.now()
	c.notifyLocked(e)
}

func (c *Client) notifyLocked(e *entry) {
	for sig := range e.observers {
		sig.Notify()
	}
}

func (c *Client) sweepLocked() {
	now := c.now()
	for key, e := range c.entries {
		if len(e.observers) != 0 || e.fetching {
			continue
		}
		if now.Sub(e.idleSince) >= c.gcTime {
			delete(c.entries, key)
		}
	}
}
