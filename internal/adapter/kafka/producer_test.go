package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducerClient struct {
	mu      sync.Mutex
	records []*kgo.Record
	flushed bool
	closed  bool
	err     error
}

func (c *fakeProducerClient) Produce(
	_ context.Context, r *kgo.Record, promise func(*kgo.Record, error),
) {
	c.mu.Lock()
	c.records = append(c.records, r)
	err := c.err
	c.mu.Unlock()
	promise(r, err)
}

func (c *fakeProducerClient) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushed = true
	return nil
}

func (c *fakeProducerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

type encoderFunc func(v any) ([]byte, error)

func (f encoderFunc) Encode(v any) ([]byte, error) {
	return f(v)
}

func clientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.cl = cl
		return nil
	}
}

func TestNewClientEventsProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewClientEventsProducer(clientOpt(new(fakeProducerClient)))
		})
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewClientEventsProducer(
			clientOpt(new(fakeProducerClient)),
			ProducerEncoderOpt(nil),
		)
		assert.Error(t, err)
	})
}

func TestClientEventsProducer(t *testing.T) {
	evt := domain.ClientFindProductEvent{
		EventID:    "id-1",
		Username:   "emilys",
		Search:     "phone",
		Page:       1,
		Total:      3,
		OccurredAt: time.UnixMilli(1_760_000_000_000).UTC(),
	}

	t.Run("Produce", func(t *testing.T) {
		cl := new(fakeProducerClient)
		var encoded []schema.ClientFindProductEventV1
		enc := encoderFunc(func(v any) ([]byte, error) {
			s := v.(schema.ClientFindProductEventV1)
			encoded = append(encoded, s)
			return []byte(s.EventID), nil
		})

		p, err := NewClientEventsProducer(clientOpt(cl), ProducerEncoderOpt(enc))
		require.NoError(t, err)

		require.NoError(t, p.ProduceEvents(t.Context(), []domain.ClientFindProductEvent{evt}))

		require.Len(t, cl.records, 1)
		assert.Equal(t, []byte("emilys"), cl.records[0].Key)
		assert.Equal(t, []byte("id-1"), cl.records[0].Value)
		require.Len(t, encoded, 1)
		assert.Equal(t, "phone", encoded[0].Search)
		assert.True(t, evt.OccurredAt.Equal(encoded[0].OccurredAt))

		p.Close(t.Context())
		assert.True(t, cl.flushed)
		assert.True(t, cl.closed)
	})

	t.Run("DeliveryErrorIsNotReturned", func(t *testing.T) {
		cl := &fakeProducerClient{err: errors.New("broker down")}
		enc := encoderFunc(func(any) ([]byte, error) { return []byte("v"), nil })
		p, err := NewClientEventsProducer(clientOpt(cl), ProducerEncoderOpt(enc))
		require.NoError(t, err)

		assert.NoError(t, p.ProduceEvents(t.Context(), []domain.ClientFindProductEvent{evt}))
	})

	t.Run("EncodeError", func(t *testing.T) {
		cl := new(fakeProducerClient)
		errEncode := errors.New("schema mismatch")
		enc := encoderFunc(func(any) ([]byte, error) { return nil, errEncode })
		p, err := NewClientEventsProducer(clientOpt(cl), ProducerEncoderOpt(enc))
		require.NoError(t, err)

		err = p.ProduceEvents(t.Context(), []domain.ClientFindProductEvent{evt})
		assert.ErrorIs(t, err, errEncode)
		assert.Empty(t, cl.records)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(fakeProducerClient)
		enc := encoderFunc(func(any) ([]byte, error) { return []byte("v"), nil })
		p, err := NewClientEventsProducer(clientOpt(cl), ProducerEncoderOpt(enc))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err = p.ProduceEvents(ctx, []domain.ClientFindProductEvent{evt})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
