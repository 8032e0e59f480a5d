package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ClientEventsProducer = (*ClientEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker asynchronously, flushing and closing
// underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close(ctx context.Context) {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	if err := p.cl.Flush(ctx); err != nil {
		log.Error("failed to flush buffered records", "err", err)
	}
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) {
	const op = "produce"
	log := slog.With("op", makeOp(p.opPrefix, op))

	for _, r := range rs {
		p.cl.Produce(ctx, r, func(r *kgo.Record, err error) {
			if err != nil {
				log.Error("failed to produce record", "key", string(r.Key), "err", err)
				return
			}
			log.Debug("record produced", "partition", r.Partition, "offset", r.Offset)
		})
	}
}

// A ClientEventsProducer used for produce [domain.ClientFindProductEvent].
//
// Records are buffered by the client and delivered in the background;
// delivery errors are logged.
type ClientEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewClientEventsProducer(
	opts ...ProducerOpt,
) (ClientEventsProducer, error) {
	const op = "NewClientEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ClientEventsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "ClientEventsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return ClientEventsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p ClientEventsProducer) Close(ctx context.Context) {
	p.producer.close(ctx)
}

func (p ClientEventsProducer) ProduceEvents(
	ctx context.Context, evts []domain.ClientFindProductEvent,
) error {
	const op = "ProduceEvents"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	rs, err := p.createRecords(evts)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	p.producer.produce(context.WithoutCancel(ctx), rs...)
	return nil
}

func (p ClientEventsProducer) createRecords(
	evts []domain.ClientFindProductEvent,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, evt := range evts {
		s := clientEventToSchemaV1(evt)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		r := &kgo.Record{Key: []byte(s.Username), Value: b}
		rs = append(rs, r)
	}

	return rs, nil
}
