package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// A SchemaIdentifier returns the registry ID of a schema under subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (int, error)
}

// TopicSubject is the registry subject of the record values of topic.
func TopicSubject(topic string) string {
	return topic + "-value"
}

// serde writes records in the Schema Registry wire format: a magic byte,
// the 4-byte schema ID, then the Avro body.
type serde struct {
	schema avro.Schema
	wire   *sr.Serde
}

func (s serde) Encode(v any) ([]byte, error) {
	return s.wire.Encode(v)
}

func (s serde) Decode(data []byte, v any) error {
	return s.wire.Decode(data, v)
}

func (s serde) marshal(v any) ([]byte, error) {
	return avro.Marshal(s.schema, v)
}

func (s serde) unmarshal(data []byte, v any) error {
	return avro.Unmarshal(s.schema, data, v)
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = si
		return nil
	}
}

// NewSerdeClientFindProductEventV1 registers the search event schema
// and returns its serde. Both [SubjectOpt] and [SchemaIdentifierOpt]
// are required.
func NewSerdeClientFindProductEventV1(
	ctx context.Context, opts ...Opt,
) (Serde, error) {
	const op = "NewSerdeClientFindProductEventV1"

	s, err := newRegisteredSerde(
		ctx,
		ClientFindProductEventSchemaTextV1,
		ClientFindProductEventV1{},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func newRegisteredSerde(
	ctx context.Context, schemaText string, record any, opts []Opt,
) (serde, error) {
	if len(opts) != 2 {
		return serde{}, ErrTooFewOpts
	}

	var so serdeOpts
	for _, opt := range opts {
		if err := opt(&so); err != nil {
			return serde{}, err
		}
	}

	schema, err := avro.Parse(schemaText)
	if err != nil {
		return serde{}, err
	}

	id, err := so.si.DetermineID(ctx, so.subject, schemaText)
	if err != nil {
		return serde{}, err
	}

	s := serde{schema: schema, wire: new(sr.Serde)}
	s.wire.Register(id, record, sr.EncodeFn(s.marshal), sr.DecodeFn(s.unmarshal))
	return s, nil
}
