package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeClientFindProductEventV1(t *testing.T) {
	const subject = "client-events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeClientFindProductEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeClientFindProductEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("IdentifierFails", func(t *testing.T) {
		errRegistry := errors.New("registry unavailable")
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject,
			schema.ClientFindProductEventSchemaTextV1,
		).Return(0, errRegistry)

		_, err := schema.NewSerdeClientFindProductEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, errRegistry)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject,
			schema.ClientFindProductEventSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeClientFindProductEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		evt := schema.ClientFindProductEventV1{
			EventID:    "b0c6f2a4-1f1e-4d7b-9b0e-3f6a3c1f4a11",
			Username:   "emilys",
			Search:     "phone",
			Category:   "smartphones",
			MinPrice:   "100",
			MaxPrice:   "",
			Sort:       "price-asc",
			Page:       2,
			Total:      16,
			OccurredAt: time.UnixMilli(1_760_000_000_000).UTC(),
		}

		data, err := serde.Encode(evt)
		require.NoError(t, err)
		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0], "registry wire format magic byte")

		var got schema.ClientFindProductEventV1
		require.NoError(t, serde.Decode(data, &got))
		assert.Equal(t, evt.EventID, got.EventID)
		assert.Equal(t, evt.Search, got.Search)
		assert.Equal(t, evt.Page, got.Page)
		assert.True(t, evt.OccurredAt.Equal(got.OccurredAt))
	})
}

func TestUserCodecV1(t *testing.T) {
	codec := schema.NewUserCodecV1()
	u := schema.UserV1{
		ID:        1,
		Username:  "emilys",
		Email:     "emily.johnson@x.dummyjson.com",
		FirstName: "Emily",
		LastName:  "Johnson",
	}

	data, err := codec.Encode(u)
	require.NoError(t, err)

	var got schema.UserV1
	require.NoError(t, codec.Decode(data, &got))
	assert.Equal(t, u, got)
}

func TestTopicSubject(t *testing.T) {
	assert.Equal(t, "client-events-value", schema.TopicSubject("client-events"))
}
