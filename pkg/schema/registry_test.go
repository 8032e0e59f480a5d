package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"
)

type fakeRegistry struct {
	subject string
	schema  sr.Schema
	err     error
}

func (r *fakeRegistry) CreateSchema(
	_ context.Context, subject string, s sr.Schema,
) (sr.SubjectSchema, error) {
	r.subject, r.schema = subject, s
	if r.err != nil {
		return sr.SubjectSchema{}, r.err
	}
	return sr.SubjectSchema{Subject: subject, ID: 42, Schema: s}, nil
}

func TestRegistryIdentifier(t *testing.T) {
	t.Run("Registers", func(t *testing.T) {
		reg := new(fakeRegistry)
		id, err := RegistryIdentifier{reg}.DetermineID(
			t.Context(), "client-events-value", ClientFindProductEventSchemaTextV1,
		)
		require.NoError(t, err)
		assert.Equal(t, 42, id)
		assert.Equal(t, "client-events-value", reg.subject)
		assert.Equal(t, sr.TypeAvro, reg.schema.Type)
	})

	t.Run("Error", func(t *testing.T) {
		errConn := errors.New("connection refused")
		_, err := RegistryIdentifier{&fakeRegistry{err: errConn}}.DetermineID(
			t.Context(), "client-events-value", ClientFindProductEventSchemaTextV1,
		)
		assert.ErrorIs(t, err, errConn)
	})
}
