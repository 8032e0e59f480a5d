package schema

import "github.com/hamba/avro/v2"

const UserSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.session",
	"name": "user",
	"fields": [
		{"name": "id", "type": "long"},
		{"name": "username", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "first_name", "type": "string"},
		{"name": "last_name", "type": "string"},
		{"name": "image", "type": "string"}
	]
}`

type UserV1 struct {
	ID        int    `avro:"id"`
	Username  string `avro:"username"`
	Email     string `avro:"email"`
	FirstName string `avro:"first_name"`
	LastName  string `avro:"last_name"`
	Image     string `avro:"image"`
}

func UserV1Avro() avro.Schema {
	return avro.MustParse(UserSchemaTextV1)
}

// A Codec encodes values with a bare Avro schema, without the Schema
// Registry framing.
type Codec struct {
	schema avro.Schema
}

func NewUserCodecV1() Codec {
	return Codec{UserV1Avro()}
}

func (c Codec) Encode(v any) ([]byte, error) {
	return avro.Marshal(c.schema, v)
}

func (c Codec) Decode(data []byte, v any) error {
	return avro.Unmarshal(c.schema, data, v)
}
