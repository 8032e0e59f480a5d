package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const ClientFindProductEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.events",
	"name": "client_find_product",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "username", "type": "string"},
		{"name": "search", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "min_price", "type": "string"},
		{"name": "max_price", "type": "string"},
		{"name": "sort", "type": "string"},
		{"name": "page", "type": "int"},
		{"name": "total", "type": "int"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ClientFindProductEventV1 struct {
	EventID    string    `avro:"event_id"`
	Username   string    `avro:"username"`
	Search     string    `avro:"search"`
	Category   string    `avro:"category"`
	MinPrice   string    `avro:"min_price"`
	MaxPrice   string    `avro:"max_price"`
	Sort       string    `avro:"sort"`
	Page       int       `avro:"page"`
	Total      int       `avro:"total"`
	OccurredAt time.Time `avro:"occurred_at"`
}

func ClientFindProductEventV1Avro() avro.Schema {
	return avro.MustParse(ClientFindProductEventSchemaTextV1)
}
