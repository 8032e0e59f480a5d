package domain

import "time"

// ClientFindProductEvent records a catalog search made by a client.
type ClientFindProductEvent struct {
	EventID    string
	Username   string
	Search     string
	Category   string
	MinPrice   string
	MaxPrice   string
	Sort       string
	Page       int
	Total      int
	OccurredAt time.Time
}
