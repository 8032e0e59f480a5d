// Package query implements a keyed cache of asynchronous fetch results.
//
// Views observe a key through an [Observer] and are signalled whenever the
// entry behind the key changes. At most one fetch per key is in flight; a
// forced refetch starts a new generation and results of older generations
// are discarded.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status uint8

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// A Key identifies a cacheable fetch result.
type Key string

// NewKey builds a key from its parts. Parts are formatted with fmt and
// quoted, so ("a", "b,c") and ("a,b", "c") differ.
func NewKey(parts ...any) Key {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range parts {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(fmt.Sprint(p)))
	}
	b.WriteByte(']')
	return Key(b.String())
}

type Result[T any] struct {
	Status    Status
	Data      *T
	Err       error
	UpdatedAt time.Time

	// Fetching is set while a request for the key is in flight, including
	// background refetches of an entry that already holds data.
	Fetching bool
}

func (r Result[T]) IsPending() bool {
	return r.Status == StatusPending
}

// Failed reports an error or a success that carried no data.
func (r Result[T]) Failed() bool {
	return r.Status == StatusError || (r.Status == StatusSuccess && r.Data == nil)
}
