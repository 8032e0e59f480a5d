// Package location keeps URL state as an explicit, serializable snapshot.
package location

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalid = errors.New("invalid location")

// A Location is an immutable path and query snapshot.
type Location struct {
	path   string
	params url.Values
}

// Parse reads a location such as "/?page=2&sort=price-asc".
// Scheme and host are not allowed.
func Parse(raw string) (Location, error) {
	const op = "location.Parse"

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return Location{}, fmt.Errorf("%s: %w: absolute url %q", op, ErrInvalid, raw)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Location{path: path, params: u.Query()}, nil
}

func MustParse(raw string) Location {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Location) Path() string {
	if l.path == "" {
		return "/"
	}
	return l.path
}

// Param returns the first value of key or "".
func (l Location) Param(key string) string {
	return l.params.Get(key)
}

func (l Location) Params() url.Values {
	params := make(url.Values, len(l.params))
	for k, vs := range l.params {
		params[k] = append([]string(nil), vs...)
	}
	return params
}

// WithParam returns a copy with key set to value. Other parameters are
// kept.
func (l Location) WithParam(key, value string) Location {
	params := l.Params()
	params.Set(key, value)
	return Location{path: l.Path(), params: params}
}

func (l Location) WithoutParam(key string) Location {
	params := l.Params()
	params.Del(key)
	return Location{path: l.Path(), params: params}
}

// String encodes the location with parameters sorted by key.
func (l Location) String() string {
	q := l.params.Encode()
	if q == "" {
		return l.Path()
	}
	return l.Path() + "?" + q
}

func (l Location) Equal(other Location) bool {
	return l.String() == other.String()
}
