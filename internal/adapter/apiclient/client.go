package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the storefront backend REST API.
type Client struct {
	baseURL    *url.URL
	httpClient httpDoer
}

func New(baseURL string, timeout time.Duration) (Client, error) {
	const op = "apiclient.New"

	u, err := url.Parse(baseURL)
	if err != nil {
		return Client{}, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Client{}, fmt.Errorf("%s: unsupported scheme %q", op, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do sends req and decodes the JSON response into out, which must be a
// pointer to a pointer. A "null" or empty body leaves *out nil.
func (c Client) do(ctx context.Context, req request, out any) error {
	const op = "Client.do"
	log := slog.With("op", op, "method", req.method, "path", req.path)

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debug("response", "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: readMessage(resp.Body),
		}
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := *c.baseURL
	u.Path += req.path
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	return httpReq, nil
}

func readMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var e errorResponse
	if json.Unmarshal(b, &e) == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(b))
}
