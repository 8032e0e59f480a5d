package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.AuthAPI = (*Client)(nil)

// Login posts credentials to /auth/login. A response without a token
// yields a nil session.
func (c Client) Login(
	ctx context.Context, creds domain.Credentials,
) (*domain.Session, error) {
	const op = "Client.Login"

	var resp *loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: creds.Email, Password: creds.Password},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp == nil || resp.Token == "" {
		return nil, nil
	}
	return &domain.Session{Token: resp.Token, User: resp.User.toDomain()}, nil
}

func (c Client) CurrentUser(
	ctx context.Context, token string,
) (*domain.User, error) {
	const op = "Client.CurrentUser"

	var resp *user
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/me",
		token:  token,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp == nil {
		return nil, nil
	}
	u := resp.toDomain()
	return &u, nil
}
