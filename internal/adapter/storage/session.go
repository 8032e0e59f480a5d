package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.SessionStorage = (*SessionRepository)(nil)

const (
	tokenKey = "token"
	userKey  = "user"
)

type keyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// SessionRepository keeps the session token and the user object in local
// storage.
type SessionRepository struct {
	kv    keyValue
	codec Codec
}

func NewSessionRepository(kv keyValue, codec Codec) SessionRepository {
	return SessionRepository{kv, codec}
}

func (r SessionRepository) SaveSession(
	ctx context.Context, s domain.Session,
) error {
	const op = "SessionRepository.SaveSession"

	user, err := r.codec.Encode(r.toSchema(s.User))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = r.kv.SetMany(ctx, map[string][]byte{
		tokenKey: []byte(s.Token),
		userKey:  user,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r SessionRepository) LoadSession(
	ctx context.Context,
) (domain.Session, error) {
	const op = "SessionRepository.LoadSession"

	token, err := r.get(ctx, tokenKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	data, err := r.get(ctx, userKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var user schema.UserV1
	if err := r.codec.Decode(data, &user); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{Token: string(token), User: r.toDomain(user)}, nil
}

func (r SessionRepository) ClearSession(ctx context.Context) error {
	const op = "SessionRepository.ClearSession"

	if err := r.kv.Delete(ctx, tokenKey, userKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r SessionRepository) get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.ErrNoSession
	}
	return v, err
}

func (SessionRepository) toSchema(u domain.User) schema.UserV1 {
	return schema.UserV1{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
	}
}

func (SessionRepository) toDomain(u schema.UserV1) domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
	}
}
