package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/store"
)

var _ port.SessionStarter = (*Service)(nil)
var _ port.SessionRestorer = (*Service)(nil)
var _ port.ProductsFinder = (*Service)(nil)
var _ port.CategoriesLister = (*Service)(nil)

type Service struct {
	authAPI        port.AuthAPI
	catalogAPI     port.CatalogAPI
	sessions       port.SessionStorage
	eventsProducer port.ClientEventsProducer
	user           store.Writable[*domain.User]
	pageSize       int
	now            func() time.Time
}

// New returns the client core service. eventsProducer may be nil, then
// no search events are produced.
func New(
	authAPI port.AuthAPI,
	catalogAPI port.CatalogAPI,
	sessions port.SessionStorage,
	eventsProducer port.ClientEventsProducer,
	user store.Writable[*domain.User],
	pageSize int,
) Service {
	return Service{
		authAPI:        authAPI,
		catalogAPI:     catalogAPI,
		sessions:       sessions,
		eventsProducer: eventsProducer,
		user:           user,
		pageSize:       pageSize,
		now:            time.Now,
	}
}

// Login authenticates with the backend. A nil session with a nil error
// means the backend answered without a session; nothing is stored then.
func (s Service) Login(
	ctx context.Context, creds domain.Credentials,
) (*domain.Session, error) {
	const op = "Service.Login"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.authAPI.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if session == nil {
		log.Warn("empty login response")
		return nil, nil
	}

	if err := s.sessions.SaveSession(ctx, *session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := session.User
	s.user.Set(&user)

	log.Info("logged in", "userID", user.ID)
	return session, nil
}

// RestoreSession puts the stored user into the store. Sessions with an
// expired token are cleared. The stored user is refreshed from the
// backend when possible.
func (s Service) RestoreSession(ctx context.Context) error {
	const op = "Service.RestoreSession"
	log := slog.With("op", op)

	session, err := s.sessions.LoadSession(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			log.Debug("no stored session")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if tokenExpired(session.Token, s.now()) {
		log.Info("stored session expired")
		if err := s.sessions.ClearSession(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	user := session.User
	s.user.Set(&user)

	fresh, err := s.authAPI.CurrentUser(ctx, session.Token)
	if err != nil {
		log.Warn("failed to refresh user", "err", err)
		return nil
	}
	if fresh == nil {
		return nil
	}

	s.user.Set(fresh)
	session.User = *fresh
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) FindProducts(
	ctx context.Context, f domain.ProductFilter,
) (*domain.ProductPage, error) {
	const op = "Service.FindProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page, err := s.catalogAPI.FetchProducts(ctx, f.Query(s.pageSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if page != nil && (f.Search != "" || f.Category != "") {
		s.produceFindEvent(ctx, f, page.Total)
	}
	return page, nil
}

func (s Service) ListCategories(ctx context.Context) (*[]string, error) {
	const op = "Service.ListCategories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.catalogAPI.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s Service) produceFindEvent(
	ctx context.Context, f domain.ProductFilter, total int,
) {
	const op = "Service.produceFindEvent"

	if s.eventsProducer == nil {
		return
	}

	evt := domain.ClientFindProductEvent{
		EventID:    uuid.NewString(),
		Username:   s.username(),
		Search:     f.Search,
		Category:   f.Category,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		Sort:       string(f.Sort),
		Page:       f.Page,
		Total:      total,
		OccurredAt: s.now(),
	}

	err := s.eventsProducer.ProduceEvents(ctx, []domain.ClientFindProductEvent{evt})
	if err != nil {
		slog.Warn("failed to produce event", "op", op, "err", err)
	}
}

func (s Service) username() string {
	if u := s.user.Get(); u != nil && u.Username != "" {
		return u.Username
	}
	return "anonymous"
}

// tokenExpired reports whether token is a JWT whose exp claim has
// passed. Opaque tokens never expire on the client side.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}
