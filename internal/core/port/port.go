package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type SessionStarter interface {
	Login(context.Context, domain.Credentials) (*domain.Session, error)
}

type SessionRestorer interface {
	RestoreSession(context.Context) error
}

type ProductsFinder interface {
	FindProducts(context.Context, domain.ProductFilter) (*domain.ProductPage, error)
}

type CategoriesLister interface {
	ListCategories(context.Context) (*[]string, error)
}

type AuthAPI interface {
	Login(context.Context, domain.Credentials) (*domain.Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

type CatalogAPI interface {
	FetchProducts(context.Context, domain.ProductQuery) (*domain.ProductPage, error)
	FetchCategories(context.Context) (*[]string, error)
}

type SessionStorage interface {
	SaveSession(context.Context, domain.Session) error
	LoadSession(context.Context) (domain.Session, error)
	ClearSession(context.Context) error
}

type ClientEventsProducer interface {
	ProduceEvents(context.Context, []domain.ClientFindProductEvent) error
}
