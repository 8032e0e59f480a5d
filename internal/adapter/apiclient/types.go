package apiclient

import "github.com/niksmo/storefront/internal/core/domain"

type errorResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  user   `json:"user"`
}

type user struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
}

type product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Thumbnail   string  `json:"thumbnail"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
}

type productsResponse struct {
	Products []product `json:"products"`
	Total    int       `json:"total"`
}

func (u user) toDomain() domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
	}
}

func (r productsResponse) toDomain() domain.ProductPage {
	ps := make([]domain.Product, len(r.Products))
	for i, p := range r.Products {
		ps[i] = domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Brand:       p.Brand,
			Thumbnail:   p.Thumbnail,
			Price:       p.Price,
			Rating:      p.Rating,
			Stock:       p.Stock,
		}
	}
	return domain.ProductPage{Products: ps, Total: r.Total}
}
