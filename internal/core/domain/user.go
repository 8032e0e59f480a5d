package domain

import "errors"

var ErrNoSession = errors.New("no session")

type Credentials struct {
	Email    string
	Password string
}

type User struct {
	ID        int
	Username  string
	Email     string
	FirstName string
	LastName  string
	Image     string
}

// DisplayName prefers the first name and falls back to the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

type Session struct {
	Token string
	User  User
}
