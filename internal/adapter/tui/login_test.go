package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogin(t *testing.T, svc *MockService) (LoginModel, *location.Router) {
	t.Helper()
	router := location.NewRouter(location.MustParse(loginPath))
	return NewLoginModel(t.Context(), svc, router, DefaultStyles()), router
}

func fillLogin(m LoginModel, email, password string) LoginModel {
	m, _ = m.Update(typeText(email))
	m, _ = m.Update(keyTab)
	m, _ = m.Update(typeText(password))
	return m
}

func TestLoginModel(t *testing.T) {
	creds := domain.Credentials{Email: "emily@x.dev", Password: "secret"}

	t.Run("Layout", func(t *testing.T) {
		m, _ := newTestLogin(t, new(MockService))
		view := m.View()
		for _, s := range []string{
			"Login your account", "Email", "Your email", "Password",
			"Your password", "Login", "Don't have an account?", "Sign Up",
		} {
			assert.Contains(t, view, s)
		}
		assert.NotContains(t, view, "Error in logging")
	})

	t.Run("RequiredFields", func(t *testing.T) {
		svc := new(MockService)
		m, _ := newTestLogin(t, svc)

		m, _ = m.Update(keyEnter)
		assert.Contains(t, m.View(), requiredHint)

		m, _ = m.Update(typeText(creds.Email))
		assert.NotContains(t, m.View(), requiredHint)

		m, _ = m.Update(keyEnter)
		assert.Contains(t, m.View(), requiredHint)
		assert.Equal(t, loginPassword, m.focus)

		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		session := &domain.Session{Token: "t", User: domain.User{FirstName: "Emily"}}
		svc.On("Login", mock.Anything, creds).Return(session, nil).Once()

		m, router := newTestLogin(t, svc)
		m = fillLogin(m, creds.Email, creds.Password)
		assert.Contains(t, m.View(), "••••••")

		m, cmd := m.Update(keyEnter)
		require.NotNil(t, cmd)
		assert.True(t, m.Pending())
		assert.Contains(t, m.View(), "Logging you in...")

		m, again := m.Update(keyEnter)
		assert.Nil(t, again)

		m, _ = m.Update(cmd())
		assert.Equal(t, "/", router.Location().Path())
		assert.Empty(t, m.email.Value())
		assert.Empty(t, m.password.Value())
		assert.NotContains(t, m.View(), "Error in logging")
		svc.AssertExpectations(t)
	})

	t.Run("AmbiguousSuccess", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Login", mock.Anything, creds).Return(nil, nil).Once()

		m, router := newTestLogin(t, svc)
		m = fillLogin(m, creds.Email, creds.Password)

		m, cmd := m.Update(keyEnter)
		require.NotNil(t, cmd)
		m, _ = m.Update(cmd())

		assert.Equal(t, loginPath, router.Location().Path())
		assert.Contains(t, m.View(), "Error in logging")
		assert.Contains(t, m.View(), "Login")
		assert.Equal(t, creds.Email, m.email.Value())
		assert.Equal(t, creds.Password, m.password.Value())
	})

	t.Run("Failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Login", mock.Anything, creds).
			Return(nil, errors.New("invalid credentials")).Once()

		m, router := newTestLogin(t, svc)
		m = fillLogin(m, creds.Email, creds.Password)

		m, cmd := m.Update(keyEnter)
		require.NotNil(t, cmd)
		m, _ = m.Update(cmd())

		assert.Equal(t, loginPath, router.Location().Path())
		assert.Contains(t, m.View(), "Error in logging")
		assert.Equal(t, creds.Email, m.email.Value())
	})

	t.Run("StaleResultIgnored", func(t *testing.T) {
		svc := new(MockService)
		session := &domain.Session{Token: "t", User: domain.User{FirstName: "Emily"}}
		svc.On("Login", mock.Anything, creds).Return(session, nil).Once()

		left, router := newTestLogin(t, svc)
		left = fillLogin(left, creds.Email, creds.Password)
		_, cmd := left.Update(keyEnter)
		require.NotNil(t, cmd)

		remounted := NewLoginModel(t.Context(), svc, router, DefaultStyles())
		remounted = fillLogin(remounted, "other@x.dev", "pw")

		remounted, _ = remounted.Update(cmd())
		assert.Equal(t, loginPath, router.Location().Path())
		assert.Equal(t, "other@x.dev", remounted.email.Value())
		assert.Equal(t, "pw", remounted.password.Value())
		svc.AssertExpectations(t)
	})

	t.Run("SignUpLink", func(t *testing.T) {
		m, router := newTestLogin(t, new(MockService))
		m, _ = m.Update(keyShiftTab)
		assert.Equal(t, loginSignUp, m.focus)

		_, cmd := m.Update(keyEnter)
		assert.Nil(t, cmd)
		assert.Equal(t, "/sign-up", router.Location().Path())
	})

	t.Run("IgnoresOtherMessages", func(t *testing.T) {
		m, _ := newTestLogin(t, new(MockService))
		m, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
		assert.Contains(t, m.View(), "Login your account")
	})
}
