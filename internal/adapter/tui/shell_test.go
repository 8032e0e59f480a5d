package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/niksmo/storefront/pkg/query"
	"github.com/niksmo/storefront/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type shellFixture struct {
	svc    *MockService
	router *location.Router
	user   *store.Value[*domain.User]
	search *store.Value[string]
}

func newTestShell(t *testing.T, raw string) (Shell, shellFixture) {
	t.Helper()
	svc := new(MockService)
	svc.On("ListCategories", mock.Anything).Return(&[]string{}, nil).Maybe()
	svc.On("FindProducts", mock.Anything, mock.Anything).
		Return(&domain.ProductPage{}, nil).Maybe()

	qc := query.NewClient()
	t.Cleanup(qc.Close)

	fx := shellFixture{
		svc:    svc,
		router: location.NewRouter(location.MustParse(raw)),
		user:   store.NewValue[*domain.User](nil),
		search: store.NewValue(""),
	}
	m := NewShell(t.Context(), svc, qc, fx.router, fx.user, fx.search, testPageSize)
	t.Cleanup(func() { m.Close() })
	return m, fx
}

func update(t *testing.T, m Shell, msg tea.Msg) (Shell, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	s, ok := next.(Shell)
	require.True(t, ok)
	return s, cmd
}

// navigated lets the shell handle a location change.
func navigated(t *testing.T, m Shell) Shell {
	t.Helper()
	m, _ = update(t, m, signalMsg{source: m.routerSub.C()})
	return m
}

func TestShellRoutes(t *testing.T) {
	m, fx := newTestShell(t, loginPath)
	assert.Equal(t, routeLogin, m.route)
	assert.Contains(t, m.View(), "Login your account")

	fx.router.Push(location.MustParse("/nowhere"))
	m = navigated(t, m)
	assert.Equal(t, routeNotFound, m.route)
	assert.Contains(t, m.View(), "Page not found")
	assert.Contains(t, m.View(), "/nowhere")

	fx.router.Push(location.MustParse("/elsewhere"))
	m = navigated(t, m)
	assert.Contains(t, m.View(), "/elsewhere")

	m, _ = update(t, m, keyEnter)
	assert.Equal(t, "/", fx.router.Location().Path())
	m = navigated(t, m)
	assert.Equal(t, routeProducts, m.route)
	assert.Contains(t, m.View(), "Sort by")
	m.Close()
}

func TestShellKeys(t *testing.T) {
	t.Run("Quit", func(t *testing.T) {
		m, _ := newTestShell(t, loginPath)
		_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})

	t.Run("HomeLoginBack", func(t *testing.T) {
		m, fx := newTestShell(t, "/nowhere")

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
		assert.Equal(t, loginPath, fx.router.Location().Path())

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
		assert.Equal(t, "/", fx.router.Location().Path())

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
		assert.Equal(t, loginPath, fx.router.Location().Path())
		m = navigated(t, m)
		assert.Equal(t, routeLogin, m.route)
	})

	t.Run("Search", func(t *testing.T) {
		m, fx := newTestShell(t, loginPath)

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
		assert.True(t, m.searchInput.Focused())

		m, _ = update(t, m, typeText("phone"))
		assert.Empty(t, fx.search.Get())
		// typing goes to the search input, not the login form
		assert.Empty(t, m.login.email.Value())

		m, _ = update(t, m, keyEnter)
		assert.False(t, m.searchInput.Focused())
		assert.Equal(t, "phone", fx.search.Get())
		assert.Equal(t, "/", fx.router.Location().Path())
	})

	t.Run("NewSearchResetsPage", func(t *testing.T) {
		m, fx := newTestShell(t, "/?page=3&view=grid")

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
		m, _ = update(t, m, typeText("laptop"))
		m, _ = update(t, m, keyEnter)

		l := fx.router.Location()
		assert.Equal(t, "laptop", fx.search.Get())
		assert.Empty(t, l.Param("page"))
		assert.Equal(t, "grid", l.Param("view"))
		assert.False(t, fx.router.Back(), "page reset adds no history entry")
	})

	t.Run("SameSearchKeepsPage", func(t *testing.T) {
		m, fx := newTestShell(t, "/?page=3")
		fx.search.Set("laptop")

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
		m, _ = update(t, m, typeText("laptop"))
		m, _ = update(t, m, keyEnter)

		assert.Equal(t, "3", fx.router.Location().Param("page"))
	})
}

func TestShellGreeting(t *testing.T) {
	m, fx := newTestShell(t, loginPath)
	assert.Contains(t, m.View(), "Login")
	assert.NotContains(t, m.View(), "Hi,")

	fx.user.Set(&domain.User{Username: "emilys", FirstName: "Emily"})
	m, _ = update(t, m, signalMsg{source: m.userSub.C()})
	assert.Contains(t, m.View(), "Hi, Emily")
}

func TestShellRestore(t *testing.T) {
	t.Run("Restored", func(t *testing.T) {
		m, fx := newTestShell(t, loginPath)
		fx.svc.On("RestoreSession", mock.Anything).Return(nil).Once()

		msg := m.restore()()
		assert.Equal(t, restoredMsg{}, msg)
		_, cmd := update(t, m, msg)
		assert.Nil(t, cmd)
		fx.svc.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		m, fx := newTestShell(t, loginPath)
		errStorage := errors.New("storage is broken")
		fx.svc.On("RestoreSession", mock.Anything).Return(errStorage).Once()

		msg := m.restore()()
		assert.Equal(t, restoredMsg{err: errStorage}, msg)
		_, cmd := update(t, m, msg)
		assert.Nil(t, cmd)
	})
}

func TestShellWindowSize(t *testing.T) {
	m, _ := newTestShell(t, "/")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.products.viewport.Width)
	assert.Equal(t, 30-shellChromeHeight-productsChromeHeight, m.products.viewport.Height)
}
