// Package tui implements the terminal views of the storefront client.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/niksmo/storefront/pkg/query"
	"github.com/niksmo/storefront/pkg/store"
)

const (
	productsPath = "/"
	loginPath    = "/login"
)

// Lines taken by the header and the help footer.
const shellChromeHeight = 5

var loginLocation = location.MustParse(loginPath)

type route uint8

const (
	routeProducts route = iota
	routeLogin
	routeNotFound
)

func routeOf(l location.Location) route {
	switch l.Path() {
	case productsPath:
		return routeProducts
	case loginPath:
		return routeLogin
	default:
		return routeNotFound
	}
}

// Service is the core used by the views.
type Service interface {
	port.SessionStarter
	port.SessionRestorer
	port.ProductsFinder
	port.CategoriesLister
}

// Shell is the root model. It renders the header, the view of the
// current route and the key help.
type Shell struct {
	ctx      context.Context
	service  Service
	qc       *query.Client
	router   *location.Router
	user     store.Readable[*domain.User]
	search   store.Writable[string]
	pageSize int

	routerSub *store.Subscription
	userSub   *store.Subscription

	searchInput textinput.Model
	help        help.Model

	route    route
	mounted  bool
	login    LoginModel
	products ProductsModel
	notFound NotFoundModel

	width  int
	height int

	keys   KeyMap
	styles Styles
}

func NewShell(
	ctx context.Context,
	service Service,
	qc *query.Client,
	router *location.Router,
	user store.Readable[*domain.User],
	search store.Writable[string],
	pageSize int,
) Shell {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search products"
	searchInput.Prompt = "⌕ "
	searchInput.Width = 30
	searchInput.SetValue(search.Get())

	m := Shell{
		ctx:         ctx,
		service:     service,
		qc:          qc,
		router:      router,
		user:        user,
		search:      search,
		pageSize:    pageSize,
		routerSub:   router.Subscribe(),
		userSub:     user.Subscribe(),
		searchInput: searchInput,
		help:        help.New(),
		width:       80,
		height:      24,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
	}
	m.mount(routeOf(router.Location()))
	return m
}

func (m Shell) Init() tea.Cmd {
	return tea.Batch(
		listen(m.routerSub.C()),
		listen(m.userSub.C()),
		m.restore(),
		m.viewInit(),
	)
}

func (m Shell) restore() tea.Cmd {
	ctx, service := m.ctx, m.service
	return func() tea.Msg {
		return restoredMsg{err: service.RestoreSession(ctx)}
	}
}

func (m Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	const op = "Shell.Update"

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.route == routeProducts {
			m.products.SetSize(m.width, m.bodyHeight())
		}
		return m, nil

	case restoredMsg:
		if msg.err != nil {
			slog.Warn("failed to restore session", "op", op, "err", msg.err)
		}
		return m, nil

	case signalMsg:
		switch msg.source {
		case m.routerSub.C():
			l := m.router.Location()
			slog.Debug("location changed", "op", op, "location", l.String())
			var cmd tea.Cmd
			if r := routeOf(l); r != m.route || r == routeNotFound {
				cmd = m.mount(r)
			}
			return m, tea.Batch(cmd, listen(msg.source))
		case m.userSub.C():
			return m, listen(msg.source)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Search):
			return m, m.searchInput.Focus()
		case key.Matches(msg, m.keys.Home):
			m.searchInput.Blur()
			m.router.Push(homeLocation)
			return m, nil
		case key.Matches(msg, m.keys.Login):
			m.searchInput.Blur()
			m.router.Push(loginLocation)
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.router.Back()
			return m, nil
		}
		if m.searchInput.Focused() {
			return m, m.updateSearch(msg)
		}
	}

	return m, m.updateView(msg)
}

// updateSearch edits the header search. Enter writes the term to the
// search store and shows the listing from its first page.
func (m *Shell) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchInput.Blur()
		term := strings.TrimSpace(m.searchInput.Value())
		changed := term != m.search.Get()
		l := m.router.Location()
		switch {
		case l.Path() != productsPath:
			m.router.Push(homeLocation)
		case changed && l.Param("page") != "":
			m.router.Replace(l.WithoutParam("page"))
		}
		m.search.Set(term)
		return nil
	case tea.KeyEsc:
		m.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return cmd
}

func (m *Shell) updateView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.route {
	case routeProducts:
		m.products, cmd = m.products.Update(msg)
	case routeLogin:
		m.login, cmd = m.login.Update(msg)
	default:
		m.notFound, cmd = m.notFound.Update(msg)
	}
	return cmd
}

// mount replaces the current view with a new view of r.
func (m *Shell) mount(r route) tea.Cmd {
	m.unmount()
	m.route, m.mounted = r, true

	switch r {
	case routeProducts:
		m.products = NewProductsModel(
			m.service, m.service, m.qc, m.router, m.search, m.pageSize, m.styles,
		)
		m.products.SetSize(m.width, m.bodyHeight())
	case routeLogin:
		m.login = NewLoginModel(m.ctx, m.service, m.router, m.styles)
	default:
		m.notFound = NewNotFoundModel(m.router, m.styles)
	}
	return m.viewInit()
}

func (m *Shell) unmount() {
	if m.mounted && m.route == routeProducts {
		m.products.Close()
	}
	m.mounted = false
}

func (m Shell) viewInit() tea.Cmd {
	switch m.route {
	case routeProducts:
		return m.products.Init()
	case routeLogin:
		return m.login.Init()
	}
	return nil
}

func (m Shell) bodyHeight() int {
	return max(m.height-shellChromeHeight, 5)
}

func (m Shell) View() string {
	var body string
	switch m.route {
	case routeProducts:
		body = m.products.View()
	case routeLogin:
		body = m.login.View()
	default:
		body = m.notFound.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.styles.Footer.Render(m.help.View(m.keys)),
	)
}

func (m Shell) renderHeader() string {
	greeting := m.styles.Placeholder.Render("ctrl+l Login")
	if u := m.user.Get(); u != nil {
		greeting = m.styles.Greeting.Render("Hi, " + u.DisplayName())
	}

	return m.styles.Header.Render(lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Brand.Render("Storefront"),
		"   ",
		m.searchInput.View(),
		"   ",
		greeting,
	))
}

// Close releases the subscriptions of the shell and its current view.
func (m Shell) Close() {
	m.unmount()
	m.routerSub.Close()
	m.userSub.Close()
}
