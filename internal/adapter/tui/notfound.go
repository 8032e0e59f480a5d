package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/niksmo/storefront/pkg/location"
)

type NotFoundModel struct {
	router *location.Router
	path   string
	keys   KeyMap
	styles Styles
}

func NewNotFoundModel(router *location.Router, styles Styles) NotFoundModel {
	return NotFoundModel{
		router: router,
		path:   router.Location().Path(),
		keys:   DefaultKeyMap(),
		styles: styles,
	}
}

func (m NotFoundModel) Update(msg tea.Msg) (NotFoundModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Submit) {
		m.router.Push(homeLocation)
	}
	return m, nil
}

func (m NotFoundModel) View() string {
	return m.styles.Title.Render("Page not found") + "\n" +
		m.styles.Description.Render(m.path) + "\n\n" +
		m.styles.Link.Render("> Go to products")
}
