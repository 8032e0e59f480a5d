package tui

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/niksmo/storefront/pkg/query"
	"github.com/niksmo/storefront/pkg/store"
)

const (
	productsSort = iota
	productsMin
	productsMax
	productsSearch
	productsCategory
	productsPages
	productsFocusCount
)

// Lines taken by the filter bar and the pagination row.
const productsChromeHeight = 6

var categoriesKey = query.NewKey("category")

// ProductsModel is the product listing with its filters and pagination.
//
// The product query is keyed by category, sort, page and search. Price
// bounds are not part of the key: they are committed by the "Search"
// button, which refetches the current key.
type ProductsModel struct {
	finder   port.ProductsFinder
	router   *location.Router
	search   store.Readable[string]
	pageSize int

	products   *query.Observer[domain.ProductPage]
	categories *query.Observer[[]string]
	routerSub  *store.Subscription
	searchSub  *store.Subscription

	sort     SelectModel
	category SelectModel
	minPrice textinput.Model
	maxPrice textinput.Model
	// committed price bounds used by the queries
	priceMin, priceMax string

	focus    int
	cursor   int
	viewport viewport.Model
	spinner  spinner.Model
	spinning bool
	width    int

	keys   KeyMap
	styles Styles
}

func NewProductsModel(
	finder port.ProductsFinder,
	lister port.CategoriesLister,
	qc *query.Client,
	router *location.Router,
	search store.Readable[string],
	pageSize int,
	styles Styles,
) ProductsModel {
	sortSelect := NewSelectModel("Sort by", styles)
	values := make([]string, len(domain.SortOptions))
	labels := make([]string, len(domain.SortOptions))
	for i, o := range domain.SortOptions {
		values[i], labels[i] = string(o.Key), o.Name
	}
	sortSelect.SetOptions(values, labels)
	sortSelect.Focus()

	m := ProductsModel{
		finder:     finder,
		router:     router,
		search:     search,
		pageSize:   pageSize,
		products:   query.NewObserver[domain.ProductPage](qc),
		categories: query.NewObserver[[]string](qc),
		routerSub:  router.Subscribe(),
		searchSub:  search.Subscribe(),
		sort:       sortSelect,
		category:   NewSelectModel("Select a category", styles),
		minPrice:   newPriceInput("Min"),
		maxPrice:   newPriceInput("Max"),
		viewport:   viewport.New(80, 20),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:      80,
		keys:       DefaultKeyMap(),
		styles:     styles,
	}

	m.categories.Observe(categoriesKey, lister.ListCategories)
	m.syncCategories()
	m.observe()
	m.spinning = m.pending()
	m.refresh()
	return m
}

func newPriceInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 12
	ti.Width = 8
	return ti
}

func (m ProductsModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listen(m.products.Changed()),
		listen(m.categories.Changed()),
		listen(m.routerSub.C()),
		listen(m.searchSub.C()),
	}
	if m.spinning {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *ProductsModel) SetSize(w, h int) {
	m.width = w
	m.viewport.Width = w
	m.viewport.Height = max(h-productsChromeHeight, 3)
	m.refresh()
}

func (m ProductsModel) Update(msg tea.Msg) (ProductsModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case signalMsg:
		switch msg.source {
		case m.products.Changed():
		case m.categories.Changed():
			m.syncCategories()
		case m.routerSub.C(), m.searchSub.C():
			m.observe()
		default:
			return m, nil
		}
		cmds = append(cmds, listen(msg.source))

	case spinner.TickMsg:
		if !m.pending() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.pending() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *ProductsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % productsFocusCount)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + productsFocusCount - 1) % productsFocusCount)
	}

	switch m.focus {
	case productsSort, productsCategory:
		if key.Matches(msg, m.keys.Left, m.keys.Right) {
			var changed bool
			if m.focus == productsSort {
				m.sort, changed = m.sort.Update(msg)
			} else {
				m.category, changed = m.category.Update(msg)
			}
			if changed {
				m.observe()
			}
			return nil
		}

	case productsMin, productsMax:
		if !numericKey(msg) {
			return nil
		}
		var cmd tea.Cmd
		if m.focus == productsMin {
			m.minPrice, cmd = m.minPrice.Update(msg)
		} else {
			m.maxPrice, cmd = m.maxPrice.Update(msg)
		}
		return cmd

	case productsSearch:
		if key.Matches(msg, m.keys.Submit) {
			m.commitPrice()
			return nil
		}

	case productsPages:
		count := m.pageCount()
		switch {
		case count == 0:
		case key.Matches(msg, m.keys.Left):
			m.cursor = max(m.cursor-1, 1)
			return nil
		case key.Matches(msg, m.keys.Right):
			m.cursor = min(m.cursor+1, count)
			return nil
		case key.Matches(msg, m.keys.Submit):
			m.selectPage(m.cursor)
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *ProductsModel) setFocus(i int) tea.Cmd {
	m.focus = i
	m.sort.Blur()
	m.category.Blur()
	m.minPrice.Blur()
	m.maxPrice.Blur()

	switch i {
	case productsSort:
		m.sort.Focus()
	case productsCategory:
		m.category.Focus()
	case productsMin:
		return m.minPrice.Focus()
	case productsMax:
		return m.maxPrice.Focus()
	case productsPages:
		m.cursor = min(max(m.page(), 1), max(m.pageCount(), 1))
	}
	return nil
}

// commitPrice takes the typed price bounds and refetches the current key.
func (m *ProductsModel) commitPrice() {
	m.priceMin, m.priceMax = m.minPrice.Value(), m.maxPrice.Value()
	m.observe()
	m.products.Refetch()
}

// selectPage sets the page parameter keeping the other parameters.
func (m *ProductsModel) selectPage(page int) {
	m.router.SetParam("page", strconv.Itoa(page))
	m.viewport.GotoTop()
}

func (m ProductsModel) page() int {
	return domain.ParsePage(m.router.Location().Param("page"))
}

func (m ProductsModel) filter() domain.ProductFilter {
	return domain.ProductFilter{
		Search:   m.search.Get(),
		Category: m.category.Value(),
		MinPrice: m.priceMin,
		MaxPrice: m.priceMax,
		Sort:     domain.SortKey(m.sort.Value()),
		Page:     m.page(),
	}
}

func productsKey(f domain.ProductFilter) query.Key {
	return query.NewKey("products", f.Category, f.Sort, f.Page, f.Search)
}

// observe points the products observer at the key of the current filter.
func (m ProductsModel) observe() {
	if m.router.Location().Path() != productsPath {
		return
	}
	f := m.filter()
	finder := m.finder
	m.products.Observe(productsKey(f), func(ctx context.Context) (*domain.ProductPage, error) {
		return finder.FindProducts(ctx, f)
	})
}

func (m *ProductsModel) syncCategories() {
	res := m.categories.Result()
	if res.Data == nil {
		return
	}
	values := make([]string, 0, len(*res.Data))
	labels := make([]string, 0, len(*res.Data))
	for _, id := range *res.Data {
		if id == "" {
			continue
		}
		values = append(values, id)
		labels = append(labels, domain.FormatCategory(id))
	}
	m.category.SetOptions(values, labels)
}

func (m ProductsModel) pending() bool {
	res := m.products.Result()
	return res.Status == query.StatusIdle || res.IsPending()
}

// pageCount is zero until a total is known.
func (m ProductsModel) pageCount() int {
	res := m.products.Result()
	if res.Status != query.StatusSuccess || res.Data == nil {
		return 0
	}
	return domain.PageCount(res.Data.Total, m.pageSize)
}

func (m *ProductsModel) refresh() {
	m.viewport.SetContent(m.renderBody())
}

func (m ProductsModel) renderBody() string {
	res := m.products.Result()
	switch {
	case res.Status == query.StatusIdle || res.IsPending():
		return m.spinner.View() + " " + m.styles.Loading.Render("Fetching products...")
	case res.Failed():
		return m.styles.Error.Render("Some error occured")
	case len(res.Data.Products) == 0:
		return m.styles.Warning.Render("No Products were found")
	}

	cardWidth := max(m.width-4, 20)
	cards := make([]string, len(res.Data.Products))
	for i, p := range res.Data.Products {
		cards[i] = m.renderCard(p, cardWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m ProductsModel) renderCard(p domain.Product, width int) string {
	head := m.styles.CardBrand.Render(p.Brand) + "  " + p.Category
	title := m.styles.CardTitle.Render(p.Title) + "  " +
		m.styles.CardRating.Render("★ "+formatNumber(p.Rating))
	desc := m.styles.Description.Width(width - 4).Render(p.Description)
	price := m.styles.CardPrice.Render("₹" + formatNumber(p.Price))

	return m.styles.Card.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, head, title, desc, price),
	)
}

func (m ProductsModel) renderFilters() string {
	search := m.styles.Button
	if m.focus == productsSearch {
		search = m.styles.ButtonFocused
	}
	price := lipgloss.JoinHorizontal(lipgloss.Center,
		m.priceBox(m.minPrice, m.focus == productsMin),
		" To ",
		m.priceBox(m.maxPrice, m.focus == productsMax),
		" ",
		search.Render("Search"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.sort.View(), "  ", price, "  ", m.category.View(),
	)
}

func (m ProductsModel) priceBox(ti textinput.Model, focused bool) string {
	style := m.styles.Select
	if focused {
		style = m.styles.SelectFocused
	}
	return style.Render(ti.View())
}

func (m ProductsModel) renderPagination() string {
	count := m.pageCount()
	if count == 0 || m.pending() {
		return ""
	}

	active := m.page()
	pages := make([]string, count)
	for k := 1; k <= count; k++ {
		style := m.styles.Page
		switch {
		case k == active:
			style = m.styles.PageSelected
		case m.focus == productsPages && k == m.cursor:
			style = m.styles.PageCursor
		}
		pages[k-1] = style.Render(strconv.Itoa(k))
	}
	return strings.Join(pages, "")
}

func (m ProductsModel) View() string {
	parts := []string{m.renderFilters(), m.viewport.View()}
	if p := m.renderPagination(); p != "" {
		parts = append(parts, p)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m ProductsModel) Close() {
	m.products.Close()
	m.categories.Close()
	m.routerSub.Close()
	m.searchSub.Close()
}

func numericKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeySpace:
		return false
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) && r != '.' {
				return false
			}
		}
	}
	return true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
