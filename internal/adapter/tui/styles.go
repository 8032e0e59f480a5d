package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#101F38")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#E53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorBorder  = lipgloss.Color("#2A3850")
)

// Styles holds the lipgloss styles shared by the views.
type Styles struct {
	Brand    lipgloss.Style
	Header   lipgloss.Style
	Greeting lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Loading  lipgloss.Style
	Link     lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	Select        lipgloss.Style
	SelectFocused lipgloss.Style
	Placeholder   lipgloss.Style

	Card        lipgloss.Style
	CardBrand   lipgloss.Style
	CardTitle   lipgloss.Style
	CardPrice   lipgloss.Style
	CardRating  lipgloss.Style
	Description lipgloss.Style

	Page         lipgloss.Style
	PageSelected lipgloss.Style
	PageCursor   lipgloss.Style

	Footer lipgloss.Style
}

func DefaultStyles() Styles {
	focused := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(colorPrimary).
		Background(colorAccent)

	boxed := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorBorder)

	return Styles{
		Brand:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Header:   lipgloss.NewStyle().Padding(0, 1).MarginBottom(1),
		Greeting: lipgloss.NewStyle().Foreground(colorAccent),
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label:    lipgloss.NewStyle().Bold(true),
		Hint:     lipgloss.NewStyle().Foreground(colorWarning),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Warning:  lipgloss.NewStyle().Foreground(colorWarning),
		Loading:  lipgloss.NewStyle().Foreground(colorMuted),
		Link:     lipgloss.NewStyle().Underline(true).Foreground(colorAccent),

		Button:        lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()),
		ButtonFocused: focused.Border(lipgloss.NormalBorder()).BorderForeground(colorAccent),

		Select:        boxed,
		SelectFocused: boxed.BorderForeground(colorAccent),
		Placeholder:   lipgloss.NewStyle().Foreground(colorMuted),

		Card:        boxed.MarginBottom(1),
		CardBrand:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		CardTitle:   lipgloss.NewStyle().Bold(true),
		CardPrice:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		CardRating:  lipgloss.NewStyle().Foreground(colorWarning),
		Description: lipgloss.NewStyle().Foreground(colorMuted),

		Page:         lipgloss.NewStyle().Padding(0, 1),
		PageSelected: focused,
		PageCursor:   lipgloss.NewStyle().Padding(0, 1).Underline(true),

		Footer: lipgloss.NewStyle().Padding(0, 1).MarginTop(1),
	}
}
