package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type selectOption struct {
	value string
	label string
}

// SelectModel is a single choice input. The placeholder is shown until an
// option is chosen and cannot be chosen back.
type SelectModel struct {
	placeholder string
	options     []selectOption
	index       int
	focused     bool
	keys        KeyMap
	styles      Styles
}

func NewSelectModel(placeholder string, styles Styles) SelectModel {
	return SelectModel{
		placeholder: placeholder,
		index:       -1,
		keys:        DefaultKeyMap(),
		styles:      styles,
	}
}

// SetOptions replaces the options keeping the chosen value when it is
// still present.
func (m *SelectModel) SetOptions(values, labels []string) {
	cur := m.Value()
	m.options = make([]selectOption, 0, len(values))
	m.index = -1
	for i, v := range values {
		m.options = append(m.options, selectOption{value: v, label: labels[i]})
		if v == cur && cur != "" {
			m.index = i
		}
	}
}

func (m SelectModel) Value() string {
	if m.index < 0 || m.index >= len(m.options) {
		return ""
	}
	return m.options[m.index].value
}

func (m SelectModel) Len() int {
	return len(m.options)
}

func (m *SelectModel) Focus() {
	m.focused = true
}

func (m *SelectModel) Blur() {
	m.focused = false
}

func (m SelectModel) Focused() bool {
	return m.focused
}

// Update moves the choice with left and right. It reports whether the
// value changed.
func (m SelectModel) Update(msg tea.Msg) (SelectModel, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.options) == 0 {
		return m, false
	}

	prev := m.index
	switch {
	case key.Matches(keyMsg, m.keys.Right):
		if m.index < len(m.options)-1 {
			m.index++
		}
	case key.Matches(keyMsg, m.keys.Left):
		if m.index > 0 {
			m.index--
		} else if m.index < 0 {
			m.index = 0
		}
	}
	return m, m.index != prev
}

func (m SelectModel) View() string {
	label := m.styles.Placeholder.Render(m.placeholder)
	if m.index >= 0 && m.index < len(m.options) {
		label = m.options[m.index].label
	}

	style := m.styles.Select
	if m.focused {
		style = m.styles.SelectFocused
	}
	return style.Render("‹ " + label + " ›")
}
