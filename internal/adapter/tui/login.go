package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/location"
	"github.com/niksmo/storefront/pkg/query"
)

const (
	loginEmail = iota
	loginPassword
	loginButton
	loginSignUp
	loginFocusCount
)

const requiredHint = "Please fill out this field."

var (
	homeLocation   = location.MustParse("/")
	signUpLocation = location.MustParse("/sign-up")
)

type loginSettledMsg struct {
	mutation *query.Mutation[domain.Credentials, domain.Session]
	res      query.Result[domain.Session]
}

// LoginModel is the login form.
type LoginModel struct {
	ctx      context.Context
	router   *location.Router
	mutation *query.Mutation[domain.Credentials, domain.Session]

	email    textinput.Model
	password textinput.Model
	focus    int
	hint     string
	hintFor  int

	keys   KeyMap
	styles Styles
}

func NewLoginModel(
	ctx context.Context,
	starter port.SessionStarter,
	router *location.Router,
	styles Styles,
) LoginModel {
	email := textinput.New()
	email.Placeholder = "Your email"
	email.Prompt = "> "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Your password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		ctx:    ctx,
		router: router,
		mutation: query.NewMutation[domain.Credentials, domain.Session](
			starter.Login,
		),
		email:    email,
		password: password,
		keys:     DefaultKeyMap(),
		styles:   styles,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	const op = "LoginModel.Update"

	switch msg := msg.(type) {
	case loginSettledMsg:
		if msg.mutation != m.mutation {
			return m, nil
		}
		if msg.res.Status == query.StatusSuccess && msg.res.Data != nil {
			m.email.Reset()
			m.password.Reset()
			m.mutation.Reset()
			if err := m.router.Navigate(productsPath); err != nil {
				slog.Error("failed to leave login", "op", op, "err", err)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % loginFocusCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + loginFocusCount - 1) % loginFocusCount)
		case key.Matches(msg, m.keys.Submit):
			if m.focus == loginSignUp {
				m.router.Push(signUpLocation)
				return m, nil
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case loginEmail:
		m.email, cmd = m.email.Update(msg)
	case loginPassword:
		m.password, cmd = m.password.Update(msg)
	default:
		return m, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok && m.hintFor == m.focus {
		m.hint = ""
	}
	return m, cmd
}

// Pending reports whether a submission is in flight.
func (m LoginModel) Pending() bool {
	return m.mutation.IsPending()
}

func (m *LoginModel) setFocus(i int) tea.Cmd {
	m.focus = i
	m.email.Blur()
	m.password.Blur()
	switch i {
	case loginEmail:
		return m.email.Focus()
	case loginPassword:
		return m.password.Focus()
	}
	return nil
}

// submit starts the login unless one is in flight or a field is empty.
func (m *LoginModel) submit() tea.Cmd {
	if m.mutation.IsPending() {
		return nil
	}

	creds := domain.Credentials{
		Email:    m.email.Value(),
		Password: m.password.Value(),
	}
	switch {
	case creds.Email == "":
		m.hint, m.hintFor = requiredHint, loginEmail
		return m.setFocus(loginEmail)
	case creds.Password == "":
		m.hint, m.hintFor = requiredHint, loginPassword
		return m.setFocus(loginPassword)
	}
	m.hint = ""

	mutation := m.mutation
	run := mutation.Mutate(m.ctx, creds)
	return func() tea.Msg {
		return loginSettledMsg{mutation: mutation, res: run()}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Login your account"))
	b.WriteString("\n")

	m.writeField(&b, "Email", m.email.View(), loginEmail)
	m.writeField(&b, "Password", m.password.View(), loginPassword)

	buttonText := "Login"
	if m.mutation.IsPending() {
		buttonText = "Logging you in..."
	}
	button := m.styles.Button
	if m.focus == loginButton {
		button = m.styles.ButtonFocused
	}
	b.WriteString(button.Render(buttonText))
	b.WriteString("\n")

	if m.mutation.Result().Failed() {
		b.WriteString(m.styles.Error.Render("Error in logging"))
		b.WriteString("\n")
	}

	b.WriteString("\nDon't have an account? ")
	link := "Sign Up"
	if m.focus == loginSignUp {
		link = "> " + link
	}
	b.WriteString(m.styles.Link.Render(link))
	return b.String()
}

func (m LoginModel) writeField(b *strings.Builder, label, input string, field int) {
	b.WriteString(m.styles.Label.Render(label))
	b.WriteString("\n")
	b.WriteString(input)
	b.WriteString("\n")
	if m.hint != "" && m.hintFor == field {
		b.WriteString(m.styles.Hint.Render(m.hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
