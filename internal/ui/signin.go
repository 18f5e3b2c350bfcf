package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/chatsync"
	"github.com/saravenpi/parley/internal/socket"
)

type signedInMsg struct {
	result *api.LoginResult
	err    error
}

type socketConnectedMsg struct {
	conn *socket.Conn
	err  error
}

type SignInModel struct {
	app           *App
	usernameInput textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	signingIn     bool
	spinner       spinner.Model
	loginResult   *api.LoginResult
	err           error
	windowWidth   int
	windowHeight  int
}

// NewSignInModel creates the sign-in screen, the app's entry point.
func NewSignInModel(app *App) SignInModel {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "Username"
	usernameInput.Focus()
	usernameInput.CharLimit = 100
	usernameInput.Width = 40

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.CharLimit = 100
	passwordInput.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return SignInModel{
		app:           app,
		usernameInput: usernameInput,
		passwordInput: passwordInput,
		spinner:       s,
		windowWidth:   80,
		windowHeight:  30,
	}
}

func (m SignInModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SignInModel) signInCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.app.API.Login(context.Background(), username, password)
		return signedInMsg{result: result, err: err}
	}
}

func (m SignInModel) connectCmd(token string) tea.Cmd {
	return func() tea.Msg {
		conn, err := socket.Dial(context.Background(), m.app.Config.SocketURL, token)
		return socketConnectedMsg{conn: conn, err: err}
	}
}

func (m *SignInModel) updateFocus() {
	if m.focusIndex == 0 {
		m.usernameInput.Focus()
		m.passwordInput.Blur()
	} else {
		m.usernameInput.Blur()
		m.passwordInput.Focus()
	}
}

func (m SignInModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case signedInMsg:
		if msg.err != nil {
			m.signingIn = false
			m.err = msg.err
			return m, nil
		}
		m.loginResult = msg.result
		return m, m.connectCmd(msg.result.Token)

	case socketConnectedMsg:
		m.signingIn = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		// One session per sign-in: fresh store, fresh reconciler, and the
		// socket's only subscription handed to it.
		session := chatsync.NewSession(m.loginResult.User, m.app.API, m.app.Logger)
		msg.conn.SetLogger(m.app.Logger)
		session.Attach(msg.conn.Subscribe())
		m.app.Session = session
		m.app.Socket = msg.conn

		chatsModel := NewChatsModel(m.app)
		if m.windowWidth > 0 {
			updatedModel, _ := chatsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			chatsModel = updatedModel.(ChatsModel)
		}
		return chatsModel, tea.Batch(chatsModel.Init(), listenForFrames(session.Frames()))

	case spinner.TickMsg:
		if m.signingIn {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.signingIn {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.focusIndex = (m.focusIndex + 1) % 2
			m.updateFocus()
			return m, nil

		case "enter":
			if m.usernameInput.Value() == "" || m.passwordInput.Value() == "" {
				m.err = fmt.Errorf("username and password are required")
				return m, nil
			}
			m.err = nil
			m.signingIn = true
			return m, tea.Batch(
				m.spinner.Tick,
				m.signInCmd(m.usernameInput.Value(), m.passwordInput.Value()),
			)
		}
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m SignInModel) View() string {
	s := titleStyle.Render("Parley - Sign In") + "\n\n"

	usernameLabel := "  Username:"
	if m.focusIndex == 0 {
		usernameLabel = "> Username:"
	}
	passwordLabel := "  Password:"
	if m.focusIndex == 1 {
		passwordLabel = "> Password:"
	}

	s += inputStyle.Render(usernameLabel) + "\n"
	s += m.usernameInput.View() + "\n\n"
	s += inputStyle.Render(passwordLabel) + "\n"
	s += m.passwordInput.View() + "\n"

	if m.signingIn {
		s += fmt.Sprintf("\n  %s Signing in...\n", m.spinner.View())
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("tab: switch field • enter: sign in • esc: quit")
	return s
}
