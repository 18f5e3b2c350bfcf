package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saravenpi/parley/internal/models"
	"github.com/saravenpi/parley/internal/protocol"
)

type userItem struct {
	user models.User
}

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }
func (i userItem) Description() string { return fmt.Sprintf("user #%d", i.user.ID) }

type usersLoadedMsg struct {
	users []models.User
	err   error
}

type chatCreatedMsg struct {
	validation protocol.Validation
	result     *protocol.CreateResult
	err        error
}

type CreateChatModel struct {
	app          *App
	list         list.Model
	users        []models.User
	selected     *models.User
	private      bool
	nameInput    textinput.Model
	nameFocused  bool
	loading      bool
	submitting   bool
	validation   protocol.Validation
	err          error
	windowWidth  int
	windowHeight int
}

// NewCreateChatModel creates the new-chat dialog. Chats start private;
// toggling to public reveals the required name field.
func NewCreateChatModel(app *App) CreateChatModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 14)
	l.Title = "New Chat - pick a user"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	nameInput := textinput.New()
	nameInput.Placeholder = "Chat Name"
	nameInput.CharLimit = 100
	nameInput.Width = 40

	return CreateChatModel{
		app:          app,
		list:         l,
		private:      true,
		nameInput:    nameInput,
		loading:      true,
		validation:   protocol.Validation{OK: true},
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m CreateChatModel) Init() tea.Cmd {
	return m.fetchUsersCmd()
}

// fetchUsersCmd loads the user directory, minus the signed-in user.
func (m CreateChatModel) fetchUsersCmd() tea.Cmd {
	return func() tea.Msg {
		users, err := m.app.API.Users(context.Background())
		if err != nil {
			return usersLoadedMsg{err: err}
		}
		filtered := make([]models.User, 0, len(users))
		for _, u := range users {
			if u.ID != m.app.Session.User.ID {
				filtered = append(filtered, u)
			}
		}
		return usersLoadedMsg{users: filtered}
	}
}

func (m CreateChatModel) submitCmd() tea.Cmd {
	cfg := protocol.NewChatConfig{
		Self:     m.app.Session.User,
		Selected: m.selected,
		Private:  m.private,
		ChatName: m.nameInput.Value(),
	}
	return func() tea.Msg {
		validation, result, err := protocol.CreateChat(context.Background(), m.app.API, cfg)
		return chatCreatedMsg{validation: validation, result: result, err: err}
	}
}

func (m CreateChatModel) backToChats() (tea.Model, tea.Cmd) {
	chatsModel := NewChatsModel(m.app)
	if m.windowWidth > 0 {
		updatedModel, _ := chatsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		chatsModel = updatedModel.(ChatsModel)
	}
	return chatsModel, chatsModel.Init()
}

func (m CreateChatModel) openRoom(chatID int) (tea.Model, tea.Cmd) {
	roomModel := NewChatRoomModel(m.app, chatID)
	if m.windowWidth > 0 {
		updatedModel, _ := roomModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		roomModel = updatedModel.(ChatRoomModel)
	}
	return roomModel, roomModel.Init()
}

func (m CreateChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 12)
		return m, nil

	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.users = msg.users
		items := make([]list.Item, len(m.users))
		for i, user := range m.users {
			items[i] = userItem{user: user}
		}
		m.list.SetItems(items)
		return m, nil

	case chatCreatedMsg:
		m.submitting = false
		if !msg.validation.OK {
			m.validation = msg.validation
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		switch msg.result.Outcome {
		case protocol.OutcomeRejected:
			m.err = fmt.Errorf("%s", msg.result.Reason)
			return m, nil
		default:
			// Created or redirected to the existing private chat: both
			// navigate. The directory entry arrives over the socket.
			return m.openRoom(msg.result.ChatID)
		}

	case socketFrameMsg:
		return m, m.app.handleFrame(msg)

	case socketClosedMsg:
		m.err = fmt.Errorf("connection to the server was lost")
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.submitting {
			return m, nil
		}

		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		if msg.String() == "esc" {
			if m.nameFocused {
				m.nameFocused = false
				m.nameInput.Blur()
				return m, nil
			}
			return m.backToChats()
		}

		if msg.String() == "ctrl+p" {
			m.private = !m.private
			if m.private && m.nameFocused {
				m.nameFocused = false
				m.nameInput.Blur()
			}
			return m, nil
		}

		if msg.String() == "tab" && !m.private {
			m.nameFocused = !m.nameFocused
			if m.nameFocused {
				m.nameInput.Focus()
				return m, textinput.Blink
			}
			m.nameInput.Blur()
			return m, nil
		}

		if msg.String() == "enter" {
			if item, ok := m.list.SelectedItem().(userItem); ok && !m.nameFocused {
				user := item.user
				m.selected = &user
			}
			m.err = nil
			m.validation = protocol.Validation{OK: true}
			m.submitting = true
			return m, m.submitCmd()
		}

		if m.nameFocused {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if item, ok := m.list.SelectedItem().(userItem); ok && len(m.users) > 0 {
			user := item.user
			m.selected = &user
		}
		return m, cmd
	}

	return m, nil
}

func (m CreateChatModel) View() string {
	if m.loading {
		return "\n  Loading users...\n"
	}

	kind := "public"
	if m.private {
		kind = "private"
	}

	s := titleStyle.Render("New Chat Room") + "\n"
	s += statusStyle.Render(fmt.Sprintf("Type: %s (ctrl+p to toggle)", kind)) + "\n"

	if !m.private {
		label := "  Chat Name:"
		if m.nameFocused {
			label = "> Chat Name:"
		}
		s += inputStyle.Render(label) + " " + m.nameInput.View() + "\n"
	}

	s += "\n" + m.list.View() + "\n"

	if m.selected != nil {
		s += statusStyle.Render(fmt.Sprintf("Create a %s chat with %s", kind, m.selected.Username)) + "\n"
	}

	if !m.validation.OK {
		s += errorStyle.Render(m.validation.Message) + "\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	if m.submitting {
		s += statusStyle.Render("Creating chat...") + "\n"
	}

	s += helpStyle.Render("↑↓/jk: pick user • enter: create • ctrl+p: private/public • tab: name field • esc: cancel")
	return s
}
