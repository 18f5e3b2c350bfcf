package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saravenpi/parley/internal/models"
	"github.com/saravenpi/parley/internal/protocol"
)

type userAddedMsg struct {
	validation protocol.Validation
	err        error
}

type AddUserModel struct {
	app          *App
	chat         models.Chat
	list         list.Model
	users        []models.User
	selected     *models.User
	loading      bool
	submitting   bool
	validation   protocol.Validation
	err          error
	windowWidth  int
	windowHeight int
}

// NewAddUserModel creates the add-user dialog for one chat. Only users who
// are not already members are listed.
func NewAddUserModel(app *App, chat models.Chat) AddUserModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 14)
	l.Title = fmt.Sprintf("Add a user to %s", chat.DisplayName())
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return AddUserModel{
		app:          app,
		chat:         chat,
		list:         l,
		loading:      true,
		validation:   protocol.Validation{OK: true},
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m AddUserModel) Init() tea.Cmd {
	return m.fetchCandidatesCmd()
}

// fetchCandidatesCmd loads the user directory, minus existing members.
func (m AddUserModel) fetchCandidatesCmd() tea.Cmd {
	return func() tea.Msg {
		users, err := m.app.API.Users(context.Background())
		if err != nil {
			return usersLoadedMsg{err: err}
		}
		candidates := make([]models.User, 0, len(users))
		for _, u := range users {
			if !m.chat.HasUser(u.ID) {
				candidates = append(candidates, u)
			}
		}
		return usersLoadedMsg{users: candidates}
	}
}

func (m AddUserModel) submitCmd() tea.Cmd {
	chat := m.chat
	selected := m.selected
	return func() tea.Msg {
		validation, err := protocol.AddUser(context.Background(), m.app.API, chat, selected)
		return userAddedMsg{validation: validation, err: err}
	}
}

func (m AddUserModel) backToRoom() (tea.Model, tea.Cmd) {
	roomModel := NewChatRoomModel(m.app, m.chat.ID)
	if m.windowWidth > 0 {
		updatedModel, _ := roomModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		roomModel = updatedModel.(ChatRoomModel)
	}
	return roomModel, roomModel.Init()
}

func (m AddUserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 8)
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

	case userAddedMsg:
		m.submitting = false
		if !msg.validation.OK {
			m.validation = msg.validation
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		// Success closes the dialog; the membership change lands in the
		// directory when the new_user_added frame arrives.
		return m.backToRoom()

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

		switch msg.String() {
		case "esc":
			return m.backToRoom()

		case "enter":
			if item, ok := m.list.SelectedItem().(userItem); ok {
				user := item.user
				m.selected = &user
			}
			m.err = nil
			m.validation = protocol.Validation{OK: true}
			m.submitting = true
			return m, m.submitCmd()
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m AddUserModel) View() string {
	if m.loading {
		return "\n  Loading users...\n"
	}

	s := titleStyle.Render("Add User to the Chat") + "\n\n"

	if len(m.users) == 0 {
		s += normalStyle.Render("  Everyone is already in this chat.") + "\n\n"
		s += helpStyle.Render("esc: back")
		return s
	}

	s += m.list.View() + "\n"

	if m.selected != nil {
		s += statusStyle.Render(fmt.Sprintf("Add %s", m.selected.Username)) + "\n"
	}
	if !m.validation.OK {
		s += errorStyle.Render(m.validation.Message) + "\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if m.submitting {
		s += statusStyle.Render("Adding user...") + "\n"
	}

	s += helpStyle.Render("↑↓/jk: pick user • enter: add • esc: cancel")
	return s
}
