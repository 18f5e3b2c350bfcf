package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saravenpi/parley/internal/models"
)

type chatItem struct {
	chat models.Chat
}

type chatsFetchedMsg struct {
	chats []models.Chat
	err   error
}

func (i chatItem) Title() string {
	title := i.chat.DisplayName()
	if i.chat.Unread > 0 {
		title += " " + unreadStyle.Render(fmt.Sprintf("(%d)", i.chat.Unread))
	}
	return title
}

func (i chatItem) Description() string {
	kind := "group chat"
	if i.chat.Private {
		kind = "private chat"
	}
	return fmt.Sprintf("%s • %d members", kind, len(i.chat.Users))
}

func (i chatItem) FilterValue() string {
	return i.chat.DisplayName()
}

type ChatsModel struct {
	app          *App
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewChatsModel creates the chat directory screen.
func NewChatsModel(app *App) ChatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "My Chats"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ChatsModel{
		app:          app,
		list:         l,
		loading:      !app.Session.Store().Initialized(),
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChatsModel) Init() tea.Cmd {
	if !m.app.Session.Store().Initialized() {
		return tea.Batch(m.spinner.Tick, m.fetchChatsCmd())
	}
	return nil
}

func (m ChatsModel) fetchChatsCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.app.Session.FetchSnapshot()
		return chatsFetchedMsg{chats: chats, err: err}
	}
}

func (m *ChatsModel) refreshItems() {
	chats := m.app.Session.Store().Snapshot()
	items := make([]list.Item, len(chats))
	for i, chat := range chats {
		items[i] = chatItem{chat: chat}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("My Chats - %s", m.app.Session.User.Username)
}

func (m ChatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case chatsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if !m.app.Session.Store().Initialized() {
			m.app.Session.Seed(msg.chats)
		}
		m.refreshItems()
		return m, nil

	case socketFrameMsg:
		cmd := m.app.handleFrame(msg)
		m.refreshItems()
		return m, cmd

	case socketClosedMsg:
		m.err = fmt.Errorf("connection to the server was lost")
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.app.signOut()
			signInModel := NewSignInModel(m.app)
			if m.windowWidth > 0 {
				updatedModel, _ := signInModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				signInModel = updatedModel.(SignInModel)
			}
			return signInModel, signInModel.Init()

		case "r":
			if !m.loading && !m.app.Session.Store().Initialized() {
				m.loading = true
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.fetchChatsCmd())
			}
			return m, nil

		case "n":
			if !m.loading {
				createModel := NewCreateChatModel(m.app)
				if m.windowWidth > 0 {
					updatedModel, _ := createModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
					createModel = updatedModel.(CreateChatModel)
				}
				return createModel, createModel.Init()
			}
			return m, nil

		case "enter":
			if m.loading {
				return m, nil
			}
			if item, ok := m.list.SelectedItem().(chatItem); ok {
				roomModel := NewChatRoomModel(m.app, item.chat.ID)
				if m.windowWidth > 0 {
					updatedModel, _ := roomModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
					roomModel = updatedModel.(ChatRoomModel)
				}
				return roomModel, roomModel.Init()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ChatsModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading chats...\n", m.spinner.View())
	}

	if m.err != nil {
		s := titleStyle.Render("My Chats") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Something went wrong: %v", m.err)) + "\n\n"
		if !m.app.Session.Store().Initialized() {
			s += helpStyle.Render("r: retry • esc: sign out • q: quit")
		} else {
			s += helpStyle.Render("esc: sign out • q: quit")
		}
		return s
	}

	if m.app.Session.Store().Len() == 0 {
		s := titleStyle.Render("My Chats") + "\n\n"
		s += normalStyle.Render("  No chats yet. Press 'n' to start one.") + "\n"
		s += "\n" + helpStyle.Render("n: new chat • esc: sign out • q: quit")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: open • n: new chat • /: search • esc: sign out • q: quit")
	return s
}
