package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/chatsync"
	"github.com/saravenpi/parley/internal/models"
)

type chatDetailMsg struct {
	detail *api.ChatDetail
	err    error
}

type messageSentMsg struct {
	message *models.Message
	err     error
}

type ChatRoomModel struct {
	app          *App
	chatID       int
	chat         models.Chat
	messages     []models.Message
	viewport     viewport.Model
	textarea     textarea.Model
	loading      bool
	sending      bool
	composing    bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewChatRoomModel opens one chat. Opening a room is what clears its
// unread counter.
func NewChatRoomModel(app *App, chatID int) ChatRoomModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chat, _ := app.Session.Store().Get(chatID)
	app.Session.Store().ResetUnread(chatID)

	return ChatRoomModel{
		app:          app,
		chatID:       chatID,
		chat:         chat,
		viewport:     vp,
		textarea:     ta,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChatRoomModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchDetailCmd())
}

func (m ChatRoomModel) fetchDetailCmd() tea.Cmd {
	return func() tea.Msg {
		detail, err := m.app.API.ChatDetail(context.Background(), m.chatID)
		return chatDetailMsg{detail: detail, err: err}
	}
}

func (m ChatRoomModel) sendMessageCmd(text string) tea.Cmd {
	return func() tea.Msg {
		message, err := m.app.API.SendMessage(context.Background(), m.chatID, text)
		return messageSentMsg{message: message, err: err}
	}
}

func (m ChatRoomModel) backToChats() (tea.Model, tea.Cmd) {
	chatsModel := NewChatsModel(m.app)
	if m.windowWidth > 0 {
		updatedModel, _ := chatsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		chatsModel = updatedModel.(ChatsModel)
	}
	return chatsModel, chatsModel.Init()
}

func (m ChatRoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		headerHeight := 4
		textareaHeight := 5
		helpHeight := 2
		availableHeight := msg.Height - headerHeight - helpHeight

		m.viewport.Width = msg.Width - 4
		if m.composing {
			m.viewport.Height = availableHeight - textareaHeight
		} else {
			m.viewport.Height = availableHeight
		}
		m.textarea.SetWidth(msg.Width - 4)

		m.updateViewportContent()
		return m, nil

	case chatDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.chat = msg.detail.Chat
		m.messages = msg.detail.Messages
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil

	case messageSentMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.textarea.Reset()
		m.composing = false
		if msg.message != nil {
			m.messages = append(m.messages, *msg.message)
			m.updateViewportContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case socketFrameMsg:
		cmd := m.app.handleFrame(msg)
		// While the room is open its chat stays read, and a message for
		// this chat means there is something new to pull.
		if ev, err := chatsync.DecodeFrame(msg); err == nil {
			if nm, ok := ev.(chatsync.NewMessageEvent); ok && nm.ChatID == m.chatID {
				m.app.Session.Store().ResetUnread(m.chatID)
				return m, tea.Batch(cmd, m.fetchDetailCmd())
			}
		}
		return m, cmd

	case socketClosedMsg:
		m.err = fmt.Errorf("connection to the server was lost")
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			if m.composing {
				m.composing = false
				m.textarea.Reset()
				m.textarea.Blur()
				m.err = nil
				return m, nil
			}
			return m.backToChats()
		}

		if m.composing {
			switch msg.String() {
			case "ctrl+s":
				text := strings.TrimSpace(m.textarea.Value())
				if text != "" {
					m.sending = true
					m.composing = false
					m.textarea.Blur()
					return m, tea.Batch(m.spinner.Tick, m.sendMessageCmd(text))
				}
				return m, nil
			default:
				var cmd tea.Cmd
				m.textarea, cmd = m.textarea.Update(msg)
				return m, cmd
			}
		}

		if m.loading || m.sending {
			return m, nil
		}

		switch msg.String() {
		case "n", "c":
			m.composing = true
			m.textarea.Focus()
			return m, textarea.Blink

		case "a":
			addModel := NewAddUserModel(m.app, m.chat)
			if m.windowWidth > 0 {
				updatedModel, _ := addModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				addModel = updatedModel.(AddUserModel)
			}
			return addModel, addModel.Init()

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchDetailCmd())

		case "q":
			return m, tea.Quit

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *ChatRoomModel) updateViewportContent() {
	if len(m.messages) == 0 {
		m.viewport.SetContent("")
		return
	}

	var content strings.Builder
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	for i, message := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		timestamp := message.Created.Format("3:04 PM")
		fromMe := message.User.ID == m.app.Session.User.ID

		if fromMe {
			header := messageHeaderStyle.Render(fmt.Sprintf("You • %s", timestamp))
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(header) + "\n")

			wrappedText := wordwrap.String(message.Text, wrapWidth-10)
			styledText := messageFromMeStyle.Render(wrappedText)
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(styledText) + "\n")
		} else {
			sender := message.User.Username
			if sender == "" {
				sender = "Unknown"
			}
			header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, timestamp))
			content.WriteString(header + "\n")

			wrappedText := wordwrap.String(message.Text, wrapWidth-10)
			content.WriteString(messageFromOtherStyle.Render(wrappedText) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m ChatRoomModel) View() string {
	if m.loading && len(m.messages) == 0 {
		return fmt.Sprintf("\n  %s Loading messages...\n", m.spinner.View())
	}

	s := titleStyle.Render(fmt.Sprintf("💬 %s", m.chat.DisplayName())) + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if m.sending {
		s += fmt.Sprintf("  %s Sending message...\n", m.spinner.View())
	} else if len(m.messages) == 0 && !m.loading {
		s += normalStyle.Render("  No messages in this chat yet.") + "\n"
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.composing {
		s += "\n" + inputStyle.Render("New Message:") + "\n"
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("ctrl+s: send • esc: cancel")
	} else {
		s += "\n" + helpStyle.Render("↑↓/jk: scroll • n: new message • a: add user • r: refresh • esc: back • q: quit")
	}

	return s
}
