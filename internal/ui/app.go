package ui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/chatsync"
	"github.com/saravenpi/parley/internal/config"
	"github.com/saravenpi/parley/internal/socket"
)

// App is the state shared by every screen: the server config, the REST
// client, and, once signed in, the session and its socket connection.
type App struct {
	Config  config.Config
	API     *api.Client
	Session *chatsync.Session
	Socket  *socket.Conn
	Logger  *slog.Logger
}

func NewApp(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Config: cfg,
		API:    api.NewClient(cfg.ServerURL),
		Logger: logger,
	}
}

type socketFrameMsg []byte

type socketClosedMsg struct{}

// listenForFrames arms the single socket receiver. Whichever screen
// consumes the resulting msg applies the frame and re-arms; at no point
// are two receivers pending.
func listenForFrames(frames <-chan []byte) tea.Cmd {
	if frames == nil {
		return nil
	}
	return func() tea.Msg {
		data, ok := <-frames
		if !ok {
			return socketClosedMsg{}
		}
		return socketFrameMsg(data)
	}
}

// handleFrame runs one frame through the reconciler and re-arms the
// receiver. Every post-login screen routes socketFrameMsg here so the
// directory stays current no matter which screen is showing.
func (a *App) handleFrame(frame []byte) tea.Cmd {
	a.Session.Apply(frame)
	return listenForFrames(a.Session.Frames())
}

// signOut tears the session down and returns to the sign-in screen.
func (a *App) signOut() {
	if a.Session != nil {
		a.Session.Close()
		a.Session = nil
	}
	if a.Socket != nil {
		a.Socket.Close()
		a.Socket = nil
	}
}
