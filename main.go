package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saravenpi/parley/internal/config"
	"github.com/saravenpi/parley/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Parley v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	app := ui.NewApp(cfg, logger)
	initialModel := ui.NewSignInModel(app)
	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes structured logs to ~/.parley/parley.log; the TUI
// owns the terminal. Logging is best-effort: failures fall back to a
// discarding logger.
func setupLogger() *slog.Logger {
	if err := os.MkdirAll(config.Dir(), 0755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logPath := filepath.Join(config.Dir(), "parley.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	level := slog.LevelInfo
	if os.Getenv("PARLEY_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
}

func printHelp() {
	help := `Parley - Terminal Chat Client

Usage:
  parley             Start the chat client
  parley version     Show version information
  parley help        Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists
  Enter             Select/Open item
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Sign In:
  tab               Switch between username and password
  enter             Sign in

Chats:
  n                 Start a new chat
  /                 Search chats
  enter             Open the selected chat
  esc               Sign out

New Chat:
  ctrl+p            Toggle private/public
  tab               Focus the chat name field (public chats)
  enter             Create the chat

Chat Room:
  n or c            Compose a message
  ctrl+s            Send message (while composing)
  a                 Add a user to the chat
  r                 Refresh messages

Configuration:
  Settings live in ~/.parley/config.yml (server_url, socket_url)
  Logs are written to ~/.parley/parley.log
`
	fmt.Print(help)
}
