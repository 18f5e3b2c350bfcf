package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FillsMissingFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".parley")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"),
		[]byte("server_url: https://chat.example.com\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://chat.example.com", cfg.ServerURL)
	require.Equal(t, Default().SocketURL, cfg.SocketURL)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := Config{
		ServerURL: "https://chat.example.com",
		SocketURL: "wss://chat.example.com/ws/chats/",
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
