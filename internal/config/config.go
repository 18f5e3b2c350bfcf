// Package config reads parley's settings from ~/.parley/config.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL string `yaml:"server_url"`
	SocketURL string `yaml:"socket_url"`
}

// Default points at a chat server on the local machine.
func Default() Config {
	return Config{
		ServerURL: "http://localhost:8000",
		SocketURL: "ws://localhost:8000/ws/chats/",
	}
}

// Dir returns the path to parley's dot-directory (~/.parley).
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".parley")
}

func configPath() string {
	return filepath.Join(Dir(), "config.yml")
}

// Load reads the config file, falling back to defaults for a missing file
// or any missing field.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = Default().ServerURL
	}
	if cfg.SocketURL == "" {
		cfg.SocketURL = Default().SocketURL
	}
	return cfg, nil
}

// Save writes the config file, creating ~/.parley if needed.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
