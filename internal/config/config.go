package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client settings for talking to the LibraryMS service.
type Config struct {
	ServerURL        string
	AdminURL         string
	RequestTimeout   time.Duration
	ClientSideFilter bool
	CredentialsPath  string
}

const (
	defaultConfigPath     = "~/.config/lms/config.toml"
	defaultServerURL      = "127.0.0.1:8000"
	defaultTimeoutSeconds = 10
)

// Load locates and parses the client config, falling back to defaults when
// missing. A nonexistent file is not an error; the client works against a
// local service out of the box.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:      defaultServerURL,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.AdminURL = deriveAdminURL(cfg.ServerURL)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL        string `toml:"server_url"`
		AdminURL         string `toml:"admin_url"`
		RequestTimeout   int    `toml:"request_timeout_seconds"`
		ClientSideFilter bool   `toml:"client_side_filter"`
		CredentialsPath  string `toml:"credentials_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerURL = strings.TrimSpace(raw.ServerURL)
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}

	cfg.AdminURL = strings.TrimSpace(raw.AdminURL)
	if cfg.AdminURL == "" {
		cfg.AdminURL = deriveAdminURL(cfg.ServerURL)
	}

	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}

	cfg.ClientSideFilter = raw.ClientSideFilter
	cfg.CredentialsPath = strings.TrimSpace(raw.CredentialsPath)

	return cfg, nil
}

// deriveAdminURL points at the service's administrative backend, which lives
// under /admin/ on the same host unless overridden.
func deriveAdminURL(serverURL string) string {
	trimmed := strings.TrimSpace(serverURL)
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return strings.TrimRight(trimmed, "/") + "/admin/"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
