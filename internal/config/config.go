package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures what murmur needs to reach the backend: the HTTP API,
// the websocket gateway, and the session token.
type Config struct {
	APIURL     string
	GatewayURL string
	Token      string
}

const (
	defaultConfigPath = "~/.config/murmur/config.toml"
	defaultAPIURL     = "https://api.murmur.chat"
	defaultGatewayURL = "wss://gateway.murmur.chat"
	tokenEnvVar       = "MURMUR_TOKEN"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the murmur config, falling back to defaults
// when missing. The session token is never stored in the config file; it
// comes from the environment, with a .env file next to the config loaded
// first so a token can live outside shell profiles.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIURL: defaultAPIURL, GatewayURL: defaultGatewayURL}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.Token = loadToken(resolved)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL     string `toml:"api_url"`
		GatewayURL string `toml:"gateway_url"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if api := strings.TrimSpace(raw.APIURL); api != "" {
		cfg.APIURL = api
	}
	if gw := strings.TrimSpace(raw.GatewayURL); gw != "" {
		cfg.GatewayURL = gw
	}

	cfg.Token = loadToken(resolved)
	return cfg, nil
}

// loadToken reads the session token from the environment, consulting a
// .env file in the config directory first. A missing token is not an
// error here; the app reports it when it actually tries to authenticate.
func loadToken(configPath string) string {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	_ = godotenv.Load(envPath)
	return strings.TrimSpace(os.Getenv(tokenEnvVar))
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
