// Package config loads murmur's client configuration.
//
// Configuration lives at ~/.config/murmur/config.toml and covers the two
// backend endpoints (HTTP API and websocket gateway). Both fall back to
// the hosted defaults when the file or a field is absent, so a fresh
// install works with no config at all.
//
// The session token deliberately never lives in the TOML file. It is read
// from the MURMUR_TOKEN environment variable, with a .env file in the
// config directory loaded first, so the secret stays out of dotfile
// repositories.
package config
