// Package app assembles the murmur client: configuration, the HTTP API
// client, the replica store, the websocket gateway, and the terminal UI.
// It owns startup ordering — the initial sync is dispatched before the
// gateway attaches, so pushes only ever land on a populated store.
package app
