// Package api provides the HTTP client for the murmur backend.
//
// The client covers the fetches that seed the store (full sync, channel
// message pages, single-message point fetches) and the write intents
// behind optimistic entries (message create/update/delete, reaction
// add/remove). It does no caching and no retries: the store layer owns
// freshness via the action stream, and retry policy belongs to whoever
// issues the intent.
//
// All requests carry the bearer session token, use the caller's context
// for cancellation, and return wrapped errors describing what failed.
// Push-originated updates never come through this package; they arrive on
// the gateway websocket.
package api
