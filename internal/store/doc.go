// Package store maintains murmur's client-side replica of
// server-authoritative chat data and computes the derived views the UI
// renders.
//
// # Overview
//
// Three independent input streams — the bulk initial sync, point-fetch
// responses, and live gateway pushes — are merged into one normalized
// store. Locally-initiated speculative ("optimistic") writes are tracked
// through their full lifecycle so that a send never duplicates and never
// ghosts, even when the server's echo races the confirmation. Selectors
// expose cheaply-recomputed aggregate views (per-channel message lists,
// per-server rosters, ordered channel sections) that the UI can consume
// without re-deriving on every frame.
//
// # Architecture
//
//	Producers:                      Core:                    Consumer:
//	┌──────────────────┐
//	│ app (fetches)    │──┐
//	│ gateway (pushes) │──┼──→ Dispatch(Action) ──→ reducers ──→ tables
//	│ ui (intents)     │──┘                                      indices
//	└──────────────────┘                                           │
//	                                 Select*(...) ←── memo caches ←┘──→ UI
//
// Dispatch applies each action atomically: directory tables, then entity
// tables, then the secondary indices (which may read the just-updated
// tables). One mutex serializes dispatches and selector reads, so no
// reducer application is ever interleaved with another action. There is
// no I/O anywhere in this package; network work lives in the api and
// gateway collaborators and reaches the store only as discrete actions.
//
// # Entity tables and indices
//
// Entity tables map ids to records: messages, server members, channel
// sections, plus the users / apps / servers / channels directory the
// selectors join against. Secondary indices (channel→message ids,
// server→member ids, user→member ids) are ordered child-id lists with
// set-deduplication, maintained incrementally to avoid full-table scans
// on read. Indices are derived state owned exclusively by the reducers;
// selectors and the UI never mutate them.
//
// # Optimistic lifecycle
//
// A send intent inserts a message under a client-generated provisional id
// with IsOptimistic set. On confirmation the provisional entry is removed
// and the authoritative record inserted in the same dispatch, so readers
// never observe both (or neither). On failure the provisional entry is
// removed everywhere. While a local optimistic entry is pending, a
// gateway message-created push authored by the logged-in user is dropped:
// it is the server echoing our own create, and the confirmation
// supersedes it.
//
// # Memoization
//
// Records are copy-on-write: a reducer that changes an entity stores a
// fresh pointer, so pointer identity is a sound change test. Two cache
// modes build on that (see memo.go): per-record caches keyed by id that
// capture their exact inputs and hit while every input pointer is
// unchanged, and list caches that return the previously cached slice when
// a freshly computed one is element-wise equal. Together they keep
// high-frequency pushes from cascading into recomputation and re-render
// storms. Both cache kinds live on the Store and are flushed wholesale on
// logout.
//
// # Error handling
//
// Reducers are total: unknown ids reduce to no-ops, since push/fetch and
// delete/read races are routine. Selectors return absence (nil) for
// missing referents and an error only for a message type tag outside the
// known closed set, which callers surface as a generic failure rather
// than mis-rendering.
package store
