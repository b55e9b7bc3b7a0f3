package store

// Action is one element of the serialized input stream the store consumes.
// Every external event — a fetch result, a write intent, a write
// confirmation or failure, a gateway push — is reduced to exactly one
// Action value and applied atomically by Dispatch.
//
// The interface is sealed: only types in this package implement it.
type Action interface {
	isAction()
}

// MemberPayload pairs a server member with its underlying user record, the
// shape the backend uses for rosters and member-joined pushes.
type MemberPayload struct {
	Member *ServerMember `json:"member"`
	User   *User         `json:"user"`
}

// ServerPayload is one server's slice of the initial sync response.
type ServerPayload struct {
	Server   Server            `json:"server"`
	Channels []*Channel        `json:"channels"`
	Sections []*ChannelSection `json:"sections"`
	Members  []MemberPayload   `json:"members"`
}

// InitialDataReceived carries the full initial sync. It replaces the
// directory, member, and section tables wholesale — no merging with prior
// state — so a re-sync starts the replica clean.
type InitialDataReceived struct {
	User    *User
	Servers []ServerPayload
	Apps    []*App
}

// MessagesFetched carries a bulk page of channel messages.
type MessagesFetched struct {
	Messages []*Message
}

// MessageFetched carries a single point-fetched message. If the message is
// already cached the fetch result is discarded; authoritative updates are
// expected via gateway pushes, not re-fetches.
type MessageFetched struct {
	Message *Message
}

// MessageFetchSucceeded is the explicit single-message fetch confirmation,
// which does overwrite a cached entry.
type MessageFetchSucceeded struct {
	Message *Message
}

// MessageCreateSent records a send intent. Message.ID is the
// client-generated provisional id; the reducer tags the entry optimistic.
type MessageCreateSent struct {
	Message *Message
}

// MessageCreateSucceeded swaps the provisional entry for the authoritative
// one. Both sides of the swap are visible atomically to readers.
type MessageCreateSucceeded struct {
	Message           *Message
	OptimisticEntryID string
}

// MessageCreateFailed removes the provisional entry.
type MessageCreateFailed struct {
	ChannelID         string
	OptimisticEntryID string
}

// MessageUpdateSucceeded carries the authoritative record after an edit.
type MessageUpdateSucceeded struct {
	Message *Message
}

// MessageDeleteSucceeded removes a message after a confirmed delete.
type MessageDeleteSucceeded struct {
	MessageID string
}

// AddReactionSent is an optimistic reaction increment by the local user.
type AddReactionSent struct {
	MessageID string
	Emoji     string
	UserID    string
}

// RemoveReactionSent is an optimistic reaction decrement by the local user.
type RemoveReactionSent struct {
	MessageID string
	Emoji     string
	UserID    string
}

// MessageCreated is a gateway push for a newly created message.
// LocalUserID is the logged-in user, attached by the gateway so the
// reducer can drop the echo of a still-pending local optimistic send.
type MessageCreated struct {
	Message     *Message
	LocalUserID string
}

// MessageUpdated is a gateway push carrying the full updated record, which
// replaces the cached entry or inserts it when absent.
type MessageUpdated struct {
	Message *Message
}

// MessageRemoved is a gateway push deleting a message everywhere.
type MessageRemoved struct {
	MessageID string
}

// MessageReactionAdded replaces the reaction-bearing message verbatim.
type MessageReactionAdded struct {
	Message *Message
}

// MessageReactionRemoved replaces the reaction-bearing message verbatim.
type MessageReactionRemoved struct {
	Message *Message
}

// MemberJoined is a gateway push for a user joining a server.
type MemberJoined struct {
	Member *ServerMember
	User   *User
}

// MemberProfileUpdated is a gateway push for per-server profile changes.
// Nil fields are left untouched.
type MemberProfileUpdated struct {
	MemberID       string
	DisplayName    *string
	ProfilePicture *string
}

// Logout resets every table, index, and memoization cache. Idempotent.
type Logout struct{}

func (InitialDataReceived) isAction()    {}
func (MessagesFetched) isAction()        {}
func (MessageFetched) isAction()         {}
func (MessageFetchSucceeded) isAction()  {}
func (MessageCreateSent) isAction()      {}
func (MessageCreateSucceeded) isAction() {}
func (MessageCreateFailed) isAction()    {}
func (MessageUpdateSucceeded) isAction() {}
func (MessageDeleteSucceeded) isAction() {}
func (AddReactionSent) isAction()        {}
func (RemoveReactionSent) isAction()     {}
func (MessageCreated) isAction()         {}
func (MessageUpdated) isAction()         {}
func (MessageRemoved) isAction()         {}
func (MessageReactionAdded) isAction()   {}
func (MessageReactionRemoved) isAction() {}
func (MemberJoined) isAction()           {}
func (MemberProfileUpdated) isAction()   {}
func (Logout) isAction()                 {}
