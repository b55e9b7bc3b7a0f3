package store

import "time"

// User is a global user record as delivered by the backend.
type User struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"pfp,omitempty"`
	Status         string `json:"status,omitempty"`
}

// App is a webhook/app identity that can author messages.
type App struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"pfp,omitempty"`
}

// Server is a chat server (guild) the logged-in user belongs to.
type Server struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel is a message channel. Kind is "server" for server channels,
// "dm" or "topic" for direct channels, whose membership is carried inline.
type Channel struct {
	ID            string   `json:"id"`
	ServerID      string   `json:"server,omitempty"`
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	MemberUserIDs []string `json:"member_user_ids,omitempty"`
}

// Block is one node of structured message content.
type Block struct {
	Type     string  `json:"type"`
	Text     string  `json:"text,omitempty"`
	Children []Block `json:"children,omitempty"`
}

// Reaction is an aggregated emoji reaction on a message. Users has set
// semantics and Count always equals len(Users).
type Reaction struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// Message is the normalized message record. Before server confirmation an
// optimistic message carries a client-generated ID and IsOptimistic=true.
// ServerID is empty for direct messages; AppID is set for app/webhook
// messages. A nil Type tag means a regular message.
type Message struct {
	ID           string     `json:"id"`
	ChannelID    string     `json:"channel"`
	ServerID     string     `json:"server,omitempty"`
	AuthorID     string     `json:"author"`
	AppID        string     `json:"app,omitempty"`
	Type         *int       `json:"type,omitempty"`
	Content      string     `json:"content,omitempty"`
	Blocks       []Block    `json:"blocks,omitempty"`
	Reactions    []Reaction `json:"reactions,omitempty"`
	ReplyToID    string     `json:"reply_to,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
	Deleted      bool       `json:"deleted,omitempty"`
	IsOptimistic bool       `json:"-"`
}

// clone returns a shallow copy. Reducers never mutate a stored message in
// place; a changed message always gets a fresh pointer so that selector
// memoization can use pointer identity as a cheap change test.
func (m *Message) clone() *Message {
	dup := *m
	return &dup
}

// ServerMember ties a user to a server, with optional per-server profile
// overrides. Many members may reference the same user, one per server.
type ServerMember struct {
	ID             string    `json:"id"`
	ServerID       string    `json:"server"`
	UserID         string    `json:"user"`
	DisplayName    string    `json:"display_name,omitempty"`
	ProfilePicture string    `json:"pfp,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
}

func (m *ServerMember) clone() *ServerMember {
	dup := *m
	return &dup
}

// ChannelSection groups a server's channels under a named heading.
// Position induces the sort order among a server's sections; values need
// not be contiguous. ServerID is attached from the owning server during
// the initial sync.
type ChannelSection struct {
	ID         string   `json:"id"`
	ServerID   string   `json:"-"`
	Name       string   `json:"name"`
	Position   int      `json:"position"`
	ChannelIDs []string `json:"channels"`
}
