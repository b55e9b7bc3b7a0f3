package api

import "github.com/murmurchat/murmur/internal/store"

// InitialData is the decoded full-sync payload: the authenticated user,
// every server with its channels, sections, and member roster, and the
// app identities that can author messages.
type InitialData struct {
	User    *store.User
	Servers []store.ServerPayload
	Apps    []*store.App
}

// wireServer mirrors the flattened server object on /api/ready.
type wireServer struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Channels []*store.Channel        `json:"channels"`
	Sections []*store.ChannelSection `json:"sections"`
	Members  []store.MemberPayload   `json:"members"`
}

type initialDataResponse struct {
	User    *store.User  `json:"user"`
	Servers []wireServer `json:"servers"`
	Apps    []*store.App `json:"apps"`
}

func (r initialDataResponse) toInitialData() InitialData {
	data := InitialData{User: r.User, Apps: r.Apps}
	for _, ws := range r.Servers {
		data.Servers = append(data.Servers, store.ServerPayload{
			Server:   store.Server{ID: ws.ID, Name: ws.Name},
			Channels: ws.Channels,
			Sections: ws.Sections,
			Members:  ws.Members,
		})
	}
	return data
}

type messageListResponse struct {
	Messages []*store.Message `json:"messages"`
}

type messageResponse struct {
	Message *store.Message `json:"message"`
}

// CreateMessageRequest is the body of a send intent. The provisional id is
// chosen by the caller before the request leaves the client so that the
// optimistic entry and the eventual confirmation share a lifecycle key.
type CreateMessageRequest struct {
	ChannelID string `json:"channel"`
	Content   string `json:"content"`
	ReplyToID string `json:"reply_to,omitempty"`
}

// UpdateMessageRequest is the body of an edit.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}
