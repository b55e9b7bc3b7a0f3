package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/murmurchat/murmur/internal/api"
	"github.com/murmurchat/murmur/internal/store"
)

type storeChangedMsg struct{}

type channelLoadedMsg struct {
	channelID string
	err       error
}

type sendDoneMsg struct{ err error }

type reactionDoneMsg struct{ err error }

// waitForChange blocks until the store reports a state change. Re-armed
// after every storeChangedMsg; notifications coalesce, so a refresh always
// observes the latest state.
func waitForChange(st *store.Store) tea.Cmd {
	ch := st.Changes()
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// loadChannelMessages fetches a channel's message page and feeds it to the
// store. The UI re-renders via the change notification, not the returned
// message, which only carries the error.
func loadChannelMessages(ctx context.Context, client api.Fetcher, st *store.Store, channelID string) tea.Cmd {
	return func() tea.Msg {
		messages, err := client.FetchChannelMessages(ctx, channelID)
		if err != nil {
			return channelLoadedMsg{channelID: channelID, err: err}
		}
		st.Dispatch(store.MessagesFetched{Messages: messages})
		return channelLoadedMsg{channelID: channelID}
	}
}

// sendMessage runs the optimistic send lifecycle: a provisional entry is
// dispatched synchronously so the message appears immediately, then the
// HTTP call confirms or rolls it back.
func sendMessage(ctx context.Context, client *api.Client, st *store.Store, channel *store.Channel, authorID, content string) tea.Cmd {
	provisionalID := "local-" + uuid.NewString()
	st.Dispatch(store.MessageCreateSent{Message: &store.Message{
		ID:        provisionalID,
		ChannelID: channel.ID,
		ServerID:  channel.ServerID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}})
	return func() tea.Msg {
		created, err := client.CreateMessage(ctx, api.CreateMessageRequest{
			ChannelID: channel.ID,
			Content:   content,
		})
		if err != nil {
			st.Dispatch(store.MessageCreateFailed{
				ChannelID:         channel.ID,
				OptimisticEntryID: provisionalID,
			})
			return sendDoneMsg{err: err}
		}
		st.Dispatch(store.MessageCreateSucceeded{
			Message:           created,
			OptimisticEntryID: provisionalID,
		})
		return sendDoneMsg{}
	}
}

// toggleReaction adds the emoji if the local user has not reacted with it
// yet, removes it otherwise. The local increment is dispatched before the
// HTTP call; the authoritative gateway push later replaces it.
func toggleReaction(ctx context.Context, client *api.Client, st *store.Store, msg *store.ResolvedMessage, emoji, userID string) tea.Cmd {
	reacted := false
	for _, r := range msg.Reactions {
		if r.Emoji == emoji && r.HasReacted {
			reacted = true
			break
		}
	}
	if reacted {
		st.Dispatch(store.RemoveReactionSent{MessageID: msg.ID, Emoji: emoji, UserID: userID})
		return func() tea.Msg {
			return reactionDoneMsg{err: client.RemoveReaction(ctx, msg.ID, emoji)}
		}
	}
	st.Dispatch(store.AddReactionSent{MessageID: msg.ID, Emoji: emoji, UserID: userID})
	return func() tea.Msg {
		return reactionDoneMsg{err: client.AddReaction(ctx, msg.ID, emoji)}
	}
}
