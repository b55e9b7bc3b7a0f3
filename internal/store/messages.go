package store

import (
	"fmt"
	"slices"
	"time"
)

type messageState struct {
	byID         map[string]*Message
	idsByChannel map[string][]string
}

func (ms *messageState) reset() {
	ms.byID = make(map[string]*Message)
	ms.idsByChannel = make(map[string][]string)
}

func (ms *messageState) apply(action Action) bool {
	changed := ms.applyEntries(action)
	if ms.applyIndex(action) {
		changed = true
	}
	return changed
}

// applyEntries is the message entity-table reducer.
func (ms *messageState) applyEntries(action Action) bool {
	switch a := action.(type) {
	case MessagesFetched:
		for _, m := range a.Messages {
			ms.byID[m.ID] = m
		}
		return len(a.Messages) > 0

	case MessageFetched:
		// A point fetch never overwrites a cached message; authoritative
		// updates arrive via gateway pushes. Avoids redundant re-renders.
		if _, ok := ms.byID[a.Message.ID]; ok {
			return false
		}
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageFetchSucceeded:
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageCreateSent:
		m := a.Message.clone()
		m.IsOptimistic = true
		ms.byID[m.ID] = m
		return true

	case MessageCreateSucceeded:
		// Both halves of the swap happen under one dispatch, so readers
		// never observe the provisional and authoritative entries together.
		delete(ms.byID, a.OptimisticEntryID)
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageCreateFailed:
		delete(ms.byID, a.OptimisticEntryID)
		return true

	case MessageUpdateSucceeded:
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageDeleteSucceeded:
		delete(ms.byID, a.MessageID)
		return true

	case MessageCreated:
		// When the local user authored the message and an optimistic entry
		// is still pending, this push is the server echoing our own create;
		// the eventual MessageCreateSucceeded supersedes it.
		if a.Message.AuthorID == a.LocalUserID && ms.hasOptimisticEntry() {
			return false
		}
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageUpdated:
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageRemoved:
		if _, ok := ms.byID[a.MessageID]; !ok {
			return false
		}
		delete(ms.byID, a.MessageID)
		return true

	case AddReactionSent:
		return ms.addReaction(a.MessageID, a.Emoji, a.UserID)

	case RemoveReactionSent:
		return ms.removeReaction(a.MessageID, a.Emoji, a.UserID)

	case MessageReactionAdded:
		ms.byID[a.Message.ID] = a.Message
		return true

	case MessageReactionRemoved:
		ms.byID[a.Message.ID] = a.Message
		return true
	}

	return false
}

func (ms *messageState) hasOptimisticEntry() bool {
	for _, m := range ms.byID {
		if m.IsOptimistic {
			return true
		}
	}
	return false
}

func (ms *messageState) addReaction(messageID, emoji, userID string) bool {
	m, ok := ms.byID[messageID]
	if !ok {
		// Push/fetch races can remove the target before the intent lands.
		return false
	}
	next := m.clone()
	idx := slices.IndexFunc(m.Reactions, func(r Reaction) bool { return r.Emoji == emoji })
	if idx < 0 {
		next.Reactions = append(slices.Clone(m.Reactions), Reaction{
			Emoji: emoji,
			Count: 1,
			Users: []string{userID},
		})
	} else {
		next.Reactions = slices.Clone(m.Reactions)
		r := next.Reactions[idx]
		if slices.Contains(r.Users, userID) {
			return false
		}
		r.Count++
		r.Users = append(slices.Clone(r.Users), userID)
		next.Reactions[idx] = r
	}
	ms.byID[messageID] = next
	return true
}

func (ms *messageState) removeReaction(messageID, emoji, userID string) bool {
	m, ok := ms.byID[messageID]
	if !ok {
		return false
	}
	idx := slices.IndexFunc(m.Reactions, func(r Reaction) bool { return r.Emoji == emoji })
	if idx < 0 || !slices.Contains(m.Reactions[idx].Users, userID) {
		return false
	}
	next := m.clone()
	if m.Reactions[idx].Count <= 1 {
		// Last reactor gone: drop the reaction entry entirely.
		next.Reactions = slices.Delete(slices.Clone(m.Reactions), idx, idx+1)
	} else {
		next.Reactions = slices.Clone(m.Reactions)
		r := next.Reactions[idx]
		r.Count--
		users := slices.Clone(r.Users)
		if i := slices.Index(users, userID); i >= 0 {
			users = slices.Delete(users, i, i+1)
		}
		r.Users = users
		next.Reactions[idx] = r
	}
	ms.byID[messageID] = next
	return true
}

// applyIndex is the channel→message-id secondary index reducer. It runs
// against the same action after the entity table has been updated. Child
// lists reflect arrival order with set-deduplication.
func (ms *messageState) applyIndex(action Action) bool {
	switch a := action.(type) {
	case MessagesFetched:
		changed := false
		for _, m := range a.Messages {
			if ms.indexAppend(m.ChannelID, m.ID) {
				changed = true
			}
		}
		return changed

	case MessageFetched:
		return ms.indexAppend(a.Message.ChannelID, a.Message.ID)

	case MessageFetchSucceeded:
		return ms.indexAppend(a.Message.ChannelID, a.Message.ID)

	case MessageCreateSent:
		return ms.indexAppend(a.Message.ChannelID, a.Message.ID)

	case MessageCreateSucceeded:
		// The provisional id leaves the list and the authoritative id is
		// appended; arrival order, not server order, positions the entry.
		ms.indexRemove(a.Message.ChannelID, a.OptimisticEntryID)
		ms.indexAppend(a.Message.ChannelID, a.Message.ID)
		return true

	case MessageCreateFailed:
		return ms.indexRemove(a.ChannelID, a.OptimisticEntryID)

	case MessageCreated:
		// The entity reducer may have dropped this push as the echo of a
		// pending local send; the index must not pick it up either.
		if _, ok := ms.byID[a.Message.ID]; !ok {
			return false
		}
		return ms.indexAppend(a.Message.ChannelID, a.Message.ID)

	case MessageRemoved:
		return ms.indexRemoveEverywhere(a.MessageID)

	case MessageDeleteSucceeded:
		return ms.indexRemoveEverywhere(a.MessageID)
	}

	return false
}

func (ms *messageState) indexAppend(channelID, messageID string) bool {
	ids := ms.idsByChannel[channelID]
	if slices.Contains(ids, messageID) {
		return false
	}
	ms.idsByChannel[channelID] = append(ids, messageID)
	return true
}

func (ms *messageState) indexRemove(channelID, messageID string) bool {
	ids := ms.idsByChannel[channelID]
	i := slices.Index(ids, messageID)
	if i < 0 {
		return false
	}
	ms.idsByChannel[channelID] = slices.Delete(slices.Clone(ids), i, i+1)
	return true
}

// indexRemoveEverywhere scans every channel list. Removals are rare
// relative to reads, so the full scan is acceptable.
func (ms *messageState) indexRemoveEverywhere(messageID string) bool {
	changed := false
	for channelID := range ms.idsByChannel {
		if ms.indexRemove(channelID, messageID) {
			changed = true
		}
	}
	return changed
}

// MessageType classifies a message into the closed set of semantic kinds
// the UI knows how to render.
type MessageType int

const (
	MessageTypeRegular MessageType = iota
	MessageTypeMemberJoined
	MessageTypeWebhook
)

// deriveMessageType maps the numeric wire tag onto MessageType. An
// unrecognized tag is a hard error: silently misclassifying a message is
// worse than a visible failure.
func deriveMessageType(m *Message) (MessageType, error) {
	if m.Type == nil {
		return MessageTypeRegular, nil
	}
	switch *m.Type {
	case 0:
		return MessageTypeRegular, nil
	case 1:
		return MessageTypeMemberJoined, nil
	case 2:
		return MessageTypeWebhook, nil
	default:
		return 0, fmt.Errorf("unrecognized message type tag %d", *m.Type)
	}
}

// ResolvedReaction annotates a reaction with whether the logged-in user is
// among its reactors.
type ResolvedReaction struct {
	Emoji      string
	Count      int
	Users      []string
	HasReacted bool
}

// ResolvedMessage is the UI-ready projection of a message: author joined,
// reply resolved, content normalized to blocks, type classified. A deleted
// message is returned as a bare tombstone with Deleted set.
type ResolvedMessage struct {
	ID              string
	ChannelID       string
	ServerID        string
	AuthorUserID    string
	Type            MessageType
	IsSystemMessage bool
	IsAppMessage    bool
	IsEdited        bool
	IsReply         bool
	IsOptimistic    bool
	Deleted         bool
	CreatedAt       time.Time
	Author          *MemberView
	RepliedMessage  *ResolvedMessage
	Content         []Block
	StringContent   string
	Reactions       []ResolvedReaction
}

// SelectMessage resolves one message for display. It returns (nil, nil)
// when the id is unknown — absence, not an error — and a non-nil error
// only for an unrecognized type tag.
func (s *Store) SelectMessage(messageID string) (*ResolvedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectMessage(messageID)
}

func (s *Store) selectMessage(messageID string) (*ResolvedMessage, error) {
	m, ok := s.state.messages.byID[messageID]
	if !ok {
		return nil, nil
	}

	if m.Deleted {
		// Tombstone short-circuit: no author join, no normalization.
		if cached, ok := s.caches.message.lookup(messageID, m); ok {
			return cached, nil
		}
		resolved := &ResolvedMessage{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			ServerID:  m.ServerID,
			CreatedAt: m.CreatedAt,
			Deleted:   true,
		}
		s.caches.message.store(messageID, resolved, m)
		return resolved, nil
	}

	author := s.selectAuthor(m)
	var replied *ResolvedMessage
	if m.ReplyToID != "" {
		var err error
		replied, err = s.selectMessage(m.ReplyToID)
		if err != nil {
			return nil, err
		}
	}

	if cached, ok := s.caches.message.lookup(messageID, m, author, replied, s.state.user); ok {
		return cached, nil
	}

	msgType, err := deriveMessageType(m)
	if err != nil {
		return nil, fmt.Errorf("resolve message %s: %w", messageID, err)
	}

	resolved := &ResolvedMessage{
		ID:              m.ID,
		ChannelID:       m.ChannelID,
		ServerID:        m.ServerID,
		AuthorUserID:    m.AuthorID,
		Type:            msgType,
		IsSystemMessage: msgType == MessageTypeMemberJoined,
		IsAppMessage:    msgType == MessageTypeWebhook,
		IsEdited:        m.EditedAt != nil,
		IsReply:         m.ReplyToID != "",
		IsOptimistic:    m.IsOptimistic,
		CreatedAt:       m.CreatedAt,
		Author:          author,
		RepliedMessage:  replied,
		Content:         normalizeBlocks(m),
		StringContent:   m.Content,
		Reactions:       s.resolveReactions(m),
	}
	s.caches.message.store(messageID, resolved, m, author, replied, s.state.user)
	return resolved, nil
}

// selectAuthor resolves who (or what) wrote the message: a server member
// view for server messages, an app view for app messages, otherwise the
// bare user.
func (s *Store) selectAuthor(m *Message) *MemberView {
	switch {
	case m.ServerID != "":
		return s.selectServerMemberWithUserID(m.ServerID, m.AuthorID)
	case m.AppID != "":
		return s.selectApp(m.AppID)
	default:
		return s.selectUser(m.AuthorID)
	}
}

// normalizeBlocks wraps bare text in a single paragraph block when the
// message carries no structured content.
func normalizeBlocks(m *Message) []Block {
	if len(m.Blocks) > 0 {
		return m.Blocks
	}
	return []Block{{
		Type:     "paragraph",
		Children: []Block{{Type: "text", Text: m.Content}},
	}}
}

func (s *Store) resolveReactions(m *Message) []ResolvedReaction {
	if len(m.Reactions) == 0 {
		return nil
	}
	userID := ""
	if s.state.user != nil {
		userID = s.state.user.ID
	}
	out := make([]ResolvedReaction, len(m.Reactions))
	for i, r := range m.Reactions {
		out[i] = ResolvedReaction{
			Emoji:      r.Emoji,
			Count:      r.Count,
			Users:      r.Users,
			HasReacted: userID != "" && slices.Contains(r.Users, userID),
		}
	}
	return out
}

// SelectChannelMessages lists a channel's messages for display, in index
// (arrival) order, excluding absent and soft-deleted entries. The returned
// slice keeps its identity across calls while its contents are unchanged.
func (s *Store) SelectChannelMessages(channelID string) ([]*ResolvedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.state.messages.idsByChannel[channelID]
	fresh := make([]*ResolvedMessage, 0, len(ids))
	for _, id := range ids {
		resolved, err := s.selectMessage(id)
		if err != nil {
			return nil, err
		}
		if resolved == nil || resolved.Deleted {
			continue
		}
		fresh = append(fresh, resolved)
	}
	return s.caches.channelMessages.coalesce(channelID, fresh), nil
}
