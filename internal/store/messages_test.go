package store

import (
	"strings"
	"testing"
	"time"
)

var testCreatedAt = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newSyncedStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.Dispatch(InitialDataReceived{
		User: &User{ID: "u-local", DisplayName: "Local"},
		Apps: []*App{{ID: "app1", Name: "Webhook Bot"}},
		Servers: []ServerPayload{{
			Server: Server{ID: "srv1", Name: "General"},
			Channels: []*Channel{
				{ID: "ch1", Name: "lounge", Kind: "server"},
				{ID: "ch2", Name: "random", Kind: "server"},
				{ID: "dm1", Kind: "dm", MemberUserIDs: []string{"u-local", "u2"}},
			},
			Sections: []*ChannelSection{
				{ID: "sec1", Name: "Text", Position: 1, ChannelIDs: []string{"ch1", "ch2"}},
			},
			Members: []MemberPayload{
				{
					Member: &ServerMember{ID: "m-local", ServerID: "srv1", UserID: "u-local"},
					User:   &User{ID: "u-local", DisplayName: "Local"},
				},
				{
					Member: &ServerMember{ID: "m2", ServerID: "srv1", UserID: "u2", DisplayName: "Nick"},
					User:   &User{ID: "u2", DisplayName: "Remote"},
				},
			},
		}},
	})
	return s
}

func channelMessages(t *testing.T, s *Store, channelID string) []*ResolvedMessage {
	t.Helper()
	messages, err := s.SelectChannelMessages(channelID)
	if err != nil {
		t.Fatalf("SelectChannelMessages(%s): %v", channelID, err)
	}
	return messages
}

func TestOptimisticCreateSucceeded(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessageCreateSent{Message: &Message{
		ID: "tmp1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u-local",
		Content: "hello", CreatedAt: testCreatedAt,
	}})

	pending, err := s.SelectMessage("tmp1")
	if err != nil {
		t.Fatalf("SelectMessage(tmp1): %v", err)
	}
	if pending == nil || !pending.IsOptimistic {
		t.Fatalf("pending = %#v, want optimistic entry", pending)
	}

	s.Dispatch(MessageCreateSucceeded{
		Message: &Message{
			ID: "msg1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u-local",
			Content: "hello", CreatedAt: testCreatedAt,
		},
		OptimisticEntryID: "tmp1",
	})

	if m, _ := s.SelectMessage("tmp1"); m != nil {
		t.Fatalf("provisional entry survived confirmation: %#v", m)
	}
	confirmed, err := s.SelectMessage("msg1")
	if err != nil {
		t.Fatalf("SelectMessage(msg1): %v", err)
	}
	if confirmed == nil || confirmed.IsOptimistic {
		t.Fatalf("confirmed = %#v, want authoritative entry", confirmed)
	}

	messages := channelMessages(t, s, "ch1")
	if len(messages) != 1 || messages[0].ID != "msg1" {
		t.Fatalf("channel index = %v, want [msg1]", messageIDs(messages))
	}
}

func TestOptimisticCreateFailed(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessageCreateSent{Message: &Message{
		ID: "tmp1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u-local", Content: "hello",
	}})
	s.Dispatch(MessageCreateFailed{ChannelID: "ch1", OptimisticEntryID: "tmp1"})

	if m, _ := s.SelectMessage("tmp1"); m != nil {
		t.Fatalf("provisional entry survived failure: %#v", m)
	}
	if messages := channelMessages(t, s, "ch1"); len(messages) != 0 {
		t.Fatalf("channel index = %v, want empty", messageIDs(messages))
	}
}

func TestConcurrentOptimisticSendsAreDistinct(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessageCreateSent{Message: &Message{ID: "tmp1", ChannelID: "ch1", AuthorID: "u-local", Content: "one"}})
	s.Dispatch(MessageCreateSent{Message: &Message{ID: "tmp2", ChannelID: "ch1", AuthorID: "u-local", Content: "two"}})

	messages := channelMessages(t, s, "ch1")
	if len(messages) != 2 {
		t.Fatalf("channel index = %v, want two distinct optimistic entries", messageIDs(messages))
	}

	// Confirming the first must leave the second pending.
	s.Dispatch(MessageCreateSucceeded{
		Message:           &Message{ID: "msg1", ChannelID: "ch1", AuthorID: "u-local", Content: "one"},
		OptimisticEntryID: "tmp1",
	})
	messages = channelMessages(t, s, "ch1")
	if got := messageIDs(messages); got != "tmp2,msg1" {
		t.Fatalf("channel index = %s, want tmp2,msg1", got)
	}
}

func TestEchoSuppression(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessageCreateSent{Message: &Message{ID: "tmp1", ChannelID: "ch1", AuthorID: "u-local", Content: "hi"}})

	// The server echoes our own create before the confirmation arrives.
	s.Dispatch(MessageCreated{
		Message:     &Message{ID: "msg1", ChannelID: "ch1", AuthorID: "u-local", Content: "hi"},
		LocalUserID: "u-local",
	})

	if m, _ := s.SelectMessage("msg1"); m != nil {
		t.Fatalf("echo push was applied: %#v", m)
	}
	if messages := channelMessages(t, s, "ch1"); len(messages) != 1 || messages[0].ID != "tmp1" {
		t.Fatalf("channel index = %v, want only the pending entry", messageIDs(messages))
	}
}

func TestRemoteCreateNotSuppressed(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessageCreateSent{Message: &Message{ID: "tmp1", ChannelID: "ch1", AuthorID: "u-local", Content: "hi"}})

	// A different author's push lands even while a local send is pending.
	s.Dispatch(MessageCreated{
		Message:     &Message{ID: "msg2", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2", Content: "yo"},
		LocalUserID: "u-local",
	})

	m, err := s.SelectMessage("msg2")
	if err != nil {
		t.Fatalf("SelectMessage(msg2): %v", err)
	}
	if m == nil {
		t.Fatal("remote push was dropped")
	}
	if m.Author == nil || m.Author.DisplayName != "Nick" {
		t.Fatalf("author = %#v, want member view with server nickname", m.Author)
	}
}

func TestPointFetchIgnoresCachedMessage(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", ServerID: "srv1", Content: "original"},
	}})
	s.Dispatch(MessageFetched{Message: &Message{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", ServerID: "srv1", Content: "stale overwrite"}})

	m, err := s.SelectMessage("msg1")
	if err != nil {
		t.Fatalf("SelectMessage: %v", err)
	}
	if m.StringContent != "original" {
		t.Fatalf("content = %q, want cached fields preserved", m.StringContent)
	}
}

func TestFetchSucceededOverwrites(t *testing.T) {
	s := newSyncedStore(t)

	s.Dispatch(MessagesFetched{Messages: []*Message{{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", Content: "old"}}})
	s.Dispatch(MessageFetchSucceeded{Message: &Message{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", Content: "new"}})

	m, _ := s.SelectMessage("msg1")
	if m.StringContent != "new" {
		t.Fatalf("content = %q, want explicit fetch confirmation to overwrite", m.StringContent)
	}
}

func TestUpdateSucceededSetsEdited(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2", Content: "before", CreatedAt: testCreatedAt},
	}})

	before, _ := s.SelectMessage("msg1")
	if before.IsEdited {
		t.Fatal("IsEdited set before any edit")
	}

	editedAt := testCreatedAt.Add(time.Minute)
	s.Dispatch(MessageUpdateSucceeded{Message: &Message{
		ID: "msg1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2",
		Content: "after", CreatedAt: testCreatedAt, EditedAt: &editedAt,
	}})

	m, err := s.SelectMessage("msg1")
	if err != nil {
		t.Fatalf("SelectMessage: %v", err)
	}
	if m.StringContent != "after" || !m.IsEdited {
		t.Fatalf("m = %#v, want edited record with new content", m)
	}
	if got := messageIDs(channelMessages(t, s, "ch1")); got != "msg1" {
		t.Fatalf("channel index = %s, want msg1 kept in place", got)
	}
}

func TestUpdatePushReplacesRecord(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2", Content: "old"},
	}})

	editedAt := testCreatedAt.Add(time.Minute)
	s.Dispatch(MessageUpdated{Message: &Message{
		ID: "msg1", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2",
		Content: "new", EditedAt: &editedAt,
	}})

	m, err := s.SelectMessage("msg1")
	if err != nil {
		t.Fatalf("SelectMessage: %v", err)
	}
	if m.StringContent != "new" || !m.IsEdited {
		t.Fatalf("m = %#v, want pushed record to replace the cached one", m)
	}

	// An update push for an unknown id inserts the record.
	s.Dispatch(MessageUpdated{Message: &Message{ID: "late", ChannelID: "ch1", AuthorID: "u2", Content: "late"}})
	late, err := s.SelectMessage("late")
	if err != nil {
		t.Fatalf("SelectMessage(late): %v", err)
	}
	if late == nil || late.StringContent != "late" {
		t.Fatalf("late = %#v, want inserted record", late)
	}
}

func TestDeleteSucceededRemovesEverywhere(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", AuthorID: "u2"},
		{ID: "msg2", ChannelID: "ch1", AuthorID: "u2"},
	}})

	s.Dispatch(MessageDeleteSucceeded{MessageID: "msg1"})

	if m, _ := s.SelectMessage("msg1"); m != nil {
		t.Fatalf("deleted message still resolvable: %#v", m)
	}
	if got := messageIDs(channelMessages(t, s, "ch1")); got != "msg2" {
		t.Fatalf("channel index = %s, want msg2", got)
	}
}

func TestReactionInvariant(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", ServerID: "srv1"}}})

	steps := []Action{
		AddReactionSent{MessageID: "msg1", Emoji: "👍", UserID: "u-local"},
		AddReactionSent{MessageID: "msg1", Emoji: "👍", UserID: "u2"},
		AddReactionSent{MessageID: "msg1", Emoji: "🔥", UserID: "u2"},
		RemoveReactionSent{MessageID: "msg1", Emoji: "👍", UserID: "u2"},
		RemoveReactionSent{MessageID: "msg1", Emoji: "🔥", UserID: "u2"},
	}
	for _, step := range steps {
		s.Dispatch(step)
		m, err := s.SelectMessage("msg1")
		if err != nil {
			t.Fatalf("SelectMessage after %T: %v", step, err)
		}
		for _, r := range m.Reactions {
			if r.Count != len(r.Users) {
				t.Fatalf("after %T: reaction %s count=%d users=%v", step, r.Emoji, r.Count, r.Users)
			}
		}
	}

	m, _ := s.SelectMessage("msg1")
	if len(m.Reactions) != 1 {
		t.Fatalf("reactions = %#v, want 🔥 dropped after last reactor left", m.Reactions)
	}
	r := m.Reactions[0]
	if r.Emoji != "👍" || r.Count != 1 || !r.HasReacted {
		t.Fatalf("reaction = %#v, want local user's 👍 with HasReacted", r)
	}
}

func TestReactionOnMissingMessageIsNoOp(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(AddReactionSent{MessageID: "ghost", Emoji: "👍", UserID: "u-local"})
	s.Dispatch(RemoveReactionSent{MessageID: "ghost", Emoji: "👍", UserID: "u-local"})
	if m, _ := s.SelectMessage("ghost"); m != nil {
		t.Fatalf("ghost message materialized: %#v", m)
	}
}

func TestReactionPushReplacesMessage(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{{ID: "msg1", ChannelID: "ch1", AuthorID: "u2"}}})

	s.Dispatch(MessageReactionAdded{Message: &Message{
		ID: "msg1", ChannelID: "ch1", AuthorID: "u2",
		Reactions: []Reaction{{Emoji: "👍", Count: 2, Users: []string{"u2", "u3"}}},
	}})

	m, _ := s.SelectMessage("msg1")
	if len(m.Reactions) != 1 || m.Reactions[0].Count != 2 {
		t.Fatalf("reactions = %#v, want verbatim replacement", m.Reactions)
	}
	if m.Reactions[0].HasReacted {
		t.Fatal("HasReacted = true for a reaction the local user is not part of")
	}
}

func TestRemovePushDeletesEverywhere(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", AuthorID: "u2"},
		{ID: "msg2", ChannelID: "ch1", AuthorID: "u2"},
	}})

	s.Dispatch(MessageRemoved{MessageID: "msg1"})

	if m, _ := s.SelectMessage("msg1"); m != nil {
		t.Fatalf("removed message still resolvable: %#v", m)
	}
	if got := messageIDs(channelMessages(t, s, "ch1")); got != "msg2" {
		t.Fatalf("channel index = %s, want msg2", got)
	}
}

func TestDeletedMessageTombstone(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "msg1", ChannelID: "ch1", AuthorID: "u2", Content: "gone", Deleted: true},
		{ID: "msg2", ChannelID: "ch1", AuthorID: "u2", Content: "kept"},
	}})

	m, err := s.SelectMessage("msg1")
	if err != nil {
		t.Fatalf("SelectMessage: %v", err)
	}
	if !m.Deleted || m.Content != nil || m.Author != nil {
		t.Fatalf("tombstone = %#v, want bare record without normalization", m)
	}

	// The channel listing excludes tombstones.
	if got := messageIDs(channelMessages(t, s, "ch1")); got != "msg2" {
		t.Fatalf("channel listing = %s, want msg2", got)
	}
}

func TestContentNormalization(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "plain", ChannelID: "ch1", AuthorID: "u2", Content: "just text"},
		{ID: "rich", ChannelID: "ch1", AuthorID: "u2", Blocks: []Block{{Type: "code", Text: "x := 1"}}},
	}})

	plain, _ := s.SelectMessage("plain")
	if len(plain.Content) != 1 || plain.Content[0].Type != "paragraph" || plain.Content[0].Children[0].Text != "just text" {
		t.Fatalf("plain content = %#v, want single paragraph wrap", plain.Content)
	}

	rich, _ := s.SelectMessage("rich")
	if len(rich.Content) != 1 || rich.Content[0].Type != "code" {
		t.Fatalf("rich content = %#v, want blocks passed through", rich.Content)
	}
}

func TestMessageTypeClassification(t *testing.T) {
	s := newSyncedStore(t)
	tag := func(n int) *int { return &n }
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "regular", ChannelID: "ch1", AuthorID: "u2"},
		{ID: "zero", ChannelID: "ch1", AuthorID: "u2", Type: tag(0)},
		{ID: "joined", ChannelID: "ch1", AuthorID: "u2", Type: tag(1)},
		{ID: "hook", ChannelID: "ch1", AppID: "app1", AuthorID: "u2", Type: tag(2)},
		{ID: "bogus", ChannelID: "ch2", AuthorID: "u2", Type: tag(7)},
	}})

	for id, want := range map[string]MessageType{
		"regular": MessageTypeRegular,
		"zero":    MessageTypeRegular,
		"joined":  MessageTypeMemberJoined,
		"hook":    MessageTypeWebhook,
	} {
		m, err := s.SelectMessage(id)
		if err != nil {
			t.Fatalf("SelectMessage(%s): %v", id, err)
		}
		if m.Type != want {
			t.Fatalf("type(%s) = %v, want %v", id, m.Type, want)
		}
	}

	joined, _ := s.SelectMessage("joined")
	if !joined.IsSystemMessage || joined.IsAppMessage {
		t.Fatalf("joined flags = %#v, want system message", joined)
	}
	hook, _ := s.SelectMessage("hook")
	if !hook.IsAppMessage || hook.Author == nil || !hook.Author.IsApp {
		t.Fatalf("hook = %#v, want app author view", hook)
	}

	if _, err := s.SelectMessage("bogus"); err == nil || !strings.Contains(err.Error(), "unrecognized message type") {
		t.Fatalf("err = %v, want unrecognized type tag failure", err)
	}
	if _, err := s.SelectChannelMessages("ch2"); err == nil {
		t.Fatal("channel listing swallowed the classification error")
	}
}

func TestReplyResolution(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{
		{ID: "root", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2", Content: "first"},
		{ID: "reply", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u-local", Content: "second", ReplyToID: "root"},
		{ID: "nested", ChannelID: "ch1", ServerID: "srv1", AuthorID: "u2", Content: "third", ReplyToID: "reply"},
	}})

	nested, err := s.SelectMessage("nested")
	if err != nil {
		t.Fatalf("SelectMessage: %v", err)
	}
	if !nested.IsReply || nested.RepliedMessage == nil || nested.RepliedMessage.ID != "reply" {
		t.Fatalf("nested = %#v, want immediate parent resolved", nested)
	}
	if nested.RepliedMessage.RepliedMessage == nil || nested.RepliedMessage.RepliedMessage.ID != "root" {
		t.Fatal("parent resolved without its own reply target")
	}

	// A reply whose target is unknown resolves with absence, not an error.
	s.Dispatch(MessageCreated{Message: &Message{ID: "orphan", ChannelID: "ch1", AuthorID: "u2", ReplyToID: "ghost"}, LocalUserID: "u-local"})
	orphan, err := s.SelectMessage("orphan")
	if err != nil {
		t.Fatalf("SelectMessage(orphan): %v", err)
	}
	if orphan.RepliedMessage != nil {
		t.Fatalf("orphan.RepliedMessage = %#v, want nil", orphan.RepliedMessage)
	}
}

func TestDMAuthorIsBareUser(t *testing.T) {
	s := newSyncedStore(t)
	s.Dispatch(MessagesFetched{Messages: []*Message{{ID: "dm-msg", ChannelID: "dm1", AuthorID: "u2", Content: "psst"}}})

	m, _ := s.SelectMessage("dm-msg")
	if m.Author == nil || m.Author.ServerID != "" || m.Author.DisplayName != "Remote" {
		t.Fatalf("author = %#v, want bare user view without server nickname", m.Author)
	}
}

func messageIDs(messages []*ResolvedMessage) string {
	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	return strings.Join(ids, ",")
}
