package gateway

import (
	"testing"

	"github.com/murmurchat/murmur/internal/store"
)

func TestDecodeMessageCreated(t *testing.T) {
	raw := []byte(`{"type": "message-created", "data": {"message": {"id": "msg1", "channel": "ch1", "author": "u2", "content": "hi"}}}`)

	action, err := decodeEvent(raw, "u-local")
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	created, ok := action.(store.MessageCreated)
	if !ok {
		t.Fatalf("action = %T, want MessageCreated", action)
	}
	if created.Message.ID != "msg1" || created.LocalUserID != "u-local" {
		t.Fatalf("action = %#v", created)
	}
}

func TestDecodeMessageRemoved(t *testing.T) {
	raw := []byte(`{"type": "message-removed", "data": {"message": {"id": "msg1"}}}`)

	action, err := decodeEvent(raw, "u-local")
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	removed, ok := action.(store.MessageRemoved)
	if !ok || removed.MessageID != "msg1" {
		t.Fatalf("action = %#v, want MessageRemoved{msg1}", action)
	}
}

func TestDecodeReactionPush(t *testing.T) {
	raw := []byte(`{"type": "message-reaction-added", "data": {"message": {"id": "msg1", "channel": "ch1", "author": "u2", "reactions": [{"emoji": "👍", "count": 1, "users": ["u2"]}]}}}`)

	action, err := decodeEvent(raw, "u-local")
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	added, ok := action.(store.MessageReactionAdded)
	if !ok {
		t.Fatalf("action = %T, want MessageReactionAdded", action)
	}
	if len(added.Message.Reactions) != 1 || added.Message.Reactions[0].Count != 1 {
		t.Fatalf("reactions = %#v", added.Message.Reactions)
	}
}

func TestDecodeMemberProfileUpdated(t *testing.T) {
	raw := []byte(`{"type": "server-member-profile-updated", "data": {"member": "m1", "display_name": "New Name"}}`)

	action, err := decodeEvent(raw, "u-local")
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	updated, ok := action.(store.MemberProfileUpdated)
	if !ok {
		t.Fatalf("action = %T, want MemberProfileUpdated", action)
	}
	if updated.MemberID != "m1" || updated.DisplayName == nil || *updated.DisplayName != "New Name" {
		t.Fatalf("action = %#v", updated)
	}
	if updated.ProfilePicture != nil {
		t.Fatalf("pfp = %v, want nil for an absent field", *updated.ProfilePicture)
	}
}

func TestDecodeUnknownTypeIgnored(t *testing.T) {
	action, err := decodeEvent([]byte(`{"type": "voice-state-changed", "data": {}}`), "u-local")
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if action != nil {
		t.Fatalf("action = %#v, want unknown event ignored", action)
	}
}

func TestDecodeMalformedEnvelope(t *testing.T) {
	if _, err := decodeEvent([]byte(`{"type": "message-created", "data": {"message": `), "u"); err == nil {
		t.Fatal("expected error for truncated frame")
	}
	if _, err := decodeEvent([]byte(`{"type": "message-created", "data": {}}`), "u"); err == nil {
		t.Fatal("expected error for missing message payload")
	}
}
