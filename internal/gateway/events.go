package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/murmurchat/murmur/internal/store"
)

// envelope is the wire frame every gateway event arrives in.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type messageEvent struct {
	Message *store.Message `json:"message"`
}

type memberJoinedEvent struct {
	Member *store.ServerMember `json:"member"`
	User   *store.User         `json:"user"`
}

type memberProfileEvent struct {
	MemberID       string  `json:"member"`
	DisplayName    *string `json:"display_name"`
	ProfilePicture *string `json:"pfp"`
}

// decodeEvent turns one gateway frame into the store action it describes.
// localUserID is attached to creation pushes so the store can drop the
// echo of a pending local send. Unknown event types decode to (nil, nil):
// the backend is free to grow events this client does not know yet.
func decodeEvent(raw []byte, localUserID string) (store.Action, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	switch env.Type {
	case "message-created":
		ev, err := decodeMessageEvent(env)
		if err != nil {
			return nil, err
		}
		return store.MessageCreated{Message: ev.Message, LocalUserID: localUserID}, nil

	case "message-updated":
		ev, err := decodeMessageEvent(env)
		if err != nil {
			return nil, err
		}
		return store.MessageUpdated{Message: ev.Message}, nil

	case "message-removed":
		ev, err := decodeMessageEvent(env)
		if err != nil {
			return nil, err
		}
		return store.MessageRemoved{MessageID: ev.Message.ID}, nil

	case "message-reaction-added":
		ev, err := decodeMessageEvent(env)
		if err != nil {
			return nil, err
		}
		return store.MessageReactionAdded{Message: ev.Message}, nil

	case "message-reaction-removed":
		ev, err := decodeMessageEvent(env)
		if err != nil {
			return nil, err
		}
		return store.MessageReactionRemoved{Message: ev.Message}, nil

	case "server-member-joined":
		var ev memberJoinedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if ev.Member == nil {
			return nil, fmt.Errorf("decode %s: missing member", env.Type)
		}
		return store.MemberJoined{Member: ev.Member, User: ev.User}, nil

	case "server-member-profile-updated":
		var ev memberProfileEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if ev.MemberID == "" {
			return nil, fmt.Errorf("decode %s: missing member id", env.Type)
		}
		return store.MemberProfileUpdated{
			MemberID:       ev.MemberID,
			DisplayName:    ev.DisplayName,
			ProfilePicture: ev.ProfilePicture,
		}, nil

	case "logout":
		return store.Logout{}, nil
	}

	return nil, nil
}

func decodeMessageEvent(env envelope) (messageEvent, error) {
	var ev messageEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		return messageEvent{}, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	if ev.Message == nil {
		return messageEvent{}, fmt.Errorf("decode %s: missing message", env.Type)
	}
	return ev, nil
}
