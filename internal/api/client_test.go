package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchInitialData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ready" {
			t.Fatalf("path = %s, want /api/ready", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("authorization = %q, want bearer token", got)
		}
		_, _ = w.Write([]byte(`{
			"user": {"id": "u1", "display_name": "Local"},
			"apps": [{"id": "app1", "name": "Hook"}],
			"servers": [{
				"id": "srv1",
				"name": "General",
				"channels": [{"id": "ch1", "name": "lounge", "kind": "server"}],
				"sections": [{"id": "sec1", "name": "Text", "position": 1, "channels": ["ch1"]}],
				"members": [{
					"member": {"id": "m1", "server": "srv1", "user": "u1"},
					"user": {"id": "u1", "display_name": "Local"}
				}]
			}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	data, err := client.FetchInitialData(context.Background())
	if err != nil {
		t.Fatalf("FetchInitialData: %v", err)
	}
	if data.User == nil || data.User.ID != "u1" {
		t.Fatalf("user = %#v", data.User)
	}
	if len(data.Servers) != 1 || data.Servers[0].Server.Name != "General" {
		t.Fatalf("servers = %#v", data.Servers)
	}
	sp := data.Servers[0]
	if len(sp.Channels) != 1 || len(sp.Sections) != 1 || len(sp.Members) != 1 {
		t.Fatalf("server payload = %#v, want channels/sections/members decoded", sp)
	}
	if sp.Members[0].Member.ID != "m1" || sp.Members[0].User.ID != "u1" {
		t.Fatalf("member payload = %#v", sp.Members[0])
	}
	if len(data.Apps) != 1 || data.Apps[0].Name != "Hook" {
		t.Fatalf("apps = %#v", data.Apps)
	}
}

func TestCreateMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/messages" {
			t.Fatalf("request = %s %s, want POST /api/messages", r.Method, r.URL.Path)
		}
		var req CreateMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.ChannelID != "ch1" || req.Content != "hello" {
			t.Fatalf("body = %#v", req)
		}
		_, _ = w.Write([]byte(`{"message": {"id": "msg1", "channel": "ch1", "author": "u1", "content": "hello"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	msg, err := client.CreateMessage(context.Background(), CreateMessageRequest{ChannelID: "ch1", Content: "hello"})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.ID != "msg1" || msg.ChannelID != "ch1" {
		t.Fatalf("message = %#v", msg)
	}
}

func TestUpdateMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/messages/msg1" {
			t.Fatalf("request = %s %s, want PATCH /api/messages/msg1", r.Method, r.URL.Path)
		}
		var req UpdateMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Content != "edited" {
			t.Fatalf("body = %#v", req)
		}
		_, _ = w.Write([]byte(`{"message": {"id": "msg1", "channel": "ch1", "author": "u1", "content": "edited"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	msg, err := client.UpdateMessage(context.Background(), "msg1", UpdateMessageRequest{Content: "edited"})
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if msg.ID != "msg1" || msg.Content != "edited" {
		t.Fatalf("message = %#v", msg)
	}
}

func TestDeleteMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/messages/msg1" {
			t.Fatalf("request = %s %s, want DELETE /api/messages/msg1", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := client.DeleteMessage(context.Background(), "msg1"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
}

func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.FetchMessage(context.Background(), "msg1"); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestParseBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"chat.example.com", "https://chat.example.com", true},
		{"http://localhost:4000", "http://localhost:4000", true},
		{"  ", "", false},
	}
	for _, tc := range cases {
		u, err := parseBaseURL(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("parseBaseURL(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if err == nil && u.String() != tc.want {
			t.Fatalf("parseBaseURL(%q) = %s, want %s", tc.in, u, tc.want)
		}
	}
}
