package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/murmurchat/murmur/internal/store"
)

// Fetcher defines the read side of the murmur API. Implemented by *Client
// and mockable in tests.
type Fetcher interface {
	FetchInitialData(ctx context.Context) (InitialData, error)
	FetchChannelMessages(ctx context.Context, channelID string) ([]*store.Message, error)
	FetchMessage(ctx context.Context, messageID string) (*store.Message, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the murmur backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultUserAgent = "murmur/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL and session token.
func NewClient(baseURL, token string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchInitialData retrieves the full-sync payload.
func (c *Client) FetchInitialData(ctx context.Context) (InitialData, error) {
	if c == nil {
		return InitialData{}, fmt.Errorf("client is nil")
	}
	var payload initialDataResponse
	if err := c.do(ctx, http.MethodGet, "/api/ready", nil, &payload); err != nil {
		return InitialData{}, err
	}
	return payload.toInitialData(), nil
}

// FetchChannelMessages retrieves a channel's recent messages.
func (c *Client) FetchChannelMessages(ctx context.Context, channelID string) ([]*store.Message, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload messageListResponse
	path := "/api/channels/" + url.PathEscape(channelID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// FetchMessage retrieves a single message by id.
func (c *Client) FetchMessage(ctx context.Context, messageID string) (*store.Message, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload messageResponse
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(messageID), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Message, nil
}

// CreateMessage submits a send intent and returns the authoritative record.
func (c *Client) CreateMessage(ctx context.Context, req CreateMessageRequest) (*store.Message, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &payload); err != nil {
		return nil, err
	}
	return payload.Message, nil
}

// UpdateMessage submits an edit and returns the authoritative record.
func (c *Client) UpdateMessage(ctx context.Context, messageID string, req UpdateMessageRequest) (*store.Message, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload messageResponse
	if err := c.do(ctx, http.MethodPatch, "/api/messages/"+url.PathEscape(messageID), req, &payload); err != nil {
		return nil, err
	}
	return payload.Message, nil
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(messageID), nil, nil)
}

// AddReaction records the local user's reaction on a message.
func (c *Client) AddReaction(ctx context.Context, messageID, emoji string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path := "/api/messages/" + url.PathEscape(messageID) + "/reactions"
	return c.do(ctx, http.MethodPost, path, reactionRequest{Emoji: emoji}, nil)
}

// RemoveReaction withdraws the local user's reaction from a message.
func (c *Client) RemoveReaction(ctx context.Context, messageID, emoji string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path := "/api/messages/" + url.PathEscape(messageID) + "/reactions/" + url.PathEscape(emoji)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s %s returned status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
