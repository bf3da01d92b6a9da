package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TokenSource supplies the current bearer token, or empty when the session
// is unauthenticated. The credential file itself is owned by internal/auth;
// the client only reads through this interface.
type TokenSource interface {
	Token() string
}

// Client wraps HTTP calls to the chat backend. Every request carries
// Content-Type: application/json; the Authorization header is attached only
// when a token is present, since the backend treats header absence as the
// unauthenticated signal.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Session.AccessToken, nil
}

// Signup registers a new account. The user logs in separately afterwards.
func (c *Client) Signup(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "/signup", creds, nil)
}

// Signout invalidates the server-side session.
func (c *Client) Signout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/signout", nil, nil)
}

// ListChats returns every conversation known to the backend for this user.
func (c *Client) ListChats(ctx context.Context) ([]ChatSummary, error) {
	var chats []ChatSummary
	if err := c.do(ctx, http.MethodGet, "/list_chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat fetches the full transcript for one conversation.
func (c *Client) GetChat(ctx context.Context, id string) (*Transcript, error) {
	var t Transcript
	if err := c.do(ctx, http.MethodGet, "/get_chat/"+id, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateChat creates a conversation with its first user message. The backend
// responds with a sequence whose first element is the new chat id; a second
// element, when present, is the assistant's reply to the first message.
func (c *Client) CreateChat(ctx context.Context, title, firstMessage string) (string, *Message, error) {
	body := NewChat{
		ChatTitle:    title,
		FirstMessage: Message{Role: RoleUser, Text: firstMessage},
	}
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/create_chat", body, &raw); err != nil {
		return "", nil, err
	}
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("create_chat: empty response sequence")
	}
	var id string
	if err := json.Unmarshal(raw[0], &id); err != nil {
		return "", nil, fmt.Errorf("create_chat: decode chat id: %w", err)
	}
	var reply *Message
	if len(raw) > 1 {
		var m Message
		if err := json.Unmarshal(raw[1], &m); err == nil {
			reply = &m
		}
	}
	return id, reply, nil
}

// AddMessage posts a user message and returns the assistant's reply.
func (c *Client) AddMessage(ctx context.Context, chatID, text string) (*Message, error) {
	var reply Message
	body := Message{Role: RoleUser, Text: text}
	if err := c.do(ctx, http.MethodPost, "/add_message_to_chat/"+chatID, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// RenameChat changes a conversation's title. Only the status matters.
func (c *Client) RenameChat(ctx context.Context, chatID, title string) error {
	return c.do(ctx, http.MethodPut, "/rename_chat/"+chatID, RenameRequest{Title: title}, nil)
}

// DeleteChat removes a conversation.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/delete_chat/"+chatID, nil, nil)
}

// do issues one request and decodes a 2xx JSON response into out (when out is
// non-nil). Non-2xx responses and transport faults both come back as *HTTPError.
// There are no retries and no client-side timeout beyond ctx.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &HTTPError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &HTTPError{Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
