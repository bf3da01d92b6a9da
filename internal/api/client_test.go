package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("got %s %s, want POST /login", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatal(err)
		}
		if creds.Email != "a@b.c" || creds.Password != "pw" {
			t.Errorf("credentials = %+v", creds)
		}
		_, _ = w.Write([]byte(`{"session":{"access_token":"tok-1"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	token, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok-xyz"))
	if _, err := c.ListChats(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-xyz" {
		t.Errorf("Authorization = %q, want Bearer tok-xyz", gotAuth)
	}
}

func TestNoAuthorizationHeaderWhenUnauthenticated(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	if _, err := c.ListChats(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hasAuth {
		t.Error("Authorization header present on unauthenticated request")
	}
}

func TestContentTypeAlwaysSet(t *testing.T) {
	var ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	if _, err := c.ListChats(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestGetChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_chat/chat-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"title":"Trip","messages":[{"role":"user","text":"hi"},{"role":"assistant","text":"hello"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"))
	tr, err := c.GetChat(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if tr.Title != "Trip" {
		t.Errorf("title = %q, want Trip", tr.Title)
	}
	if len(tr.Messages) != 2 || tr.Messages[1].Role != RoleAssistant {
		t.Errorf("messages = %+v", tr.Messages)
	}
}

func TestCreateChatDecodesSequence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body NewChat
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.ChatTitle != "Trip" || body.FirstMessage.Text != "hi" {
			t.Errorf("body = %+v", body)
		}
		_, _ = w.Write([]byte(`["chat-9",{"role":"assistant","text":"welcome"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"))
	id, reply, err := c.CreateChat(context.Background(), "Trip", "hi")
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	if id != "chat-9" {
		t.Errorf("id = %q, want chat-9", id)
	}
	if reply == nil || reply.Text != "welcome" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestCreateChatWithoutReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["chat-9"]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"))
	id, reply, err := c.CreateChat(context.Background(), "Trip", "hi")
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	if id != "chat-9" || reply != nil {
		t.Errorf("id = %q, reply = %+v", id, reply)
	}
}

func TestRenameAndDeleteMethods(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"))
	if err := c.RenameChat(context.Background(), "c1", "New"); err != nil {
		t.Fatal(err)
	}
	if method != http.MethodPut || path != "/rename_chat/c1" {
		t.Errorf("got %s %s, want PUT /rename_chat/c1", method, path)
	}

	if err := c.DeleteChat(context.Background(), "c1"); err != nil {
		t.Fatal(err)
	}
	if method != http.MethodDelete || path != "/delete_chat/c1" {
		t.Errorf("got %s %s, want DELETE /delete_chat/c1", method, path)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""))
	_, err := c.Login(context.Background(), Credentials{Email: "x", Password: "y"})
	if err == nil {
		t.Fatal("Login() expected error")
	}

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if he.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", he.Status)
	}
	if he.Detail() != "invalid credentials" {
		t.Errorf("Detail() = %q, want invalid credentials", he.Detail())
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, staticTokens(""))
	_, err := c.ListChats(context.Background())
	if err == nil {
		t.Fatal("ListChats() expected error")
	}

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if he.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport fault", he.Status)
	}
	if he.Err == nil {
		t.Error("Err = nil, want wrapped transport error")
	}
}

func TestDetailFallsBackToBody(t *testing.T) {
	he := &HTTPError{Status: 500, Body: "plain text failure"}
	if got := he.Detail(); got != "plain text failure" {
		t.Errorf("Detail() = %q, want raw body", got)
	}
}
