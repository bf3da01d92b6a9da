package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/bus"
)

// Session bundles the per-session shared state: the credential gate, the
// backend client, and the chat list store. It is constructed at application
// start and passed by reference to views; nothing here is a package-level
// global. Sign-out tears the shared state down in place.
type Session struct {
	Gate   *auth.Gate
	Client *api.Client
	List   *ListStore
	Bus    *bus.Bus
	Logger *zap.Logger
}

// NewSession wires the shared session state together.
func NewSession(gate *auth.Gate, client *api.Client, b *bus.Bus, logger *zap.Logger) *Session {
	return &Session{
		Gate:   gate,
		Client: client,
		List:   NewListStore(client, gate, b, logger),
		Bus:    b,
		Logger: logger,
	}
}

// Controller creates a session controller for one conversation, bound to
// this session's shared state. Pass an empty chatID for views that only
// create, rename or delete.
func (s *Session) Controller(ctx context.Context, chatID string) *SessionController {
	return NewSessionController(ctx, chatID, s.Client, s.Gate, s.List, s.Bus, s.Logger)
}

// Login authenticates against the backend and stores the issued token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.Client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.Gate.SignIn(token)
}

// Signup registers a new account. The caller logs in afterwards.
func (s *Session) Signup(ctx context.Context, email, password string) error {
	return s.Client.Signup(ctx, api.Credentials{Email: email, Password: password})
}

// SignOut notifies the backend best-effort, then unconditionally destroys
// the local credential and resets the chat list, re-arming its fetch-once
// guard. Local teardown never depends on the server answering.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.Client.Signout(ctx); err != nil {
		s.Logger.Warn("backend signout failed", zap.Error(err))
	}
	if err := s.Gate.SignOut(); err != nil {
		return err
	}
	s.List.Reset()
	return nil
}
