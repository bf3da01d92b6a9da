package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/bus"
)

// ListStore is the session-wide set of known conversations. It is shared by
// every view that renders the sidebar; the transcript of an open conversation
// lives in SessionController instead and is never shared.
type ListStore struct {
	mu      sync.Mutex
	client  *api.Client
	gate    *auth.Gate
	bus     *bus.Bus
	logger  *zap.Logger
	chats   []api.ChatSummary
	fetched bool
	loading bool
}

// NewListStore creates an empty chat list store.
func NewListStore(client *api.Client, gate *auth.Gate, b *bus.Bus, logger *zap.Logger) *ListStore {
	return &ListStore{
		client: client,
		gate:   gate,
		bus:    b,
		logger: logger,
	}
}

// Fetch loads the chat list from the backend once per session. Repeat calls
// after a successful fetch are no-ops; views may mount as often as they like
// without refiring the request. Unauthenticated sessions never issue the
// request at all.
func (s *ListStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	if s.fetched || s.loading || !s.gate.IsAuthenticated() {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()
	s.publish()

	chats, err := s.client.ListChats(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		// Chats stay empty; the next mount may retry.
		s.mu.Unlock()
		s.logger.Error("failed to fetch chat list", zap.Error(err))
		s.publish()
		return
	}
	s.chats = chats
	s.fetched = true
	s.mu.Unlock()
	s.publish()
}

// Chats returns a snapshot of the current chat list.
func (s *ListStore) Chats() []api.ChatSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.ChatSummary, len(s.chats))
	copy(out, s.chats)
	return out
}

// Loading reports whether the initial fetch is in flight.
func (s *ListStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Fetched reports whether the list has been loaded this session.
func (s *ListStore) Fetched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}

// Add appends a freshly created conversation. This is the one optimistic
// list mutation: the caller has the backend's id from create_chat but the
// list is never re-fetched to confirm it.
func (s *ListStore) Add(summary api.ChatSummary) {
	s.mu.Lock()
	s.chats = append(s.chats, summary)
	s.mu.Unlock()
	s.publish()
}

// SetTitle renames the matching entry. Called only after the backend rename
// already succeeded, so the stored title and the server agree.
func (s *ListStore) SetTitle(id, title string) {
	s.mu.Lock()
	for i := range s.chats {
		if s.chats[i].ID == id {
			s.chats[i].Title = title
			break
		}
	}
	s.mu.Unlock()
	s.publish()
}

// Remove drops the matching entry. Called only after the backend delete
// succeeded.
func (s *ListStore) Remove(id string) {
	s.mu.Lock()
	kept := s.chats[:0]
	for _, c := range s.chats {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.chats = kept
	s.mu.Unlock()
	s.publish()
}

// Reset clears all state and re-arms the fetch-once guard. Called at
// sign-out so the next authenticated session starts clean.
func (s *ListStore) Reset() {
	s.mu.Lock()
	s.chats = nil
	s.fetched = false
	s.loading = false
	s.mu.Unlock()
	s.publish()
}

func (s *ListStore) publish() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: bus.KindChatListUpdated, Timestamp: time.Now()})
}
