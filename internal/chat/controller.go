package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/api"
	"github.com/ananyak/chatterm/internal/auth"
	"github.com/ananyak/chatterm/internal/bus"
)

// ErrAuthRequired means no credential is present; the caller must redirect
// to the login page instead of fetching.
var ErrAuthRequired = errors.New("authentication required")

// ErrSendInFlight means a send is already outstanding for this conversation.
// Sends are serialized through a single slot rather than trusting the view
// to disable the composer.
var ErrSendInFlight = errors.New("send already in flight")

// SessionController owns the transcript of one open conversation. It is
// created when the chat page mounts and closed when the page unmounts;
// the transcript is never cached across conversations or shared.
type SessionController struct {
	client *api.Client
	gate   *auth.Gate
	list   *ListStore
	bus    *bus.Bus
	logger *zap.Logger
	phase  *phaseMachine

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	chatID       string
	title        string
	titleMissing bool
	entries      []Entry
}

// NewSessionController creates a controller bound to chatID. An empty chatID
// is allowed for views that only create, rename or delete conversations.
// The parent context bounds every request the controller issues; Close
// cancels it so responses arriving after teardown are discarded.
func NewSessionController(parent context.Context, chatID string, client *api.Client, gate *auth.Gate, list *ListStore, b *bus.Bus, logger *zap.Logger) *SessionController {
	ctx, cancel := context.WithCancel(parent)
	return &SessionController{
		client: client,
		gate:   gate,
		list:   list,
		bus:    b,
		logger: logger,
		phase:  newPhaseMachine(b),
		ctx:    ctx,
		cancel: cancel,
		chatID: chatID,
	}
}

// Close invalidates the controller's lifetime. In-flight requests are
// cancelled and any straggling responses are dropped instead of applied.
func (c *SessionController) Close() {
	c.cancel()
}

// ChatID returns the bound conversation id, empty if none.
func (c *SessionController) ChatID() string { return c.chatID }

// Phase returns the controller's current lifecycle phase.
func (c *SessionController) Phase() Phase { return c.phase.Current() }

// Title returns the conversation title and whether it is missing because
// the history fetch failed.
func (c *SessionController) Title() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title, c.titleMissing
}

// Entries returns a snapshot of the transcript.
func (c *SessionController) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Open loads the conversation history. Unauthenticated sessions get
// ErrAuthRequired and no request is issued. A failed fetch degrades to a
// Ready state with an empty transcript and a missing title; there is no
// retry.
func (c *SessionController) Open() error {
	if c.chatID == "" {
		return nil
	}
	if !c.gate.IsAuthenticated() {
		return ErrAuthRequired
	}
	if err := c.phase.Transition(PhaseLoading); err != nil {
		return err
	}

	transcript, err := c.client.GetChat(c.ctx, c.chatID)

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return c.ctx.Err()
	}
	if err != nil {
		c.entries = nil
		c.titleMissing = true
	} else {
		c.title = transcript.Title
		c.titleMissing = false
		entries := make([]Entry, 0, len(transcript.Messages))
		for _, m := range transcript.Messages {
			entries = append(entries, Entry{Message: m})
		}
		c.entries = entries
	}
	c.mu.Unlock()

	_ = c.phase.Transition(PhaseReady)
	if err != nil {
		c.logger.Error("failed to load chat history",
			zap.String("chat_id", c.chatID), zap.Error(err))
	}
	c.publishTranscript()
	return nil
}

// Send optimistically appends the user message, posts it, and appends the
// assistant reply on success. Empty or whitespace-only text is a silent
// no-op. A failed send leaves the user message visible, marked Failed; it
// is never rolled back. The phase always returns to Ready.
func (c *SessionController) Send(text string) error {
	if strings.TrimSpace(text) == "" || c.chatID == "" {
		return nil
	}
	// Single-slot in-flight guard: Sending has no transition to itself.
	if err := c.phase.Transition(PhaseSending); err != nil {
		return ErrSendInFlight
	}

	c.mu.Lock()
	idx := len(c.entries)
	c.entries = append(c.entries, Entry{
		Message: api.Message{Role: api.RoleUser, Text: text},
		Status:  Pending,
	})
	c.mu.Unlock()
	c.publishTranscript()

	reply, err := c.client.AddMessage(c.ctx, c.chatID, text)

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		_ = c.phase.Transition(PhaseReady)
		return c.ctx.Err()
	}
	if err != nil {
		c.entries[idx].Status = Failed
	} else {
		c.entries[idx].Status = Delivered
		c.entries = append(c.entries, Entry{Message: *reply})
	}
	c.mu.Unlock()

	_ = c.phase.Transition(PhaseReady)
	if err != nil {
		c.logger.Error("failed to send message",
			zap.String("chat_id", c.chatID), zap.Error(err))
	}
	c.publishTranscript()
	return nil
}

// CreateChat creates a conversation with its first user message, inserts it
// into the list store, and requests navigation to it. Blank title or message
// is a silent no-op.
func (c *SessionController) CreateChat(title, firstMessage string) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(firstMessage) == "" {
		return "", nil
	}
	id, _, err := c.client.CreateChat(c.ctx, title, firstMessage)
	if err != nil {
		c.logger.Error("failed to create chat", zap.Error(err))
		return "", err
	}
	c.list.Add(api.ChatSummary{ID: id, Title: title})
	c.navigate(NavTarget{Page: PageChat, ChatID: id})
	return id, nil
}

// Rename changes a conversation's title, committing to the list store only
// after the backend confirmed. Blank titles are a silent no-op, so a failed
// or empty rename leaves the displayed title untouched.
func (c *SessionController) Rename(id, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return nil
	}
	if err := c.client.RenameChat(c.ctx, id, newTitle); err != nil {
		c.logger.Error("failed to rename chat",
			zap.String("chat_id", id), zap.Error(err))
		return err
	}
	c.list.SetTitle(id, newTitle)
	return nil
}

// Delete removes a conversation. On success the list store drops it, and if
// it was the open conversation the view is sent back to the dashboard.
func (c *SessionController) Delete(id string) error {
	if err := c.client.DeleteChat(c.ctx, id); err != nil {
		c.logger.Error("failed to delete chat",
			zap.String("chat_id", id), zap.Error(err))
		return err
	}
	c.list.Remove(id)
	if id == c.chatID {
		c.navigate(NavTarget{Page: PageDashboard})
	}
	return nil
}

func (c *SessionController) publishTranscript() {
	if c.bus == nil {
		return
	}
	c.bus.Publish(bus.Event{Kind: bus.KindTranscriptUpdated, Timestamp: time.Now()})
}

func (c *SessionController) navigate(target NavTarget) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(bus.Event{Kind: bus.KindNavigate, Timestamp: time.Now(), Payload: target})
}
