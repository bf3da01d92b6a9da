package chat

import "github.com/ananyak/chatterm/internal/api"

// DeliveryStatus tracks what the client knows about an optimistically
// appended message. Entries that came from the backend are always Delivered.
type DeliveryStatus int

const (
	Delivered DeliveryStatus = iota
	Pending
	Failed
)

func (s DeliveryStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "delivered"
	}
}

// Entry is one transcript line: the wire message plus client-side delivery
// state. A failed optimistic send stays visible, marked Failed, instead of
// silently looking identical to a delivered one.
type Entry struct {
	Message api.Message
	Status  DeliveryStatus
}

// Pages the TUI can navigate to on a store/controller's request.
const (
	PageLogin     = "login"
	PageSignup    = "signup"
	PageDashboard = "dashboard"
	PageChat      = "chat"
	PageNewChat   = "newchat"
)

// NavTarget is the payload of a nav.requested bus event. ChatID is set only
// when Page is the chat page.
type NavTarget struct {
	Page   string
	ChatID string
}
