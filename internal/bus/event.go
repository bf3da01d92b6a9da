package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the client state layer. Subscribers filter by
// namespace prefix, e.g. "chatlist." or "transcript.".
const (
	KindChatListUpdated   = "chatlist.updated"
	KindTranscriptUpdated = "transcript.updated"
	KindPhaseChanged      = "transcript.phase_changed"
	KindAuthChanged       = "auth.changed"
	KindNavigate          = "nav.requested"
)
