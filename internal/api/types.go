package api

// Message roles as used on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSummary identifies one conversation in the chat list. It never holds
// message content.
type ChatSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is a single transcript entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Transcript is the full materialized state of one open conversation.
type Transcript struct {
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Credentials is the login/signup request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Session struct {
		AccessToken string `json:"access_token"`
	} `json:"session"`
}

// NewChat is the create_chat request body.
type NewChat struct {
	ChatTitle    string  `json:"chat_title"`
	FirstMessage Message `json:"first_message"`
}

// RenameRequest is the rename_chat request body.
type RenameRequest struct {
	Title string `json:"title"`
}
