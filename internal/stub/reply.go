package stub

import (
	"fmt"
	"strings"
)

// generateReply produces a deterministic canned assistant reply. The real
// backend runs a language model here; the stub only needs something stable
// enough to develop and test the client against.
func generateReply(userText string) string {
	text := strings.TrimSpace(userText)
	if text == "" {
		return "I didn't catch that. Could you say it again?"
	}
	const maxEcho = 80
	runes := []rune(text)
	if len(runes) > maxEcho {
		text = string(runes[:maxEcho]) + "..."
	}
	return fmt.Sprintf("You said: %q. This is a canned reply from the stub backend.", text)
}
